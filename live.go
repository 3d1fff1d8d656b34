package cdptrack

import (
	"fmt"

	"github.com/cdptrack/cdptrack/date"
	"github.com/shopspring/decimal"
)

// PatchExisting overwrites the USD price of an existing stats row and
// recomputes the values derived from it: cad_price and the ratio. The
// event-driven fields (collateral, borrowed, interest) are untouched.
//
// The day must already be present in stats, otherwise ErrUnknownDate.
func (l *Loan) PatchExisting(on date.Date, usdPrice decimal.Decimal) error {
	i, found := l.statIndex(on)
	if !found {
		return fmt.Errorf("patching loan %q on %s: %w", l.walletAddress, on, ErrUnknownDate)
	}
	row := &l.stats[i]
	row.usdPrice = usdPrice
	row.cadPrice = usdPrice.Div(row.fxRate)
	row.resolveRatio()
	return nil
}

// AppendNew extends the stats with a fresh row exactly one calendar day
// after the current last row. Collateral and borrowed amounts forward-fill
// from the histories (a snapshot landing exactly on the new day takes
// effect), interest extends the accumulator by one day, and cad_price uses
// the supplied FX rate.
//
// An append that would skip or repeat a day fails with ErrSequenceGap.
func (l *Loan) AppendNew(on date.Date, usdPrice, fxRate decimal.Decimal, rates *RateSchedule) error {
	last, ok := l.LastStat()
	if !ok {
		return fmt.Errorf("appending to loan %q: no stats to extend: %w", l.walletAddress, ErrSequenceGap)
	}
	if on != last.on.Add(1) {
		return fmt.Errorf("appending %s to loan %q ending %s: %w", on, l.walletAddress, last.on, ErrSequenceGap)
	}

	collateral, _ := l.collateral.ValueAsOf(on)
	borrowed, _ := l.borrowedCAD.ValueAsOf(on)

	row := DailyStat{
		on:         on,
		usdPrice:   usdPrice,
		fxRate:     fxRate,
		cadPrice:   usdPrice.Div(fxRate),
		collateral: collateral,
		borrowed:   borrowed,
		interest:   last.interest.Add(rates.At(on).Mul(borrowed)),
	}
	row.resolveRatio()
	l.stats = append(l.stats, row)
	return nil
}
