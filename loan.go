package cdptrack

import (
	"fmt"
	"iter"
	"slices"

	"github.com/cdptrack/cdptrack/date"
	"github.com/shopspring/decimal"
)

// DailyStat is one fully resolved day of a loan: prices, forward-filled
// amounts, cumulative interest and the solvency ratio.
//
// Internally every field keeps full precision; accessors round the surfaced
// values to two decimals so long histories never accumulate rounding drift.
type DailyStat struct {
	on         date.Date
	usdPrice   decimal.Decimal
	fxRate     decimal.Decimal
	cadPrice   decimal.Decimal
	collateral decimal.Decimal
	borrowed   decimal.Decimal
	interest   decimal.Decimal
	ratio      decimal.Decimal
	ratioOK    bool
}

// On returns the calendar day of the row.
func (s DailyStat) On() date.Date { return s.on }

// USDPrice returns the BTC/USD price, rounded to two decimals.
func (s DailyStat) USDPrice() decimal.Decimal { return s.usdPrice.Round(2) }

// FXRate returns the CAD/USD rate as observed, unrounded.
func (s DailyStat) FXRate() decimal.Decimal { return s.fxRate }

// CADPrice returns the BTC/CAD price, rounded to two decimals.
func (s DailyStat) CADPrice() decimal.Decimal { return s.cadPrice.Round(2) }

// Collateral returns the collateral amount in BTC, unrounded: it is an event
// value, not a computed one.
func (s DailyStat) Collateral() decimal.Decimal { return s.collateral }

// BorrowedCAD returns the borrowed amount prevailing on the day.
func (s DailyStat) BorrowedCAD() decimal.Decimal { return s.borrowed }

// InterestCAD returns cumulative interest up to and including the day,
// rounded to two decimals.
func (s DailyStat) InterestCAD() decimal.Decimal { return s.interest.Round(2) }

// Ratio returns the collateralization ratio rounded to two decimals, and
// false when the ratio is undefined (nothing borrowed on that day).
func (s DailyStat) Ratio() (decimal.Decimal, bool) {
	if !s.ratioOK {
		return decimal.Decimal{}, false
	}
	return s.ratio.Round(2), true
}

// resolveRatio recomputes the ratio field from the row's own values.
func (s *DailyStat) resolveRatio() {
	if s.borrowed.IsZero() {
		s.ratio, s.ratioOK = decimal.Decimal{}, false
		return
	}
	s.ratio, s.ratioOK = s.cadPrice.Mul(s.collateral).Div(s.borrowed), true
}

// Loan is a collateralized debt position: its identity, its two sparse
// snapshot histories, and the complete daily stat sequence computed from
// them. Loans live in memory for the process lifetime and are rebuilt from
// source events on restart.
type Loan struct {
	id            int
	walletAddress string
	startDate     date.Date

	collateral  date.History[decimal.Decimal]
	borrowedCAD date.History[decimal.Decimal]

	stats []DailyStat
}

func newLoan(id int, start date.Date, wallet string) *Loan {
	return &Loan{id: id, walletAddress: wallet, startDate: start}
}

// ID returns the loan's sequential identifier.
func (l *Loan) ID() int { return l.id }

// WalletAddress returns the wallet address backing the loan.
func (l *Loan) WalletAddress() string { return l.walletAddress }

// StartDate returns the loan's creation date.
func (l *Loan) StartDate() date.Date { return l.startDate }

// CurrentCollateral returns the latest collateral snapshot.
func (l *Loan) CurrentCollateral() decimal.Decimal {
	_, v := l.collateral.Latest()
	return v
}

// CurrentBorrowedCAD returns the latest borrowed snapshot.
func (l *Loan) CurrentBorrowedCAD() decimal.Decimal {
	_, v := l.borrowedCAD.Latest()
	return v
}

// CollateralHistory returns an iterator over the raw collateral snapshots.
func (l *Loan) CollateralHistory() iter.Seq2[date.Date, decimal.Decimal] {
	return l.collateral.Values()
}

// BorrowedHistory returns an iterator over the raw borrowed snapshots.
func (l *Loan) BorrowedHistory() iter.Seq2[date.Date, decimal.Decimal] {
	return l.borrowedCAD.Values()
}

// Stats returns a read-only iterator over the daily stat sequence, ascending.
func (l *Loan) Stats() iter.Seq[DailyStat] {
	return func(yield func(DailyStat) bool) {
		for _, s := range l.stats {
			if !yield(s) {
				return
			}
		}
	}
}

// StatsLen returns the number of computed daily rows.
func (l *Loan) StatsLen() int { return len(l.stats) }

// statIndex locates a stats row by day.
func (l *Loan) statIndex(on date.Date) (int, bool) {
	return slices.BinarySearchFunc(l.stats, on, func(s DailyStat, d date.Date) int {
		return s.on.Compare(d)
	})
}

// StatOn returns the stats row for a given day.
func (l *Loan) StatOn(on date.Date) (DailyStat, bool) {
	i, found := l.statIndex(on)
	if !found {
		return DailyStat{}, false
	}
	return l.stats[i], true
}

// LastStat returns the most recent stats row.
func (l *Loan) LastStat() (DailyStat, bool) {
	if len(l.stats) == 0 {
		return DailyStat{}, false
	}
	return l.stats[len(l.stats)-1], true
}

// BuildStats computes the loan's complete daily sequence over the timeline.
//
// The date axis is the timeline's rows from the loan start onward: no day is
// invented beyond what the price series covers. Amounts are forward-filled
// from the histories (an update landing exactly on an axis day takes effect
// on that day), interest accrues in one ascending pass starting with a full
// day on the first row, and the ratio is resolved per row.
//
// The result is a pure function of (start date, histories, timeline, rates):
// rebuilding from identical inputs yields an identical sequence.
func (l *Loan) BuildStats(tl *PriceTimeline, rates *RateSchedule) error {
	if !tl.Covers(l.startDate) {
		return fmt.Errorf("loan %q starts %s outside price data %s..%s: %w",
			l.walletAddress, l.startDate, tl.Span().From, tl.Span().To, ErrDataUnavailable)
	}
	firstKey, _ := l.collateral.First()
	if firstKey.IsZero() {
		return fmt.Errorf("loan %q has no collateral history: %w", l.walletAddress, ErrHistoryGap)
	}
	axis := date.NewRange(l.startDate, tl.Span().To)
	if axis.From.Before(firstKey) {
		return fmt.Errorf("loan %q axis starts %s before first snapshot %s: %w",
			l.walletAddress, axis.From, firstKey, ErrHistoryGap)
	}

	stats := make([]DailyStat, 0, axis.Len())
	interest := decimal.Decimal{}
	for d := range axis.Days() {
		usd, _ := tl.USDPrice(d)
		fx, _ := tl.FXAsOf(d)
		collateral, ok := l.collateral.ValueAsOf(d)
		if !ok {
			return fmt.Errorf("loan %q has no collateral at or before %s: %w", l.walletAddress, d, ErrHistoryGap)
		}
		borrowed, ok := l.borrowedCAD.ValueAsOf(d)
		if !ok {
			return fmt.Errorf("loan %q has no borrowed amount at or before %s: %w", l.walletAddress, d, ErrHistoryGap)
		}

		interest = interest.Add(rates.At(d).Mul(borrowed))

		row := DailyStat{
			on:         d,
			usdPrice:   usd,
			fxRate:     fx,
			cadPrice:   usd.Div(fx),
			collateral: collateral,
			borrowed:   borrowed,
			interest:   interest,
		}
		row.resolveRatio()
		stats = append(stats, row)
	}
	l.stats = stats
	return nil
}
