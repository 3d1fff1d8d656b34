package cdptrack

import (
	"fmt"
	"slices"

	"github.com/cdptrack/cdptrack/date"
	"github.com/shopspring/decimal"
)

// Candle is one daily BTC/USD observation as the price source delivers it.
// Only the close is used by the engine, the other fields are carried for
// persistence fidelity.
type Candle struct {
	On    date.Date       `json:"on"`
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

// FXRate is one daily CAD/USD observation.
type FXRate struct {
	On   date.Date       `json:"on"`
	Rate decimal.Decimal `json:"rate"`
}

// PriceTimeline holds gap-filled daily BTC/USD prices and CAD/USD rates over
// a requested span: exactly one value per calendar day, no holes.
//
// A PriceTimeline is immutable once built; live prices never touch it, they
// flow through the loans' stats directly.
type PriceTimeline struct {
	span   date.Range
	prices date.History[decimal.Decimal]
	fx     date.History[decimal.Decimal]
}

// NewPriceTimeline gap-fills the raw observations over span.
//
// A day without a price observation repeats the previous day's close; a
// missing first day is fatal (ErrDataGap) because there is nothing to carry
// forward. The FX series degrades instead: days before the first observation
// take defaultFX, the configured average rate. Rates divide prices, so a rate
// that is not strictly positive fails the build.
func NewPriceTimeline(span date.Range, candles []Candle, rates []FXRate, defaultFX decimal.Decimal) (*PriceTimeline, error) {
	if len(candles) == 0 {
		return nil, fmt.Errorf("building price timeline: no price observations: %w", ErrDataUnavailable)
	}
	if span.Len() == 0 {
		return nil, fmt.Errorf("building price timeline: empty span %s..%s: %w", span.From, span.To, ErrDataUnavailable)
	}

	var observed date.History[decimal.Decimal]
	for _, c := range candles {
		observed.Append(c.On, c.Close)
	}
	var observedFX date.History[decimal.Decimal]
	for _, r := range rates {
		// A zero rate would blow up every CAD division downstream.
		if !r.Rate.IsPositive() {
			return nil, fmt.Errorf("building price timeline: CAD/USD rate %s on %s is not positive: %w", r.Rate, r.On, ErrDataUnavailable)
		}
		observedFX.Append(r.On, r.Rate)
	}

	tl := &PriceTimeline{span: span}
	for d := range span.Days() {
		price, ok := observed.ValueAsOf(d)
		if !ok {
			return nil, fmt.Errorf("no price on or before %s: %w", d, ErrDataGap)
		}
		tl.prices.Append(d, price)

		rate, ok := observedFX.ValueAsOf(d)
		if !ok {
			if !defaultFX.IsPositive() {
				return nil, fmt.Errorf("building price timeline: no CAD/USD rate on or before %s and default %s is not positive: %w", d, defaultFX, ErrDataUnavailable)
			}
			rate = defaultFX
		}
		tl.fx.Append(d, rate)
	}
	return tl, nil
}

// Span returns the contiguous range of days the timeline covers.
func (tl *PriceTimeline) Span() date.Range { return tl.span }

// Covers reports whether the timeline has a row for that day.
func (tl *PriceTimeline) Covers(on date.Date) bool { return tl.span.Contains(on) }

// USDPrice returns the gap-filled BTC/USD close for a covered day.
func (tl *PriceTimeline) USDPrice(on date.Date) (decimal.Decimal, bool) {
	return tl.prices.Get(on)
}

// FXAsOf returns the CAD/USD rate for a day, carrying the last known rate
// forward for days past the end of the span. Live appends land one day after
// the span and reuse yesterday's rate until the next full refresh.
func (tl *PriceTimeline) FXAsOf(on date.Date) (decimal.Decimal, bool) {
	return tl.fx.ValueAsOf(on)
}

// CADPrice returns the BTC/CAD price for a covered day, usd_price / fx_rate.
func (tl *PriceTimeline) CADPrice(on date.Date) (decimal.Decimal, bool) {
	usd, ok := tl.prices.Get(on)
	if !ok {
		return decimal.Decimal{}, false
	}
	fx, ok := tl.fx.Get(on)
	if !ok || fx.IsZero() {
		return decimal.Decimal{}, false
	}
	return usd.Div(fx), true
}

// sortCandles orders raw observations chronologically in place. Sources
// deliver newest-first files, the engine wants ascending walks.
func sortCandles(candles []Candle) {
	slices.SortFunc(candles, func(a, b Candle) int { return a.On.Compare(b.On) })
}

// UpsertCandle merges one observation into a sorted candle slice: same-day
// observations are replaced, new days inserted in order.
func UpsertCandle(candles []Candle, c Candle) []Candle {
	i, found := slices.BinarySearchFunc(candles, c, func(a, b Candle) int { return a.On.Compare(b.On) })
	if found {
		candles[i] = c
		return candles
	}
	return slices.Insert(candles, i, c)
}

// SpanOf returns the range covered by the candles, first to last observation.
// The candles must be sorted, as DecodeCandles returns them.
func SpanOf(candles []Candle) date.Range {
	if len(candles) == 0 {
		return date.Range{}
	}
	return date.NewRange(candles[0].On, candles[len(candles)-1].On)
}
