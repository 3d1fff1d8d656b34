package cdptrack

import (
	"testing"

	"github.com/cdptrack/cdptrack/date"
	"github.com/shopspring/decimal"
)

// day is a shorthand for test fixtures.
func day(s string) date.Date { return date.MustParse(s) }

// dayZero is the zero date, for malformed-event fixtures.
func dayZero() date.Date { return date.Date{} }

// dec parses a decimal literal, panicking on bad fixtures.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// flatTimeline builds a timeline over from..to with a constant price and FX
// rate, a single observation on the first day forward-filled to the rest.
func flatTimeline(t *testing.T, from, to string, usd, fx string) *PriceTimeline {
	t.Helper()
	span := date.NewRange(day(from), day(to))
	tl, err := NewPriceTimeline(span,
		[]Candle{{On: day(from), Close: dec(usd)}},
		[]FXRate{{On: day(from), Rate: dec(fx)}},
		dec("0.75"))
	if err != nil {
		t.Fatalf("flatTimeline: %v", err)
	}
	return tl
}

// loadedBook builds a Book over the timeline and loads the events, failing
// the test on any load error.
func loadedBook(t *testing.T, tl *PriceTimeline, rates *RateSchedule, events ...Event) *Book {
	t.Helper()
	b := NewBook(tl, rates)
	if err := b.Load(NewEventLedger(events...)); err != nil {
		t.Fatalf("loading book: %v", err)
	}
	return b
}

// wantDec fails the test when got differs from the want literal.
func wantDec(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}
