package cdptrack

import (
	"github.com/cdptrack/cdptrack/date"
	"github.com/shopspring/decimal"
)

// daysPerYear converts an annual percentage yield into a daily rate.
var daysPerYear = decimal.NewFromInt(365)

// RateSchedule holds the daily interest rate keyed by effective date,
// forward-filled exactly like the loan histories. A fixed global rate is a
// one-entry schedule; dated entries make the rate time-varying.
type RateSchedule struct {
	rates date.History[decimal.Decimal]
}

// NewRateSchedule returns an empty schedule. An empty schedule accrues
// nothing.
func NewRateSchedule() *RateSchedule { return &RateSchedule{} }

// FixedDailyRate returns a schedule holding a single rate effective from the
// beginning of time.
func FixedDailyRate(rate decimal.Decimal) *RateSchedule {
	s := NewRateSchedule()
	s.rates.Append(date.Date{}, rate)
	return s
}

// SetDailyRate records a daily rate taking effect on the given day.
func (s *RateSchedule) SetDailyRate(on date.Date, rate decimal.Decimal) {
	s.rates.Append(on, rate)
}

// SetAPY records a rate change expressed as an annual percentage yield.
// The daily rate is (apy/365)/100 rounded to six decimals, matching the
// granularity the rate sheets are published with.
func (s *RateSchedule) SetAPY(on date.Date, apy decimal.Decimal) {
	s.rates.Append(on, apy.Div(daysPerYear).Shift(-2).Round(6))
}

// At returns the rate prevailing on a day. Days before the first entry take
// the first entry's rate, so a schedule seeded after a loan started still
// accrues from the loan's first day.
func (s *RateSchedule) At(on date.Date) decimal.Decimal {
	if rate, ok := s.rates.ValueAsOf(on); ok {
		return rate
	}
	_, first := s.rates.First()
	return first
}

// Len returns the number of rate changes in the schedule.
func (s *RateSchedule) Len() int { return s.rates.Len() }
