package date

import "iter"

// Range represents a contiguous range of days, boundaries included.
type Range struct{ From, To Date }

// NewRange returns the range covering from..to.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Contains reports whether the day falls inside the range.
func (r Range) Contains(day Date) bool { return !day.Before(r.From) && !day.After(r.To) }

// Len returns the number of days in the range, zero if the range is inverted.
func (r Range) Len() int {
	n := 0
	for d := r.From; !d.After(r.To); d = d.Add(1) {
		n++
	}
	return n
}

// Days returns an iterator over every day of the range in chronological
// order. An inverted range yields nothing.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}
