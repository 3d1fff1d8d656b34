package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each bound to a day.
// Days are unique and the series is always sorted; a History is the sparse
// snapshot sequence behind every forward-fill in the engine.
//
// The zero value is an empty history ready to use.
type History[T any] struct {
	days   []Date
	values []T
}

// Len returns the number of snapshots in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Append records a snapshot. An existing value on that exact day is
// overwritten: the last write wins.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := slices.BinarySearchFunc(h.days, on, Date.Compare)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Get returns the value recorded exactly on that day.
func (h *History[T]) Get(on Date) (T, bool) {
	i, found := slices.BinarySearchFunc(h.days, on, Date.Compare)
	if !found {
		var zero T
		return zero, false
	}
	return h.values[i], true
}

// ValueAsOf returns the value on a given day, or the most recent value before
// it. It never mutates the history: forward-fill passes share one History.
func (h *History[T]) ValueAsOf(on Date) (T, bool) {
	i, found := slices.BinarySearchFunc(h.days, on, Date.Compare)
	if found {
		return h.values[i], true
	}
	// i is the insertion index, so i-1 holds the last snapshot before 'on'.
	if i == 0 {
		var zero T
		return zero, false
	}
	return h.values[i-1], true
}

// First returns the earliest snapshot, or zero values on an empty history.
func (h *History[T]) First() (Date, T) {
	if len(h.days) == 0 {
		var zero T
		return Date{}, zero
	}
	return h.days[0], h.values[0]
}

// Latest returns the most recent snapshot, or zero values on an empty history.
func (h *History[T]) Latest() (Date, T) {
	if len(h.days) == 0 {
		var zero T
		return Date{}, zero
	}
	last := len(h.days) - 1
	return h.days[last], h.values[last]
}

// Values returns an iterator over all snapshots in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}
