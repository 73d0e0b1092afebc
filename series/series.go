// Package series implements ordered date/value sequences and the primitive
// operations the analysis pipeline is built on: ordering and consecutiveness
// checks, cropping, zero-order-hold interpolation, extrapolation into the
// past or future, and fusion of two partial series under a precedence rule.
//
// A Series is always canonical: dates are unique and sorted. Raw, possibly
// duplicated observations (transaction records, provider payloads) travel as
// parallel date/value slices until they are reduced into a Series.
package series

import (
	"iter"
	"slices"

	"github.com/profit-tool/profit/date"
)

// MinValue is the smallest magnitude treated as a real observation.
// Raw provider or transaction values at or below this threshold encode
// "no price recorded that day" and are discarded before reconciliation.
const MinValue = 1e-6

// Series stores a chronological sequence of values, each associated with a
// calendar day. Dates are unique and the sequence is always sorted.
type Series struct {
	days   []date.Date
	values []float64
}

// New returns an empty series.
func New() *Series { return &Series{} }

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.days) }

// chronological implements sort.Interface over the parallel slices.
type chronological struct{ *Series }

func (c chronological) Len() int           { return len(c.days) }
func (c chronological) Less(i, j int) bool { return c.days[i].Before(c.days[j]) }
func (c chronological) Swap(i, j int) {
	c.days[i], c.days[j] = c.days[j], c.days[i]
	c.values[i], c.values[j] = c.values[j], c.values[i]
}

// Append adds an observation to the series. An existing value at that date
// is overwritten: the latest supplied value wins.
func (s *Series) Append(on date.Date, v float64) *Series {
	if i := slices.Index(s.days, on); i >= 0 {
		s.values[i] = v
		return s
	}
	s.days, s.values = append(s.days, on), append(s.values, v)
	// Keep sorted. Observations arrive mostly in order, so this is cheap.
	for i := len(s.days) - 1; i > 0 && s.days[i].Before(s.days[i-1]); i-- {
		chronological{s}.Swap(i, i-1)
	}
	return s
}

// Get returns the value at 'on' and true, or zero and false.
func (s *Series) Get(on date.Date) (float64, bool) {
	if i := slices.Index(s.days, on); i >= 0 {
		return s.values[i], true
	}
	return 0, false
}

// First returns the earliest date and value. The series must not be empty.
func (s *Series) First() (date.Date, float64) { return s.days[0], s.values[0] }

// Last returns the latest date and value. The series must not be empty.
func (s *Series) Last() (date.Date, float64) {
	last := len(s.days) - 1
	return s.days[last], s.values[last]
}

// Span returns the inclusive date range covered by the series,
// or false when the series is empty.
func (s *Series) Span() (date.Range, bool) {
	if len(s.days) == 0 {
		return date.Range{}, false
	}
	return date.Range{From: s.days[0], To: s.days[len(s.days)-1]}, true
}

// Values returns an iterator over all date/value pairs in chronological order.
func (s *Series) Values() iter.Seq2[date.Date, float64] {
	return func(yield func(date.Date, float64) bool) {
		for i, on := range s.days {
			if !yield(on, s.values[i]) {
				return
			}
		}
	}
}

// Dates returns a copy of the dates.
func (s *Series) Dates() []date.Date { return slices.Clone(s.days) }

// Floats returns a copy of the values.
func (s *Series) Floats() []float64 { return slices.Clone(s.values) }

// Clone returns an independent copy of the series.
func (s *Series) Clone() *Series {
	return &Series{days: slices.Clone(s.days), values: slices.Clone(s.values)}
}

// IsConsecutive reports whether every date is exactly one day after its
// predecessor. It is false for an empty series.
func (s *Series) IsConsecutive() bool { return Consecutive(s.days) }

// Ordered reports whether days are non-decreasing, or strictly increasing
// when allowEqualSuccessive is false. It is false for an empty slice.
func Ordered(days []date.Date, allowEqualSuccessive bool) bool {
	if len(days) == 0 {
		return false
	}
	prev := days[0]
	for _, on := range days[1:] {
		if allowEqualSuccessive {
			if on.Before(prev) {
				return false
			}
		} else if !on.After(prev) {
			return false
		}
		prev = on
	}
	return true
}

// Consecutive reports whether days form an unbroken run of calendar days.
// It is false for an empty slice.
func Consecutive(days []date.Date) bool {
	if len(days) == 0 {
		return false
	}
	for i := 1; i < len(days); i++ {
		if days[i] != days[i-1].Add(1) {
			return false
		}
	}
	return true
}

// Crop returns a new series holding only the entries with a date in
// [start, stop], inclusive. Boundaries outside the series' span simply yield
// fewer (or no) entries. It fails with ErrInvalidRange if stop is before start.
func (s *Series) Crop(start, stop date.Date) (*Series, error) {
	if stop.Before(start) {
		return nil, ErrInvalidRange
	}
	out := New()
	for i, on := range s.days {
		if !on.Before(start) && !on.After(stop) {
			out.days = append(out.days, on)
			out.values = append(out.values, s.values[i])
		}
	}
	return out, nil
}
