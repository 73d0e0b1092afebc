package series

import (
	"github.com/profit-tool/profit/date"
)

// Interpolate converts raw, possibly-gapped observations into a dense series
// spanning [first date, last date] of the input. Days with no observation
// repeat the immediately preceding filled value (zero-order hold). Input dates
// must be non-decreasing; successive duplicates are permitted and the last
// occurrence's value wins for that day.
//
// It fails with ErrEmptyInput for zero observations, ErrLengthMismatch for
// parallel slices of differing length, and ErrUnordered for unordered dates.
func Interpolate(days []date.Date, values []float64) (*Series, error) {
	if len(days) != len(values) {
		return nil, ErrLengthMismatch
	}
	if len(days) == 0 {
		return nil, ErrEmptyInput
	}
	if !Ordered(days, true) {
		return nil, ErrUnordered
	}

	// Reduce duplicates: the latest supplied value for a day wins.
	observed := make(map[date.Date]float64, len(days))
	for i, on := range days {
		observed[on] = values[i]
	}

	out := New()
	last := values[0] // The first day is always observed, so this seeds the hold.
	for on := range date.Days(days[0], days[len(days)-1]) {
		if v, ok := observed[on]; ok {
			last = v
		}
		out.days = append(out.days, on)
		out.values = append(out.values, last)
	}
	return out, nil
}

// Interpolated returns the dense equivalent of s over its own span.
func (s *Series) Interpolated() (*Series, error) {
	return Interpolate(s.days, s.values)
}

// ExtendPast returns a new series with one-day-stepped entries prepended from
// target up to (excluding) the series' current first date. Prepended values
// are 0.0 when zeroPad is set, otherwise the first known value is held
// backwards. It fails with ErrTargetAfterStart if target is not strictly
// before the series' first date.
func (s *Series) ExtendPast(target date.Date, zeroPad bool) (*Series, error) {
	if len(s.days) == 0 {
		return nil, ErrEmptyInput
	}
	first, firstVal := s.First()
	if !target.Before(first) {
		return nil, ErrTargetAfterStart
	}
	pad := firstVal
	if zeroPad {
		pad = 0.0
	}
	out := New()
	for on := range date.Days(target, first.Add(-1)) {
		out.days = append(out.days, on)
		out.values = append(out.values, pad)
	}
	out.days = append(out.days, s.days...)
	out.values = append(out.values, s.values...)
	return out, nil
}

// ExtendFuture returns a new series with one-day-stepped entries appended
// after the series' current last date, up to and including target. Appended
// values are 0.0 when zeroPad is set, otherwise the last known value is held.
// It fails with ErrTargetBeforeStop if target is not strictly after the
// series' last date.
func (s *Series) ExtendFuture(target date.Date, zeroPad bool) (*Series, error) {
	if len(s.days) == 0 {
		return nil, ErrEmptyInput
	}
	last, lastVal := s.Last()
	if !target.After(last) {
		return nil, ErrTargetBeforeStop
	}
	pad := lastVal
	if zeroPad {
		pad = 0.0
	}
	out := s.Clone()
	for on := range date.Days(last.Add(1), target) {
		out.days = append(out.days, on)
		out.values = append(out.values, pad)
	}
	return out, nil
}

// FormatToRange produces a dense series exactly covering [start, stop] by the
// necessary combination of interpolation, extrapolation and cropping. The
// input need not be dense; the output always is, with exactly
// stop-start+1 entries.
//
// The requested window can fall before, within, or after the existing span on
// either end; every combination is handled without gaps.
func (s *Series) FormatToRange(start, stop date.Date, zeroPadPast, zeroPadFuture bool) (*Series, error) {
	if stop.Before(start) {
		return nil, ErrInvalidRange
	}
	dense, err := s.Interpolated()
	if err != nil {
		return nil, err
	}
	first, _ := dense.First()
	last, _ := dense.Last()

	switch {
	// Window fully inside the existing span: a crop suffices.
	case !start.Before(first) && !stop.After(last):
		return dense.Crop(start, stop)

	// Window entirely before the span.
	case start.Before(first) && stop.Before(first):
		if dense, err = dense.ExtendPast(start, zeroPadPast); err != nil {
			return nil, err
		}
		return dense.Crop(start, stop)

	// Window entirely after the span.
	case start.After(last) && stop.After(last):
		if dense, err = dense.ExtendFuture(stop, zeroPadFuture); err != nil {
			return nil, err
		}
		return dense.Crop(start, stop)
	}

	// Overlapping windows: extend whichever end falls outside the span.
	if start.Before(first) {
		if dense, err = dense.ExtendPast(start, zeroPadPast); err != nil {
			return nil, err
		}
	}
	if stop.After(last) {
		if dense, err = dense.ExtendFuture(stop, zeroPadFuture); err != nil {
			return nil, err
		}
	}
	return dense.Crop(start, stop)
}
