package series

import (
	"fmt"

	"github.com/profit-tool/profit/date"
)

// Fuse combines two partial, possibly-overlapping sets of observations into
// one dense series covering target. For each day in target, the primary
// observations win: multiple primary records on the same day are reduced to
// their maximum (several transactions can be recorded on one day), and values
// at or below MinValue are discarded as "no real observation". Days the
// primary cannot serve fall back to a non-zero secondary observation. The
// remaining holes are closed by interpolation and the result is extrapolated
// or cropped to exactly cover target.
//
// This is how manually-recorded transaction prices (ground truth) are
// combined with provider market prices for instruments lacking full history.
//
// It fails with ErrNoUsableObservations when, after discarding near-zero
// values, not a single observation remains.
func Fuse(target date.Range, primaryDays []date.Date, primaryVals []float64, secondary *Series, zeroPadPast, zeroPadFuture bool) (*Series, error) {
	if len(primaryDays) != len(primaryVals) {
		return nil, ErrLengthMismatch
	}

	// Reduce the primary to one value per day: the maximum of same-day records.
	best := make(map[date.Date]float64, len(primaryDays))
	for i, on := range primaryDays {
		if primaryVals[i] > best[on] {
			best[on] = primaryVals[i]
		}
	}

	var days []date.Date
	var vals []float64
	for on := range date.Days(target.From, target.To) {
		if v, ok := best[on]; ok && v > MinValue {
			days = append(days, on)
			vals = append(vals, v)
			continue
		}
		if secondary != nil {
			if v, ok := secondary.Get(on); ok && v > MinValue {
				days = append(days, on)
				vals = append(vals, v)
			}
		}
		// Neither source has a value: leave a hole for interpolation.
	}

	dense, err := Interpolate(days, vals)
	if err != nil {
		if err == ErrEmptyInput {
			return nil, fmt.Errorf("%w: %v", ErrNoUsableObservations, target)
		}
		return nil, err
	}
	return dense.FormatToRange(target.From, target.To, zeroPadPast, zeroPadFuture)
}
