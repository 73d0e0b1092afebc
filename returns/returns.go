// Package returns computes holding-period returns over day-granular asset
// data: per-block periodic returns, whole-window returns, multi-asset
// accumulation and the transaction-based holding period return.
package returns

import (
	"errors"
	"math"

	"github.com/profit-tool/profit/date"
	"github.com/profit-tool/profit/series"
)

var (
	// ErrNonConsecutiveDates is returned when a date list has holes; the
	// block arithmetic only makes sense over dense daily data.
	ErrNonConsecutiveDates = errors.New("returns: dates must be consecutive days")

	// ErrMismatchedLengths is returned when the per-day lists of a set do
	// not all have the same length as its date list.
	ErrMismatchedLengths = errors.New("returns: per-day lists must have equal lengths")

	// ErrInvalidPeriod is returned for a period shorter than one day.
	ErrInvalidPeriod = errors.New("returns: period must be at least one day")

	// ErrMismatchedDateRanges is returned by Accumulate when the assets do
	// not share an identical analysis date range.
	ErrMismatchedDateRanges = errors.New("returns: assets must share an identical date range")

	// ErrUnavailable is returned when a return cannot be computed because
	// no sufficiently recent price exists.
	ErrUnavailable = errors.New("returns: no price available for today")
)

// SeriesSet carries the dense daily analysis data of one asset. All slices
// run over the same days as Dates. Values are end-of-day asset values;
// Costs, Payouts, Inflows and Outflows are the amounts booked on each day.
type SeriesSet struct {
	Dates    []date.Date
	Values   []float64
	Costs    []float64
	Payouts  []float64
	Inflows  []float64
	Outflows []float64
}

func (s SeriesSet) validate() error {
	n := len(s.Dates)
	if len(s.Values) != n || len(s.Costs) != n || len(s.Payouts) != n ||
		len(s.Inflows) != n || len(s.Outflows) != n {
		return ErrMismatchedLengths
	}
	if !series.Consecutive(s.Dates) {
		return ErrNonConsecutiveDates
	}
	return nil
}

// PeriodReturn is the return of one analyzed block, tagged with the block's
// last day.
type PeriodReturn struct {
	End    date.Date
	Return Percent
}

// CalcReturn computes the holding period return in percent between a start
// value val1 and an end value val2, corrected for the cash flows booked in
// between. A start value of zero yields a zero return, not a division error.
func CalcReturn(val1, val2, outflow, inflow, payout, cost float64) Percent {
	if val1 < 1e-9 {
		return 0.0
	}
	return Percent((val2 + outflow + payout - cost - inflow - val1) / val1 * 100.0)
}

// isclose reports whether two floats coincide within relative tolerance.
// It is used to detect the opening "buy" transaction: a day whose value
// equals its inflow.
func isclose(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

// ReturnsOverPeriod partitions the set into consecutive blocks of periodDays
// days and computes the return of each block. The value at the end of the
// previous block serves as the next block's start value, so the per-block
// returns chain without gaps. Leading zero-value days of a block are
// skipped, and when a block opens with the inflow that created its value,
// that inflow is not counted against the return (it bought the position, it
// did not dilute it). A trailing block shorter than periodDays is dropped.
func ReturnsOverPeriod(set SeriesSet, periodDays int) ([]PeriodReturn, error) {
	if periodDays < 1 {
		return nil, ErrInvalidPeriod
	}
	if err := set.validate(); err != nil {
		return nil, err
	}

	n := len(set.Dates)
	var out []PeriodReturn
	for start := 0; start < n; start += periodDays {
		stop := min(start+periodDays, n)
		block := set.Values[start:stop]

		// Find the first day of the block that carries value.
		startIdx := -1
		for i, v := range block {
			if v > 1e-9 {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			// The whole block is empty. Emit zero so the block sequence
			// stays aligned with the calendar.
			out = append(out, PeriodReturn{End: set.Dates[stop-1], Return: 0.0})
			continue
		}

		off := start + startIdx
		var val1 float64
		inflowAdjusted := 0.0
		switch {
		case startIdx > 0:
			// Value appears mid-block. The first valued day is almost
			// always the buy itself.
			val1 = set.Values[off]
			if isclose(val1, set.Inflows[off]) {
				inflowAdjusted = set.Inflows[off]
			}
		case start > 0:
			// Chain from the previous block's closing value.
			val1 = set.Values[start-1]
		default:
			// Value exists from the very first analyzed day.
			val1 = block[0]
			if val1 > 1e-9 && isclose(val1, set.Inflows[start]) {
				inflowAdjusted = set.Inflows[start]
			}
		}

		val2 := set.Values[stop-1]
		cost := sum(set.Costs[off:stop])
		payout := sum(set.Payouts[off:stop])
		inflow := sum(set.Inflows[off:stop]) - inflowAdjusted
		outflow := sum(set.Outflows[off:stop])

		out = append(out, PeriodReturn{
			End:    set.Dates[stop-1],
			Return: CalcReturn(val1, val2, outflow, inflow, payout, cost),
		})
	}

	// An incomplete trailing block would report a misleading short-period
	// return.
	if n%periodDays != 0 && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// TotalReturn computes the return of the set over its entire date range.
func TotalReturn(set SeriesSet) (Percent, error) {
	if len(set.Dates) == 0 {
		return 0, ErrMismatchedLengths
	}
	rets, err := ReturnsOverPeriod(set, len(set.Dates))
	if err != nil {
		return 0, err
	}
	if len(rets) != 1 {
		return 0, errors.New("returns: whole-range analysis must yield exactly one value")
	}
	return rets[0].Return, nil
}

func sum(vals []float64) float64 {
	var t float64
	for _, v := range vals {
		t += v
	}
	return t
}
