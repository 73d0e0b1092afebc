package returns

import "github.com/profit-tool/profit/date"

// Accumulate sums the daily data of several assets into one combined set, so
// whole-portfolio returns can be computed with the same block arithmetic as
// single-asset returns. Every set must cover the identical date range.
func Accumulate(sets []SeriesSet) (SeriesSet, error) {
	if len(sets) == 0 {
		return SeriesSet{}, ErrMismatchedDateRanges
	}

	ref := sets[0]
	if err := ref.validate(); err != nil {
		return SeriesSet{}, err
	}
	n := len(ref.Dates)

	total := SeriesSet{
		Dates:    append([]date.Date(nil), ref.Dates...),
		Values:   append([]float64(nil), ref.Values...),
		Costs:    append([]float64(nil), ref.Costs...),
		Payouts:  append([]float64(nil), ref.Payouts...),
		Inflows:  append([]float64(nil), ref.Inflows...),
		Outflows: append([]float64(nil), ref.Outflows...),
	}

	for _, set := range sets[1:] {
		if err := set.validate(); err != nil {
			return SeriesSet{}, err
		}
		if len(set.Dates) != n || set.Dates[0] != ref.Dates[0] || set.Dates[n-1] != ref.Dates[n-1] {
			return SeriesSet{}, ErrMismatchedDateRanges
		}
		for i := range set.Dates {
			total.Values[i] += set.Values[i]
			total.Costs[i] += set.Costs[i]
			total.Payouts[i] += set.Payouts[i]
			total.Inflows[i] += set.Inflows[i]
			total.Outflows[i] += set.Outflows[i]
		}
	}
	return total, nil
}
