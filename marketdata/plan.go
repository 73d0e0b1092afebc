package marketdata

import (
	"fmt"

	"github.com/profit-tool/profit/date"
)

// FetchPlan says which subrange must be obtained from the provider and which
// can be served from storage for one reconciliation run. A nil range means
// "nothing from that source".
type FetchPlan struct {
	Provider *date.Range
	Storage  *date.Range
}

// PlanFetch classifies the relationship between the stored data range
// (nil when no data is stored yet) and the requested analysis window:
//
//   - no stored range: fetch the full window, serve nothing from storage
//   - window inside stored range: serve fully from storage, no fetch
//   - window surrounds stored range: fetch the full window (refresh and
//     extend), serve the stored subrange for cross-checking
//   - window entirely before the stored range: fetch from window start to
//     stored start, closing the gap
//   - window entirely after the stored range: fetch from stored stop to
//     window stop
//   - partial overlap at either end: fetch only the uncovered part, serve
//     the overlap from storage
//
// The relationships are exhaustive; reaching the fallthrough is a
// programming defect and reported as such.
func PlanFetch(stored *date.Range, window date.Range) (FetchPlan, error) {
	if stored == nil {
		return FetchPlan{Provider: &date.Range{From: window.From, To: window.To}}, nil
	}

	switch {
	// Window fully inside the stored range.
	case !window.From.Before(stored.From) && !window.To.After(stored.To):
		return FetchPlan{Storage: &date.Range{From: window.From, To: window.To}}, nil

	// Window fully surrounds the stored range.
	case window.From.Before(stored.From) && window.To.After(stored.To):
		return FetchPlan{
			Provider: &date.Range{From: window.From, To: window.To},
			Storage:  &date.Range{From: stored.From, To: stored.To},
		}, nil

	// Window entirely before the stored range, no overlap.
	case window.From.Before(stored.From) && window.To.Before(stored.From):
		return FetchPlan{Provider: &date.Range{From: window.From, To: stored.From}}, nil

	// Window entirely after the stored range, no overlap.
	case window.From.After(stored.To) && window.To.After(stored.To):
		return FetchPlan{Provider: &date.Range{From: stored.To, To: window.To}}, nil

	// Partial overlap at the start of the stored range.
	case window.From.Before(stored.From) && !window.To.After(stored.To):
		return FetchPlan{
			Provider: &date.Range{From: window.From, To: stored.From},
			Storage:  &date.Range{From: stored.From, To: window.To},
		}, nil

	// Partial overlap at the end of the stored range.
	case !window.From.After(stored.To) && window.To.After(stored.To):
		return FetchPlan{
			Provider: &date.Range{From: stored.To, To: window.To},
			Storage:  &date.Range{From: window.From, To: stored.To},
		}, nil
	}

	return FetchPlan{}, fmt.Errorf(
		"marketdata: fetch planning missed a case for stored %v and window %v: this is a bug",
		*stored, window)
}
