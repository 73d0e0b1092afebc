package marketdata

import (
	"math"

	"github.com/profit-tool/profit/date"
	"github.com/profit-tool/profit/series"
)

// MergePolicy says which source prevails when stored and freshly fetched
// values disagree beyond tolerance. It is threaded explicitly through the
// reconciliation signatures; there is no hidden default.
type MergePolicy int

const (
	// StorageIsGroundTruth keeps the stored value on a disagreement.
	StorageIsGroundTruth MergePolicy = iota
	// ProviderIsGroundTruth overwrites the stored value with the fetched one.
	ProviderIsGroundTruth
)

func (p MergePolicy) String() string {
	if p == ProviderIsGroundTruth {
		return "provider"
	}
	return "storage"
}

// Discrepancy records a tolerance violation between a stored and a fetched
// value on the same day. Discrepancies are a monitoring signal, never a
// failure: they are resolved by the merge policy and the run continues.
type Discrepancy struct {
	On      date.Date
	Stored  float64
	Fetched float64
}

// withinTolerance reports whether stored deviates from fetched by no more
// than the given relative tolerance.
func withinTolerance(stored, fetched, tolerance float64) bool {
	if fetched == 0 {
		return stored == 0
	}
	return math.Abs(stored/fetched-1.0) <= tolerance
}

// Reconcile merges freshly fetched observations into the stored series.
// Dates present in both sources are value-compared with the relative
// tolerance tolerancePercent; disagreements are resolved by policy and
// reported. Fetched dates unknown to storage are inserted at their ordered
// position. The operation is idempotent: merging the same fetched data twice
// yields an identical series.
func Reconcile(stored, fetched *series.Series, tolerancePercent float64, policy MergePolicy) (*series.Series, []Discrepancy) {
	merged := stored.Clone()
	if fetched == nil {
		return merged, nil
	}

	var discrepancies []Discrepancy
	for on, storedVal := range stored.Values() {
		fetchedVal, ok := fetched.Get(on)
		if !ok {
			continue
		}
		if withinTolerance(storedVal, fetchedVal, tolerancePercent/100.0) {
			continue
		}
		if policy == ProviderIsGroundTruth {
			merged.Append(on, fetchedVal)
		}
		// Under StorageIsGroundTruth the stored value simply stands.
		discrepancies = append(discrepancies, Discrepancy{On: on, Stored: storedVal, Fetched: fetchedVal})
	}

	for on, v := range fetched.Values() {
		if _, ok := stored.Get(on); !ok {
			merged.Append(on, v)
		}
	}
	return merged, discrepancies
}
