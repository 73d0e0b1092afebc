package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/profit-tool/profit/date"
	"github.com/profit-tool/profit/series"
)

// discrepancyExamples is how many discrepancies are listed individually;
// the rest is summarized as a count.
const discrepancyExamples = 20

// Reconciler runs the per-instrument update cycle: load the stored history,
// plan what must be fetched for the analysis window, call the provider,
// merge the result into storage and persist it. Instruments are independent;
// the reconciler processes them strictly sequentially and is the only writer
// of the store.
type Reconciler struct {
	store     *Store
	provider  Provider
	tolerance float64 // percent
	policy    MergePolicy
	timeout   time.Duration
	log       zerolog.Logger
}

// NewReconciler wires a reconciler. tolerancePercent is the relative
// discrepancy tolerance; timeout bounds each provider call.
func NewReconciler(store *Store, provider Provider, tolerancePercent float64, policy MergePolicy, timeout time.Duration, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		store:     store,
		provider:  provider,
		tolerance: tolerancePercent,
		policy:    policy,
		timeout:   timeout,
		log:       log.With().Str("component", "reconciler").Logger(),
	}
}

// Outcome is the result of reconciling one instrument.
type Outcome struct {
	Instrument Instrument
	// Series is the consolidated sparse history covering as much of the
	// analysis window as the sources allow. Nil when Available is false.
	Series *series.Series
	// Available is false when neither the provider nor storage could supply
	// a single observation. Callers decide how to fall back (for example by
	// deriving a value from transaction records); this is not an error.
	Available bool
	// Discrepancies found during the merge, resolved per the policy.
	Discrepancies []Discrepancy
}

// Reconcile updates one instrument's history for the given analysis window
// and returns the consolidated series.
//
// Provider failures are recovered here: they are logged and treated as "no
// fetched data", falling back to stored observations. Structural problems
// (corrupt storage, invalid window) abort with an error.
func (r *Reconciler) Reconcile(ctx context.Context, inst Instrument, window date.Range) (Outcome, error) {
	if window.To.After(date.Today()) {
		return Outcome{}, fmt.Errorf("%w: %s stop %s", ErrFutureDateRequested, inst, window.To)
	}

	hist, err := r.store.Load(inst)
	if err != nil {
		return Outcome{}, fmt.Errorf("reconciling %s over %v: %w", inst, window, err)
	}

	stored := usable(hist.Series)
	// The most recent stored entry is provisional: it may be an incomplete
	// trading day, so it is dropped before any comparison and re-acquired
	// from the provider.
	stored = dropLatest(stored)

	var storedRange *date.Range
	if span, ok := stored.Span(); ok {
		storedRange = &span
	}

	plan, err := PlanFetch(storedRange, window)
	if err != nil {
		return Outcome{}, err
	}

	var fetched *series.Series
	if plan.Provider != nil {
		fetched = r.fetch(ctx, inst, *plan.Provider)
		if fetched != nil && inst.Kind == Stock {
			fetched = applySplits(fetched, hist.Splits)
		}
	}

	merged, discrepancies := Reconcile(stored, fetched, r.tolerance, r.policy)
	r.reportDiscrepancies(inst, discrepancies)

	if merged.Len() == 0 {
		r.log.Warn().Str("instrument", inst.String()).Stringer("window", window).
			Msg("no price data available from provider or storage")
		return Outcome{Instrument: inst, Available: false}, nil
	}

	// Persist only when the provider contributed: a stored-only run leaves
	// the file untouched, including its provisional last entry.
	if fetched != nil && fetched.Len() > 0 {
		hist.Series = merged
		if err := r.store.Write(hist); err != nil {
			return Outcome{}, fmt.Errorf("reconciling %s over %v: %w", inst, window, err)
		}
	}

	return Outcome{
		Instrument:    inst,
		Series:        merged,
		Available:     true,
		Discrepancies: discrepancies,
	}, nil
}

// fetch calls the provider with a bounded timeout and recovers any failure
// into "no data".
func (r *Reconciler) fetch(ctx context.Context, inst Instrument, rng date.Range) *series.Series {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	got, err := r.provider.FetchSeries(ctx, inst, rng.From, rng.To)
	if err != nil {
		r.log.Warn().Err(err).Str("instrument", inst.String()).Stringer("range", rng).
			Msg("provider fetch failed, falling back to stored data")
		return nil
	}
	r.log.Debug().Str("instrument", inst.String()).Int("observations", got.Len()).Msg("provider data obtained")
	return usable(got)
}

// usable strips near-zero observations: they encode "no real price that day"
// and must never count as ground truth.
func usable(s *series.Series) *series.Series {
	out := series.New()
	for on, v := range s.Values() {
		if v > series.MinValue {
			out.Append(on, v)
		}
	}
	return out
}

func dropLatest(s *series.Series) *series.Series {
	if s.Len() == 0 {
		return s
	}
	out := series.New()
	last, _ := s.Last()
	for on, v := range s.Values() {
		if on != last {
			out.Append(on, v)
		}
	}
	return out
}

// applySplits adjusts provider data for stock splits recorded in the storage
// header: observations on or before the split date are divided by the
// ratio, so pre-split provider prices become comparable with the recorded
// post-split history.
func applySplits(fetched *series.Series, splits []Split) *series.Series {
	if len(splits) == 0 {
		return fetched
	}
	out := series.New()
	for on, v := range fetched.Values() {
		for _, split := range splits {
			if !on.After(split.On) {
				v /= split.Ratio.InexactFloat64()
			}
		}
		out.Append(on, v)
	}
	return out
}

func (r *Reconciler) reportDiscrepancies(inst Instrument, discrepancies []Discrepancy) {
	if len(discrepancies) == 0 {
		return
	}
	r.log.Warn().
		Str("instrument", inst.String()).
		Int("count", len(discrepancies)).
		Float64("tolerance_percent", r.tolerance).
		Str("ground_truth", r.policy.String()).
		Msg("stored and fetched values disagree beyond tolerance")
	for i, disc := range discrepancies {
		if i == discrepancyExamples {
			r.log.Warn().Msgf("... and %d more", len(discrepancies)-discrepancyExamples)
			break
		}
		r.log.Warn().
			Str("instrument", inst.String()).
			Stringer("date", disc.On).
			Float64("stored", disc.Stored).
			Float64("fetched", disc.Fetched).
			Msg("price discrepancy")
	}
}
