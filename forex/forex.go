// Package forex provides exchange rates for converting asset values quoted
// in a foreign currency into the base currency of the analysis.
package forex

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/rs/zerolog"

	"github.com/profit-tool/profit/date"
	"github.com/profit-tool/profit/marketdata"
	"github.com/profit-tool/profit/series"
)

var (
	// ErrUnknownCurrency is returned for a currency code outside ISO 4217.
	ErrUnknownCurrency = errors.New("forex: unknown currency code")

	// ErrNoRatesAvailable is returned when neither the provider nor storage
	// holds a single rate for the pair. Analysis cannot proceed without
	// rates, so this is fatal for the affected asset.
	ErrNoRatesAvailable = errors.New("forex: no exchange rates available")

	// ErrMissingRateForDate is returned by Convert when a requested date
	// falls outside the prepared rate range.
	ErrMissingRateForDate = errors.New("forex: no rate for requested date")

	// ErrLengthMismatch is returned when dates and values differ in length.
	ErrLengthMismatch = errors.New("forex: date and value lists must have equal lengths")
)

// ValidCurrency reports whether code names a known ISO 4217 currency.
func ValidCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}

// Rates holds a dense daily exchange rate series for one currency pair.
// Multiplying a value in Currency by the rate of its date yields the value
// in BaseCurrency. Rates implements the Converter contract consumed by the
// return calculator.
type Rates struct {
	currency     string
	baseCurrency string
	rates        *series.Series
	log          zerolog.Logger
}

// New reconciles the rate history of currency against baseCurrency and
// shapes it densely over the analysis window. Rates missing at the window
// edges are extrapolated from the nearest observation, never zero-padded: a
// zero exchange rate would silently erase asset values.
func New(ctx context.Context, rec *marketdata.Reconciler, currency, baseCurrency string, window date.Range, log zerolog.Logger) (*Rates, error) {
	for _, code := range []string{currency, baseCurrency} {
		if !ValidCurrency(code) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
		}
	}

	r := &Rates{
		currency:     currency,
		baseCurrency: baseCurrency,
		log:          log.With().Str("component", "forex").Str("pair", currency+baseCurrency).Logger(),
	}

	outcome, err := rec.Reconcile(ctx, marketdata.NewForex(currency, baseCurrency), window)
	if err != nil {
		return nil, err
	}
	if !outcome.Available {
		return nil, fmt.Errorf("%w: %s to %s over %v", ErrNoRatesAvailable, currency, baseCurrency, window)
	}

	if span, ok := outcome.Series.Span(); ok {
		if span.From.After(window.From) {
			r.log.Warn().Stringer("from", span.From).
				Msg("rates start after the analysis window, extrapolating backwards")
		}
		if span.To.Before(window.To) {
			r.log.Warn().Stringer("until", span.To).
				Msg("rates stop before the analysis window, extrapolating forwards")
		}
	}

	dense, err := outcome.Series.FormatToRange(window.From, window.To, false, false)
	if err != nil {
		return nil, fmt.Errorf("shaping %s%s rates to %v: %w", currency, baseCurrency, window, err)
	}
	r.rates = dense
	return r, nil
}

// Currency returns the foreign currency code of the pair.
func (r *Rates) Currency() string { return r.currency }

// BaseCurrency returns the base currency code of the pair.
func (r *Rates) BaseCurrency() string { return r.baseCurrency }

// Rate returns the exchange rate valid on the given day.
func (r *Rates) Rate(on date.Date) (float64, error) {
	rate, ok := r.rates.Get(on)
	if !ok {
		return 0, fmt.Errorf("%w: %s for %s to %s", ErrMissingRateForDate, on, r.currency, r.baseCurrency)
	}
	return rate, nil
}

// Convert converts values quoted in the foreign currency into the base
// currency, one value per date.
func (r *Rates) Convert(dates []date.Date, values []float64) ([]float64, error) {
	if len(dates) != len(values) {
		return nil, ErrLengthMismatch
	}
	out := make([]float64, len(values))
	for i, on := range dates {
		rate, err := r.Rate(on)
		if err != nil {
			return nil, err
		}
		out[i] = values[i] * rate
	}
	return out, nil
}
