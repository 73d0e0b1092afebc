package marketdata

import (
	"context"
	"errors"

	"github.com/profit-tool/profit/date"
	"github.com/profit-tool/profit/series"
)

var (
	// ErrFutureDateRequested is returned when a fetch is requested with a
	// stop date after today. This is a caller error, not a provider fault:
	// end-of-day data for the future cannot exist.
	ErrFutureDateRequested = errors.New("marketdata: requested stop date is in the future")

	// ErrProviderUnavailable signals that the provider could not serve the
	// request (timeout, empty or malformed response, unknown symbol). It is
	// recovered at the reconciler boundary, never escalated.
	ErrProviderUnavailable = errors.New("marketdata: provider unavailable")
)

// Provider fetches historical observations for an instrument.
//
// Implementations return a possibly incomplete, possibly empty series of
// end-of-day observations within [from, to]. Observations with magnitude at
// or below series.MinValue are discarded by the caller before use. The call
// must honor ctx cancellation; network providers are expected to apply a
// bounded per-call timeout.
type Provider interface {
	FetchSeries(ctx context.Context, inst Instrument, from, to date.Date) (*series.Series, error)
}
