package profit

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/profit-tool/profit/date"
	"github.com/profit-tool/profit/forex"
	"github.com/profit-tool/profit/marketdata"
	"github.com/profit-tool/profit/returns"
)

// Pipeline runs the sequential batch: reconcile market data one instrument
// at a time, prepare exchange rates, compute returns. Instruments are
// independent of each other, so a provider failure on one never affects the
// next; structural failures (corrupt storage, invalid windows) abort the run
// with the offending instrument named in the error.
type Pipeline struct {
	cfg *Config
	rec *marketdata.Reconciler
	log zerolog.Logger
}

// NewPipeline wires a pipeline from the configuration and a provider.
func NewPipeline(cfg *Config, provider marketdata.Provider, log zerolog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := cfg.MergePolicy()
	if err != nil {
		return nil, err
	}
	store, err := marketdata.NewStore(cfg.Storage.Dir, log)
	if err != nil {
		return nil, err
	}
	rec := marketdata.NewReconciler(store, provider, cfg.Reconcile.TolerancePercent, policy, cfg.ProviderTimeout(), log)
	return &Pipeline{
		cfg: cfg,
		rec: rec,
		log: log.With().Str("component", "pipeline").Logger(),
	}, nil
}

// Update reconciles every instrument over the window, strictly one at a
// time, and returns the per-instrument outcomes in input order.
func (p *Pipeline) Update(ctx context.Context, insts []marketdata.Instrument, window AnalysisWindow) ([]marketdata.Outcome, error) {
	outcomes := make([]marketdata.Outcome, 0, len(insts))
	for _, inst := range insts {
		outcome, err := p.rec.Reconcile(ctx, inst, window.Range)
		if err != nil {
			return nil, fmt.Errorf("updating %s over %v: %w", inst, window.Range, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// Converter prepares a currency converter into the base currency. A native
// asset needs none, so nil is returned for the base currency itself.
func (p *Pipeline) Converter(ctx context.Context, currency string, window AnalysisWindow) (returns.Converter, error) {
	if currency == p.cfg.BaseCurrency {
		return nil, nil
	}
	return forex.New(ctx, p.rec, currency, p.cfg.BaseCurrency, window.Range, p.log)
}

// AssetReturn is the periodic return sequence of one asset.
type AssetReturn struct {
	Name    string
	Periods []returns.PeriodReturn
}

// AssetReturns computes the per-block returns of every asset for the given
// period length.
func (p *Pipeline) AssetReturns(assets []Asset, periodDays int) ([]AssetReturn, error) {
	out := make([]AssetReturn, 0, len(assets))
	for _, asset := range assets {
		periods, err := returns.ReturnsOverPeriod(asset.AnalysisData(), periodDays)
		if err != nil {
			return nil, fmt.Errorf("returns of %s: %w", asset.Name(), err)
		}
		out = append(out, AssetReturn{Name: asset.Name(), Periods: periods})
	}
	return out, nil
}

// PortfolioReturn accumulates the assets day by day and computes the total
// return of the combined portfolio over the full analysis window.
func (p *Pipeline) PortfolioReturn(assets []Asset) (returns.Percent, error) {
	sets := make([]returns.SeriesSet, 0, len(assets))
	for _, asset := range assets {
		sets = append(sets, asset.AnalysisData())
	}
	total, err := returns.Accumulate(sets)
	if err != nil {
		return 0, err
	}
	return returns.TotalReturn(total)
}

// HoldingResult is the holding period return of one asset. Available is
// false when no price of today exists; that asset is reported as unavailable
// rather than aborting the whole run.
type HoldingResult struct {
	Name      string
	Return    returns.Percent
	Available bool
}

// HoldingPeriods computes the holding period return of every asset from its
// first transaction until today.
func (p *Pipeline) HoldingPeriods(assets []Asset) ([]HoldingResult, error) {
	today := date.Today()
	out := make([]HoldingResult, 0, len(assets))
	for _, asset := range assets {
		pct, err := returns.HoldingPeriod(asset, today)
		if errors.Is(err, returns.ErrUnavailable) {
			p.log.Warn().Str("asset", asset.Name()).
				Msg("cannot compute the holding period return, no price of today")
			out = append(out, HoldingResult{Name: asset.Name()})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("holding period return of %s: %w", asset.Name(), err)
		}
		out = append(out, HoldingResult{Name: asset.Name(), Return: pct, Available: true})
	}
	return out, nil
}
