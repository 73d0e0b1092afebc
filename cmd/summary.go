package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/profit-tool/profit"
	"github.com/profit-tool/profit/date"
	"github.com/profit-tool/profit/marketdata"
	"github.com/profit-tool/profit/renderer"
	"github.com/profit-tool/profit/returns"
)

type summaryCmd struct {
	days int
}

func (*summaryCmd) Name() string { return "summary" }
func (*summaryCmd) Synopsis() string {
	return "portfolio view of one unit of each instrument"
}
func (*summaryCmd) Usage() string {
	return `pft summary [-days <n>] <instrument>...

  Reconciles each instrument, values one unit of each in the base currency
  and reports the combined total return plus the per-instrument holding
  period return.

Usage Examples:
$ pft summary NVDA.NASDAQ.USD ^GSPC EUR/CHF
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 0, "Analysis window length in days. Defaults to the configured analysis.days.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one instrument expected")
		return subcommands.ExitUsageError
	}
	insts, err := parseInstruments(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	p, cfg, err := openPipeline()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	days := c.days
	if days == 0 {
		days = cfg.Analysis.Days
	}
	window := profit.LastDays(days)

	outcomes, err := p.Update(ctx, insts, window)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	assets := make([]profit.Asset, 0, len(outcomes))
	for _, outcome := range outcomes {
		if !outcome.Available {
			fmt.Fprintf(os.Stderr, "skipping %s: no data available\n", outcome.Instrument)
			continue
		}
		asset, err := newUnitHolding(ctx, p, cfg, outcome, window)
		if err != nil {
			fmt.Fprintf(os.Stderr, "valuing %s: %v\n", outcome.Instrument, err)
			return subcommands.ExitFailure
		}
		assets = append(assets, asset)
	}
	if len(assets) == 0 {
		fmt.Fprintln(os.Stderr, "no instrument has data, nothing to summarize")
		return subcommands.ExitFailure
	}

	total, err := p.PortfolioReturn(assets)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	holdings, err := p.HoldingPeriods(assets)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.SummaryMarkdown(cfg.BaseCurrency, window, total, holdings))
	return subcommands.ExitSuccess
}

// unitHolding values exactly one unit of an instrument, held since the
// first observation inside the analysis window. It turns a bare price
// series into an Asset so the pipeline can aggregate instruments the same
// way it aggregates real holdings. All values are converted to the base
// currency up front, so no further conversion applies.
type unitHolding struct {
	name     string
	currency string
	set      returns.SeriesSet
}

func newUnitHolding(ctx context.Context, p *profit.Pipeline, cfg *profit.Config, outcome marketdata.Outcome, window profit.AnalysisWindow) (*unitHolding, error) {
	dense, err := outcome.Series.FormatToRange(window.From, window.To, false, false)
	if err != nil {
		return nil, err
	}
	n := dense.Len()
	set := returns.SeriesSet{
		Dates:    dense.Dates(),
		Values:   dense.Floats(),
		Costs:    make([]float64, n),
		Payouts:  make([]float64, n),
		Inflows:  make([]float64, n),
		Outflows: make([]float64, n),
	}

	// Forex series are already quoted in the base currency, and an index
	// level is a plain number. Only a stock listed in a foreign currency
	// needs its values converted.
	currency := cfg.BaseCurrency
	if outcome.Instrument.Kind == marketdata.Stock {
		currency = outcome.Instrument.Currency
		conv, err := p.Converter(ctx, currency, window)
		if err != nil {
			return nil, err
		}
		if conv != nil {
			if set.Values, err = conv.Convert(set.Dates, set.Values); err != nil {
				return nil, err
			}
		}
	}

	return &unitHolding{
		name:     outcome.Instrument.String(),
		currency: currency,
		set:      set,
	}, nil
}

func (h *unitHolding) Name() string                   { return h.name }
func (h *unitHolding) Currency() string               { return h.currency }
func (h *unitHolding) AnalysisData() returns.SeriesSet { return h.set }

func (h *unitHolding) TransactionDates() []date.Date { return h.set.Dates[:1] }
func (h *unitHolding) Balances() []float64           { return []float64{1} }
func (h *unitHolding) Prices() []float64             { return h.set.Values[:1] }
func (h *unitHolding) Costs() []float64              { return []float64{0} }
func (h *unitHolding) Payouts() []float64            { return []float64{0} }
func (h *unitHolding) Inflows() []float64            { return []float64{0} }
func (h *unitHolding) Outflows() []float64           { return []float64{0} }

func (h *unitHolding) LatestMarketPrice() (date.Date, float64, bool) {
	n := len(h.set.Dates)
	if n == 0 {
		return date.Date{}, 0, false
	}
	return h.set.Dates[n-1], h.set.Values[n-1], true
}

func (h *unitHolding) Converter() returns.Converter { return nil }
