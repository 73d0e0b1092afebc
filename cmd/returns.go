package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/profit-tool/profit"
	"github.com/profit-tool/profit/renderer"
	"github.com/profit-tool/profit/returns"
)

type returnsCmd struct {
	days   int
	period int
}

func (*returnsCmd) Name() string { return "returns" }
func (*returnsCmd) Synopsis() string {
	return "compute periodic price returns of instruments"
}
func (*returnsCmd) Usage() string {
	return `pft returns [-days <n>] [-p <period>] <instrument>...

  Reconciles each instrument's price history, shapes it densely over the
  analysis window and reports the return of each period-sized block.

Usage Examples:
$ pft returns -p 30 ^GSPC EUR/CHF
`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 0, "Analysis window length in days. Defaults to the configured analysis.days.")
	f.IntVar(&c.period, "p", 30, "Period length in days for the per-block returns.")
}

func (c *returnsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	assetReturns := make([]profit.AssetReturn, 0, len(outcomes))
	for _, outcome := range outcomes {
		name := outcome.Instrument.String()
		if !outcome.Available {
			assetReturns = append(assetReturns, profit.AssetReturn{Name: name})
			continue
		}
		dense, err := outcome.Series.FormatToRange(window.From, window.To, false, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "shaping %s: %v\n", name, err)
			return subcommands.ExitFailure
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
		periods, err := returns.ReturnsOverPeriod(set, c.period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "returns of %s: %v\n", name, err)
			return subcommands.ExitFailure
		}
		assetReturns = append(assetReturns, profit.AssetReturn{Name: name, Periods: periods})
	}

	printMarkdown(renderer.ReturnsMarkdown(assetReturns, c.period))
	return subcommands.ExitSuccess
}
