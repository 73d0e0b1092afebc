package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/profit-tool/profit"
	"github.com/profit-tool/profit/renderer"
)

type updateCmd struct {
	days int
}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "reconcile stored price histories with the provider"
}
func (*updateCmd) Usage() string {
	return `pft update [-days <n>] <instrument>...

  Reconciles the stored price history of each instrument with fresh provider
  data over the analysis window and reports what changed.

Usage Examples:
$ pft update EUR/CHF ^GSPC NVDA.NASDAQ.USD
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 0, "Analysis window length in days. Defaults to the configured analysis.days.")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.UpdateMarkdown(outcomes))
	return subcommands.ExitSuccess
}
