// Package cmd implements the pft subcommands.
package cmd

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/profit-tool/profit"
	"github.com/profit-tool/profit/eodhd"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&updateCmd{}, "market data")
	c.Register(&returnsCmd{}, "analysis")
	c.Register(&summaryCmd{}, "analysis")
	c.Register(&topicCmd{}, "documentation")
}

var configPath = flag.String("config", "profit.yaml", "Path to the configuration file")

// openPipeline is the central function to build the pipeline from the
// configuration and the EODHD provider.
func openPipeline() (*profit.Pipeline, *profit.Config, error) {
	cfg, err := profit.LoadConfig(*configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	provider := eodhd.New(cfg.Provider.APIKey, log.Logger)
	p, err := profit.NewPipeline(cfg, provider, log.Logger)
	if err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}

// printMarkdown renders a markdown report for the terminal. When rendering
// fails the raw markdown is still readable, so it is printed as-is.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
