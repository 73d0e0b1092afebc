package cmd

import (
	"fmt"
	"strings"

	"github.com/profit-tool/profit/marketdata"
)

// parseInstrument turns a command line argument into an instrument:
//
//	EUR/CHF          a currency pair
//	NVDA.NASDAQ.USD  a stock: symbol, exchange, currency
//	^GSPC            an index
func parseInstrument(s string) (marketdata.Instrument, error) {
	switch {
	case strings.HasPrefix(s, "^"):
		return marketdata.NewIndex(strings.TrimPrefix(s, "^")), nil
	case strings.Contains(s, "/"):
		parts := strings.SplitN(s, "/", 2)
		return marketdata.NewForex(parts[0], parts[1]), nil
	case strings.Count(s, ".") == 2:
		parts := strings.SplitN(s, ".", 3)
		return marketdata.NewStock(parts[0], parts[1], parts[2]), nil
	}
	return marketdata.Instrument{}, fmt.Errorf("cannot parse instrument %q: want EUR/CHF, NVDA.NASDAQ.USD or ^GSPC", s)
}

func parseInstruments(args []string) ([]marketdata.Instrument, error) {
	insts := make([]marketdata.Instrument, 0, len(args))
	for _, arg := range args {
		inst, err := parseInstrument(arg)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
	}
	return insts, nil
}
