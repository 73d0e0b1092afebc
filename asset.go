package profit

import (
	"github.com/profit-tool/profit/marketdata"
	"github.com/profit-tool/profit/returns"
)

// Asset is the boundary to whatever owns accounts and investments. The
// pipeline never parses transaction files itself; it consumes dense daily
// analysis data and the transaction-derived accessors needed for holding
// period returns.
type Asset interface {
	returns.HoldingData

	// Name identifies the asset in reports and diagnostics.
	Name() string

	// Currency is the asset's own currency code.
	Currency() string

	// AnalysisData returns the asset's daily data over the analysis window.
	AnalysisData() returns.SeriesSet
}

// PricedAsset is an Asset whose value tracks a market instrument. The
// pipeline reconciles the instrument's price history before computing
// returns.
type PricedAsset interface {
	Asset

	Instrument() marketdata.Instrument
}
