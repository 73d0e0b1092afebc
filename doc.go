// Package profit computes financial returns over day-granular asset data.
//
// It reconciles locally stored price histories with a market data provider,
// shapes the resulting series densely over an analysis window, converts
// foreign-currency values with daily exchange rates and computes holding
// period returns per asset and for the accumulated portfolio.
//
// The heavy lifting lives in the subpackages: date and series hold the pure
// time-series utilities, marketdata owns the persisted store and the
// reconciliation against a provider, forex the currency conversion, returns
// the return arithmetic and eodhd a concrete provider. This package ties
// them together into a sequential batch pipeline driven by a single
// configuration.
package profit
