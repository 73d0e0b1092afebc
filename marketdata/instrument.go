// Package marketdata maintains one persisted price history per instrument,
// decides which date ranges must be re-fetched from an external provider, and
// merges fetched observations into storage under a tolerance and precedence
// policy.
package marketdata

import (
	"fmt"
	"regexp"
)

// Kind discriminates the instrument variants the store knows about.
type Kind int

const (
	// Forex identifies a currency pair (symbol is the foreign currency,
	// currency the base currency the rate converts into).
	Forex Kind = iota
	// Stock identifies an equity, keyed by symbol, exchange and currency.
	Stock
	// Index identifies a stock-market index, keyed by symbol only.
	Index
)

func (k Kind) String() string {
	switch k {
	case Forex:
		return "forex"
	case Stock:
		return "stock"
	case Index:
		return "index"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Instrument identifies one persisted price history. The meaning of the
// identity fields depends on Kind; unused fields stay empty.
type Instrument struct {
	Kind     Kind
	Symbol   string // forex: foreign currency; stock/index: ticker symbol
	Exchange string // stock only
	Currency string // forex: base currency; stock: listing currency
}

// NewForex returns the instrument for the given currency pair.
func NewForex(currency, baseCurrency string) Instrument {
	return Instrument{Kind: Forex, Symbol: currency, Currency: baseCurrency}
}

// NewStock returns the instrument for an equity.
func NewStock(symbol, exchange, currency string) Instrument {
	return Instrument{Kind: Stock, Symbol: symbol, Exchange: exchange, Currency: currency}
}

// NewIndex returns the instrument for a stock-market index.
func NewIndex(symbol string) Instrument {
	return Instrument{Kind: Index, Symbol: symbol}
}

// The storage file names must stay parseable and shell-safe.
var (
	forexName = regexp.MustCompile(`^forex_[a-zA-Z0-9]{1,5}_[a-zA-Z0-9]{1,5}\.csv$`)
	stockName = regexp.MustCompile(`^stock_[a-zA-Z0-9.]{1,15}_[a-zA-Z0-9.]{1,15}_[a-zA-Z0-9]{1,5}\.csv$`)
	indexName = regexp.MustCompile(`^index_[a-zA-Z0-9.^]{1,10}\.csv$`)
)

// Filename derives the storage file name from the instrument identity.
// It is a pure function of the variant.
func (i Instrument) Filename() (string, error) {
	var name string
	var format *regexp.Regexp
	switch i.Kind {
	case Forex:
		name = fmt.Sprintf("forex_%s_%s.csv", i.Symbol, i.Currency)
		format = forexName
	case Stock:
		name = fmt.Sprintf("stock_%s_%s_%s.csv", i.Symbol, i.Exchange, i.Currency)
		format = stockName
	case Index:
		name = fmt.Sprintf("index_%s.csv", i.Symbol)
		format = indexName
	default:
		return "", fmt.Errorf("unknown instrument kind %v", i.Kind)
	}
	if !format.MatchString(name) {
		return "", fmt.Errorf("instrument %s does not form a valid storage file name %q", i, name)
	}
	return name, nil
}

// String returns a short human-readable identity, used in diagnostics.
func (i Instrument) String() string {
	switch i.Kind {
	case Forex:
		return fmt.Sprintf("forex %s/%s", i.Symbol, i.Currency)
	case Stock:
		return fmt.Sprintf("stock %s.%s (%s)", i.Symbol, i.Exchange, i.Currency)
	default:
		return fmt.Sprintf("index %s", i.Symbol)
	}
}
