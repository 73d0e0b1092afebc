package returns

import (
	"fmt"

	"github.com/profit-tool/profit/date"
)

// Converter converts values quoted in a foreign currency into the base
// currency, using the rate valid on each value's date.
type Converter interface {
	Convert(dates []date.Date, values []float64) ([]float64, error)
}

// HoldingData exposes the full transaction history of one asset, not just
// its analysis window. All per-transaction slices run over TransactionDates.
type HoldingData interface {
	TransactionDates() []date.Date
	Balances() []float64
	Prices() []float64
	Costs() []float64
	Payouts() []float64
	Inflows() []float64
	Outflows() []float64

	// LatestMarketPrice returns the most recent price known to the market
	// data layer, or ok=false when no price is available at all.
	LatestMarketPrice() (on date.Date, price float64, ok bool)

	// Currency conversion into the base currency, nil for a native asset.
	Converter() Converter
}

// holdingHistory is one asset's transaction history with all monetary
// slices already converted to the base currency.
type holdingHistory struct {
	dates    []date.Date
	balances []float64
	prices   []float64
	costs    []float64
	payouts  []float64
	inflows  []float64
	outflows []float64
}

func (h holdingHistory) slice(start, stop int) holdingHistory {
	return holdingHistory{
		dates:    h.dates[start:stop],
		balances: h.balances[start:stop],
		prices:   h.prices[start:stop],
		costs:    h.costs[start:stop],
		payouts:  h.payouts[start:stop],
		inflows:  h.inflows[start:stop],
		outflows: h.outflows[start:stop],
	}
}

// holdingBlock is one contiguous period of asset ownership, an index range
// [start, stop) over the transaction history.
type holdingBlock struct {
	start, stop int
}

// ownershipBlocks splits the transaction history at zero-balance gaps. Each
// block runs from the buy that opened a position to the full sell that
// closed it (the closing zero-balance entry included); the last block stays
// open when the asset is still held today.
func ownershipBlocks(balances []float64) ([]holdingBlock, error) {
	if balances[0] < 1e-9 {
		return nil, fmt.Errorf("transaction history starts with a zero balance, the first transaction must be a buy")
	}
	var blocks []holdingBlock
	start := 0
	for i, balance := range balances {
		if balance >= 1e-9 {
			continue
		}
		if start > 0 && balances[i-1] < 1e-9 {
			// several zero-balance entries between a full sell and the
			// next buy, move past them
			start++
			continue
		}
		blocks = append(blocks, holdingBlock{start, i + 1})
		start = i + 1
	}
	if balances[len(balances)-1] > 1e-9 {
		blocks = append(blocks, holdingBlock{start, len(balances)})
	}
	return blocks, nil
}

// blockReturn computes the return of one ownership block. A block ending
// with a zero balance was fully sold, so its final value is zero and no
// price of today is needed. An open block needs a price valid today: the
// latest market price if it is recent enough, otherwise a price-carrying
// transaction from today. Without either the return would silently refer to
// a stale valuation, so ErrUnavailable is returned instead.
func (h holdingHistory) blockReturn(marketOn date.Date, marketPrice float64, haveMarket bool, today date.Date) (Percent, error) {
	last := len(h.dates) - 1
	var val2 float64
	switch {
	case h.balances[last] < 1e-9:
		val2 = 0
	case haveMarket && !marketOn.Before(today):
		val2 = h.balances[last] * marketPrice
	case !h.dates[last].Before(today) && h.prices[last] > 1e-9:
		val2 = h.prices[last] * h.balances[last]
	default:
		return 0, fmt.Errorf("no price of today for the latest balance: %w", ErrUnavailable)
	}

	// The first transaction is the buy that opened the block. Its inflow
	// belongs to the period before the ownership started and must not count.
	val1 := h.prices[0] * h.balances[0]
	openingInflow := h.inflows[0]

	return CalcReturn(
		val1,
		val2,
		sum(h.outflows),
		sum(h.inflows)-openingInflow,
		sum(h.payouts),
		sum(h.costs),
	), nil
}

// HoldingPeriod computes the holding period return of an asset from its
// first transaction until today. When the asset was fully sold and bought
// again, the history holds several distinct ownership blocks; each block's
// return is computed relative to its own initial investment and the blocks
// are averaged, since a single return relative to the very first buy would
// distort repeat-buy histories.
func HoldingPeriod(asset HoldingData, today date.Date) (Percent, error) {
	dates := asset.TransactionDates()
	if len(dates) == 0 {
		return 0, fmt.Errorf("holding period without transactions: %w", ErrUnavailable)
	}
	h := holdingHistory{
		dates:    dates,
		balances: asset.Balances(),
		prices:   asset.Prices(),
		costs:    asset.Costs(),
		payouts:  asset.Payouts(),
		inflows:  asset.Inflows(),
		outflows: asset.Outflows(),
	}
	if len(h.balances) != len(dates) || len(h.prices) != len(dates) ||
		len(h.costs) != len(dates) || len(h.payouts) != len(dates) ||
		len(h.inflows) != len(dates) || len(h.outflows) != len(dates) {
		return 0, ErrMismatchedLengths
	}

	conv := asset.Converter()
	if conv != nil {
		var err error
		if h.prices, err = conv.Convert(dates, h.prices); err != nil {
			return 0, err
		}
		if h.costs, err = conv.Convert(dates, h.costs); err != nil {
			return 0, err
		}
		if h.payouts, err = conv.Convert(dates, h.payouts); err != nil {
			return 0, err
		}
		if h.inflows, err = conv.Convert(dates, h.inflows); err != nil {
			return 0, err
		}
		if h.outflows, err = conv.Convert(dates, h.outflows); err != nil {
			return 0, err
		}
	}

	marketOn, marketPrice, haveMarket := asset.LatestMarketPrice()
	if haveMarket && conv != nil {
		converted, err := conv.Convert([]date.Date{marketOn}, []float64{marketPrice})
		if err != nil {
			return 0, err
		}
		marketPrice = converted[0]
	}

	blocks, err := ownershipBlocks(h.balances)
	if err != nil {
		return 0, err
	}
	var total Percent
	for _, b := range blocks {
		pct, err := h.slice(b.start, b.stop).blockReturn(marketOn, marketPrice, haveMarket, today)
		if err != nil {
			return 0, err
		}
		total += pct
	}
	return total / Percent(len(blocks)), nil
}
