// Package pricing defines where current prices come from when a portfolio is valued.
// Manual is the default and leaves the manually entered current price in charge.
package pricing

import (
	"context"
	"strings"
)

// Quoter looks up the current price of a symbol.
// ok is false when the quoter has no price for it.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (price float64, ok bool, err error)
}

// Manual never quotes; stored current prices are used as entered.
type Manual struct{}

func (Manual) Quote(context.Context, string) (float64, bool, error) { return 0, false, nil }

// Table quotes from a fixed symbol->price map. It is never mutated after
// construction, so concurrent Quote calls need no locking.
type Table struct {
	prices map[string]float64
}

// NewTable copies prices; keys are upper-cased.
func NewTable(prices map[string]float64) *Table {
	t := &Table{prices: make(map[string]float64, len(prices))}
	for symbol, price := range prices {
		t.prices[strings.ToUpper(symbol)] = price
	}
	return t
}

func (t *Table) Quote(_ context.Context, symbol string) (float64, bool, error) {
	price, ok := t.prices[strings.ToUpper(strings.TrimSpace(symbol))]
	return price, ok, nil
}

// Prices returns a copy of the table.
func (t *Table) Prices() map[string]float64 {
	pricesCopy := make(map[string]float64, len(t.prices))
	for k, v := range t.prices {
		pricesCopy[k] = v
	}
	return pricesCopy
}

// FromTable returns Manual for an empty table, a Table otherwise.
func FromTable(prices map[string]float64) Quoter {
	if len(prices) == 0 {
		return Manual{}
	}
	return NewTable(prices)
}
