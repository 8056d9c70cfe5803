package portfolio

import (
	"github.com/shopspring/decimal"
	"github.com/user/stockpile/backend/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Summarize totals value (shares × current price) and cost (shares ×
// purchase price) over assets. The percentage is 0 when the cost is 0.
func Summarize(assets []models.Asset) models.Summary {
	value, cost := decimal.Zero, decimal.Zero
	for _, a := range assets {
		shares := decimal.NewFromFloat(a.Shares)
		value = value.Add(shares.Mul(decimal.NewFromFloat(a.CurrentPrice)))
		cost = cost.Add(shares.Mul(decimal.NewFromFloat(a.PurchasePrice)))
	}

	gain := value.Sub(cost)
	pct := decimal.Zero
	if !cost.IsZero() {
		pct = gain.Div(cost).Mul(hundred).Round(2)
	}

	return models.Summary{
		AssetCount:      len(assets),
		TotalValue:      value.InexactFloat64(),
		TotalCost:       cost.InexactFloat64(),
		GainLoss:        gain.InexactFloat64(),
		GainLossPercent: pct.InexactFloat64(),
	}
}
