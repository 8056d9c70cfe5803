package models

import (
	"time"
)

// User represents a user account
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never leaves the server
	CreatedAt    time.Time `json:"-"`
}

// AssetRecord is an assets row as stored.
// CurrentPrice and BoughtOn are nullable in the table.
type AssetRecord struct {
	ID            int64
	UserID        int64
	Symbol        string
	Shares        float64
	PurchasePrice float64
	CurrentPrice  *float64
	BoughtOn      *time.Time
	CreatedAt     time.Time
}

// Asset is a holding as returned by the API
type Asset struct {
	ID            int64      `json:"id"`
	Symbol        string     `json:"symbol"` // e.g., "AAPL"
	Shares        float64    `json:"shares"`
	PurchasePrice float64    `json:"purchasePrice"`
	CurrentPrice  float64    `json:"currentPrice"`
	BoughtOn      *time.Time `json:"boughtOn"` // null for rows stored without a date
}

// NewAsset carries the add-asset input. Pointer fields are optional.
type NewAsset struct {
	UserID        int64
	Symbol        string
	Shares        *float64
	PurchasePrice *float64
	CurrentPrice  *float64
	BoughtOn      *time.Time
}

// Summary aggregates a user's holdings. Derived, never stored.
type Summary struct {
	AssetCount      int     `json:"assetCount"`
	TotalValue      float64 `json:"totalValue"`
	TotalCost       float64 `json:"totalCost"`
	GainLoss        float64 `json:"gainLoss"`
	GainLossPercent float64 `json:"gainLossPercent"`
}
