package portfolio

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/user/stockpile/backend/internal/apperr"
	"github.com/user/stockpile/backend/internal/models"
	"github.com/user/stockpile/backend/internal/pricing"
)

// AssetStore is the persistence the asset service needs.
type AssetStore interface {
	CreateAsset(ctx context.Context, asset *models.AssetRecord) error
	GetUserAssets(ctx context.Context, userID int64) ([]*models.AssetRecord, error)
}

// Service adds, lists and values a user's assets.
type Service struct {
	assets AssetStore
	quoter pricing.Quoter
	now    func() time.Time
}

// NewService returns a Service. A nil quoter means pricing.Manual.
func NewService(assets AssetStore, quoter pricing.Quoter) *Service {
	if quoter == nil {
		quoter = pricing.Manual{}
	}
	return &Service{assets: assets, quoter: quoter, now: time.Now}
}

// ListAssets returns the user's assets, newest first.
func (s *Service) ListAssets(ctx context.Context, userID int64) ([]models.Asset, error) {
	if userID == 0 {
		return nil, apperr.NewValidation("User ID is required")
	}

	records, err := s.assets.GetUserAssets(ctx, userID)
	if err != nil {
		return nil, err
	}

	assets := make([]models.Asset, 0, len(records))
	for _, r := range records {
		assets = append(assets, toAsset(r))
	}
	return assets, nil
}

// AddAsset stores a new asset and returns it as stored.
// An omitted current price is the purchase price; an omitted purchase date is now.
func (s *Service) AddAsset(ctx context.Context, in models.NewAsset) (models.Asset, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	switch {
	case in.UserID == 0:
		return models.Asset{}, apperr.NewValidation("User ID is required")
	case symbol == "":
		return models.Asset{}, apperr.NewValidation("Symbol is required")
	case in.Shares == nil:
		return models.Asset{}, apperr.NewValidation("Shares are required")
	case in.PurchasePrice == nil:
		return models.Asset{}, apperr.NewValidation("Purchase price is required")
	case !finite(*in.Shares), !finite(*in.PurchasePrice), in.CurrentPrice != nil && !finite(*in.CurrentPrice):
		return models.Asset{}, apperr.NewValidation("Shares and prices must be finite numbers")
	}

	record := &models.AssetRecord{
		UserID:        in.UserID,
		Symbol:        symbol,
		Shares:        *in.Shares,
		PurchasePrice: *in.PurchasePrice,
		CurrentPrice:  in.CurrentPrice,
		BoughtOn:      in.BoughtOn,
	}
	if record.CurrentPrice == nil {
		price := record.PurchasePrice
		record.CurrentPrice = &price
	}
	if record.BoughtOn == nil {
		now := ceilMicrosecond(s.now().UTC())
		record.BoughtOn = &now
	}

	// Accepted as entered; only the client form enforces non-negative numbers.
	if record.Shares < 0 || record.PurchasePrice < 0 || *record.CurrentPrice < 0 {
		log.Printf("WARNING: storing %s for user %d with a negative value (shares %v, purchase %v, current %v)",
			symbol, in.UserID, record.Shares, record.PurchasePrice, *record.CurrentPrice)
	}

	if err := s.assets.CreateAsset(ctx, record); err != nil {
		return models.Asset{}, err
	}
	return toAsset(record), nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// toAsset converts a stored row to the API shape.
// A null current price reads as the purchase price.
func toAsset(r *models.AssetRecord) models.Asset {
	current := r.PurchasePrice
	if r.CurrentPrice != nil {
		current = *r.CurrentPrice
	}
	return models.Asset{
		ID:            r.ID,
		Symbol:        r.Symbol,
		Shares:        r.Shares,
		PurchasePrice: r.PurchasePrice,
		CurrentPrice:  current,
		BoughtOn:      r.BoughtOn,
	}
}

// ceilMicrosecond rounds t up to the timestamp column's precision, so the
// stored value is never earlier than t.
func ceilMicrosecond(t time.Time) time.Time {
	r := t.Truncate(time.Microsecond)
	if r.Before(t) {
		r = r.Add(time.Microsecond)
	}
	return r
}

// Summary values the user's assets. Prices come from the quoter when it has
// one, otherwise from the stored current price.
func (s *Service) Summary(ctx context.Context, userID int64) (models.Summary, error) {
	assets, err := s.ListAssets(ctx, userID)
	if err != nil {
		return models.Summary{}, err
	}

	for i := range assets {
		price, ok, err := s.quoter.Quote(ctx, assets[i].Symbol)
		if err != nil {
			log.Printf("price lookup for %s failed, using stored price: %v", assets[i].Symbol, err)
			continue
		}
		if ok {
			assets[i].CurrentPrice = price
		}
	}
	return Summarize(assets), nil
}
