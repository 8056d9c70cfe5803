package portfolio

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/user/stockpile/backend/internal/apperr"
	"github.com/user/stockpile/backend/internal/models"
	"github.com/user/stockpile/backend/internal/pricing"
)

// fakeAssets keeps rows in insertion order and lists them newest first, like the table query.
type fakeAssets struct {
	mu     sync.Mutex
	nextID int64
	rows   []models.AssetRecord
	err    error
}

func (f *fakeAssets) CreateAsset(_ context.Context, a *models.AssetRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAssets) GetUserAssets(_ context.Context, userID int64) ([]*models.AssetRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.AssetRecord, 0)
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			row := f.rows[i]
			out = append(out, &row)
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

func TestAddAssetDefaults(t *testing.T) {
	store := &fakeAssets{}
	s := NewService(store, nil)
	start := time.Now()

	got, err := s.AddAsset(context.Background(), models.NewAsset{
		UserID:        1,
		Symbol:        "aapl",
		Shares:        ptr(10.0),
		PurchasePrice: ptr(100.0),
	})
	if err != nil {
		t.Fatalf("AddAsset: %v", err)
	}
	if got.ID == 0 || got.Symbol != "AAPL" {
		t.Fatalf("unexpected asset: %+v", got)
	}
	if got.CurrentPrice != got.PurchasePrice || got.CurrentPrice != 100 {
		t.Errorf("currentPrice = %v; want purchasePrice 100", got.CurrentPrice)
	}
	if got.BoughtOn == nil || got.BoughtOn.Before(start) {
		t.Errorf("boughtOn = %v; want a timestamp no earlier than %v", got.BoughtOn, start)
	}

	stored := store.rows[0]
	if stored.CurrentPrice == nil || *stored.CurrentPrice != 100 || stored.Symbol != "AAPL" {
		t.Errorf("stored row = %+v; want AAPL with current price 100", stored)
	}

	sum, err := s.Summary(context.Background(), 1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalValue != 1000 || sum.TotalCost != 1000 || sum.GainLoss != 0 || sum.AssetCount != 1 {
		t.Errorf("summary = %+v; want value 1000, cost 1000", sum)
	}
}

func TestAddAssetKeepsExplicitValues(t *testing.T) {
	s := NewService(&fakeAssets{}, nil)
	bought := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	got, err := s.AddAsset(context.Background(), models.NewAsset{
		UserID:        1,
		Symbol:        " msft ",
		Shares:        ptr(2.5),
		PurchasePrice: ptr(300.0),
		CurrentPrice:  ptr(410.25),
		BoughtOn:      &bought,
	})
	if err != nil {
		t.Fatalf("AddAsset: %v", err)
	}
	if got.Symbol != "MSFT" || got.CurrentPrice != 410.25 || !got.BoughtOn.Equal(bought) {
		t.Errorf("unexpected asset: %+v", got)
	}
}

func TestAddAssetRequiresFields(t *testing.T) {
	s := NewService(&fakeAssets{}, nil)
	full := models.NewAsset{UserID: 1, Symbol: "X", Shares: ptr(1.0), PurchasePrice: ptr(1.0)}

	cases := map[string]func(*models.NewAsset){
		"user":     func(a *models.NewAsset) { a.UserID = 0 },
		"symbol":   func(a *models.NewAsset) { a.Symbol = "  " },
		"shares":   func(a *models.NewAsset) { a.Shares = nil },
		"purchase": func(a *models.NewAsset) { a.PurchasePrice = nil },
	}
	for name, mutate := range cases {
		in := full
		mutate(&in)
		if _, err := s.AddAsset(context.Background(), in); !apperr.Is(err, apperr.Validation) {
			t.Errorf("%s missing: got %v; want validation error", name, err)
		}
	}
}

func TestAddAssetRejectsNonFinite(t *testing.T) {
	store := &fakeAssets{}
	s := NewService(store, nil)
	full := models.NewAsset{UserID: 1, Symbol: "X", Shares: ptr(1.0), PurchasePrice: ptr(1.0)}

	cases := map[string]func(*models.NewAsset){
		"NaN shares":    func(a *models.NewAsset) { a.Shares = ptr(math.NaN()) },
		"+Inf purchase": func(a *models.NewAsset) { a.PurchasePrice = ptr(math.Inf(1)) },
		"-Inf current":  func(a *models.NewAsset) { a.CurrentPrice = ptr(math.Inf(-1)) },
	}
	for name, mutate := range cases {
		in := full
		mutate(&in)
		if _, err := s.AddAsset(context.Background(), in); !apperr.Is(err, apperr.Validation) {
			t.Errorf("%s: got %v; want validation error", name, err)
		}
	}
	if len(store.rows) != 0 {
		t.Errorf("stored %d rows; want none", len(store.rows))
	}
}

func TestAddAssetAcceptsNegativeValues(t *testing.T) {
	s := NewService(&fakeAssets{}, nil)
	got, err := s.AddAsset(context.Background(), models.NewAsset{
		UserID: 1, Symbol: "X", Shares: ptr(-1.0), PurchasePrice: ptr(-5.0),
	})
	if err != nil {
		t.Fatalf("AddAsset: %v", err)
	}
	if got.Shares != -1 || got.CurrentPrice != -5 {
		t.Errorf("unexpected asset: %+v", got)
	}
}

func TestListAssets(t *testing.T) {
	store := &fakeAssets{}
	s := NewService(store, nil)
	ctx := context.Background()

	if _, err := s.ListAssets(ctx, 0); !apperr.Is(err, apperr.Validation) {
		t.Fatalf("ListAssets(0) = %v; want validation error", err)
	}

	created, err := s.AddAsset(ctx, models.NewAsset{UserID: 1, Symbol: "aapl", Shares: ptr(10.0), PurchasePrice: ptr(100.0), CurrentPrice: ptr(120.0)})
	if err != nil {
		t.Fatalf("AddAsset: %v", err)
	}
	if _, err := s.AddAsset(ctx, models.NewAsset{UserID: 2, Symbol: "tsla", Shares: ptr(1.0), PurchasePrice: ptr(200.0)}); err != nil {
		t.Fatalf("AddAsset: %v", err)
	}
	// A legacy row stored without current price or date.
	store.rows = append(store.rows, models.AssetRecord{ID: 99, UserID: 1, Symbol: "GOOG", Shares: 3, PurchasePrice: 50})

	assets, err := s.ListAssets(ctx, 1)
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].ID != 99 || assets[0].CurrentPrice != 50 || assets[0].BoughtOn != nil {
		t.Errorf("legacy row = %+v; want current price defaulted to 50 and null date", assets[0])
	}

	rt := assets[1]
	if rt.Symbol != created.Symbol || rt.Shares != created.Shares ||
		rt.PurchasePrice != created.PurchasePrice || rt.CurrentPrice != created.CurrentPrice {
		t.Errorf("round trip mismatch: created %+v, listed %+v", created, rt)
	}

	sum, err := s.Summary(ctx, 1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	// 10*120 + 3*50 ; the other user's TSLA is excluded
	if sum.TotalValue != 1350 || sum.TotalCost != 1150 || sum.GainLoss != 200 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestSummaryUsesQuoter(t *testing.T) {
	store := &fakeAssets{}
	s := NewService(store, pricing.NewTable(map[string]float64{"AAPL": 150}))
	ctx := context.Background()
	if _, err := s.AddAsset(ctx, models.NewAsset{UserID: 1, Symbol: "AAPL", Shares: ptr(2.0), PurchasePrice: ptr(100.0)}); err != nil {
		t.Fatalf("AddAsset: %v", err)
	}
	if _, err := s.AddAsset(ctx, models.NewAsset{UserID: 1, Symbol: "XYZ", Shares: ptr(1.0), PurchasePrice: ptr(10.0)}); err != nil {
		t.Fatalf("AddAsset: %v", err)
	}

	sum, err := s.Summary(ctx, 1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalValue != 310 || sum.TotalCost != 210 || sum.GainLoss != 100 {
		t.Errorf("summary = %+v; want value 310, cost 210", sum)
	}
	if sum.GainLossPercent != 47.62 {
		t.Errorf("gainLossPercent = %v; want 47.62", sum.GainLossPercent)
	}
}

func TestStoreErrorsPropagate(t *testing.T) {
	store := &fakeAssets{err: errors.New("connection refused")}
	s := NewService(store, nil)
	if _, err := s.ListAssets(context.Background(), 1); err == nil || apperr.Is(err, apperr.Validation) {
		t.Errorf("ListAssets = %v; want store error", err)
	}
	_, err := s.AddAsset(context.Background(), models.NewAsset{UserID: 1, Symbol: "X", Shares: ptr(1.0), PurchasePrice: ptr(1.0)})
	if err == nil {
		t.Errorf("AddAsset: want store error")
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		assets []models.Asset
		want   models.Summary
	}{
		{"empty", nil, models.Summary{}},
		{"fractional", []models.Asset{
			{Shares: 0.1, PurchasePrice: 0.2, CurrentPrice: 0.3},
			{Shares: 0.2, PurchasePrice: 0.1, CurrentPrice: 0.1},
		}, models.Summary{AssetCount: 2, TotalValue: 0.05, TotalCost: 0.04, GainLoss: 0.01, GainLossPercent: 25}},
		{"loss", []models.Asset{
			{Shares: 4, PurchasePrice: 25, CurrentPrice: 20},
		}, models.Summary{AssetCount: 1, TotalValue: 80, TotalCost: 100, GainLoss: -20, GainLossPercent: -20}},
	}
	for _, tt := range tests {
		if got := Summarize(tt.assets); got != tt.want {
			t.Errorf("%s: Summarize() = %+v; want %+v", tt.name, got, tt.want)
		}
	}
}

func TestCeilMicrosecond(t *testing.T) {
	in := time.Date(2024, 1, 1, 0, 0, 0, 1500, time.UTC)
	got := ceilMicrosecond(in)
	if got.Before(in) || got.Nanosecond() != 2000 {
		t.Errorf("ceilMicrosecond(%v) = %v", in, got)
	}
	exact := time.Date(2024, 1, 1, 0, 0, 0, 2000, time.UTC)
	if !ceilMicrosecond(exact).Equal(exact) {
		t.Errorf("ceilMicrosecond changed an exact value")
	}
}
