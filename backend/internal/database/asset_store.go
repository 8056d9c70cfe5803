package database

import (
	"context"
	"fmt"

	"github.com/user/stockpile/backend/internal/models"
)

const assetColumns = `asset_id, user_id, symbol, shares, purchase_price, current_price, bought_on, created_at`

// CreateAsset inserts a new asset and fills in the stored row (ID, CreatedAt
// and the NUMERIC columns as read back) on the passed record.
func (s *Store) CreateAsset(ctx context.Context, asset *models.AssetRecord) error {
	query := `INSERT INTO assets (user_id, symbol, shares, purchase_price, current_price, bought_on)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + assetColumns

	err := s.db.QueryRow(ctx, query,
		asset.UserID, asset.Symbol, asset.Shares,
		asset.PurchasePrice, asset.CurrentPrice, asset.BoughtOn,
	).Scan(
		&asset.ID, &asset.UserID, &asset.Symbol, &asset.Shares,
		&asset.PurchasePrice, &asset.CurrentPrice, &asset.BoughtOn, &asset.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("error creating asset for user %d: %w", asset.UserID, err)
	}
	return nil
}

// GetUserAssets retrieves all assets for a user, newest first.
func (s *Store) GetUserAssets(ctx context.Context, userID int64) ([]*models.AssetRecord, error) {
	assets := make([]*models.AssetRecord, 0)
	query := `SELECT ` + assetColumns + `
			  FROM assets
			  WHERE user_id = $1
			  ORDER BY created_at DESC, asset_id DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying assets for user %d: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		asset := &models.AssetRecord{}
		err := rows.Scan(
			&asset.ID, &asset.UserID, &asset.Symbol, &asset.Shares,
			&asset.PurchasePrice, &asset.CurrentPrice, &asset.BoughtOn, &asset.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning asset row for user %d: %w", userID, err)
		}
		assets = append(assets, asset)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating asset rows for user %d: %w", userID, rows.Err())
	}

	return assets, nil
}
