package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/user/stockpile/backend/internal/apperr"
	"github.com/user/stockpile/backend/internal/middleware"
	"github.com/user/stockpile/backend/internal/models"
)

// CreateAssetRequest is the JSON body for adding an asset.
// currentPrice and boughtOn are optional.
type CreateAssetRequest struct {
	UserID        lenientID `json:"userId"`
	Symbol        string    `json:"symbol"`
	Shares        *number   `json:"shares"`
	PurchasePrice *number   `json:"purchasePrice"`
	CurrentPrice  *number   `json:"currentPrice"`
	BoughtOn      string    `json:"boughtOn"` // RFC 3339 or YYYY-MM-DD
}

// number is a finite float that also accepts a decimal JSON string such as
// "10.5". NaN, infinities and hex floats are rejected.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	raw := string(bytes.Trim(b, `"`))
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return &json.UnsupportedValueError{Str: raw}
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return &json.UnsupportedValueError{Str: raw}
	}
	*n = number(f)
	return nil
}

func (n *number) float() *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

// lenientID is an int64 that also accepts a numeric JSON string such as "1".
type lenientID int64

func (u *lenientID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	raw := string(bytes.Trim(b, `"`))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return &json.UnsupportedValueError{Str: raw}
	}
	*u = lenientID(id)
	return nil
}

// ListAssets returns the assets of the user named by the userId query parameter.
func (h *Handler) ListAssets(c *fiber.Ctx) error {
	userID, err := queryUserID(c)
	if err != nil {
		return err
	}
	if userID, err = authorize(c, userID); err != nil {
		return err
	}

	assets, err := h.assets.ListAssets(c.Context(), userID)
	if err != nil {
		return wrapUnexpected("Server error", err)
	}

	return c.JSON(assets)
}

// CreateAsset stores a new asset and returns it as stored.
func (h *Handler) CreateAsset(c *fiber.Ctx) error {
	req := new(CreateAssetRequest)
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse request body")
	}

	userID, err := authorize(c, int64(req.UserID))
	if err != nil {
		return err
	}
	boughtOn, err := parseBoughtOn(req.BoughtOn)
	if err != nil {
		return err
	}

	asset, err := h.assets.AddAsset(c.Context(), models.NewAsset{
		UserID:        userID,
		Symbol:        req.Symbol,
		Shares:        req.Shares.float(),
		PurchasePrice: req.PurchasePrice.float(),
		CurrentPrice:  req.CurrentPrice.float(),
		BoughtOn:      boughtOn,
	})
	if err != nil {
		return wrapUnexpected("Server error", err)
	}

	return c.Status(fiber.StatusCreated).JSON(asset)
}

// queryUserID parses ?userId=. An absent parameter reads as 0.
func queryUserID(c *fiber.Ctx) (int64, error) {
	raw := c.Query("userId")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.NewValidation("User ID must be a number")
	}
	return id, nil
}

// authorize applies the token's identity, when the request carried one:
// an absent user id defaults to the token's, a different one is forbidden.
func authorize(c *fiber.Ctx, userID int64) (int64, error) {
	tokenUser, ok := middleware.UserID(c)
	if !ok {
		return userID, nil
	}
	if userID == 0 {
		return tokenUser, nil
	}
	if userID != tokenUser {
		return 0, apperr.NewForbidden("You do not have permission to access this portfolio")
	}
	return userID, nil
}

func parseBoughtOn(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.NewValidation("boughtOn must be an RFC 3339 timestamp or a YYYY-MM-DD date")
}
