// Package api is the Stockpile HTTP API client used by the terminal client.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// User is the identity returned by register and login.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Asset is a stored holding as returned by the API.
type Asset struct {
	ID            int64   `json:"id"`
	Symbol        string  `json:"symbol"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchasePrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	BoughtOn      *string `json:"boughtOn"`
}

// NewAsset is the add-asset request body.
type NewAsset struct {
	UserID        int64    `json:"userId"`
	Symbol        string   `json:"symbol"`
	Shares        float64  `json:"shares"`
	PurchasePrice float64  `json:"purchasePrice"`
	CurrentPrice  *float64 `json:"currentPrice,omitempty"`
	BoughtOn      string   `json:"boughtOn,omitempty"`
}

// Summary is the server-side portfolio valuation.
type Summary struct {
	AssetCount      int     `json:"assetCount"`
	TotalValue      float64 `json:"totalValue"`
	TotalCost       float64 `json:"totalCost"`
	GainLoss        float64 `json:"gainLoss"`
	GainLossPercent float64 `json:"gainLossPercent"`
}

// Health is the health check body.
type Health struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	DBTime  time.Time `json:"dbTime"`
}

// Error is a non-success response. Message is the server's message.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == http.StatusUnauthorized
}

// Client talks to the API rooted at BaseURL, e.g. "http://localhost:5000/api".
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

func New(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: 10 * time.Second}
}

// SetToken sets the bearer token sent with every request; "" sends none.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, fiber.Get(c.baseURL+"/health"), http.StatusOK, &h)
	return h, err
}

func (c *Client) Register(ctx context.Context, email, password string) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	a := fiber.Post(c.baseURL + "/auth/register").JSON(credentials{email, password})
	err := c.do(ctx, a, http.StatusCreated, &out)
	return out.User, err
}

// Login authenticates and keeps the returned session token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var out struct {
		User  User   `json:"user"`
		Token string `json:"token"`
	}
	a := fiber.Post(c.baseURL + "/auth/login").JSON(credentials{email, password})
	if err := c.do(ctx, a, http.StatusOK, &out); err != nil {
		return User{}, err
	}
	c.token = out.Token
	return out.User, nil
}

func (c *Client) ListAssets(ctx context.Context, userID int64) ([]Asset, error) {
	assets := make([]Asset, 0)
	err := c.do(ctx, fiber.Get(c.userURL("/assets", userID)), http.StatusOK, &assets)
	return assets, err
}

func (c *Client) AddAsset(ctx context.Context, in NewAsset) (Asset, error) {
	var out Asset
	err := c.do(ctx, fiber.Post(c.baseURL+"/assets").JSON(in), http.StatusCreated, &out)
	return out, err
}

func (c *Client) Summary(ctx context.Context, userID int64) (Summary, error) {
	var out Summary
	err := c.do(ctx, fiber.Get(c.userURL("/portfolio", userID)), http.StatusOK, &out)
	return out, err
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) userURL(path string, userID int64) string {
	q := url.Values{"userId": {strconv.FormatInt(userID, 10)}}
	return c.baseURL + path + "?" + q.Encode()
}

// do sends the request and decodes a want-status body into out. The agent is
// released in every case.
func (c *Client) do(ctx context.Context, a *fiber.Agent, want int, out any) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			fiber.ReleaseAgent(a)
			return context.DeadlineExceeded
		}
	}
	a.Timeout(timeout)
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request failed: %w", errors.Join(errs...))
	}

	if code != want {
		var e struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &e); err != nil || e.Message == "" {
			e.Message = http.StatusText(code)
		}
		return &Error{Code: code, Message: e.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
