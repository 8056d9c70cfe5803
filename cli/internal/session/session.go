// Package session holds the client-side state of a Stockpile terminal
// session: who is logged in, their holdings and whether the add-asset form is
// open.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/user/stockpile/cli/internal/api"
)

// State is the top-level screen.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged-in"
	}
	return "logged-out"
}

// ErrNotLoggedIn is returned by dashboard operations on a logged-out session.
var ErrNotLoggedIn = errors.New("not logged in")

// Backend is the subset of *api.Client the session drives.
type Backend interface {
	Login(ctx context.Context, email, password string) (api.User, error)
	Register(ctx context.Context, email, password string) (api.User, error)
	ListAssets(ctx context.Context, userID int64) ([]api.Asset, error)
	AddAsset(ctx context.Context, in api.NewAsset) (api.Asset, error)
	SetToken(token string)
}

// Session is not safe for concurrent use.
type Session struct {
	backend  Backend
	now      func() time.Time
	state    State
	user     api.User
	assets   []api.Asset
	formOpen bool
	loginErr string
}

func New(b Backend) *Session {
	return &Session{backend: b, now: time.Now}
}

func (s *Session) State() State       { return s.state }
func (s *Session) User() api.User     { return s.user }
func (s *Session) FormOpen() bool     { return s.formOpen }
func (s *Session) LoginError() string { return s.loginErr }

// Assets returns the holdings, newest first.
func (s *Session) Assets() []api.Asset {
	out := make([]api.Asset, len(s.assets))
	copy(out, s.assets)
	return out
}

// Login authenticates and loads the user's holdings. On failure the session
// stays logged out and the message is kept for the login screen.
func (s *Session) Login(ctx context.Context, email, password string) error {
	u, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.loginErr = loginMessage(err)
		return err
	}
	s.enter(ctx, u)
	return nil
}

// Register creates the account and logs straight in.
func (s *Session) Register(ctx context.Context, email, password string) error {
	if _, err := s.backend.Register(ctx, email, password); err != nil {
		s.loginErr = loginMessage(err)
		return err
	}
	return s.Login(ctx, email, password)
}

func (s *Session) enter(ctx context.Context, u api.User) {
	s.state = LoggedIn
	s.user = u
	s.loginErr = ""
	s.formOpen = false
	s.assets = nil
	if err := s.Refresh(ctx); err != nil {
		log.Printf("Failed to fetch assets: %v", err)
	}
}

// Logout forgets the user, their holdings and the session token.
func (s *Session) Logout() {
	s.state = LoggedOut
	s.user = api.User{}
	s.assets = nil
	s.formOpen = false
	s.loginErr = ""
	s.backend.SetToken("")
}

// Refresh reloads the holdings from the server. The current list is kept
// when the fetch fails.
func (s *Session) Refresh(ctx context.Context) error {
	if s.state != LoggedIn {
		return ErrNotLoggedIn
	}
	assets, err := s.backend.ListAssets(ctx, s.user.ID)
	if err != nil {
		return err
	}
	s.assets = assets
	return nil
}

func (s *Session) OpenForm() error {
	if s.state != LoggedIn {
		return ErrNotLoggedIn
	}
	s.formOpen = true
	return nil
}

func (s *Session) CloseForm() { s.formOpen = false }

// AssetForm is the raw add-asset input as typed.
type AssetForm struct {
	Symbol        string
	Shares        string
	PurchasePrice string
	CurrentPrice  string // optional, defaults to PurchasePrice
	BoughtOn      string // optional, YYYY-MM-DD or RFC 3339; defaults to now
}

// isoLayout is the millisecond UTC form the API stores boughtOn in.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Normalize turns the form into an add-asset request for userID.
func (f AssetForm) Normalize(userID int64, now time.Time) (api.NewAsset, error) {
	symbol := strings.ToUpper(strings.TrimSpace(f.Symbol))
	if symbol == "" {
		return api.NewAsset{}, errors.New("symbol is required")
	}
	shares, err := parseNumber("shares", f.Shares)
	if err != nil {
		return api.NewAsset{}, err
	}
	purchase, err := parseNumber("purchase price", f.PurchasePrice)
	if err != nil {
		return api.NewAsset{}, err
	}
	current := purchase
	if strings.TrimSpace(f.CurrentPrice) != "" {
		if current, err = parseNumber("current price", f.CurrentPrice); err != nil {
			return api.NewAsset{}, err
		}
	}

	bought := now.UTC()
	if v := strings.TrimSpace(f.BoughtOn); v != "" {
		if bought, err = parseDate(v); err != nil {
			return api.NewAsset{}, err
		}
	}

	return api.NewAsset{
		UserID:        userID,
		Symbol:        symbol,
		Shares:        shares,
		PurchasePrice: purchase,
		CurrentPrice:  &current,
		BoughtOn:      bought.UTC().Format(isoLayout),
	}, nil
}

func parseNumber(field, v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", field)
	}
	return n, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("bought on %q is not a date (YYYY-MM-DD)", v)
	}
	return t, nil
}

// SubmitAsset saves the form and puts the stored record at the top of the
// list, closing the form. On any error the form stays open and the list is
// unchanged.
func (s *Session) SubmitAsset(ctx context.Context, f AssetForm) (api.Asset, error) {
	if s.state != LoggedIn {
		return api.Asset{}, ErrNotLoggedIn
	}
	in, err := f.Normalize(s.user.ID, s.now())
	if err != nil {
		return api.Asset{}, err
	}
	saved, err := s.backend.AddAsset(ctx, in)
	if err != nil {
		return api.Asset{}, fmt.Errorf("failed to add asset: %w", err)
	}
	s.assets = append([]api.Asset{saved}, s.assets...)
	s.formOpen = false
	return saved, nil
}

// Totals is the dashboard aggregate over the in-memory holdings.
type Totals struct {
	Value    decimal.Decimal
	Cost     decimal.Decimal
	GainLoss decimal.Decimal
}

func (s *Session) Totals() Totals {
	return Sum(s.assets)
}

// Sum aggregates value (shares x current price) and cost (shares x purchase
// price) over assets.
func Sum(assets []api.Asset) Totals {
	var t Totals
	for _, a := range assets {
		shares := decimal.NewFromFloat(a.Shares)
		t.Value = t.Value.Add(shares.Mul(decimal.NewFromFloat(a.CurrentPrice)))
		t.Cost = t.Cost.Add(shares.Mul(decimal.NewFromFloat(a.PurchasePrice)))
	}
	t.GainLoss = t.Value.Sub(t.Cost)
	return t
}

func loginMessage(err error) string {
	var e *api.Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return "Login failed"
	}
	return "An error occurred"
}
