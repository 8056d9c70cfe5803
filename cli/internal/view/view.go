// Package view renders the session as Markdown for the terminal.
package view

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
	"github.com/user/stockpile/cli/internal/api"
	"github.com/user/stockpile/cli/internal/session"
)

const currency = money.USD

// USD formats an amount like "$1,234.50" (negatives as "-$1,234.50").
func USD(d decimal.Decimal) string {
	cur := money.GetCurrency(currency)
	cents := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(cents, currency).Display()
}

func usdFloat(f float64) string { return USD(decimal.NewFromFloat(f)) }

// signed formats a gain or loss with an explicit sign.
func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + USD(d.Abs())
	}
	return "+" + USD(d)
}

// Markdown returns the screen for the session's current state.
func Markdown(s *session.Session) string {
	if s.State() != session.LoggedIn {
		return Login(s.LoginError())
	}
	return Dashboard(s.User(), s.Assets(), s.FormOpen())
}

// Login is the logged-out screen; errMsg is shown inline when set.
func Login(errMsg string) string {
	var b strings.Builder
	b.WriteString("# Stockpile\n\n")
	b.WriteString("Sign in with `login <email> <password>` or create an account with `register <email> <password>`.\n")
	if errMsg != "" {
		fmt.Fprintf(&b, "\n> **Error:** %s\n", errMsg)
	}
	return b.String()
}

// Dashboard is the logged-in screen.
func Dashboard(u api.User, assets []api.Asset, formOpen bool) string {
	t := session.Sum(assets)

	var b strings.Builder
	b.WriteString("# Stockpile\n\n")
	fmt.Fprintf(&b, "Welcome, %s\n\n", u.Email)

	b.WriteString("| Total Value | Total Cost | Total Gain / Loss |\n")
	b.WriteString("| ---: | ---: | ---: |\n")
	fmt.Fprintf(&b, "| %s | %s | %s |\n\n", USD(t.Value), USD(t.Cost), signed(t.GainLoss))

	b.WriteString("## Your Current Holdings\n\n")
	if len(assets) == 0 {
		b.WriteString("No assets yet. Use `add` to start!\n")
	} else {
		b.WriteString("| Symbol | Shares | Buy Price | Current | Value | Gain / Loss | Bought On |\n")
		b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: | --- |\n")
		for _, a := range assets {
			b.WriteString(assetRow(a))
		}
	}

	if formOpen {
		b.WriteString("\n---\n\n## Add New Asset\n\n")
		b.WriteString("Symbol, shares and buy price are required. Current price defaults to the buy price and bought on to today.\n")
	}
	return b.String()
}

// Summary shows the API's own valuation of the portfolio.
func Summary(sum api.Summary) string {
	var b strings.Builder
	b.WriteString("# Portfolio Summary\n\n")
	b.WriteString("| Holdings | Total Value | Total Cost | Total Gain / Loss | Return |\n")
	b.WriteString("| ---: | ---: | ---: | ---: | ---: |\n")
	fmt.Fprintf(&b, "| %d | %s | %s | %s | %s%% |\n",
		sum.AssetCount, usdFloat(sum.TotalValue), usdFloat(sum.TotalCost),
		signed(decimal.NewFromFloat(sum.GainLoss)), decimal.NewFromFloat(sum.GainLossPercent).StringFixed(2))
	return b.String()
}

func assetRow(a api.Asset) string {
	shares := decimal.NewFromFloat(a.Shares)
	value := shares.Mul(decimal.NewFromFloat(a.CurrentPrice))
	cost := shares.Mul(decimal.NewFromFloat(a.PurchasePrice))

	bought := "-"
	if a.BoughtOn != nil && len(*a.BoughtOn) >= 10 {
		bought = (*a.BoughtOn)[:10]
	}
	return fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
		a.Symbol, shares.String(), usdFloat(a.PurchasePrice), usdFloat(a.CurrentPrice),
		USD(value), signed(value.Sub(cost)), bought)
}

// Renderer turns Markdown into styled terminal output.
type Renderer struct {
	r *glamour.TermRenderer
}

// NewRenderer picks a style from the terminal background. Pass style "notty"
// (or any glamour standard style) to force one.
func NewRenderer(style string, width int) (*Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	return &Renderer{r: r}, nil
}

func (r *Renderer) Render(md string) (string, error) {
	return r.r.Render(md)
}
