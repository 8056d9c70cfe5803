package commands

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/user/stockpile/cli/internal/session"
	"github.com/user/stockpile/cli/internal/view"
)

type healthCmd struct{}

func (*healthCmd) Name() string     { return "health" }
func (*healthCmd) Synopsis() string { return "check that the API and its database are up" }
func (*healthCmd) Usage() string {
	return `health

  Calls the API health check and prints the database time.
`
}
func (*healthCmd) SetFlags(*flag.FlagSet) {}

func (*healthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cancel := timeout(ctx)
	defer cancel()
	h, err := newClient().Health(ctx)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Printf("%s (db time %s)\n", h.Message, h.DBTime.Format("2006-01-02 15:04:05 MST"))
	return subcommands.ExitSuccess
}

type registerCmd struct{ credentials }

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create an account" }
func (*registerCmd) Usage() string {
	return `register -email <email> -password <password>
`
}
func (c *registerCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *registerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.missing() {
		fmt.Fprintln(os.Stderr, "Error: -email and -password are required.")
		return subcommands.ExitUsageError
	}
	ctx, cancel := timeout(ctx)
	defer cancel()
	u, err := newClient().Register(ctx, c.email, c.password)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Printf("✅ Created account %s (id %d).\n", u.Email, u.ID)
	return subcommands.ExitSuccess
}

type loginCmd struct{ credentials }

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in and show the dashboard" }
func (*loginCmd) Usage() string {
	return `login -email <email> -password <password>

  Logs in and prints the dashboard: totals and current holdings.
`
}
func (c *loginCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.missing() {
		fmt.Fprintln(os.Stderr, "Error: -email and -password are required.")
		return subcommands.ExitUsageError
	}
	ctx, cancel := timeout(ctx)
	defer cancel()
	s := session.New(newClient())
	err := s.Login(ctx, c.email, c.password)
	printMarkdown(os.Stdout, renderer(), view.Markdown(s))
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type assetsCmd struct{ credentials }

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "list holdings, newest first" }
func (*assetsCmd) Usage() string {
	return `assets -email <email> -password <password>
`
}
func (c *assetsCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *assetsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.missing() {
		fmt.Fprintln(os.Stderr, "Error: -email and -password are required.")
		return subcommands.ExitUsageError
	}
	ctx, cancel := timeout(ctx)
	defer cancel()
	client, u, err := c.login(ctx)
	if err != nil {
		return fail("%v", err)
	}
	assets, err := client.ListAssets(ctx, u.ID)
	if err != nil {
		return fail("%v", err)
	}
	printMarkdown(os.Stdout, renderer(), view.Dashboard(u, assets, false))
	return subcommands.ExitSuccess
}

type addCmd struct {
	credentials
	form session.AssetForm
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a holding" }
func (*addCmd) Usage() string {
	return `add -email <email> -password <password> -symbol <symbol> -shares <n> -price <buy price> [-current <price>] [-bought <YYYY-MM-DD>]

  Records a holding. The current price defaults to the buy price and the
  purchase date to now.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.form.Symbol, "symbol", "", "ticker symbol, e.g. AAPL (required)")
	f.StringVar(&c.form.Shares, "shares", "", "number of shares (required)")
	f.StringVar(&c.form.PurchasePrice, "price", "", "buy price per share (required)")
	f.StringVar(&c.form.CurrentPrice, "current", "", "current price per share")
	f.StringVar(&c.form.BoughtOn, "bought", "", "purchase date, YYYY-MM-DD")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.missing() {
		fmt.Fprintln(os.Stderr, "Error: -email and -password are required.")
		return subcommands.ExitUsageError
	}
	ctx, cancel := timeout(ctx)
	defer cancel()
	s := session.New(newClient())
	if err := s.Login(ctx, c.email, c.password); err != nil {
		return fail("%s", s.LoginError())
	}
	if err := s.OpenForm(); err != nil {
		return fail("%v", err)
	}
	a, err := s.SubmitAsset(ctx, c.form)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Printf("✅ Added %s shares of %s at %s.\n", decimal.NewFromFloat(a.Shares), a.Symbol, view.USD(decimal.NewFromFloat(a.PurchasePrice)))
	return subcommands.ExitSuccess
}

type summaryCmd struct{ credentials }

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show the server-side portfolio valuation" }
func (*summaryCmd) Usage() string {
	return `summary -email <email> -password <password>

  Prints total value, cost and gain or loss as computed by the API, which
  may use configured market prices instead of the stored current prices.
`
}
func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.missing() {
		fmt.Fprintln(os.Stderr, "Error: -email and -password are required.")
		return subcommands.ExitUsageError
	}
	ctx, cancel := timeout(ctx)
	defer cancel()
	client, u, err := c.login(ctx)
	if err != nil {
		return fail("%v", err)
	}
	sum, err := client.Summary(ctx, u.ID)
	if err != nil {
		return fail("%v", err)
	}
	printMarkdown(os.Stdout, renderer(), view.Summary(sum))
	return subcommands.ExitSuccess
}
