// Package commands implements the stockpile subcommands.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/user/stockpile/cli/internal/api"
	"github.com/user/stockpile/cli/internal/view"
)

const defaultAPI = "http://localhost:5000/api"

var (
	apiURL = flag.String("api", "", "Stockpile API base URL (default $STOCKPILE_API or "+defaultAPI+")")
	style  = flag.String("style", "", "glamour style for output (dark, light, notty; default: detect)")
	width  = flag.Int("width", 100, "word wrap width for rendered output")
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&healthCmd{}, "server")

	c.Register(&registerCmd{}, "account")
	c.Register(&loginCmd{}, "account")

	c.Register(&assetsCmd{}, "portfolio")
	c.Register(&addCmd{}, "portfolio")
	c.Register(&summaryCmd{}, "portfolio")

	c.Register(&shellCmd{}, "")
}

// BaseURL resolves the API root from -api, then STOCKPILE_API.
func BaseURL() string {
	if *apiURL != "" {
		return *apiURL
	}
	if v := os.Getenv("STOCKPILE_API"); v != "" {
		return v
	}
	return defaultAPI
}

func newClient() *api.Client { return api.New(BaseURL()) }

func timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 15*time.Second)
}

// credentials are the -email/-password flags shared by the account and
// portfolio commands, defaulting to STOCKPILE_EMAIL and STOCKPILE_PASSWORD.
type credentials struct {
	email    string
	password string
}

func (c *credentials) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", os.Getenv("STOCKPILE_EMAIL"), "account email (default $STOCKPILE_EMAIL)")
	f.StringVar(&c.password, "password", os.Getenv("STOCKPILE_PASSWORD"), "account password (default $STOCKPILE_PASSWORD)")
}

func (c *credentials) missing() bool { return c.email == "" || c.password == "" }

// login returns a client holding the session token and the logged-in user.
func (c *credentials) login(ctx context.Context) (*api.Client, api.User, error) {
	client := newClient()
	u, err := client.Login(ctx, c.email, c.password)
	if err != nil {
		return nil, api.User{}, err
	}
	return client, u, nil
}

// printMarkdown renders md to w, falling back to the raw text when no
// renderer could be built.
func printMarkdown(w io.Writer, r *view.Renderer, md string) {
	if r != nil {
		if out, err := r.Render(md); err == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	fmt.Fprint(w, md)
}

func renderer() *view.Renderer {
	r, err := view.NewRenderer(*style, *width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return nil
	}
	return r
}

func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}
