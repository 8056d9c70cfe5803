package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/user/stockpile/cli/internal/api"
	"github.com/user/stockpile/cli/internal/session"
	"github.com/user/stockpile/cli/internal/view"
)

type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "interactive session: log in, browse and add holdings" }
func (*shellCmd) Usage() string {
	return `shell

  Starts an interactive session. Type "help" for the available commands.
`
}
func (*shellCmd) SetFlags(*flag.FlagSet) {}

func (*shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sh := newShell(session.New(newClient()), renderer(), os.Stdin, os.Stdout)
	if err := sh.run(ctx); err != nil {
		return fail("%v", err)
	}
	return subcommands.ExitSuccess
}

const shellHelp = `Commands:
  login <email> <password>      log in
  register <email> <password>   create an account and log in
  add                           open the add-asset form
  refresh                       reload holdings
  logout                        log out
  help                          show this help
  quit                          leave the shell
`

// shell drives a session from line input, redrawing the screen after every
// command.
type shell struct {
	s   *session.Session
	r   *view.Renderer
	in  *bufio.Scanner
	out io.Writer
}

func newShell(s *session.Session, r *view.Renderer, in io.Reader, out io.Writer) *shell {
	return &shell{s: s, r: r, in: bufio.NewScanner(in), out: out}
}

func (sh *shell) run(ctx context.Context) error {
	sh.draw()
	for {
		line, ok := sh.prompt("> ")
		if !ok {
			return sh.in.Err()
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if !sh.exec(ctx, fields[0], fields[1:]) {
			return sh.in.Err()
		}
	}
}

// exec runs one command and reports whether input is still available.
func (sh *shell) exec(ctx context.Context, cmd string, args []string) bool {
	switch cmd {
	case "help":
		fmt.Fprint(sh.out, shellHelp)
		return true

	case "login", "register":
		if len(args) != 2 {
			fmt.Fprintf(sh.out, "usage: %s <email> <password>\n", cmd)
			return true
		}
		if sh.s.State() == session.LoggedIn {
			sh.s.Logout()
		}
		if cmd == "login" {
			_ = sh.s.Login(ctx, args[0], args[1])
		} else {
			_ = sh.s.Register(ctx, args[0], args[1])
		}

	case "logout":
		sh.s.Logout()

	case "refresh":
		if err := sh.s.Refresh(ctx); err != nil {
			sh.report(err)
			return true
		}

	case "add":
		if err := sh.s.OpenForm(); err != nil {
			sh.alert(err)
			return true
		}
		sh.draw()
		form, ok := sh.readForm()
		if !ok {
			return false
		}
		if form == nil {
			sh.s.CloseForm()
		} else if _, err := sh.s.SubmitAsset(ctx, *form); err != nil {
			sh.report(err)
			if sh.s.FormOpen() {
				fmt.Fprintln(sh.out, `The form is still open: type "add" to try again or "cancel" to close it.`)
			}
			return true
		}

	case "cancel":
		sh.s.CloseForm()

	default:
		fmt.Fprintf(sh.out, "unknown command %q, type \"help\"\n", cmd)
		return true
	}
	sh.draw()
	return true
}

// readForm prompts for each field. A nil form means the user typed "cancel".
func (sh *shell) readForm() (*session.AssetForm, bool) {
	var f session.AssetForm
	fields := []struct {
		label string
		dst   *string
	}{
		{"Symbol (e.g. AAPL)", &f.Symbol},
		{"Shares", &f.Shares},
		{"Buy Price ($)", &f.PurchasePrice},
		{"Current Price (optional, leave empty to use Buy Price)", &f.CurrentPrice},
		{"Bought On (optional, YYYY-MM-DD)", &f.BoughtOn},
	}
	for _, field := range fields {
		v, ok := sh.prompt(field.label + ": ")
		if !ok {
			return nil, false
		}
		if strings.TrimSpace(v) == "cancel" {
			return nil, true
		}
		*field.dst = v
	}
	return &f, true
}

func (sh *shell) prompt(p string) (string, bool) {
	fmt.Fprint(sh.out, p)
	if !sh.in.Scan() {
		return "", false
	}
	return sh.in.Text(), true
}

func (sh *shell) draw() {
	printMarkdown(sh.out, sh.r, view.Markdown(sh.s))
}

func (sh *shell) alert(err error) {
	fmt.Fprintf(sh.out, "⚠ %v\n", err)
}

// report shows a failed dashboard call. A rejected session token sends the
// user back to the login screen.
func (sh *shell) report(err error) {
	if !api.IsUnauthorized(err) {
		sh.alert(err)
		return
	}
	sh.s.Logout()
	fmt.Fprintln(sh.out, "Your session has expired. Please log in again.")
	sh.draw()
}
