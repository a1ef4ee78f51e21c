package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Options carry everything a subcommand needs.
type Options struct {
	Config  *config.Config
	Printer *ui.Printer
	Logger  *log.Logger
	// HTTPClient is used for API calls; nil means a plain http.Client.
	HTTPClient *http.Client
}

type runner struct {
	cfg    *config.Config
	p      *ui.Printer
	logger *log.Logger
	client *api.Client
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.Config == nil {
		opt.Config = config.Default()
	}
	if opt.Printer == nil {
		opt.Printer = ui.New(nil, nil, opt.Config.Theme, ui.ColorAuto)
	}
	if opt.Logger == nil {
		opt.Logger = logging.Discard()
	}
	r := &runner{cfg: opt.Config, p: opt.Printer, logger: opt.Logger}
	r.client = api.New(r.cfg.APIURL,
		api.WithHTTPClient(opt.HTTPClient),
		api.WithLogger(opt.Logger))

	if len(args) == 0 {
		PrintHelp(r.p.Err)
		return ExitUsage
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.p.Out)
		return ExitOK

	case "ls":
		return r.doList(ctx)

	case "add":
		if len(a) == 0 {
			r.p.Fail("usage: tada add <title...>")
			return ExitUsage
		}
		return r.doAdd(ctx, strings.Join(a, " "))

	case "done", "rm":
		if len(a) != 1 {
			r.p.Fail("usage: tada " + cmd + " <index>")
			return ExitUsage
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			r.p.Fail(cmd + ": not a number: " + a[0])
			return ExitUsage
		}
		if cmd == "done" {
			return r.doComplete(ctx, n)
		}
		return r.doRemove(ctx, n)

	case "feedback":
		return r.doFeedback(ctx, strings.Join(a, " "))

	case "tui":
		return r.doTUI(ctx)

	case "serve":
		return r.doServe(ctx)
	}

	r.p.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.p.Err)
	PrintHelp(r.p.Err)
	return ExitUsage
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `tada - a tiny todo client and server

Usage:
  tada [flags] <subcommand> [args]

Subcommands:
  add <title...>       Add a new item (title can be multiple words)
  ls                   List items
  done <index>         Mark the item at 1-based index done
  rm <index>           Remove the item at 1-based index
  feedback <title...>  Ask the AI provider about a draft title
  tui                  Interactive list
  serve                Run the todo server

Flags:
  -api URL             Server base URL (default %s)
  -config FILE         Config file (default ./tada.toml)
  -theme NAME          classic, neon or mono
  -group               Group ls output by pending/done
  -log-level LEVEL     debug, info, warn or error

Examples:
  tada add "Buy milk"
  tada ls
  tada done 2
  tada rm 3
  tada serve
`, config.DefaultAPIURL)
}

// -------------- subcommand impls ----------------

func (r *runner) doList(ctx context.Context) int {
	resp, err := r.client.List(ctx)
	if err != nil {
		r.fail("load", err)
		return ExitError
	}
	items := resp.Items
	th := r.p.Theme()

	// Header + progress
	d, pn := stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		r.p.C(th.Title, "Todos"),
		r.p.C(th.Success, th.SymDone), d,
		r.p.C(th.Pending, th.SymUnchecked), pn,
		r.p.C(th.Accent, "Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, r.p.C(th.Muted, ui.ProgressBar(d, d+pn, 28)))
	lines = append(lines, "")

	switch {
	case len(items) == 0:
		msg := resp.Message
		if msg == "" {
			msg = "no items"
		}
		lines = append(lines, r.p.C(th.Muted, msg))
	case r.cfg.Group:
		lines = append(lines, r.groupLines(items)...)
	default:
		lines = append(lines, r.flatLines(items, 1)...)
	}
	lines = append(lines, "")
	lines = append(lines, r.p.C(th.Muted, "Tip: add with `tada add \"Buy milk\"`"))
	r.p.Panel(lines)
	return ExitOK
}

func (r *runner) doAdd(ctx context.Context, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		r.p.Fail("add: empty title")
		return ExitUsage
	}
	if err := r.client.Create(ctx, model.Draft(title)); err != nil {
		r.fail("add", err)
		return ExitError
	}
	r.p.OK("added")
	return ExitOK
}

func (r *runner) doComplete(ctx context.Context, userIndex int) int {
	it, code := r.itemAt(ctx, userIndex)
	if code != ExitOK {
		return code
	}
	if it.Done {
		r.p.OK("already done")
		return ExitOK
	}
	if err := r.client.Update(ctx, it.Completed()); err != nil {
		r.fail("done", err)
		return ExitError
	}
	r.p.OK("completed")
	return ExitOK
}

func (r *runner) doRemove(ctx context.Context, userIndex int) int {
	it, code := r.itemAt(ctx, userIndex)
	if code != ExitOK {
		return code
	}
	if err := r.client.Delete(ctx, it); err != nil {
		r.fail("rm", err)
		return ExitError
	}
	r.p.OK("removed")
	return ExitOK
}

func (r *runner) doFeedback(ctx context.Context, title string) int {
	fb, err := r.client.Evaluate(ctx, model.Draft(title))
	if err != nil {
		r.fail("feedback", err)
		return ExitError
	}
	r.p.Println(fb.Message)
	return ExitOK
}

// itemAt resolves a 1-based index against the current server list.
func (r *runner) itemAt(ctx context.Context, userIndex int) (model.Item, int) {
	resp, err := r.client.List(ctx)
	if err != nil {
		r.fail("load", err)
		return model.Item{}, ExitError
	}
	if userIndex < 1 || userIndex > len(resp.Items) {
		r.p.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(resp.Items), userIndex))
		r.p.Hint("Hint: run `tada ls` to see valid indexes")
		return model.Item{}, ExitUsage
	}
	return resp.Items[userIndex-1], ExitOK
}

func (r *runner) fail(op string, err error) {
	r.logger.Debug("command failed", "op", op, "err", err)
	r.p.Fail(op + ": " + err.Error())

	var httpErr *api.HTTPError
	var transErr *api.TransportError
	switch {
	case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound:
		r.p.Hint("Hint: the item may have been removed; run `tada ls` again")
	case errors.As(err, &transErr) && !errors.Is(err, context.Canceled):
		r.p.Hint("Hint: is the server running at " + r.cfg.APIURL + "? Start one with `tada serve`")
	}
}

// -------------- rendering helpers --------------

func stats(items []model.Item) (done, pending int) {
	for _, it := range items {
		if it.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

// flatLines numbers items from start so indexes match `done`/`rm`.
func (r *runner) flatLines(items []model.Item, start int) []string {
	th := r.p.Theme()
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", start+i)
		box := th.BoxUnchecked
		color := th.Muted
		if it.Done {
			box, color = th.BoxChecked, th.Success
		}
		title := it.Title
		if rs := []rune(title); len(rs) > 80 {
			title = string(rs[:77]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			r.p.C(th.Dim, idx), r.p.C(color, box), title))
	}
	return out
}

func (r *runner) groupLines(items []model.Item) []string {
	th := r.p.Theme()
	var pend, done []string
	for i, it := range items {
		line := r.flatLines([]model.Item{it}, i+1)[0]
		if it.Done {
			done = append(done, line)
		} else {
			pend = append(pend, line)
		}
	}
	section := func(name string, lines []string) []string {
		out := []string{r.p.C(th.Accent, name)}
		if len(lines) == 0 {
			return append(out, r.p.C(th.Muted, "(none)"))
		}
		return append(out, lines...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}
