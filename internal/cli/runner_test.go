package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idilsaglam/tada/internal/ai"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/server"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/store/memstore"
	"github.com/idilsaglam/tada/internal/store/sqlitestore"
	"github.com/idilsaglam/tada/internal/ui"
)

type env struct {
	t   *testing.T
	cfg *config.Config
	out bytes.Buffer
	err bytes.Buffer
}

// newEnv starts a todo server over a memory store and points the CLI at it.
func newEnv(t *testing.T, ev server.Evaluator) *env {
	t.Helper()
	srv, err := server.New(memstore.New(), ev)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.APIURL = ts.URL
	return &env{t: t, cfg: cfg}
}

func (e *env) run(args ...string) int {
	e.t.Helper()
	e.out.Reset()
	e.err.Reset()
	return Run(context.Background(), args, Options{
		Config:  e.cfg,
		Printer: ui.New(&e.out, &e.err, "mono", ui.ColorNever),
		Logger:  logging.Discard(),
	})
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	if code := e.run(args...); code != ExitOK {
		e.t.Fatalf("%v: exit %d, stderr %q", args, code, e.err.String())
	}
	return e.out.String()
}

type echoEvaluator struct{}

func (echoEvaluator) Evaluate(_ context.Context, title string) (string, error) {
	return "thoughts on " + title, nil
}

func TestAddListCompleteRemove(t *testing.T) {
	e := newEnv(t, echoEvaluator{})

	if out := e.mustRun("ls"); !strings.Contains(out, server.EmptyListMessage) {
		t.Fatalf("empty ls:\n%s", out)
	}

	e.mustRun("add", "Buy", "milk")
	e.mustRun("add", "Walk dog")
	out := e.mustRun("ls")
	if !strings.Contains(out, " 1. [ ] Buy milk") || !strings.Contains(out, " 2. [ ] Walk dog") {
		t.Fatalf("ls:\n%s", out)
	}

	if out := e.mustRun("done", "2"); !strings.Contains(out, "completed") {
		t.Fatalf("done: %q", out)
	}
	if out := e.mustRun("done", "2"); !strings.Contains(out, "already done") {
		t.Fatalf("done again: %q", out)
	}
	if out := e.mustRun("ls"); !strings.Contains(out, " 2. [x] Walk dog") {
		t.Fatalf("ls after done:\n%s", out)
	}

	e.mustRun("rm", "1")
	out = e.mustRun("ls")
	if strings.Contains(out, "Buy milk") || !strings.Contains(out, " 1. [x] Walk dog") {
		t.Fatalf("ls after rm:\n%s", out)
	}
}

func TestListGrouped(t *testing.T) {
	e := newEnv(t, echoEvaluator{})
	e.mustRun("add", "one")
	e.mustRun("add", "two")
	e.mustRun("done", "1")

	e.cfg.Group = true
	out := e.mustRun("ls")
	pending := strings.Index(out, "Pending")
	done := strings.Index(out, "Done")
	if pending < 0 || done < 0 || pending > done {
		t.Fatalf("grouped ls:\n%s", out)
	}
	// indexes stay the server order so done/rm keep working
	if !strings.Contains(out, " 2. [ ] two") || !strings.Contains(out, " 1. [x] one") {
		t.Fatalf("grouped ls:\n%s", out)
	}
	if !strings.Contains(out, " 50%") {
		t.Fatalf("progress missing:\n%s", out)
	}
}

func TestFeedback(t *testing.T) {
	e := newEnv(t, echoEvaluator{})
	if out := e.mustRun("feedback", "Buy", "milk"); out != "thoughts on Buy milk\n" {
		t.Fatalf("feedback = %q", out)
	}

	var disabled *ai.Client
	e = newEnv(t, disabled)
	if out := e.mustRun("feedback"); out != ai.DisabledMessage+"\n" {
		t.Fatalf("feedback = %q", out)
	}
}

func TestUsageErrors(t *testing.T) {
	e := newEnv(t, echoEvaluator{})
	tests := []struct {
		args []string
		want string
	}{
		{nil, "Usage:"},
		{[]string{"add"}, "usage: tada add"},
		{[]string{"add", "  "}, "empty title"},
		{[]string{"done"}, "usage: tada done"},
		{[]string{"rm", "x"}, "not a number"},
		{[]string{"done", "1"}, "index out of range: have 0, got 1"},
		{[]string{"frobnicate"}, "unknown subcommand"},
	}
	for _, tt := range tests {
		if code := e.run(tt.args...); code != ExitUsage {
			t.Errorf("%v: exit %d, want %d", tt.args, code, ExitUsage)
		}
		if !strings.Contains(e.err.String(), tt.want) {
			t.Errorf("%v: stderr %q, want %q", tt.args, e.err.String(), tt.want)
		}
	}
}

func TestHelp(t *testing.T) {
	e := newEnv(t, echoEvaluator{})
	if out := e.mustRun("help"); !strings.Contains(out, "tada serve") {
		t.Fatalf("help:\n%s", out)
	}
}

func TestServerUnreachable(t *testing.T) {
	e := newEnv(t, echoEvaluator{})
	ts := httptest.NewServer(nil)
	e.cfg.APIURL = ts.URL
	ts.Close()

	if code := e.run("ls"); code != ExitError {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(e.err.String(), "is the server running") {
		t.Fatalf("stderr %q", e.err.String())
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		cfg  config.ServerConfig
		want store.Store
	}{
		{config.ServerConfig{Store: config.StoreMemory}, &memstore.Store{}},
		{config.ServerConfig{Store: config.StoreJSON, JSONPath: filepath.Join(dir, "todos.json")}, &jsonstore.Store{}},
		{config.ServerConfig{Store: config.StoreSQLite, SQLitePath: filepath.Join(dir, "todos.db")}, &sqlitestore.Store{}},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Store, func(t *testing.T) {
			st, err := openStore(context.Background(), tt.cfg, logging.Discard())
			if err != nil {
				t.Fatal(err)
			}
			defer st.Close()
			if got, want := typeName(st), typeName(tt.want); got != want {
				t.Fatalf("store = %s, want %s", got, want)
			}
		})
	}

	if _, err := openStore(context.Background(), config.ServerConfig{Store: "etcd"}, logging.Discard()); err == nil {
		t.Fatal("expected error for unknown store")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *memstore.Store:
		return "memstore"
	case *jsonstore.Store:
		return "jsonstore"
	case *sqlitestore.Store:
		return "sqlitestore"
	}
	return "other"
}
