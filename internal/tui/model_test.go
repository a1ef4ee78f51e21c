package tui

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
)

// fakeBackend keeps items in memory and records every call.
type fakeBackend struct {
	items     []model.Item
	nextID    int
	lists     int
	listCtxs  []context.Context
	created   []model.Item
	updated   []model.Item
	deleted   []model.Item
	evaluated []model.Item

	failCreate, failUpdate, failDelete, failList error
	feedback                                     string
}

func (f *fakeBackend) List(ctx context.Context) (model.ItemResponse, error) {
	f.lists++
	f.listCtxs = append(f.listCtxs, ctx)
	if err := ctx.Err(); err != nil {
		return model.ItemResponse{}, &api.TransportError{Method: http.MethodGet, Path: "/api/todos", Err: err}
	}
	if f.failList != nil {
		return model.ItemResponse{}, f.failList
	}
	out := append([]model.Item{}, f.items...)
	msg := ""
	if len(out) == 0 {
		msg = EmptyListText
	}
	return model.ItemResponse{Message: msg, Items: out}, nil
}

func (f *fakeBackend) Create(_ context.Context, item model.Item) error {
	f.created = append(f.created, item)
	if f.failCreate != nil {
		return f.failCreate
	}
	f.nextID++
	item.ID = string(rune('a' + f.nextID - 1))
	f.items = append(f.items, item)
	return nil
}

func (f *fakeBackend) Update(_ context.Context, item model.Item) error {
	f.updated = append(f.updated, item)
	if f.failUpdate != nil {
		return f.failUpdate
	}
	for i := range f.items {
		if f.items[i].ID == item.ID {
			f.items[i] = item
		}
	}
	return nil
}

func (f *fakeBackend) Delete(_ context.Context, item model.Item) error {
	f.deleted = append(f.deleted, item)
	if f.failDelete != nil {
		return f.failDelete
	}
	for i := range f.items {
		if f.items[i].ID == item.ID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) Evaluate(_ context.Context, item model.Item) (model.Feedback, error) {
	f.evaluated = append(f.evaluated, item)
	return model.Feedback{Message: f.feedback}, nil
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, f *fakeBackend) *Model {
	t.Helper()
	m := New(context.Background(), f, WithLogger(logging.Discard()))
	t.Cleanup(m.Close)
	return m
}

// send feeds msg to the model and runs the resulting command chain to
// completion, the way the Bubble Tea runtime would.
func send(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	for i := 0; msg != nil; i++ {
		if i > 10 {
			t.Fatal("command chain did not settle")
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			return
		}
		msg = cmd()
	}
}

func mounted(t *testing.T, f *fakeBackend) *Model {
	t.Helper()
	m := newModel(t, f)
	send(t, m, m.Init()())
	return m
}

func TestInitLoadsUnderTokenZero(t *testing.T) {
	f := &fakeBackend{items: []model.Item{{ID: "x", Title: "Buy milk"}}}
	m := newModel(t, f)
	if m.items != nil {
		t.Fatal("items should be nil before the first fetch")
	}

	msg := m.Init()()
	lm, ok := msg.(listedMsg)
	if !ok || lm.token != 0 {
		t.Fatalf("Init msg = %#v", msg)
	}
	send(t, m, msg)

	if m.items == nil || len(m.items.Items) != 1 || m.items.Items[0].Title != "Buy milk" {
		t.Fatalf("items = %+v", m.items)
	}
	if m.reloadToken != 0 {
		t.Fatalf("token = %d", m.reloadToken)
	}
}

func TestSubmitCreatesDraftAndReloads(t *testing.T) {
	f := &fakeBackend{}
	m := mounted(t, f)

	m.input.SetValue("Buy milk")
	_, cmd := m.Update(keyPress("enter"))
	if got := m.input.Value(); got != "" {
		t.Fatalf("draft not cleared before the request completes: %q", got)
	}
	send(t, m, cmd())

	if len(f.created) != 1 || f.created[0] != model.Draft("Buy milk") {
		t.Fatalf("created = %+v", f.created)
	}
	if m.reloadToken != 1 || f.lists != 2 {
		t.Fatalf("token = %d lists = %d", m.reloadToken, f.lists)
	}
	if len(m.items.Items) != 1 || m.items.Items[0].Done {
		t.Fatalf("items = %+v", m.items.Items)
	}
}

func TestCompleteAndDeleteSelected(t *testing.T) {
	f := &fakeBackend{items: []model.Item{
		{ID: "1", Title: "Buy milk"},
		{ID: "2", Title: "Walk dog"},
	}}
	m := mounted(t, f)
	send(t, m, keyPress("tab"))
	if m.focus != focusList {
		t.Fatal("tab should move focus to the list")
	}

	send(t, m, keyPress("down"))
	send(t, m, keyPress("c"))
	if len(f.updated) != 1 || f.updated[0] != (model.Item{ID: "2", Title: "Walk dog", Done: true}) {
		t.Fatalf("updated = %+v", f.updated)
	}
	if !m.items.Items[1].Done {
		t.Fatal("reloaded snapshot should show the item done")
	}

	send(t, m, keyPress("d"))
	if len(f.deleted) != 1 || f.deleted[0].ID != "2" {
		t.Fatalf("deleted = %+v", f.deleted)
	}
	if len(m.items.Items) != 1 || m.items.Items[0].ID != "1" {
		t.Fatalf("items = %+v", m.items.Items)
	}
}

func TestReloadCountMatchesCompletedMutations(t *testing.T) {
	f := &fakeBackend{}
	m := mounted(t, f)

	submit := func(title string) {
		m.setFocus(focusForm)
		m.input.SetValue(title)
		send(t, m, keyPress("enter"))
	}

	submit("one")
	submit("two")
	m.setFocus(focusList)
	send(t, m, keyPress("c"))

	f.failDelete = &api.HTTPError{Method: http.MethodDelete, Path: "/api/todos/a", StatusCode: 500}
	send(t, m, keyPress("d"))
	f.failDelete = nil
	send(t, m, keyPress("d"))

	// create, create, complete, delete succeeded; one delete failed
	if m.reloadToken != 4 {
		t.Fatalf("token = %d, want 4", m.reloadToken)
	}
	if f.lists != 5 {
		t.Fatalf("list calls = %d, want mount + 4", f.lists)
	}
}

func TestFailedMutationKeepsSnapshotAndReports(t *testing.T) {
	f := &fakeBackend{items: []model.Item{{ID: "1", Title: "Buy milk"}}}
	m := mounted(t, f)
	before := m.items

	f.failCreate = &api.HTTPError{Method: http.MethodPost, Path: "/api/todos", StatusCode: 400, Body: `{"message":"title: required"}`}
	m.input.SetValue("x")
	_, cmd := m.Update(keyPress("enter"))
	_, next := m.Update(cmd())

	if next != nil {
		t.Fatal("failed mutation should not reload")
	}
	if m.reloadToken != 0 || m.items != before {
		t.Fatal("snapshot replaced after a failed mutation")
	}
	if !strings.Contains(m.lastErr, "400") {
		t.Fatalf("status line = %q", m.lastErr)
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Fatal("list should still render after an error")
	}
}

func TestStaleListIsDiscarded(t *testing.T) {
	f := &fakeBackend{}
	m := mounted(t, f)

	// Two mutations complete before either reload runs.
	_, first := m.Update(mutatedMsg{action: actionCreate})
	f.items = []model.Item{{ID: "1", Title: "newest"}}
	_, second := m.Update(mutatedMsg{action: actionCreate})

	newer := second()
	older := first()

	// listCtxs[2] belongs to the first reload, cancelled when the second started
	if err := f.listCtxs[2].Err(); !errors.Is(err, context.Canceled) {
		t.Fatalf("first fetch ctx err = %v", err)
	}

	m.Update(newer)
	m.Update(older)
	if m.lastErr != "" {
		t.Fatalf("stale result surfaced an error: %q", m.lastErr)
	}
	if len(m.items.Items) != 1 || m.items.Items[0].Title != "newest" {
		t.Fatalf("items = %+v", m.items.Items)
	}

	// a stale success must not overwrite either
	m.Update(listedMsg{token: 1, resp: model.ItemResponse{Items: []model.Item{}}})
	if len(m.items.Items) != 1 {
		t.Fatal("stale success overwrote the snapshot")
	}
}

func TestFailedFetchKeepsPreviousSnapshot(t *testing.T) {
	f := &fakeBackend{items: []model.Item{{ID: "1", Title: "Buy milk"}}}
	m := mounted(t, f)

	f.failList = &api.TransportError{Method: http.MethodGet, Path: "/api/todos", Err: errors.New("connection refused")}
	send(t, m, mutatedMsg{action: actionComplete})

	if m.items == nil || len(m.items.Items) != 1 {
		t.Fatalf("items = %+v", m.items)
	}
	if !strings.Contains(m.lastErr, "unreachable") {
		t.Fatalf("status line = %q", m.lastErr)
	}
}

func TestEvaluateKeepsDraftAndDoesNotReload(t *testing.T) {
	f := &fakeBackend{feedback: "Looks actionable."}
	m := mounted(t, f)

	m.input.SetValue("")
	_, cmd := m.Update(keyPress("ctrl+f"))
	if !m.evaluating {
		t.Fatal("expected pending feedback")
	}
	_, next := m.Update(cmd())

	if next != nil {
		t.Fatal("evaluate should not reload")
	}
	if len(f.evaluated) != 1 || f.evaluated[0] != model.Draft("") {
		t.Fatalf("evaluated = %+v", f.evaluated)
	}
	if m.feedback == nil || *m.feedback != "Looks actionable." {
		t.Fatalf("feedback = %v", m.feedback)
	}
	if m.reloadToken != 0 || f.lists != 1 {
		t.Fatalf("token = %d lists = %d", m.reloadToken, f.lists)
	}

	m.input.SetValue("Buy milk")
	send(t, m, keyPress("ctrl+f"))
	if m.input.Value() != "Buy milk" {
		t.Fatal("draft cleared by evaluate")
	}
}

func TestQuitCancelsInFlightFetch(t *testing.T) {
	f := &fakeBackend{}
	m := newModel(t, f)
	cmd := m.Init()

	_, quit := m.Update(keyPress("ctrl+c"))
	if quit == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := quit().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}

	send(t, m, cmd())
	if err := f.listCtxs[0].Err(); !errors.Is(err, context.Canceled) {
		t.Fatalf("fetch ctx err = %v", err)
	}
	if m.items != nil || m.lastErr != "" {
		t.Fatal("cancelled fetch should be ignored")
	}
}

func TestListKeysIgnoredWhileTyping(t *testing.T) {
	f := &fakeBackend{items: []model.Item{{ID: "1", Title: "Buy milk"}}}
	m := mounted(t, f)

	for _, r := range "dq" {
		send(t, m, keyPress(string(r)))
	}
	if len(f.deleted) != 0 {
		t.Fatal("d in the form should type, not delete")
	}
	if got := m.input.Value(); got != "dq" {
		t.Fatalf("draft = %q", got)
	}
}

func TestViewStates(t *testing.T) {
	f := &fakeBackend{}
	m := newModel(t, f)
	if !strings.Contains(m.View(), loadingText) {
		t.Fatal("expected loading text before the first fetch")
	}

	send(t, m, m.Init()())
	if !strings.Contains(m.View(), EmptyListText) {
		t.Fatalf("view = %q", m.View())
	}

	f.items = []model.Item{{ID: "1", Title: "Buy milk", Done: true}}
	send(t, m, mutatedMsg{action: actionCreate})
	v := m.View()
	if !strings.Contains(v, "Buy milk") || !strings.Contains(v, boxChecked) {
		t.Fatalf("view = %q", v)
	}

	send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.list.Height() <= 3 {
		t.Fatalf("resize not applied: w=%d list h=%d", m.width, m.list.Height())
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&api.HTTPError{StatusCode: 404, Body: "not found\nmore"}, "load failed: server answered 404 (not found)"},
		{&api.DecodeError{Path: "/api/todos", Err: errors.New("bad")}, "load failed: unexpected response from server"},
		{&api.TransportError{Err: errors.New("refused")}, "load failed: server unreachable"},
		{api.ErrMissingID, "load failed: item was never saved"},
		{errors.New("boom"), "load failed: boom"},
	}
	for _, tt := range tests {
		if got := describeError("load", tt.err); got != tt.want {
			t.Errorf("describeError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
