package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

// Backend is the remote the view talks to. *api.Client satisfies it.
type Backend interface {
	List(ctx context.Context) (model.ItemResponse, error)
	Create(ctx context.Context, item model.Item) error
	Update(ctx context.Context, item model.Item) error
	Delete(ctx context.Context, item model.Item) error
	Evaluate(ctx context.Context, item model.Item) (model.Feedback, error)
}

type focusArea int

const (
	focusForm focusArea = iota
	focusList
)

type action string

const (
	actionCreate   action = "create"
	actionComplete action = "complete"
	actionDelete   action = "delete"
)

// listedMsg carries the token the fetch was issued under.
type listedMsg struct {
	token int
	resp  model.ItemResponse
	err   error
}

type mutatedMsg struct {
	action action
	item   model.Item
	err    error
}

type feedbackMsg struct {
	feedback model.Feedback
	err      error
}

// Model is the Todo View. Use a pointer; Update mutates in place.
type Model struct {
	ctx     context.Context
	backend Backend
	logger  *log.Logger

	// items is nil until the first successful fetch.
	items    *model.ItemResponse
	list     list.Model
	input    textinput.Model
	feedback *string

	reloadToken int
	cancelFetch context.CancelFunc

	focus      focusArea
	listFocus  *bool
	evaluating bool
	lastErr    string

	width, height int
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// New builds a view bound to ctx. Cancelling ctx aborts every request the
// view has in flight.
func New(ctx context.Context, backend Backend, opts ...Option) *Model {
	focused := false
	m := &Model{
		ctx:       ctx,
		backend:   backend,
		logger:    log.Default(),
		listFocus: &focused,
		width:     80,
		height:    20,
	}
	for _, opt := range opts {
		opt(m)
	}

	l := list.New(nil, itemDelegate{focused: m.listFocus}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	m.list = l

	in := textinput.New()
	in.Placeholder = "What needs doing?"
	in.Prompt = "› "
	in.CharLimit = 200
	in.Cursor.SetMode(cursor.CursorStatic)
	in.Focus()
	m.input = in

	m.resize()
	return m
}

// Init loads the list under token 0.
func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

// Close cancels the in-flight fetch, if any.
func (m *Model) Close() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case listedMsg:
		m.applyList(msg)
		return m, nil

	case mutatedMsg:
		if msg.err != nil {
			m.fail(string(msg.action), msg.err)
			return m, nil
		}
		m.logger.Debug("mutation done", "action", msg.action, "id", msg.item.ID)
		m.reloadToken++
		return m, m.fetch()

	case feedbackMsg:
		m.evaluating = false
		if msg.err != nil {
			m.fail("feedback", msg.err)
			return m, nil
		}
		text := msg.feedback.Message
		m.feedback = &text
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return m.quit()
		}
		if m.focus == focusForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.ToForm):
		m.setFocus(focusForm)
		return m, nil
	case key.Matches(msg, keys.Complete):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.mutate(actionComplete, it.Completed(), m.backend.Update)
	case key.Matches(msg, keys.Delete):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.mutate(actionDelete, it, m.backend.Delete)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ToList):
		m.setFocus(focusList)
		return m, nil
	case key.Matches(msg, keys.Submit):
		item := model.Draft(m.input.Value())
		m.input.Reset()
		return m, m.mutate(actionCreate, item, m.backend.Create)
	case key.Matches(msg, keys.Feedback):
		m.evaluating = true
		return m, m.evaluate(model.Draft(m.input.Value()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.Close()
	return m, tea.Quit
}

// fetch cancels the previous fetch and issues a new one tagged with the
// current reload token.
func (m *Model) fetch() tea.Cmd {
	m.Close()
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelFetch = cancel

	token := m.reloadToken
	backend := m.backend
	return func() tea.Msg {
		resp, err := backend.List(ctx)
		return listedMsg{token: token, resp: resp, err: err}
	}
}

func (m *Model) applyList(msg listedMsg) {
	if msg.token != m.reloadToken {
		m.logger.Debug("discarding stale list", "token", msg.token, "current", m.reloadToken)
		return
	}
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return
		}
		m.fail("load", msg.err)
		return
	}

	resp := msg.resp
	m.items = &resp
	m.lastErr = ""
	m.list.SetItems(toListItems(resp.Items))
	if n := len(resp.Items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
}

func (m *Model) mutate(a action, item model.Item, fn func(context.Context, model.Item) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return mutatedMsg{action: a, item: item, err: fn(ctx, item)}
	}
}

func (m *Model) evaluate(item model.Item) tea.Cmd {
	ctx := m.ctx
	backend := m.backend
	return func() tea.Msg {
		fb, err := backend.Evaluate(ctx, item)
		return feedbackMsg{feedback: fb, err: err}
	}
}

func (m *Model) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return li.item, true
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	*m.listFocus = f == focusList
	if f == focusForm {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) fail(op string, err error) {
	m.logger.Warn("request failed", "op", op, "err", err)
	m.lastErr = describeError(op, err)
}

// describeError turns client errors into a one-line status message.
func describeError(op string, err error) string {
	var (
		httpErr   *api.HTTPError
		decodeErr *api.DecodeError
		transErr  *api.TransportError
	)
	switch {
	case errors.As(err, &httpErr):
		msg := fmt.Sprintf("%s failed: server answered %d", op, httpErr.StatusCode)
		if body := strings.TrimSpace(httpErr.Body); body != "" {
			msg += " (" + firstLine(body) + ")"
		}
		return msg
	case errors.As(err, &decodeErr):
		return op + " failed: unexpected response from server"
	case errors.As(err, &transErr):
		return op + " failed: server unreachable"
	case errors.Is(err, api.ErrMissingID):
		return op + " failed: item was never saved"
	default:
		return fmt.Sprintf("%s failed: %v", op, err)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
