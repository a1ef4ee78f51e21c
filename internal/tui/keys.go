package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Complete  key.Binding
	Delete    key.Binding
	ToForm    key.Binding
	ToList    key.Binding
	Submit    key.Binding
	Feedback  key.Binding
	Move      key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Complete:  key.NewBinding(key.WithKeys("c", " ", "enter"), key.WithHelp("c", "complete")),
	Delete:    key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
	ToForm:    key.NewBinding(key.WithKeys("tab", "a"), key.WithHelp("tab", "add")),
	ToList:    key.NewBinding(key.WithKeys("tab", "esc"), key.WithHelp("tab", "list")),
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
	Feedback:  key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "feedback")),
	Move:      key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "move")),
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Move, k.Complete, k.Delete, k.ToForm, k.Quit}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Feedback, k.ToList, k.ForceQuit}
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
