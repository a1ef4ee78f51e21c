package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	// EmptyListText is shown when the server returned no items.
	EmptyListText = "No items yet!"
	loadingText   = "Loading…"
	sidebarWidth  = 36
	// border + padding of a pane on one axis
	paneChrome = 4
	// header lines inside the list pane
	listHeader = 2
	// help + status lines under the panes
	footerLines = 2
)

func (m *Model) resize() {
	w := m.width - sidebarWidth - 2*paneChrome
	if w < 20 {
		w = 20
	}
	h := m.height - footerLines - paneChrome - listHeader
	if h < 3 {
		h = 3
	}
	m.list.SetSize(w, h)
	m.input.Width = sidebarWidth - paneChrome - 2
}

func (m *Model) View() string {
	left := pane(m.focus == focusList).
		Width(m.list.Width() + 2).
		Render(m.viewList())
	right := pane(m.focus == focusForm).
		Width(sidebarWidth - 2).
		Render(m.viewSidebar())

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return body + "\n" + m.viewHelp() + "\n" + m.viewStatus()
}

func (m *Model) viewList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Todo list"))
	if m.items != nil {
		b.WriteString("  " + m.viewCounts())
	}
	b.WriteString("\n")
	if m.items != nil && m.items.Message != "" {
		b.WriteString(accentStyle.Render(m.items.Message))
	}
	b.WriteString("\n")

	switch {
	case m.items == nil:
		b.WriteString(mutedStyle.Render(loadingText))
	case len(m.items.Items) == 0:
		// server message already says so when it's the same text
		if m.items.Message != EmptyListText {
			b.WriteString(mutedStyle.Render(EmptyListText))
		}
	default:
		b.WriteString(m.list.View())
	}
	return b.String()
}

func (m *Model) viewCounts() string {
	done := 0
	for _, it := range m.items.Items {
		if it.Done {
			done++
		}
	}
	pending := len(m.items.Items) - done
	return fmt.Sprintf("%s %d  %s %d",
		successStyle.Render(boxChecked), done,
		pendingStyle.Render(boxUnchecked), pending)
}

func (m *Model) viewSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add an item"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Feedback"))
	b.WriteString("\n")
	switch {
	case m.evaluating:
		b.WriteString(pendingStyle.Render("Thinking…"))
	case m.feedback != nil:
		b.WriteString(lipgloss.NewStyle().Width(sidebarWidth - paneChrome - 2).Render(*m.feedback))
	default:
		b.WriteString(mutedStyle.Render("ctrl+f to ask about the draft"))
	}
	return b.String()
}

func (m *Model) viewHelp() string {
	if m.focus == focusForm {
		return helpStyle.Render(helpLine(keys.formHelp()))
	}
	return helpStyle.Render(helpLine(keys.listHelp()))
}

func (m *Model) viewStatus() string {
	if m.lastErr == "" {
		return ""
	}
	return errorStyle.Render("!") + " " + mutedStyle.Render(m.lastErr)
}
