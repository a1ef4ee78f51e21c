package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// RunOptions configures Run.
type RunOptions struct {
	Logger *log.Logger
	// Input and Output default to the terminal.
	Input  io.Reader
	Output io.Writer
	// AltScreen takes over the full terminal.
	AltScreen bool
}

// Run starts the Todo View and blocks until the user quits or ctx is done.
func Run(ctx context.Context, backend Backend, opt RunOptions) error {
	m := New(ctx, backend, WithLogger(opt.Logger))
	defer m.Close()

	popts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opt.AltScreen {
		popts = append(popts, tea.WithAltScreen())
	}
	if opt.Input != nil {
		popts = append(popts, tea.WithInput(opt.Input))
	}
	if opt.Output != nil {
		popts = append(popts, tea.WithOutput(opt.Output))
	}

	if _, err := tea.NewProgram(m, popts...).Run(); err != nil {
		// a cancelled parent context is a normal way to leave
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
