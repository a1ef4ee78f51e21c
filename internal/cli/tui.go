package cli

import (
	"context"
	"io"

	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/tui"
)

func (r *runner) doTUI(ctx context.Context) int {
	// The view owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if r.cfg.Log.File != "" {
		f, err := logging.OpenFile(r.cfg.Log.File)
		if err != nil {
			r.p.Fail("log file: " + err.Error())
			return ExitError
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.FromStrings(logOut, r.cfg.Log.Level, r.cfg.Log.Format)

	err := tui.Run(ctx, r.client, tui.RunOptions{
		Logger:    logger,
		AltScreen: true,
	})
	if err != nil {
		r.p.Fail("tui: " + err.Error())
		return ExitError
	}
	return ExitOK
}
