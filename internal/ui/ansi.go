package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

// ColorMode decides when escape codes are emitted.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// Printer writes themed output. The zero value is not usable; use New.
type Printer struct {
	Out   io.Writer
	Err   io.Writer
	theme Theme
	color bool
}

// New returns a printer for out/err. Nil writers default to stdout/stderr.
func New(out, err io.Writer, themeName string, mode ColorMode) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if err == nil {
		err = os.Stderr
	}
	t := ThemeByName(themeName)
	color := false
	switch mode {
	case ColorAlways:
		color = true
	case ColorAuto:
		color = isTTY(out)
	}
	if t.NoColor {
		color = false
	}
	return &Printer{Out: out, Err: err, theme: t, color: color}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Theme returns the active theme.
func (p *Printer) Theme() Theme { return p.theme }

// C wraps s in color when color output is on.
func (p *Printer) C(color, s string) string {
	if !p.color || color == "" {
		return s
	}
	return color + s + reset
}

func (p *Printer) OK(msg string)   { fmt.Fprintln(p.Out, p.C(fgGreen, symCheck+" "+msg)) }
func (p *Printer) Fail(msg string) { fmt.Fprintln(p.Err, p.C(fgRed, symCross+" "+msg)) }

// Hint prints a muted line on the error stream.
func (p *Printer) Hint(msg string) { fmt.Fprintln(p.Err, p.C(p.theme.Muted, msg)) }

// Println writes one plain line to Out.
func (p *Printer) Println(a ...any) { fmt.Fprintln(p.Out, a...) }
