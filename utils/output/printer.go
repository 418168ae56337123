// Package output formats CLI output for the terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ColorMode controls whether the printer emits ANSI colors.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses "auto", "always" or "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors decides whether to color output. Auto honours NO_COLOR and
// TERM=dumb, then falls back to whether out is a terminal.
func ResolveColors(mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return !color.NoColor
	}
}

// Printer writes results to out and diagnostics to err.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
	quiet     bool
}

func NewPrinter(out, err io.Writer, mode ColorMode, quiet bool) *Printer {
	return &Printer{
		out:       out,
		err:       err,
		useColors: ResolveColors(mode),
		quiet:     quiet,
	}
}

// Result prints a command's primary output. It is never suppressed by quiet
// so the CLI stays usable in scripts.
func (p *Printer) Result(s string) {
	fmt.Fprintln(p.out, s)
}

func (p *Printer) Info(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.printf(p.err, color.FgCyan, "", format, args...)
}

func (p *Printer) Success(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.printf(p.err, color.FgGreen, "[OK] ", format, args...)
}

func (p *Printer) Warning(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.printf(p.err, color.FgYellow, "[WARN] ", format, args...)
}

// Error is printed even in quiet mode.
func (p *Printer) Error(format string, args ...interface{}) {
	p.printf(p.err, color.FgRed, "[ERROR] ", format, args...)
}

// KeyValue prints an aligned "key: value" line.
func (p *Printer) KeyValue(key string, value interface{}) {
	if p.quiet {
		return
	}
	label := fmt.Sprintf("%-12s", key+":")
	if p.useColors {
		bold := color.New(color.Bold)
		bold.EnableColor()
		label = bold.Sprint(label)
	}
	fmt.Fprintf(p.out, "  %s %v\n", label, value)
}

func (p *Printer) printf(w io.Writer, attr color.Attribute, prefix, format string, args ...interface{}) {
	if p.useColors {
		c := color.New(attr)
		c.EnableColor()
		c.Fprintf(w, prefix+format+"\n", args...)
		return
	}
	fmt.Fprintf(w, prefix+format+"\n", args...)
}
