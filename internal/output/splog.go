// Package output provides operator-facing output for the forktip CLI.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI codes used when the writer is a terminal
const (
	ansiReset  = "\x1b[0m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiDim    = "\x1b[2m"
)

// Splog provides structured logging and output
type Splog struct {
	writer  io.Writer
	color   bool
	verbose bool
}

// NewSplog creates a new splog instance writing to stdout, with color when
// stdout is a terminal.
func NewSplog() *Splog {
	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return &Splog{
		writer: os.Stdout,
		color:  color,
	}
}

// NewSplogTo creates a splog instance writing to the given writer, without color.
func NewSplogTo(w io.Writer) *Splog {
	return &Splog{writer: w}
}

// SetVerbose enables debug output
func (s *Splog) SetVerbose(v bool) {
	s.verbose = v
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, format+"\n", args...)
}

// Newline writes a newline
func (s *Splog) Newline() {
	fmt.Fprintln(s.writer)
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, s.paint(ansiYellow, "warning: ")+format+"\n", args...)
}

// Error writes an error message
func (s *Splog) Error(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, s.paint(ansiRed, "error: ")+format+"\n", args...)
}

// Debug writes a debug message, shown only in verbose mode
func (s *Splog) Debug(format string, args ...interface{}) {
	if !s.verbose {
		return
	}
	fmt.Fprintf(s.writer, s.paint(ansiDim, format)+"\n", args...)
}

// Tip writes an operator hint
func (s *Splog) Tip(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, "tip: "+format+"\n", args...)
}

func (s *Splog) paint(code, text string) string {
	if !s.color {
		return text
	}
	return code + text + ansiReset
}
