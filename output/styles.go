// Package output provides styling helpers for terminal output.
package output

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Styles provides styled output helpers for the CLI.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer. Colors are
// dropped automatically when w is not a terminal.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

// Success returns a styled success string (green + bold).
func (s *Styles) Success(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("2")).
		Bold().
		String()
}

// Error returns a styled error string (red + bold).
func (s *Styles) Error(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("1")).
		Bold().
		String()
}

// Info returns a styled informational string (cyan).
func (s *Styles) Info(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("6")).
		String()
}

// FilePath returns a styled file path (cyan).
func (s *Styles) FilePath(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("6")).
		Underline().
		String()
}

// Reference returns a styled funding reference or identifier (yellow).
func (s *Styles) Reference(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("3")).
		String()
}

// Amount returns a styled monetary amount (magenta).
func (s *Styles) Amount(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("5")).
		String()
}

// Keyword returns a styled keyword (bold).
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).
		Bold().
		String()
}

// Dim returns dimmed text (for secondary information).
func (s *Styles) Dim(text string) string {
	return s.output.String(text).
		Faint().
		String()
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("3")).
		Bold().
		String()
}

// Message styles a check message by its leading marker: failures red,
// informational notes cyan, passes green. Unmarked text is returned as is.
func (s *Styles) Message(msg string) string {
	switch {
	case strings.HasPrefix(msg, "❌"):
		return s.Error(msg)
	case strings.HasPrefix(msg, "ℹ"):
		return s.Info(msg)
	case strings.HasPrefix(msg, "✅"):
		return s.output.String(msg).Foreground(s.output.Color("2")).String()
	}
	return msg
}

// Timing returns a styled timing string. Slow operations are red, the rest dimmed.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.output.String(text).
			Foreground(s.output.Color("1")).
			String()
	}
	return s.Dim(text)
}

// Output returns the underlying termenv Output for advanced usage.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
