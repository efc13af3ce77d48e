// Package render presents validation results. It separates presentation from
// the engine so the same report can be shown as aligned text, a terminal
// table, or JSON for the web API.
//
// Errors are rendered by a Formatter:
//   - TextFormatter: one line per error, with source context for load errors
//   - JSONFormatter: structured objects for APIs and web interfaces
//
// Reports are rendered by Text, Table and JSON.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsecamp/reimburse/loader"
	"github.com/fsecamp/reimburse/validation"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	source []byte
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the input content shown around load errors.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.source = source
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error.
func (tf *TextFormatter) Format(err error) string {
	var le *loader.LoadError
	if errors.As(err, &le) && le.Line > 0 && tf.source != nil {
		return formatWithSourceContext(le.Line, le.Error(), tf.source)
	}

	var re *validation.RecordError
	if errors.As(err, &re) {
		return fmt.Sprintf("Row %s [%s] %v", re.Row, re.Check, re.Err)
	}

	return err.Error()
}

// FormatAll formats multiple errors, one per line.
func (tf *TextFormatter) FormatAll(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = tf.Format(err)
	}
	return strings.Join(lines, "\n")
}

// formatWithSourceContext shows the message followed by the input lines up to
// and including the offending one, which is marked with '>'.
func formatWithSourceContext(line int, message string, source []byte) string {
	var buf strings.Builder

	buf.WriteString(message)
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(source), "\n")
	start := max(line-3, 0)
	end := min(line, len(sourceLines))

	for i := start; i < end; i++ {
		if i == line-1 {
			buf.WriteString(" > ")
		} else {
			buf.WriteString("   ")
		}
		buf.WriteString(strings.TrimRight(sourceLines[i], "\r"))
		buf.WriteByte('\n')
	}

	return buf.String()
}
