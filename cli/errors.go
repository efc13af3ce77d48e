package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fsecamp/reimburse/loader"
	"github.com/fsecamp/reimburse/render"
)

var (
	errMarkerStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	// Source lines are shown as read, tabs included.
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"}).TabWidth(lipgloss.NoTabConversion)
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	source    []byte
	formatter *render.TextFormatter
}

// NewErrorRenderer creates a renderer with source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source, formatter: render.NewTextFormatter()}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	var le *loader.LoadError
	if errors.As(err, &le) && le.Line > 0 && r.source != nil {
		return r.renderWithSourceContext(le.Line, le.Error())
	}
	return errorStyle.Render(r.formatter.Format(err))
}

// RenderAll formats multiple errors, one per line.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = r.Render(err)
	}
	return strings.Join(lines, "\n")
}

func (r *ErrorRenderer) renderWithSourceContext(line int, message string) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(r.source), "\n")
	start := max(line-3, 0)
	end := min(line, len(sourceLines))

	for i := start; i < end; i++ {
		text := strings.TrimRight(sourceLines[i], "\r")
		if i == line-1 {
			buf.WriteString(errMarkerStyle.Render(" > "))
		} else {
			buf.WriteString("   ")
		}
		buf.WriteString(errContextStyle.Render(text))
		buf.WriteByte('\n')
	}

	return buf.String()
}
