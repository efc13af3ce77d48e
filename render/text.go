package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/fsecamp/reimburse/output"
	"github.com/fsecamp/reimburse/validation"
)

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, report *validation.Report) error
}

const (
	maxChildWidth = 28
	columnGap     = "  "
)

// Text renders a report as aligned plain text: one line per outcome row with
// its blocking errors, optionally followed by every check message.
type Text struct {
	// Styles colors markers and the summary line. Nil renders without color.
	Styles *output.Styles

	// Verbose lists all check results under each row.
	Verbose bool
}

// Render writes the report.
func (t Text) Render(w io.Writer, report *validation.Report) error {
	header := []string{"Row", "Child", "Identifier", "Blocking errors"}
	rows := make([][]string, len(report.Outcomes))
	for i, o := range report.Outcomes {
		rows[i] = []string{
			o.Row,
			runewidth.Truncate(o.Child, maxChildWidth, "…"),
			o.Identifier,
			o.BlockingErrors(),
		}
	}

	widths := make([]int, len(header)-1)
	for i := range widths {
		widths[i] = runewidth.StringWidth(header[i])
		for _, r := range rows {
			widths[i] = max(widths[i], runewidth.StringWidth(r[i]))
		}
	}

	var buf strings.Builder
	writeLine := func(cells []string) {
		for i, cell := range cells[:len(widths)] {
			buf.WriteString(runewidth.FillRight(cell, widths[i]))
			buf.WriteString(columnGap)
		}
		buf.WriteString(cells[len(widths)])
		buf.WriteByte('\n')
	}

	writeLine(header)
	for i, r := range rows {
		o := report.Outcomes[i]
		if t.Styles != nil && o.HasBlocking() {
			r[len(r)-1] = t.Styles.Error(r[len(r)-1])
		}
		writeLine(r)
		if t.Verbose {
			for _, cr := range o.Results() {
				msg := cr.Result.Message
				if t.Styles != nil {
					msg = t.Styles.Message(msg)
				}
				fmt.Fprintf(&buf, "    %-16s %s\n", cr.Check, msg)
			}
		}
	}

	buf.WriteByte('\n')
	buf.WriteString(t.summaryLine(report))
	buf.WriteByte('\n')

	_, err := io.WriteString(w, buf.String())
	return err
}

func (t Text) summaryLine(report *validation.Report) string {
	clean, blocking := report.Summary()
	line := fmt.Sprintf("%d rows, %d clean, %d with blocking errors", clean+blocking, clean, blocking)
	if t.Styles == nil {
		return line
	}
	if report.HasBlockingErrors {
		return t.Styles.Error(line)
	}
	return t.Styles.Success(line)
}
