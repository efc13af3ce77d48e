package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fsecamp/reimburse/validation"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	failStyle   = cellStyle.Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// tableColumns are the check columns after Row, Child and Identifier.
var tableColumns = []struct {
	title string
	check validation.Check
}{
	{"ID", validation.CheckIdentifier},
	{"Date", validation.CheckDate},
	{"A+B+C=D", validation.CheckSum},
	{"Contribution", validation.CheckContribution},
	{"Formal ctrl", validation.CheckFormalControls},
	{"Cap", validation.CheckBeneficiaryCap},
}

// Table renders a report as a bordered terminal table with one marker per
// check and the blocking errors in the last column.
type Table struct {
	// Width wraps the table to the terminal width when positive.
	Width int
}

// Render writes the report.
func (t Table) Render(w io.Writer, report *validation.Report) error {
	headers := []string{"Row", "Child", "Identifier"}
	for _, c := range tableColumns {
		headers = append(headers, c.title)
	}
	headers = append(headers, "Blocking errors")

	blockingRows := make(map[int]bool)
	rows := make([][]string, 0, len(report.Outcomes))
	for i, o := range report.Outcomes {
		row := []string{o.Row, o.Child, o.Identifier}
		markers := make(map[validation.Check]string)
		for _, cr := range o.Results() {
			markers[cr.Check] = cr.Result.Status.Marker()
		}
		for _, c := range tableColumns {
			row = append(row, markers[c.check])
		}
		row = append(row, o.BlockingErrors())
		rows = append(rows, row)
		if o.HasBlocking() {
			blockingRows[i] = true
		}
	}

	last := len(headers) - 1
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == last && blockingRows[row]:
				return failStyle
			default:
				return cellStyle
			}
		})
	if t.Width > 0 {
		tbl = tbl.Width(t.Width)
	}

	_, err := io.WriteString(w, tbl.String()+"\n")
	return err
}
