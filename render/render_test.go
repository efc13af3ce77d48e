package render

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/fsecamp/reimburse/loader"
	"github.com/fsecamp/reimburse/record"
	"github.com/fsecamp/reimburse/validation"
)

func testRow(id string, a, d float64, declared any, child string) record.Raw {
	return record.NewRaw(
		record.WithIdentifier(id),
		record.WithMandateDate("15/04/2024", record.NewDate(2024, time.April, 15)),
		record.WithAmounts(a, 0.0, 0.0, d),
		record.WithWeeks(1),
		record.WithDeclaredControls(declared),
		record.WithChild(child),
	)
}

func testReport(t *testing.T) *validation.Report {
	t.Helper()
	batch := &record.Batch{Reference: "2024-12/RER", Rows: []record.Raw{
		testRow("VRDTST01A01H501A", 100, 100, 5.0, "Verdi Bambino"),
		testRow("MRORSS80A01F205X", 100, 90, 5.0, "Rossi Mario"),
		testRow("MRORSS80A01F205X", 100, 100, 5.0, "Rossi Mario"),
	}}
	report, err := validation.Validate(context.Background(), batch, record.DefaultBindings(record.OffsetPasted))
	assert.NoError(t, err)
	assert.True(t, report.HasBlockingErrors)
	return report
}

func TestTextRender(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Text{}.Render(&buf, testReport(t)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, 7, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "Row    Child"), lines[0])
	assert.Contains(t, lines[1], "none")
	assert.Contains(t, lines[2], "❌ Total fee D=90.00")
	assert.Contains(t, lines[4], "Batch")
	assert.Contains(t, lines[4], "appears 2 times")
	assert.Equal(t, "", lines[5])
	assert.Equal(t, "4 rows, 2 clean, 2 with blocking errors", lines[6])

	// Identifier column starts at the same offset on every row.
	col := strings.Index(lines[1], "VRDTST01A01H501A")
	assert.Equal(t, col, strings.Index(lines[2], "MRORSS80A01F205X"))
}

func TestTextRenderVerbose(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Text{Verbose: true}.Render(&buf, testReport(t)))

	out := buf.String()
	assert.Contains(t, out, "    sum              ✅ OK\n")
	assert.Contains(t, out, "    formal_controls  ✅ OK (declared=5.00, computed=5.00)\n")
	assert.Contains(t, out, "    duplicate        ❌ Identifier 'MRORSS80A01F205X' appears 2 times in the batch\n")
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Table{}.Render(&buf, testReport(t)))

	out := buf.String()
	for _, want := range []string{"Row", "Identifier", "A+B+C=D", "Blocking errors", "VRDTST01A01H501A", "Batch", "✅", "❌"} {
		assert.Contains(t, out, want)
	}
}

func TestJSONRender(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, JSON{}.Render(&buf, testReport(t)))

	var doc struct {
		Reference         string `json:"reference"`
		HasBlockingErrors bool   `json:"has_blocking_errors"`
		Records           int    `json:"records"`
		Outcomes          []struct {
			Row string `json:"row"`
			Sum struct {
				Status  string `json:"status"`
				Message string `json:"message"`
			} `json:"sum"`
			Blocking []string `json:"blocking"`
		} `json:"outcomes"`
		Errors []ErrorJSON `json:"errors"`
	}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "2024-12/RER", doc.Reference)
	assert.True(t, doc.HasBlockingErrors)
	assert.Equal(t, 3, doc.Records)
	assert.Equal(t, 4, len(doc.Outcomes))
	assert.Equal(t, "fail", doc.Outcomes[1].Sum.Status)
	assert.Equal(t, "Batch", doc.Outcomes[3].Row)

	var dup *ErrorJSON
	for i := range doc.Errors {
		if doc.Errors[i].Check == string(validation.CheckDuplicate) {
			dup = &doc.Errors[i]
		}
	}
	assert.NotZero(t, dup)
	assert.Equal(t, "Batch", dup.Row)
	assert.Equal(t, any("MRORSS80A01F205X"), dup.Details["identifier"])
	assert.Equal(t, any(2.0), dup.Details["count"])
}

func TestTextFormatter(t *testing.T) {
	tf := NewTextFormatter()

	err := &validation.RecordError{Row: "3", Index: 2, Check: validation.CheckSum, Err: &validation.SumMismatchError{}}
	assert.True(t, strings.HasPrefix(tf.Format(err), "Row 3 [sum] "))

	plain := tf.Format(&loader.LoadError{Filename: "batch.csv", Line: 4, Message: "bad row"})
	assert.Equal(t, "batch.csv:4: bad row", plain)
}

func TestTextFormatterSourceContext(t *testing.T) {
	source := []byte("a\tb\nc\td\ne\tf\ng\th\n")
	tf := NewTextFormatter(WithSource(source))

	out := tf.Format(&loader.LoadError{Filename: "paste", Line: 3, Message: "pasted 2 columns, expected 15"})
	assert.Equal(t, "paste:3: pasted 2 columns, expected 15\n\n"+
		"   a\tb\n"+
		"   c\td\n"+
		" > e\tf\n", out)
}

func TestTextFormatterFormatAll(t *testing.T) {
	tf := NewTextFormatter()
	out := tf.FormatAll([]error{
		&loader.LoadError{Message: "one"},
		&loader.LoadError{Message: "two"},
	})
	assert.Equal(t, "<input>: one\n<input>: two", out)
}
