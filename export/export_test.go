package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fsecamp/reimburse/record"
	"github.com/fsecamp/reimburse/validation"
)

func fullRow(id string, a, b, c, d float64, weeks int, declared any) record.Raw {
	return record.NewRaw(
		record.WithIdentifier(id),
		record.WithMandateDate("15/04/2024", record.NewDate(2024, time.April, 15)),
		record.WithAmounts(a, b, c, d),
		record.WithWeeks(weeks),
		record.WithDeclaredControls(declared),
		record.WithChild("Verdi Bambino"),
		record.WithField(record.FieldCUP, "E11H24000010006"),
		record.WithField(record.FieldDistrict, "Pianura Est"),
		record.WithField(record.FieldLeadMunicipality, "Budrio"),
		record.WithField(record.FieldMandateNumber, "M-001"),
		record.WithField(record.FieldMandateHolder, "Comune di Budrio"),
		record.WithField(record.FieldMandateAmount, "1.200,00"),
		record.WithField(record.FieldCampMunicipality, "Budrio"),
		record.WithField(record.FieldCamp, "Centro Estivo Sole"),
		record.WithField(record.FieldParentName, "Verdi Genitore"),
	)
}

func validated(t *testing.T, rows ...record.Raw) *validation.Report {
	t.Helper()
	batch := &record.Batch{Reference: "2024-12/RER", Rows: rows}
	report, err := validation.Validate(context.Background(), batch, record.DefaultBindings(record.OffsetPasted))
	assert.NoError(t, err)
	return report
}

func TestNewRefusesBlockingReport(t *testing.T) {
	report := validated(t, fullRow("VRDTST01A01H501A", 180, 20, 10, 999, 2, 9.0))
	assert.True(t, report.HasBlockingErrors)

	sub, err := New(report)
	assert.True(t, errors.Is(err, ErrBlockingErrors))
	assert.Zero(t, sub)

	_, err = New(nil)
	assert.True(t, errors.Is(err, ErrBlockingErrors))

	missing := validated(t, fullRow("VRDTST01A01H501A", 180, 20, 10, 210, 2, nil))
	assert.True(t, missing.HasBlockingErrors)
	_, err = New(missing)
	assert.True(t, errors.Is(err, ErrBlockingErrors))
}

func TestNewSubmission(t *testing.T) {
	report := validated(t, fullRow(" vrdtst01a01h501a", 180, 20, 10, 210, 2, 9.0))
	sub, err := New(report)
	assert.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sub.TransmissionID)
	assert.Equal(t, "2024-12/RER", sub.Reference)
	assert.Equal(t, "E11H24000010006", sub.CUP)
	assert.Equal(t, "Pianura Est", sub.District)
	assert.Equal(t, "Budrio", sub.LeadMunicipality)
	assert.Equal(t, 1, len(sub.Records))
	assert.Equal(t, "VRDTST01A01H501A", sub.Records[0].Identifier)
	assert.Equal(t, "9", sub.Records[0].FormalControls.String())
}

func TestWriteCSV(t *testing.T) {
	report := validated(t,
		fullRow("VRDTST01A01H501A", 180, 20, 10, 210, 2, 9.0),
		fullRow("MRORSS80A01F205X", 33.33, 0, 0, 33.33, 1, 1.67),
	)
	sub, err := New(report)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, WriteCSV(&buf, sub))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeff"), "missing BOM")

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff")))
	r.Comma = ';'
	rows, err := r.ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, 3, len(rows))
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{
		"2024-12/RER", "E11H24000010006", "Pianura Est", "Budrio",
		"M-001", "15/04/2024", "Comune di Budrio", "1200,00",
		"Budrio", "Centro Estivo Sole", "Verdi Genitore", "Verdi Bambino",
		"VRDTST01A01H501A", "180,00", "20,00", "10,00", "210,00", "2", "9,00",
	}, rows[1])
	// 33.33 * 0.05 = 1.6665 rounds half away from zero.
	assert.Equal(t, "1,67", rows[2][18])
}

func TestWriteXLSX(t *testing.T) {
	report := validated(t, fullRow("VRDTST01A01H501A", 180, 20, 10, 210, 2, 9.0))
	sub, err := New(report)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, WriteXLSX(&buf, sub))

	f, err := excelize.OpenReader(&buf)
	assert.NoError(t, err)
	defer f.Close()

	assert.Equal(t, SheetName, f.GetSheetName(0))
	rows, err := f.GetRows(SheetName)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(rows))
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "VRDTST01A01H501A", rows[1][12])
	assert.Equal(t, "180", rows[1][13])
	assert.Equal(t, "9", rows[1][18])
}

func TestSummarize(t *testing.T) {
	records := []record.Record{
		{Contribution: decimal.RequireFromString("33.33"), FormalControls: decimal.RequireFromString("1.67"), BeneficiaryShare: decimal.RequireFromString("10")},
		{Contribution: decimal.RequireFromString("33.33"), FormalControls: decimal.RequireFromString("1.67"), BeneficiaryShare: decimal.RequireFromString("5.5")},
	}
	s := Summarize(records)
	assert.Equal(t, "66.66", s.Contribution.String())
	// Sum of rounded per-record amounts, not round(66.66 * 0.05).
	assert.Equal(t, "3.34", s.FormalControls.String())
	assert.Equal(t, "70", s.Total.String())
	assert.Equal(t, "15.5", s.BeneficiaryShare.String())

	var buf bytes.Buffer
	assert.NoError(t, WriteSummaryCSV(&buf, s))
	assert.Equal(t, "\ufeffItem;Value (€)\n"+
		"Total contribution (A);66,66\n"+
		"Formal controls (5% of A);3,34\n"+
		"Total A + 5%;70,00\n"+
		"Total beneficiary share (C);15,50\n", buf.String())

	buf.Reset()
	assert.NoError(t, WriteSummaryXLSX(&buf, s))
	f, err := excelize.OpenReader(&buf)
	assert.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	assert.NoError(t, err)
	assert.Equal(t, 5, len(rows))
}

func TestFormatItalian(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00"},
		{"12.5", "12,50"},
		{"999.999", "1.000,00"},
		{"1234.56", "1.234,56"},
		{"1234567.891", "1.234.567,89"},
		{"-4321", "-4.321,00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatItalian(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, time.April, 15, 9, 30, 5, 0, time.UTC)

	assert.Equal(t, "datiSIFER_2024-12-RER_20240415_093005", Filename("datiSIFER", "2024-12/RER", true, now))
	assert.Equal(t, "QuadroControllo_2024-12-RER_20240415_0930", Filename("QuadroControllo", "2024-12/RER", false, now))
	assert.Equal(t, "datiSIFER_20240415_093005", Filename("datiSIFER", "  ", true, now))
}

func TestSanitizeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-12/RER", "2024-12-RER"},
		{`a\b*c?d:e"f<g>h|i`, "a-b-c-d-e-f-g-h-i"},
		{"  Comune   di Budrio ", "Comune-di-Budrio"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeComponent(tt.in))
		})
	}
}

func TestBundle(t *testing.T) {
	report := validated(t, fullRow("VRDTST01A01H501A", 180, 20, 10, 210, 2, 9.0))
	sub, err := New(report)
	assert.NoError(t, err)
	now := time.Date(2024, time.April, 15, 9, 30, 5, 0, time.UTC)

	files, err := Bundle(sub, false, now)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(files))
	assert.Equal(t, "datiSIFER_2024-12-RER_20240415_093005.csv", files[0].Name)
	assert.Equal(t, "QuadroControllo_2024-12-RER_20240415_0930.csv", files[1].Name)

	files, err = Bundle(sub, true, now)
	assert.NoError(t, err)
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
		assert.NotZero(t, len(f.Data))
	}
	assert.Equal(t, []string{
		"datiSIFER_2024-12-RER_20240415_093005.csv",
		"QuadroControllo_2024-12-RER_20240415_0930.csv",
		"datiSIFER_Excel_2024-12-RER_20240415_093005.xlsx",
		"QuadroControllo_Excel_2024-12-RER_20240415_0930.xlsx",
	}, names)
	assert.Equal(t, ContentTypeXLSX, files[2].ContentType)
}
