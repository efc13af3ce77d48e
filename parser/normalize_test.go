package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/fsecamp/reimburse/record"
)

func TestNormalize(t *testing.T) {
	raw := record.NewRaw(
		record.WithIdentifier(" vrdtst01a01h501a "),
		record.WithMandateDate("15/01/2024", record.NewDate(2024, 1, 15)),
		record.WithAmounts("180,00", 20.0, "10", "€ 210,00"),
		record.WithWeeks("2"),
		record.WithDeclaredControls("9,00"),
		record.WithChild("Verdi Test"),
	)

	rec := Normalize(raw, 3, record.DefaultBindings(record.OffsetPasted))

	assert.Equal(t, 3, rec.Index)
	assert.Equal(t, "VRDTST01A01H501A", rec.Identifier)
	assert.Equal(t, "2024-01-15", rec.MandateDate.ISO())
	assert.Equal(t, "15/01/2024", rec.MandateDateRaw)
	assert.Equal(t, "180", rec.Contribution.String())
	assert.Equal(t, "20", rec.OtherContributions.String())
	assert.Equal(t, "10", rec.BeneficiaryShare.String())
	assert.Equal(t, "210", rec.TotalFee.String())
	assert.Equal(t, record.Weeks{Count: 2, Text: "2", Valid: true}, rec.Weeks)
	assert.True(t, rec.DeclaredControls.Present)
	assert.True(t, rec.DeclaredControls.Numeric)
	assert.Equal(t, "9", rec.DeclaredControls.Value.String())
	assert.Equal(t, "Verdi Test", rec.ChildName)
}

func TestNormalizeDefaults(t *testing.T) {
	raw := record.NewRaw(
		record.WithMandateDate("31/02/2024", nil),
		record.WithWeeks(2.5),
		record.WithDeclaredControls("n/a"),
	)

	rec := Normalize(raw, 0, record.DefaultBindings(record.OffsetUploaded))

	assert.Equal(t, "", rec.Identifier)
	assert.Zero(t, rec.MandateDate)
	assert.True(t, rec.Contribution.IsZero())
	assert.True(t, rec.TotalFee.IsZero())
	assert.False(t, rec.Weeks.Valid)
	assert.Equal(t, "2.5", rec.Weeks.Text)
	assert.True(t, rec.DeclaredControls.Present)
	assert.False(t, rec.DeclaredControls.Numeric)
	assert.Equal(t, "n/a", rec.DeclaredControls.Text)
}

func TestNormalizeFallsBackToRawDate(t *testing.T) {
	raw := record.Raw{record.FieldMandateDateRaw: "01/07/2024"}
	rec := Normalize(raw, 0, record.DefaultBindings(record.OffsetPasted))
	assert.Equal(t, "2024-07-01", rec.MandateDate.ISO())
}

func TestNormalizeAllInheritsBatchReference(t *testing.T) {
	batch := &record.Batch{
		Reference: "2024-123/RER",
		Rows: []record.Raw{
			record.NewRaw(record.WithIdentifier("A")),
			record.NewRaw(record.WithIdentifier("B"), record.WithField(record.FieldReference, "2024-9/RER")),
		},
	}
	records := NormalizeAll(batch, record.DefaultBindings(record.OffsetPasted))
	assert.Equal(t, 2, len(records))
	assert.Equal(t, "2024-123/RER", records[0].Reference)
	assert.Equal(t, "2024-9/RER", records[1].Reference)
	assert.Equal(t, 1, records[1].Index)
}
