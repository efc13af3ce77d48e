package bigquery

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/fsecamp/reimburse/export"
	"github.com/fsecamp/reimburse/record"
)

func offlineClient(t *testing.T) *bigquery.Client {
	t.Helper()
	client, err := bigquery.NewClient(context.Background(), "fse-project",
		option.WithoutAuthentication(),
		option.WithEndpoint("http://127.0.0.1:0"),
	)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestReferenceQuery(t *testing.T) {
	s := NewWithClient(offlineClient(t), "fse", WithTable("batches"))
	assert.Equal(t,
		"SELECT COUNT(1) AS n FROM `fse-project.fse.batches` WHERE rif_pa = @reference",
		s.referenceQuery())
}

func TestToRows(t *testing.T) {
	id := uuid.MustParse("6f1c9a8e-2b47-4d3a-9a55-0c1e2d3f4a5b")
	created := time.Date(2024, time.April, 20, 10, 0, 0, 0, time.UTC)
	sub := &export.Submission{
		TransmissionID:   id,
		Reference:        "2024-12/RER",
		CUP:              "E11H24000010006",
		District:         "Pianura Est",
		LeadMunicipality: "Budrio",
		CreatedAt:        created,
		Records: []record.Record{
			{
				Identifier:     "VRDTST01A01H501A",
				MandateDate:    record.NewDate(2024, time.April, 15),
				Camp:           "Centro Estivo Sole",
				Contribution:   decimal.RequireFromString("180"),
				TotalFee:       decimal.RequireFromString("210.004"),
				Weeks:          record.Weeks{Count: 2, Valid: true},
				FormalControls: decimal.RequireFromString("9"),
			},
			{Identifier: "MRORSS80A01F205X"},
		},
	}

	rows := toRows(sub, "controller1")
	assert.Equal(t, 2, len(rows))

	r := rows[0]
	assert.Equal(t, id.String(), r.TransmissionID)
	assert.Equal(t, "2024-12/RER", r.Reference)
	assert.Equal(t, "Budrio", r.LeadMunicipality)
	assert.True(t, r.MandateDate.Valid)
	assert.Equal(t, "2024-04-15", r.MandateDate.Date.String())
	assert.Equal(t, "180", r.Contribution.RatString())
	assert.Equal(t, "210.00", r.TotalFee.FloatString(2))
	assert.Equal(t, int64(2), r.Weeks)
	assert.Equal(t, created, r.CreatedAt)
	assert.Equal(t, "controller1", r.CreatedBy)

	assert.False(t, rows[1].MandateDate.Valid)
	assert.Equal(t, "0", rows[1].Contribution.RatString())
}
