package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/fsecamp/reimburse/export"
)

// Row is one stored record. NUMERIC columns hold the amounts.
type Row struct {
	TransmissionID   string `bigquery:"transmission_id"` // REQUIRED
	Reference        string `bigquery:"rif_pa"`          // REQUIRED
	CUP              string `bigquery:"cup"`
	District         string `bigquery:"distretto"`
	LeadMunicipality string `bigquery:"comune_capofila"`

	MandateNumber string            `bigquery:"numero_mandato"`
	MandateDate   bigquery.NullDate `bigquery:"data_mandato"`
	MandateHolder string            `bigquery:"comune_titolare_mandato"`
	MandateAmount *big.Rat          `bigquery:"importo_mandato"`

	CampMunicipality string `bigquery:"comune_centro_estivo"`
	Camp             string `bigquery:"centro_estivo"`
	ParentName       string `bigquery:"genitore_cognome_nome"`
	ChildName        string `bigquery:"bambino_cognome_nome"`
	Identifier       string `bigquery:"codice_fiscale_bambino"` // REQUIRED

	Contribution       *big.Rat `bigquery:"valore_contributo_fse"`
	OtherContributions *big.Rat `bigquery:"altri_contributi"`
	BeneficiaryShare   *big.Rat `bigquery:"quota_retta_destinatario"`
	TotalFee           *big.Rat `bigquery:"totale_retta"`
	Weeks              int64    `bigquery:"numero_settimane_frequenza"`
	FormalControls     *big.Rat `bigquery:"controlli_formali"`

	CreatedAt time.Time `bigquery:"created_at"` // REQUIRED
	CreatedBy string    `bigquery:"created_by"`
}

// toRows maps a submission to table rows.
func toRows(sub *export.Submission, createdBy string) []*Row {
	rows := make([]*Row, 0, len(sub.Records))
	for _, rec := range sub.Records {
		row := &Row{
			TransmissionID:     sub.TransmissionID.String(),
			Reference:          sub.Reference,
			CUP:                sub.CUP,
			District:           sub.District,
			LeadMunicipality:   sub.LeadMunicipality,
			MandateNumber:      rec.MandateNumber,
			MandateHolder:      rec.MandateHolder,
			MandateAmount:      numeric(rec.MandateAmount),
			CampMunicipality:   rec.CampMunicipality,
			Camp:               rec.Camp,
			ParentName:         rec.ParentName,
			ChildName:          rec.ChildName,
			Identifier:         rec.Identifier,
			Contribution:       numeric(rec.Contribution),
			OtherContributions: numeric(rec.OtherContributions),
			BeneficiaryShare:   numeric(rec.BeneficiaryShare),
			TotalFee:           numeric(rec.TotalFee),
			Weeks:              int64(rec.Weeks.Count),
			FormalControls:     numeric(rec.FormalControls),
			CreatedAt:          sub.CreatedAt,
			CreatedBy:          createdBy,
		}
		if !rec.MandateDate.IsZero() {
			row.MandateDate = bigquery.NullDate{Date: civil.DateOf(rec.MandateDate.Time), Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}

func numeric(d decimal.Decimal) *big.Rat {
	return d.Round(2).Rat()
}
