// Batch Generator
//
// This tool generates a pasted reimbursement batch for performance testing
// and profiling. Rows are realistic and mostly clean; a share of them carries
// one blocking error so every check is exercised.
//
// Usage:
//
//	go run ./tools/generate_batch > batch.tsv
//	go run ./tools/generate_batch --rows 50000 --error-rate 0.1 > batch.tsv
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/fsecamp/reimburse/export"
)

var (
	cli struct {
		Rows      int     `help:"Number of rows to generate." default:"10000"`
		ErrorRate float64 `help:"Share of rows carrying a blocking error." default:"0.05"`
		Seed      int64   `help:"Random seed (0 picks one from the clock)."`
	}

	municipalities = []string{"Budrio", "Molinella", "Minerbio", "Baricella", "Granarolo", "Malalbergo"}
	camps          = []string{"Centro Sole", "Estate Ragazzi", "Campo Verde", "Villaggio Gioia", "Centro Arcobaleno"}
	surnames       = []string{"Rossi", "Bianchi", "Verdi", "Neri", "Gallo", "Costa", "Fontana", "Ricci", "Marino", "Greco"}
	names          = []string{"Luca", "Giulia", "Marco", "Sofia", "Matteo", "Aurora", "Leonardo", "Alice", "Tommaso", "Emma"}
)

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
)

// defect is a blocking error introduced into a row.
type defect int

const (
	defectNone defect = iota
	defectSum
	defectWeeklyCap
	defectIdentifier
	defectDate
	defectFormalControls
)

func main() {
	kong.Parse(&cli,
		kong.Name("generate_batch"),
		kong.Description("Generate a pasted reimbursement batch."),
	)

	seed := cli.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < cli.Rows; i++ {
		d := defectNone
		if rng.Float64() < cli.ErrorRate {
			d = defect(1 + rng.Intn(5))
		}
		_, _ = fmt.Fprintln(w, strings.Join(generateRow(rng, i, start, d), "\t"))
	}
}

func generateRow(rng *rand.Rand, i int, start time.Time, d defect) []string {
	weeks := 1 + rng.Intn(3)
	perWeek := decimal.NewFromInt(int64(40 + rng.Intn(61)))
	a := decimal.Min(perWeek.Mul(decimal.NewFromInt(int64(weeks))), decimal.NewFromInt(300))
	b := decimal.NewFromInt(int64(rng.Intn(51)))
	c := decimal.New(int64(rng.Intn(3001)), -2)
	total := a.Add(b).Add(c)
	controls := a.Mul(decimal.RequireFromString("0.05")).Round(2)

	surname := surnames[rng.Intn(len(surnames))]
	child := names[rng.Intn(len(names))]
	identifier := fiscalCode(rng)
	date := start.AddDate(0, 0, rng.Intn(90)).Format("02/01/2006")

	switch d {
	case defectSum:
		total = total.Add(decimal.NewFromInt(5))
	case defectWeeklyCap:
		weeks = 1
		a = decimal.NewFromInt(150)
		total = a.Add(b).Add(c)
		controls = decimal.RequireFromString("7.50")
	case defectIdentifier:
		identifier = identifier[:10]
	case defectDate:
		date = "31/02/2024"
	case defectFormalControls:
		controls = controls.Add(decimal.NewFromInt(1))
	}

	municipality := municipalities[rng.Intn(len(municipalities))]
	return []string{
		fmt.Sprintf("M-%06d", i+1),
		date,
		"Comune di " + municipality,
		export.FormatItalian(total.Add(decimal.NewFromInt(int64(rng.Intn(200))))),
		municipality,
		camps[rng.Intn(len(camps))],
		surname + " " + names[rng.Intn(len(names))],
		surname + " " + child,
		identifier,
		export.FormatDecimalComma(a),
		export.FormatDecimalComma(b),
		export.FormatDecimalComma(c),
		export.FormatDecimalComma(total),
		fmt.Sprint(weeks),
		export.FormatDecimalComma(controls),
	}
}

// fiscalCode returns a random identifier with the structure of an Italian
// fiscal code.
func fiscalCode(rng *rand.Rand) string {
	pattern := "LLLLLLDDLDDLDDDL"
	var sb strings.Builder
	for _, p := range pattern {
		if p == 'L' {
			sb.WriteByte(letters[rng.Intn(len(letters))])
		} else {
			sb.WriteByte(digits[rng.Intn(len(digits))])
		}
	}
	return sb.String()
}
