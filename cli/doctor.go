package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/fsecamp/reimburse/parser"
)

// DoctorCmd provides doctor utilities for debugging batches.
type DoctorCmd struct {
	Dump   DumpCmd   `cmd:"" help:"Show the normalized records of a batch."`
	Amount AmountCmd `cmd:"" help:"Show how amounts are parsed."`
	Date   DateCmd   `cmd:"" help:"Show how mandate dates are parsed."`
}

// DumpCmd prints every record as the validation engine sees it.
type DumpCmd struct {
	InputFlags `embed:""`
}

// Run executes the dump command.
func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}
	s, err := globals.start(ctx, "doctor dump")
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := cmd.load(s)
	if err != nil {
		return err
	}

	p := repr.New(ctx.Stdout, repr.Indent("  "), repr.OmitEmpty(true))
	for _, rec := range parser.NormalizeAll(result.Batch, result.Bindings) {
		p.Println(rec)
	}
	return nil
}

// AmountCmd parses amounts the way batch cells are parsed.
type AmountCmd struct {
	Values []string `arg:"" help:"Amounts as typed in a batch, e.g. '1.234,50' or '€ 12'."`
}

// Run executes the amount command.
func (cmd *AmountCmd) Run(ctx *kong.Context) error {
	for _, v := range cmd.Values {
		amount, err := parser.ParseAmount(v)
		if err != nil {
			_, _ = fmt.Fprintf(ctx.Stdout, "%-20q error: %v\n", v, err)
			continue
		}
		_, _ = fmt.Fprintf(ctx.Stdout, "%-20q %s\n", v, amount.StringFixed(2))
	}
	return nil
}

// DateCmd parses mandate dates the way batch cells are parsed.
type DateCmd struct {
	Values []string `arg:"" help:"Dates as typed in a batch, e.g. '15/04/2024'."`
}

// Run executes the date command.
func (cmd *DateCmd) Run(ctx *kong.Context) error {
	for _, v := range cmd.Values {
		date, err := parser.ParseDate(v)
		if err != nil {
			_, _ = fmt.Fprintf(ctx.Stdout, "%-20q error: %v\n", v, err)
			continue
		}
		_, _ = fmt.Fprintf(ctx.Stdout, "%-20q %s\n", v, date)
	}
	return nil
}
