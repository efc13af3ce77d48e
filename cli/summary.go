package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fsecamp/reimburse/export"
	"github.com/fsecamp/reimburse/validation"
)

var (
	summaryLabelStyle = lipgloss.NewStyle().Padding(0, 1)
	summaryValueStyle = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

type SummaryCmd struct {
	InputFlags `embed:""`
}

func (cmd *SummaryCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}
	s, err := globals.start(ctx, fmt.Sprintf("summary %s", filepath.Base(cmd.File.Path)))
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := cmd.load(s)
	if err != nil {
		return err
	}
	report, err := validation.Validate(s.ctx, result.Batch, result.Bindings)
	if err != nil {
		return err
	}

	sub, err := export.New(report)
	if errors.Is(err, export.ErrBlockingErrors) {
		_, blocking := report.Summary()
		printError(ctx.Stderr, fmt.Sprintf("no summary, %d row(s) with blocking errors", blocking))
		return NewCommandError(1)
	}
	if err != nil {
		return err
	}

	if sub.Reference != "" {
		printInfof(ctx.Stdout, "Control summary for %s", sub.Reference)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 1 {
				return summaryValueStyle
			}
			return summaryLabelStyle
		})
	for _, line := range export.Summarize(sub.Records).Lines() {
		t.Row(line.Label, export.FormatItalian(line.Value)+" €")
	}
	_, _ = fmt.Fprintln(ctx.Stdout, t.Render())
	return nil
}
