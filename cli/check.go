package cli

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/fsecamp/reimburse/logger"
	"github.com/fsecamp/reimburse/output"
	"github.com/fsecamp/reimburse/render"
	"github.com/fsecamp/reimburse/validation"
)

type CheckCmd struct {
	InputFlags `embed:""`

	JSON    bool `help:"Print the report as JSON." xor:"output"`
	Table   bool `help:"Print the report as a table." xor:"output"`
	Verbose bool `help:"List every check of every row." short:"v"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}
	s, err := globals.start(ctx, fmt.Sprintf("check %s", filepath.Base(cmd.File.Path)))
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

	if err := cmd.renderer(ctx).Render(ctx.Stdout, report); err != nil {
		return err
	}

	clean, blocking := report.Summary()
	details := map[string]any{
		"file":      cmd.File.AbsPath(),
		"reference": report.Reference,
		"records":   len(report.Records),
		"clean":     clean,
		"blocking":  blocking,
	}
	if report.HasBlockingErrors {
		logger.Activity(s.ctx, s.user, logger.ActionValidationFailed, details)
		if !cmd.JSON {
			_, _ = fmt.Fprintln(ctx.Stderr)
			printError(ctx.Stderr, fmt.Sprintf("%d row(s) with blocking errors", blocking))
		}
		return NewCommandError(1)
	}

	logger.Activity(s.ctx, s.user, logger.ActionValidationSuccess, details)
	if !cmd.JSON {
		printSuccess(ctx.Stdout, "Check passed")
	}
	return nil
}

// renderer picks the report layout. Without a flag a table is drawn on
// terminals and plain text elsewhere.
func (cmd *CheckCmd) renderer(ctx *kong.Context) render.Renderer {
	switch {
	case cmd.JSON:
		return render.JSON{}
	case cmd.Verbose:
		return render.Text{Styles: output.NewStyles(ctx.Stdout), Verbose: true}
	case cmd.Table:
		return render.Table{Width: terminalWidth(ctx.Stdout)}
	}
	if width := terminalWidth(ctx.Stdout); width > 0 {
		return render.Table{Width: width}
	}
	return render.Text{Styles: output.NewStyles(ctx.Stdout)}
}
