package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/fsecamp/reimburse/archive"
	"github.com/fsecamp/reimburse/export"
	"github.com/fsecamp/reimburse/logger"
	"github.com/fsecamp/reimburse/render"
	"github.com/fsecamp/reimburse/store"
	"github.com/fsecamp/reimburse/store/bigquery"
	"github.com/fsecamp/reimburse/validation"
)

type ExportCmd struct {
	InputFlags `embed:""`

	Out      string `help:"Output directory." default:"." type:"path" short:"o"`
	XLSX     bool   `name:"xlsx" help:"Also write Excel copies of the transmission and the summary."`
	Force    bool   `help:"Overwrite existing files without asking." short:"f"`
	Upload   string `help:"Archive the written files to a gs://bucket/prefix location." placeholder:"URI"`
	BigQuery string `name:"bigquery" help:"Save the submission to a BigQuery project.dataset." placeholder:"PROJECT.DATASET"`
	Table    string `help:"BigQuery table receiving the records." default:"dati_sifer"`
}

func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}
	s, err := globals.start(ctx, fmt.Sprintf("export %s", filepath.Base(cmd.File.Path)))
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
		_, _ = fmt.Fprintln(ctx.Stderr, render.NewTextFormatter().FormatAll(report.Errors()))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "export refused, the batch has blocking errors")
		logger.Activity(s.ctx, s.user, logger.ActionValidationFailed, map[string]any{
			"file":      cmd.File.AbsPath(),
			"reference": report.Reference,
		})
		return NewCommandError(1)
	}
	if err != nil {
		return err
	}

	files, err := export.Bundle(sub, cmd.XLSX, time.Now())
	if err != nil {
		return err
	}

	written, err := cmd.write(ctx, files)
	if err != nil {
		return err
	}
	logger.Activity(s.ctx, s.user, logger.ActionExportWritten, map[string]any{
		"reference":       sub.Reference,
		"transmission_id": sub.TransmissionID.String(),
		"files":           names(written),
	})

	if cmd.Upload != "" && len(written) > 0 {
		gcs, err := archive.NewGCS(s.ctx, cmd.Upload)
		if err != nil {
			return err
		}
		defer func() { _ = gcs.Close() }()

		uris, err := archive.UploadAll(s.ctx, gcs, written)
		if err != nil {
			return err
		}
		for _, uri := range uris {
			printInfof(ctx.Stdout, "Uploaded %s", pathStyle.Render(uri))
		}
		logger.Activity(s.ctx, s.user, logger.ActionExportUploaded, map[string]any{
			"reference": sub.Reference,
			"objects":   uris,
		})
	}

	if cmd.BigQuery != "" {
		if err := cmd.save(s, report, sub); err != nil {
			return err
		}
		printSuccess(ctx.Stdout, fmt.Sprintf("Saved %d record(s) for %s", len(sub.Records), sub.Reference))
	}

	return nil
}

// write stores files in the output directory and returns the ones written.
// Existing files are overwritten only when forced or confirmed.
func (cmd *ExportCmd) write(ctx *kong.Context, files []export.File) ([]export.File, error) {
	if err := os.MkdirAll(cmd.Out, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []export.File
	for _, f := range files {
		path := filepath.Join(cmd.Out, f.Name)
		if _, err := os.Stat(path); err == nil && !cmd.Force {
			confirmed, err := promptYesNo(fmt.Sprintf("File %q exists. Overwrite it?", path))
			if err != nil {
				return nil, err
			}
			if !confirmed {
				printInfof(ctx.Stdout, "Skipped %s", pathStyle.Render(path))
				continue
			}
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		printSuccess(ctx.Stdout, fmt.Sprintf("Wrote %s", pathStyle.Render(path)))
		written = append(written, f)
	}
	return written, nil
}

func (cmd *ExportCmd) save(s *session, report *validation.Report, sub *export.Submission) error {
	project, dataset, ok := strings.Cut(cmd.BigQuery, ".")
	if !ok || project == "" || dataset == "" {
		return fmt.Errorf("--bigquery must be PROJECT.DATASET, got %q", cmd.BigQuery)
	}
	bq, err := bigquery.New(s.ctx, project, dataset, bigquery.WithTable(cmd.Table), bigquery.WithCreatedBy(s.user))
	if err != nil {
		return err
	}
	defer func() { _ = bq.Close() }()

	err = store.SaveValidated(s.ctx, bq, report, sub)
	var dup *store.DuplicateReferenceError
	if errors.As(err, &dup) {
		logger.Activity(s.ctx, s.user, logger.ActionDuplicateReference, map[string]any{"reference": dup.GetReference()})
		printError(s.stderr, err.Error())
		return NewCommandError(1)
	}
	if err != nil {
		return err
	}

	logger.Activity(s.ctx, s.user, logger.ActionDataSaved, map[string]any{
		"reference":       sub.Reference,
		"transmission_id": sub.TransmissionID.String(),
		"records":         len(sub.Records),
	})
	return nil
}

func names(files []export.File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}
