package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/fsecamp/reimburse/loader"
	"github.com/fsecamp/reimburse/logger"
	"github.com/fsecamp/reimburse/output"
	"github.com/fsecamp/reimburse/telemetry"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	User      string `help:"User recorded in the activity log." env:"REIMBURSE_USER"`
	LogFile   string `help:"Append the JSON activity log to this file." type:"path"`
}

type Commands struct {
	Globals

	Check   CheckCmd   `cmd:"" help:"Validate a reimbursement batch."`
	Export  ExportCmd  `cmd:"" help:"Write the SIFER transmission and control summary of a clean batch."`
	Summary SummaryCmd `cmd:"" help:"Print the control summary of a clean batch."`
	Web     WebCmd     `cmd:"" help:"Start a web server."`
	Doctor  DoctorCmd  `cmd:"" help:"Doctor utilities for debugging batches."`
}

// InputFlags selects and describes the batch a command reads.
type InputFlags struct {
	File   BatchFile `help:"Batch file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Format string    `help:"Input layout." enum:"auto,paste,sifer,xlsx" default:"auto"`

	Reference        string `name:"rif-pa" help:"Funding reference (YYYY-NUMBER/RER) for pasted and XLSX batches."`
	CUP              string `name:"cup" help:"CUP code for pasted and XLSX batches."`
	District         string `name:"distretto" help:"District for pasted and XLSX batches."`
	LeadMunicipality string `name:"capofila" help:"Lead municipality for pasted and XLSX batches."`
}

func (f *InputFlags) metadata() loader.Metadata {
	return loader.Metadata{
		Reference:        f.Reference,
		CUP:              f.CUP,
		District:         f.District,
		LeadMunicipality: f.LeadMunicipality,
	}
}

func (f *InputFlags) loader() (*loader.Loader, error) {
	format, err := loader.ParseFormat(f.Format)
	if err != nil {
		return nil, err
	}
	return loader.New(loader.WithFormat(format), loader.WithMetadata(f.metadata())), nil
}

// load reads the batch. Load errors are rendered with source context on
// stderr and reported as a CommandError.
func (f *InputFlags) load(s *session) (*loader.Result, error) {
	if err := f.File.EnsureContents(); err != nil {
		return nil, err
	}
	ldr, err := f.loader()
	if err != nil {
		return nil, err
	}

	result, err := f.File.Load(s.ctx, ldr)
	if err != nil {
		format := ldr.Format
		if format == loader.FormatAuto {
			format = loader.DetectFormat(f.File.Path)
		}
		// Workbooks have no text lines to quote.
		var source []byte
		if format != loader.FormatXLSX {
			source, _ = f.File.Source()
		}
		_, _ = fmt.Fprintln(s.stderr, NewErrorRenderer(source).Render(err))
		_, _ = fmt.Fprintln(s.stderr)
		printError(s.stderr, "load error")
		return nil, NewCommandError(1)
	}

	logger.Activity(s.ctx, s.user, logger.ActionFileLoaded, map[string]any{
		"file":    f.File.AbsPath(),
		"format":  result.Format.String(),
		"records": len(result.Batch.Rows),
	})
	return result, nil
}

// session carries the context a command runs in: the telemetry collector
// with its root timer, the activity logger and the acting user.
type session struct {
	ctx    context.Context
	stderr io.Writer
	user   string

	collector telemetry.Collector
	timer     telemetry.Timer
	closers   []io.Closer
}

// start prepares the session of the named command.
func (g *Globals) start(kctx *kong.Context, name string) (*session, error) {
	s := &session{ctx: context.Background(), stderr: kctx.Stderr, user: g.User}
	if s.user == "" {
		s.user = logger.AnonymousUser
	}

	log := zerolog.Nop()
	if g.LogFile != "" {
		l, closer, err := logger.Open(g.LogFile)
		if err != nil {
			return nil, err
		}
		log = l
		s.closers = append(s.closers, closer)
	}
	s.ctx = logger.WithContext(s.ctx, log)

	if g.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		s.ctx = telemetry.WithCollector(s.ctx, s.collector)
		s.timer = s.collector.Start(name)
		s.ctx = telemetry.WithTimer(s.ctx, s.timer)
	}
	return s, nil
}

// Close reports telemetry and closes the activity log.
func (s *session) Close() {
	if s.collector != nil {
		s.timer.End()
		_, _ = fmt.Fprintln(s.stderr)
		s.collector.Report(s.stderr, output.NewStyles(s.stderr))
		s.collector = nil
	}
	for _, c := range s.closers {
		_ = c.Close()
	}
	s.closers = nil
}
