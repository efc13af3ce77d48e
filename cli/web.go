package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/fsecamp/reimburse/web"
)

type WebCmd struct {
	File  string `help:"Batch file to serve and watch (optional)." arg:"" optional:"" type:"existingfile"`
	Port  int    `help:"Port to listen on." default:"8080"`
	Watch bool   `help:"Reload the served file when it changes." default:"true" negatable:""`

	Reference        string `name:"rif-pa" help:"Funding reference of the served file."`
	CUP              string `name:"cup" help:"CUP code of the served file."`
	District         string `name:"distretto" help:"District of the served file."`
	LeadMunicipality string `name:"capofila" help:"Lead municipality of the served file."`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.start(ctx, "web")
	if err != nil {
		return err
	}
	defer s.Close()

	var filename string
	if cmd.File != "" {
		filename, err = filepath.Abs(cmd.File)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
	}

	version := Version
	if version == "" {
		version = "dev"
	}
	commitSHA := CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}

	server := web.NewWithVersion(cmd.Port, filename, version, commitSHA)
	server.WatchEnabled = cmd.Watch
	server.User = s.user
	server.Metadata.Reference = cmd.Reference
	server.Metadata.CUP = cmd.CUP
	server.Metadata.District = cmd.District
	server.Metadata.LeadMunicipality = cmd.LeadMunicipality

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	if filename != "" {
		printInfof(ctx.Stdout, "Serving batch: %s", pathStyle.Render(filename))
	}

	runCtx, stop := signal.NotifyContext(s.ctx, os.Interrupt)
	defer stop()
	return server.Start(runCtx)
}
