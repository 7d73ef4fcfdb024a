package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/logfields"
	"git.home.luguber.info/inful/docversions/internal/sitebuild"
)

// LocalCmd implements the 'local' command: one build of a working copy, with
// no checkout and no documentation tree.
type LocalCmd struct {
	Dir       string `arg:"" optional:"" help:"Documentation directory to build" default:"docs" type:"existingdir"`
	Shell     string `help:"Interpreter for the build script" default:"bash"`
	Script    string `help:"Build script inside the documentation directory" default:"makedoc.sh"`
	OutputDir string `name:"output-dir" help:"Build output relative to the documentation directory" default:"_build/dirhtml"`
}

func (l *LocalCmd) Run(_ *Global, _ *CLI) error {
	dir, err := filepath.Abs(l.Dir)
	if err != nil {
		return errors.ConfigError("invalid documentation directory").WithCause(err).WithContext("path", l.Dir).Build()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	builder := sitebuild.NewScriptBuilder(l.Shell, l.Script, l.OutputDir, nil)
	out, err := builder.Build(ctx, "local", dir)
	if err != nil {
		return err
	}
	slog.Info("Local build finished", logfields.Dir(out))
	fmt.Println(out)
	return nil
}
