package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docversions/cmd/docversions/commands"
	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docversions"),
		kong.Description("Build and publish every tracked version of a documentation site"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(&commands.Global{}),
	)

	if err := parser.Run(); err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, nil)
		os.Exit(adapter.Report(os.Stderr, err))
	}
}
