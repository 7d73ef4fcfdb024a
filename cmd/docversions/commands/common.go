package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docversions/internal/config"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docversions.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Sync    SyncCmd    `cmd:"" default:"withargs" help:"Build missing versions, promote the latest and rewrite version selectors"`
	Local   LocalCmd   `cmd:"" help:"Build the documentation in a local directory only"`
	Watch   WatchCmd   `cmd:"" help:"Run the sync periodically"`
	Resolve ResolveCmd `cmd:"" help:"Print the selector entry one document gets for one version"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// loadConfig reads the configuration named by the global flag.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	slog.Debug("Configuration ready",
		slog.String("repo", cfg.Repo),
		slog.String("docs_dir", cfg.DocsDir),
		slog.Int("num_releases", cfg.NumReleases))
	return cfg, nil
}
