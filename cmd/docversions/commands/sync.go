package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docversions/internal/config"
	"git.home.luguber.info/inful/docversions/internal/doctree"
	"git.home.luguber.info/inful/docversions/internal/forge"
	"git.home.luguber.info/inful/docversions/internal/git"
	"git.home.luguber.info/inful/docversions/internal/logfields"
	"git.home.luguber.info/inful/docversions/internal/metrics"
	"git.home.luguber.info/inful/docversions/internal/orchestrator"
	"git.home.luguber.info/inful/docversions/internal/sitebuild"
	"git.home.luguber.info/inful/docversions/internal/versioning"
	"git.home.luguber.info/inful/docversions/internal/versionpath"
	"git.home.luguber.info/inful/docversions/internal/workspace"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct {
	Mode     string `short:"m" help:"Which versions to build: full, default or latest" default:"full" enum:"full,default,latest"`
	Commit   bool   `help:"Commit (and push) the documentation tree after the run, overriding commit.enabled"`
	Releases int    `short:"n" help:"Override num_releases"`
	DocsDir  string `name:"docs-dir" help:"Override docs_dir"`
	RepoDir  string `name:"repo-dir" help:"Override repo_dir"`
}

func (s *SyncCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if err := s.apply(cfg); err != nil {
		return err
	}
	mode, err := orchestrator.ParseMode(s.Mode)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rec := metrics.NewPrometheusRecorder(nil)
	report, err := RunSync(ctx, cfg, mode, rec)
	writeTextfile(cfg, rec)
	if report != nil {
		PrintReport(os.Stdout, report)
	}
	return err
}

// apply layers flag overrides over the loaded configuration.
func (s *SyncCmd) apply(cfg *config.Config) error {
	if s.Commit {
		cfg.Commit.Enabled = true
	}
	if s.Releases != 0 {
		cfg.NumReleases = s.Releases
	}
	if s.DocsDir != "" {
		cfg.DocsDir = s.DocsDir
	}
	if s.RepoDir != "" {
		cfg.RepoDir = s.RepoDir
	}
	return cfg.Validate()
}

// RunSync wires the collaborators described by cfg and runs one sync.
// The catalog is loaded from GitHub on every call so a long running watch
// picks up new releases.
func RunSync(ctx context.Context, cfg *config.Config, mode orchestrator.Mode, rec metrics.Recorder) (*orchestrator.Report, error) {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	trim, err := versionpath.ParseTrimMode(cfg.LinkTrim)
	if err != nil {
		return nil, err
	}
	tree, err := doctree.New(cfg.DocsDir)
	if err != nil {
		return nil, err
	}

	lister := forge.NewGitHubClient(cfg.GitHub.APIURL, cfg.GitHub.Token)
	catalog, err := versioning.Load(ctx, lister, cfg.Repo, cfg.NumReleases, cfg.DefaultBranch, !cfg.ExcludeDefaultBranch)
	if err != nil {
		rec.IncRunOutcome(metrics.ResultFailed)
		return nil, err
	}
	slog.Info("Loaded version catalog",
		logfields.Latest(catalog.Latest()),
		slog.Any("versions", catalog.DropdownOrder()))

	ws := workspace.NewManager(cfg.Workspace.Dir)
	if cfg.Workspace.Keep {
		ws = workspace.NewKeptManager(cfg.Workspace.Dir)
	}
	if err := ws.Create(); err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			slog.Warn("Failed to cleanup workspace", logfields.Error(err))
		}
	}()

	exporter := git.NewExporter(cfg.RepoDir, cfg.RepoRemote, ws)
	builder := sitebuild.NewScriptBuilder(cfg.Build.Shell, cfg.Build.Script, cfg.BuildDir, cfg.Build.Overrides)
	orch := orchestrator.New(tree, exporter, builder, cfg.DocsSubdir).
		WithTrim(trim).
		WithRecorder(rec)
	if cfg.Commit.Enabled {
		orch.WithCommitter(&git.Committer{Options: cfg.CommitOptions()})
	}

	return orch.Run(ctx, orchestrator.Request{Catalog: catalog, Mode: mode})
}

func writeTextfile(cfg *config.Config, rec *metrics.PrometheusRecorder) {
	if cfg.Metrics.Textfile == "" {
		return
	}
	if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
	}
}

// PrintReport writes a short human summary of a run.
func PrintReport(w io.Writer, r *orchestrator.Report) {
	_, _ = fmt.Fprintf(w, "Sync %s (%s mode, latest %s)\n", r.RunID, r.Mode, r.Latest)
	if r.Mode == orchestrator.ModeFull {
		_, _ = fmt.Fprintf(w, "  existing: %s\n", list(r.Existing))
		_, _ = fmt.Fprintf(w, "  missing:  %s\n", list(r.Missing))
	}
	for _, v := range r.Versions {
		if v.Err != nil {
			_, _ = fmt.Fprintf(w, "  %-12s %s [%s]\n", v.Version, v.Outcome, v.Category())
			continue
		}
		_, _ = fmt.Fprintf(w, "  %-12s %s in %s\n", v.Version, v.Outcome, v.Duration.Round(time.Millisecond))
	}
	switch {
	case r.Promotion != nil && r.Promotion.AlreadyPromoted:
		_, _ = fmt.Fprintf(w, "  promotion: %s already at root\n", r.Promotion.Version)
	case r.Promotion != nil:
		_, _ = fmt.Fprintf(w, "  promotion: %s moved to root (%d entries)\n", r.Promotion.Version, len(r.Promotion.Moved))
	case r.PromotionErr != nil:
		_, _ = fmt.Fprintf(w, "  promotion: skipped\n")
	}
	_, _ = fmt.Fprintf(w, "  documents rewritten: %d\n", r.DocumentsRewritten())
	if r.Commit != nil {
		if r.Commit.Clean {
			_, _ = fmt.Fprintln(w, "  commit: nothing to commit")
		} else {
			_, _ = fmt.Fprintf(w, "  commit: %s (pushed: %t)\n", short(r.Commit.Hash), r.Commit.Pushed)
		}
	}
}

func list(vs []string) string {
	if len(vs) == 0 {
		return "-"
	}
	return strings.Join(vs, ", ")
}

func short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
