package orchestrator

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docversions/internal/doctree"
	"git.home.luguber.info/inful/docversions/internal/dropdown"
	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/git"
	"git.home.luguber.info/inful/docversions/internal/logfields"
	"git.home.luguber.info/inful/docversions/internal/metrics"
	"git.home.luguber.info/inful/docversions/internal/observability"
	"git.home.luguber.info/inful/docversions/internal/sitebuild"
	"git.home.luguber.info/inful/docversions/internal/versioning"
	"git.home.luguber.info/inful/docversions/internal/versionpath"
)

// Stage names used for logging and metrics.
const (
	StageStatus  = "status"
	StageBuild   = "build"
	StagePromote = "promote"
	StageRewrite = "rewrite"
	StageCommit  = "commit"
)

// Checkouts hands out isolated source trees, one per version.
type Checkouts interface {
	Checkout(ctx context.Context, version string) (*git.Checkout, error)
	Release(co *git.Checkout) error
}

// Committer records the documentation tree once a run is done.
type Committer interface {
	Commit(ctx context.Context, dir string) (*git.CommitResult, error)
}

// Request is one sync run.
type Request struct {
	Catalog *versioning.Catalog
	Mode    Mode
}

// Orchestrator runs sync requests against one documentation tree.
type Orchestrator struct {
	tree       *doctree.Tree
	checkouts  Checkouts
	builder    sitebuild.Builder
	docsSubdir string
	trim       versionpath.TrimMode
	committer  Committer
	recorder   metrics.Recorder
}

// New creates an orchestrator. docsSubdir is the directory, relative to a
// checkout, handed to the builder.
func New(tree *doctree.Tree, checkouts Checkouts, builder sitebuild.Builder, docsSubdir string) *Orchestrator {
	return &Orchestrator{
		tree:       tree,
		checkouts:  checkouts,
		builder:    builder,
		docsSubdir: docsSubdir,
		trim:       versionpath.TrimLegacy,
		recorder:   metrics.NoopRecorder{},
	}
}

// WithTrim sets how trailing file names are cut from selector links.
func (o *Orchestrator) WithTrim(mode versionpath.TrimMode) *Orchestrator {
	o.trim = mode
	return o
}

// WithCommitter commits the tree at the end of every run that was not aborted.
func (o *Orchestrator) WithCommitter(c Committer) *Orchestrator {
	o.committer = c
	return o
}

// WithRecorder sets the metrics recorder.
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	o.recorder = r
	return o
}

// Run executes req. The report is always returned; the error is nil only when
// every step succeeded or ended in a warning.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Report, error) {
	if req.Catalog == nil {
		return nil, errors.ConfigError("version catalog required").Build()
	}
	if req.Mode == "" {
		req.Mode = ModeFull
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Mode:    req.Mode,
		Latest:  req.Catalog.Latest(),
		Started: time.Now(),
	}
	ctx = observability.WithRunID(ctx, report.RunID)
	ctx = observability.WithMode(ctx, string(req.Mode))
	observability.InfoContext(ctx, "Starting sync run", logfields.Latest(report.Latest))

	if err := o.run(ctx, req, report); err != nil {
		report.Aborted = err
	}

	report.Duration = time.Since(report.Started)
	o.recorder.ObserveRunDuration(report.Duration)
	o.recorder.IncRunOutcome(report.Outcome())
	o.recorder.SetLastRun(time.Now())

	err := report.Err()
	if err != nil {
		observability.ErrorContext(ctx, "Sync run finished with failures",
			logfields.Duration(report.Duration),
			logfields.Error(err))
	} else {
		observability.InfoContext(ctx, "Sync run finished",
			logfields.Duration(report.Duration),
			slog.Int("built", len(report.Built())),
			slog.Int("documents_rewritten", report.DocumentsRewritten()))
	}
	return report, err
}

// run performs the stages. A returned error aborts the run; per-version
// failures are recorded in report instead.
func (o *Orchestrator) run(ctx context.Context, req Request, report *Report) error {
	cat := req.Catalog

	var targets, rewrite []string
	switch req.Mode {
	case ModeFull:
		status, err := o.status(ctx, cat)
		if err != nil {
			return err
		}
		report.Existing, report.Missing = status.Existing, status.Missing
		targets, rewrite = status.Missing, cat.DropdownOrder()
	case ModeDefault:
		if cat.DefaultBranch() == "" {
			return errors.ConfigError("default branch not configured").Build()
		}
		targets = []string{cat.DefaultBranch()}
		rewrite = targets
	case ModeLatest:
		targets = []string{cat.Latest()}
		rewrite = targets
	default:
		return errors.ValidationError("unknown run mode").WithContext("mode", string(req.Mode)).Build()
	}

	if err := o.buildAll(ctx, targets, report); err != nil {
		return err
	}
	if req.Mode.promotes() {
		o.promote(ctx, cat.Latest(), report)
	}
	if err := o.rewriteAll(ctx, cat, rewrite, report); err != nil {
		return err
	}
	if o.committer != nil {
		o.commit(ctx, report)
	}
	return nil
}

func (o *Orchestrator) status(ctx context.Context, cat *versioning.Catalog) (*versioning.Status, error) {
	start := time.Now()
	defer func() { o.recorder.ObserveStageDuration(StageStatus, time.Since(start)) }()

	promoted, err := o.tree.ReadMarker()
	if err != nil {
		return nil, err
	}
	status, err := cat.Status(o.tree.Root, promoted)
	if err != nil {
		return nil, err
	}
	observability.InfoContext(observability.WithStage(ctx, StageStatus), "Version status",
		slog.Any("existing", status.Existing),
		slog.Any("missing", status.Missing))
	return status, nil
}

// buildAll builds versions one after another. Only configuration errors and
// cancellation stop it.
func (o *Orchestrator) buildAll(ctx context.Context, versions []string, report *Report) error {
	start := time.Now()
	defer func() { o.recorder.ObserveStageDuration(StageBuild, time.Since(start)) }()

	ctx = observability.WithStage(ctx, StageBuild)
	for _, v := range versions {
		if err := ctx.Err(); err != nil {
			return cancelled(err)
		}

		vctx := observability.WithVersion(ctx, v)
		observability.InfoContext(vctx, "Building version")
		vStart := time.Now()
		err := o.buildVersion(vctx, v)
		res := VersionResult{Version: v, Outcome: OutcomeBuilt, Duration: time.Since(vStart)}
		if err != nil {
			res.Outcome, res.Err = OutcomeFailed, err
		}
		report.Versions = append(report.Versions, res)

		if err != nil {
			o.recorder.ObserveVersionBuild(v, res.Duration, metrics.ResultFailed)
			observability.ErrorContext(vctx, "Version build failed", logfields.Error(err))
			if errors.HasCategory(err, errors.CategoryConfig) {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return cancelled(ctxErr)
			}
			continue
		}
		o.recorder.ObserveVersionBuild(v, res.Duration, metrics.ResultSuccess)
		observability.InfoContext(vctx, "Version built", logfields.Duration(res.Duration))
	}
	return nil
}

// buildVersion runs the per-version sequence. The checkout is released on
// every path once it exists.
func (o *Orchestrator) buildVersion(ctx context.Context, version string) error {
	co, err := o.checkouts.Checkout(ctx, version)
	if err != nil {
		return err
	}
	defer func() {
		if err := o.checkouts.Release(co); err != nil {
			observability.WarnContext(ctx, "Failed to release checkout", logfields.Error(err))
		}
	}()

	if err := o.tree.Clean(version); err != nil {
		return err
	}
	out, err := o.builder.Build(ctx, version, filepath.Join(co.Dir, o.docsSubdir))
	if err != nil {
		return err
	}
	return o.tree.Materialize(version, out)
}

func (o *Orchestrator) promote(ctx context.Context, latest string, report *Report) {
	start := time.Now()
	defer func() { o.recorder.ObserveStageDuration(StagePromote, time.Since(start)) }()

	ctx = observability.WithVersion(observability.WithStage(ctx, StagePromote), latest)
	p, err := o.tree.Promote(latest)
	switch {
	case err != nil && errors.GetSeverity(err) == errors.SeverityWarning:
		report.PromotionErr = err
		o.recorder.IncPromotion(metrics.ResultWarning)
		observability.WarnContext(ctx, "Promotion skipped", logfields.Error(err))
	case err != nil:
		report.PromotionErr = err
		o.recorder.IncPromotion(metrics.ResultFailed)
		observability.ErrorContext(ctx, "Promotion failed", logfields.Error(err))
	case p.AlreadyPromoted:
		report.Promotion = p
		o.recorder.IncPromotion(metrics.ResultSkipped)
	default:
		report.Promotion = p
		o.recorder.IncPromotion(metrics.ResultSuccess)
		observability.InfoContext(ctx, "Promoted latest version to root",
			logfields.Count(len(p.Moved)),
			slog.Int("replaced", len(p.Replaced)))
	}
}

// rewriteAll updates the selectors of versions. Rewriting happens after
// promotion so freshly promoted pages are found at the root.
func (o *Orchestrator) rewriteAll(ctx context.Context, cat *versioning.Catalog, versions []string, report *Report) error {
	start := time.Now()
	defer func() { o.recorder.ObserveStageDuration(StageRewrite, time.Since(start)) }()

	ctx = observability.WithStage(ctx, StageRewrite)
	resolver := versionpath.Resolver{DocRoot: o.tree.Root, Latest: cat.Latest(), Trim: o.trim}
	rw := dropdown.NewRewriter(o.tree, resolver, cat.DropdownOrder(), cat.VersionDirNames())

	for _, v := range versions {
		if err := ctx.Err(); err != nil {
			return cancelled(err)
		}
		res, err := rw.Rewrite(ctx, v)
		rr := RewriteResult{Version: v, Err: err}
		if res != nil {
			rr.Rewritten, rr.Unplaced = res.Rewritten, res.Unplaced
			o.recorder.AddDocumentsRewritten(v, res.Rewritten)
		}
		report.Rewrites = append(report.Rewrites, rr)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return cancelled(ctxErr)
			}
			observability.ErrorContext(observability.WithVersion(ctx, v), "Selector rewrite failed", logfields.Error(err))
		}
	}
	return nil
}

func (o *Orchestrator) commit(ctx context.Context, report *Report) {
	start := time.Now()
	defer func() { o.recorder.ObserveStageDuration(StageCommit, time.Since(start)) }()

	ctx = observability.WithStage(ctx, StageCommit)
	res, err := o.committer.Commit(ctx, o.tree.Root)
	if err != nil {
		report.CommitErr = err
		observability.ErrorContext(ctx, "Commit failed", logfields.Error(err))
		return
	}
	report.Commit = res
	if res.Clean {
		observability.InfoContext(ctx, "Documentation tree unchanged, nothing to commit")
		return
	}
	observability.InfoContext(ctx, "Committed documentation tree", logfields.Commit(res.Hash))
}

func cancelled(err error) error {
	return errors.NewError(errors.CategoryRuntime, "sync run cancelled").WithCause(err).Build()
}
