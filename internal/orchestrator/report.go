package orchestrator

import (
	stderrors "errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/docversions/internal/doctree"
	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/git"
	"git.home.luguber.info/inful/docversions/internal/metrics"
)

// VersionOutcome is the result of building one version.
type VersionOutcome string

const (
	OutcomeBuilt  VersionOutcome = "built"
	OutcomeFailed VersionOutcome = "failed"
)

// VersionResult records the build of one version.
type VersionResult struct {
	Version  string
	Outcome  VersionOutcome
	Duration time.Duration
	Err      error
}

// Category is the error category of a failed build, empty otherwise.
func (r VersionResult) Category() errors.ErrorCategory {
	if r.Err == nil {
		return ""
	}
	return errors.GetCategory(r.Err)
}

// RewriteResult records the selector rewrite of one version.
type RewriteResult struct {
	Version   string
	Rewritten int
	Unplaced  int
	Err       error
}

// Report summarizes a run.
type Report struct {
	RunID    string
	Mode     Mode
	Latest   string
	Started  time.Time
	Duration time.Duration

	// Existing and Missing partition the dropdown versions at the start of a
	// full run.
	Existing []string
	Missing  []string

	Versions []VersionResult

	Promotion    *doctree.Promotion
	PromotionErr error

	Rewrites []RewriteResult

	Commit    *git.CommitResult
	CommitErr error

	// Aborted is set when the run stopped early.
	Aborted error
}

// Built lists the versions materialized by the run.
func (r *Report) Built() []string {
	var out []string
	for _, v := range r.Versions {
		if v.Outcome == OutcomeBuilt {
			out = append(out, v.Version)
		}
	}
	return out
}

// Failed lists the builds that did not complete.
func (r *Report) Failed() []VersionResult {
	var out []VersionResult
	for _, v := range r.Versions {
		if v.Outcome == OutcomeFailed {
			out = append(out, v)
		}
	}
	return out
}

// DocumentsRewritten totals rewritten documents over all versions.
func (r *Report) DocumentsRewritten() int {
	n := 0
	for _, rw := range r.Rewrites {
		n += rw.Rewritten
	}
	return n
}

// promotionWarning reports whether promotion was skipped with a warning only.
func (r *Report) promotionWarning() bool {
	return r.PromotionErr != nil && errors.GetSeverity(r.PromotionErr) == errors.SeverityWarning
}

// errs collects every failure that should fail the run, in run order.
func (r *Report) errs() []error {
	var errs []error
	if r.Aborted != nil {
		errs = append(errs, r.Aborted)
	}
	for _, v := range r.Failed() {
		errs = append(errs, v.Err)
	}
	if r.PromotionErr != nil && !r.promotionWarning() {
		errs = append(errs, r.PromotionErr)
	}
	for _, rw := range r.Rewrites {
		if rw.Err != nil {
			errs = append(errs, rw.Err)
		}
	}
	if r.CommitErr != nil {
		errs = append(errs, r.CommitErr)
	}
	return errs
}

// Outcome classifies the run for metrics.
func (r *Report) Outcome() metrics.ResultLabel {
	switch {
	case len(r.errs()) > 0:
		return metrics.ResultFailed
	case r.promotionWarning():
		return metrics.ResultWarning
	default:
		return metrics.ResultSuccess
	}
}

// Err returns nil for a clean run. A single failure is returned as is; several
// are joined under the category of the first one so the exit code follows it.
func (r *Report) Err() error {
	errs := r.errs()
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}

	names := make([]string, 0, len(errs))
	for _, v := range r.Failed() {
		names = append(names, v.Version)
	}
	return errors.NewError(errors.GetCategory(errs[0]), fmt.Sprintf("%d steps of the sync run failed", len(errs))).
		WithSeverity(errors.GetSeverity(errs[0])).
		WithCause(stderrors.Join(errs...)).
		WithContext("failed_versions", names).
		WithContext("run_id", r.RunID).
		Build()
}
