package metrics

import "time"

// ResultLabel enumerates outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for a sync run.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveVersionBuild(version string, d time.Duration, result ResultLabel)
	AddDocumentsRewritten(version string, n int)
	IncPromotion(result ResultLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(result ResultLabel)
	SetLastRun(t time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)             {}
func (NoopRecorder) ObserveVersionBuild(string, time.Duration, ResultLabel) {}
func (NoopRecorder) AddDocumentsRewritten(string, int)                      {}
func (NoopRecorder) IncPromotion(ResultLabel)                               {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                       {}
func (NoopRecorder) IncRunOutcome(ResultLabel)                              {}
func (NoopRecorder) SetLastRun(time.Time)                                   {}
