package metrics

import (
	"testing"
	"time"
)

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("status", time.Second)
	r.ObserveVersionBuild("v1", time.Second, ResultSuccess)
	r.AddDocumentsRewritten("v1", 1)
	r.IncPromotion(ResultSkipped)
	r.ObserveRunDuration(time.Second)
	r.IncRunOutcome(ResultSuccess)
	r.SetLastRun(time.Now())

	var _ Recorder = (*PrometheusRecorder)(nil)
}
