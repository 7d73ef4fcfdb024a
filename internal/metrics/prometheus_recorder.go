package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

const namespace = "docversions"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg                *prom.Registry
	stageDuration      *prom.HistogramVec
	versionDuration    *prom.HistogramVec
	versionResults     *prom.CounterVec
	documentsRewritten *prom.CounterVec
	promotions         *prom.CounterVec
	runDuration        prom.Histogram
	runOutcomes        *prom.CounterVec
	lastRun            prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg, or on
// a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of run stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.versionDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "version_build_duration_seconds",
		Help:      "Duration of checkout, build and materialize for one version",
		Buckets:   prom.ExponentialBuckets(1, 2, 12),
	}, []string{"result"})
	pr.versionResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "version_builds_total",
		Help:      "Version builds by version and result",
	}, []string{"version", "result"})
	pr.documentsRewritten = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "documents_rewritten_total",
		Help:      "Documents whose version selector was rewritten",
	}, []string{"version"})
	pr.promotions = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "promotions_total",
		Help:      "Promotions of the latest version by result",
	}, []string{"result"})
	pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Total run duration",
		Buckets:   prom.ExponentialBuckets(1, 2, 14),
	})
	pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "run_outcomes_total",
		Help:      "Runs by final status",
	}, []string{"result"})
	pr.lastRun = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished",
	})
	reg.MustRegister(pr.stageDuration, pr.versionDuration, pr.versionResults, pr.documentsRewritten,
		pr.promotions, pr.runDuration, pr.runOutcomes, pr.lastRun)
	return pr
}

// Registry returns the registry the metrics live in.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveVersionBuild(version string, d time.Duration, result ResultLabel) {
	p.versionDuration.WithLabelValues(string(result)).Observe(d.Seconds())
	p.versionResults.WithLabelValues(version, string(result)).Inc()
}

func (p *PrometheusRecorder) AddDocumentsRewritten(version string, n int) {
	p.documentsRewritten.WithLabelValues(version).Add(float64(n))
}

func (p *PrometheusRecorder) IncPromotion(result ResultLabel) {
	p.promotions.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(result ResultLabel) {
	p.runOutcomes.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) SetLastRun(t time.Time) {
	p.lastRun.Set(float64(t.Unix()))
}

// HTTPHandler serves the recorder's registry in the exposition format.
func (p *PrometheusRecorder) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// WriteTextfile writes the current metrics to path for the node_exporter
// textfile collector. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return errors.FileSystemError("cannot write metrics textfile").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
