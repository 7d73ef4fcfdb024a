// Package metrics records what a documentation sync did.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed:
//
//	recorder := metrics.NewPrometheusRecorder(registry)
//	orch := orchestrator.New(deps, orchestrator.WithRecorder(recorder))
//
// The Prometheus implementation can be scraped over HTTP (HTTPHandler) or, for
// one-shot runs started from cron or CI, written to a node_exporter textfile
// (WriteTextfile).
package metrics
