package commands

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docversions/internal/config"
	"git.home.luguber.info/inful/docversions/internal/logfields"
	"git.home.luguber.info/inful/docversions/internal/metrics"
	"git.home.luguber.info/inful/docversions/internal/orchestrator"
	"git.home.luguber.info/inful/docversions/internal/schedule"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Schedule string `help:"Cron expression overriding watch.schedule"`
	Now      bool   `help:"Run once immediately before waiting for the schedule"`
	Listen   string `help:"Serve /metrics on this address, overriding metrics.listen"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if w.Schedule != "" {
		cfg.Watch.Schedule = w.Schedule
	}
	if w.Listen != "" {
		cfg.Metrics.Listen = w.Listen
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rec := metrics.NewPrometheusRecorder(nil)
	run := func() {
		report, err := RunSync(ctx, cfg, orchestrator.ModeFull, rec)
		writeTextfile(cfg, rec)
		if report != nil {
			PrintReport(os.Stdout, report)
		}
		if err != nil {
			slog.Error("Scheduled sync failed", logfields.Error(err))
		}
	}

	sched, err := schedule.NewScheduler()
	if err != nil {
		return err
	}
	id, err := sched.ScheduleCron("sync", cfg.Watch.Schedule, run)
	if err != nil {
		return err
	}

	srv := startMetricsServer(cfg, rec)

	if w.Now {
		run()
	}
	sched.Start(ctx)
	if next, err := sched.NextRun(id); err == nil {
		slog.Info("Watching for new releases", slog.String("schedule", cfg.Watch.Schedule), slog.Time("next_run", next))
	}

	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping watch")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if srv != nil {
		_ = srv.Shutdown(stopCtx)
	}
	return sched.Stop(stopCtx)
}

func startMetricsServer(cfg *config.Config, rec *metrics.PrometheusRecorder) *http.Server {
	if cfg.Metrics.Listen == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.HTTPHandler())
	srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("Serving metrics", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return srv
}
