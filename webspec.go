package webspec

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/webspec/webspec/executor"
	"github.com/webspec/webspec/metrics"
	"github.com/webspec/webspec/monitor"
	"github.com/webspec/webspec/registry"
	"github.com/webspec/webspec/reporting"
	"github.com/webspec/webspec/runner"
)

// App drives the whole pipeline: discover features, execute them on a batch
// runner, render the report, and evaluate performance alerts. It runs once or
// on an interval, depending on configuration.
type App struct {
	ctx     context.Context
	config  *Config
	version string
	runner  *runner.BatchRunner
	result  *runner.BatchResult

	alertConfigs   []monitor.AlertConfig
	webhookConfigs []monitor.WebhookConfig

	running   atomic.Bool
	scheduler *Scheduler

	shutdownCallback func(error) // Callback to signal application shutdown
}

// New assembles the pipeline. A nil backend runs features against the no-op
// backend, which is the dry-run mode used when no browser integration is
// wired in.
func New(ctx context.Context, config *Config, version string, backend executor.Backend, shutdownCallback func(error)) (*App, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if backend == nil {
		backend = &executor.NopBackend{SkipWaits: config.DryRun}
	}

	config.Log.Debug("Creating webspec app",
		"featureDir", config.FeatureDir,
		"parallel", config.Parallel,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce)

	reg := registry.Default()
	if dups := reg.Validate(); len(dups) > 0 {
		for _, d := range dups {
			config.Log.Warn("Duplicate step pattern", "pattern", d.Pattern, "identifiers", d.Identifiers)
		}
	}
	catalog := registry.DefaultCatalog()
	ex := executor.New(reg, catalog, backend)
	batchRunner := runner.NewBatchRunner(runner.BatchConfig{
		Parallel:   config.Parallel,
		MaxWorkers: config.Workers,
		Timeout:    config.FeatureTimeout,
	}, ex)

	app := &App{
		ctx:              ctx,
		config:           config,
		version:          version,
		runner:           batchRunner,
		shutdownCallback: shutdownCallback,
	}
	if err := app.loadMonitoringConfigs(); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) loadMonitoringConfigs() error {
	if a.config.AlertConfig != "" {
		configs, err := monitor.LoadAlertConfigs(a.config.AlertConfig)
		if err != nil {
			return fmt.Errorf("failed to load alert config: %w", err)
		}
		a.alertConfigs = configs
	} else {
		a.alertConfigs = []monitor.AlertConfig{monitor.DefaultConfig()}
	}
	if a.config.WebhookConfig != "" {
		webhooks, err := monitor.LoadWebhookConfigs(a.config.WebhookConfig)
		if err != nil {
			return fmt.Errorf("failed to load webhook config: %w", err)
		}
		a.webhookConfigs = webhooks
	}
	return nil
}

// Start runs the features once, then either shuts down (run-once mode) or
// keeps re-running at the configured interval.
func (a *App) Start(ctx context.Context) error {
	a.ctx = ctx
	a.running.Store(true)

	if a.config.RunOnce {
		a.config.Log.Info("Starting webspec in run-once mode")
	} else {
		a.config.Log.Info("Starting webspec in continuous mode", "interval", a.config.RunInterval)
	}

	a.scheduler = NewScheduler(a.config.RunInterval, a.config.RunOnce, a.config.Log)
	a.scheduler.RegisterCallback(func() error {
		if err := a.runBatch(); err != nil {
			metrics.RecordErrorDetails("batch run", err)
			return err
		}
		return nil
	})

	if err := a.scheduler.Start(ctx); err != nil {
		a.config.Log.Error("Runtime error running features", "error", err)
		return NewRuntimeError(err)
	}

	if a.config.RunOnce {
		if !a.result.Passed() {
			return NewTestFailureError(fmt.Sprintf("%d of %d features failed",
				a.result.Summary.FailedFeatures,
				a.result.Summary.TotalFeatures))
		}
		go func() {
			a.shutdownCallback(nil)
		}()
	}
	return nil
}

// runBatch performs one full discover-execute-report-alert cycle.
func (a *App) runBatch() error {
	result, err := a.runner.Run(a.ctx, a.config.FeatureDir)
	if err != nil {
		return err
	}
	a.result = result

	if err := a.writeReport(result); err != nil {
		return err
	}
	if a.config.ArtifactDir != "" {
		aw := reporting.NewArtifactWriter(a.config.ArtifactDir)
		if err := aw.Save(result); err != nil {
			return fmt.Errorf("failed to save run artifacts: %w", err)
		}
		a.config.Log.Info("Saved run artifacts", "dir", aw.DirForRun(result.RunID))
	}

	batchStatus := "passed"
	if !result.Passed() {
		batchStatus = "failed"
	}
	metrics.RecordBatch(result.RunID, batchStatus,
		result.Summary.TotalFeatures,
		result.Summary.FailedFeatures,
		time.Duration(result.DurationMS)*time.Millisecond)
	for i := range result.Features {
		metrics.RecordResult(result.RunID, result.Features[i].Result)
	}

	a.evaluateAlerts(result)

	a.config.Log.Info("Batch completed", "run_id", result.RunID, "passed", result.Passed())
	return nil
}

func (a *App) writeReport(result *runner.BatchResult) error {
	content, err := a.renderReport(result)
	if err != nil {
		return err
	}
	var w reporting.ReportWriter = reporting.StdoutWriter{}
	if a.config.OutputFile != "" {
		w = reporting.NewFileWriter(a.config.OutputFile)
	}
	if err := w.Write(content); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (a *App) renderReport(result *runner.BatchResult) (string, error) {
	switch a.config.Format {
	case FormatJSON:
		return reporting.FormatJSON(result)
	case FormatYAML:
		return reporting.FormatYAML(result)
	case FormatTAP:
		var out string
		for i := range result.Features {
			out += reporting.FormatTAP(result.Features[i].Result)
		}
		return out, nil
	case FormatHTML:
		var out string
		for i := range result.Features {
			page, err := reporting.FormatHTML(result.Features[i].Result)
			if err != nil {
				return "", err
			}
			out += page
		}
		return out, nil
	default:
		return reporting.FormatBatchText(result, a.config.Colored), nil
	}
}

// evaluateAlerts folds the batch into a fresh monitor, applies every alert
// config, and fans crossed thresholds out to metrics and webhooks. Alerts are
// observational and never change the batch outcome.
func (a *App) evaluateAlerts(result *runner.BatchResult) {
	mon := monitor.NewPerformanceMonitor()
	for i := range result.Features {
		mon.RecordResult(result.Features[i].Result)
	}

	var alerts []monitor.PerformanceAlert
	for _, cfg := range a.alertConfigs {
		alerts = append(alerts, mon.EvaluateThresholds(cfg)...)
	}
	if len(alerts) == 0 {
		return
	}
	for _, alert := range alerts {
		a.config.Log.Warn("Performance alert",
			"threshold", alert.ThresholdName,
			"severity", alert.Severity,
			"metric", alert.Metric,
			"value", alert.Value)
		metrics.RecordAlert(string(alert.Severity))
	}
	if len(a.webhookConfigs) > 0 {
		if err := monitor.NewNotifier().Notify(a.ctx, a.webhookConfigs, alerts); err != nil {
			a.config.Log.Error("Failed to deliver alerts", "error", err)
			metrics.RecordErrorDetails("webhook delivery", err)
		}
	}
}

// Result returns the most recent batch result.
func (a *App) Result() *runner.BatchResult {
	return a.result
}

// Stop stops the webspec service.
func (a *App) Stop(ctx context.Context) error {
	a.config.Log.Info("Stopping webspec")
	if !a.running.Load() {
		return nil
	}
	a.running.Store(false)
	if a.scheduler != nil {
		_ = a.scheduler.Stop()
		if err := a.scheduler.WaitForShutdown(ctx); err != nil {
			return err
		}
	}
	a.config.Log.Info("webspec stopped")
	return nil
}

// Stopped returns true if the webspec service is stopped.
func (a *App) Stopped() bool {
	return !a.running.Load()
}
