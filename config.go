package webspec

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/webspec/webspec/flags"
)

// ReportFormat selects how run results are rendered.
type ReportFormat string

const (
	FormatText ReportFormat = "text"
	FormatJSON ReportFormat = "json"
	FormatYAML ReportFormat = "yaml"
	FormatTAP  ReportFormat = "tap"
	FormatHTML ReportFormat = "html"
)

// Config holds the application configuration
type Config struct {
	FeatureDir     string        // Feature file or directory to run
	Parallel       bool          // Run features concurrently
	Workers        int           // Worker pool size (0 = auto)
	FeatureTimeout time.Duration // Timeout per feature
	RunInterval    time.Duration // Interval between runs
	RunOnce        bool          // Exit after one run
	Format         ReportFormat  // Report output format
	OutputFile     string        // Report destination ("" = stdout)
	ArtifactDir    string        // Per-run artifact directory ("" = disabled)
	AlertConfig    string        // YAML alert config path ("" = built-in rules)
	WebhookConfig  string        // YAML webhook config path
	DryRun         bool          // Skip wait durations in the no-op backend
	Colored        bool          // Colorize terminal output
	Log            log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}
	featureDir := ctx.String(flags.FeatureDir.Name)
	if featureDir == "" {
		return nil, errors.New("feature path is required")
	}
	absFeatureDir, err := filepath.Abs(featureDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for feature path '%s': %w", featureDir, err)
	}

	format := ReportFormat(ctx.String(flags.OutputFormat.Name))
	switch format {
	case FormatText, FormatJSON, FormatYAML, FormatTAP, FormatHTML:
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)

	return &Config{
		FeatureDir:     absFeatureDir,
		Parallel:       ctx.Bool(flags.Parallel.Name),
		Workers:        ctx.Int(flags.Workers.Name),
		FeatureTimeout: ctx.Duration(flags.FeatureTimeout.Name),
		RunInterval:    runInterval,
		RunOnce:        runInterval == 0,
		Format:         format,
		OutputFile:     ctx.String(flags.OutputFile.Name),
		ArtifactDir:    ctx.String(flags.ArtifactDir.Name),
		AlertConfig:    ctx.String(flags.AlertConfig.Name),
		WebhookConfig:  ctx.String(flags.WebhookConfig.Name),
		DryRun:         ctx.Bool(flags.DryRun.Name),
		Colored:        !ctx.Bool(flags.NoColor.Name),
		Log:            logger,
	}, nil
}
