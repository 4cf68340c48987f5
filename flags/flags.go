package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "WEBSPEC"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	FeatureDir = &cli.StringFlag{
		Name:     "features",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("FEATURES"),
		Usage:    "Path to a feature file or a directory to discover .feature files in",
	}
	Parallel = &cli.BoolFlag{
		Name:    "parallel",
		Value:   false,
		EnvVars: prefixEnvVars("PARALLEL"),
		Usage:   "Run feature files concurrently on a worker pool",
	}
	Workers = &cli.IntFlag{
		Name:    "workers",
		Value:   0,
		EnvVars: prefixEnvVars("WORKERS"),
		Usage:   "Number of parallel workers (0 = one per CPU)",
	}
	FeatureTimeout = &cli.DurationFlag{
		Name:    "feature-timeout",
		Value:   0,
		EnvVars: prefixEnvVars("FEATURE_TIMEOUT"),
		Usage:   "Timeout per feature file (e.g. '2m'). 0 disables the timeout.",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	OutputFormat = &cli.StringFlag{
		Name:    "format",
		Value:   "text",
		EnvVars: prefixEnvVars("FORMAT"),
		Usage:   "Report format: text, json, yaml, tap or html",
	}
	OutputFile = &cli.StringFlag{
		Name:    "output",
		Value:   "",
		EnvVars: prefixEnvVars("OUTPUT"),
		Usage:   "Write the report to a file instead of stdout",
	}
	ArtifactDir = &cli.StringFlag{
		Name:    "artifact-dir",
		Value:   "",
		EnvVars: prefixEnvVars("ARTIFACT_DIR"),
		Usage:   "Directory to persist per-run reports in; past runs double as comparison baselines",
	}
	AlertConfig = &cli.StringFlag{
		Name:    "alert-config",
		Value:   "",
		EnvVars: prefixEnvVars("ALERT_CONFIG"),
		Usage:   "Path to a YAML alert config; omit to use the built-in thresholds",
	}
	WebhookConfig = &cli.StringFlag{
		Name:    "webhook-config",
		Value:   "",
		EnvVars: prefixEnvVars("WEBHOOK_CONFIG"),
		Usage:   "Path to a YAML webhook config for alert delivery",
	}
	DryRun = &cli.BoolFlag{
		Name:    "dry-run",
		Value:   false,
		EnvVars: prefixEnvVars("DRY_RUN"),
		Usage:   "Execute steps against the no-op backend without honoring wait durations",
	}
	NoColor = &cli.BoolFlag{
		Name:    "no-color",
		Value:   false,
		EnvVars: prefixEnvVars("NO_COLOR"),
		Usage:   "Disable colored terminal output",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level: trace, debug, info, warn, error",
	}
)

var requiredFlags = []cli.Flag{
	FeatureDir,
}

var optionalFlags = []cli.Flag{
	Parallel,
	Workers,
	FeatureTimeout,
	RunInterval,
	OutputFormat,
	OutputFile,
	ArtifactDir,
	AlertConfig,
	WebhookConfig,
	DryRun,
	NoColor,
	LogLevel,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
