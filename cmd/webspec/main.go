package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	webspec "github.com/webspec/webspec"
	"github.com/webspec/webspec/exitcodes"
	"github.com/webspec/webspec/flags"
	"github.com/webspec/webspec/service"
)

var (
	Version   = "v0.3.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "webspec"
	app.Usage = "Behavior-driven web test runner and analyzer"
	app.Description = "webspec executes Gherkin feature files against a step catalog, compares runs and evaluates performance thresholds"
	app.Commands = []*cli.Command{
		runCommand(),
		compareCommand(),
		stepsCommand(),
		validateCommand(),
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if webspec.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else if webspec.IsTestFailureError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			} else {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	shutdownTelemetry, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer shutdownTelemetry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		os.Exit(exitcodes.RuntimeErr)
	}
}

func setupLogger(ctx *cli.Context) (log.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(ctx.String(flags.LogLevel.Name))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	colored := !ctx.Bool(flags.NoColor.Name)
	logger := log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, colored))
	log.SetDefault(logger)
	return logger, nil
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Execute feature files and report the results",
		Flags: flags.Flags,
		Action: func(ctx *cli.Context) error {
			logger, err := setupLogger(ctx)
			if err != nil {
				return webspec.NewRuntimeError(err)
			}

			cfg, err := webspec.NewConfig(ctx, logger)
			if err != nil {
				return webspec.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
			}

			runCtx, cancel := context.WithCancelCause(ctx.Context)
			defer cancel(nil)

			app, err := webspec.New(runCtx, cfg, Version, nil, func(err error) { cancel(err) })
			if err != nil {
				return webspec.NewRuntimeError(fmt.Errorf("failed to create app: %w", err))
			}

			if cfg.RunOnce {
				return app.Start(runCtx)
			}

			// Continuous mode: expose health and metrics, run until a signal
			// or a fatal error stops us.
			svc := service.New()
			svc.Start(runCtx)
			defer svc.Shutdown()

			if err := app.Start(runCtx); err != nil {
				return err
			}
			<-runCtx.Done()
			return app.Stop(context.Background())
		},
	}
}
