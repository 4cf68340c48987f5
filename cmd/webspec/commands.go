package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	webspec "github.com/webspec/webspec"
	"github.com/webspec/webspec/compare"
	"github.com/webspec/webspec/flags"
	"github.com/webspec/webspec/registry"
	"github.com/webspec/webspec/reporting"
	"github.com/webspec/webspec/runner"
	"github.com/webspec/webspec/validation"
)

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Diff two execution reports (baseline vs current)",
		ArgsUsage: "<baseline> <current>",
		Flags: []cli.Flag{
			flags.OutputFormat,
			flags.NoColor,
			flags.LogLevel,
			&cli.BoolFlag{
				Name:  "fail-on-regression",
				Usage: "Exit with a failure code when the comparison detects a regression",
			},
		},
		Action: func(ctx *cli.Context) error {
			if _, err := setupLogger(ctx); err != nil {
				return webspec.NewRuntimeError(err)
			}
			if ctx.NArg() != 2 {
				return webspec.NewRuntimeError(fmt.Errorf("expected <baseline> <current> arguments, got %d", ctx.NArg()))
			}

			result, err := compare.CompareFiles(ctx.Args().Get(0), ctx.Args().Get(1))
			if err != nil {
				return webspec.NewRuntimeError(err)
			}

			var out string
			switch webspec.ReportFormat(ctx.String(flags.OutputFormat.Name)) {
			case webspec.FormatJSON:
				out, err = reporting.FormatJSON(result)
			case webspec.FormatYAML:
				out, err = reporting.FormatYAML(result)
			default:
				out = reporting.FormatComparisonText(result, !ctx.Bool(flags.NoColor.Name))
			}
			if err != nil {
				return webspec.NewRuntimeError(err)
			}
			fmt.Print(out)

			if ctx.Bool("fail-on-regression") && result.Status == compare.StatusRegression {
				return webspec.NewTestFailureError(fmt.Sprintf("%d regression(s) detected", len(result.Regressions)))
			}
			return nil
		},
	}
}

func stepsCommand() *cli.Command {
	return &cli.Command{
		Name:  "steps",
		Usage: "List, search or export the step catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Usage: "Filter steps by a case-insensitive query"},
			&cli.StringFlag{Name: "category", Usage: "Filter steps by category"},
			&cli.BoolFlag{Name: "schema", Usage: "Dump the whole catalog as JSON"},
			flags.LogLevel,
			flags.NoColor,
		},
		Action: func(ctx *cli.Context) error {
			if _, err := setupLogger(ctx); err != nil {
				return webspec.NewRuntimeError(err)
			}
			catalog := registry.DefaultCatalog()

			if ctx.Bool("schema") {
				data, err := catalog.SchemaJSON(Version)
				if err != nil {
					return webspec.NewRuntimeError(err)
				}
				fmt.Println(string(data))
				return nil
			}

			steps := catalog.Steps()
			if q := ctx.String("search"); q != "" {
				steps = catalog.Search(q)
			}
			if c := ctx.String("category"); c != "" {
				var filtered []registry.StepInfo
				for _, s := range steps {
					if s.Category == c {
						filtered = append(filtered, s)
					}
				}
				steps = filtered
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Category", "Pattern", "Description"})
			for _, s := range steps {
				t.AppendRow(table.Row{s.ID, s.Category, s.Pattern, s.Description})
			}
			t.AppendFooter(table.Row{fmt.Sprintf("%d steps", len(steps))})
			t.Render()
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Lint feature files against the step catalog without executing them",
		ArgsUsage: "<path> [<path>...]",
		Flags: []cli.Flag{
			flags.OutputFormat,
			flags.LogLevel,
			flags.NoColor,
		},
		Action: func(ctx *cli.Context) error {
			if _, err := setupLogger(ctx); err != nil {
				return webspec.NewRuntimeError(err)
			}
			if ctx.NArg() == 0 {
				return webspec.NewRuntimeError(fmt.Errorf("expected at least one feature path"))
			}

			v := validation.New(registry.Default(), registry.DefaultCatalog())
			var results []validation.ValidationResult
			for _, path := range ctx.Args().Slice() {
				files, err := runner.DiscoverFeatures(path)
				if err != nil {
					return webspec.NewRuntimeError(err)
				}
				for _, f := range files {
					results = append(results, v.ValidateFile(f))
				}
			}

			invalid := 0
			for _, r := range results {
				if !r.Valid {
					invalid++
				}
			}

			switch webspec.ReportFormat(ctx.String(flags.OutputFormat.Name)) {
			case webspec.FormatJSON:
				out, err := reporting.FormatJSON(results)
				if err != nil {
					return webspec.NewRuntimeError(err)
				}
				fmt.Print(out)
			default:
				printValidationText(results)
			}

			if invalid > 0 {
				return webspec.NewTestFailureError(fmt.Sprintf("%d of %d files failed validation", invalid, len(results)))
			}
			return nil
		},
	}
}

func printValidationText(results []validation.ValidationResult) {
	for _, r := range results {
		status := "OK"
		if !r.Valid {
			status = "INVALID"
		}
		fmt.Printf("%s %s (%d steps)\n", status, r.File, r.Steps)
		for _, e := range r.Errors {
			fmt.Printf("  error: %s\n", e.Message)
			for _, s := range e.Suggestions {
				fmt.Printf("    did you mean: %s\n", s)
			}
		}
		for _, w := range r.Warnings {
			fmt.Printf("  warning: %s\n", w.Message)
		}
	}
}
