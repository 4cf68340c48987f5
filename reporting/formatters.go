package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/webspec/webspec/runner"
	"github.com/webspec/webspec/types"
)

// ReportWriter writes rendered report content to a destination.
type ReportWriter interface {
	Write(content string) error
}

// FileWriter writes reports to a file.
type FileWriter struct {
	path string
}

func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

func (fw *FileWriter) Write(content string) error {
	return os.WriteFile(fw.path, []byte(content), 0644)
}

// StdoutWriter writes reports to stdout.
type StdoutWriter struct{}

func (StdoutWriter) Write(content string) error {
	_, err := fmt.Print(content)
	return err
}

func statusText(status types.Status) string {
	switch status {
	case types.StatusPassed:
		return "PASS"
	case types.StatusFailed:
		return "FAIL"
	case types.StatusSkipped:
		return "SKIP"
	default:
		return "PENDING"
	}
}

func statusColor(status types.Status) text.Colors {
	switch status {
	case types.StatusPassed:
		return text.Colors{text.FgGreen}
	case types.StatusFailed:
		return text.Colors{text.FgRed}
	case types.StatusSkipped:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgWhite}
	}
}

func formatMS(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", ms)
	}
	return d.Truncate(time.Millisecond).String()
}

// FormatResultText renders one feature result as a tree with a summary table.
func FormatResultText(result *types.ExecutionResult, colored bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feature: %s (%s)\n", result.Feature.Name, statusText(result.Status))
	for i := range result.Scenarios {
		sc := &result.Scenarios[i]
		fmt.Fprintf(&b, "├── %s [%s] %s\n", sc.Name, statusText(sc.Status), formatMS(sc.DurationMS))
		for _, step := range sc.Steps {
			fmt.Fprintf(&b, "│   ├── [%s] %s %s %s\n", statusText(step.Status), step.Keyword, step.Text, formatMS(step.DurationMS))
			if step.Error != nil {
				fmt.Fprintf(&b, "│   │     error: %s\n", step.Error.Message)
				for _, s := range step.Error.Suggestions {
					fmt.Fprintf(&b, "│   │     did you mean: %s\n", s)
				}
			}
		}
	}
	b.WriteString("\n")
	b.WriteString(summaryTable(result, colored))
	b.WriteString("\n")
	return b.String()
}

func summaryTable(result *types.ExecutionResult, colored bool) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "Total", "Passed", "Failed", "Skipped"})
	t.AppendRow(table.Row{"Scenarios",
		result.Summary.TotalScenarios,
		result.Summary.PassedScenarios,
		result.Summary.FailedScenarios,
		result.Summary.SkippedScenarios})
	t.AppendRow(table.Row{"Steps",
		result.Summary.TotalSteps,
		result.Summary.PassedSteps,
		result.Summary.FailedSteps,
		result.Summary.SkippedSteps})
	footer := fmt.Sprintf("%s in %s", statusText(result.Status), formatMS(result.DurationMS))
	if colored {
		footer = statusColor(result.Status).Sprint(footer)
	}
	t.AppendFooter(table.Row{footer})
	return t.Render()
}

// FormatBatchText renders a batch result as a per-feature table plus totals.
func FormatBatchText(result *runner.BatchResult, colored bool) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Batch %s", result.RunID))
	t.AppendHeader(table.Row{"Feature", "Status", "Scenarios", "Failed", "Duration"})
	for i := range result.Features {
		fr := &result.Features[i]
		status := statusText(fr.Result.Status)
		if colored {
			status = statusColor(fr.Result.Status).Sprint(status)
		}
		t.AppendRow(table.Row{
			fr.File,
			status,
			fr.Result.Summary.TotalScenarios,
			fr.Result.Summary.FailedScenarios,
			formatMS(fr.Result.DurationMS),
		})
	}
	for _, be := range result.Errors {
		status := "ERROR"
		if colored {
			status = text.Colors{text.FgHiRed}.Sprint(status)
		}
		t.AppendRow(table.Row{be.File, status, "-", "-", "-"})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d features", result.Summary.TotalFeatures),
		fmt.Sprintf("%d passed / %d failed / %d errored",
			result.Summary.PassedFeatures, result.Summary.FailedFeatures, result.Summary.ErroredFeatures),
		result.Summary.TotalScenarios,
		result.Summary.FailedScenarios,
		formatMS(result.DurationMS),
	})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	for _, be := range result.Errors {
		fmt.Fprintf(&b, "error: %s: %s\n", be.File, be.Message)
	}
	return b.String()
}

// FormatJSON renders any report document as indented JSON.
func FormatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatYAML renders any report document as YAML.
func FormatYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return string(data), nil
}
