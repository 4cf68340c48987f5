package reporting

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/webspec/webspec/compare"
	"github.com/webspec/webspec/types"
)

// FormatComparisonText renders a comparison result for the terminal.
func FormatComparisonText(result *compare.ComparisonResult, colored bool) string {
	var b strings.Builder

	status := strings.ToUpper(string(result.Status))
	if colored {
		status = comparisonColor(result.Status).Sprint(status)
	}
	fmt.Fprintf(&b, "Comparison: %s\n", status)
	fmt.Fprintf(&b, "Baseline: %s\nCurrent:  %s\n\n", result.BaselineTimestamp, result.CurrentTimestamp)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle("Metrics delta (current - baseline)")
	t.AppendHeader(table.Row{"Metric", "Delta"})
	t.AppendRows([]table.Row{
		{"Passed scenarios", signed(result.Metrics.PassedScenarios)},
		{"Failed scenarios", signed(result.Metrics.FailedScenarios)},
		{"Skipped scenarios", signed(result.Metrics.SkippedScenarios)},
		{"Passed steps", signed(result.Metrics.PassedSteps)},
		{"Failed steps", signed(result.Metrics.FailedSteps)},
		{"Duration", fmt.Sprintf("%+dms (%+.1f%%)", result.Metrics.DurationMS, result.Metrics.DurationPct)},
	})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if len(result.Regressions) > 0 {
		rt := table.NewWriter()
		rt.SetStyle(table.StyleLight)
		rt.SetTitle("Regressions")
		rt.AppendHeader(table.Row{"Severity", "Kind", "Name", "Change"})
		for _, item := range result.Regressions {
			sev := string(item.Severity)
			if colored {
				sev = severityColor(item.Severity).Sprint(sev)
			}
			rt.AppendRow(table.Row{sev, item.Kind, item.Name, describeChange(item.BaselineMS, item.CurrentMS, item.ChangePct)})
		}
		b.WriteString(rt.Render())
		b.WriteString("\n\n")
	}

	if len(result.Improvements) > 0 {
		it := table.NewWriter()
		it.SetStyle(table.StyleLight)
		it.SetTitle("Improvements")
		it.AppendHeader(table.Row{"Kind", "Name", "Change"})
		for _, item := range result.Improvements {
			it.AppendRow(table.Row{item.Kind, item.Name, describeChange(item.BaselineMS, item.CurrentMS, item.ChangePct)})
		}
		b.WriteString(it.Render())
		b.WriteString("\n\n")
	}

	if len(result.ScenarioChanges) > 0 {
		st := table.NewWriter()
		st.SetStyle(table.StyleLight)
		st.SetTitle("Scenario changes")
		st.AppendHeader(table.Row{"Scenario", "Change", "Baseline", "Current"})
		for _, c := range result.ScenarioChanges {
			st.AppendRow(table.Row{c.Name, string(c.ChangeType), describeSide(c.BaselineStatus, c.BaselineMS), describeSide(c.CurrentStatus, c.CurrentMS)})
		}
		b.WriteString(st.Render())
		b.WriteString("\n")
	}
	return b.String()
}

func describeChange(baselineMS, currentMS, pct float64) string {
	return fmt.Sprintf("%.0fms → %.0fms (%+.1f%%)", baselineMS, currentMS, pct)
}

func describeSide(status types.Status, ms int64) string {
	if status == "" {
		return "-"
	}
	return fmt.Sprintf("%s %dms", status, ms)
}

func signed(n int) string {
	return fmt.Sprintf("%+d", n)
}

func comparisonColor(status compare.Status) text.Colors {
	switch status {
	case compare.StatusRegression:
		return text.Colors{text.FgRed}
	case compare.StatusImprovement:
		return text.Colors{text.FgGreen}
	default:
		return text.Colors{text.FgWhite}
	}
}

func severityColor(s compare.Severity) text.Colors {
	switch s {
	case compare.SeverityCritical:
		return text.Colors{text.FgHiRed, text.Bold}
	case compare.SeverityHigh:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{text.FgYellow}
	}
}
