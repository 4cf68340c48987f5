package reporting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/acarl005/stripansi"

	"github.com/webspec/webspec/types"
)

// FormatTAP renders one feature result as TAP version 13: a plan line sized
// by scenario count, one test line per scenario in scenario order, and an
// indented diagnostic block naming the first failing step of each failed
// scenario.
func FormatTAP(result *types.ExecutionResult) string {
	var b strings.Builder
	b.WriteString("TAP version 13\n")
	fmt.Fprintf(&b, "1..%d\n", len(result.Scenarios))
	for i := range result.Scenarios {
		sc := &result.Scenarios[i]
		switch sc.Status {
		case types.StatusFailed:
			fmt.Fprintf(&b, "not ok %d %s\n", i+1, sc.Name)
			writeTAPDiagnostic(&b, sc)
		case types.StatusSkipped:
			fmt.Fprintf(&b, "ok %d %s # SKIP\n", i+1, sc.Name)
		default:
			fmt.Fprintf(&b, "ok %d %s\n", i+1, sc.Name)
		}
	}
	return b.String()
}

func writeTAPDiagnostic(b *strings.Builder, sc *types.ScenarioResult) {
	for _, step := range sc.Steps {
		if step.Status != types.StatusFailed {
			continue
		}
		b.WriteString("  ---\n")
		fmt.Fprintf(b, "  step: %s %s\n", step.Keyword, step.Text)
		if step.Error != nil {
			fmt.Fprintf(b, "  message: %s\n", step.Error.Message)
		}
		fmt.Fprintf(b, "  duration_ms: %d\n", step.DurationMS)
		b.WriteString("  ...\n")
		return
	}
}

// TapSummary is the digest of a parsed TAP document.
type TapSummary struct {
	Version int
	Planned int
	Passed  int
	Failed  int
	Skipped int
}

// Total counts the test lines actually seen.
func (s TapSummary) Total() int {
	return s.Passed + s.Failed + s.Skipped
}

// Complete reports whether every planned test produced a line.
func (s TapSummary) Complete() bool {
	return s.Total() == s.Planned
}

// ParseTAP digests TAP output, ours or a foreign producer's. ANSI escapes are
// stripped first so colored terminal captures parse cleanly. Unknown lines
// and diagnostics are ignored.
func ParseTAP(input string) (TapSummary, error) {
	var s TapSummary
	sawPlan := false
	for _, raw := range strings.Split(stripansi.Strip(input), "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "TAP version "):
			v, err := strconv.Atoi(strings.TrimPrefix(line, "TAP version "))
			if err != nil {
				return TapSummary{}, fmt.Errorf("invalid TAP version line %q", line)
			}
			s.Version = v
		case strings.HasPrefix(line, "1.."):
			n, err := strconv.Atoi(strings.TrimPrefix(line, "1.."))
			if err != nil {
				return TapSummary{}, fmt.Errorf("invalid TAP plan line %q", line)
			}
			s.Planned = n
			sawPlan = true
		case strings.HasPrefix(line, "not ok"):
			s.Failed++
		case strings.HasPrefix(line, "ok"):
			if strings.Contains(line, "# SKIP") {
				s.Skipped++
			} else {
				s.Passed++
			}
		}
	}
	if !sawPlan {
		return TapSummary{}, fmt.Errorf("TAP input has no plan line")
	}
	return s, nil
}
