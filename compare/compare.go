package compare

import (
	"fmt"
	"sort"

	"github.com/webspec/webspec/types"
)

// Overall comparison status. A run with both regressions and improvements is
// always a regression; the precedence is a hard rule.
type Status string

const (
	StatusRegression  Status = "regression"
	StatusImprovement Status = "improvement"
	StatusUnchanged   Status = "unchanged"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// ChangeType classifies one matched scenario pair.
type ChangeType string

const (
	ChangeStatus            ChangeType = "status_changed"
	ChangeDurationImproved  ChangeType = "duration_improved"
	ChangeDurationRegressed ChangeType = "duration_regressed"
	ChangeUnchanged         ChangeType = "unchanged"
	ChangeNew               ChangeType = "new"
	ChangeRemoved           ChangeType = "removed"
)

// Reporting thresholds, in percent of baseline duration.
const (
	// stepReportPct is the floor below which a step mean-duration change is
	// considered noise and not reported at all.
	stepReportPct = 5.0
	// regressionPct is the floor for promoting a slowdown to a regression
	// item (and a step change to an improvement item).
	regressionPct = 10.0
	// highSeverityPct splits duration regressions into high vs medium.
	highSeverityPct = 50.0
)

// MetricsDifference holds the signed top-level deltas between two runs.
type MetricsDifference struct {
	PassedScenarios  int     `json:"passed_scenarios" yaml:"passed_scenarios"`
	FailedScenarios  int     `json:"failed_scenarios" yaml:"failed_scenarios"`
	SkippedScenarios int     `json:"skipped_scenarios" yaml:"skipped_scenarios"`
	PassedSteps      int     `json:"passed_steps" yaml:"passed_steps"`
	FailedSteps      int     `json:"failed_steps" yaml:"failed_steps"`
	SkippedSteps     int     `json:"skipped_steps" yaml:"skipped_steps"`
	DurationMS       int64   `json:"duration_ms" yaml:"duration_ms"`
	DurationPct      float64 `json:"duration_pct" yaml:"duration_pct"`
}

// ScenarioChange is the classification of one scenario across the two runs.
type ScenarioChange struct {
	Name           string       `json:"name" yaml:"name"`
	ChangeType     ChangeType   `json:"change_type" yaml:"change_type"`
	BaselineStatus types.Status `json:"baseline_status,omitempty" yaml:"baseline_status,omitempty"`
	CurrentStatus  types.Status `json:"current_status,omitempty" yaml:"current_status,omitempty"`
	BaselineMS     int64        `json:"baseline_ms" yaml:"baseline_ms"`
	CurrentMS      int64        `json:"current_ms" yaml:"current_ms"`
	ChangePct      float64      `json:"change_pct" yaml:"change_pct"`
}

// StepPerformanceChange reports a mean-duration shift for one step text,
// aggregated across all scenarios of each run.
type StepPerformanceChange struct {
	Text       string  `json:"text" yaml:"text"`
	BaselineMS float64 `json:"baseline_mean_ms" yaml:"baseline_mean_ms"`
	CurrentMS  float64 `json:"current_mean_ms" yaml:"current_mean_ms"`
	ChangePct  float64 `json:"change_pct" yaml:"change_pct"`
}

// RegressionItem is a severity-tagged degradation.
type RegressionItem struct {
	Kind        string   `json:"kind" yaml:"kind"` // "scenario" or "step"
	Name        string   `json:"name" yaml:"name"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Description string   `json:"description" yaml:"description"`
	BaselineMS  float64  `json:"baseline_ms" yaml:"baseline_ms"`
	CurrentMS   float64  `json:"current_ms" yaml:"current_ms"`
	ChangePct   float64  `json:"change_pct" yaml:"change_pct"`
}

// ImprovementItem is a detected gain.
type ImprovementItem struct {
	Kind        string  `json:"kind" yaml:"kind"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	BaselineMS  float64 `json:"baseline_ms" yaml:"baseline_ms"`
	CurrentMS   float64 `json:"current_ms" yaml:"current_ms"`
	ChangePct   float64 `json:"change_pct" yaml:"change_pct"`
}

// ComparisonResult is the full diff of two execution reports. It is derived
// purely from its inputs and carries no state of its own.
type ComparisonResult struct {
	Status            Status                  `json:"status" yaml:"status"`
	BaselineTimestamp string                  `json:"baseline_timestamp" yaml:"baseline_timestamp"`
	CurrentTimestamp  string                  `json:"current_timestamp" yaml:"current_timestamp"`
	Metrics           MetricsDifference       `json:"metrics" yaml:"metrics"`
	ScenarioChanges   []ScenarioChange        `json:"scenario_changes" yaml:"scenario_changes"`
	StepChanges       []StepPerformanceChange `json:"step_changes,omitempty" yaml:"step_changes,omitempty"`
	Regressions       []RegressionItem        `json:"regressions,omitempty" yaml:"regressions,omitempty"`
	Improvements      []ImprovementItem       `json:"improvements,omitempty" yaml:"improvements,omitempty"`
}

// Compare diffs two execution reports. It is pure: calling it twice with the
// same inputs yields the same output, and comparing a report against itself
// yields an unchanged result with no regression or improvement items.
func Compare(baseline, current *types.ExecutionResult) *ComparisonResult {
	r := &ComparisonResult{
		BaselineTimestamp: baseline.Timestamp,
		CurrentTimestamp:  current.Timestamp,
		Metrics:           diffMetrics(baseline, current),
	}

	r.compareScenarios(baseline, current)
	r.compareSteps(baseline, current)

	switch {
	case len(r.Regressions) > 0:
		r.Status = StatusRegression
	case len(r.Improvements) > 0:
		r.Status = StatusImprovement
	default:
		r.Status = StatusUnchanged
	}
	return r
}

func diffMetrics(baseline, current *types.ExecutionResult) MetricsDifference {
	return MetricsDifference{
		PassedScenarios:  current.Summary.PassedScenarios - baseline.Summary.PassedScenarios,
		FailedScenarios:  current.Summary.FailedScenarios - baseline.Summary.FailedScenarios,
		SkippedScenarios: current.Summary.SkippedScenarios - baseline.Summary.SkippedScenarios,
		PassedSteps:      current.Summary.PassedSteps - baseline.Summary.PassedSteps,
		FailedSteps:      current.Summary.FailedSteps - baseline.Summary.FailedSteps,
		SkippedSteps:     current.Summary.SkippedSteps - baseline.Summary.SkippedSteps,
		DurationMS:       current.DurationMS - baseline.DurationMS,
		DurationPct:      percentChange(float64(baseline.DurationMS), float64(current.DurationMS)),
	}
}

// percentChange is (current-baseline)/baseline*100, defined as 0 when the
// baseline is 0.
func percentChange(baseline, current float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (current - baseline) / baseline * 100
}

// compareScenarios matches scenarios by name. Names are assumed unique within
// one run; if they repeat, the last occurrence wins.
func (r *ComparisonResult) compareScenarios(baseline, current *types.ExecutionResult) {
	baseByName := indexScenarios(baseline)
	curByName := indexScenarios(current)

	// Walk the current run in order, then sweep removed baseline scenarios,
	// so output order is stable.
	seen := make(map[string]bool)
	for i := range current.Scenarios {
		cur := &current.Scenarios[i]
		if seen[cur.Name] {
			continue
		}
		seen[cur.Name] = true

		base, ok := baseByName[cur.Name]
		if !ok {
			r.ScenarioChanges = append(r.ScenarioChanges, ScenarioChange{
				Name:          cur.Name,
				ChangeType:    ChangeNew,
				CurrentStatus: cur.Status,
				CurrentMS:     cur.DurationMS,
			})
			continue
		}
		r.classifyScenarioPair(base, curByName[cur.Name])
	}
	var removed []string
	for name := range baseByName {
		if !seen[name] {
			removed = append(removed, name)
		}
	}
	sort.Strings(removed)
	for _, name := range removed {
		base := baseByName[name]
		r.ScenarioChanges = append(r.ScenarioChanges, ScenarioChange{
			Name:           name,
			ChangeType:     ChangeRemoved,
			BaselineStatus: base.Status,
			BaselineMS:     base.DurationMS,
		})
	}
}

func indexScenarios(result *types.ExecutionResult) map[string]*types.ScenarioResult {
	byName := make(map[string]*types.ScenarioResult, len(result.Scenarios))
	for i := range result.Scenarios {
		byName[result.Scenarios[i].Name] = &result.Scenarios[i]
	}
	return byName
}

func (r *ComparisonResult) classifyScenarioPair(base, cur *types.ScenarioResult) {
	pct := percentChange(float64(base.DurationMS), float64(cur.DurationMS))
	change := ScenarioChange{
		Name:           cur.Name,
		BaselineStatus: base.Status,
		CurrentStatus:  cur.Status,
		BaselineMS:     base.DurationMS,
		CurrentMS:      cur.DurationMS,
		ChangePct:      pct,
	}
	switch {
	case base.Status != cur.Status:
		change.ChangeType = ChangeStatus
	case cur.DurationMS < base.DurationMS:
		change.ChangeType = ChangeDurationImproved
	case cur.DurationMS > base.DurationMS:
		change.ChangeType = ChangeDurationRegressed
	default:
		change.ChangeType = ChangeUnchanged
	}
	r.ScenarioChanges = append(r.ScenarioChanges, change)

	// Severity extraction, distinct from the raw classification above.
	if base.Status == types.StatusPassed && cur.Status == types.StatusFailed {
		r.Regressions = append(r.Regressions, RegressionItem{
			Kind:        "scenario",
			Name:        cur.Name,
			Severity:    SeverityCritical,
			Description: "scenario went from passed to failed",
			BaselineMS:  float64(base.DurationMS),
			CurrentMS:   float64(cur.DurationMS),
			ChangePct:   pct,
		})
		return
	}
	if base.Status == types.StatusFailed && cur.Status == types.StatusPassed {
		r.Improvements = append(r.Improvements, ImprovementItem{
			Kind:        "scenario",
			Name:        cur.Name,
			Description: "scenario went from failed to passed",
			BaselineMS:  float64(base.DurationMS),
			CurrentMS:   float64(cur.DurationMS),
			ChangePct:   pct,
		})
		return
	}
	if pct > regressionPct {
		r.Regressions = append(r.Regressions, RegressionItem{
			Kind:        "scenario",
			Name:        cur.Name,
			Severity:    durationSeverity(pct),
			Description: fmt.Sprintf("scenario slowed down by %.1f%%", pct),
			BaselineMS:  float64(base.DurationMS),
			CurrentMS:   float64(cur.DurationMS),
			ChangePct:   pct,
		})
		return
	}
	// Any speedup counts as an improvement; there is no floor at scenario
	// granularity.
	if cur.DurationMS < base.DurationMS {
		r.Improvements = append(r.Improvements, ImprovementItem{
			Kind:        "scenario",
			Name:        cur.Name,
			Description: fmt.Sprintf("scenario sped up by %.1f%%", -pct),
			BaselineMS:  float64(base.DurationMS),
			CurrentMS:   float64(cur.DurationMS),
			ChangePct:   pct,
		})
	}
}

func durationSeverity(pct float64) Severity {
	if pct > highSeverityPct {
		return SeverityHigh
	}
	return SeverityMedium
}

// compareSteps aggregates steps by exact text across all scenarios of each
// run and diffs the per-text mean durations. Changes within the 5% noise
// floor are dropped; changes past 10% also become regression or improvement
// items.
func (r *ComparisonResult) compareSteps(baseline, current *types.ExecutionResult) {
	baseMeans := stepMeans(baseline)
	curMeans := stepMeans(current)

	texts := make([]string, 0, len(curMeans))
	for text := range curMeans {
		if _, ok := baseMeans[text]; ok {
			texts = append(texts, text)
		}
	}
	sort.Strings(texts)

	for _, text := range texts {
		base, cur := baseMeans[text], curMeans[text]
		pct := percentChange(base, cur)
		if pct >= -stepReportPct && pct <= stepReportPct {
			continue
		}
		r.StepChanges = append(r.StepChanges, StepPerformanceChange{
			Text:       text,
			BaselineMS: base,
			CurrentMS:  cur,
			ChangePct:  pct,
		})
		switch {
		case pct > regressionPct:
			r.Regressions = append(r.Regressions, RegressionItem{
				Kind:        "step",
				Name:        text,
				Severity:    durationSeverity(pct),
				Description: fmt.Sprintf("step mean duration grew by %.1f%%", pct),
				BaselineMS:  base,
				CurrentMS:   cur,
				ChangePct:   pct,
			})
		case pct < -regressionPct:
			r.Improvements = append(r.Improvements, ImprovementItem{
				Kind:        "step",
				Name:        text,
				Description: fmt.Sprintf("step mean duration shrank by %.1f%%", -pct),
				BaselineMS:  base,
				CurrentMS:   cur,
				ChangePct:   pct,
			})
		}
	}
}

func stepMeans(result *types.ExecutionResult) map[string]float64 {
	sums := make(map[string]int64)
	counts := make(map[string]int)
	for i := range result.Scenarios {
		for _, step := range result.Scenarios[i].Steps {
			sums[step.Text] += step.DurationMS
			counts[step.Text]++
		}
	}
	means := make(map[string]float64, len(sums))
	for text, sum := range sums {
		means[text] = float64(sum) / float64(counts[text])
	}
	return means
}
