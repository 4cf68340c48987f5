package compare

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspec/webspec/types"
)

// buildResult assembles a finalized report from (name, status, durationMS)
// triples, one single-step scenario per triple.
func buildResult(scenarios ...scenarioSpec) *types.ExecutionResult {
	r := types.NewExecutionResult(types.FeatureInfo{Name: "f"})
	for _, s := range scenarios {
		sc := types.ScenarioResult{Name: s.name, DurationMS: s.durationMS}
		sc.AddStep(types.StepResult{Text: s.stepText(), Status: s.status, DurationMS: s.durationMS})
		sc.DurationMS = s.durationMS
		r.AddScenario(sc)
		r.DurationMS += s.durationMS
	}
	return r
}

type scenarioSpec struct {
	name       string
	status     types.Status
	durationMS int64
	step       string
}

func (s scenarioSpec) stepText() string {
	if s.step != "" {
		return s.step
	}
	return "step of " + s.name
}

func TestCompareIdentical(t *testing.T) {
	x := buildResult(
		scenarioSpec{name: "a", status: types.StatusPassed, durationMS: 1000},
		scenarioSpec{name: "b", status: types.StatusFailed, durationMS: 2000},
	)

	result := Compare(x, x)
	assert.Equal(t, StatusUnchanged, result.Status)
	assert.Empty(t, result.Regressions)
	assert.Empty(t, result.Improvements)
	assert.Empty(t, result.StepChanges)
	assert.Equal(t, MetricsDifference{}, result.Metrics)
	for _, c := range result.ScenarioChanges {
		assert.Equal(t, ChangeUnchanged, c.ChangeType)
	}
}

func TestComparePassedToFailedIsCritical(t *testing.T) {
	baseline := buildResult(scenarioSpec{name: "login", status: types.StatusPassed, durationMS: 1000})
	current := buildResult(scenarioSpec{name: "login", status: types.StatusFailed, durationMS: 1000})

	result := Compare(baseline, current)
	assert.Equal(t, StatusRegression, result.Status)
	require.Len(t, result.Regressions, 1)
	assert.Equal(t, SeverityCritical, result.Regressions[0].Severity)
	assert.Equal(t, "login", result.Regressions[0].Name)

	require.Len(t, result.ScenarioChanges, 1)
	assert.Equal(t, ChangeStatus, result.ScenarioChanges[0].ChangeType)
}

func TestCompareRegressionPrecedence(t *testing.T) {
	// One regression and one improvement: the overall status must still be
	// regression.
	baseline := buildResult(
		scenarioSpec{name: "slow", status: types.StatusPassed, durationMS: 1000},
		scenarioSpec{name: "fast", status: types.StatusPassed, durationMS: 1000},
	)
	current := buildResult(
		scenarioSpec{name: "slow", status: types.StatusPassed, durationMS: 2000},
		scenarioSpec{name: "fast", status: types.StatusPassed, durationMS: 500},
	)

	result := Compare(baseline, current)
	assert.Equal(t, StatusRegression, result.Status)
	assert.NotEmpty(t, result.Regressions)
	assert.NotEmpty(t, result.Improvements)
}

func TestCompareDurationSeverityBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		baselineMS int64
		currentMS  int64
		severity   Severity
		reported   bool
	}{
		{"exactly 51 percent is high", 1000, 1510, SeverityHigh, true},
		{"exactly 11 percent is medium", 1000, 1110, SeverityMedium, true},
		{"exactly 5 percent is below the floor", 1000, 1050, "", false},
		{"exactly 10 percent is below the floor", 1000, 1100, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseline := buildResult(scenarioSpec{name: "s", status: types.StatusPassed, durationMS: tt.baselineMS})
			current := buildResult(scenarioSpec{name: "s", status: types.StatusPassed, durationMS: tt.currentMS})

			result := Compare(baseline, current)
			var scenarioRegressions []RegressionItem
			for _, item := range result.Regressions {
				if item.Kind == "scenario" {
					scenarioRegressions = append(scenarioRegressions, item)
				}
			}
			if !tt.reported {
				assert.Empty(t, scenarioRegressions)
				return
			}
			require.Len(t, scenarioRegressions, 1)
			assert.Equal(t, tt.severity, scenarioRegressions[0].Severity)
		})
	}
}

func TestCompareAnySpeedupIsImprovement(t *testing.T) {
	baseline := buildResult(scenarioSpec{name: "s", status: types.StatusPassed, durationMS: 1000})
	current := buildResult(scenarioSpec{name: "s", status: types.StatusPassed, durationMS: 990})

	result := Compare(baseline, current)
	assert.Equal(t, StatusImprovement, result.Status)
	require.NotEmpty(t, result.Improvements)
	assert.Equal(t, "scenario", result.Improvements[0].Kind)
}

func TestCompareNewAndRemovedScenarios(t *testing.T) {
	baseline := buildResult(
		scenarioSpec{name: "kept", status: types.StatusPassed, durationMS: 100},
		scenarioSpec{name: "old", status: types.StatusPassed, durationMS: 100},
	)
	current := buildResult(
		scenarioSpec{name: "kept", status: types.StatusPassed, durationMS: 100},
		scenarioSpec{name: "brand new", status: types.StatusPassed, durationMS: 100},
	)

	result := Compare(baseline, current)
	byName := make(map[string]ScenarioChange)
	for _, c := range result.ScenarioChanges {
		byName[c.Name] = c
	}
	assert.Equal(t, ChangeUnchanged, byName["kept"].ChangeType)
	assert.Equal(t, ChangeNew, byName["brand new"].ChangeType)
	assert.Equal(t, ChangeRemoved, byName["old"].ChangeType)
}

func TestCompareStepAggregation(t *testing.T) {
	// The same step text in two scenarios: means are compared, not
	// individual samples.
	shared := `I navigate to "https://example.com"`
	baseline := buildResult(
		scenarioSpec{name: "a", status: types.StatusPassed, durationMS: 100, step: shared},
		scenarioSpec{name: "b", status: types.StatusPassed, durationMS: 300, step: shared},
	)
	// Mean goes from 200 to 250: +25%, reported and promoted to a medium
	// regression item.
	current := buildResult(
		scenarioSpec{name: "a", status: types.StatusPassed, durationMS: 200, step: shared},
		scenarioSpec{name: "b", status: types.StatusPassed, durationMS: 300, step: shared},
	)

	result := Compare(baseline, current)
	require.Len(t, result.StepChanges, 1)
	sc := result.StepChanges[0]
	assert.Equal(t, shared, sc.Text)
	assert.InDelta(t, 200.0, sc.BaselineMS, 0.01)
	assert.InDelta(t, 250.0, sc.CurrentMS, 0.01)
	assert.InDelta(t, 25.0, sc.ChangePct, 0.01)

	var stepRegressions []RegressionItem
	for _, item := range result.Regressions {
		if item.Kind == "step" {
			stepRegressions = append(stepRegressions, item)
		}
	}
	require.Len(t, stepRegressions, 1)
	assert.Equal(t, SeverityMedium, stepRegressions[0].Severity)
}

func TestCompareZeroBaselineDuration(t *testing.T) {
	baseline := buildResult(scenarioSpec{name: "s", status: types.StatusPassed, durationMS: 0})
	current := buildResult(scenarioSpec{name: "s", status: types.StatusPassed, durationMS: 500})

	result := Compare(baseline, current)
	assert.Zero(t, result.Metrics.DurationPct, "percentage is defined as 0 when baseline is 0")
	for _, c := range result.ScenarioChanges {
		assert.Zero(t, c.ChangePct)
	}
}

func TestLoadResult(t *testing.T) {
	dir := t.TempDir()
	report := buildResult(scenarioSpec{name: "s", status: types.StatusPassed, durationMS: 100})

	data, err := json.Marshal(report)
	require.NoError(t, err)
	jsonPath := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(jsonPath, data, 0644))

	loaded, err := LoadResult(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, report.Summary, loaded.Summary)

	yamlPath := filepath.Join(dir, "report.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("status: passed\nscenarios: []\n"), 0644))
	loaded, err = LoadResult(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPassed, loaded.Status)

	badPath := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{not json"), 0644))
	_, err = LoadResult(badPath)
	var perr *ReportParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, badPath, perr.Path)

	_, err = LoadResult(filepath.Join(dir, "missing.json"))
	require.ErrorAs(t, err, &perr)
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, r *types.ExecutionResult) string {
		data, err := json.Marshal(r)
		require.NoError(t, err)
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0644))
		return path
	}

	base := write("base.json", buildResult(scenarioSpec{name: "s", status: types.StatusPassed, durationMS: 100}))
	cur := write("cur.json", buildResult(scenarioSpec{name: "s", status: types.StatusFailed, durationMS: 100}))

	result, err := CompareFiles(base, cur)
	require.NoError(t, err)
	assert.Equal(t, StatusRegression, result.Status)

	_, err = CompareFiles(base, filepath.Join(dir, "absent.json"))
	require.Error(t, err)
}
