package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspec/webspec/compare"
	"github.com/webspec/webspec/runner"
	"github.com/webspec/webspec/types"
)

func sampleResult() *types.ExecutionResult {
	r := types.NewExecutionResult(types.FeatureInfo{Name: "Login", File: "login.feature"})

	ok := types.ScenarioResult{Name: "valid credentials", DurationMS: 1200}
	ok.AddStep(types.StepResult{Keyword: "Given", Text: `I navigate to "https://example.com"`, Status: types.StatusPassed, DurationMS: 800})
	ok.AddStep(types.StepResult{Keyword: "Then", Text: `I should see "#dashboard"`, Status: types.StatusPassed, DurationMS: 400})
	r.AddScenario(ok)

	bad := types.ScenarioResult{Name: "wrong password", DurationMS: 600}
	bad.AddStep(types.StepResult{Keyword: "When", Text: `I click the "Sign in" button`, Status: types.StatusFailed, DurationMS: 600,
		Error: types.NewErrorInfo("step_failed", "element not found")})
	bad.AddStep(types.StepResult{Keyword: "Then", Text: `I should see "#dashboard"`, Status: types.StatusSkipped})
	r.AddScenario(bad)

	r.DurationMS = 1800
	return r
}

func TestFormatResultText(t *testing.T) {
	out := FormatResultText(sampleResult(), false)

	assert.Contains(t, out, "Feature: Login (FAIL)")
	assert.Contains(t, out, "valid credentials [PASS]")
	assert.Contains(t, out, "wrong password [FAIL]")
	assert.Contains(t, out, "error: element not found")
	assert.Contains(t, out, "Scenarios")
	assert.Contains(t, out, "Steps")
}

func TestFormatBatchText(t *testing.T) {
	batch := &runner.BatchResult{
		RunID: "run-1",
		Features: []runner.FeatureResult{
			{File: "a.feature", Result: sampleResult()},
		},
		Errors: []runner.BatchError{
			{File: "bad.feature", Message: "no Feature block found"},
		},
	}
	batch.Summary = runner.BatchSummary{
		TotalFeatures: 2, FailedFeatures: 2, ErroredFeatures: 1,
		TotalScenarios: 2, FailedScenarios: 1,
	}

	out := FormatBatchText(batch, false)
	assert.Contains(t, out, "a.feature")
	assert.Contains(t, out, "bad.feature")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "no Feature block found")
	assert.Contains(t, out, "2 features")
}

func TestFormatJSONRoundTrip(t *testing.T) {
	out, err := FormatJSON(sampleResult())
	require.NoError(t, err)

	var decoded types.ExecutionResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, types.StatusFailed, decoded.Status)
	assert.Equal(t, 2, decoded.Summary.TotalScenarios)
	assert.Contains(t, out, `"duration_ms"`)
}

func TestFormatYAML(t *testing.T) {
	out, err := FormatYAML(sampleResult())
	require.NoError(t, err)
	assert.Contains(t, out, "status: failed")
	assert.Contains(t, out, "duration_ms:")
}

func TestFormatHTML(t *testing.T) {
	out, err := FormatHTML(sampleResult())
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Login</h1>")
	assert.Contains(t, out, "wrong password")
	assert.Contains(t, out, "element not found")
	assert.Contains(t, out, `class="failed"`)
}

func TestFormatComparisonText(t *testing.T) {
	baseline := sampleResult()
	current := sampleResult()
	current.Scenarios[0].DurationMS = 2400 // +100% on "valid credentials"
	cmp := compare.Compare(baseline, current)

	out := FormatComparisonText(cmp, false)
	assert.Contains(t, out, "Comparison: REGRESSION")
	assert.Contains(t, out, "Regressions")
	assert.Contains(t, out, "valid credentials")
	assert.Contains(t, out, "high")
}

func TestWriters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "report.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	require.NoError(t, NewFileWriter(path).Write("hello\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestFormatTAP(t *testing.T) {
	out := FormatTAP(sampleResult())
	lines := strings.Split(strings.TrimSpace(out), "\n")

	assert.Equal(t, "TAP version 13", lines[0])
	assert.Equal(t, "1..2", lines[1])
	assert.Equal(t, "ok 1 valid credentials", lines[2])
	assert.Equal(t, "not ok 2 wrong password", lines[3])
	assert.Contains(t, out, `step: When I click the "Sign in" button`)
	assert.Contains(t, out, "message: element not found")
}

func TestParseTAP(t *testing.T) {
	out := FormatTAP(sampleResult())
	summary, err := ParseTAP(out)
	require.NoError(t, err)
	assert.Equal(t, 13, summary.Version)
	assert.Equal(t, 2, summary.Planned)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, summary.Complete())
}

func TestParseTAPForeignInput(t *testing.T) {
	input := "TAP version 13\n1..3\nok 1 first\nok 2 second # SKIP not supported\nnot ok 3 third\n"
	summary, err := ParseTAP(input)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, summary.Complete())

	// ANSI color codes must not confuse the parser.
	colored := "TAP version 13\n1..1\n\x1b[32mok 1 green\x1b[0m\n"
	summary, err = ParseTAP(colored)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Passed)

	_, err = ParseTAP("no plan here\n")
	require.Error(t, err)
}
