package monitor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspec/webspec/types"
)

func TestMetricValues(t *testing.T) {
	m := NewPerformanceMonitor()
	m.RecordScenario(1000, types.StatusPassed)
	m.RecordScenario(3000, types.StatusFailed)
	m.RecordStep(100)
	m.RecordStep(300)

	assert.InDelta(t, 2000.0, m.MetricValue(MetricAvgScenarioDuration), 0.001)
	assert.InDelta(t, 200.0, m.MetricValue(MetricAvgStepDuration), 0.001)
	assert.InDelta(t, 50.0, m.MetricValue(MetricFailureRate), 0.001)
	assert.Greater(t, m.MetricValue(MetricTotalElapsed), 0.0)
	assert.Greater(t, m.MetricValue(MetricScenariosPerSecond), 0.0)
}

func TestMetricValueEmptyMonitor(t *testing.T) {
	m := NewPerformanceMonitor()
	assert.Zero(t, m.MetricValue(MetricAvgScenarioDuration))
	assert.Zero(t, m.MetricValue(MetricFailureRate))
}

func TestCustomMetrics(t *testing.T) {
	m := NewPerformanceMonitor()
	assert.Zero(t, m.MetricValue("cache_hits"), "unknown metrics default to 0")
	m.SetMetric("cache_hits", 42)
	assert.Equal(t, 42.0, m.MetricValue("cache_hits"))
}

func TestRecordResult(t *testing.T) {
	result := types.NewExecutionResult(types.FeatureInfo{Name: "f"})
	sc := types.ScenarioResult{Name: "a", DurationMS: 500}
	sc.AddStep(types.StepResult{Text: "x", Status: types.StatusPassed, DurationMS: 500})
	result.AddScenario(sc)

	m := NewPerformanceMonitor()
	m.RecordResult(result)

	s := m.Summary()
	assert.Equal(t, 1, s.TotalScenarios)
	assert.Equal(t, 1, s.TotalSteps)
	assert.InDelta(t, 500.0, s.AvgScenarioDuration, 0.001)
}

func TestDefaultThresholdCrossing(t *testing.T) {
	// One 45s scenario: slow_scenario (>30s) fires as a warning; the 60s
	// critical rule must not.
	m := NewPerformanceMonitor()
	m.RecordScenario(45000, types.StatusPassed)

	alerts := m.EvaluateThresholds(DefaultConfig())
	require.Len(t, alerts, 1)
	assert.Equal(t, "slow_scenario", alerts[0].ThresholdName)
	assert.Equal(t, SeverityWarning, alerts[0].Severity)
	assert.InDelta(t, 45000.0, alerts[0].Value, 0.001)
	assert.Equal(t, 30000.0, alerts[0].ThresholdValue)
}

func TestDisabledConfigYieldsNoAlerts(t *testing.T) {
	m := NewPerformanceMonitor()
	m.RecordScenario(999999, types.StatusFailed)

	cfg := DefaultConfig()
	cfg.Enabled = false
	assert.Empty(t, m.EvaluateThresholds(cfg))
}

func TestOperators(t *testing.T) {
	tests := []struct {
		op     Operator
		value  float64
		target float64
		want   bool
	}{
		{OpGreater, 2, 1, true},
		{OpGreater, 1, 1, false},
		{OpLess, 1, 2, true},
		{OpLess, 2, 2, false},
		{OpEqual, 1.5, 1.5, true},
		{OpEqual, 1.5, 1.5000001, false},
		{OpNotEqual, 1.5, 2.5, true},
		{OpNotEqual, 1.5, 1.5, false},
		{Operator("~"), 1, 1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.apply(tt.value, tt.target), "%v %s %v", tt.value, tt.op, tt.target)
	}
}

func TestFailureRateAlert(t *testing.T) {
	m := NewPerformanceMonitor()
	for i := 0; i < 8; i++ {
		m.RecordScenario(10, types.StatusPassed)
	}
	m.RecordScenario(10, types.StatusFailed)
	m.RecordScenario(10, types.StatusFailed)

	alerts := m.EvaluateThresholds(DefaultConfig())
	require.Len(t, alerts, 1)
	assert.Equal(t, "high_failure_rate", alerts[0].ThresholdName)
	assert.InDelta(t, 20.0, alerts[0].Value, 0.001)
}

func TestLoadAlertConfigs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alerts.yaml")
	content := `configs:
  - name: ci
    enabled: true
    thresholds:
      - name: slow
        metric: avg_scenario_duration
        operator: ">"
        value: 5000
        severity: warning
        message: too slow for CI
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	configs, err := LoadAlertConfigs(path)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "ci", configs[0].Name)
	require.Len(t, configs[0].Thresholds, 1)
	assert.Equal(t, OpGreater, configs[0].Thresholds[0].Operator)
	assert.Equal(t, 5000.0, configs[0].Thresholds[0].Value)
}

func TestLoadAlertConfigsRejectsBadOperator(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alerts.yaml")
	content := `configs:
  - name: bad
    enabled: true
    thresholds:
      - name: rule
        metric: avg_step_duration
        operator: ">="
        value: 1
        severity: warning
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadAlertConfigs(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operator")
}

func TestNotifierDeliversPayloads(t *testing.T) {
	type received struct {
		path string
		body map[string]any
	}
	var got []received
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		require.NoError(t, json.Unmarshal(data, &body))
		got = append(got, received{path: r.URL.Path, body: body})
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	alerts := []PerformanceAlert{
		{Severity: SeverityWarning, ThresholdName: "slow_scenario", Metric: MetricAvgScenarioDuration, Value: 45000, ThresholdValue: 30000},
		{Severity: SeverityCritical, ThresholdName: "very_slow_scenario", Metric: MetricAvgScenarioDuration, Value: 70000, ThresholdValue: 60000},
	}
	configs := []WebhookConfig{
		{Name: "slack", URL: srv.URL + "/slack", Kind: WebhookSlack, Enabled: true},
		{Name: "generic", URL: srv.URL + "/generic", Kind: WebhookGeneric, Enabled: true, MinSeverity: SeverityCritical},
		{Name: "off", URL: srv.URL + "/off", Kind: WebhookGeneric, Enabled: false},
	}

	err := NewNotifier().Notify(context.Background(), configs, alerts)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "/slack", got[0].path)
	assert.Contains(t, got[0].body["text"], "2 performance alert(s)")

	assert.Equal(t, "/generic", got[1].path)
	delivered := got[1].body["alerts"].([]any)
	assert.Len(t, delivered, 1, "min severity filters out the warning")
}

func TestNotifierReportsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	configs := []WebhookConfig{{Name: "broken", URL: srv.URL, Kind: WebhookGeneric, Enabled: true}}
	alerts := []PerformanceAlert{{Severity: SeverityWarning, ThresholdName: "x"}}

	err := NewNotifier().Notify(context.Background(), configs, alerts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
