package monitor

import (
	"sync"
	"time"

	"github.com/webspec/webspec/types"
)

// Built-in metric names understood by MetricValue.
const (
	MetricAvgScenarioDuration = "avg_scenario_duration"
	MetricAvgStepDuration     = "avg_step_duration"
	MetricFailureRate         = "failure_rate"
	MetricTotalElapsed        = "total_elapsed"
	MetricScenariosPerSecond  = "scenarios_per_second"
	MetricStepsPerSecond      = "steps_per_second"
)

// PerformanceMonitor accumulates duration and failure statistics for the
// lifetime of one execution session. It is the only mutable entity in the
// analysis layer and is discarded when the session ends. Recording is safe
// for concurrent use so parallel batch workers can share one monitor.
type PerformanceMonitor struct {
	mu sync.Mutex

	start             time.Time
	scenarioDurations []int64
	stepDurations     []int64
	passedScenarios   int
	failedScenarios   int
	skippedScenarios  int
	custom            map[string]float64
}

func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		start:  time.Now(),
		custom: make(map[string]float64),
	}
}

// RecordScenario adds one scenario observation.
func (m *PerformanceMonitor) RecordScenario(durationMS int64, status types.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarioDurations = append(m.scenarioDurations, durationMS)
	switch status {
	case types.StatusPassed:
		m.passedScenarios++
	case types.StatusFailed:
		m.failedScenarios++
	case types.StatusSkipped:
		m.skippedScenarios++
	}
}

// RecordStep adds one step observation.
func (m *PerformanceMonitor) RecordStep(durationMS int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stepDurations = append(m.stepDurations, durationMS)
}

// RecordResult folds a completed execution result into the monitor.
func (m *PerformanceMonitor) RecordResult(result *types.ExecutionResult) {
	for i := range result.Scenarios {
		sc := &result.Scenarios[i]
		m.RecordScenario(sc.DurationMS, sc.Status)
		for _, step := range sc.Steps {
			m.RecordStep(step.DurationMS)
		}
	}
}

// SetMetric stores a custom named metric value.
func (m *PerformanceMonitor) SetMetric(key string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.custom[key] = value
}

// MetricValue computes the named metric on demand. Built-in duration metrics
// are in milliseconds, rates in percent, elapsed in seconds. An unknown name
// is looked up in the custom map and defaults to 0.
func (m *PerformanceMonitor) MetricValue(metric string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch metric {
	case MetricAvgScenarioDuration:
		return mean(m.scenarioDurations)
	case MetricAvgStepDuration:
		return mean(m.stepDurations)
	case MetricFailureRate:
		total := m.passedScenarios + m.failedScenarios + m.skippedScenarios
		if total == 0 {
			return 0
		}
		return float64(m.failedScenarios) / float64(total) * 100
	case MetricTotalElapsed:
		return time.Since(m.start).Seconds()
	case MetricScenariosPerSecond:
		return perSecond(len(m.scenarioDurations), time.Since(m.start))
	case MetricStepsPerSecond:
		return perSecond(len(m.stepDurations), time.Since(m.start))
	}
	return m.custom[metric]
}

// Summary is a point-in-time snapshot of the monitor's counters.
type Summary struct {
	TotalScenarios      int     `json:"total_scenarios" yaml:"total_scenarios"`
	FailedScenarios     int     `json:"failed_scenarios" yaml:"failed_scenarios"`
	TotalSteps          int     `json:"total_steps" yaml:"total_steps"`
	AvgScenarioDuration float64 `json:"avg_scenario_duration_ms" yaml:"avg_scenario_duration_ms"`
	AvgStepDuration     float64 `json:"avg_step_duration_ms" yaml:"avg_step_duration_ms"`
	FailureRate         float64 `json:"failure_rate_pct" yaml:"failure_rate_pct"`
	ElapsedSeconds      float64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
}

func (m *PerformanceMonitor) Summary() Summary {
	m.mu.Lock()
	total := m.passedScenarios + m.failedScenarios + m.skippedScenarios
	s := Summary{
		TotalScenarios:      total,
		FailedScenarios:     m.failedScenarios,
		TotalSteps:          len(m.stepDurations),
		AvgScenarioDuration: mean(m.scenarioDurations),
		AvgStepDuration:     mean(m.stepDurations),
		ElapsedSeconds:      time.Since(m.start).Seconds(),
	}
	if total > 0 {
		s.FailureRate = float64(m.failedScenarios) / float64(total) * 100
	}
	m.mu.Unlock()
	return s
}

func mean(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func perSecond(count int, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(count) / secs
}
