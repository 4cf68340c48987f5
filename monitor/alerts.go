package monitor

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Operator compares a computed metric value against a threshold target.
type Operator string

const (
	OpGreater  Operator = ">"
	OpLess     Operator = "<"
	OpEqual    Operator = "=="
	OpNotEqual Operator = "!="
)

// floatEqual compares with machine epsilon; exact float equality is never
// meaningful for computed means and rates.
func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < 2.220446049250313e-16
}

func (op Operator) apply(value, target float64) bool {
	switch op {
	case OpGreater:
		return value > target
	case OpLess:
		return value < target
	case OpEqual:
		return floatEqual(value, target)
	case OpNotEqual:
		return !floatEqual(value, target)
	}
	return false
}

// AlertThreshold is one named rule comparing a metric against a target.
type AlertThreshold struct {
	Name     string   `json:"name" yaml:"name"`
	Metric   string   `json:"metric" yaml:"metric"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    float64  `json:"value" yaml:"value"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// AlertConfig is a named, toggleable group of threshold rules.
type AlertConfig struct {
	Name       string           `json:"name" yaml:"name"`
	Enabled    bool             `json:"enabled" yaml:"enabled"`
	Thresholds []AlertThreshold `json:"thresholds" yaml:"thresholds"`
}

// PerformanceAlert is one satisfied threshold rule. Alerts are observational:
// they never change an execution outcome.
type PerformanceAlert struct {
	Timestamp      string   `json:"timestamp" yaml:"timestamp"`
	Severity       Severity `json:"severity" yaml:"severity"`
	ThresholdName  string   `json:"threshold_name" yaml:"threshold_name"`
	Metric         string   `json:"metric" yaml:"metric"`
	Value          float64  `json:"value" yaml:"value"`
	ThresholdValue float64  `json:"threshold_value" yaml:"threshold_value"`
	Message        string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// DefaultConfig is the ruleset applied when no explicit config is supplied.
func DefaultConfig() AlertConfig {
	return AlertConfig{
		Name:    "default",
		Enabled: true,
		Thresholds: []AlertThreshold{
			{Name: "slow_scenario", Metric: MetricAvgScenarioDuration, Operator: OpGreater, Value: 30000, Severity: SeverityWarning, Message: "average scenario duration exceeds 30s"},
			{Name: "very_slow_scenario", Metric: MetricAvgScenarioDuration, Operator: OpGreater, Value: 60000, Severity: SeverityCritical, Message: "average scenario duration exceeds 60s"},
			{Name: "slow_step", Metric: MetricAvgStepDuration, Operator: OpGreater, Value: 10000, Severity: SeverityWarning, Message: "average step duration exceeds 10s"},
			{Name: "high_failure_rate", Metric: MetricFailureRate, Operator: OpGreater, Value: 10, Severity: SeverityWarning, Message: "failure rate exceeds 10%"},
		},
	}
}

// EvaluateThresholds checks every rule of the config against the monitor's
// current metric values. A disabled config yields no alerts.
func (m *PerformanceMonitor) EvaluateThresholds(config AlertConfig) []PerformanceAlert {
	if !config.Enabled {
		return nil
	}
	logger := log.New("component", "alert-evaluator")
	now := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	var alerts []PerformanceAlert
	for _, th := range config.Thresholds {
		value := m.MetricValue(th.Metric)
		if !th.Operator.apply(value, th.Value) {
			continue
		}
		logger.Warn("Performance threshold crossed",
			"config", config.Name,
			"threshold", th.Name,
			"metric", th.Metric,
			"value", value,
			"target", th.Value,
			"severity", th.Severity)
		alerts = append(alerts, PerformanceAlert{
			Timestamp:      now,
			Severity:       th.Severity,
			ThresholdName:  th.Name,
			Metric:         th.Metric,
			Value:          value,
			ThresholdValue: th.Value,
			Message:        th.Message,
		})
	}
	return alerts
}

// LoadAlertConfigs reads a YAML document holding a list of alert configs.
func LoadAlertConfigs(path string) ([]AlertConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alert config: %w", err)
	}
	var doc struct {
		Configs []AlertConfig `yaml:"configs"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse alert config: %w", err)
	}
	for _, cfg := range doc.Configs {
		for _, th := range cfg.Thresholds {
			switch th.Operator {
			case OpGreater, OpLess, OpEqual, OpNotEqual:
			default:
				return nil, fmt.Errorf("alert config %q threshold %q: unknown operator %q", cfg.Name, th.Name, th.Operator)
			}
		}
	}
	return doc.Configs, nil
}
