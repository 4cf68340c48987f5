package types

import (
	"time"
)

// Status represents the possible states of a step, scenario or feature run
type Status string

const (
	StatusPending Status = "pending"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// ErrorInfo describes a step failure in a report-friendly shape
type ErrorInfo struct {
	Code        string   `json:"code" yaml:"code"`
	Message     string   `json:"message" yaml:"message"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// NewErrorInfo creates an ErrorInfo with the given code and message
func NewErrorInfo(code, message string) *ErrorInfo {
	return &ErrorInfo{Code: code, Message: message}
}

// WithSuggestion appends a remediation hint and returns the ErrorInfo for chaining
func (e *ErrorInfo) WithSuggestion(suggestion string) *ErrorInfo {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// StepResult captures the outcome of a single executed step.
// It is immutable once recorded; the executing caller sets the status directly.
type StepResult struct {
	Text       string     `json:"text" yaml:"text"`
	Keyword    string     `json:"keyword" yaml:"keyword"`
	Status     Status     `json:"status" yaml:"status"`
	DurationMS int64      `json:"duration_ms" yaml:"duration_ms"`
	Output     string     `json:"output,omitempty" yaml:"output,omitempty"`
	Error      *ErrorInfo `json:"error,omitempty" yaml:"error,omitempty"`
}

// Duration returns the step duration as a time.Duration
func (s *StepResult) Duration() time.Duration {
	return time.Duration(s.DurationMS) * time.Millisecond
}

// ScenarioResult is an ordered sequence of step results.
// Its status is derived from its steps, never set independently.
type ScenarioResult struct {
	Name       string       `json:"name" yaml:"name"`
	Status     Status       `json:"status" yaml:"status"`
	DurationMS int64        `json:"duration_ms" yaml:"duration_ms"`
	Steps      []StepResult `json:"steps" yaml:"steps"`
}

// NewScenarioResult creates a pending scenario result
func NewScenarioResult(name string) *ScenarioResult {
	return &ScenarioResult{Name: name, Status: StatusPending}
}

// AddStep records a step result and re-derives the scenario status
func (s *ScenarioResult) AddStep(step StepResult) {
	s.Steps = append(s.Steps, step)
	s.DeriveStatus()
}

// DeriveStatus computes the scenario status from its steps:
// failed if any step failed; else skipped if every step was skipped
// (a scenario with no steps counts as skipped); else passed if any
// step passed; otherwise the scenario stays pending.
func (s *ScenarioResult) DeriveStatus() {
	anyFailed := false
	anyPassed := false
	allSkipped := true
	for i := range s.Steps {
		switch s.Steps[i].Status {
		case StatusFailed:
			anyFailed = true
			allSkipped = false
		case StatusPassed:
			anyPassed = true
			allSkipped = false
		case StatusPending:
			allSkipped = false
		}
	}
	switch {
	case anyFailed:
		s.Status = StatusFailed
	case allSkipped:
		s.Status = StatusSkipped
	case anyPassed:
		s.Status = StatusPassed
	}
}

// Duration returns the scenario duration as a time.Duration
func (s *ScenarioResult) Duration() time.Duration {
	return time.Duration(s.DurationMS) * time.Millisecond
}

// FeatureInfo identifies the feature a result tree belongs to
type FeatureInfo struct {
	Name        string `json:"name" yaml:"name"`
	File        string `json:"file,omitempty" yaml:"file,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Summary is the rollup of scenario and step counts for one run.
// Invariant: TotalScenarios == Passed+Failed+Skipped scenarios, and the
// analogous identity holds at step level.
type Summary struct {
	TotalScenarios   int `json:"total_scenarios" yaml:"total_scenarios"`
	PassedScenarios  int `json:"passed_scenarios" yaml:"passed_scenarios"`
	FailedScenarios  int `json:"failed_scenarios" yaml:"failed_scenarios"`
	SkippedScenarios int `json:"skipped_scenarios" yaml:"skipped_scenarios"`
	TotalSteps       int `json:"total_steps" yaml:"total_steps"`
	PassedSteps      int `json:"passed_steps" yaml:"passed_steps"`
	FailedSteps      int `json:"failed_steps" yaml:"failed_steps"`
	SkippedSteps     int `json:"skipped_steps" yaml:"skipped_steps"`
}

// ExecutionResult is the complete result tree for one feature run.
// It is the on-disk interchange format consumed by the comparison engine,
// and is treated as read-only by every downstream component.
type ExecutionResult struct {
	Status     Status           `json:"status" yaml:"status"`
	Timestamp  string           `json:"timestamp" yaml:"timestamp"`
	DurationMS int64            `json:"duration_ms" yaml:"duration_ms"`
	Feature    FeatureInfo      `json:"feature" yaml:"feature"`
	Scenarios  []ScenarioResult `json:"scenarios" yaml:"scenarios"`
	Summary    Summary          `json:"summary" yaml:"summary"`
}

// NewExecutionResult creates a pending result for the given feature
func NewExecutionResult(feature FeatureInfo) *ExecutionResult {
	return &ExecutionResult{
		Status:    StatusPending,
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Feature:   feature,
	}
}

// AddScenario appends a scenario result and refreshes the summary and status
func (r *ExecutionResult) AddScenario(scenario ScenarioResult) {
	r.Scenarios = append(r.Scenarios, scenario)
	r.Finalize()
}

// Finalize recomputes the summary rollup and derives the overall status.
// The summary is the single source of truth for counts; it is always
// recomputed by folding every scenario's steps once, never tracked
// incrementally.
func (r *ExecutionResult) Finalize() {
	var s Summary
	for i := range r.Scenarios {
		sc := &r.Scenarios[i]
		s.TotalScenarios++
		switch sc.Status {
		case StatusPassed:
			s.PassedScenarios++
		case StatusFailed:
			s.FailedScenarios++
		case StatusSkipped:
			s.SkippedScenarios++
		}
		for j := range sc.Steps {
			s.TotalSteps++
			switch sc.Steps[j].Status {
			case StatusPassed:
				s.PassedSteps++
			case StatusFailed:
				s.FailedSteps++
			case StatusSkipped:
				s.SkippedSteps++
			}
		}
	}
	r.Summary = s

	switch {
	case s.FailedSteps > 0:
		r.Status = StatusFailed
	case s.PassedSteps > 0:
		r.Status = StatusPassed
	default:
		r.Status = StatusSkipped
	}
}

// Duration returns the run duration as a time.Duration
func (r *ExecutionResult) Duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}
