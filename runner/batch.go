package runner

import (
	"runtime"
	"time"

	"github.com/webspec/webspec/types"
)

// BatchConfig controls how a set of feature files is executed.
type BatchConfig struct {
	// Parallel runs features concurrently on a worker pool. Scenarios within
	// a feature always run sequentially.
	Parallel bool
	// MaxWorkers caps the pool size. Zero means one worker per CPU.
	MaxWorkers int
	// Timeout bounds each individual feature run. Zero means no timeout.
	Timeout time.Duration
}

func (c BatchConfig) workers() int {
	if !c.Parallel {
		return 1
	}
	if c.MaxWorkers > 0 {
		return c.MaxWorkers
	}
	return runtime.NumCPU()
}

// FeatureResult pairs a feature file with its execution result.
type FeatureResult struct {
	File   string                 `json:"file" yaml:"file"`
	Result *types.ExecutionResult `json:"result" yaml:"result"`
}

// BatchError records a feature that could not be executed at all, typically
// because its file failed to parse. It is an infrastructure error, distinct
// from test failures, and never aborts the rest of the batch.
type BatchError struct {
	File    string `json:"file" yaml:"file"`
	Message string `json:"message" yaml:"message"`
}

// BatchSummary is the rollup across every feature of a batch.
type BatchSummary struct {
	TotalFeatures   int `json:"total_features" yaml:"total_features"`
	PassedFeatures  int `json:"passed_features" yaml:"passed_features"`
	FailedFeatures  int `json:"failed_features" yaml:"failed_features"`
	ErroredFeatures int `json:"errored_features" yaml:"errored_features"`
	TotalScenarios  int `json:"total_scenarios" yaml:"total_scenarios"`
	PassedScenarios int `json:"passed_scenarios" yaml:"passed_scenarios"`
	FailedScenarios int `json:"failed_scenarios" yaml:"failed_scenarios"`
}

// BatchResult is the complete outcome of one batch run. Features are ordered
// by file path, independent of completion order.
type BatchResult struct {
	RunID      string          `json:"run_id" yaml:"run_id"`
	Timestamp  string          `json:"timestamp" yaml:"timestamp"`
	DurationMS int64           `json:"duration_ms" yaml:"duration_ms"`
	Features   []FeatureResult `json:"features" yaml:"features"`
	Errors     []BatchError    `json:"errors,omitempty" yaml:"errors,omitempty"`
	Summary    BatchSummary    `json:"summary" yaml:"summary"`
}

// Passed reports whether every feature executed and passed.
func (r *BatchResult) Passed() bool {
	return r.Summary.FailedFeatures == 0
}

func (r *BatchResult) finalize() {
	var s BatchSummary
	s.TotalFeatures = len(r.Features) + len(r.Errors)
	// An errored feature is a failed feature; ErroredFeatures only breaks
	// out how many of the failures never produced a result tree.
	s.ErroredFeatures = len(r.Errors)
	s.FailedFeatures = len(r.Errors)
	for i := range r.Features {
		res := r.Features[i].Result
		if res.Status == types.StatusFailed {
			s.FailedFeatures++
		} else {
			s.PassedFeatures++
		}
		s.TotalScenarios += res.Summary.TotalScenarios
		s.PassedScenarios += res.Summary.PassedScenarios
		s.FailedScenarios += res.Summary.FailedScenarios
	}
	r.Summary = s
}
