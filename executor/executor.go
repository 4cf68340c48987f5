package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/webspec/webspec/registry"
	"github.com/webspec/webspec/types"
)

// Error codes attached to failed step results.
const (
	CodeUnmatchedStep = "unmatched_step"
	CodeStepFailed    = "step_failed"
	CodeCancelled     = "cancelled"
)

// Executor runs parsed features step by step against a backend. Steps inside
// a scenario run sequentially; the first failure marks the scenario failed and
// every remaining step skipped.
type Executor struct {
	registry *registry.Registry
	catalog  *registry.Catalog
	backend  Backend
	log      log.Logger
}

// New creates an executor. A nil catalog disables unmatched-step suggestions.
func New(reg *registry.Registry, catalog *registry.Catalog, backend Backend) *Executor {
	return &Executor{
		registry: reg,
		catalog:  catalog,
		backend:  backend,
		log:      log.New("component", "executor"),
	}
}

// RunFeature executes every scenario of a feature and returns the finalized
// result. The returned error is reserved for infrastructure failures; test
// failures are reported through the result statuses.
func (e *Executor) RunFeature(ctx context.Context, feature *types.Feature) (*types.ExecutionResult, error) {
	e.log.Info("Running feature", "feature", feature.Name, "scenarios", len(feature.Scenarios))
	start := time.Now()

	result := types.NewExecutionResult(feature.Info())
	for i := range feature.Scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sr := e.runScenario(ctx, &feature.Scenarios[i])
		result.AddScenario(sr)
	}
	result.DurationMS = time.Since(start).Milliseconds()
	result.Finalize()

	e.log.Info("Feature finished",
		"feature", feature.Name,
		"status", result.Status,
		"passed", result.Summary.PassedScenarios,
		"failed", result.Summary.FailedScenarios,
		"duration_ms", result.DurationMS)
	return result, nil
}

func (e *Executor) runScenario(ctx context.Context, scenario *types.Scenario) types.ScenarioResult {
	e.log.Debug("Running scenario", "scenario", scenario.Name, "steps", len(scenario.Steps))
	start := time.Now()
	store := NewStore()

	sr := types.ScenarioResult{Name: scenario.Name, Status: types.StatusPending}
	failed := false
	for _, step := range scenario.Steps {
		if failed {
			sr.AddStep(types.StepResult{
				Text:    step.Text,
				Keyword: step.Keyword,
				Status:  types.StatusSkipped,
			})
			continue
		}
		sr.AddStep(e.runStep(ctx, step, store))
		if sr.Steps[len(sr.Steps)-1].Status == types.StatusFailed {
			failed = true
		}
	}
	// A scenario with no steps never goes through AddStep; derive here so
	// it lands on skipped instead of staying pending.
	sr.DeriveStatus()
	sr.DurationMS = time.Since(start).Milliseconds()
	return sr
}

func (e *Executor) runStep(ctx context.Context, step types.Step, store *Store) types.StepResult {
	res := types.StepResult{Text: step.Text, Keyword: step.Keyword}
	start := time.Now()

	m, ok := e.registry.Match(step.Text)
	if !ok {
		res.Status = types.StatusFailed
		res.Error = e.unmatchedError(step.Text)
		res.DurationMS = time.Since(start).Milliseconds()
		e.log.Warn("No step definition matches", "step", step.Text)
		return res
	}

	output, err := e.backend.Execute(ctx, m.Identifier, m.Params, store)
	res.DurationMS = time.Since(start).Milliseconds()
	res.Output = output
	if err != nil {
		res.Status = types.StatusFailed
		code := CodeStepFailed
		if ctx.Err() != nil {
			code = CodeCancelled
		}
		res.Error = types.NewErrorInfo(code, err.Error())
		e.log.Warn("Step failed", "step", step.Text, "identifier", m.Identifier, "error", err)
		return res
	}
	res.Status = types.StatusPassed
	return res
}

// unmatchedError builds the failure record for a step no pattern covers,
// including up to three catalog suggestions based on shared words.
func (e *Executor) unmatchedError(text string) *types.ErrorInfo {
	info := types.NewErrorInfo(CodeUnmatchedStep, fmt.Sprintf("no step definition matches %q", text))
	if e.catalog == nil {
		return info
	}
	seen := make(map[string]bool)
	for _, word := range significantWords(text) {
		for _, s := range e.catalog.Search(word) {
			if seen[s.Pattern] {
				continue
			}
			seen[s.Pattern] = true
			info = info.WithSuggestion(s.Pattern)
			if len(info.Suggestions) == 3 {
				return info
			}
		}
	}
	return info
}

func significantWords(text string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if len(w) >= 4 && !strings.HasPrefix(w, `"`) {
			out = append(out, w)
		}
	}
	return out
}
