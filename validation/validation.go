package validation

import (
	"fmt"
	"strings"

	"github.com/webspec/webspec/gherkin"
	"github.com/webspec/webspec/registry"
	"github.com/webspec/webspec/types"
)

// ValidationError marks a step no registered pattern covers. Line numbers are
// not tracked; scenario plus step text is enough to locate the problem.
type ValidationError struct {
	Scenario    string   `json:"scenario" yaml:"scenario"`
	Step        string   `json:"step" yaml:"step"`
	Message     string   `json:"message" yaml:"message"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// ValidationWarning flags a structural smell that does not block execution.
type ValidationWarning struct {
	Scenario string `json:"scenario,omitempty" yaml:"scenario,omitempty"`
	Message  string `json:"message" yaml:"message"`
}

// ValidationResult is the lint outcome for one feature file.
type ValidationResult struct {
	File     string              `json:"file,omitempty" yaml:"file,omitempty"`
	Feature  string              `json:"feature" yaml:"feature"`
	Valid    bool                `json:"valid" yaml:"valid"`
	Steps    int                 `json:"steps" yaml:"steps"`
	Errors   []ValidationError   `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Validator lints parsed features against the live matcher table, using the
// catalog for suggestions on unmatched steps.
type Validator struct {
	registry *registry.Registry
	catalog  *registry.Catalog
}

func New(reg *registry.Registry, catalog *registry.Catalog) *Validator {
	return &Validator{registry: reg, catalog: catalog}
}

// ValidateFile parses and lints one feature file. A parse failure is
// reported as a single error on the result, not as a Go error, so callers
// can lint many files and report them together.
func (v *Validator) ValidateFile(path string) ValidationResult {
	feature, err := gherkin.ParseFile(path)
	if err != nil {
		return ValidationResult{
			File:  path,
			Valid: false,
			Errors: []ValidationError{{
				Message: err.Error(),
			}},
		}
	}
	result := v.Validate(feature)
	result.File = path
	return result
}

// Validate lints an already parsed feature.
func (v *Validator) Validate(feature *types.Feature) ValidationResult {
	result := ValidationResult{Feature: feature.Name, Valid: true}

	if len(feature.Scenarios) == 0 {
		result.Warnings = append(result.Warnings, ValidationWarning{Message: "feature has no scenarios"})
	}

	seenNames := make(map[string]bool)
	for i := range feature.Scenarios {
		sc := &feature.Scenarios[i]
		if seenNames[sc.Name] {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Scenario: sc.Name,
				Message:  "duplicate scenario name; comparison matches scenarios by name",
			})
		}
		seenNames[sc.Name] = true

		if len(sc.Steps) == 0 {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Scenario: sc.Name,
				Message:  "scenario has no steps and will be reported as skipped",
			})
		}
		for _, step := range sc.Steps {
			result.Steps++
			if _, ok := v.registry.Match(step.Text); ok {
				continue
			}
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Scenario:    sc.Name,
				Step:        step.Text,
				Message:     fmt.Sprintf("no step definition matches %q", step.Text),
				Suggestions: v.suggest(step.Text),
			})
		}
	}
	return result
}

func (v *Validator) suggest(text string) []string {
	if v.catalog == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len(word) < 4 || strings.HasPrefix(word, `"`) {
			continue
		}
		for _, s := range v.catalog.Search(word) {
			if seen[s.Pattern] {
				continue
			}
			seen[s.Pattern] = true
			out = append(out, s.Pattern)
			if len(out) == 3 {
				return out
			}
		}
	}
	return out
}
