package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspec/webspec/registry"
	"github.com/webspec/webspec/types"
)

func testFeature() *types.Feature {
	return &types.Feature{
		Name: "Search",
		File: "search.feature",
		Scenarios: []types.Scenario{
			{
				Name: "simple search",
				Steps: []types.Step{
					{Keyword: "Given", Text: `I navigate to "https://example.com"`},
					{Keyword: "When", Text: `I type "golang" into "input[name=q]"`},
					{Keyword: "Then", Text: `I should see "#results"`},
				},
			},
		},
	}
}

func TestRunFeaturePasses(t *testing.T) {
	backend := &RecordingBackend{}
	ex := New(registry.Default(), registry.DefaultCatalog(), backend)

	result, err := ex.RunFeature(context.Background(), testFeature())
	require.NoError(t, err)

	assert.Equal(t, types.StatusPassed, result.Status)
	assert.Equal(t, 1, result.Summary.TotalScenarios)
	assert.Equal(t, 1, result.Summary.PassedScenarios)
	assert.Equal(t, 3, result.Summary.PassedSteps)
	assert.Equal(t, 0, result.Summary.FailedSteps)

	calls := backend.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "navigate_to", calls[0].Identifier)
	assert.Equal(t, []string{"https://example.com"}, calls[0].Params)
	assert.Equal(t, "type_text", calls[1].Identifier)
}

func TestRunFeatureFailFast(t *testing.T) {
	backend := &RecordingBackend{
		Fail: map[string]error{"type_text": errors.New("element not found")},
	}
	ex := New(registry.Default(), registry.DefaultCatalog(), backend)

	result, err := ex.RunFeature(context.Background(), testFeature())
	require.NoError(t, err)

	assert.Equal(t, types.StatusFailed, result.Status)
	sc := result.Scenarios[0]
	assert.Equal(t, types.StatusFailed, sc.Status)

	require.Len(t, sc.Steps, 3)
	assert.Equal(t, types.StatusPassed, sc.Steps[0].Status)
	assert.Equal(t, types.StatusFailed, sc.Steps[1].Status)
	assert.Equal(t, types.StatusSkipped, sc.Steps[2].Status, "steps after a failure are skipped, not run")

	require.NotNil(t, sc.Steps[1].Error)
	assert.Equal(t, CodeStepFailed, sc.Steps[1].Error.Code)
	assert.Equal(t, "element not found", sc.Steps[1].Error.Message)

	// The backend never saw the step after the failure.
	require.Len(t, backend.Calls(), 2)

	assert.Equal(t, 1, result.Summary.PassedSteps)
	assert.Equal(t, 1, result.Summary.FailedSteps)
	assert.Equal(t, 1, result.Summary.SkippedSteps)
}

func TestRunFeatureUnmatchedStep(t *testing.T) {
	backend := &RecordingBackend{}
	ex := New(registry.Default(), registry.DefaultCatalog(), backend)

	feature := &types.Feature{
		Name: "Broken",
		Scenarios: []types.Scenario{{
			Name: "typo",
			Steps: []types.Step{
				{Keyword: "When", Text: `I navigate towards "https://example.com"`},
			},
		}},
	}

	result, err := ex.RunFeature(context.Background(), feature)
	require.NoError(t, err)

	step := result.Scenarios[0].Steps[0]
	assert.Equal(t, types.StatusFailed, step.Status)
	require.NotNil(t, step.Error)
	assert.Equal(t, CodeUnmatchedStep, step.Error.Code)
	assert.NotEmpty(t, step.Error.Suggestions, "unmatched steps should suggest close patterns")
	assert.Empty(t, backend.Calls(), "unmatched steps never reach the backend")
}

func TestRunFeatureScenarioIsolation(t *testing.T) {
	// Each scenario gets a fresh store: the second scenario must not see the
	// value the first one stored.
	var seenInSecond bool
	backend := BackendFunc(func(_ context.Context, identifier string, params []string, store *Store) (string, error) {
		switch identifier {
		case "store_value":
			store.SetValue(params[1], params[0])
		case "should_see":
			_, seenInSecond = store.Value("token")
		}
		return "", nil
	})
	ex := New(registry.Default(), nil, backend)

	feature := &types.Feature{
		Name: "Isolation",
		Scenarios: []types.Scenario{
			{Name: "first", Steps: []types.Step{{Keyword: "Given", Text: `I store "abc" as "token"`}}},
			{Name: "second", Steps: []types.Step{{Keyword: "Then", Text: `I should see "#x"`}}},
		},
	}

	result, err := ex.RunFeature(context.Background(), feature)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPassed, result.Status)
	assert.False(t, seenInSecond, "store must not leak across scenarios")
}

func TestRunFeatureEmptyScenarioIsSkipped(t *testing.T) {
	feature := &types.Feature{
		Name: "Sparse",
		File: "sparse.feature",
		Scenarios: []types.Scenario{
			{Name: "no steps yet"},
			{
				Name: "real work",
				Steps: []types.Step{
					{Keyword: "Given", Text: `I navigate to "https://example.com"`},
				},
			},
		},
	}

	ex := New(registry.Default(), registry.DefaultCatalog(), &RecordingBackend{})
	result, err := ex.RunFeature(context.Background(), feature)
	require.NoError(t, err)

	assert.Equal(t, types.StatusSkipped, result.Scenarios[0].Status)
	assert.Equal(t, types.StatusPassed, result.Scenarios[1].Status)

	s := result.Summary
	assert.Equal(t, 1, s.SkippedScenarios)
	assert.Equal(t, 1, s.PassedScenarios)
	assert.Equal(t, s.TotalScenarios, s.PassedScenarios+s.FailedScenarios+s.SkippedScenarios)
}

func TestRunFeatureCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := New(registry.Default(), nil, &NopBackend{SkipWaits: true})
	_, err := ex.RunFeature(ctx, testFeature())
	require.ErrorIs(t, err, context.Canceled)
}

func TestStore(t *testing.T) {
	s := NewStore()

	s.SetValue("url", "https://example.com")
	v, ok := s.Value("url")
	require.True(t, ok)
	assert.Equal(t, "https://example.com", v)

	_, ok = s.Value("missing")
	assert.False(t, ok)

	s.SetList("titles", []string{"a", "b"})
	s.AppendList("titles", "c")
	l, ok := s.List("titles")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, l)

	// The returned slice is a copy.
	l[0] = "mutated"
	l2, _ := s.List("titles")
	assert.Equal(t, "a", l2[0])

	values, lists := s.Len()
	assert.Equal(t, 1, values)
	assert.Equal(t, 1, lists)
}

func TestNopBackendSkipsWaits(t *testing.T) {
	b := &NopBackend{SkipWaits: true}
	out, err := b.Execute(context.Background(), "wait_seconds", []string{"3600"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "waited 3600 seconds", out)
}
