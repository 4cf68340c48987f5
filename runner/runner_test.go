package runner

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspec/webspec/executor"
	"github.com/webspec/webspec/registry"
	"github.com/webspec/webspec/types"
)

func writeFeature(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const passingFeature = `Feature: ok
  Scenario: works
    Given I navigate to "https://example.com"
    Then I should see "#main"
`

const failingFeature = `Feature: broken assertion
  Scenario: fails
    Given I navigate to "https://example.com"
    Then I perform an unknown action nobody registered
`

func newTestRunner(cfg BatchConfig) *BatchRunner {
	ex := executor.New(registry.Default(), registry.DefaultCatalog(), &executor.NopBackend{SkipWaits: true})
	return NewBatchRunner(cfg, ex)
}

func TestDiscoverFeatures(t *testing.T) {
	dir := t.TempDir()
	writeFeature(t, dir, "b.feature", passingFeature)
	writeFeature(t, dir, "a.feature", passingFeature)
	writeFeature(t, dir, "nested/deep/c.feature", passingFeature)
	writeFeature(t, dir, "ignored.txt", "not a feature")

	files, err := DiscoverFeatures(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	// Lexicographic order, not filesystem order.
	assert.Equal(t, filepath.Join(dir, "a.feature"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.feature"), files[1])
	assert.Equal(t, filepath.Join(dir, "nested", "deep", "c.feature"), files[2])
}

func TestDiscoverFeaturesSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFeature(t, dir, "one.feature", passingFeature)

	files, err := DiscoverFeatures(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)

	_, err = DiscoverFeatures(filepath.Join(dir, "absent"))
	require.Error(t, err)

	other := writeFeature(t, dir, "notes.txt", "not gherkin")
	_, err = DiscoverFeatures(other)
	require.ErrorContains(t, err, "not a feature file")
}

func TestBatchRunMixedOutcomes(t *testing.T) {
	dir := t.TempDir()
	writeFeature(t, dir, "a_pass.feature", passingFeature)
	writeFeature(t, dir, "b_fail.feature", failingFeature)
	writeFeature(t, dir, "c_invalid.feature", "Scenario: no feature line\n")

	r := newTestRunner(BatchConfig{})
	result, err := r.Run(context.Background(), dir)
	require.NoError(t, err, "one bad feature must not abort the batch")

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 3, result.Summary.TotalFeatures)
	assert.Equal(t, 1, result.Summary.PassedFeatures)
	assert.Equal(t, 2, result.Summary.FailedFeatures, "the errored feature counts as failed")
	assert.Equal(t, 1, result.Summary.ErroredFeatures)
	assert.False(t, result.Passed())

	require.Len(t, result.Features, 2)
	assert.Contains(t, result.Features[0].File, "a_pass.feature")
	assert.Equal(t, types.StatusPassed, result.Features[0].Result.Status)
	assert.Contains(t, result.Features[1].File, "b_fail.feature")
	assert.Equal(t, types.StatusFailed, result.Features[1].Result.Status)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].File, "c_invalid.feature")
	assert.Contains(t, result.Errors[0].Message, "Scenario before Feature line")
}

func TestBatchRunErroredFeatureCountsAsFailed(t *testing.T) {
	dir := t.TempDir()
	writeFeature(t, dir, "a.feature", passingFeature)
	writeFeature(t, dir, "b.feature", "Scenario: no feature line\n")
	writeFeature(t, dir, "c.feature", passingFeature)

	r := newTestRunner(BatchConfig{})
	result, err := r.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Summary.TotalFeatures)
	assert.Equal(t, 2, result.Summary.PassedFeatures)
	assert.Equal(t, 1, result.Summary.FailedFeatures)
	assert.Equal(t, 1, result.Summary.ErroredFeatures)
	require.Len(t, result.Errors, 1)
	assert.False(t, result.Passed())
}

func TestBatchRunParallelDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	names := []string{"e.feature", "a.feature", "c.feature", "b.feature", "d.feature"}
	for _, n := range names {
		writeFeature(t, dir, n, passingFeature)
	}

	r := newTestRunner(BatchConfig{Parallel: true, MaxWorkers: 4})
	result, err := r.Run(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, result.Features, 5)
	for i := 1; i < len(result.Features); i++ {
		assert.Less(t, result.Features[i-1].File, result.Features[i].File,
			"features must be ordered by file path regardless of completion order")
	}
	assert.True(t, result.Passed())
	assert.Equal(t, 5, result.Summary.PassedFeatures)
}

func TestBatchRunEmpty(t *testing.T) {
	r := newTestRunner(BatchConfig{})
	result, err := r.Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.True(t, result.Passed())
	assert.Equal(t, 0, result.Summary.TotalFeatures)
}

func TestBatchRunProgress(t *testing.T) {
	dir := t.TempDir()
	writeFeature(t, dir, "a.feature", passingFeature)
	writeFeature(t, dir, "b.feature", passingFeature)

	var mu sync.Mutex
	var snapshots []Progress
	r := newTestRunner(BatchConfig{})
	r.OnProgress = func(p Progress) {
		mu.Lock()
		snapshots = append(snapshots, p)
		mu.Unlock()
	}

	_, err := r.Run(context.Background(), dir)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, snapshots, 2)
	last := snapshots[len(snapshots)-1]
	assert.Equal(t, 2, last.Total)
	assert.Equal(t, 2, last.Completed)
	assert.Equal(t, 0, last.Errored)
}

func TestBatchRunCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFeature(t, dir, "a.feature", passingFeature)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestRunner(BatchConfig{})
	_, err := r.Run(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBatchConfigWorkers(t *testing.T) {
	assert.Equal(t, 1, BatchConfig{}.workers(), "sequential runs use a single worker")
	assert.Equal(t, 3, BatchConfig{Parallel: true, MaxWorkers: 3}.workers())
	assert.GreaterOrEqual(t, BatchConfig{Parallel: true}.workers(), 1)
}
