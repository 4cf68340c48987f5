package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/webspec/webspec/runner"
)

// RunDirectoryPrefix is prepended to the run ID when naming artifact
// directories.
const RunDirectoryPrefix = "run-"

// ArtifactWriter persists one directory per batch run under a base
// directory. Each run directory holds the batch report, a per-feature JSON
// result usable as a comparison baseline, and a copy of every failed
// feature's result for quick triage:
//
//	<base>/run-<id>/summary.txt
//	<base>/run-<id>/batch.json
//	<base>/run-<id>/features/<name>.json
//	<base>/run-<id>/failed/<name>.json
type ArtifactWriter struct {
	baseDir string
}

// NewArtifactWriter creates a writer rooted at baseDir. The directory is
// created lazily on the first save.
func NewArtifactWriter(baseDir string) *ArtifactWriter {
	return &ArtifactWriter{baseDir: baseDir}
}

// BaseDir returns the configured artifact root.
func (w *ArtifactWriter) BaseDir() string {
	return w.baseDir
}

// DirForRun returns the directory artifacts for runID are stored in.
func (w *ArtifactWriter) DirForRun(runID string) string {
	return filepath.Join(w.baseDir, RunDirectoryPrefix+runID)
}

// FeatureFileForRun returns the path of a feature's persisted result within
// a run directory. The name is derived from the feature file's base name.
func (w *ArtifactWriter) FeatureFileForRun(runID, featureFile string) string {
	return filepath.Join(w.DirForRun(runID), "features", featureBaseName(featureFile)+".json")
}

// Save writes all artifacts for one batch result.
func (w *ArtifactWriter) Save(result *runner.BatchResult) error {
	runDir := w.DirForRun(result.RunID)
	for _, dir := range []string{
		filepath.Join(runDir, "features"),
		filepath.Join(runDir, "failed"),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
		}
	}

	if err := w.writeJSON(filepath.Join(runDir, "batch.json"), result); err != nil {
		return err
	}
	summary := FormatBatchText(result, false)
	if err := os.WriteFile(filepath.Join(runDir, "summary.txt"), []byte(summary), 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	for i := range result.Features {
		fr := &result.Features[i]
		name := featureBaseName(fr.File) + ".json"
		if err := w.writeJSON(filepath.Join(runDir, "features", name), fr.Result); err != nil {
			return err
		}
		if fr.Result.Summary.FailedScenarios > 0 {
			if err := w.writeJSON(filepath.Join(runDir, "failed", name), fr.Result); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *ArtifactWriter) writeJSON(path string, v any) error {
	content, err := FormatJSON(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func featureBaseName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
