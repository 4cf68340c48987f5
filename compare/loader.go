package compare

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/webspec/webspec/types"
)

// ReportParseError marks a baseline or current report file that could not be
// read or decoded. It is fatal to the comparison invocation only.
type ReportParseError struct {
	Path string
	Err  error
}

func (e *ReportParseError) Error() string {
	return fmt.Sprintf("failed to parse execution report %s: %v", e.Path, e.Err)
}

func (e *ReportParseError) Unwrap() error {
	return e.Err
}

// LoadResult reads an execution report from disk. The format is chosen by
// extension: .yaml and .yml decode as YAML, everything else as JSON.
func LoadResult(path string) (*types.ExecutionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReportParseError{Path: path, Err: err}
	}

	var result types.ExecutionResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &result)
	default:
		err = json.Unmarshal(data, &result)
	}
	if err != nil {
		return nil, &ReportParseError{Path: path, Err: err}
	}
	return &result, nil
}

// CompareFiles loads two report files and diffs them.
func CompareFiles(baselinePath, currentPath string) (*ComparisonResult, error) {
	baseline, err := LoadResult(baselinePath)
	if err != nil {
		return nil, err
	}
	current, err := LoadResult(currentPath)
	if err != nil {
		return nil, err
	}
	return Compare(baseline, current), nil
}
