package gherkin

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/webspec/webspec/types"
)

// ParseError reports a malformed feature file with its location.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

var stepKeywords = []string{"Given", "When", "Then", "And", "But"}

// ParseFile reads and parses one feature file.
func ParseFile(path string) (*types.Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feature file: %w", err)
	}
	defer f.Close()

	feature, err := Parse(f)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.File = path
		}
		return nil, err
	}
	feature.File = filepath.ToSlash(path)
	return feature, nil
}

// Parse reads Gherkin text. Supported syntax: one Feature block, an optional
// free-text description, an optional Background whose steps are prepended to
// every scenario, Scenario blocks, comments and tags. Tags are skipped;
// Scenario Outline is not supported and is rejected explicitly.
func Parse(r io.Reader) (*types.Feature, error) {
	feature := &types.Feature{}
	var background []types.Step
	var current *types.Scenario
	var descLines []string

	const (
		inPreamble = iota
		inFeature
		inBackground
		inScenario
	)
	section := inPreamble

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "@"):
			continue

		case strings.HasPrefix(line, "Feature:"):
			if section != inPreamble {
				return nil, &ParseError{Line: lineNo, Message: "multiple Feature blocks in one file"}
			}
			feature.Name = strings.TrimSpace(strings.TrimPrefix(line, "Feature:"))
			section = inFeature

		case strings.HasPrefix(line, "Background:"):
			if section != inFeature {
				return nil, &ParseError{Line: lineNo, Message: "Background must follow the Feature line, before any Scenario"}
			}
			section = inBackground

		case strings.HasPrefix(line, "Scenario Outline:"):
			return nil, &ParseError{Line: lineNo, Message: "Scenario Outline is not supported"}

		case strings.HasPrefix(line, "Scenario:"):
			if section == inPreamble {
				return nil, &ParseError{Line: lineNo, Message: "Scenario before Feature line"}
			}
			if current != nil {
				feature.Scenarios = append(feature.Scenarios, *current)
			}
			current = &types.Scenario{
				Name:  strings.TrimSpace(strings.TrimPrefix(line, "Scenario:")),
				Steps: append([]types.Step(nil), background...),
			}
			section = inScenario

		default:
			keyword, text, ok := splitStep(line)
			if !ok {
				if section == inFeature {
					// Free text between the Feature line and the first block
					// is the feature description.
					descLines = append(descLines, line)
					continue
				}
				return nil, &ParseError{Line: lineNo, Message: fmt.Sprintf("unrecognized line %q", line)}
			}
			switch section {
			case inBackground:
				background = append(background, types.Step{Keyword: keyword, Text: text})
			case inScenario:
				current.Steps = append(current.Steps, types.Step{Keyword: keyword, Text: text})
			default:
				return nil, &ParseError{Line: lineNo, Message: "step outside of a Scenario or Background"}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feature file: %w", err)
	}

	if section == inPreamble {
		return nil, &ParseError{Line: lineNo, Message: "no Feature block found"}
	}
	if current != nil {
		feature.Scenarios = append(feature.Scenarios, *current)
	}
	feature.Description = strings.Join(descLines, "\n")
	return feature, nil
}

// splitStep separates a step line into its keyword and text.
func splitStep(line string) (keyword, text string, ok bool) {
	for _, kw := range stepKeywords {
		if strings.HasPrefix(line, kw+" ") {
			return kw, strings.TrimSpace(line[len(kw)+1:]), true
		}
	}
	return "", "", false
}
