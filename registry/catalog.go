package registry

import (
	"encoding/json"
	"sort"
	"strings"
)

// ParameterInfo describes one capture of a step pattern.
type ParameterInfo struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// StepInfo is the documentation record for one step definition.
type StepInfo struct {
	ID          string          `json:"id" yaml:"id"`
	Pattern     string          `json:"pattern" yaml:"pattern"`
	Aliases     []string        `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Category    string          `json:"category" yaml:"category"`
	Description string          `json:"description" yaml:"description"`
	Parameters  []ParameterInfo `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Examples    []string        `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Catalog holds step documentation in definition order and indexes it by ID.
type Catalog struct {
	steps []StepInfo
	byID  map[string]int
}

func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[string]int)}
}

// Add appends a step record. A repeated ID overwrites the earlier record in
// place so the catalog stays one-record-per-identifier.
func (c *Catalog) Add(info StepInfo) {
	if i, ok := c.byID[info.ID]; ok {
		c.steps[i] = info
		return
	}
	c.byID[info.ID] = len(c.steps)
	c.steps = append(c.steps, info)
}

func (c *Catalog) Len() int {
	return len(c.steps)
}

// Steps returns all records in definition order.
func (c *Catalog) Steps() []StepInfo {
	out := make([]StepInfo, len(c.steps))
	copy(out, c.steps)
	return out
}

// FindByID returns the record for an identifier.
func (c *Catalog) FindByID(id string) (StepInfo, bool) {
	i, ok := c.byID[id]
	if !ok {
		return StepInfo{}, false
	}
	return c.steps[i], true
}

// ByCategory returns all records in the given category, in definition order.
// Category comparison is case-insensitive.
func (c *Catalog) ByCategory(category string) []StepInfo {
	var out []StepInfo
	for _, s := range c.steps {
		if strings.EqualFold(s.Category, category) {
			out = append(out, s)
		}
	}
	return out
}

// Categories returns the distinct category names, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range c.steps {
		if _, ok := seen[s.Category]; !ok {
			seen[s.Category] = struct{}{}
			out = append(out, s.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Search returns records whose ID, pattern, alias, description or category
// contains the query, case-insensitively. An empty query returns every record.
func (c *Catalog) Search(query string) []StepInfo {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.Steps()
	}
	var out []StepInfo
	for _, s := range c.steps {
		if stepMatchesQuery(s, q) {
			out = append(out, s)
		}
	}
	return out
}

func stepMatchesQuery(s StepInfo, q string) bool {
	if strings.Contains(strings.ToLower(s.ID), q) ||
		strings.Contains(strings.ToLower(s.Pattern), q) ||
		strings.Contains(strings.ToLower(s.Description), q) ||
		strings.Contains(strings.ToLower(s.Category), q) {
		return true
	}
	for _, a := range s.Aliases {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}
	return false
}

// SchemaExport is the machine-readable dump of the whole catalog.
type SchemaExport struct {
	Version    string     `json:"version" yaml:"version"`
	StepCount  int        `json:"step_count" yaml:"step_count"`
	Categories []string   `json:"categories" yaml:"categories"`
	Steps      []StepInfo `json:"steps" yaml:"steps"`
}

// Schema builds the export document for the catalog.
func (c *Catalog) Schema(version string) SchemaExport {
	return SchemaExport{
		Version:    version,
		StepCount:  len(c.steps),
		Categories: c.Categories(),
		Steps:      c.Steps(),
	}
}

// SchemaJSON renders the export document as indented JSON.
func (c *Catalog) SchemaJSON(version string) ([]byte, error) {
	return json.MarshalIndent(c.Schema(version), "", "  ")
}
