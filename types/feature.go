package types

// Step is a single declarative action or assertion line of a scenario,
// already split into its Gherkin keyword and free text by the parser.
type Step struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Text    string `json:"text" yaml:"text"`
}

// Scenario is an ordered sequence of steps exercising one behavior
type Scenario struct {
	Name  string `json:"name" yaml:"name"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// Feature is the parsed form of one feature file. Producing it from Gherkin
// text is the parser's job; this engine consumes the parsed structure only.
type Feature struct {
	Name        string     `json:"name" yaml:"name"`
	File        string     `json:"file,omitempty" yaml:"file,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Scenarios   []Scenario `json:"scenarios" yaml:"scenarios"`
}

// Info returns the FeatureInfo header used in result trees
func (f *Feature) Info() FeatureInfo {
	return FeatureInfo{Name: f.Name, File: f.File, Description: f.Description}
}
