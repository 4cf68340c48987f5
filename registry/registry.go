package registry

import (
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/log"
)

// PatternCompileError indicates a step pattern that is not valid regex.
// It can only occur while the catalog is being built, never at match time.
type PatternCompileError struct {
	Pattern string
	Err     error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("invalid step pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *PatternCompileError) Unwrap() error {
	return e.Err
}

// Match is the outcome of matching free step text against the registry.
// Params holds the participating capture groups in left-to-right order;
// groups on alternation branches that did not participate are omitted, so
// positions are only meaningful within a single match.
type Match struct {
	Identifier string
	Params     []string
}

// Entry is one (pattern, identifier) pair of the matcher table
type Entry struct {
	Identifier string
	Pattern    string

	re *regexp.Regexp
}

// DuplicatePattern reports a pattern string registered under more than one
// identifier. Only the first identifier is reachable through matching.
type DuplicatePattern struct {
	Pattern     string
	Identifiers []string
}

// Registry is an ordered table of compiled step patterns. Registration order
// is significant and immutable once the table is built: the first matching
// entry wins, which makes later duplicates unreachable.
type Registry struct {
	entries []Entry
	log     log.Logger
}

// New creates an empty registry
func New() *Registry {
	return &Registry{log: log.New("component", "step-registry")}
}

// Register compiles pattern and appends it to the matcher table. Patterns
// are anchored on both ends: a step matches only when the whole step text
// matches.
func (r *Registry) Register(pattern, identifier string) error {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return &PatternCompileError{Pattern: pattern, Err: err}
	}
	r.entries = append(r.entries, Entry{Identifier: identifier, Pattern: pattern, re: re})
	return nil
}

// MustRegister is Register for catalog-build time, where a bad pattern is a
// programming error
func (r *Registry) MustRegister(pattern, identifier string) {
	if err := r.Register(pattern, identifier); err != nil {
		panic(err)
	}
}

// Match scans entries in registration order and returns the first match.
// The boolean is false when no registered pattern matches the text.
func (r *Registry) Match(text string) (Match, bool) {
	for i := range r.entries {
		e := &r.entries[i]
		idx := e.re.FindStringSubmatchIndex(text)
		if idx == nil {
			continue
		}
		// Submatch index pairs start at 1; a -1 start marks a capture group
		// on a non-participating alternation branch, which is omitted rather
		// than reported as an empty string.
		var params []string
		for g := 1; g < e.re.NumSubexp()+1; g++ {
			lo, hi := idx[2*g], idx[2*g+1]
			if lo < 0 {
				continue
			}
			params = append(params, text[lo:hi])
		}
		return Match{Identifier: e.Identifier, Params: params}, true
	}
	return Match{}, false
}

// Len returns the number of registered patterns
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns a copy of the matcher table in registration order
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Validate detects exact-duplicate pattern strings registered under distinct
// identifiers. Duplicates are legal (first registered wins) but the later
// identifier is silently unreachable, so builders should surface these
// warnings at startup.
func (r *Registry) Validate() []DuplicatePattern {
	seen := make(map[string][]string)
	var order []string
	for i := range r.entries {
		e := &r.entries[i]
		if _, ok := seen[e.Pattern]; !ok {
			order = append(order, e.Pattern)
		}
		seen[e.Pattern] = append(seen[e.Pattern], e.Identifier)
	}

	var dups []DuplicatePattern
	for _, pattern := range order {
		ids := seen[pattern]
		distinct := distinctPreservingOrder(ids)
		if len(distinct) > 1 {
			dups = append(dups, DuplicatePattern{Pattern: pattern, Identifiers: distinct})
		}
	}
	if len(dups) > 0 {
		r.log.Warn("Registry contains duplicate patterns with unreachable identifiers", "count", len(dups))
	}
	return dups
}

func distinctPreservingOrder(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
