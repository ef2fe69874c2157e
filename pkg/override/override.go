package override

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/macropower/ktconf/pkg/rules"
)

// DefaultEditorConfigGlob is the section header used by
// [Set.WriteEditorConfig] when no glob is given.
const DefaultEditorConfigGlob = "*.{kt,kts}"

var empty = &Set{}

// Params are the user-facing inputs an override set is derived from.
type Params struct {
	DisabledRules     []string `json:"disabledRules,omitempty"`
	ExperimentalRules bool     `json:"experimentalRules,omitempty"`
}

// Set is an insertion-ordered mapping from property key to [rules.Entry].
// The zero Set holds no overrides.
type Set struct {
	entries *orderedmap.OrderedMap[string, rules.Entry]
}

// Assemble builds a [Set] from entries. Later entries replace earlier ones
// with the same key. An empty input yields [Empty].
func Assemble(entries []rules.Entry) *Set {
	if len(entries) == 0 {
		return empty
	}

	m := orderedmap.New[string, rules.Entry](len(entries))
	for _, e := range entries {
		m.Set(e.Key(), e)
	}

	return &Set{entries: m}
}

// FromParams assembles the disabled-rule entries followed by the
// experimental-rules entry described by p.
func FromParams(p Params) *Set {
	entries := rules.DisabledRuleEntries(p.DisabledRules)
	entries = append(entries, rules.ExperimentalEntries(p.ExperimentalRules)...)

	return Assemble(entries)
}

// Empty returns the "no overrides" sentinel. Every call returns the same
// pointer.
func Empty() *Set {
	return empty
}

// IsEmpty reports whether s holds no overrides. This is true for the [Empty]
// sentinel, for nil, and for a zero Set.
func (s *Set) IsEmpty() bool {
	return s == nil || s.entries == nil || s.entries.Len() == 0
}

// Len returns the number of distinct keys in the set.
func (s *Set) Len() int {
	if s.IsEmpty() {
		return 0
	}

	return s.entries.Len()
}

// Get returns the entry stored for key.
func (s *Set) Get(key string) (rules.Entry, bool) {
	if s.IsEmpty() {
		return rules.Entry{}, false
	}

	return s.entries.Get(key)
}

// Entries returns the entries in insertion order.
func (s *Set) Entries() []rules.Entry {
	if s.IsEmpty() {
		return nil
	}

	out := make([]rules.Entry, 0, s.entries.Len())
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}

	return out
}

// Map returns the key to value mapping of the set.
func (s *Set) Map() map[string]string {
	out := make(map[string]string, s.Len())
	for _, e := range s.Entries() {
		out[e.Key()] = e.Value
	}

	return out
}

// Equal reports whether both sets hold the same entries in the same order.
func (s *Set) Equal(other *Set) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return s.IsEmpty() == other.IsEmpty()
	}

	a, b := s.Entries(), other.Entries()
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// MarshalYAML renders the set as an ordered key: value mapping.
func (s *Set) MarshalYAML() (any, error) {
	ms := yaml.MapSlice{}
	for _, e := range s.Entries() {
		ms = append(ms, yaml.MapItem{Key: e.Key(), Value: e.Value})
	}

	return ms, nil
}

// YAML returns the set as an ordered YAML mapping. An empty set is "{}".
func (s *Set) YAML() ([]byte, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// MarshalJSON renders the set as an ordered JSON object.
func (s *Set) MarshalJSON() ([]byte, error) {
	flat := orderedmap.New[string, string](s.Len())
	for _, e := range s.Entries() {
		flat.Set(e.Key(), e.Value)
	}

	return flat.MarshalJSON() //nolint:wrapcheck // Return the original error.
}

// WriteEditorConfig writes the set as an editorconfig section for glob, so
// that it can be pasted into a project's own `.editorconfig`.
func (s *Set) WriteEditorConfig(w io.Writer, glob string) error {
	if s.IsEmpty() {
		return nil
	}

	if glob == "" {
		glob = DefaultEditorConfigGlob
	}

	var b strings.Builder

	fmt.Fprintf(&b, "[%s]\n", glob)
	for _, e := range s.Entries() {
		fmt.Fprintf(&b, "%s = %s\n", e.Key(), e.Value)
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write editorconfig section: %w", err)
	}

	return nil
}

func (s *Set) String() string {
	if s.IsEmpty() {
		return "<no overrides>"
	}

	parts := make([]string, 0, s.Len())
	for _, e := range s.Entries() {
		parts = append(parts, e.Key()+"="+e.Value)
	}

	return strings.Join(parts, ",")
}
