package rules

import "strings"

const (
	// ValueDisabled turns a rule (or rule set) off.
	ValueDisabled = "disabled"
	// ValueEnabled turns a rule (or rule set) on.
	ValueEnabled = "enabled"

	// ExperimentalProperty toggles all experimental rules at once.
	ExperimentalProperty = "ktlint_experimental"

	propertyPrefix         = "ktlint_"
	standardPropertyPrefix = "ktlint_standard_"
	namespaceSeparator     = ":"

	disabledRuleDescription = "Rule to be disabled"
	experimentalDescription = "Experimental rules"
)

// Property describes one editorconfig property understood by the rule engine.
type Property struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DefaultValue string `json:"defaultValue"`
}

// Entry is a property paired with the value it should be overridden to.
type Entry struct {
	Property Property `json:"property"`
	Value    string   `json:"value"`
}

// Key returns the property key of the entry.
func (e Entry) Key() string {
	return e.Property.Name
}

// PropertyName returns the editorconfig property key for a rule identifier.
//
//	PropertyName("indent")         // ktlint_standard_indent
//	PropertyName("custom:println") // ktlint_custom_println
func PropertyName(rule string) string {
	if strings.Contains(rule, namespaceSeparator) {
		return propertyPrefix + strings.ReplaceAll(rule, namespaceSeparator, "_")
	}

	return standardPropertyPrefix + rule
}

// DisabledRuleEntries returns one "disabled" entry per rule, in input order.
func DisabledRuleEntries(rules []string) []Entry {
	if len(rules) == 0 {
		return nil
	}

	entries := make([]Entry, 0, len(rules))
	for _, rule := range rules {
		entries = append(entries, Entry{
			Property: Property{
				Name:         PropertyName(rule),
				Description:  disabledRuleDescription,
				DefaultValue: ValueDisabled,
			},
			Value: ValueDisabled,
		})
	}

	return entries
}

// ExperimentalEntries returns the entry enabling experimental rules, or
// nothing when enabled is false.
func ExperimentalEntries(enabled bool) []Entry {
	if !enabled {
		return nil
	}

	return []Entry{{
		Property: Property{
			Name:         ExperimentalProperty,
			Description:  experimentalDescription,
			DefaultValue: ValueEnabled,
		},
		Value: ValueEnabled,
	}}
}

// Normalize trims surrounding whitespace from each rule identifier, drops
// empty ones and removes duplicates, keeping the first occurrence.
func Normalize(rules []string) []string {
	seen := make(map[string]struct{}, len(rules))
	out := make([]string, 0, len(rules))

	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		if _, ok := seen[rule]; ok {
			continue
		}

		seen[rule] = struct{}{}
		out = append(out, rule)
	}

	return out
}
