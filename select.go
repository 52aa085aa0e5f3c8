package opts

import "strings"

// DefaultLabelSuffix is appended to the label of the synthetic entry that
// stands for "inherit the resolved default".
const DefaultLabelSuffix = " (default)"

// SelectOption is one selectable value of an enumerable field.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionSet is the ordered list of valid values for a select field.
type OptionSet []SelectOption

// Clone returns a detached copy of the set.
func (s OptionSet) Clone() OptionSet {
	if s == nil {
		return nil
	}
	out := make(OptionSet, len(s))
	copy(out, s)
	return out
}

// Values returns the option values in set order.
func (s OptionSet) Values() []string {
	values := make([]string, len(s))
	for i, option := range s {
		values[i] = option.Value
	}
	return values
}

// Normalize finds the first option whose value equals raw ignoring case.
// An empty raw value never matches.
func Normalize(set OptionSet, raw string) (SelectOption, bool) {
	if raw == "" {
		return SelectOption{}, false
	}
	for _, option := range set {
		if strings.EqualFold(option.Value, raw) {
			return option, true
		}
	}
	return SelectOption{}, false
}

// Canonical returns the canonical value raw normalizes to, or fallback when
// it matches nothing in set.
func Canonical(set OptionSet, raw, fallback string) string {
	if option, ok := Normalize(set, raw); ok {
		return option.Value
	}
	return fallback
}

// WithDefaultEntry builds the list presented to the user. When
// resolvedDefault matches a member of set, a leading entry with an empty value
// and a "(default)" label is prepended. set itself is never modified.
func WithDefaultEntry(set OptionSet, resolvedDefault string) OptionSet {
	match, ok := Normalize(set, resolvedDefault)
	if !ok {
		return set.Clone()
	}
	out := make(OptionSet, 0, len(set)+1)
	out = append(out, SelectOption{Value: "", Label: match.Label + DefaultLabelSuffix})
	return append(out, set...)
}
