package opts

import "strings"

// Resolve returns the first non-empty candidate, scanning from the most
// specific tier to the least specific one. When every candidate is empty the
// result is the empty string.
func Resolve(candidates ...string) string {
	for _, candidate := range candidates {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// ResolveBool resolves candidates like Resolve and parses the winner with
// ParseBool. Empty or unparseable results yield fallback.
func ResolveBool(fallback bool, candidates ...string) bool {
	if parsed, ok := ParseBool(Resolve(candidates...)); ok {
		return parsed
	}
	return fallback
}

// ParseBool understands the spellings used in notifier configuration
// (true/false, yes/no, on/off, 1/0), ignoring case and surrounding spaces.
func ParseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	default:
		return false, false
	}
}
