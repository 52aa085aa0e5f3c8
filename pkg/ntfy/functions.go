package ntfy

import (
	"net/url"
	"strings"
	"time"

	opts "github.com/goliatone/go-notify-options"
)

// RuleFunctions returns the helpers the field rules call. Evaluators passed
// through WithEvaluator must be built with this registry.
func RuleFunctions() *opts.FunctionRegistry {
	registry := opts.NewFunctionRegistry()
	_ = registry.Register("is_duration", opts.Predicate(isDuration))
	_ = registry.Register("is_url", opts.Predicate(isURL))
	return registry
}

// isDuration accepts Go duration strings such as "1h2m3s".
func isDuration(raw string) bool {
	_, err := time.ParseDuration(raw)
	return err == nil
}

// isURL accepts absolute http(s) URLs. Templated values ("{{ ... }}") are
// only known once rendered and always pass.
func isURL(raw string) bool {
	if strings.Contains(raw, "{{") {
		return true
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return (scheme == "http" || scheme == "https") && parsed.Host != ""
}
