package ntfy

import opts "github.com/goliatone/go-notify-options"

var (
	schemeOptions = opts.OptionSet{
		{Value: "https", Label: "HTTPS"},
		{Value: "http", Label: "HTTP"},
	}
	priorityOptions = opts.OptionSet{
		{Value: "min", Label: "Min"},
		{Value: "low", Label: "Low"},
		{Value: "default", Label: "Default"},
		{Value: "high", Label: "High"},
		{Value: "max", Label: "Max"},
	}
)

// Fallbacks written back when neither the tiers nor the stored value supply
// a usable selection.
const (
	FallbackScheme   = "https"
	FallbackPriority = "default"
)

// SchemeOptions returns the server protocols ntfy accepts.
func SchemeOptions() opts.OptionSet { return schemeOptions.Clone() }

// PriorityOptions returns the ntfy message priorities, lowest first.
func PriorityOptions() opts.OptionSet { return priorityOptions.Clone() }
