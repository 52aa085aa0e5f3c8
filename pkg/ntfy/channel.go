// Package ntfy implements the configuration editor core for the ntfy push
// notification channel: tiered default resolution, option normalisation and
// the one-time write-back performed when the editor is first shown.
package ntfy

import (
	opts "github.com/goliatone/go-notify-options"
	"github.com/goliatone/go-notify-options/layering"
)

// Type is the notifier type handled by this package.
const Type = "ntfy"

// Channel is one tier of ntfy configuration. Keys inside each group are
// lower-case; every leaf is kept as a string the way the config file spells it.
type Channel struct {
	Type      string            `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
	Options   map[string]string `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`
	URLFields map[string]string `json:"url_fields,omitempty" yaml:"url_fields,omitempty" mapstructure:"url_fields"`
	Params    map[string]string `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

// Clone returns a deep copy of c.
func (c *Channel) Clone() *Channel {
	if c == nil {
		return nil
	}
	clone := layering.Clone(*c)
	return &clone
}

// Tiers holds the three configuration tiers of one notifier. A nil tier is
// treated as unset. SnapshotIDs is keyed by scope name and only feeds traces.
type Tiers struct {
	Instance     *Channel
	Defaults     *Channel
	HardDefaults *Channel
	SnapshotIDs  map[string]string
}

// Stack layers the tiers, instance first.
func (t Tiers) Stack() (*opts.Stack[Channel], error) {
	if len(t.SnapshotIDs) == 0 {
		return opts.NewTierStack(deref(t.Instance), deref(t.Defaults), deref(t.HardDefaults))
	}
	return opts.NewStack(
		opts.NewLayer(opts.InstanceScope(), deref(t.Instance), opts.WithSnapshotID[Channel](t.SnapshotIDs[opts.ScopeInstance])),
		opts.NewLayer(opts.DefaultsScope(), deref(t.Defaults), opts.WithSnapshotID[Channel](t.SnapshotIDs[opts.ScopeDefaults])),
		opts.NewLayer(opts.HardDefaultsScope(), deref(t.HardDefaults), opts.WithSnapshotID[Channel](t.SnapshotIDs[opts.ScopeHardDefaults])),
	)
}

func deref(c *Channel) Channel {
	if c == nil {
		return Channel{}
	}
	return *c
}

// HardDefaults returns the built-in ntfy defaults.
func HardDefaults() *Channel {
	return &Channel{
		Type: Type,
		Options: map[string]string{
			"message":   "{{ service_id }} - {{ version }} released",
			"max_tries": "3",
			"delay":     "0s",
		},
		URLFields: map[string]string{
			"host": "ntfy.sh",
		},
		Params: map[string]string{
			"scheme":   "https",
			"priority": "default",
			"cache":    "yes",
			"firebase": "yes",
		},
	}
}
