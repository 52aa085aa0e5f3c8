package opts

// Tier names and priorities. Higher priorities win.
const (
	ScopeInstance     = "instance"
	ScopeDefaults     = "defaults"
	ScopeHardDefaults = "hard_defaults"

	ScopePriorityInstance     = 300
	ScopePriorityDefaults     = 200
	ScopePriorityHardDefaults = 100
)

// Scope names one tier of a resolution stack.
type Scope struct {
	Name     string         `json:"name"`
	Label    string         `json:"label,omitempty"`
	Priority int            `json:"priority"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ScopeOption sets optional Scope fields.
type ScopeOption func(*Scope)

// WithScopeLabel sets the display label.
func WithScopeLabel(label string) ScopeOption {
	return func(s *Scope) { s.Label = label }
}

// WithScopeMetadata merges metadata into the scope. The map is copied.
func WithScopeMetadata(metadata map[string]any) ScopeOption {
	return func(s *Scope) {
		for key, value := range metadata {
			if s.Metadata == nil {
				s.Metadata = map[string]any{}
			}
			s.Metadata[key] = value
		}
	}
}

// NewScope builds a Scope. Names and priorities are checked by NewStack.
func NewScope(name string, priority int, opts ...ScopeOption) Scope {
	scope := Scope{Name: name, Priority: priority}
	for _, opt := range opts {
		if opt != nil {
			opt(&scope)
		}
	}
	return scope
}

// InstanceScope is the tier of a notifier's own stored configuration.
func InstanceScope(opts ...ScopeOption) Scope {
	return tierScope(ScopeInstance, "Instance", ScopePriorityInstance, opts)
}

// DefaultsScope is the tier of service-level defaults for a notifier type.
func DefaultsScope(opts ...ScopeOption) Scope {
	return tierScope(ScopeDefaults, "Defaults", ScopePriorityDefaults, opts)
}

// HardDefaultsScope is the tier of built-in fallbacks.
func HardDefaultsScope(opts ...ScopeOption) Scope {
	return tierScope(ScopeHardDefaults, "Hard Defaults", ScopePriorityHardDefaults, opts)
}

func tierScope(name, label string, priority int, opts []ScopeOption) Scope {
	return NewScope(name, priority, append([]ScopeOption{WithScopeLabel(label)}, opts...)...)
}

// Title returns the label, or the name when no label is set.
func (s Scope) Title() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

func (s Scope) clone() Scope {
	s.Metadata = copyMetadata(s.Metadata)
	return s
}

func (s Scope) isZero() bool {
	return s.Name == "" && s.Label == "" && s.Priority == 0 && len(s.Metadata) == 0
}

func copyMetadata(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}

// binding is the scope as rule expressions see it.
func (s Scope) binding() map[string]any {
	out := map[string]any{
		"name":     s.Name,
		"label":    s.Label,
		"priority": s.Priority,
	}
	if len(s.Metadata) > 0 {
		out["metadata"] = copyMetadata(s.Metadata)
	}
	return out
}
