package activity

import (
	"maps"
	"strings"
	"time"
)

// Event is one audit entry produced by a notifier editor, such as a stored
// value rewritten to its canonical spelling or a field failing a rule.
// IDs are strings so call sites are not tied to a UUID type.
type Event struct {
	Verb       string
	ActorID    string
	UserID     string
	TenantID   string
	ObjectType string
	ObjectID   string
	Channel    string
	// Notifier names the notifier instance the field belongs to.
	Notifier   string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Complete reports whether the event carries the fields sinks key on.
func (e Event) Complete() bool {
	return e.Verb != "" && e.ObjectType != "" && e.ObjectID != ""
}

// Normalize returns a copy with identifiers trimmed, the verb and object
// type lower-cased, metadata copied and a zero OccurredAt set to now (UTC).
func (e Event) Normalize() Event {
	for _, field := range []*string{&e.ActorID, &e.UserID, &e.TenantID, &e.ObjectID, &e.Channel, &e.Notifier} {
		*field = strings.TrimSpace(*field)
	}
	e.Verb = strings.ToLower(strings.TrimSpace(e.Verb))
	e.ObjectType = strings.ToLower(strings.TrimSpace(e.ObjectType))
	e.Metadata = maps.Clone(e.Metadata)
	if len(e.Metadata) == 0 {
		e.Metadata = nil
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	return e
}
