package activity

import (
	"maps"
	"strings"
	"time"
)

// Field event verbs, prefixed with the notifier type (e.g. "ntfy.field.normalized").
const (
	VerbFieldNormalized = "field.normalized"
	VerbFieldDefaulted  = "field.defaulted"
	VerbFieldInvalid    = "field.invalid"
)

// TierContext captures the tier a value was resolved from.
type TierContext struct {
	Name       string
	Label      string
	Priority   int
	SnapshotID string
}

// FieldEventInput describes a change or check on one notifier form field.
type FieldEventInput struct {
	ActorID      string
	TenantID     string
	Notifier     string
	NotifierType string
	Channel      string
	Path         string
	OldValue     any
	NewValue     any
	Message      string
	Tier         TierContext
	Metadata     map[string]any
	OccurredAt   time.Time
}

// BuildFieldNormalizedEvent records a stored value rewritten to its canonical
// spelling.
func BuildFieldNormalizedEvent(input FieldEventInput) Event {
	return buildFieldEvent(VerbFieldNormalized, input)
}

// BuildFieldDefaultedEvent records a field written with the built-in
// fallback because nothing else matched.
func BuildFieldDefaultedEvent(input FieldEventInput) Event {
	return buildFieldEvent(VerbFieldDefaulted, input)
}

// BuildFieldInvalidEvent records a failed field rule.
func BuildFieldInvalidEvent(input FieldEventInput) Event {
	return buildFieldEvent(VerbFieldInvalid, input)
}

func buildFieldEvent(verb string, input FieldEventInput) Event {
	notifierType := strings.TrimSpace(input.NotifierType)
	if notifierType == "" {
		notifierType = "notify"
	}

	metadata := maps.Clone(input.Metadata)
	if input.Path != "" {
		metadata = ensureMetadata(metadata)
		metadata["path"] = input.Path
	}
	if input.Tier.Name != "" {
		metadata = ensureMetadata(metadata)
		metadata["tier_name"] = input.Tier.Name
		metadata["tier_priority"] = input.Tier.Priority
		if input.Tier.Label != "" {
			metadata["tier_label"] = input.Tier.Label
		}
	}
	if input.Tier.SnapshotID != "" {
		metadata = ensureMetadata(metadata)
		metadata["snapshot_id"] = input.Tier.SnapshotID
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}
	if input.Message != "" {
		metadata = ensureMetadata(metadata)
		metadata["message"] = input.Message
	}

	objectID := strings.TrimSpace(input.Path)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Notifier)
	}
	if objectID == "" {
		objectID = notifierType
	}

	return Event{
		Verb:       notifierType + "." + verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: notifierType + ".field",
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Notifier:   strings.TrimSpace(input.Notifier),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
