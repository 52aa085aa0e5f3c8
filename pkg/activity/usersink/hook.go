package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-notify-options/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts activity events to a go-users ActivitySink so editor
// write-backs land in the same audit trail as user actions.
type Hook struct {
	Sink usertypes.ActivitySink
	// ObjectPrefix, when set, is prepended to the object type (e.g. "argus.").
	ObjectPrefix string
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := event.Normalize()
	if !normalized.Complete() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	record := usertypes.ActivityRecord{
		ActorID:    parseUUID(normalized.ActorID),
		UserID:     parseUUID(normalized.UserID),
		TenantID:   parseUUID(normalized.TenantID),
		Verb:       normalized.Verb,
		ObjectType: h.ObjectPrefix + normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       normalized.Metadata,
		OccurredAt: normalized.OccurredAt,
	}
	if normalized.Notifier != "" {
		if record.Data == nil {
			record.Data = map[string]any{}
		}
		record.Data["notifier"] = normalized.Notifier
	}
	if normalized.UserID == "" && record.ActorID != uuid.Nil {
		record.UserID = record.ActorID
	}

	return h.Sink.Log(ctx, record)
}

func parseUUID(input string) uuid.UUID {
	value := strings.TrimSpace(input)
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}
