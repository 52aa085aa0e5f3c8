package activity

import (
	"context"
	"strings"
)

// Config controls activity emission defaults.
type Config struct {
	Enabled bool
	// Channel is applied to events emitted without one.
	Channel string
	// ActorID is applied to events emitted without one, e.g. a service
	// account when the editor runs outside a user session.
	ActorID string
}

// DefaultChannel is applied when Config.Channel is empty.
const DefaultChannel = "notify"

// Emitter fans out events to hooks while applying defaults. A nil or
// disabled emitter drops every event.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
	actorID string
}

// NewEmitter constructs an emitter from hooks and configuration.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	kept := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			kept = append(kept, hook)
		}
	}
	return &Emitter{
		hooks:   kept,
		enabled: cfg.Enabled && len(kept) > 0,
		channel: channel,
		actorID: strings.TrimSpace(cfg.ActorID),
	}
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit applies the configured channel and actor where the event has none,
// then forwards it to every hook.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = e.actorID
	}
	return e.hooks.Notify(ctx, event)
}
