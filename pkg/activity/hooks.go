package activity

import (
	"context"
	"errors"
)

// Hook receives normalized events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, event Event) error

// Notify calls fn.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans one event out to several hooks.
type Hooks []Hook

// Enabled reports whether there is any hook to notify.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify normalizes event and passes it to every non-nil hook. Incomplete
// events are dropped. A failing hook does not stop the rest; all failures
// are joined.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}
	event = event.Normalize()
	if !event.Complete() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
