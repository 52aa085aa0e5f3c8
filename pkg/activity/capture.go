package activity

import (
	"context"
	"sync"
)

// CaptureHook keeps every event it receives. The CLI uses it to report what
// an editor run emitted; tests use it for assertions.
type CaptureHook struct {
	Events []Event
	Err    error
	mu     sync.Mutex
}

// Notify records the event and returns any configured error.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, event.Normalize())
	return h.Err
}

// Verbs returns the verbs recorded so far, in order.
func (h *CaptureHook) Verbs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	verbs := make([]string, len(h.Events))
	for i, event := range h.Events {
		verbs[i] = event.Verb
	}
	return verbs
}

// ForObject returns the recorded events whose ObjectID is id.
func (h *CaptureHook) ForObject(id string) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []Event
	for _, event := range h.Events {
		if event.ObjectID == id {
			out = append(out, event)
		}
	}
	return out
}

// Reset drops every recorded event.
func (h *CaptureHook) Reset() {
	h.mu.Lock()
	h.Events = nil
	h.mu.Unlock()
}
