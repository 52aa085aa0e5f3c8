// Package form models the settings form the notifier editors are embedded
// in. Editors only read and write values by dot-delimited field path.
package form

import (
	"sort"
	"sync"

	"github.com/goliatone/go-notify-options/layering"
)

// Binding reads and writes form values by field path, e.g.
// "notify.alerts.params.scheme". Get returns nil for unknown paths.
type Binding interface {
	Get(path string) any
	Set(path string, value any)
}

// MapBinding is an in-memory Binding over a nested map. It records which
// paths were written so callers can tell user edits from loaded values.
type MapBinding struct {
	mu     sync.RWMutex
	values map[string]any
	dirty  map[string]struct{}
}

var _ Binding = (*MapBinding)(nil)

// NewMapBinding returns a binding holding a copy of initial.
func NewMapBinding(initial map[string]any) *MapBinding {
	values := layering.Clone(initial)
	if values == nil {
		values = map[string]any{}
	}
	return &MapBinding{
		values: values,
		dirty:  map[string]struct{}{},
	}
}

// Get returns the value stored at path. Nested maps are returned as copies.
func (b *MapBinding) Get(path string) any {
	if len(layering.Split(path)) == 0 {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, ok := layering.Lookup(b.values, path)
	if !ok {
		return nil
	}
	return layering.Clone(value)
}

// Set stores value at path, replacing any non-map intermediate segment.
func (b *MapBinding) Set(path string, value any) {
	if len(layering.Split(path)) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	layering.Assign(b.values, path, value)
	b.dirty[path] = struct{}{}
}

// Values returns a deep copy of the whole tree.
func (b *MapBinding) Values() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return layering.Clone(b.values)
}

// Dirty lists the paths written through Set, sorted.
func (b *MapBinding) Dirty() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.dirty))
	for path := range b.dirty {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// IsDirty reports whether path was written through Set.
func (b *MapBinding) IsDirty(path string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.dirty[path]
	return ok
}
