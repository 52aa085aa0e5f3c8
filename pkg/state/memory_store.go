package state

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/goliatone/go-notify-options/layering"
	"github.com/google/uuid"
)

// MemoryStore keeps snapshots in a map keyed by Ref.Identifier(). Snapshots
// are deep-copied on the way in and out, so callers never share state with
// the store. It backs tests, the examples and file-loaded configuration.
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	clock   func() time.Time
}

type entry[T any] struct {
	snapshot T
	meta     Meta
}

// NewMemoryStore returns an empty store.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{entries: map[string]entry[T]{}, clock: time.Now}
}

// Load implements Store. A cancelled ctx is reported before the lookup.
func (s *MemoryStore[T]) Load(ctx context.Context, ref Ref) (T, Meta, bool, error) {
	var zero T
	if ctx != nil && ctx.Err() != nil {
		return zero, Meta{}, false, ctx.Err()
	}
	key, err := ref.Identifier()
	if err != nil {
		return zero, Meta{}, false, err
	}
	s.mu.RLock()
	found, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, Meta{}, false, nil
	}
	return layering.Clone(found.snapshot), copyMeta(found.meta), true, nil
}

// Put stores snapshot under ref, replacing any previous entry. A missing
// SnapshotID gets a random UUID and a zero UpdatedAt the current UTC time.
// The stored meta is returned.
func (s *MemoryStore[T]) Put(ref Ref, snapshot T, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}
	if meta.SnapshotID == "" {
		meta.SnapshotID = uuid.NewString()
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = s.clock().UTC()
	}
	meta = copyMeta(meta)

	s.mu.Lock()
	s.entries[key] = entry[T]{snapshot: layering.Clone(snapshot), meta: meta}
	s.mu.Unlock()
	return copyMeta(meta), nil
}

func copyMeta(meta Meta) Meta {
	meta.Extra = maps.Clone(meta.Extra)
	return meta
}
