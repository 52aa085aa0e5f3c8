package state_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-notify-options/pkg/state"
	"github.com/google/uuid"
)

func TestMemoryStorePutAssignsSnapshotID(t *testing.T) {
	store := state.NewMemoryStore[map[string]any]()
	ref := state.InstanceRef("ntfy", "alerts")

	meta, err := store.Put(ref, map[string]any{"url_fields": map[string]any{"topic": "releases"}}, state.Meta{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := uuid.Parse(meta.SnapshotID); err != nil {
		t.Fatalf("expected uuid snapshot id, got %q", meta.SnapshotID)
	}
	if meta.UpdatedAt.IsZero() {
		t.Fatalf("expected UpdatedAt to be set")
	}

	snapshot, loaded, ok, err := store.Load(context.Background(), ref)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if loaded.SnapshotID != meta.SnapshotID {
		t.Fatalf("expected snapshot id %q, got %q", meta.SnapshotID, loaded.SnapshotID)
	}
	if snapshot["url_fields"].(map[string]any)["topic"] != "releases" {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestMemoryStoreKeepsExplicitMeta(t *testing.T) {
	store := state.NewMemoryStore[string]()
	ref := state.InstanceRef("ntfy", "alerts")
	extra := map[string]string{"source": "config.yml"}

	if _, err := store.Put(ref, "payload", state.Meta{SnapshotID: "fixed", Extra: extra}); err != nil {
		t.Fatalf("put: %v", err)
	}
	extra["source"] = "mutated"

	_, meta, _, err := store.Load(context.Background(), ref)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.SnapshotID != "fixed" || meta.Extra["source"] != "config.yml" {
		t.Fatalf("unexpected meta %+v", meta)
	}
}

func TestMemoryStoreMissingAndCancelled(t *testing.T) {
	store := state.NewMemoryStore[string]()
	ref := state.InstanceRef("ntfy", "missing")

	if _, _, ok, err := store.Load(context.Background(), ref); ok || err != nil {
		t.Fatalf("expected miss without error, got ok=%v err=%v", ok, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, _, err := store.Load(ctx, ref); err == nil {
		t.Fatalf("expected cancelled context to fail")
	}
}
