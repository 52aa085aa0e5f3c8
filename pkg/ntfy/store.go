package ntfy

import (
	"context"
	"errors"
	"fmt"

	opts "github.com/goliatone/go-notify-options"
	"github.com/goliatone/go-notify-options/pkg/state"
)

// LoadTiers reads the three tiers of notifier from store. Missing instance or
// defaults tiers stay nil; a missing hard defaults tier falls back to
// HardDefaults().
func LoadTiers(ctx context.Context, store state.Store[Channel], notifier string) (Tiers, error) {
	if notifier == "" {
		return Tiers{}, ErrNameRequired
	}
	resolver := state.Resolver[Channel]{Store: store}
	stack, err := resolver.Resolve(ctx, Type,
		state.InstanceRef(Type, notifier).Scope,
		opts.DefaultsScope(),
		opts.HardDefaultsScope(),
	)
	if err != nil && !errors.Is(err, state.ErrNoLayers) {
		return Tiers{}, fmt.Errorf("ntfy: load tiers of %q: %w", notifier, err)
	}

	tiers := Tiers{SnapshotIDs: map[string]string{}}
	if stack != nil {
		tiers.Instance = tierOf(stack, opts.ScopeInstance, tiers.SnapshotIDs)
		tiers.Defaults = tierOf(stack, opts.ScopeDefaults, tiers.SnapshotIDs)
		tiers.HardDefaults = tierOf(stack, opts.ScopeHardDefaults, tiers.SnapshotIDs)
	}
	if tiers.HardDefaults == nil {
		tiers.HardDefaults = HardDefaults()
	}
	return tiers, nil
}

func tierOf(stack *opts.Stack[Channel], scope string, ids map[string]string) *Channel {
	layer, ok := stack.Layer(scope)
	if !ok {
		return nil
	}
	if layer.SnapshotID != "" {
		ids[scope] = layer.SnapshotID
	}
	snapshot := layer.Snapshot
	return &snapshot
}
