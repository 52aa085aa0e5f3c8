// Package state loads per-tier notifier configuration snapshots and layers
// them into an opts.Stack.
//
//   - Store[T] loads a single snapshot for a single Ref.
//   - Resolver[T] loads snapshots for several tiers and stacks them with
//     opts.NewLayer / opts.NewStack, carrying Meta.SnapshotID into every
//     layer so traces can name the snapshot a value came from.
//
// Data flow:
//
//	Store -> Resolver -> opts.NewStack(...) -> *opts.Stack[T]
//
// Saving is left to the services that own the configuration; Store is load
// only.
//
// Deterministic keys:
//
//	Ref.Identifier() gives the canonical key of a tier snapshot:
//	hard_defaults/<type>, defaults/<type> and instance/<notifier>/<type>.
package state
