package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	opts "github.com/goliatone/go-notify-options"
)

var (
	// ErrNoLayers indicates none of the requested tiers had a snapshot.
	ErrNoLayers = errors.New("state: no layers found")
	// ErrReservedScope indicates a caller passed the hard defaults scope to
	// ResolveWithHardDefaults.
	ErrReservedScope = errors.New("state: scope name is reserved")
	// ErrInvalidRef indicates a Ref that cannot be turned into a key.
	ErrInvalidRef = errors.New("state: invalid ref")
)

// NotifierKey is the scope metadata key naming the notifier of an instance
// tier.
const NotifierKey = "notifier"

// Ref identifies one tier snapshot for one notifier type (the domain).
type Ref struct {
	Domain string
	Scope  opts.Scope
}

// Meta is storage-owned metadata used for traces and audit.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads one snapshot for a single tier reference. ok is false when the
// tier has no snapshot.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
}

// Resolver loads tier snapshots and stacks them.
type Resolver[T any] struct {
	Store Store[T]
}

// InstanceRef returns the instance tier reference of notifier.
func InstanceRef(domain, notifier string) Ref {
	return Ref{
		Domain: domain,
		Scope:  opts.InstanceScope(opts.WithScopeMetadata(map[string]any{NotifierKey: notifier})),
	}
}

// Notifier returns the notifier named in the scope metadata, or "".
func (r Ref) Notifier() string {
	name, _ := r.Scope.Metadata[NotifierKey].(string)
	return name
}

// Identifier returns the storage key of the referenced snapshot:
// "<scope>/<domain>" for the shared tiers and
// "instance/<notifier>/<domain>" for an instance.
func (r Ref) Identifier() (string, error) {
	scope := r.Scope.Name
	if r.Domain == "" {
		return "", fmt.Errorf("%w: missing domain for scope %q", ErrInvalidRef, scope)
	}
	switch scope {
	case opts.ScopeHardDefaults, opts.ScopeDefaults:
		return scope + "/" + r.Domain, nil
	case opts.ScopeInstance:
		notifier := r.Notifier()
		if notifier == "" {
			return "", fmt.Errorf("%w: scope %q needs a string %q metadata value", ErrInvalidRef, scope, NotifierKey)
		}
		return scope + "/" + notifier + "/" + r.Domain, nil
	}
	return "", fmt.Errorf("%w: unsupported scope %q", ErrInvalidRef, scope)
}

// Resolve loads every requested tier and stacks the ones that exist.
func (r Resolver[T]) Resolve(ctx context.Context, domain string, scopes ...opts.Scope) (*opts.Stack[T], error) {
	if err := r.validate(domain); err != nil {
		return nil, err
	}
	if len(scopes) == 0 {
		return nil, fmt.Errorf("state: at least one scope is required")
	}

	layers, err := r.load(ctx, domain, scopes)
	if err != nil {
		return nil, err
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w for domain %q", ErrNoLayers, domain)
	}

	stack, err := opts.NewStack(layers...)
	if err != nil {
		return nil, fmt.Errorf("state: stack: %w", err)
	}
	return stack, nil
}

// ResolveWithHardDefaults is Resolve with hardDefaults appended as the
// weakest tier. Its priority sits below every requested scope.
func (r Resolver[T]) ResolveWithHardDefaults(ctx context.Context, domain string, hardDefaults T, scopes ...opts.Scope) (*opts.Stack[T], error) {
	if err := r.validate(domain); err != nil {
		return nil, err
	}

	prioritySet := make(map[int]struct{}, len(scopes)+1)
	minPriority := opts.ScopePriorityHardDefaults + 1
	for _, scope := range scopes {
		if scope.Name == opts.ScopeHardDefaults {
			return nil, fmt.Errorf("%w: %q", ErrReservedScope, opts.ScopeHardDefaults)
		}
		prioritySet[scope.Priority] = struct{}{}
		if scope.Priority < minPriority {
			minPriority = scope.Priority
		}
	}
	hardPriority := minPriority - 1
	for {
		if _, ok := prioritySet[hardPriority]; !ok {
			break
		}
		hardPriority--
	}

	layers, err := r.load(ctx, domain, scopes)
	if err != nil {
		return nil, err
	}
	hardScope := opts.NewScope(opts.ScopeHardDefaults, hardPriority, opts.WithScopeLabel("Hard Defaults"))
	layers = append(layers, opts.NewLayer(hardScope, hardDefaults))

	stack, err := opts.NewStack(layers...)
	if err != nil {
		return nil, fmt.Errorf("state: stack: %w", err)
	}
	return stack, nil
}

func (r Resolver[T]) validate(domain string) error {
	if r.Store == nil {
		return fmt.Errorf("state: store is required")
	}
	if domain == "" {
		return fmt.Errorf("state: domain is required")
	}
	return nil
}

func (r Resolver[T]) load(ctx context.Context, domain string, scopes []opts.Scope) ([]opts.Layer[T], error) {
	layers := make([]opts.Layer[T], 0, len(scopes)+1)
	for _, scope := range scopes {
		snapshot, meta, ok, err := r.Store.Load(ctx, Ref{Domain: domain, Scope: scope})
		if err != nil {
			return nil, fmt.Errorf("state: load %q for scope %q: %w", domain, scope.Name, err)
		}
		if !ok {
			continue
		}
		layers = append(layers, opts.NewLayer(scope, snapshot, opts.WithSnapshotID[T](meta.SnapshotID)))
	}
	return layers, nil
}
