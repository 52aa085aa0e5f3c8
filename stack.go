package opts

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-notify-options/layering"
)

var (
	ErrScopeNameRequired  = errors.New("scope: name must be provided")
	ErrDuplicateScopeName = errors.New("scope: names must be unique")
	// ErrPriorityOrder is returned when two layers share a priority.
	ErrPriorityOrder = errors.New("scope: priorities must be strictly ordered")
)

// Layer is one tier's snapshot. SnapshotID identifies where the snapshot
// was loaded from and is echoed in traces.
type Layer[T any] struct {
	Scope      Scope
	Snapshot   T
	SnapshotID string
}

// LayerOption sets optional Layer fields.
type LayerOption[T any] func(*Layer[T])

// WithSnapshotID records where the layer's snapshot came from.
func WithSnapshotID[T any](id string) LayerOption[T] {
	return func(layer *Layer[T]) {
		layer.SnapshotID = id
	}
}

// NewLayer pairs scope with a private copy of snapshot.
func NewLayer[T any](scope Scope, snapshot T, opts ...LayerOption[T]) Layer[T] {
	layer := Layer[T]{Scope: scope, Snapshot: snapshot}
	for _, opt := range opts {
		if opt != nil {
			opt(&layer)
		}
	}
	return layer.clone()
}

func (l Layer[T]) clone() Layer[T] {
	l.Scope = l.Scope.clone()
	l.Snapshot = layering.Clone(l.Snapshot)
	return l
}

// Stack is an immutable, priority-ordered list of layers. Lookups treat an
// empty string in any layer as "not set" and fall through to weaker layers.
type Stack[T any] struct {
	layers []Layer[T]
}

// NewStack copies layers and orders them strongest first. Every scope needs
// a unique name and a unique priority. An empty stack resolves every path
// to "".
func NewStack[T any](layers ...Layer[T]) (*Stack[T], error) {
	ordered := make([]Layer[T], 0, len(layers))
	names := map[string]bool{}
	for _, layer := range layers {
		name := layer.Scope.Name
		switch {
		case name == "":
			return nil, ErrScopeNameRequired
		case names[name]:
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScopeName, name)
		}
		names[name] = true
		ordered = append(ordered, layer.clone())
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Scope.Priority > ordered[j].Scope.Priority
	})
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Scope.Priority == ordered[i-1].Scope.Priority {
			return nil, fmt.Errorf("%w: %s and %s share %d", ErrPriorityOrder,
				ordered[i-1].Scope.Name, ordered[i].Scope.Name, ordered[i].Scope.Priority)
		}
	}
	return &Stack[T]{layers: ordered}, nil
}

// NewTierStack builds the instance, defaults, hard defaults stack.
func NewTierStack[T any](instance, defaults, hardDefaults T) (*Stack[T], error) {
	return NewStack(
		NewLayer(InstanceScope(), instance),
		NewLayer(DefaultsScope(), defaults),
		NewLayer(HardDefaultsScope(), hardDefaults),
	)
}

// Len reports the number of layers.
func (s *Stack[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Layers returns copies of the layers, strongest first.
func (s *Stack[T]) Layers() []Layer[T] {
	if s.Len() == 0 {
		return nil
	}
	out := make([]Layer[T], len(s.layers))
	for i, layer := range s.layers {
		out[i] = layer.clone()
	}
	return out
}

// Layer returns a copy of the layer whose scope is name.
func (s *Stack[T]) Layer(name string) (Layer[T], bool) {
	if s != nil {
		for _, layer := range s.layers {
			if layer.Scope.Name == name {
				return layer.clone(), true
			}
		}
	}
	return Layer[T]{}, false
}

// Candidates lists the string value each layer holds at path, strongest
// first. A layer without the path contributes "".
func (s *Stack[T]) Candidates(path string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.layers))
	for i, layer := range s.layers {
		out[i] = layering.LookupString(layer.Snapshot, path)
	}
	return out
}

// Resolve returns the first non-empty value at path.
func (s *Stack[T]) Resolve(path string) string {
	return Resolve(s.Candidates(path)...)
}

// ResolveWithTrace resolves path and records every layer's contribution.
func (s *Stack[T]) ResolveWithTrace(path string) (string, Trace) {
	candidates := s.Candidates(path)
	trace := Trace{Path: path, Layers: make([]Provenance, len(candidates))}
	for i, value := range candidates {
		layer := s.layers[i]
		trace.Layers[i] = Provenance{
			Scope:      layer.Scope.clone(),
			SnapshotID: layer.SnapshotID,
			Path:       path,
			Value:      value,
			Found:      value != "",
		}
	}
	winner, _ := trace.Winner()
	return winner.Value, trace
}

// Effective folds every layer into one snapshot. Empty strings and other
// zero scalars in stronger layers do not hide weaker values.
func (s *Stack[T]) Effective() T {
	snapshots := make([]T, s.Len())
	for i := range snapshots {
		snapshots[i] = s.layers[i].Snapshot
	}
	return layering.MergeLayers(snapshots...)
}

// Paths lists the leaf paths present in any layer, sorted.
func (s *Stack[T]) Paths() []string {
	if s == nil {
		return nil
	}
	set := map[string]struct{}{}
	for _, layer := range s.layers {
		for _, path := range layering.Leaves(layer.Snapshot) {
			set[path] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for path := range set {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
