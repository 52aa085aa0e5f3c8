package opts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrFunctionName is returned when a function name is not a plain
	// identifier or shadows a rule binding.
	ErrFunctionName     = errors.New("opts: invalid function name")
	ErrFunctionExists   = errors.New("opts: function already registered")
	ErrFunctionNotFound = errors.New("opts: function not registered")
)

// Function is a helper rule expressions can invoke, either directly by
// name or through call("name", [args]).
type Function func(args ...any) (any, error)

// Predicate adapts a single string check into a Function. Calls with any
// other arity or a non-string argument report false.
func Predicate(check func(string) bool) Function {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return false, nil
		}
		raw, ok := args[0].(string)
		if !ok {
			return false, nil
		}
		return check(raw), nil
	}
}

// FunctionRegistry holds the helpers rules may call. Names are matched
// without regard to case.
type FunctionRegistry struct {
	mu    sync.RWMutex
	funcs map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{funcs: map[string]Function{}}
}

// Register adds fn under name. Names must be identifiers, must not collide
// with a rule binding and may only be registered once.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if !validFunctionName(key) {
		return fmt.Errorf("%w: %q", ErrFunctionName, name)
	}
	if fn == nil {
		return fmt.Errorf("opts: function %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.funcs == nil {
		r.funcs = map[string]Function{}
	}
	if _, dup := r.funcs[key]; dup {
		return fmt.Errorf("%w: %q", ErrFunctionExists, name)
	}
	r.funcs[key] = fn
	return nil
}

// Has reports whether name is registered.
func (r *FunctionRegistry) Has(name string) bool {
	return r.lookup(name) != nil
}

// Call runs the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	fn := r.lookup(name)
	if fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	}
	return fn(args...)
}

// Names lists the registered (lower-cased) names in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Clone returns an independent registry with the same entries. Evaluators
// keep a clone so later registrations do not leak into compiled programs.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &FunctionRegistry{funcs: make(map[string]Function, len(r.funcs))}
	for name, fn := range r.funcs {
		out.funcs[name] = fn
	}
	return out
}

func (r *FunctionRegistry) lookup(name string) Function {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.funcs[strings.ToLower(strings.TrimSpace(name))]
}

func validFunctionName(name string) bool {
	if name == "" {
		return false
	}
	if name == "call" || isBindingName(name) {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// WithFunctionRegistry makes the entries of registry available to rules run
// by the default engine.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *optionsConfig) {
		if registry != nil {
			cfg.functions = registry.Clone()
		}
	}
}

// WithCustomFunction registers a single function for the default engine.
// Invalid or duplicate names are ignored.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *optionsConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
