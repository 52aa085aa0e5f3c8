package opts

import "time"

// RuleContext is everything a rule expression can see. Snapshot keys (when
// Snapshot is a map) become top-level variables, except where they clash
// with a binding name.
type RuleContext struct {
	Path     string
	Value    any
	Snapshot any
	// Now defaults to the evaluation time.
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	// Scope is the tier the value came from. ScopeName is enough when
	// only the tier name is known.
	Scope     Scope
	ScopeName string
}

// bindingNames are the variables every engine declares. Snapshot keys and
// function names may not reuse them.
var bindingNames = []string{"now", "args", "metadata", "scope", "path", "value"}

func isBindingName(name string) bool {
	for _, reserved := range bindingNames {
		if name == reserved {
			return true
		}
	}
	return false
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

// withDefaultScope applies the checker's scope when the caller named none.
func (ctx RuleContext) withDefaultScope(scope Scope) RuleContext {
	if ctx.Scope.isZero() && ctx.ScopeName == "" {
		ctx.Scope = scope.clone()
	}
	if ctx.ScopeName == "" {
		ctx.ScopeName = ctx.Scope.Name
	}
	return ctx
}

func (ctx RuleContext) scopeLabel() string {
	switch {
	case ctx.Scope.Name != "":
		return ctx.Scope.Name
	case ctx.ScopeName != "":
		return ctx.ScopeName
	}
	return "unknown"
}

// bindings returns the variables exposed to an expression.
func (ctx RuleContext) bindings() map[string]any {
	env := map[string]any{}
	if snapshot, ok := ctx.Snapshot.(map[string]any); ok {
		for key, value := range snapshot {
			if !isBindingName(key) {
				env[key] = value
			}
		}
	}
	now := time.Now()
	if ctx.Now != nil {
		now = *ctx.Now
	}
	env["now"] = now
	env["args"] = ctx.Args
	env["metadata"] = ctx.Metadata
	env["path"] = ctx.Path
	env["value"] = ctx.Value
	switch {
	case !ctx.Scope.isZero():
		env["scope"] = ctx.Scope.binding()
	case ctx.ScopeName != "":
		env["scope"] = map[string]any{"name": ctx.ScopeName}
	}
	return env
}
