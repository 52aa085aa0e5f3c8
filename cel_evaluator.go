package opts

import (
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
	functions "github.com/google/cel-go/common/functions"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
// Registered functions are reachable through call("name", args...).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) engine() string { return "cel" }

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	ctx = ctx.withDefaults()
	snapshot := snapshotAsMap(ctx.Snapshot)
	program, err := e.loadOrCompile(expression, snapshot)
	if err != nil {
		return nil, annotate(compileError(e.engine(), expression, err), EvaluationError{Scope: ctx.scopeLabel()})
	}
	out, _, err := program.program.Eval(e.activation(ctx))
	if err != nil {
		return nil, runError(e.engine(), expression, ctx.scopeLabel(), err)
	}
	return out.Value(), nil
}

// loadOrCompile keys the cache on the expression and the snapshot variable
// names, since both shape the checked environment. The "cel:" prefix keeps
// entries apart from other engines sharing the cache.
func (e *celEvaluator) loadOrCompile(expression string, snapshot map[string]any) (*celProgram, error) {
	names := snapshotVariables(snapshot)
	key := "cel:" + expression
	if len(names) > 0 {
		key += "\x00" + strings.Join(names, ",")
	}
	return cachedProgram(e.cache, key, func() (*celProgram, error) {
		env, err := e.buildEnv(names)
		if err != nil {
			return nil, err
		}
		ast, issues := env.Compile(expression)
		if issues != nil && issues.Err() != nil {
			return nil, issues.Err()
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, err
		}
		return &celProgram{env: env, program: prg}, nil
	})
}

func (e *celEvaluator) buildEnv(snapshotNames []string) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
		celgo.Variable("scope", celgo.DynType),
		celgo.Variable("path", celgo.StringType),
		celgo.Variable("value", celgo.DynType),
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call", celgo.Overload(
			"call_dyn",
			[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
			celgo.DynType,
			celgo.BinaryBinding(e.callBinding()),
		)))
		// Registry entries are also callable by name with one argument.
		for _, name := range e.registry.Names() {
			opts = append(opts, celgo.Function(name, celgo.Overload(
				name+"_dyn",
				[]*celgo.Type{celgo.DynType},
				celgo.DynType,
				celgo.UnaryBinding(e.unaryBinding(name)),
			)))
		}
	}
	for _, key := range snapshotNames {
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) activation(ctx RuleContext) map[string]any {
	activation := ctx.bindings()
	if _, ok := activation["scope"]; !ok {
		activation["scope"] = map[string]any{}
	}
	if ctx.Value == nil {
		activation["value"] = types.NullValue
	}
	return activation
}

func snapshotAsMap(value any) map[string]any {
	if m, ok := value.(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{}
}

// snapshotVariables lists snapshot keys that do not collide with the
// reserved bindings, sorted for stable cache keys.
func snapshotVariables(snapshot map[string]any) []string {
	names := make([]string, 0, len(snapshot))
	for key := range snapshot {
		if isBindingName(key) {
			continue
		}
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// callBinding dispatches call(name, [args]) to the registry.
func (e *celEvaluator) callBinding() functions.BinaryOp {
	return func(nameVal, argsVal ref.Val) ref.Val {
		if e.registry == nil {
			return types.NewErr("opts: function registry not configured")
		}
		name, ok := nameVal.Value().(string)
		if !ok {
			return types.NewErr("opts: call name must be string")
		}
		var args []any
		if list, ok := argsVal.(interface {
			Size() ref.Val
			Get(ref.Val) ref.Val
		}); ok {
			size, _ := list.Size().Value().(int64)
			for i := int64(0); i < size; i++ {
				args = append(args, list.Get(types.Int(i)).Value())
			}
		}
		return celResult(e.registry.Call(name, args...))
	}
}

func (e *celEvaluator) unaryBinding(name string) functions.UnaryOp {
	return func(arg ref.Val) ref.Val {
		return celResult(e.registry.Call(name, arg.Value()))
	}
}

func celResult(result any, err error) ref.Val {
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}
