package opts

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry wires a FunctionRegistry into the expr evaluator.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// exprEvaluator executes rule expressions using github.com/expr-lang/expr.
type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprEvaluator) engine() string { return "expr" }

// Evaluate compiles expression (through the cache when configured) and runs
// it against the context bindings.
func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, ctx)
}

func (e *exprEvaluator) run(program *exprvm.Program, expression string, ctx RuleContext) (any, error) {
	ctx = ctx.withDefaults()
	result, err := exprlang.Run(program, ctx.bindings())
	if err != nil {
		return nil, runError(e.engine(), expression, ctx.scopeLabel(), err)
	}
	return result, nil
}

func (e *exprEvaluator) loadOrCompile(expression string) (*exprvm.Program, error) {
	return cachedProgram(e.cache, expression, func() (*exprvm.Program, error) {
		options := append([]exprlang.Option{
			exprlang.Env(map[string]any{}),
			exprlang.AllowUndefinedVariables(),
		}, e.functions()...)
		program, err := exprlang.Compile(expression, options...)
		if err != nil {
			return nil, compileError(e.engine(), expression, err)
		}
		return program, nil
	})
}

// functions exposes every registry entry by name plus the generic call helper.
func (e *exprEvaluator) functions() []exprlang.Option {
	if e == nil || e.registry == nil {
		return nil
	}
	registry := e.registry
	options := []exprlang.Option{
		exprlang.Function("call", func(params ...any) (any, error) {
			if len(params) == 0 {
				return nil, fmt.Errorf("opts: call requires function name")
			}
			name, ok := params[0].(string)
			if !ok {
				return nil, fmt.Errorf("opts: call name must be string")
			}
			return registry.Call(name, params[1:]...)
		}),
	}
	for _, name := range registry.Names() {
		fn := name
		options = append(options, exprlang.Function(fn, func(params ...any) (any, error) {
			return registry.Call(fn, params...)
		}))
	}
	return options
}
