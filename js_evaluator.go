//go:build js_eval

package opts

import (
	"fmt"

	"github.com/dop251/goja"
)

// NewJSEvaluator constructs an Evaluator backed by goja.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	return newJSEvaluator(opts)
}

func (e *jsEvaluator) engine() string { return "js" }

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(ctx.withDefaults(), expression, program)
}

// loadOrCompile keys programs on "js:" plus the expression so a cache shared
// with another engine never hands back a foreign program for the same text.
func (e *jsEvaluator) loadOrCompile(expression string) (*goja.Program, error) {
	return cachedProgram(e.cache, "js:"+expression, func() (*goja.Program, error) {
		program, err := goja.Compile("rule", e.wrapExpression(expression), false)
		if err != nil {
			return nil, compileError(e.engine(), expression, err)
		}
		return program, nil
	})
}

func (e *jsEvaluator) run(ctx RuleContext, expression string, program *goja.Program) (any, error) {
	vm := goja.New()
	if err := e.injectContext(vm, ctx); err != nil {
		return nil, runError(e.engine(), expression, ctx.scopeLabel(), err)
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, runError(e.engine(), expression, ctx.scopeLabel(), err)
	}
	return value.Export(), nil
}

func (e *jsEvaluator) injectContext(vm *goja.Runtime, ctx RuleContext) error {
	for key, value := range ctx.bindings() {
		if err := vm.Set(key, value); err != nil {
			return err
		}
	}
	if e.registry == nil {
		return nil
	}
	registry := e.registry
	if err := vm.Set("call", func(name string, arguments ...any) (any, error) {
		return registry.Call(name, arguments...)
	}); err != nil {
		return err
	}
	for _, name := range registry.Names() {
		fn := name
		if err := vm.Set(fn, func(arguments ...any) (any, error) {
			return registry.Call(fn, arguments...)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *jsEvaluator) wrapExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}
