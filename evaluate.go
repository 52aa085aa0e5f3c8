package opts

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrNoEvaluator = errors.New("opts: evaluator not configured")
	// ErrRuleResult indicates a rule expression produced a non-boolean value.
	ErrRuleResult = errors.New("opts: rule must evaluate to a boolean")
)

// Rule is a boolean constraint attached to a field path. Expr sees the
// field's effective value as `value` and its path as `path`.
type Rule struct {
	Path    string `json:"path" yaml:"path"`
	Expr    string `json:"expr" yaml:"expr"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Evaluator runs one expression against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
}

// Option configures a RuleChecker.
type Option func(*optionsConfig)

type optionsConfig struct {
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	logger       EvaluatorLogger
	scope        Scope
}

// WithEvaluator selects the engine rules run on.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *optionsConfig) {
		cfg.evaluator = e
	}
}

// WithScope sets the scope reported for rules whose context names none.
func WithScope(scope Scope) Option {
	return func(cfg *optionsConfig) {
		cfg.scope = scope.clone()
	}
}

// RuleChecker runs field rules through a configured evaluator.
type RuleChecker struct {
	mu  sync.Mutex
	cfg optionsConfig
}

// NewRuleChecker constructs a checker. Without WithEvaluator the expr engine
// is used, wired with any configured program cache and function registry.
func NewRuleChecker(opts ...Option) *RuleChecker {
	checker := &RuleChecker{}
	for _, opt := range opts {
		if opt != nil {
			opt(&checker.cfg)
		}
	}
	return checker
}

// Check evaluates rule against ctx and reports whether it holds.
func (c *RuleChecker) Check(ctx RuleContext, rule Rule) (bool, error) {
	if rule.Expr == "" {
		return false, ErrEmptyExpression
	}
	if ctx.Path == "" {
		ctx.Path = rule.Path
	}
	result, err := c.Evaluate(ctx, rule.Expr)
	if err != nil {
		return false, err
	}
	passed, ok := result.(bool)
	if !ok {
		return false, annotate(fmt.Errorf("%w: got %T", ErrRuleResult, result), EvaluationError{
			Engine: c.Engine(),
			Phase:  PhaseResult,
			Expr:   rule.Expr,
			Path:   ctx.Path,
			Scope:  ctx.scopeLabel(),
		})
	}
	return passed, nil
}

// Evaluate executes expr with ctx, logging the attempt.
func (c *RuleChecker) Evaluate(ctx RuleContext, expr string) (any, error) {
	if expr == "" {
		return nil, ErrEmptyExpression
	}
	evaluator, err := c.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	ctx = ctx.withDefaults().withDefaultScope(c.cfg.scope)
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = annotate(evalErr, EvaluationError{Engine: engine, Phase: PhaseRun, Expr: expr, Path: ctx.Path, Scope: ctx.scopeLabel()})
	if evalErr != nil {
		value = nil
	}
	c.logEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Path:     ctx.Path,
		Scope:    ctx.scopeLabel(),
		Duration: duration,
		Result:   value,
		Err:      evalErr,
	})
	return value, evalErr
}

// Engine reports the name of the engine rules run on.
func (c *RuleChecker) Engine() string {
	evaluator, err := c.resolveEvaluator()
	if err != nil {
		return "unknown"
	}
	return evaluatorEngineName(evaluator)
}

func (c *RuleChecker) resolveEvaluator() (Evaluator, error) {
	if c == nil {
		return nil, ErrNoEvaluator
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.evaluator != nil {
		return c.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := c.cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := c.cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	c.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

// namedEngine is implemented by the built-in evaluators.
type namedEngine interface {
	engine() string
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(namedEngine); ok {
		return named.engine()
	}
	return "custom"
}
