package opts

import (
	"errors"
	"time"
)

// EvaluatorLogEvent describes one rule or expression evaluation.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Path     string
	Scope    string
	Duration time.Duration
	// Result is the raw evaluation output; nil when Err is set.
	Result any
	Err    error
}

// Phase reports where a failed evaluation stopped, or "" on success.
func (e EvaluatorLogEvent) Phase() Phase {
	var evalErr *EvaluationError
	if errors.As(e.Err, &evalErr) {
		return evalErr.Phase
	}
	return ""
}

// Fields flattens the event for structured loggers. Durations are reported
// in fractional milliseconds.
func (e EvaluatorLogEvent) Fields() map[string]any {
	fields := map[string]any{
		"engine":      e.Engine,
		"expr":        e.Expr,
		"scope":       e.Scope,
		"duration_ms": float64(e.Duration.Microseconds()) / 1000,
	}
	if e.Path != "" {
		fields["path"] = e.Path
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
		if phase := e.Phase(); phase != "" {
			fields["phase"] = string(phase)
		}
		return fields
	}
	if passed, ok := e.Result.(bool); ok {
		fields["passed"] = passed
	}
	return fields
}

// EvaluatorLogger receives an event for every evaluation a RuleChecker runs.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

// WithEvaluatorLogger attaches logger to the rule checker. A nil logger
// turns logging off.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *optionsConfig) {
		cfg.logger = logger
	}
}

func (c *RuleChecker) logEvaluation(event EvaluatorLogEvent) {
	if c.cfg.logger != nil {
		c.cfg.logger.LogEvaluation(event)
	}
}
