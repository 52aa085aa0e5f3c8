package opts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyExpression is returned when a rule or evaluator is given no
// expression to run.
var ErrEmptyExpression = errors.New("opts: expression must not be empty")

// Phase names the step of an evaluation that failed.
type Phase string

const (
	PhaseCompile Phase = "compile"
	PhaseRun     Phase = "run"
	// PhaseResult marks a rule that ran but did not yield a boolean.
	PhaseResult Phase = "result"
)

// EvaluationError carries the engine, expression and field a rule failure
// belongs to. Path is only set for rules attached to a field.
type EvaluationError struct {
	Engine string
	Phase  Phase
	Expr   string
	Path   string
	Scope  string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("opts: ")
	b.WriteString(e.Engine)
	if e.Phase != "" {
		b.WriteString(" " + string(e.Phase))
	}
	if e.Expr == "" {
		b.WriteString(" expr=<empty>")
	} else {
		fmt.Fprintf(&b, " expr=%q", e.Expr)
	}
	if e.Path != "" {
		b.WriteString(" path=" + e.Path)
	}
	if e.Scope != "" {
		b.WriteString(" scope=" + e.Scope)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func compileError(engine, expr string, err error) error {
	return annotate(err, EvaluationError{Engine: engine, Phase: PhaseCompile, Expr: expr})
}

func runError(engine, expr, scope string, err error) error {
	return annotate(err, EvaluationError{Engine: engine, Phase: PhaseRun, Expr: expr, Scope: scope})
}

// annotate wraps err in an EvaluationError built from meta. When err already
// is one, only its empty fields are filled in.
func annotate(err error, meta EvaluationError) error {
	if err == nil {
		return nil
	}
	var existing *EvaluationError
	if !errors.As(err, &existing) {
		meta.Err = err
		return &meta
	}
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&existing.Engine, meta.Engine)
	fill(&existing.Expr, meta.Expr)
	fill(&existing.Path, meta.Path)
	fill(&existing.Scope, meta.Scope)
	if existing.Phase == "" {
		existing.Phase = meta.Phase
	}
	return existing
}
