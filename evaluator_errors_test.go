package opts

import (
	"errors"
	"testing"
)

func TestAnnotateCreatesEvaluationError(t *testing.T) {
	base := errors.New("boom")
	err := runError("expr", "value != ''", "instance", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" || evalErr.Phase != PhaseRun || evalErr.Scope != "instance" {
		t.Fatalf("unexpected metadata: %+v", evalErr)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
	if annotate(nil, EvaluationError{Engine: "expr"}) != nil {
		t.Fatalf("nil error should stay nil")
	}
}

func TestAnnotateFillsExisting(t *testing.T) {
	base := errors.New("undeclared reference")
	existing := &EvaluationError{Engine: "cel", Phase: PhaseCompile, Err: base}

	err := annotate(existing, EvaluationError{Engine: "expr", Phase: PhaseRun, Expr: "missing", Scope: "defaults", Path: "params.priority"})
	if err != error(existing) {
		t.Fatalf("expected the existing error to be reused, got %v", err)
	}
	if existing.Engine != "cel" || existing.Phase != PhaseCompile {
		t.Fatalf("set fields must not be overwritten: %+v", existing)
	}
	if existing.Expr != "missing" || existing.Scope != "defaults" || existing.Path != "params.priority" {
		t.Fatalf("empty fields should be filled: %+v", existing)
	}
}

func TestEvaluationErrorMessage(t *testing.T) {
	cases := map[string]struct {
		err  *EvaluationError
		want string
	}{
		"full": {
			err:  &EvaluationError{Engine: "expr", Phase: PhaseRun, Expr: "value != ''", Path: "url_fields.host", Scope: "instance", Err: errors.New("boom")},
			want: `opts: expr run expr="value != ''" path=url_fields.host scope=instance: boom`,
		},
		"compile without scope": {
			err:  &EvaluationError{Engine: "cel", Phase: PhaseCompile, Expr: "value ==", Err: errors.New("syntax")},
			want: `opts: cel compile expr="value ==": syntax`,
		},
		"empty expression": {
			err:  &EvaluationError{Engine: "js", Err: ErrEmptyExpression},
			want: "opts: js expr=<empty>: opts: expression must not be empty",
		},
	}
	for name, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("%s\nwant: %s\ngot:  %s", name, tc.want, got)
		}
	}
	var missing *EvaluationError
	if missing.Error() != "<nil>" || missing.Unwrap() != nil {
		t.Fatalf("nil receiver should be safe")
	}
}
