package ntfy

import (
	"errors"
	"fmt"
)

var (
	ErrNameRequired    = errors.New("ntfy: notifier name must be provided")
	ErrBindingRequired = errors.New("ntfy: form binding must be provided")
)

// FieldError reports a field whose effective value breaks a rule. Err holds
// the evaluator failure when the rule could not be evaluated.
type FieldError struct {
	Path    string
	Message string
	Value   string
	Err     error
}

func (e *FieldError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("ntfy: %s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("ntfy: %s: %s", e.Path, e.Message)
}

func (e *FieldError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FieldErrors extracts every *FieldError joined into err.
func FieldErrors(err error) []*FieldError {
	if err == nil {
		return nil
	}
	var out []*FieldError
	var fieldErr *FieldError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			out = append(out, FieldErrors(inner)...)
		}
		return out
	}
	if errors.As(err, &fieldErr) {
		out = append(out, fieldErr)
	}
	return out
}
