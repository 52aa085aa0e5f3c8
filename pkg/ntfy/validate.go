package ntfy

import (
	"context"
	"errors"
	"strings"

	opts "github.com/goliatone/go-notify-options"
	"github.com/goliatone/go-notify-options/pkg/activity"
)

// PortRule accepts an empty port or one in 1-65535.
const PortRule = `value == "" || (int(value) >= 1 && int(value) <= 65535)`

var fieldRules = []opts.Rule{
	{Path: "url_fields.host", Expr: `value != ""`, Message: "host is required"},
	{Path: "url_fields.topic", Expr: `value != ""`, Message: "topic is required"},
	{Path: "url_fields.port", Expr: PortRule, Message: "port must be a number between 1 and 65535"},
	{Path: "options.max_tries", Expr: `value == "" || int(value) >= 0`, Message: "max tries must be a whole number of zero or more"},
	{Path: "options.delay", Expr: `value == "" || is_duration(value)`, Message: "delay must be a duration such as 1h2m3s"},
	{Path: "url_fields.attach", Expr: `value == "" || is_url(value)`, Message: "attach must be an http(s) URL"},
	{Path: "url_fields.click", Expr: `value == "" || is_url(value)`, Message: "click must be an http(s) URL"},
	{Path: "params.icon", Expr: `value == "" || is_url(value)`, Message: "icon must be an http(s) URL"},
}

// Rules returns the rules Validate checks. They call the helpers of
// RuleFunctions.
func Rules() []opts.Rule {
	out := make([]opts.Rule, len(fieldRules))
	copy(out, fieldRules)
	return out
}

// Validate checks the effective value of every field against the rules and
// the select option sets. Failures are returned joined as *FieldError.
func (e *Editor) Validate(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var failures []error
	for _, rule := range fieldRules {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, trace := e.stack.ResolveWithTrace(rule.Path)
		value := e.Effective(rule.Path)
		passed, err := e.checker.Check(opts.RuleContext{
			Path:      rule.Path,
			Value:     value,
			ScopeName: winningScope(trace, e.stored(rule.Path)),
		}, rule)
		if err == nil && passed {
			continue
		}
		failures = append(failures, e.fail(ctx, rule.Path, rule.Message, value, err))
	}

	for _, field := range selectFields {
		value := e.Effective(field.path)
		if value == "" {
			continue
		}
		if _, ok := opts.Normalize(field.options, value); ok {
			continue
		}
		message := field.path[strings.LastIndex(field.path, ".")+1:] + " must be one of " + strings.Join(field.options.Values(), ", ")
		failures = append(failures, e.fail(ctx, field.path, message, value, nil))
	}
	return errors.Join(failures...)
}

func (e *Editor) fail(ctx context.Context, rel, message, value string, cause error) error {
	fieldErr := &FieldError{
		Path:    e.Path(rel),
		Message: message,
		Value:   value,
		Err:     cause,
	}
	e.logger.LogEditor(LogEvent{
		Notifier: e.name,
		Path:     fieldErr.Path,
		Action:   ActionInvalid,
		NewValue: value,
		Message:  message,
		Err:      cause,
	})
	_, trace := e.stack.ResolveWithTrace(rel)
	tier := activity.TierContext{}
	if winner, ok := trace.Winner(); ok && e.stored(rel) == "" {
		tier = activity.TierContext{
			Name:       winner.Scope.Name,
			Label:      winner.Scope.Label,
			Priority:   winner.Scope.Priority,
			SnapshotID: winner.SnapshotID,
		}
	}
	event := activity.BuildFieldInvalidEvent(activity.FieldEventInput{
		ActorID:      e.actor,
		Notifier:     e.name,
		NotifierType: Type,
		Path:         fieldErr.Path,
		NewValue:     value,
		Message:      message,
		Tier:         tier,
	})
	if err := e.emit(ctx, event); err != nil {
		e.logger.LogEditor(LogEvent{
			Notifier: e.name,
			Path:     fieldErr.Path,
			Action:   ActionInvalid,
			Message:  "activity emission failed",
			Err:      err,
		})
	}
	return fieldErr
}

// winningScope names where the effective value came from: the form itself
// when it holds a value, otherwise the strongest tier that supplied one.
func winningScope(trace opts.Trace, stored string) string {
	if stored != "" {
		return "form"
	}
	if winner, ok := trace.Winner(); ok {
		return winner.Scope.Name
	}
	return ""
}
