package ntfy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	opts "github.com/goliatone/go-notify-options"
	"github.com/goliatone/go-notify-options/layering"
	"github.com/goliatone/go-notify-options/pkg/activity"
	"github.com/goliatone/go-notify-options/pkg/form"
)

// EditorOption configures an Editor.
type EditorOption func(*editorConfig)

type editorConfig struct {
	checker  *opts.RuleChecker
	ruleOpts []opts.Option
	logger   Logger
	emitter  *activity.Emitter
	actor    string
}

// WithEvaluator selects the engine rules run on. The evaluator needs the
// RuleFunctions registry. Ignored when WithRuleChecker is also given.
func WithEvaluator(evaluator opts.Evaluator) EditorOption {
	return func(cfg *editorConfig) {
		if evaluator != nil {
			cfg.ruleOpts = append(cfg.ruleOpts, opts.WithEvaluator(evaluator))
		}
	}
}

// WithRuleChecker supplies a preconfigured rule checker.
func WithRuleChecker(checker *opts.RuleChecker) EditorOption {
	return func(cfg *editorConfig) {
		cfg.checker = checker
	}
}

// WithLogger attaches an editor logger.
func WithLogger(logger Logger) EditorOption {
	return func(cfg *editorConfig) {
		cfg.logger = logger
	}
}

// WithActivity emits an activity event for every write-back and rule failure.
func WithActivity(emitter *activity.Emitter) EditorOption {
	return func(cfg *editorConfig) {
		cfg.emitter = emitter
	}
}

// WithActor sets the actor id recorded on activity events.
func WithActor(id string) EditorOption {
	return func(cfg *editorConfig) {
		cfg.actor = strings.TrimSpace(id)
	}
}

type selectField struct {
	path     string
	options  opts.OptionSet
	fallback string
}

var selectFields = []selectField{
	{path: "params.scheme", options: schemeOptions, fallback: FallbackScheme},
	{path: "params.priority", options: priorityOptions, fallback: FallbackPriority},
}

// Editor is the ntfy configuration editor for one notifier. It is bound to a
// single notifier name and tier set for its whole life; editing another
// notifier needs a new Editor.
type Editor struct {
	name    string
	binding form.Binding
	stack   *opts.Stack[Channel]
	checker *opts.RuleChecker
	logger  Logger
	emitter *activity.Emitter
	actor   string

	// lower-cased resolved defaults of the select fields, keyed by relative path
	selectDefaults map[string]string

	once sync.Once
}

// New builds an editor for the notifier stored under name in binding.
func New(name string, binding form.Binding, tiers Tiers, options ...EditorOption) (*Editor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if binding == nil {
		return nil, ErrBindingRequired
	}
	stack, err := tiers.Stack()
	if err != nil {
		return nil, fmt.Errorf("ntfy: tiers: %w", err)
	}

	cfg := editorConfig{}
	for _, option := range options {
		if option != nil {
			option(&cfg)
		}
	}
	checker := cfg.checker
	if checker == nil {
		ruleOpts := append([]opts.Option{opts.WithFunctionRegistry(RuleFunctions())}, cfg.ruleOpts...)
		checker = opts.NewRuleChecker(ruleOpts...)
	}
	logger := cfg.logger
	if logger == nil {
		logger = noopLogger{}
	}

	editor := &Editor{
		name:           name,
		binding:        binding,
		stack:          stack,
		checker:        checker,
		logger:         logger,
		emitter:        cfg.emitter,
		actor:          cfg.actor,
		selectDefaults: make(map[string]string, len(selectFields)),
	}
	for _, field := range selectFields {
		editor.selectDefaults[field.path] = strings.ToLower(stack.Resolve(field.path))
	}
	return editor, nil
}

// Name returns the notifier name the editor is bound to.
func (e *Editor) Name() string { return e.name }

// Path returns the form path of a field given relative to the notifier,
// e.g. "params.scheme" -> "alerts.params.scheme".
func (e *Editor) Path(rel string) string {
	return layering.Join(e.name, rel)
}

// Default resolves the inherited value of rel across the tiers.
func (e *Editor) Default(rel string) string {
	return e.stack.Resolve(rel)
}

// Trace reports what every tier holds for rel.
func (e *Editor) Trace(rel string) opts.Trace {
	_, trace := e.stack.ResolveWithTrace(rel)
	return trace
}

// SchemeOptions returns the scheme choices, led by a "(default)" entry when
// the inherited scheme is a known one.
func (e *Editor) SchemeOptions() opts.OptionSet {
	return opts.WithDefaultEntry(schemeOptions, e.selectDefaults["params.scheme"])
}

// PriorityOptions returns the priority choices, led by a "(default)" entry
// when the inherited priority is a known one.
func (e *Editor) PriorityOptions() opts.OptionSet {
	return opts.WithDefaultEntry(priorityOptions, e.selectDefaults["params.priority"])
}

// Initialize synchronises the select fields with the form the first time it
// is called. A field with no inherited default gets its stored value
// rewritten to the canonical spelling, or to the built-in fallback when the
// stored value is not a known option. Fields with an inherited default are
// left untouched. Later calls do nothing and return nil.
//
// Activity failures are returned joined; they never stop a write-back.
func (e *Editor) Initialize(ctx context.Context) error {
	var err error
	e.once.Do(func() {
		err = e.synchronize(ctx)
	})
	return err
}

func (e *Editor) synchronize(ctx context.Context) error {
	var errs []error
	for _, field := range selectFields {
		if e.selectDefaults[field.path] != "" {
			continue
		}
		path := e.Path(field.path)
		stored := e.binding.Get(path)
		raw, _ := stored.(string)

		value, action := field.fallback, ActionDefaulted
		if option, ok := opts.Normalize(field.options, raw); ok {
			value, action = option.Value, ActionNormalized
		}
		e.binding.Set(path, value)

		e.logger.LogEditor(LogEvent{
			Notifier: e.name,
			Path:     path,
			Action:   action,
			OldValue: stored,
			NewValue: value,
		})
		input := activity.FieldEventInput{
			ActorID:      e.actor,
			Notifier:     e.name,
			NotifierType: Type,
			Path:         path,
			OldValue:     stored,
			NewValue:     value,
		}
		event := activity.BuildFieldDefaultedEvent(input)
		if action == ActionNormalized {
			event = activity.BuildFieldNormalizedEvent(input)
		}
		if err := e.emit(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("ntfy: activity for %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

func (e *Editor) emit(ctx context.Context, event activity.Event) error {
	if !e.emitter.Enabled() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return e.emitter.Emit(ctx, event)
}

// stored returns the value the form holds for rel rendered as a string.
func (e *Editor) stored(rel string) string {
	return layering.Stringify(e.binding.Get(e.Path(rel)))
}

// Effective is the value a field ends up with: the stored value when set,
// otherwise the inherited default.
func (e *Editor) Effective(rel string) string {
	return opts.Resolve(e.stored(rel), e.Default(rel))
}
