package opts

// JSEvaluatorOption configures the JS evaluator. Options compile in every
// build so callers need no build tags of their own.
type JSEvaluatorOption func(*jsEvaluator)

// jsEvaluator runs rule expressions in a fresh goja runtime per evaluation.
// It only implements Evaluator in js_eval builds.
type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// JSWithProgramCache wires a ProgramCache into the JS evaluator.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(e *jsEvaluator) {
		e.cache = cache
	}
}

// JSWithFunctionRegistry exposes registry entries as globals, plus
// call(name, ...args).
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(e *jsEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

func newJSEvaluator(opts []JSEvaluatorOption) *jsEvaluator {
	e := &jsEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}
