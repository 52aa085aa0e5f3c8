//go:build !js_eval

package opts

// NewJSEvaluator is unavailable without the js_eval build tag and returns
// nil; callers fall back to the expr engine.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = newJSEvaluator(opts)
	return nil
}
