package main

import (
	"context"
	"fmt"
	"strings"

	opts "github.com/goliatone/go-notify-options"
	"github.com/goliatone/go-notify-options/pkg/config"
	"github.com/goliatone/go-notify-options/pkg/ntfy"
	"github.com/spf13/cobra"
)

// source holds the flags shared by every command that reads a notifier.
type source struct {
	configPath string
	notifier   string
}

func (s *source) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.configPath, "config", "c", "", "Path to the notifier configuration file")
	cmd.Flags().StringVarP(&s.notifier, "notify", "n", "", "Name of the notifier to inspect")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("notify")
}

func (s *source) tiers(ctx context.Context) (ntfy.Tiers, error) {
	doc, err := config.Load(s.configPath)
	if err != nil {
		return ntfy.Tiers{}, err
	}
	return doc.Tiers(ctx, s.notifier)
}

func newEvaluator(engine string, cache opts.ProgramCache) (opts.Evaluator, error) {
	functions := ntfy.RuleFunctions()
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", "expr":
		return opts.NewExprEvaluator(opts.ExprWithProgramCache(cache), opts.ExprWithFunctionRegistry(functions)), nil
	case "cel":
		return opts.NewCELEvaluator(opts.CELWithProgramCache(cache), opts.CELWithFunctionRegistry(functions)), nil
	case "js":
		if evaluator := opts.NewJSEvaluator(opts.JSWithProgramCache(cache), opts.JSWithFunctionRegistry(functions)); evaluator != nil {
			return evaluator, nil
		}
		return nil, fmt.Errorf("engine %q requires a build with the js_eval tag", engine)
	default:
		return nil, fmt.Errorf("unknown engine %q (want expr, cel or js)", engine)
	}
}

func loadValues(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	return config.LoadValues(path)
}
