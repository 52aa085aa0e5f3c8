package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	opts "github.com/goliatone/go-notify-options"
	"github.com/goliatone/go-notify-options/pkg/activity"
	"github.com/goliatone/go-notify-options/pkg/form"
	"github.com/goliatone/go-notify-options/pkg/logging"
	"github.com/goliatone/go-notify-options/pkg/ntfy"
	"github.com/spf13/cobra"
)

type fieldsReport struct {
	Notifier string           `json:"notifier"`
	Engine   string           `json:"engine"`
	Fields   []ntfy.FieldView `json:"fields"`
	Written  map[string]any   `json:"written,omitempty"`
	Events   []string         `json:"events,omitempty"`
	Invalid  []invalidField   `json:"invalid,omitempty"`
}

type invalidField struct {
	Path    string `json:"path"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func fieldsCmd() *cobra.Command {
	var (
		src        source
		engine     string
		valuesPath string
		output     string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Show the editor fields of a notifier",
		Long: `Build the ntfy editor for a notifier, run its one-time synchronization
against the form values, then list every field with its resolved default and
report fields that fail validation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tiers, err := src.tiers(ctx)
			if err != nil {
				return err
			}
			values, err := loadValues(valuesPath)
			if err != nil {
				return err
			}
			evaluator, err := newEvaluator(engine, opts.NewProgramCache())
			if err != nil {
				return err
			}

			logger := logging.NewLogger(logLevel, cmd.ErrOrStderr())
			checker := opts.NewRuleChecker(
				opts.WithEvaluator(evaluator),
				opts.WithEvaluatorLogger(logging.EvaluatorLogger(logger)),
			)
			capture := &activity.CaptureHook{}
			binding := form.NewMapBinding(values)

			editor, err := ntfy.New(src.notifier, binding, tiers,
				ntfy.WithRuleChecker(checker),
				ntfy.WithLogger(logging.EditorLogger(logger)),
				ntfy.WithActivity(activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true})),
			)
			if err != nil {
				return err
			}
			if err := editor.Initialize(ctx); err != nil {
				return err
			}

			report := fieldsReport{
				Notifier: editor.Name(),
				Engine:   checker.Engine(),
				Fields:   editor.Fields(),
			}
			if dirty := binding.Dirty(); len(dirty) > 0 {
				report.Written = make(map[string]any, len(dirty))
				for _, path := range dirty {
					report.Written[path] = binding.Get(path)
				}
			}
			validation := editor.Validate(ctx)
			for _, failure := range ntfy.FieldErrors(validation) {
				report.Invalid = append(report.Invalid, invalidField{
					Path:    failure.Path,
					Value:   failure.Value,
					Message: failure.Message,
				})
			}
			report.Events = capture.Verbs()

			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			case "text", "":
				if err := writeFieldsText(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown output %q (want text or json)", output)
			}

			if len(report.Invalid) > 0 {
				return fmt.Errorf("%d field(s) invalid", len(report.Invalid))
			}
			return validation
		},
	}

	src.bind(cmd)
	cmd.Flags().StringVarP(&engine, "engine", "e", "expr", "Rule engine: expr, cel or js")
	cmd.Flags().StringVar(&valuesPath, "values", "", "YAML or JSON file with the current form values")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level for evaluation and editor events")

	return cmd
}

func writeFieldsText(out io.Writer, report fieldsReport) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "FIELD\tKIND\tDEFAULT\tOPTIONS\n")
	for _, field := range report.Fields {
		def := field.Default
		if field.Kind == ntfy.KindBool {
			def = fmt.Sprintf("%t", field.BoolDefault)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", field.Path, field.Kind, def, describeOptions(field.Options))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	written := make([]string, 0, len(report.Written))
	for path := range report.Written {
		written = append(written, path)
	}
	sort.Strings(written)
	for _, path := range written {
		fmt.Fprintf(out, "written %s = %v\n", path, report.Written[path])
	}
	for _, failure := range report.Invalid {
		fmt.Fprintf(out, "invalid %s = %q: %s\n", failure.Path, failure.Value, failure.Message)
	}
	return nil
}

func describeOptions(set opts.OptionSet) string {
	parts := make([]string, 0, len(set))
	for _, option := range set {
		if option.Value == "" {
			parts = append(parts, option.Label)
			continue
		}
		parts = append(parts, option.Value)
	}
	return strings.Join(parts, " | ")
}
