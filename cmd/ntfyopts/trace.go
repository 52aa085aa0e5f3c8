package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func traceCmd() *cobra.Command {
	var (
		src    source
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "trace PATH...",
		Short: "Show where the defaults of fields come from",
		Long: `Resolve each PATH (relative to the notifier, e.g. params.scheme) across
the configuration tiers and print what every tier holds.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tiers, err := src.tiers(cmd.Context())
			if err != nil {
				return err
			}
			stack, err := tiers.Stack()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range args {
				value, trace := stack.ResolveWithTrace(path)
				if asJSON {
					payload, err := trace.ToJSON()
					if err != nil {
						return err
					}
					fmt.Fprintln(out, string(payload))
					continue
				}

				winner := "unset"
				if provenance, ok := trace.Winner(); ok {
					winner = provenance.Scope.Name
				}
				fmt.Fprintf(out, "%s = %q (%s)\n", path, value, winner)
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, layer := range trace.Layers {
					fmt.Fprintf(w, "  %s\t%t\t%q\t%s\n", layer.Scope.Name, layer.Found, layer.Value, layer.SnapshotID)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}

	src.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print each trace as JSON")

	return cmd
}
