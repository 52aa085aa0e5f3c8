// Command ntfyopts inspects ntfy notifier configuration: the fields an
// editor would show, their resolved defaults and where each default came from.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ntfyopts",
		Short: "Inspect ntfy notifier configuration",
		Long: `ntfyopts loads a notifier configuration file and shows how each ntfy
field resolves across the instance, service default and built-in tiers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		fieldsCmd(),
		traceCmd(),
	)
	return rootCmd
}
