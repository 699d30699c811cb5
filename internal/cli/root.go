// Package cli implements the relevel command line.
package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var verbose bool

// newRootCmd builds the base command and its subcommands.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "relevel",
		Short: "Check and try out level override rules",
		Long: `A CLI utility for relevel rule files.

Rule files list overrides that change the level an event is displayed at,
without touching the code that emits it.

Examples:
  # Check a rule file
  relevel validate rules.yaml

  # Render the sample events with overrides applied
  relevel demo --rules rules.yaml

  # Same, through zap's JSON encoder
  relevel demo --rules rules.yaml --format zap --json`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")

	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newDemoCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func diagnostics(cmd *cobra.Command) hclog.Logger {
	if !verbose {
		return hclog.NewNullLogger()
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "relevel",
		Level:  hclog.Trace,
		Output: cmd.ErrOrStderr(),
	})
}
