package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strongdm/relevel/pkg/relevel"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <rules.yaml>",
		Short: "Load a rule file and report every problem in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, path string) error {
	rules, err := relevel.LoadRulesFile(path)
	if err != nil {
		return err
	}

	diagnostics(cmd).Debug("rules loaded", "path", path, "count", len(rules))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d rule(s) OK\n", path, len(rules))
	for i, r := range rules {
		fmt.Fprintf(out, "  %d: %s\n", i, r)
	}
	return nil
}
