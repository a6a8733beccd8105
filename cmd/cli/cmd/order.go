// Package cmd - order and check commands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"craft-cost/core/output"
)

var strictCheck bool

// orderCmd lists recipes with components first
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "List recipes so that components precede the products using them",
	Long: `List every recipe exactly once, components before the products that
consume them. Recipes caught in component cycles are listed last, in table
order, and reported on stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}
		opts := s.outputOptions()
		out := cmd.OutOrStdout()

		for i, r := range s.engine.Ordered() {
			fmt.Fprintf(out, "%4d  %-8s  %s  [%s %s]\n",
				i+1, r.ID, output.LocalizedName(r.Name, opts.Variant), r.Profession, r.Level)
		}
		if cyclic := s.engine.Cyclic(); len(cyclic) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d recipes are on or behind a component cycle: %v\n", len(cyclic), cyclic)
		}
		return nil
	},
}

// checkCmd reports data problems the engine silently tolerates
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report data problems in the recipe table",
	Long: `Report recipes with no materials, self references, unknown or unpriced
materials and component cycles. Costs are still computed for such data;
this command only points at it. With --strict the first problem fails the
command.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}
		violations, err := s.engine.Check(strictCheck)
		for _, v := range violations {
			fmt.Fprintln(cmd.OutOrStdout(), v.Error())
		}
		if err != nil {
			return err
		}
		if len(violations) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No problems found")
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&strictCheck, "strict", false, "fail on the first problem")

	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(checkCmd)
}
