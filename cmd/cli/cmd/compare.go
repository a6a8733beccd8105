// Package cmd - compare command
package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"craft-cost/adapters/pricesheet"
	"craft-cost/core/diff"
	"craft-cost/core/output"
	"craft-cost/internal/logging"
)

var (
	compareWith      string
	compareRate      string
	compareThreshold float64
)

// compareCmd shows how a price sheet changes the cost of a product
var compareCmd = &cobra.Command{
	Use:   "compare <product>",
	Short: "Compare a product's cost before and after applying a price sheet",
	Long: `Compute the cost of a product with the current prices, apply a price
sheet, compute again and list every material whose cost changed.

Example:
  craft-cost compare --with prices-next.hcl 武器箱`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&compareWith, "with", "w", "", "price sheet to compare against (required)")
	compareCmd.Flags().StringVarP(&compareRate, "rate", "r", "", "success rate in percent (1-100)")
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", 0, "relative change treated as unchanged, e.g. 0.01")
	compareCmd.MarkFlagRequired("with")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sheet, err := pricesheet.Load(compareWith)
	if err != nil {
		return err
	}
	s, err := loadSession(ctx)
	if err != nil {
		return err
	}
	eng := s.engine
	rate := s.successRate(compareRate, cmd.Flags().Changed("rate"))

	before, err := eng.Cost(ctx, args[0], rate)
	if err != nil {
		return err
	}
	if unmatched := eng.ApplyPrices(sheet.Prices); len(unmatched) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d price(s) in %s match no material\n", len(unmatched), compareWith)
	}
	after, err := eng.Cost(ctx, before.Product.ID, rate)
	if err != nil {
		return err
	}

	result := diff.NewDiffer(decimal.NewFromFloat(compareThreshold)).Diff(before.Result, after.Result)
	logging.Debug("comparison ready",
		logging.Product(before.Product.ID),
		zap.String("delta", result.TotalDelta.String()),
		zap.Int("changed", len(result.Added)+len(result.Removed)+len(result.Changed)))

	return output.RenderDiff(cmd.OutOrStdout(), before.Product.Name, result, s.outputOptions())
}
