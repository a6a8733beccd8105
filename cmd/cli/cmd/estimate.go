// Package cmd - estimate command
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"craft-cost/core/engine"
	"craft-cost/core/output"
	"craft-cost/internal/errors"
	"craft-cost/internal/logging"
)

var (
	outputFormat   string
	successRate    string
	showTree       bool
	saveDir        string
	priceOverrides []string
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate <product>",
	Short: "Compute the cost of one craft of a product",
	Long: `Compute the total material cost of one craft of a product and show
which raw materials it is made of.

The product may be given by name or by id (COMP0012). The success rate
is a percentage between 1 and 100; at 50% every craft is expected to be
attempted twice, doubling material use.

Examples:
  craft-cost estimate 长剑
  craft-cost estimate --rate 50 武器箱
  craft-cost estimate --set 铁矿石=12 --set 木材=4 武器箱
  craft-cost estimate --tree --save reports/ 武器箱`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (text, json); default from config")
	estimateCmd.Flags().StringVarP(&successRate, "rate", "r", "", "success rate in percent (1-100)")
	estimateCmd.Flags().BoolVarP(&showTree, "tree", "t", false, "also print the bill-of-materials tree")
	estimateCmd.Flags().StringVar(&saveDir, "save", "", "also write the text report into this directory")
	estimateCmd.Flags().StringArrayVar(&priceOverrides, "set", nil, "override a material price, name=price (repeatable)")

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := loadSession(ctx)
	if err != nil {
		return err
	}
	eng := s.engine

	for _, raw := range priceOverrides {
		name, price, err := parsePriceOverride(raw)
		if err != nil {
			return err
		}
		if err := eng.SetPrice(name, price); err != nil {
			return err
		}
	}

	format := outputFormat
	if format == "" {
		format = s.cfg.Output.DefaultFormat
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}

	rate := s.successRate(successRate, cmd.Flags().Changed("rate"))
	est, err := eng.Cost(ctx, args[0], rate)
	if err != nil {
		return err
	}
	logging.Debug("estimate ready",
		logging.Product(est.Product.ID),
		zap.String("total", est.Total.String()),
		zap.Duration("duration", est.Duration))

	opts := s.outputOptions()
	formatter, ok := output.NewRegistry(opts).Get(f)
	if !ok {
		return errors.Newf(errors.TypeInternal, "no formatter for %s", f)
	}

	out := cmd.OutOrStdout()
	if err := formatter.Render(out, est); err != nil {
		return err
	}

	if showTree || (s.cfg.Output.ShowTree && f == output.FormatText) {
		root, err := eng.Tree(ctx, est.Product.ID, rate)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		if err := output.RenderTree(out, root, opts); err != nil {
			return err
		}
	}

	if saveDir != "" {
		path, err := saveReport(saveDir, est, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", path)
	}
	return nil
}

// saveReport writes the text report into dir and returns its path
func saveReport(dir string, est *engine.Estimate, opts output.Options) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, output.ReportFilename(est, opts))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := output.TextReport(file, est, opts); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", errors.Wrapf(errors.TypeInternal, err, "closing %s", path)
	}
	return path, nil
}
