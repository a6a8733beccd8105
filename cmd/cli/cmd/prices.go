// Package cmd - price sheet commands
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"craft-cost/adapters/pricesheet"
	"craft-cost/internal/errors"
)

var (
	pricesForce bool
	pricesRate  int
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Price sheet management",
	Long: `Price sheets are HCL files overriding material prices by name:

  success_rate = 80

  price "铁矿石" {
    value = 12
  }

Apply one with --prices or input.price_sheet_path in the config.`,
}

var pricesInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a price sheet listing every material at its current price",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}

		var rate *decimal.Decimal
		if cmd.Flags().Changed("rate") {
			r := parseSuccessRate(fmt.Sprint(pricesRate), s.cfg.Calculation.FallbackSuccessRate)
			rate = &r
		}

		var w io.Writer = cmd.OutOrStdout()
		if len(args) == 1 {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !pricesForce {
				return errors.Newf(errors.TypeInput, "%s already exists (use --force to overwrite)", path)
			}
			file, err := os.Create(path)
			if err != nil {
				return err
			}
			defer file.Close()
			w = file
		}
		return pricesheet.WriteTemplate(w, s.engine.Catalog().Materials(), rate)
	},
}

var pricesCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a price sheet against the material table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := pricesheet.Load(args[0])
		if err != nil {
			return err
		}
		s, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var unknown []string
		for _, name := range sheet.Names {
			if _, ok := s.engine.Catalog().Lookup(name); !ok {
				unknown = append(unknown, name)
			}
		}
		fmt.Fprintf(out, "%d prices, %d match no material\n", len(sheet.Names), len(unknown))
		for _, name := range unknown {
			fmt.Fprintf(out, "  unknown: %s\n", name)
		}
		if sheet.SuccessRate != nil {
			fmt.Fprintf(out, "success_rate = %s\n", sheet.SuccessRate.String())
		}
		return nil
	},
}

func init() {
	pricesInitCmd.Flags().BoolVar(&pricesForce, "force", false, "overwrite an existing file")
	pricesInitCmd.Flags().IntVar(&pricesRate, "rate", 100, "success_rate to write into the sheet")

	pricesCmd.AddCommand(pricesInitCmd)
	pricesCmd.AddCommand(pricesCheckCmd)
	rootCmd.AddCommand(pricesCmd)
}
