// Package cmd provides the CLI commands for craft-cost.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"craft-cost/internal/config"
	"craft-cost/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile        string
	verbose        bool
	materialsPath  string
	recipesPath    string
	priceSheetPath string
	variantFlag    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "craft-cost",
	Short: "Compute crafting costs from material and recipe tables",
	Long: `craft-cost computes the material cost of crafted products.

It reads a material price table and a bill-of-materials table, resolves
nested components and reports the total cost per craft, broken down by
raw material, at a given success rate.

Examples:
  craft-cost estimate 长剑
  craft-cost estimate --rate 50 --tree 武器箱
  craft-cost estimate --prices prices.hcl --format json 武器箱
  craft-cost order
  craft-cost export -o snapshot.json`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	err := rootCmd.Execute()
	logging.Sync()
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file, JSON or YAML (default: built-in settings)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&materialsPath, "materials", "", "material table (overrides config)")
	flags.StringVar(&recipesPath, "recipes", "", "recipe table (overrides config)")
	flags.StringVar(&priceSheetPath, "prices", "", "HCL price sheet to apply (overrides config)")
	flags.StringVar(&variantFlag, "variant", "", "name variant to display: A or B (overrides config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if materialsPath != "" {
		cfg.Input.MaterialsPath = materialsPath
	}
	if recipesPath != "" {
		cfg.Input.RecipesPath = recipesPath
	}
	if priceSheetPath != "" {
		cfg.Input.PriceSheetPath = priceSheetPath
	}
	if variantFlag != "" {
		cfg.Output.Variant = variantFlag
	}

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "craft-cost version %s\n", Version)
	},
}
