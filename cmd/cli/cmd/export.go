// Package cmd - export and materials commands
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"craft-cost/core/output"
)

var (
	exportPath      string
	materialProduct string
)

// exportCmd writes a JSON snapshot of the catalog and ordered recipes
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export materials and ordered recipes as JSON",
	Long: `Export every material with its current price and every recipe in
component-first order as one JSON document. The document carries a
random id and a content hash; two exports of identical data share the
hash.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}
		snap, err := output.NewSnapshot(s.engine, s.outputOptions())
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportPath != "" && exportPath != "-" {
			file, err := os.Create(exportPath)
			if err != nil {
				return err
			}
			defer file.Close()
			w = file
		}
		if err := snap.WriteJSON(w); err != nil {
			return err
		}
		if exportPath != "" && exportPath != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Snapshot %s (%d materials, %d recipes) written to %s\n",
				snap.ID, len(snap.Materials), len(snap.Recipes), exportPath)
		}
		return nil
	},
}

// materialsCmd lists the material catalog
var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List materials and their prices",
	Long: `List every material with id, price, source and professions. With
--product the materials that product consumes, directly or through
components, are listed first and marked with '*'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}

		used := make(map[string]bool)
		if materialProduct != "" {
			materials, err := s.engine.UsedMaterials(materialProduct)
			if err != nil {
				return err
			}
			for _, m := range materials {
				used[m.ID] = true
			}
		}
		return output.RenderMaterials(cmd.OutOrStdout(), s.engine.Catalog().Materials(), used, s.outputOptions())
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "output file (default stdout)")
	materialsCmd.Flags().StringVarP(&materialProduct, "product", "p", "", "highlight the materials used by this product")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(materialsCmd)
}
