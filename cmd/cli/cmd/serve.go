// Package cmd - serve command
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"craft-cost/api"
	"craft-cost/internal/logging"
)

var serveAddr string

// serveCmd exposes the loaded tables over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve cost queries over HTTP",
	Long: `Load the tables once and answer read-only cost queries over HTTP.

Endpoints:
  POST /estimate   {"product": "武器箱", "success_rate": 50, "tree": true}
  POST /diff       {"product": "武器箱", "base_rate": 100, "head_rate": 50}
  GET  /products   ?profession=武器
  GET  /order
  GET  /health, /version`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := loadSession(ctx)
		if err != nil {
			return err
		}
		srv := api.NewServer(s.engine, Version, s.outputOptions(), logging.Named("api"))
		return srv.ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
