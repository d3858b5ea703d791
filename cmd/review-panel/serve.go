// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/review-panel/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the evaluation HTTP server",
	Long: `Serve exposes the persona panel over HTTP. POST /evaluate accepts a
topic and returns per-persona scores, summary statistics, and the weighted
composite. GET /healthz reports readiness and the configured roles.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	log := newLogger()

	p, err := buildPanel(cfg, log)
	if err != nil {
		return err
	}

	return server.New(p, cfg.Panel.Weights, log).Run(cfg.Server.Addr)
}
