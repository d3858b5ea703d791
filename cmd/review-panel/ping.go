// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/review-panel/internal/llm"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the configured model service",
	RunE:  runPing,
}

func init() {
	pingCmd.Flags().Duration("timeout", 30*time.Second, "overall deadline for the probe")

	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := newLogger()

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := llm.NewClient(cfg.Model, log).Ping(ctx); err != nil {
		return fmt.Errorf("model service unreachable: %w", err)
	}
	fmt.Printf("%s ok (%s, %s)\n", cfg.Model.APIURL, cfg.Model.Model, time.Since(start).Round(time.Millisecond))
	return nil
}
