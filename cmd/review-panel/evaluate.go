// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/review-panel/internal/panel"
	"github.com/pdiddy/review-panel/internal/persona"
	"github.com/pdiddy/review-panel/internal/report"
	"github.com/pdiddy/review-panel/pkg/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [topic]",
	Short: "Evaluate a single research topic through the persona panel",
	Long: `Evaluate runs one research topic through all five personas (or a single
persona with --role) and prints the evaluation report. Literature background
retrieval is controlled by the configuration and the --background flag.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().String("role", "", "evaluate with a single persona role only ("+strings.Join(persona.Roles(), ", ")+")")
	evaluateCmd.Flags().Bool("background", true, "retrieve literature background before evaluating")
	evaluateCmd.Flags().Bool("sequential", false, "run personas one at a time instead of concurrently")
	evaluateCmd.Flags().Bool("full", false, "include each persona's complete analysis text")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	topic := strings.TrimSpace(args[0])
	if topic == "" {
		return fmt.Errorf("topic must not be empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	p, err := buildPanel(cfg, log)
	if err != nil {
		return err
	}

	sequential, _ := cmd.Flags().GetBool("sequential")
	opts := panel.Options{Parallel: cfg.Panel.Parallel && !sequential}
	if cmd.Flags().Changed("background") {
		useBackground, _ := cmd.Flags().GetBool("background")
		opts.UseBackground = &useBackground
	}

	ctx := context.Background()

	if role, _ := cmd.Flags().GetString("role"); role != "" {
		result, err := p.EvaluateRole(ctx, role, topic, opts)
		if err != nil {
			return err
		}
		printPersonaResult(result)
		return nil
	}

	eval := p.EvaluateTopic(ctx, topic, opts)

	full, _ := cmd.Flags().GetBool("full")
	if full {
		for _, role := range p.Roles() {
			printPersonaResult(eval.Results[role])
		}
	}

	report.FormatReport(os.Stdout, []types.TopicEvaluation{eval}, p.Roles(), cfg.Panel.Weights, nil)
	return nil
}

func printPersonaResult(r types.PersonaResult) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Persona: %s\n", r.Role)
	if r.Score != nil {
		fmt.Printf("Score: %d (%s)\n", *r.Score, r.ScoreTier)
	} else {
		fmt.Println("Score: failed")
	}
	if len(r.DimensionScores) > 0 {
		fmt.Println("Dimension scores:")
		for _, dim := range sortedKeys(r.DimensionScores) {
			fmt.Printf("  %-28s %d\n", dim, r.DimensionScores[dim])
		}
	}
	fmt.Println(strings.Repeat("-", 60))
	fmt.Println(r.Analysis)
	fmt.Println()
}

// sortedKeys keeps dimension output stable across runs.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
