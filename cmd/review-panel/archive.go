// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/review-panel/internal/report"
	"github.com/pdiddy/review-panel/internal/store"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect archived evaluation runs",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE:  runArchiveList,
}

var archiveShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Print the full report for an archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

func init() {
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	rootCmd.AddCommand(archiveCmd)
}

func openArchive() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Archive.Path)
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	archive, err := openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	runs, err := archive.List(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	fmt.Printf("%-6s %-22s %-8s %s\n", "ID", "CREATED", "TOPICS", "CORRELATION")
	for _, run := range runs {
		correlation := "-"
		if run.Correlation != nil {
			correlation = fmt.Sprintf("%.4f", *run.Correlation)
		}
		fmt.Printf("%-6d %-22s %-8d %s\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.TopicCount, correlation)
	}
	return nil
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	archive, err := store.Open(cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer archive.Close()

	run, err := archive.Show(context.Background(), id)
	if err != nil {
		return err
	}

	var corr *report.CorrelationResult
	if run.Correlation != nil {
		corr = &report.CorrelationResult{Coefficient: *run.Correlation}
		if run.ValidComparisons != nil {
			corr.ValidComparisons = *run.ValidComparisons
		}
	}

	report.FormatReport(os.Stdout, run.Evaluations, rolesOf(run), cfg.Panel.Weights, corr)
	return nil
}

// rolesOf collects the persona roles present in an archived run.
func rolesOf(run *store.Run) []string {
	seen := make(map[string]bool)
	var roles []string
	for _, eval := range run.Evaluations {
		for role := range eval.Results {
			if !seen[role] {
				seen[role] = true
				roles = append(roles, role)
			}
		}
	}
	sort.Strings(roles)
	return roles
}
