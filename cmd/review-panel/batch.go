// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/review-panel/internal/panel"
	"github.com/pdiddy/review-panel/internal/report"
	"github.com/pdiddy/review-panel/internal/store"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate a batch of topics and correlate against priorities",
	Long: `Batch evaluates every topic from a file through the full persona panel.
Plain text files carry one topic per line with # comments skipped; .yaml files
carry a list of {topic, priority} entries. With priorities present (inline or
via --priorities) batch computes the Spearman rank correlation between
weighted composite scores and the priority ordering, where priority 1 is the
most important topic.

Completed runs are archived to SQLite unless --no-archive is set.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringP("file", "f", "", "topics file, one topic per line (required)")
	batchCmd.Flags().String("priorities", "", "comma-separated priority per topic (1 = highest)")
	batchCmd.Flags().Bool("background", true, "retrieve literature background before evaluating")
	batchCmd.Flags().Bool("no-archive", false, "skip writing the run to the archive")
	batchCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	topics, priorities, err := readTopics(path)
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		return fmt.Errorf("no topics found in %s", path)
	}

	if prioritySpec, _ := cmd.Flags().GetString("priorities"); prioritySpec != "" {
		priorities, err = parsePriorities(prioritySpec)
		if err != nil {
			return err
		}
	}
	if priorities != nil && len(priorities) != len(topics) {
		return fmt.Errorf("got %d priorities for %d topics", len(priorities), len(topics))
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

	opts := panel.Options{Parallel: cfg.Panel.Parallel}
	if cmd.Flags().Changed("background") {
		useBackground, _ := cmd.Flags().GetBool("background")
		opts.UseBackground = &useBackground
	}

	ctx := context.Background()
	evals := p.EvaluateTopics(ctx, topics, opts)

	var corr *report.CorrelationResult
	if priorities != nil {
		result, err := report.CorrelateWithPriorities(evals, priorities, cfg.Panel.Weights)
		switch {
		case errors.Is(err, report.ErrInsufficientData):
			log.Warn("fewer than two topics scored, skipping correlation")
		case err != nil:
			return err
		default:
			corr = &result
		}
	}

	report.FormatReport(os.Stdout, evals, p.Roles(), cfg.Panel.Weights, corr)

	if noArchive, _ := cmd.Flags().GetBool("no-archive"); !noArchive {
		archive, err := store.Open(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer archive.Close()

		id, err := archive.Save(ctx, evals, cfg.Panel.Weights, corr)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Archived run %d to %s\n", id, cfg.Archive.Path)
	}

	return nil
}

// topicEntry is one item of a YAML topics file.
type topicEntry struct {
	Topic    string `yaml:"topic"`
	Priority *int   `yaml:"priority"`
}

// readTopics loads topics from a plain text file (one per line, blanks and
// # comments skipped) or, for .yaml/.yml files, a list of topic entries with
// optional priorities. Priorities are returned only when every entry has one.
func readTopics(path string) ([]string, []int, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return readTopicsYAML(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening topics file: %w", err)
	}
	defer f.Close()

	var topics []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		topics = append(topics, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading topics file: %w", err)
	}
	return topics, nil, nil
}

func readTopicsYAML(path string) ([]string, []int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading topics file: %w", err)
	}

	var entries []topicEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	topics := make([]string, 0, len(entries))
	priorities := make([]int, 0, len(entries))
	complete := true
	for _, entry := range entries {
		topic := strings.TrimSpace(entry.Topic)
		if topic == "" {
			return nil, nil, fmt.Errorf("%s: entry with empty topic", path)
		}
		topics = append(topics, topic)
		if entry.Priority != nil {
			priorities = append(priorities, *entry.Priority)
		} else {
			complete = false
		}
	}
	if !complete {
		return topics, nil, nil
	}
	return topics, priorities, nil
}

func parsePriorities(list string) ([]int, error) {
	parts := strings.Split(list, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid priority %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}
