// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the review-panel CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/review-panel/internal/literature"
	"github.com/pdiddy/review-panel/internal/llm"
	"github.com/pdiddy/review-panel/internal/logging"
	"github.com/pdiddy/review-panel/internal/panel"
	"github.com/pdiddy/review-panel/internal/persona"
	"github.com/pdiddy/review-panel/internal/secrets"
	"github.com/pdiddy/review-panel/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the review-panel CLI.
var rootCmd = &cobra.Command{
	Use:   "review-panel",
	Short: "Multi-persona evaluation of research topic proposals",
	Long: `review-panel scores research topic proposals through a panel of five
domain personas backed by a chat-completion model. Each persona evaluates the
topic against its own criteria; the panel aggregates per-persona scores into
summary statistics and a weighted composite.

Topics can optionally be grounded in literature background retrieved from the
CORE academic API before evaluation. Batch runs correlate composite scores
against externally supplied priorities and archive results to SQLite.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; absence is not an error.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./review-panel.yaml or ~/.config/review-panel/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("review-panel")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "review-panel"))
		}
	}

	viper.SetEnvPrefix("REVIEW_PANEL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the runtime configuration: shipped defaults, config
// file and environment overrides, then secret fallbacks for API keys.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()

	setString := func(dst *string, key string) {
		if viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}
	setString(&cfg.Model.APIURL, "model.api_url")
	setString(&cfg.Model.Model, "model.model")
	setString(&cfg.Model.APIKey, "model.api_key")
	if viper.IsSet("model.temperature") {
		cfg.Model.Temperature = viper.GetFloat64("model.temperature")
	}
	if viper.IsSet("model.top_p") {
		cfg.Model.TopP = viper.GetFloat64("model.top_p")
	}
	if viper.IsSet("model.max_tokens") {
		cfg.Model.MaxTokens = viper.GetInt("model.max_tokens")
	}
	if viper.IsSet("model.max_retries") {
		cfg.Model.MaxRetries = viper.GetInt("model.max_retries")
	}
	if viper.IsSet("model.timeout") {
		cfg.Model.Timeout = viper.GetDuration("model.timeout")
	}

	setString(&cfg.Literature.BaseURL, "literature.base_url")
	setString(&cfg.Literature.APIKey, "literature.api_key")
	if viper.IsSet("literature.enabled") {
		cfg.Literature.Enabled = viper.GetBool("literature.enabled")
	}
	if viper.IsSet("literature.max_results") {
		cfg.Literature.MaxResults = viper.GetInt("literature.max_results")
	}

	if viper.IsSet("panel.parallel") {
		cfg.Panel.Parallel = viper.GetBool("panel.parallel")
	}
	if viper.IsSet("panel.weights") {
		weights := make(map[string]float64)
		if err := viper.UnmarshalKey("panel.weights", &weights); err != nil {
			return cfg, fmt.Errorf("parsing panel.weights: %w", err)
		}
		cfg.Panel.Weights = weights
	}

	setString(&cfg.Server.Addr, "server.addr")
	setString(&cfg.Archive.Path, "archive.path")

	cfg.Model.APIKey = secrets.Fallback(cfg.Model.APIKey, loadedSecrets, secrets.ModelAPIKey)
	cfg.Literature.APIKey = secrets.Fallback(cfg.Literature.APIKey, loadedSecrets, secrets.LiteratureAPIKey)

	return cfg, nil
}

func newLogger() *logrus.Logger {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	return logging.New(os.Stderr, level)
}

// buildPanel wires the model client, literature pipeline, and persona
// evaluators into a ready panel.
func buildPanel(cfg types.Config, log *logrus.Logger) (*panel.Panel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model := llm.NewClient(cfg.Model, log)

	var background panel.BackgroundProvider
	if cfg.Literature.Enabled {
		searcher := literature.NewClient(cfg.Literature, log)
		background = literature.NewService(model, searcher, log)
	}

	evaluators := make([]panel.TopicEvaluator, 0, len(persona.Profiles))
	for _, p := range persona.Profiles {
		evaluators = append(evaluators, persona.NewEvaluator(p, model))
	}

	return panel.New(evaluators, background, cfg.Panel, cfg.Literature.Enabled, log), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
