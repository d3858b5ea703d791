// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "review-panel/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ModelConfig holds settings for the chat-completion model service.
type ModelConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIURL is the chat-completions endpoint
	// (e.g. "https://api.openai.com/v1/chat/completions" or a local server).
	APIURL string `json:"api_url" yaml:"api_url"`

	// Model is the model identifier sent with every request.
	Model string `json:"model" yaml:"model"`

	// APIKey is the bearer token. Required only when APIURL points at a
	// recognized public provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the default sampling temperature (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// TopP is the default nucleus sampling parameter (default 0.7).
	TopP float64 `json:"top_p" yaml:"top_p"`

	// MaxTokens bounds the generated output length (default 10000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxRetries is the number of attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// LiteratureConfig holds settings for the literature-search service.
type LiteratureConfig struct {
	HTTPConfig `yaml:",inline"`

	// Enabled toggles background retrieval before evaluation.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// BaseURL is the CORE API v3 base URL (default "https://api.core.ac.uk/v3").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey authenticates against the CORE API. When empty the client
	// degrades to a single synthetic placeholder result per query.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the per-entity result limit (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxRetries bounds retries on server errors (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PanelConfig holds settings for the evaluation panel.
type PanelConfig struct {
	// Parallel runs persona evaluations concurrently (default true).
	Parallel bool `json:"parallel" yaml:"parallel"`

	// Weights maps persona role to its share of the weighted composite.
	// Roles without a score contribute nothing; weights are not
	// renormalized when a persona fails.
	Weights map[string]float64 `json:"weights" yaml:"weights"`
}

// ServerConfig holds settings for the HTTP boundary.
type ServerConfig struct {
	// Addr is the listen address (default ":8090").
	Addr string `json:"addr" yaml:"addr"`
}

// ArchiveConfig holds settings for the run archive.
type ArchiveConfig struct {
	// Path is the SQLite database location (default "archive/review-panel.db").
	Path string `json:"path" yaml:"path"`
}

// Config groups all component configurations. It is constructed once at
// process start and passed by reference into constructors.
type Config struct {
	Model      ModelConfig      `json:"model" yaml:"model"`
	Literature LiteratureConfig `json:"literature" yaml:"literature"`
	Panel      PanelConfig      `json:"panel" yaml:"panel"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Archive    ArchiveConfig    `json:"archive" yaml:"archive"`
}

// DefaultWeights is the shipped per-role weight table (sums to 1.00).
var DefaultWeights = map[string]float64{
	"science_project_manager": 0.13,
	"engineer":                0.05,
	"researcher":              0.37,
	"astronaut":               0.04,
	"sociologist":             0.41,
}

// DefaultConfig returns a Config with all defaults populated.
func DefaultConfig() Config {
	return Config{
		Model: ModelConfig{
			HTTPConfig:  HTTPConfig{Timeout: 300 * time.Second, UserAgent: "review-panel/0.1"},
			Temperature: 0.7,
			TopP:        0.7,
			MaxTokens:   10000,
			MaxRetries:  3,
		},
		Literature: LiteratureConfig{
			HTTPConfig: HTTPConfig{Timeout: 300 * time.Second, UserAgent: "review-panel/0.1"},
			Enabled:    true,
			BaseURL:    "https://api.core.ac.uk/v3",
			MaxResults: 5,
			MaxRetries: 3,
		},
		Panel: PanelConfig{
			Parallel: true,
			Weights:  DefaultWeights,
		},
		Server:  ServerConfig{Addr: ":8090"},
		Archive: ArchiveConfig{Path: "archive/review-panel.db"},
	}
}

// Validate checks that the configuration can support the primary evaluation
// path. A missing model endpoint, or a missing key for a public provider, is
// a hard configuration fault: evaluation has no degraded mode.
func (c Config) Validate() error {
	if c.Model.APIURL == "" {
		return fmt.Errorf("model.api_url is not set")
	}
	if c.Model.Model == "" {
		return fmt.Errorf("model.model is not set")
	}
	if strings.Contains(c.Model.APIURL, "openai.com") && c.Model.APIKey == "" {
		return fmt.Errorf("model.api_key is required for %s", c.Model.APIURL)
	}
	return nil
}
