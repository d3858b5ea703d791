// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm is the single point of contact with the chat-completion model
// service. It builds requests, applies sampling parameters, retries transient
// failures, and optionally strips reasoning markup from responses.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/review-panel/internal/logging"
	"github.com/pdiddy/review-panel/pkg/types"
)

// thinkPattern matches <think>...</think> spans, including multi-line ones.
var thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

// ErrNoResponse is returned when every attempt failed or the provider broke
// the response contract. Callers treat it as an absent result, not a fault.
var ErrNoResponse = fmt.Errorf("model service returned no usable response")

// Client talks to an OpenAI-style chat-completions endpoint. It holds no
// mutable state across calls beyond its static configuration.
type Client struct {
	cfg        types.ModelConfig
	httpClient *http.Client
	log        *logrus.Logger
}

// NewClient builds a Client from cfg. A nil log discards client logging.
func NewClient(cfg types.ModelConfig, log *logrus.Logger) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// Options overrides the configured sampling defaults for one call.
type Options struct {
	// Temperature overrides the default sampling temperature when non-nil.
	Temperature *float64

	// TopP overrides the default nucleus parameter when non-nil.
	TopP *float64

	// PreserveThinking keeps <think>...</think> spans in the returned text.
	// Evaluation paths enable this so the raw response stays auditable.
	PreserveThinking bool
}

// chat-completion wire structures.
type chatRequest struct {
	Model       string          `json:"model"`
	Messages    []types.Message `json:"messages"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
	MaxTokens   int             `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the messages to the model service and returns the first
// choice's content. Transport-level failures and non-2xx statuses are
// retried with the same payload up to MaxRetries attempts. A 200 with no
// choices is a protocol fault and is not retried: a broken contract will
// not converge. On exhaustion Generate returns ErrNoResponse; no other
// failure escapes.
func (c *Client) Generate(ctx context.Context, messages []types.Message, opts Options) (string, error) {
	payload := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		TopP:        c.cfg.TopP,
		MaxTokens:   c.cfg.MaxTokens,
	}
	if opts.Temperature != nil {
		payload.Temperature = *opts.Temperature
	}
	if opts.TopP != nil {
		payload.TopP = *opts.TopP
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		content, retryable, err := c.attempt(ctx, body)
		if err == nil {
			if opts.PreserveThinking {
				return content, nil
			}
			return StripThinking(content), nil
		}

		c.log.WithFields(logrus.Fields{
			"attempt": attempt,
			"max":     c.cfg.MaxRetries,
		}).Warnf("model request failed: %v", err)

		if !retryable {
			return "", ErrNoResponse
		}
		if ctx.Err() != nil {
			return "", ErrNoResponse
		}
	}
	return "", ErrNoResponse
}

// attempt performs one request. The second return reports whether the
// failure is worth retrying.
func (c *Client) attempt(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if strings.Contains(c.cfg.APIURL, "openai.com") {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", true, fmt.Errorf("model service returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", false, fmt.Errorf("parsing model response: %w", err)
	}
	if len(cr.Choices) == 0 {
		// Contract violation, not transience.
		return "", false, fmt.Errorf("model response carried no choices")
	}
	return cr.Choices[0].Message.Content, false, nil
}

// Ping checks that the model service is reachable and answering.
func (c *Client) Ping(ctx context.Context) error {
	messages := []types.Message{
		{Role: "user", Content: "Hello, please respond with 'Connection successful'"},
	}
	if _, err := c.Generate(ctx, messages, Options{}); err != nil {
		return fmt.Errorf("model service unreachable: %w", err)
	}
	return nil
}

// StripThinking removes <think>...</think> spans and trims the remainder.
// It is a pure text filter with no effect on retry behavior.
func StripThinking(text string) string {
	return strings.TrimSpace(thinkPattern.ReplaceAllString(text, ""))
}
