// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/review-panel/pkg/types"
)

func testConfig(url string) types.ModelConfig {
	return types.ModelConfig{
		HTTPConfig:  types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		APIURL:      url,
		Model:       "test-model",
		Temperature: 0.7,
		TopP:        0.7,
		MaxTokens:   100,
		MaxRetries:  3,
	}
}

func chatHandler(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		})
	}
}

func TestGenerateReturnsFirstChoice(t *testing.T) {
	var gotReq chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		chatHandler("a fine answer")(w, r)
	}))
	defer ts.Close()

	c := NewClient(testConfig(ts.URL), nil)
	got, err := c.Generate(context.Background(), []types.Message{{Role: "user", Content: "hi"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "a fine answer", got)

	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, 0.7, gotReq.Temperature)
	assert.Equal(t, 100, gotReq.MaxTokens)
}

func TestGenerateSamplingOverrides(t *testing.T) {
	var gotReq chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		chatHandler("ok")(w, r)
	}))
	defer ts.Close()

	temp, topP := 0.3, 0.9
	c := NewClient(testConfig(ts.URL), nil)
	_, err := c.Generate(context.Background(), []types.Message{{Role: "user", Content: "hi"}},
		Options{Temperature: &temp, TopP: &topP})
	require.NoError(t, err)

	assert.Equal(t, 0.3, gotReq.Temperature)
	assert.Equal(t, 0.9, gotReq.TopP)
}

func TestGenerateRetriesTransportAndServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		chatHandler("third time lucky")(w, r)
	}))
	defer ts.Close()

	c := NewClient(testConfig(ts.URL), nil)
	got, err := c.Generate(context.Background(), []types.Message{{Role: "user", Content: "hi"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "third time lucky", got)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGenerateExhaustsRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(testConfig(ts.URL), nil)
	_, err := c.Generate(context.Background(), []types.Message{{Role: "user", Content: "hi"}}, Options{})
	assert.ErrorIs(t, err, ErrNoResponse)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "MaxRetries bounds the attempt count")
}

func TestGenerateMissingChoicesNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer ts.Close()

	c := NewClient(testConfig(ts.URL), nil)
	_, err := c.Generate(context.Background(), []types.Message{{Role: "user", Content: "hi"}}, Options{})
	assert.ErrorIs(t, err, ErrNoResponse)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "a protocol fault must not be retried")
}

func TestGenerateStripsThinkingByDefault(t *testing.T) {
	ts := httptest.NewServer(chatHandler("<think>let me ponder\nacross lines</think>The verdict."))
	defer ts.Close()

	c := NewClient(testConfig(ts.URL), nil)

	got, err := c.Generate(context.Background(), []types.Message{{Role: "user", Content: "hi"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "The verdict.", got)

	got, err = c.Generate(context.Background(), []types.Message{{Role: "user", Content: "hi"}},
		Options{PreserveThinking: true})
	require.NoError(t, err)
	assert.Contains(t, got, "<think>")
}

func TestStripThinking(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no markup", "plain text", "plain text"},
		{"single span", "<think>hmm</think>answer", "answer"},
		{"multiline span", "<think>line one\nline two</think>\nanswer", "answer"},
		{"multiple spans", "<think>a</think>x<think>b</think>y", "xy"},
		{"unclosed tag kept", "<think>never closed", "<think>never closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripThinking(tt.in))
		})
	}
}

func TestAuthorizationHeaderOnlyForPublicProvider(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		chatHandler("ok")(w, r)
	}))
	defer ts.Close()

	cfg := testConfig(ts.URL)
	cfg.APIKey = "sk-test"
	c := NewClient(cfg, nil)
	_, err := c.Generate(context.Background(), []types.Message{{Role: "user", Content: "hi"}}, Options{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "local endpoints must not receive the bearer token")
}
