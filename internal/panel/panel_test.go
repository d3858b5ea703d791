// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package panel

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/review-panel/pkg/types"
)

// --- mocks ---

type mockEvaluator struct {
	role  string
	score *int
	delay time.Duration
	panic bool
	calls int32
}

func (m *mockEvaluator) Role() string { return m.role }

func (m *mockEvaluator) Evaluate(_ context.Context, topic, backgroundContext string) types.PersonaResult {
	atomic.AddInt32(&m.calls, 1)
	if m.panic {
		panic("wiring fault")
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return types.PersonaResult{
		Role:            m.role,
		Topic:           topic,
		Score:           m.score,
		DimensionScores: map[string]int{},
		Analysis:        "analysis from " + m.role,
		BackgroundUsed:  backgroundContext != "",
	}
}

type mockBackground struct {
	calls int32
}

func (m *mockBackground) TopicBackground(_ context.Context, topic string) types.TopicBackground {
	atomic.AddInt32(&m.calls, 1)
	return types.TopicBackground{
		Entities:         []string{"Entity"},
		Backgrounds:      map[string]types.EntityBackground{},
		FormattedContext: "background for " + topic,
	}
}

func intp(n int) *int { return &n }

func boolp(b bool) *bool { return &b }

func fixedPanel(background BackgroundProvider, evaluators ...TopicEvaluator) *Panel {
	return New(evaluators, background, types.PanelConfig{Weights: types.DefaultWeights}, background != nil, nil)
}

// --- fan-out ---

func TestEvaluateTopicSequentialOrder(t *testing.T) {
	a := &mockEvaluator{role: "a", score: intp(8)}
	b := &mockEvaluator{role: "b", score: intp(6)}
	p := fixedPanel(nil, a, b)

	eval := p.EvaluateTopic(context.Background(), "topic", Options{Parallel: false})

	require.Len(t, eval.Results, 2)
	assert.Equal(t, 8, *eval.Results["a"].Score)
	assert.Equal(t, 6, *eval.Results["b"].Score)
	assert.Equal(t, []string{"a", "b"}, p.Roles())
}

func TestEvaluateTopicParallelCollectsAll(t *testing.T) {
	evaluators := []TopicEvaluator{
		&mockEvaluator{role: "slow", score: intp(9), delay: 30 * time.Millisecond},
		&mockEvaluator{role: "fast", score: intp(5)},
		&mockEvaluator{role: "medium", score: intp(7), delay: 10 * time.Millisecond},
	}
	p := fixedPanel(nil, evaluators...)

	eval := p.EvaluateTopic(context.Background(), "topic", Options{Parallel: true})

	require.Len(t, eval.Results, 3, "completion order must not drop results")
	assert.Equal(t, 9, *eval.Results["slow"].Score)
	assert.Equal(t, 5, *eval.Results["fast"].Score)
	assert.Equal(t, 7, *eval.Results["medium"].Score)
}

func TestEvaluateTopicPanicIsolatedToOneRole(t *testing.T) {
	evaluators := []TopicEvaluator{
		&mockEvaluator{role: "healthy1", score: intp(8)},
		&mockEvaluator{role: "faulty", panic: true},
		&mockEvaluator{role: "healthy2", score: intp(6)},
	}
	p := fixedPanel(nil, evaluators...)

	eval := p.EvaluateTopic(context.Background(), "topic", Options{Parallel: true})

	require.Len(t, eval.Results, 3, "a faulting task must not discard sibling results")

	faulty := eval.Results["faulty"]
	assert.Nil(t, faulty.Score)
	assert.Contains(t, faulty.Analysis, "wiring fault")

	assert.Equal(t, 8, *eval.Results["healthy1"].Score)
	assert.Equal(t, 6, *eval.Results["healthy2"].Score)
	assert.Equal(t, 2, eval.Stats.Valid)
	assert.Equal(t, 3, eval.Stats.Total)
}

func TestEvaluateTopicPanicIsolatedSequentially(t *testing.T) {
	evaluators := []TopicEvaluator{
		&mockEvaluator{role: "faulty", panic: true},
		&mockEvaluator{role: "healthy", score: intp(6)},
	}
	p := fixedPanel(nil, evaluators...)

	eval := p.EvaluateTopic(context.Background(), "topic", Options{Parallel: false})

	require.Len(t, eval.Results, 2, "a fault must not abort remaining personas")
	assert.Nil(t, eval.Results["faulty"].Score)
	assert.Equal(t, 6, *eval.Results["healthy"].Score)
}

// --- background sharing ---

func TestBackgroundFetchedOncePerTopic(t *testing.T) {
	bg := &mockBackground{}
	evaluators := []TopicEvaluator{
		&mockEvaluator{role: "a", score: intp(8)},
		&mockEvaluator{role: "b", score: intp(6)},
		&mockEvaluator{role: "c", score: intp(7)},
	}
	p := fixedPanel(bg, evaluators...)

	eval := p.EvaluateTopic(context.Background(), "topic", Options{Parallel: true})

	assert.Equal(t, int32(1), atomic.LoadInt32(&bg.calls), "one fetch shared by all personas")
	require.NotNil(t, eval.Background)
	assert.Equal(t, "background for topic", eval.Background.FormattedContext)
	for role, r := range eval.Results {
		assert.True(t, r.BackgroundUsed, "persona %s must see the shared context", role)
	}
}

func TestBackgroundOverrideDisables(t *testing.T) {
	bg := &mockBackground{}
	p := fixedPanel(bg, &mockEvaluator{role: "a", score: intp(8)})

	eval := p.EvaluateTopic(context.Background(), "topic", Options{UseBackground: boolp(false)})

	assert.Equal(t, int32(0), atomic.LoadInt32(&bg.calls))
	assert.Nil(t, eval.Background)
	assert.False(t, eval.Results["a"].BackgroundUsed)
}

// --- single role ---

func TestEvaluateRole(t *testing.T) {
	p := fixedPanel(nil,
		&mockEvaluator{role: "engineer", score: intp(7)},
		&mockEvaluator{role: "astronaut", score: intp(5)},
	)

	result, err := p.EvaluateRole(context.Background(), "astronaut", "topic", Options{})
	require.NoError(t, err)
	assert.Equal(t, 5, *result.Score)

	_, err = p.EvaluateRole(context.Background(), "barista", "topic", Options{})
	assert.ErrorContains(t, err, "unknown persona role")
}

// --- statistics ---

func TestCompileStats(t *testing.T) {
	results := map[string]types.PersonaResult{
		"a": {Role: "a", Score: intp(8)},
		"b": {Role: "b", Score: intp(6)},
		"c": {Role: "c", Score: intp(10)},
		"d": {Role: "d", Score: nil},
	}

	stats := compileStats(results)

	assert.Equal(t, 3, stats.Valid)
	assert.Equal(t, 4, stats.Total)
	require.NotNil(t, stats.Mean)
	assert.InDelta(t, 8.0, *stats.Mean, 1e-9)
	require.NotNil(t, stats.StdDev)
	// Population stddev of {8, 6, 10}: sqrt(8/3).
	assert.InDelta(t, 1.632993, *stats.StdDev, 1e-5)
	assert.Equal(t, 6, *stats.Min)
	assert.Equal(t, 10, *stats.Max)
}

func TestCompileStatsNoScores(t *testing.T) {
	stats := compileStats(map[string]types.PersonaResult{
		"a": {Role: "a"},
		"b": {Role: "b"},
	})

	assert.Nil(t, stats.Mean)
	assert.Nil(t, stats.StdDev)
	assert.Nil(t, stats.Min)
	assert.Nil(t, stats.Max)
	assert.Equal(t, 0, stats.Valid)
	assert.Equal(t, 2, stats.Total)
}

func TestEvaluateTopicsReturnsOnePerTopic(t *testing.T) {
	p := fixedPanel(nil, &mockEvaluator{role: "a", score: intp(8)})
	evals := p.EvaluateTopics(context.Background(), []string{"t1", "t2", "t3"}, Options{})
	require.Len(t, evals, 3)
	assert.Equal(t, "t1", evals[0].Topic)
	assert.Equal(t, "t3", evals[2].Topic)
}
