// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/review-panel/pkg/types"
)

var testWeights = map[string]float64{
	"science_project_manager": 0.13,
	"engineer":                0.05,
	"researcher":              0.37,
	"astronaut":               0.04,
	"sociologist":             0.41,
}

func intp(v int) *int { return &v }

func resultsWithScores(scores map[string]*int) map[string]types.PersonaResult {
	out := make(map[string]types.PersonaResult, len(scores))
	for role, s := range scores {
		out[role] = types.PersonaResult{Role: role, Score: s}
	}
	return out
}

func TestWeightedComposite(t *testing.T) {
	results := resultsWithScores(map[string]*int{
		"science_project_manager": intp(8),
		"engineer":                intp(7),
		"researcher":              intp(9),
		"astronaut":               intp(6),
		"sociologist":             intp(8),
	})
	assert.InDelta(t, 8.24, WeightedComposite(results, testWeights), 1e-9)
}

func TestWeightedCompositeMissingScoreNotRenormalized(t *testing.T) {
	results := resultsWithScores(map[string]*int{
		"science_project_manager": intp(8),
		"engineer":                intp(7),
		"researcher":              nil,
		"astronaut":               intp(6),
		"sociologist":             intp(8),
	})
	// The researcher weight simply drops out of the sum.
	assert.InDelta(t, 4.91, WeightedComposite(results, testWeights), 1e-9)
}

func TestWeightedCompositeUnknownRoleIgnored(t *testing.T) {
	results := resultsWithScores(map[string]*int{"intruder": intp(10)})
	assert.Zero(t, WeightedComposite(results, testWeights))
}

func TestSpearmanMonotonic(t *testing.T) {
	assert.InDelta(t, 1.0, Spearman([]float64{1, 5, 9}, []float64{10, 20, 30}), 1e-9)
	assert.InDelta(t, -1.0, Spearman([]float64{1, 5, 9}, []float64{30, 20, 10}), 1e-9)
}

func TestSpearmanTiesGetAverageRank(t *testing.T) {
	got := Spearman([]float64{1, 2, 2, 3}, []float64{1, 2, 3, 4})
	assert.InDelta(t, 0.948683, got, 1e-5)
}

func TestSpearmanConstantInput(t *testing.T) {
	assert.Zero(t, Spearman([]float64{4, 4, 4}, []float64{1, 2, 3}))
}

func evalWithScore(topic string, score *int) types.TopicEvaluation {
	eval := types.TopicEvaluation{
		Topic:   topic,
		Results: resultsWithScores(map[string]*int{"researcher": score}),
	}
	if score != nil {
		eval.Stats.Valid = 1
	}
	eval.Stats.Total = 1
	return eval
}

func TestCorrelateWithPriorities(t *testing.T) {
	evals := []types.TopicEvaluation{
		evalWithScore("alpha", intp(9)),
		evalWithScore("beta", intp(7)),
		evalWithScore("gamma", intp(5)),
	}

	// Priority 1 is highest, so descending scores align perfectly.
	corr, err := CorrelateWithPriorities(evals, []int{1, 2, 3}, testWeights)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, corr.Coefficient, 1e-9)
	assert.Equal(t, 3, corr.ValidComparisons)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, corr.Topics)
}

func TestCorrelateSkipsScorelessTopics(t *testing.T) {
	evals := []types.TopicEvaluation{
		evalWithScore("alpha", intp(9)),
		evalWithScore("beta", nil),
		evalWithScore("gamma", intp(5)),
	}

	corr, err := CorrelateWithPriorities(evals, []int{1, 2, 3}, testWeights)
	require.NoError(t, err)
	assert.Equal(t, 2, corr.ValidComparisons)
	assert.Equal(t, []string{"alpha", "gamma"}, corr.Topics)
}

func TestCorrelateInsufficientData(t *testing.T) {
	evals := []types.TopicEvaluation{
		evalWithScore("alpha", intp(9)),
		evalWithScore("beta", nil),
	}

	_, err := CorrelateWithPriorities(evals, []int{1, 2}, testWeights)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCorrelateLengthMismatch(t *testing.T) {
	_, err := CorrelateWithPriorities([]types.TopicEvaluation{evalWithScore("alpha", intp(9))}, []int{1, 2}, testWeights)
	assert.Error(t, err)
}

func TestStrength(t *testing.T) {
	assert.Equal(t, "very strong", Strength(-0.91))
	assert.Equal(t, "strong", Strength(0.65))
	assert.Equal(t, "moderate", Strength(0.4))
	assert.Equal(t, "weak", Strength(-0.25))
	assert.Equal(t, "very weak", Strength(0.1))
}

func TestFormatReport(t *testing.T) {
	mean := 8.0
	stddev := 0.0
	minScore, maxScore := 8, 8
	eval := types.TopicEvaluation{
		Topic: "Lunar dust mitigation",
		Results: map[string]types.PersonaResult{
			"researcher": {Role: "researcher", Score: intp(8), ScoreTier: types.TierOverall},
			"engineer":   {Role: "engineer"},
		},
		Stats: types.SummaryStats{Mean: &mean, StdDev: &stddev, Min: &minScore, Max: &maxScore, Valid: 1, Total: 2},
	}
	corr := &CorrelationResult{Coefficient: 0.85, ValidComparisons: 4}

	var buf bytes.Buffer
	FormatReport(&buf, []types.TopicEvaluation{eval}, []string{"researcher", "engineer"}, testWeights, corr)

	out := buf.String()
	assert.Contains(t, out, "RESEARCH TOPIC EVALUATION REPORT")
	assert.Contains(t, out, "TOPIC 1: Lunar dust mitigation")
	assert.Contains(t, out, "Average Score: 8.00")
	assert.Contains(t, out, "Weighted Composite: 2.96")
	assert.Contains(t, out, "researcher:               8 (overall_marker)")
	assert.Contains(t, out, "engineer:                 Failed")
	assert.Contains(t, out, "Spearman Correlation Coefficient: 0.8500")
	assert.Contains(t, out, "Correlation strength: very strong")
}

func TestFormatReportNoScores(t *testing.T) {
	eval := types.TopicEvaluation{Topic: "dead topic", Results: map[string]types.PersonaResult{}}
	var buf bytes.Buffer
	FormatReport(&buf, []types.TopicEvaluation{eval}, nil, testWeights, nil)
	assert.Contains(t, buf.String(), "No valid scores obtained")
	assert.NotContains(t, buf.String(), "CORRELATION ANALYSIS")
}
