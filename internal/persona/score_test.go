// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/review-panel/pkg/types"
)

func TestExtractOverallScoreTiers(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     int
		wantTier types.ScoreTier
		wantOK   bool
	}{
		{
			name:     "explicit overall marker",
			response: "Summary: solid work.\nOverall Score: 8/10",
			want:     8,
			wantTier: types.TierOverall,
		},
		{
			name:     "overall marker case-insensitive",
			response: "overall score 7",
			want:     7,
			wantTier: types.TierOverall,
		},
		{
			name:     "generic score marker",
			response: "My verdict. Score: 6",
			want:     6,
			wantTier: types.TierGeneric,
		},
		{
			name:     "rating marker",
			response: "Rating: 9 for this proposal",
			want:     9,
			wantTier: types.TierGeneric,
		},
		{
			name:     "slash-ten marker",
			response: "I would give this 7/10 overall",
			want:     7,
			wantTier: types.TierGeneric,
		},
		{
			name:     "out-of-ten marker",
			response: "perhaps 5 out of 10",
			want:     5,
			wantTier: types.TierGeneric,
		},
		{
			name:     "bare digit takes the last token",
			response: "We considered 3 options over 2 days and settled on 9",
			want:     9,
			wantTier: types.TierBareDigit,
		},
		{
			name:     "bare ten",
			response: "an unqualified 10",
			want:     10,
			wantTier: types.TierBareDigit,
		},
		{
			name:     "out-of-range overall marker falls through",
			response: "Overall Score: 95\nbut really more like an 8",
			want:     8,
			wantTier: types.TierBareDigit,
		},
		{
			name:     "out-of-range generic marker discarded",
			response: "Score: 0, nothing redeemable",
			wantOK:   false,
		},
		{
			name:     "no digits at all",
			response: "no numeric verdict here",
			wantOK:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tier, ok := ExtractOverallScore(tt.response)
			if tt.wantTier != "" {
				require.True(t, ok)
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.wantTier, tier)
				assert.GreaterOrEqual(t, got, 1)
				assert.LessOrEqual(t, got, 10)
				return
			}
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestExtractDimensionScores(t *testing.T) {
	response := strings.Join([]string{
		"[TECHNICAL FEASIBILITY]",
		"Analysis: Achievable with near-term hardware.",
		"Score: 8/10",
		"",
		"[CREW SAFETY]",
		"Analysis: Radiation exposure stays within limits.",
		"Score: 7",
		"",
		"OVERALL ASSESSMENT",
		"Summary: Strong proposal.",
		"Overall Score: 8/10",
	}, "\n")

	got := ExtractDimensionScores(response)
	assert.Equal(t, map[string]int{
		"TECHNICAL FEASIBILITY": 8,
		"CREW SAFETY":           7,
	}, got)
}

func TestExtractDimensionScoresOverallClosesDimension(t *testing.T) {
	// The overall block's score line must not attach to the last dimension.
	response := strings.Join([]string{
		"[NOVELTY AND INNOVATION]",
		"Score: 6/10",
		"OVERALL ASSESSMENT",
		"Score: 9/10",
	}, "\n")

	got := ExtractDimensionScores(response)
	assert.Equal(t, map[string]int{"NOVELTY AND INNOVATION": 6}, got)
}

func TestExtractDimensionScoresOutOfRangeIgnored(t *testing.T) {
	response := "RISK PROFILE\nScore: 42\nScore: 3/10"
	got := ExtractDimensionScores(response)
	assert.Equal(t, map[string]int{"RISK PROFILE": 3}, got)
}

func TestExtractDimensionScoresUnlistedHeaderIgnored(t *testing.T) {
	response := "GENERAL MUSINGS\nScore: 5/10"
	got := ExtractDimensionScores(response)
	assert.Empty(t, got)
}

func TestExtractDimensionScoresTolerantOfProse(t *testing.T) {
	response := strings.Join([]string{
		"Let me walk through each dimension.",
		"",
		"1. SCIENTIFIC SIGNIFICANCE:",
		"This addresses a fundamental gap.",
		"More prose on a second line.",
		"Score: 9",
		"",
		"2. RESEARCH METHODOLOGY:",
		"Sound but unremarkable.",
		"Score: 6/10",
	}, "\n")

	got := ExtractDimensionScores(response)
	require.Len(t, got, 2)
	assert.Equal(t, 9, got["1. SCIENTIFIC SIGNIFICANCE"])
	assert.Equal(t, 6, got["2. RESEARCH METHODOLOGY"])
}

func TestExtractDimensionScoresAllValuesInRangeAndKeysAllowListed(t *testing.T) {
	// Property check over a messy response: every returned value must be in
	// [1,10] and every key must contain an allow-listed keyword.
	response := strings.Join([]string{
		"[TECHNICAL FEASIBILITY]",
		"Score: 11",
		"Score: 10",
		"[RESOURCE ALLOCATION]",
		"Score: 0",
		"Score: 1",
		"[ETHICAL CONSIDERATIONS]",
		"no score given",
	}, "\n")

	got := ExtractDimensionScores(response)
	for key, v := range got {
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 10)
		assert.True(t, containsAny(strings.ToUpper(key), dimensionKeywords), "key %q not allow-listed", key)
	}
	assert.Equal(t, 10, got["TECHNICAL FEASIBILITY"])
	assert.Equal(t, 1, got["RESOURCE ALLOCATION"])
	_, present := got["ETHICAL CONSIDERATIONS"]
	assert.False(t, present)
}
