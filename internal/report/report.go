// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report aggregates panel output: the weighted composite score,
// batch rank correlation against ground-truth priorities, and the
// human-readable evaluation report.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/review-panel/pkg/types"
)

// ErrInsufficientData is returned when fewer than two topics carry a
// composite score, making rank correlation meaningless.
var ErrInsufficientData = fmt.Errorf("insufficient valid scores for correlation analysis")

// WeightedComposite computes the weighted sum of present overall scores.
// Personas without a score contribute nothing, and the weights are NOT
// renormalized: losing a heavily weighted persona shrinks the composite
// scale. That is the documented contract, locked in by tests.
func WeightedComposite(results map[string]types.PersonaResult, weights map[string]float64) float64 {
	total := 0.0
	for role, r := range results {
		if r.Score == nil {
			continue
		}
		if w, ok := weights[role]; ok {
			total += float64(*r.Score) * w
		}
	}
	return total
}

// CorrelationResult holds the batch rank-correlation outcome.
type CorrelationResult struct {
	// Coefficient is the Spearman rank correlation between composite
	// scores and negated priorities, so higher composite aligning with
	// higher priority (lower priority number) yields a positive value.
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`

	// ValidComparisons counts the topics that entered the correlation.
	ValidComparisons int `json:"valid_comparisons" yaml:"valid_comparisons"`

	// Topics lists the topics that entered, in input order.
	Topics []string `json:"topics" yaml:"topics"`
}

// CorrelateWithPriorities rank-correlates per-topic composite scores with
// externally supplied integer priorities (lower integer = higher priority).
// Topics where no persona produced a score are excluded. Fewer than two
// usable topics yields ErrInsufficientData.
func CorrelateWithPriorities(evals []types.TopicEvaluation, priorities []int, weights map[string]float64) (CorrelationResult, error) {
	if len(evals) != len(priorities) {
		return CorrelationResult{}, fmt.Errorf("got %d evaluations but %d priorities", len(evals), len(priorities))
	}

	var composites []float64
	var negPriorities []float64
	var topics []string
	for i, eval := range evals {
		if eval.Stats.Valid == 0 {
			continue
		}
		composites = append(composites, WeightedComposite(eval.Results, weights))
		negPriorities = append(negPriorities, -float64(priorities[i]))
		topics = append(topics, eval.Topic)
	}

	if len(composites) < 2 {
		return CorrelationResult{}, ErrInsufficientData
	}

	return CorrelationResult{
		Coefficient:      Spearman(composites, negPriorities),
		ValidComparisons: len(composites),
		Topics:           topics,
	}, nil
}

// Spearman computes the Spearman rank correlation of two equal-length
// series: the Pearson correlation of their ranks, with tied values given
// their average rank. Constant input yields 0.
func Spearman(xs, ys []float64) float64 {
	rx := ranks(xs)
	ry := ranks(ys)

	meanX, meanY := mean(rx), mean(ry)

	var cov, varX, varY float64
	for i := range rx {
		dx := rx[i] - meanX
		dy := ry[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// ranks assigns 1-based ranks, averaging ties.
func ranks(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	out := make([]float64, len(xs))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && xs[idx[j+1]] == xs[idx[i]] {
			j++
		}
		// Average rank over the tie run [i, j].
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Strength names the magnitude of a correlation coefficient.
func Strength(coefficient float64) string {
	switch abs := math.Abs(coefficient); {
	case abs >= 0.8:
		return "very strong"
	case abs >= 0.6:
		return "strong"
	case abs >= 0.4:
		return "moderate"
	case abs >= 0.2:
		return "weak"
	default:
		return "very weak"
	}
}

// FormatReport writes the human-readable evaluation report. It is a pure
// projection of the evaluations plus an optional correlation result; no
// computation happens here beyond the composite line.
func FormatReport(w io.Writer, evals []types.TopicEvaluation, roleOrder []string, weights map[string]float64, corr *CorrelationResult) {
	rule := strings.Repeat("=", 80)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "RESEARCH TOPIC EVALUATION REPORT")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	successful := 0
	for _, eval := range evals {
		if eval.Stats.Valid > 0 {
			successful++
		}
	}
	fmt.Fprintf(w, "Total topics evaluated: %d\n", len(evals))
	fmt.Fprintf(w, "Successful evaluations: %d\n\n", successful)

	for i, eval := range evals {
		fmt.Fprintf(w, "TOPIC %d: %s\n", i+1, eval.Topic)
		fmt.Fprintln(w, strings.Repeat("-", 60))

		if eval.Background != nil && len(eval.Background.Entities) > 0 {
			fmt.Fprintf(w, "Key entities: %s\n", strings.Join(eval.Background.Entities, ", "))
			for _, entity := range eval.Background.Entities {
				data, present := eval.Background.Backgrounds[entity]
				if !present {
					continue
				}
				fmt.Fprintf(w, "  [%s] %s (references: %d)\n",
					entity, truncate(data.Background.Definition, 100), data.LiteratureCount)
			}
		}

		if eval.Stats.Mean != nil {
			fmt.Fprintf(w, "Average Score: %.2f\n", *eval.Stats.Mean)
			fmt.Fprintf(w, "Standard Deviation: %.2f\n", *eval.Stats.StdDev)
			fmt.Fprintf(w, "Score Range: %d - %d\n", *eval.Stats.Min, *eval.Stats.Max)
			fmt.Fprintf(w, "Weighted Composite: %.2f\n", WeightedComposite(eval.Results, weights))
		} else {
			fmt.Fprintln(w, "No valid scores obtained")
		}

		fmt.Fprintln(w, "\nIndividual Persona Scores:")
		for _, role := range roleOrder {
			r, present := eval.Results[role]
			if !present {
				continue
			}
			if r.Score != nil {
				fmt.Fprintf(w, "  %-25s %d (%s)\n", role+":", *r.Score, r.ScoreTier)
			} else {
				fmt.Fprintf(w, "  %-25s Failed\n", role+":")
			}
		}
		fmt.Fprintln(w)
	}

	if corr != nil {
		fmt.Fprintln(w, "CORRELATION ANALYSIS")
		fmt.Fprintln(w, strings.Repeat("-", 40))
		fmt.Fprintf(w, "Spearman Correlation Coefficient: %.4f\n", corr.Coefficient)
		fmt.Fprintf(w, "Valid comparisons: %d\n", corr.ValidComparisons)
		fmt.Fprintf(w, "Correlation strength: %s\n", Strength(corr.Coefficient))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
