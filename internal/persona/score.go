// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persona

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/review-panel/pkg/types"
)

// Overall-score extraction is a layered fallback over free text. Each tier
// is less trustworthy than the one before it; the tier that produced the
// score is reported so callers can tell a structured match from a guess.

var overallPattern = regexp.MustCompile(`(?i)overall\s+score[:\s]*(\d+)`)

// genericPatterns are the second-tier markers, tried in order.
var genericPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)score[:\s]*(\d+)`),
	regexp.MustCompile(`(?i)rating[:\s]*(\d+)`),
	regexp.MustCompile(`(\d+)/10`),
	regexp.MustCompile(`(?i)(\d+)\s*out\s*of\s*10`),
	regexp.MustCompile(`(?i)grade[:\s]*(\d+)`),
	regexp.MustCompile(`(?i)evaluation[:\s]*(\d+)`),
}

// barePattern matches any standalone integer token in [1,10].
var barePattern = regexp.MustCompile(`\b(10|[1-9])\b`)

// dimensionScorePattern matches "Score: N" and "Score: N/10" lines.
var dimensionScorePattern = regexp.MustCompile(`(?i)score[:\s]*(\d+)(?:/10)?`)

// dimensionKeywords is the fixed allow-list a line must contain (upper-cased)
// to be treated as a dimension header.
var dimensionKeywords = []string{
	"FEASIBILITY", "SIGNIFICANCE", "METHODOLOGY", "NOVELTY", "INNOVATION",
	"IMPACT", "INTEGRATION", "ENVIRONMENT", "HARDWARE", "OPERATIONAL",
	"SAFETY", "HUMAN FACTORS", "RELEVANCE", "ETHICAL", "EQUITY", "JUSTICE",
	"PUBLIC", "RESOURCE", "INTERNATIONAL", "COOPERATION", "RISK",
	"STRATEGIC", "STAKEHOLDER", "COMMERCIALIZATION", "TRANSFER",
	"SPACE-SPECIFIC", "NECESSITY", "COMPLEXITY", "VALUE",
}

// skipKeywords close the current dimension instead of opening one: they mark
// the overall/summary block.
var skipKeywords = []string{"OVERALL", "SUMMARY", "ASSESSMENT", "CONCLUSION"}

// ExtractOverallScore pulls the overall score from response text. Tier one
// looks for an explicit "Overall Score: N" marker; tier two tries generic
// markers (Score:, Rating:, N/10, N out of 10, Grade:, Evaluation:); tier
// three takes the last standalone integer in [1,10] on the heuristic that
// the final digit in free text is most likely the closing verdict.
// Candidates outside [1,10] are discarded and the scan continues. The
// second return names the tier that matched; ok is false when nothing did.
func ExtractOverallScore(response string) (score int, tier types.ScoreTier, ok bool) {
	if n, found := firstInRange(overallPattern, response); found {
		return n, types.TierOverall, true
	}

	for _, p := range genericPatterns {
		if n, found := firstInRange(p, response); found {
			return n, types.TierGeneric, true
		}
	}

	matches := barePattern.FindAllStringSubmatch(response, -1)
	if len(matches) > 0 {
		n, _ := strconv.Atoi(matches[len(matches)-1][1])
		return n, types.TierBareDigit, true
	}

	return 0, "", false
}

// firstInRange returns the first capture of p that parses into [1,10].
func firstInRange(p *regexp.Regexp, text string) (int, bool) {
	for _, m := range p.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= 10 {
			return n, true
		}
	}
	return 0, false
}

// ExtractDimensionScores runs a single-pass, line-oriented scan over the
// response. A line opens a dimension when it is non-empty, does not start
// with "Analysis" or "Score", contains none of the overall/summary keywords
// (those close the current dimension), and contains one of the allow-listed
// dimension keywords. While a dimension is open, a "Score: N" line with N in
// [1,10] records that dimension's score. This is a best-effort parser over
// free text, not a strict grammar: headers and scores may sit on separate
// lines and missing dimensions simply do not appear.
func ExtractDimensionScores(response string) map[string]int {
	scores := make(map[string]int)
	current := ""

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "Analysis") && !strings.HasPrefix(line, "Score") {
			upper := strings.ToUpper(line)

			if containsAny(upper, skipKeywords) {
				current = ""
				continue
			}
			if containsAny(upper, dimensionKeywords) {
				current = strings.TrimSpace(strings.Trim(line, "[]: \t"))
				continue
			}
		}

		if current == "" {
			continue
		}
		if m := dimensionScorePattern.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n >= 1 && n <= 10 {
				scores[current] = n
			}
		}
	}
	return scores
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
