// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the review-panel pipeline:
// chat messages, literature references, topic backgrounds, persona results,
// and compiled topic evaluations.
package types

// Message is one role-tagged block of a chat-completion request.
type Message struct {
	// Role is "system" or "user".
	Role string `json:"role" yaml:"role"`

	// Content is the message text.
	Content string `json:"content" yaml:"content"`
}

// LinkType classifies a literature reference link.
type LinkType string

const (
	LinkDOI      LinkType = "doi"
	LinkDownload LinkType = "download"
	LinkFulltext LinkType = "fulltext"
	LinkLanding  LinkType = "core"
)

// LiteratureLink is one typed URL attached to a reference.
type LiteratureLink struct {
	Type LinkType `json:"type" yaml:"type"`
	URL  string   `json:"url" yaml:"url"`
}

// LiteratureReference describes one search hit kept as a citation.
type LiteratureReference struct {
	// Title is the work title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Authors lists the authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year, or 0 when the source omits it.
	Year int `json:"year" yaml:"year"`

	// DOI is the bare DOI when present (rendered as a resolver URL in Links).
	DOI string `json:"doi" yaml:"doi"`

	// Links carries whichever link types the source item provided.
	Links []LiteratureLink `json:"links" yaml:"links"`
}

// Background is the three-part synthesized summary for one entity.
type Background struct {
	Definition string `json:"definition" yaml:"definition"`
	Progress   string `json:"progress" yaml:"progress"`
	Challenges string `json:"challenges" yaml:"challenges"`
}

// EntityBackground holds the literature-derived context for one key entity.
type EntityBackground struct {
	// Name is the entity as extracted from the topic.
	Name string `json:"name" yaml:"name"`

	// Background is the synthesized definition/progress/challenges text.
	Background Background `json:"background" yaml:"background"`

	// LiteratureCount is the number of search hits for this entity.
	LiteratureCount int `json:"literature_count" yaml:"literature_count"`

	// References keeps up to 5 literature references with links.
	References []LiteratureReference `json:"references" yaml:"references"`
}

// TopicBackground is the shared background bundle produced once per topic
// and passed read-only to every persona evaluating that topic.
type TopicBackground struct {
	// Entities lists the extracted key entities in extraction order.
	Entities []string `json:"entities" yaml:"entities"`

	// Backgrounds maps entity name to its background data.
	Backgrounds map[string]EntityBackground `json:"backgrounds" yaml:"backgrounds"`

	// FormattedContext is the single string injected into persona prompts.
	// Personas never see raw literature payloads.
	FormattedContext string `json:"formatted_context" yaml:"formatted_context"`
}

// ScoreTier identifies which extraction tier produced an overall score.
// Lower tiers are more trustworthy; TierBareDigit is a guess.
type ScoreTier string

const (
	// TierOverall matched an explicit "Overall Score: N" marker.
	TierOverall ScoreTier = "overall_marker"

	// TierGeneric matched a generic marker (Score:, Rating:, N/10, ...).
	TierGeneric ScoreTier = "generic_marker"

	// TierBareDigit took the last standalone integer in [1,10] found in
	// the text. Any stray number in prose can be misread at this tier.
	TierBareDigit ScoreTier = "bare_digit"
)

// PersonaResult is the outcome of one (topic, persona) evaluation.
// It is immutable after creation. A nil Score is a valid outcome: the
// evaluation completed but no score could be extracted or generation failed.
type PersonaResult struct {
	// Role is the persona role name.
	Role string `json:"role" yaml:"role"`

	// Topic is the evaluated topic text.
	Topic string `json:"topic" yaml:"topic"`

	// Score is the overall score in [1,10], or nil when absent.
	Score *int `json:"score" yaml:"score"`

	// ScoreTier records which extraction tier produced Score. Empty when
	// Score is nil.
	ScoreTier ScoreTier `json:"score_tier,omitempty" yaml:"score_tier,omitempty"`

	// DimensionScores maps dimension name to its score in [1,10]. Absent
	// dimensions do not appear.
	DimensionScores map[string]int `json:"dimension_scores" yaml:"dimension_scores"`

	// Analysis is the full response text, or a fixed failure note when
	// generation produced nothing.
	Analysis string `json:"analysis" yaml:"analysis"`

	// RawResponse preserves the unfiltered model output (including any
	// reasoning markup) for audit. Empty on failure.
	RawResponse string `json:"raw_response,omitempty" yaml:"raw_response,omitempty"`

	// BackgroundUsed reports whether a shared background context was
	// injected into the prompt.
	BackgroundUsed bool `json:"background_used" yaml:"background_used"`
}

// SummaryStats aggregates the overall scores present in one evaluation.
// All four statistics are nil when no persona produced a score.
type SummaryStats struct {
	// Mean is the arithmetic mean of present scores.
	Mean *float64 `json:"mean" yaml:"mean"`

	// StdDev is the population standard deviation of present scores.
	StdDev *float64 `json:"std_dev" yaml:"std_dev"`

	// Min and Max bound the present scores.
	Min *int `json:"min" yaml:"min"`
	Max *int `json:"max" yaml:"max"`

	// Valid counts personas with a present score; Total counts all personas.
	Valid int `json:"valid" yaml:"valid"`
	Total int `json:"total" yaml:"total"`
}

// TopicEvaluation is the compiled result of running every persona against
// one topic. Results are keyed by role, so ordering is irrelevant.
type TopicEvaluation struct {
	// Topic is the evaluated topic text.
	Topic string `json:"topic" yaml:"topic"`

	// Results maps role to that persona's result. Every configured persona
	// appears, failed or not.
	Results map[string]PersonaResult `json:"results" yaml:"results"`

	// Stats summarizes the present overall scores.
	Stats SummaryStats `json:"stats" yaml:"stats"`

	// Background is the shared literature bundle, nil when not fetched.
	Background *TopicBackground `json:"background,omitempty" yaml:"background,omitempty"`
}

// Scores returns the role-to-score mapping with nil for absent scores.
func (e TopicEvaluation) Scores() map[string]*int {
	scores := make(map[string]*int, len(e.Results))
	for role, r := range e.Results {
		scores[role] = r.Score
	}
	return scores
}
