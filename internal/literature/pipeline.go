// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package literature enriches a research topic with literature-derived
// background before evaluation: it extracts key entities, searches the
// literature service per entity, and synthesizes a definition/progress/
// challenges summary for each. Failures anywhere in the pipeline degrade
// the context string; they never abort the evaluation.
package literature

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/review-panel/internal/llm"
	"github.com/pdiddy/review-panel/internal/logging"
	"github.com/pdiddy/review-panel/pkg/types"
)

const (
	// maxEntities caps how many key entities are extracted per topic.
	maxEntities = 3

	// maxReferences caps the references kept per entity.
	maxReferences = 5

	// abstractLimit truncates abstracts fed into synthesis prompts.
	abstractLimit = 500

	// fallbackDefinitionLimit caps the raw-text fallback definition.
	fallbackDefinitionLimit = 200

	// degradedContext is the context string used when entity extraction
	// produced nothing.
	degradedContext = "Failed to extract key scientific entity background information."
)

// Enumeration markers stripped from entity lines: "1.", "2)", "-", "•".
var (
	numberMarker = regexp.MustCompile(`^\d+[.)]\s*`)
	bulletMarker = regexp.MustCompile(`^[-•]\s*`)
)

// Generator is the model-gateway surface the pipeline needs. *llm.Client
// satisfies it; tests supply mocks.
type Generator interface {
	Generate(ctx context.Context, messages []types.Message, opts llm.Options) (string, error)
}

// Searcher is the literature-client surface the pipeline needs.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Work, error)
}

// Service runs the background-enrichment pipeline.
type Service struct {
	gen    Generator
	search Searcher
	log    *logrus.Logger
}

// NewService builds a Service. A nil log discards pipeline logging.
func NewService(gen Generator, search Searcher, log *logrus.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{gen: gen, search: search, log: log}
}

// TopicBackground produces the complete shared background bundle for one
// topic. It never fails: when entity extraction or any downstream step
// degrades, the bundle carries whatever was recoverable plus a degraded
// context string.
func (s *Service) TopicBackground(ctx context.Context, topic string) types.TopicBackground {
	entities := s.ExtractEntities(ctx, topic)
	if len(entities) == 0 {
		s.log.Warn("entity extraction produced nothing, degrading background context")
		return types.TopicBackground{
			Entities:         []string{},
			Backgrounds:      map[string]types.EntityBackground{},
			FormattedContext: degradedContext,
		}
	}
	s.log.Infof("extracted %d key entities: %s", len(entities), strings.Join(entities, ", "))

	backgrounds := make(map[string]types.EntityBackground, len(entities))
	for _, entity := range entities {
		works, err := s.search.Search(ctx, entity)
		if err != nil {
			s.log.Warnf("literature search for %q failed: %v", entity, err)
			works = nil
		}

		bg := s.Synthesize(ctx, entity, works)

		kept := works
		if len(kept) > maxReferences {
			kept = kept[:maxReferences]
		}
		refs := make([]types.LiteratureReference, 0, len(kept))
		for _, w := range kept {
			refs = append(refs, w.Reference())
		}

		backgrounds[entity] = types.EntityBackground{
			Name:            entity,
			Background:      bg,
			LiteratureCount: len(works),
			References:      refs,
		}
	}

	return types.TopicBackground{
		Entities:         entities,
		Backgrounds:      backgrounds,
		FormattedContext: FormatContext(topic, entities, backgrounds),
	}
}

// ExtractEntities asks the model to name 2-3 key scientific entities in the
// topic, one per line. A gateway failure returns an empty list.
func (s *Service) ExtractEntities(ctx context.Context, topic string) []string {
	prompt := fmt.Sprintf(`Extract 2-3 key scientific entities/concepts from the following space science research topic.
These entities should be core concepts that require background knowledge to properly evaluate this topic.

Research Topic: %s

Return only the entity names, one per line, without numbering or other formatting.
Example output:
Microgravity Environment
Bone Loss
Muscle Atrophy`, topic)

	temp := 0.3
	response, err := s.gen.Generate(ctx, []types.Message{{Role: "user", Content: prompt}}, llm.Options{Temperature: &temp})
	if err != nil {
		return nil
	}
	return ParseEntities(response)
}

// ParseEntities splits a model response into entity names: one per non-empty
// line, leading enumeration markers stripped, truncated to the first three.
func ParseEntities(response string) []string {
	var entities []string
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cleaned := numberMarker.ReplaceAllString(line, "")
		cleaned = bulletMarker.ReplaceAllString(cleaned, "")
		if cleaned != "" {
			entities = append(entities, cleaned)
		}
		if len(entities) == maxEntities {
			break
		}
	}
	return entities
}

// Synthesize asks the model for a three-section background on the entity
// from the given literature. An empty literature set is replaced with an
// instruction to answer from general knowledge rather than sent blank. A
// gateway failure yields fixed unavailable-text sections.
func (s *Service) Synthesize(ctx context.Context, entity string, works []Work) types.Background {
	litContext := formatLiterature(works)
	if strings.TrimSpace(litContext) == "" {
		litContext = "No related literature found. Please answer based on your knowledge."
	}

	prompt := fmt.Sprintf(`Based on the following academic literature information, generate background information for the scientific entity "%s".
Organize the content into the following three sections, with 2-3 sentences each:

1. Definition: What is this concept/entity
2. Research Progress: Major research achievements and current state in this field
3. Challenges: Main challenges and unresolved problems in this field

Related Literature:
%s

Please respond in concise, professional language using the following format:
Definition: [content]
Research Progress: [content]
Challenges: [content]`, entity, litContext)

	temp := 0.5
	response, err := s.gen.Generate(ctx, []types.Message{{Role: "user", Content: prompt}}, llm.Options{Temperature: &temp})
	if err != nil {
		return types.Background{
			Definition: fmt.Sprintf("Unable to retrieve definition for %s", entity),
			Progress:   fmt.Sprintf("Unable to retrieve research progress for %s", entity),
			Challenges: fmt.Sprintf("Unable to retrieve challenges for %s", entity),
		}
	}
	return ParseBackground(response)
}

// formatLiterature renders up to five works as a numbered prompt block.
func formatLiterature(works []Work) string {
	if len(works) > maxReferences {
		works = works[:maxReferences]
	}
	var b strings.Builder
	for i, w := range works {
		fmt.Fprintf(&b, "\nPaper %d: %s", i+1, w.Title)
		if w.Abstract != "" {
			abstract := w.Abstract
			if len(abstract) > abstractLimit {
				abstract = abstract[:abstractLimit] + "..."
			}
			fmt.Fprintf(&b, "\nAbstract: %s", abstract)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ParseBackground scans the response lines left to right, maintaining a
// current-section cursor. A line starts a new section when it contains a
// section keyword (case-insensitive) and a separator; following lines
// accumulate into that section. When no section header is ever recognized
// the whole response becomes the definition (capped) so information is
// never silently lost.
func ParseBackground(response string) types.Background {
	sections := map[string][]string{}
	current := ""

	flushInto := func(section string, content []string) {
		if section != "" && len(content) > 0 {
			sections[section] = content
		}
	}

	var content []string
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if section, rest, ok := sectionHeader(line); ok {
			flushInto(current, content)
			current = section
			content = nil
			if rest != "" {
				content = append(content, rest)
			}
			continue
		}
		if current != "" {
			content = append(content, line)
		}
	}
	flushInto(current, content)

	bg := types.Background{
		Definition: strings.Join(sections["definition"], " "),
		Progress:   strings.Join(sections["progress"], " "),
		Challenges: strings.Join(sections["challenges"], " "),
	}

	if bg.Definition == "" && bg.Progress == "" && bg.Challenges == "" {
		raw := strings.TrimSpace(response)
		if len(raw) > fallbackDefinitionLimit {
			raw = raw[:fallbackDefinitionLimit]
		}
		bg.Definition = raw
	}
	return bg
}

// sectionHeader reports whether the line opens a background section and
// returns the content after the separator.
func sectionHeader(line string) (section, rest string, ok bool) {
	if !strings.Contains(line, ":") {
		return "", "", false
	}
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "definition"):
		section = "definition"
	case strings.Contains(lower, "progress"):
		section = "progress"
	case strings.Contains(lower, "challenge"):
		section = "challenges"
	default:
		return "", "", false
	}
	_, after, _ := strings.Cut(line, ":")
	return section, strings.TrimSpace(after), true
}

// FormatContext concatenates the banner, topic, entity list, and per-entity
// blocks into the one string injected into every persona prompt.
func FormatContext(topic string, entities []string, backgrounds map[string]types.EntityBackground) string {
	rule := strings.Repeat("=", 50)
	parts := []string{
		rule,
		"Research Topic Background Information (Auto-retrieved via Academic Literature API)",
		rule,
		fmt.Sprintf("\nTopic: %s\n", topic),
		fmt.Sprintf("Extracted Key Scientific Entities: %s\n", strings.Join(entities, ", ")),
	}

	for _, entity := range entities {
		data, present := backgrounds[entity]
		if !present {
			continue
		}
		parts = append(parts, fmt.Sprintf("\n[%s]", entity), strings.Repeat("-", 30))

		bg := data.Background
		if bg.Definition != "" {
			parts = append(parts, fmt.Sprintf("- Definition: %s", bg.Definition))
		}
		if bg.Progress != "" {
			parts = append(parts, fmt.Sprintf("- Research Progress: %s", bg.Progress))
		}
		if bg.Challenges != "" {
			parts = append(parts, fmt.Sprintf("- Challenges: %s", bg.Challenges))
		}
		parts = append(parts, fmt.Sprintf("\n  [Reference Count: %d]", data.LiteratureCount))
	}

	parts = append(parts, "\n"+rule)
	return strings.Join(parts, "\n")
}
