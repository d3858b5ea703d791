// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package persona evaluates research topics from fixed stakeholder
// viewpoints. A persona is a data record — role name, system prompt,
// dimension criteria — not a type hierarchy; one Evaluator serves them all.
package persona

import (
	"context"
	"fmt"

	"github.com/pdiddy/review-panel/internal/llm"
	"github.com/pdiddy/review-panel/pkg/types"
)

// failedAnalysis is the fixed analysis text carried by a failed result.
const failedAnalysis = "Failed to generate response"

// Persona is one fixed evaluator profile.
type Persona struct {
	// Role is the persona's role name, used as the result key and the
	// weight-table key.
	Role string

	// SystemPrompt frames the role for the model.
	SystemPrompt string

	// Criteria is the persona's evaluation-dimension checklist, injected
	// verbatim into the user prompt.
	Criteria string
}

// Generator is the model-gateway surface the evaluator needs. *llm.Client
// satisfies it; tests supply mocks.
type Generator interface {
	Generate(ctx context.Context, messages []types.Message, opts llm.Options) (string, error)
}

// Evaluator runs one persona against topics.
type Evaluator struct {
	persona Persona
	gen     Generator
}

// NewEvaluator binds a persona profile to a model gateway.
func NewEvaluator(p Persona, gen Generator) *Evaluator {
	return &Evaluator{persona: p, gen: gen}
}

// Role returns the persona's role name.
func (e *Evaluator) Role() string { return e.persona.Role }

// Evaluate scores the topic from this persona's viewpoint. backgroundContext
// may be empty; when present it is injected with an instruction to use but
// not restate it. A gateway failure yields a valid failed result — nil
// score, empty dimension map, fixed analysis text — never an error.
func (e *Evaluator) Evaluate(ctx context.Context, topic, backgroundContext string) types.PersonaResult {
	messages := []types.Message{
		{Role: "system", Content: e.persona.SystemPrompt},
		{Role: "user", Content: buildUserPrompt(e.persona.Criteria, topic, backgroundContext)},
	}

	// Reasoning markup stays in the response so the audit trail is complete.
	response, err := e.gen.Generate(ctx, messages, llm.Options{PreserveThinking: true})
	if err != nil {
		return types.PersonaResult{
			Role:            e.persona.Role,
			Topic:           topic,
			Score:           nil,
			DimensionScores: map[string]int{},
			Analysis:        failedAnalysis,
			BackgroundUsed:  backgroundContext != "",
		}
	}

	result := types.PersonaResult{
		Role:            e.persona.Role,
		Topic:           topic,
		DimensionScores: ExtractDimensionScores(response),
		Analysis:        response,
		RawResponse:     response,
		BackgroundUsed:  backgroundContext != "",
	}
	if score, tier, ok := ExtractOverallScore(response); ok {
		result.Score = &score
		result.ScoreTier = tier
	}
	return result
}

// FailedResult synthesizes the failed-result value for a role. The panel
// uses it when a concurrent evaluation task faults unexpectedly.
func FailedResult(role, topic, reason string, backgroundUsed bool) types.PersonaResult {
	analysis := failedAnalysis
	if reason != "" {
		analysis = fmt.Sprintf("Evaluation failed: %s", reason)
	}
	return types.PersonaResult{
		Role:            role,
		Topic:           topic,
		Score:           nil,
		DimensionScores: map[string]int{},
		Analysis:        analysis,
		BackgroundUsed:  backgroundUsed,
	}
}

// buildUserPrompt assembles the criteria checklist, optional background
// block, topic, and the required output template.
func buildUserPrompt(criteria, topic, backgroundContext string) string {
	backgroundSection := ""
	if backgroundContext != "" {
		backgroundSection = fmt.Sprintf(`
The following is background information on key scientific entities in this topic. Use this knowledge to inform your evaluation, but do not explicitly mention or summarize this background in your response:

%s

`, backgroundContext)
	}

	return fmt.Sprintf(`
%s
%s
Please evaluate the following space science research topic:

Topic: %s

For EACH evaluation dimension listed above, provide:
1. A brief analysis (2-3 sentences)
2. A specific score from 1 to 10

Scoring guide:
- 1-3: Low priority/value
- 4-6: Medium priority/value
- 7-8: High priority/value
- 9-10: Critical/essential priority/value

Please structure your response as follows (use this exact format for each dimension):

[DIMENSION NAME]
Analysis: [Your analysis for this specific dimension]
Score: [X]/10

... (repeat for each dimension)

OVERALL ASSESSMENT
Summary: [Brief overall summary integrating all dimensions]
Overall Score: [X]/10

Be specific about why you give each score based on your professional background and concerns.
`, criteria, backgroundSection, topic)
}
