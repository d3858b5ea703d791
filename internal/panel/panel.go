// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package panel orchestrates the persona evaluators: it fetches the shared
// literature background once per topic, fans the topic out to every persona
// sequentially or concurrently, isolates per-persona failures, and compiles
// summary statistics.
package panel

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/review-panel/internal/logging"
	"github.com/pdiddy/review-panel/internal/persona"
	"github.com/pdiddy/review-panel/pkg/types"
)

// TopicEvaluator is one persona's evaluation surface. *persona.Evaluator
// satisfies it; tests supply mocks.
type TopicEvaluator interface {
	Role() string
	Evaluate(ctx context.Context, topic, backgroundContext string) types.PersonaResult
}

// BackgroundProvider produces the shared literature background for a topic.
// *literature.Service satisfies it.
type BackgroundProvider interface {
	TopicBackground(ctx context.Context, topic string) types.TopicBackground
}

// Panel runs a fixed set of persona evaluators against topics.
type Panel struct {
	evaluators []TopicEvaluator
	background BackgroundProvider
	cfg        types.PanelConfig
	defaultUse bool
	log        *logrus.Logger
}

// New builds a Panel. background may be nil when literature enrichment is
// unavailable; defaultUseBackground is the config default applied when a
// request does not override it.
func New(evaluators []TopicEvaluator, background BackgroundProvider, cfg types.PanelConfig, defaultUseBackground bool, log *logrus.Logger) *Panel {
	if log == nil {
		log = logging.Discard()
	}
	return &Panel{
		evaluators: evaluators,
		background: background,
		cfg:        cfg,
		defaultUse: defaultUseBackground,
		log:        log,
	}
}

// Options controls one evaluation run.
type Options struct {
	// Parallel runs the personas concurrently instead of in declared order.
	Parallel bool

	// UseBackground overrides the configured literature toggle when non-nil.
	UseBackground *bool
}

// Roles returns the panel's role names in declared order.
func (p *Panel) Roles() []string {
	roles := make([]string, len(p.evaluators))
	for i, e := range p.evaluators {
		roles[i] = e.Role()
	}
	return roles
}

// EvaluateTopic runs every persona against the topic. The background, when
// requested, is fetched exactly once and the identical context is shared by
// all personas. The returned evaluation carries a result for every persona:
// failure is a data state, never an error.
func (p *Panel) EvaluateTopic(ctx context.Context, topic string, opts Options) types.TopicEvaluation {
	useBackground := p.defaultUse
	if opts.UseBackground != nil {
		useBackground = *opts.UseBackground
	}

	var background *types.TopicBackground
	backgroundContext := ""
	if useBackground && p.background != nil {
		p.log.Info("fetching topic background")
		bg := p.background.TopicBackground(ctx, topic)
		background = &bg
		backgroundContext = bg.FormattedContext
	}

	var results map[string]types.PersonaResult
	if opts.Parallel {
		results = p.evaluateParallel(ctx, topic, backgroundContext)
	} else {
		results = p.evaluateSequential(ctx, topic, backgroundContext)
	}

	return types.TopicEvaluation{
		Topic:      topic,
		Results:    results,
		Stats:      compileStats(results),
		Background: background,
	}
}

// EvaluateRole runs a single persona by role name.
func (p *Panel) EvaluateRole(ctx context.Context, role, topic string, opts Options) (types.PersonaResult, error) {
	for _, e := range p.evaluators {
		if e.Role() == role {
			useBackground := p.defaultUse
			if opts.UseBackground != nil {
				useBackground = *opts.UseBackground
			}
			backgroundContext := ""
			if useBackground && p.background != nil {
				backgroundContext = p.background.TopicBackground(ctx, topic).FormattedContext
			}
			return e.Evaluate(ctx, topic, backgroundContext), nil
		}
	}
	return types.PersonaResult{}, fmt.Errorf("unknown persona role: %s", role)
}

// EvaluateTopics evaluates each topic in order and returns one evaluation
// per topic.
func (p *Panel) EvaluateTopics(ctx context.Context, topics []string, opts Options) []types.TopicEvaluation {
	evals := make([]types.TopicEvaluation, 0, len(topics))
	for i, topic := range topics {
		p.log.Infof("evaluating topic %d/%d", i+1, len(topics))
		evals = append(evals, p.EvaluateTopic(ctx, topic, opts))
	}
	return evals
}

// evaluateSequential invokes personas one at a time in declared order.
func (p *Panel) evaluateSequential(ctx context.Context, topic, backgroundContext string) map[string]types.PersonaResult {
	results := make(map[string]types.PersonaResult, len(p.evaluators))
	for _, e := range p.evaluators {
		p.log.Infof("evaluating with %s", e.Role())
		results[e.Role()] = p.evaluateOne(ctx, e, topic, backgroundContext)
	}
	return results
}

// evaluateParallel runs one goroutine per persona and collects results in
// completion order. Each worker returns a result value; a panicking worker
// is converted into a failed result at its own boundary, so one persona's
// fault never discards the others' results.
func (p *Panel) evaluateParallel(ctx context.Context, topic, backgroundContext string) map[string]types.PersonaResult {
	ch := make(chan types.PersonaResult, len(p.evaluators))
	var wg sync.WaitGroup

	for _, e := range p.evaluators {
		wg.Add(1)
		go func(e TopicEvaluator) {
			defer wg.Done()
			ch <- p.evaluateOne(ctx, e, topic, backgroundContext)
		}(e)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	results := make(map[string]types.PersonaResult, len(p.evaluators))
	for r := range ch {
		if r.Score != nil {
			p.log.Infof("%s evaluation completed (score %d)", r.Role, *r.Score)
		} else {
			p.log.Warnf("%s evaluation completed without a score", r.Role)
		}
		results[r.Role] = r
	}
	return results
}

// evaluateOne runs a single evaluator, converting an unexpected panic into
// that role's failed result.
func (p *Panel) evaluateOne(ctx context.Context, e TopicEvaluator, topic, backgroundContext string) (result types.PersonaResult) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorf("%s evaluation panicked: %v", e.Role(), r)
			result = persona.FailedResult(e.Role(), topic, fmt.Sprint(r), backgroundContext != "")
		}
	}()
	return e.Evaluate(ctx, topic, backgroundContext)
}

// compileStats aggregates the present overall scores: mean, population
// standard deviation, min, max. All four are nil when no score is present.
func compileStats(results map[string]types.PersonaResult) types.SummaryStats {
	stats := types.SummaryStats{Total: len(results)}

	var scores []int
	for _, r := range results {
		if r.Score != nil {
			scores = append(scores, *r.Score)
		}
	}
	stats.Valid = len(scores)
	if len(scores) == 0 {
		return stats
	}

	sum := 0
	min, max := scores[0], scores[0]
	for _, s := range scores {
		sum += s
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	mean := float64(sum) / float64(len(scores))

	var variance float64
	for _, s := range scores {
		d := float64(s) - mean
		variance += d * d
	}
	stdDev := math.Sqrt(variance / float64(len(scores)))

	stats.Mean = &mean
	stats.StdDev = &stdDev
	stats.Min = &min
	stats.Max = &max
	return stats
}
