// Package fortune orchestrates one fortune request: classify the smile score,
// enrich the chosen candidate, then narrate.
package fortune

import (
	"context"
	"time"

	"github.com/jonathan/smile-fortune/internal/logging"
	"github.com/jonathan/smile-fortune/internal/metrics"
	"github.com/jonathan/smile-fortune/internal/narration"
	"github.com/jonathan/smile-fortune/internal/personality"
	"github.com/jonathan/smile-fortune/internal/types"
)

// Selector picks a band and candidate for a smile score.
type Selector interface {
	Select(smileScore float64) personality.Selection
}

// Fetcher resolves a candidate into attributes.
type Fetcher interface {
	Fetch(ctx context.Context, candidateID string) (*types.EntityAttributes, error)
}

// Composer writes the fortune text.
type Composer interface {
	Compose(ctx context.Context, entity *types.EntityAttributes, smileScore float64, bandDescription, userExpression string) (string, error)
}

// Service runs the request pipeline.
type Service struct {
	selector Selector
	fetcher  Fetcher
	composer Composer
}

// NewService creates a Service.
func NewService(selector Selector, fetcher Fetcher, composer Composer) *Service {
	return &Service{
		selector: selector,
		fetcher:  fetcher,
		composer: composer,
	}
}

// Tell runs Select, Fetch and Compose in order. The first failing stage aborts
// the request; nothing is returned partially.
func (s *Service) Tell(ctx context.Context, req types.FortuneRequest) (*types.FortuneResult, error) {
	start := time.Now()
	log := logging.Ctx(ctx)

	result, err := s.tell(ctx, &req)
	if err != nil {
		kind := Classify(err)
		metrics.FortuneErrors.WithLabelValues(string(kind)).Inc()
		log.Warn().Err(err).Str("kind", string(kind)).Dur("elapsed", time.Since(start)).Msg("fortune failed")
		return nil, err
	}

	metrics.FortunesTotal.WithLabelValues(result.BandKey).Inc()
	log.Info().
		Str("band", result.BandKey).
		Str("candidate", result.Entity.Name).
		Int("pokemon_id", result.Entity.ID).
		Dur("elapsed", time.Since(start)).
		Msg("fortune complete")
	return result, nil
}

func (s *Service) tell(ctx context.Context, req *types.FortuneRequest) (*types.FortuneResult, error) {
	if err := req.Validate(); err != nil {
		return nil, newValidationError(err)
	}
	score := *req.SmileScore
	expression := req.Expression()

	sel := s.selector.Select(score)
	logging.Ctx(ctx).Debug().
		Float64("smile_score", score).
		Str("band", sel.Band.Key).
		Str("candidate", sel.CandidateID).
		Msg("candidate selected")

	entity, err := s.fetcher.Fetch(ctx, sel.CandidateID)
	if err != nil {
		return nil, err
	}

	text, err := s.composer.Compose(ctx, entity, score, sel.Band.Description, expression)
	if err != nil {
		return nil, err
	}
	if text == "" {
		metrics.FortunePlaceholders.Inc()
		text = narration.Placeholder
	}

	return &types.FortuneResult{
		Entity:          *entity,
		SmileScore:      score,
		BandKey:         sel.Band.Key,
		BandDescription: sel.Band.Description,
		Narrative:       text,
	}, nil
}
