// Package enrichment resolves a candidate id into full Pokemon attributes using a
// cache-first lookup against the data source.
package enrichment

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/smile-fortune/internal/logging"
	"github.com/jonathan/smile-fortune/internal/metrics"
	"github.com/jonathan/smile-fortune/internal/pokeapi"
	"github.com/jonathan/smile-fortune/internal/types"
)

// Source is the data source consulted on a cache miss. *pokeapi.Client implements it.
type Source interface {
	Pokemon(ctx context.Context, id string) (*pokeapi.Pokemon, error)
	Species(ctx context.Context, id string) (*pokeapi.Species, error)
}

// Enricher fetches and caches entity attributes.
type Enricher struct {
	source   Source
	cache    *Cache
	language string
	inflight singleflight.Group
}

// NewEnricher creates an Enricher. A nil cache gets a fresh one.
func NewEnricher(source Source, cache *Cache, language string) *Enricher {
	if cache == nil {
		cache = NewCache()
	}
	if language == "" {
		language = DefaultLanguage
	}
	return &Enricher{
		source:   source,
		cache:    cache,
		language: language,
	}
}

// Cache exposes the underlying cache.
func (e *Enricher) Cache() *Cache {
	return e.cache
}

// Fetch returns attributes for candidateID. A cached entry is returned without
// touching the source; otherwise both upstream resources are fetched
// concurrently and either failure fails the whole call with *UpstreamFetchError.
func (e *Enricher) Fetch(ctx context.Context, candidateID string) (*types.EntityAttributes, error) {
	id := strings.ToLower(strings.TrimSpace(candidateID))

	if attrs, ok := e.cache.Get(id); ok {
		metrics.CacheHits.Inc()
		logging.Ctx(ctx).Debug().Str("candidate", id).Msg("enrichment cache hit")
		return attrs, nil
	}
	metrics.CacheMisses.Inc()

	// The shared load outlives any single caller; the source's HTTP timeout bounds it.
	ch := e.inflight.DoChan(id, func() (any, error) {
		return e.load(context.WithoutCancel(ctx), id)
	})

	select {
	case <-ctx.Done():
		return nil, &UpstreamFetchError{CandidateID: id, Cause: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logging.Ctx(ctx).Debug().Str("candidate", id).Msg("joined in-flight enrichment")
		}
		return res.Val.(*types.EntityAttributes).Clone(), nil
	}
}

func (e *Enricher) load(ctx context.Context, id string) (*types.EntityAttributes, error) {
	var (
		pokemon *pokeapi.Pokemon
		species *pokeapi.Species
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.source.Pokemon(gCtx, id)
		if err != nil {
			return fmt.Errorf("pokemon lookup: %w", err)
		}
		pokemon = p
		return nil
	})
	g.Go(func() error {
		s, err := e.source.Species(gCtx, id)
		if err != nil {
			return fmt.Errorf("species lookup: %w", err)
		}
		species = s
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("candidate", id).Msg("enrichment failed")
		return nil, &UpstreamFetchError{CandidateID: id, Cause: err}
	}
	if pokemon == nil || species == nil {
		return nil, &UpstreamFetchError{CandidateID: id, Cause: fmt.Errorf("empty response from source")}
	}

	attrs := Derive(pokemon, species, e.language)
	e.cache.Put(id, &attrs)

	logging.Ctx(ctx).Info().Str("candidate", id).Int("id", attrs.ID).Str("name", attrs.Name).Msg("enriched candidate")
	return &attrs, nil
}
