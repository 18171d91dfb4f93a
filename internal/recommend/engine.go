// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

// Package recommend implements the hybrid retrieval-and-ranking engine: it
// fuses content similarity, knowledge-graph proximity, and a collaborative
// popularity signal into one priority score per candidate, then reduces
// the scored candidates into deduplicated, category-partitioned,
// date-filtered top-k result lists.
//
// The engine is a pure function of (loaded artifacts, request): all shared
// state is loaded once at startup and never mutated, so concurrent
// requests need no locking.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wayfare-io/wayfare/internal/artifact"
	"github.com/wayfare-io/wayfare/internal/encode"
	"github.com/wayfare-io/wayfare/internal/index"
	"github.com/wayfare-io/wayfare/internal/kg"
	"github.com/wayfare-io/wayfare/internal/metrics"
)

// Engine coordinates the retrieval pipeline: query encoding, candidate
// generation, proximity scoring, fusion, and result composition.
// It is safe for concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	store   *artifact.Store
	index   *index.Index
	graph   *kg.Graph
	encoder encode.Encoder

	// Pluggable strategies
	resolver   kg.CityResolver
	popularity PopularityProvider
}

// NewEngine creates an engine over loaded artifacts. The nearest-neighbor
// index is built from the store's combined matrix.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store *artifact.Store, graph *kg.Graph, encoder encode.Encoder, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("artifact store required")
	}
	if graph == nil {
		return nil, fmt.Errorf("knowledge graph required")
	}
	if encoder == nil {
		return nil, fmt.Errorf("query encoder required")
	}

	ix, err := index.New(store.Combined())
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		store:    store,
		index:    ix,
		graph:    graph,
		encoder:  encoder,
		resolver: kg.SubstringResolver{},
	}, nil
}

// SetCityResolver replaces the destination-resolution strategy.
func (e *Engine) SetCityResolver(r kg.CityResolver) {
	if r != nil {
		e.resolver = r
	}
}

// SetPopularityProvider wires a collaborative popularity signal. Without a
// provider every candidate's popularity is 0 and ranking is driven by
// content similarity and graph proximity alone.
func (e *Engine) SetPopularityProvider(p PopularityProvider) {
	e.popularity = p
}

// Recommend runs one trip query through the pipeline.
//
// Only the query-embedding step can fail the request; every other anomaly
// degrades to a documented fallback (proximity 0, date filter skipped)
// so a lower-quality recommendation beats no recommendation.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	metrics.RecommendationsTotal.Inc()

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("destination", req.Destination).
		Logger()
	logger.Debug().Str("source", req.Source).Msg("processing recommendation request")

	query, err := e.encodeQuery(ctx, req)
	if err != nil {
		metrics.EncoderFailures.Inc()
		return nil, fmt.Errorf("encode query: %w", err)
	}

	hits, err := e.index.Search(query, e.config.Limits.CandidateK)
	if err != nil {
		return nil, fmt.Errorf("candidate search: %w", err)
	}

	content := make([]float64, len(hits))
	qids := make([]string, len(hits))
	rows := make([]int, len(hits))
	for i, h := range hits {
		content[i] = h.Similarity
		qids[i] = e.store.Catalog().QID(h.Row)
		rows[i] = h.Row
	}

	proximity, destResolved := e.proximityScores(ctx, req.Destination, qids)

	var popularity []float64
	if e.popularity != nil {
		popularity = e.popularity.Scores(rows)
	}

	fused, err := Fuse(e.config.Weights, content, proximity, popularity)
	if err != nil {
		return nil, fmt.Errorf("fuse scores: %w", err)
	}

	candidates := make([]ScoredItem, 0, len(hits))
	for i, h := range hits {
		item, ok := e.store.Catalog().Item(h.Row)
		if !ok {
			continue
		}
		candidates = append(candidates, ScoredItem{
			Item:          item,
			PriorityScore: fused[i],
			Scores: map[string]float64{
				"content":    content[i],
				"graph":      proximity[i],
				"popularity": popularityAt(popularity, i),
			},
		})
	}

	lists := compose(candidates, req.StartDate, req.EndDate, e.config.Limits)
	if !lists.dateFilterApplied {
		logger.Warn().
			Str("start_date", req.StartDate).
			Str("end_date", req.EndDate).
			Msg("request dates unparsable, event date filter skipped")
	}

	metrics.RecommendationCandidates.Observe(float64(len(candidates)))
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())

	resp := &Response{
		RecommendedSpots: emptyIfNil(lists.spots),
		Hotels:           emptyIfNil(lists.hotels),
		Food:             emptyIfNil(lists.food),
		CulturalEvents:   emptyIfNil(lists.events),
		Metadata: ResponseMetadata{
			RequestID:           req.RequestID,
			Candidates:          len(candidates),
			DestinationResolved: destResolved,
			DateFilterApplied:   lists.dateFilterApplied,
			LatencyMS:           time.Since(start).Milliseconds(),
			Timestamp:           time.Now(),
		},
	}

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("spots", len(resp.RecommendedSpots)).
		Int("hotels", len(resp.Hotels)).
		Int("food", len(resp.Food)).
		Int("events", len(resp.CulturalEvents)).
		Bool("destination_resolved", destResolved).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// encodeQuery renders the query text, calls the external encoder, and
// zero-pads the content vector to the combined dimensionality.
func (e *Engine) encodeQuery(ctx context.Context, req Request) ([]float32, error) {
	vec, err := e.encoder.Encode(ctx, req.QueryText())
	if err != nil {
		return nil, err
	}
	if len(vec) != e.store.ContentDim() {
		return nil, fmt.Errorf("encoder returned dim %d, content sub-space is %d", len(vec), e.store.ContentDim())
	}
	return encode.Pad(vec, e.store.Dim()), nil
}

// proximityScores computes graph proximity for the candidates under the
// configured deadline. The destination is resolved to a node ID exactly
// once here. An unresolvable destination yields all zeros.
func (e *Engine) proximityScores(ctx context.Context, destination string, qids []string) ([]float64, bool) {
	dest, resolved := e.resolver.Resolve(e.graph, destination)
	if !resolved {
		metrics.UnresolvedDestinations.Inc()
		e.logger.Warn().
			Str("destination", destination).
			Msg("destination city not found in knowledge graph, proximity scores zeroed")
		return make([]float64, len(qids)), false
	}

	proximityCtx, cancel := context.WithTimeout(ctx, e.config.Limits.ProximityTimeout)
	defer cancel()

	scores := kg.Proximity(proximityCtx, e.graph, dest, qids)
	if proximityCtx.Err() != nil {
		metrics.ProximityDeadlines.Inc()
		e.logger.Warn().
			Dur("timeout", e.config.Limits.ProximityTimeout).
			Msg("proximity scoring hit deadline, remaining scores zeroed")
	}

	return scores, true
}

func popularityAt(popularity []float64, i int) float64 {
	if i < len(popularity) {
		return popularity[i]
	}
	return 0
}

func emptyIfNil(items []ScoredItem) []ScoredItem {
	if items == nil {
		return []ScoredItem{}
	}
	return items
}
