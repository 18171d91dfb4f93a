// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package recommend

import (
	"fmt"
	"math"
	"time"
)

// weightSumTolerance absorbs float rounding when weights arrive from a
// config file round-trip. The defaults sum to 1.0 exactly.
const weightSumTolerance = 1e-9

// Weights defines the contribution of each signal to the fused score.
// The three weights must sum to 1; they are configuration constants, never
// request-dependent.
type Weights struct {
	// Content is the weight for content (text) similarity.
	Content float64 `json:"content" koanf:"content"`

	// Graph is the weight for knowledge-graph proximity.
	Graph float64 `json:"graph" koanf:"graph"`

	// Popularity is the weight for the collaborative-filtering signal.
	Popularity float64 `json:"popularity" koanf:"popularity"`
}

// DefaultWeights returns the reference weighting.
func DefaultWeights() Weights {
	return Weights{Content: 0.5, Graph: 0.3, Popularity: 0.2}
}

// Validate checks each weight is in [0, 1] and the sum is 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"content":    w.Content,
		"graph":      w.Graph,
		"popularity": w.Popularity,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("weight %s out of range [0,1]: %g", name, v)
		}
	}

	sum := w.Content + w.Graph + w.Popularity
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1, got %g", sum)
	}

	return nil
}

// Limits contains operational limits for a single request.
type Limits struct {
	// CandidateK is how many nearest neighbors seed the candidate set.
	CandidateK int `json:"candidate_k" koanf:"candidate_k"`

	// SpotsK, HotelsK, FoodK, EventsK bound the four result lists.
	SpotsK  int `json:"spots_k" koanf:"spots_k"`
	HotelsK int `json:"hotels_k" koanf:"hotels_k"`
	FoodK   int `json:"food_k" koanf:"food_k"`
	EventsK int `json:"events_k" koanf:"events_k"`

	// ProximityTimeout bounds the shortest-path loop, whose cost scales
	// with candidate count times graph size. Candidates not scored before
	// the deadline fall back to proximity 0.
	ProximityTimeout time.Duration `json:"proximity_timeout" koanf:"proximity_timeout"`
}

// DefaultLimits returns the reference limits.
func DefaultLimits() Limits {
	return Limits{
		CandidateK:       50,
		SpotsK:           10,
		HotelsK:          5,
		FoodK:            10,
		EventsK:          5,
		ProximityTimeout: 2 * time.Second,
	}
}

// Config contains all configuration for the engine.
type Config struct {
	Weights Weights `json:"weights" koanf:"weights"`
	Limits  Limits  `json:"limits" koanf:"limits"`
}

// DefaultConfig returns the reference engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights: DefaultWeights(),
		Limits:  DefaultLimits(),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.Limits.CandidateK <= 0 {
		return fmt.Errorf("candidate_k must be positive, got %d", c.Limits.CandidateK)
	}
	for name, k := range map[string]int{
		"spots_k":  c.Limits.SpotsK,
		"hotels_k": c.Limits.HotelsK,
		"food_k":   c.Limits.FoodK,
		"events_k": c.Limits.EventsK,
	} {
		if k <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, k)
		}
	}
	if c.Limits.ProximityTimeout <= 0 {
		return fmt.Errorf("proximity_timeout must be positive, got %s", c.Limits.ProximityTimeout)
	}
	return nil
}
