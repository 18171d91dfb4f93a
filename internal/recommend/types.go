// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/wayfare-io/wayfare/internal/catalog"
)

// Request is a trip-planning query. All fields are free-text strings;
// dates use the "2 Jan 2006" layout.
type Request struct {
	// Source is the trip origin city.
	Source string `json:"source" validate:"required"`

	// Destination is the trip destination city.
	Destination string `json:"destination" validate:"required"`

	// StartDate is the trip start, e.g. "20 Oct 2025". Dates that fail
	// to parse do not reject the request; the event date filter is
	// skipped instead.
	StartDate string `json:"start_date" validate:"required"`

	// EndDate is the trip end, e.g. "25 Oct 2025".
	EndDate string `json:"end_date" validate:"required"`

	// Diet is the diet preference ("Veg", "Non-Veg"). Defaults to "Any".
	Diet string `json:"veg/non-veg,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// DietOrDefault returns the diet preference, defaulting to "Any".
func (r Request) DietOrDefault() string {
	if r.Diet == "" {
		return "Any"
	}
	return r.Diet
}

// QueryText renders the natural-language form of the request that the
// external text encoder embeds. The wording is part of the artifact
// contract: item content vectors were trained against the same phrasing.
func (r Request) QueryText() string {
	return fmt.Sprintf("Trip from %s to %s between %s and %s. Diet preference: %s.",
		r.Source, r.Destination, r.StartDate, r.EndDate, r.DietOrDefault())
}

// ScoredItem is a catalog item with its fused priority score.
type ScoredItem struct {
	// Item carries the original catalog fields.
	Item catalog.Item

	// PriorityScore is the fused score; higher is better.
	PriorityScore float64

	// Scores is the per-signal breakdown (content, graph, popularity).
	Scores map[string]float64
}

// MarshalJSON flattens the catalog fields and the priority score into one
// object, the shape the response contract specifies.
func (s ScoredItem) MarshalJSON() ([]byte, error) {
	itemData, err := json.Marshal(s.Item)
	if err != nil {
		return nil, err
	}

	var flat map[string]any
	if err := json.Unmarshal(itemData, &flat); err != nil {
		return nil, err
	}
	flat["priority_score"] = s.PriorityScore
	if len(s.Scores) > 0 {
		flat["scores"] = s.Scores
	}

	return json.Marshal(flat)
}

// Response carries the four ordered result lists.
type Response struct {
	RecommendedSpots []ScoredItem     `json:"recommended_spots"`
	Hotels           []ScoredItem     `json:"hotels"`
	Food             []ScoredItem     `json:"food"`
	CulturalEvents   []ScoredItem     `json:"cultural_events"`
	Metadata         ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// Candidates is the number of candidate items scored.
	Candidates int `json:"candidates"`

	// DestinationResolved indicates whether the destination city mapped
	// to a graph node. When false, proximity contributed nothing.
	DestinationResolved bool `json:"destination_resolved"`

	// DateFilterApplied indicates whether the event date filter ran.
	// False means the request dates failed to parse and all events
	// passed through.
	DateFilterApplied bool `json:"date_filter_applied"`

	// LatencyMS is the total recommendation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// PopularityProvider supplies a per-candidate popularity score, the
// collaborative-filtering leg of the fusion. The reference pipeline ships
// with this signal disabled; a nil provider scores every candidate 0.
type PopularityProvider interface {
	// Scores returns one popularity score per catalog row, parallel to rows.
	Scores(rows []int) []float64
}
