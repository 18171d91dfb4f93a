// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package recommend

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/wayfare-io/wayfare/internal/artifact"
	"github.com/wayfare-io/wayfare/internal/catalog"
	"github.com/wayfare-io/wayfare/internal/kg"
	"github.com/wayfare-io/wayfare/internal/logging"
)

// fakeEncoder returns a fixed content-space vector and records the text it
// was asked to embed.
type fakeEncoder struct {
	vec      []float32
	err      error
	lastText string
}

func (f *fakeEncoder) Encode(_ context.Context, text string) ([]float32, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

type fixedPopularity struct {
	score float64
}

func (p fixedPopularity) Scores(rows []int) []float64 {
	out := make([]float64, len(rows))
	for i := range out {
		out[i] = p.score
	}
	return out
}

// newTestEngine builds an engine over a six-item fixture: three places
// (one a hotel, one a lower-scored duplicate label), one food, and two
// events of which only one overlaps the late-October request window.
func newTestEngine(t *testing.T, enc *fakeEncoder) *Engine {
	t.Helper()

	items := []catalog.Item{
		{QID: "place:City Museum", Label: "City Museum", Type: catalog.TypePlace,
			City: "Kochi", Meta: catalog.Meta{Place: &catalog.PlaceMeta{Type: "museum"}}},
		{QID: "place:Grand Hotel", Label: "Grand Hotel", Type: catalog.TypePlace,
			City: "Kochi", Meta: catalog.Meta{Place: &catalog.PlaceMeta{Type: "luxury hotel"}}},
		{QID: "place:City Museum 2", Label: "city museum ", Type: catalog.TypePlace,
			City: "Kochi", Meta: catalog.Meta{Place: &catalog.PlaceMeta{Type: "museum"}}},
		{QID: "food:Appam", Label: "Appam", Type: catalog.TypeFood,
			City: "Kochi", Meta: catalog.Meta{Food: &catalog.FoodMeta{Diet: "Veg"}}},
		{QID: "event:Boat Race", Label: "Boat Race", Type: catalog.TypeEvent,
			City: "Kochi", Meta: catalog.Meta{Event: &catalog.EventMeta{Start: "22 Oct 2025", End: "23 Oct 2025"}}},
		{QID: "event:Winter Fair", Label: "Winter Fair", Type: catalog.TypeEvent,
			City: "Kochi", Meta: catalog.Meta{Event: &catalog.EventMeta{Start: "1 Jan 2025", End: "2 Jan 2025"}}},
	}
	cat, err := catalog.New(items)
	if err != nil {
		t.Fatal(err)
	}

	// Content x-components order the rows against the query (1, 0); the
	// duplicate-label row scores well below its twin.
	content := [][]float32{
		{1, 0},
		{0.8, 0.6},
		{0.28, 0.96},
		{0.6, 0.8},
		{0.7, 0.714},
		{0.5, 0.866},
	}
	structural := [][]float32{{1}, {1}, {1}, {1}, {1}, {1}}
	collab := [][]float32{{0}, {0}, {0}, {0}, {0}, {0}}

	store, err := artifact.New(content, structural, collab, cat)
	if err != nil {
		t.Fatal(err)
	}

	g := kg.NewGraph()
	g.AddNode(kg.Node{ID: "city:Kochi", Label: "Kochi", Kind: kg.KindCity})
	for _, it := range items {
		g.AddEdge(it.QID, "city:Kochi", kg.RelLocatedIn)
	}

	engine, err := NewEngine(store, g, enc, DefaultConfig(), logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	return engine
}

func tripRequest() Request {
	return Request{
		Source:      "Kozhikode",
		Destination: "Kochi",
		StartDate:   "20 Oct 2025",
		EndDate:     "25 Oct 2025",
		Diet:        "Non-Veg",
	}
}

func TestRecommendEndToEnd(t *testing.T) {
	enc := &fakeEncoder{vec: []float32{1, 0}}
	engine := newTestEngine(t, enc)

	resp, err := engine.Recommend(context.Background(), tripRequest())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	wantText := "Trip from Kozhikode to Kochi between 20 Oct 2025 and 25 Oct 2025. Diet preference: Non-Veg."
	if enc.lastText != wantText {
		t.Errorf("encoded text = %q, want %q", enc.lastText, wantText)
	}

	if got := labels(resp.RecommendedSpots); len(got) != 1 || got[0] != "City Museum" {
		t.Errorf("spots = %v, want [City Museum] after label dedup", got)
	}
	if got := labels(resp.Hotels); len(got) != 1 || got[0] != "Grand Hotel" {
		t.Errorf("hotels = %v, want [Grand Hotel]", got)
	}
	if got := labels(resp.Food); len(got) != 1 || got[0] != "Appam" {
		t.Errorf("food = %v, want [Appam]", got)
	}
	if got := labels(resp.CulturalEvents); len(got) != 1 || got[0] != "Boat Race" {
		t.Errorf("events = %v, want [Boat Race] after date filter", got)
	}

	if resp.Metadata.Candidates != 6 {
		t.Errorf("candidates = %d, want 6", resp.Metadata.Candidates)
	}
	if !resp.Metadata.DestinationResolved {
		t.Error("expected DestinationResolved = true")
	}
	if !resp.Metadata.DateFilterApplied {
		t.Error("expected DateFilterApplied = true")
	}
	if resp.Metadata.RequestID == "" {
		t.Error("expected a generated request id")
	}

	// Every candidate sits in the same city, so the fused score is
	// content-driven plus a constant graph term.
	spot := resp.RecommendedSpots[0]
	if spot.Scores["graph"] != 0.5 {
		t.Errorf("graph score = %v, want 0.5 (one hop)", spot.Scores["graph"])
	}
	if spot.Scores["popularity"] != 0 {
		t.Errorf("popularity score = %v, want 0 without a provider", spot.Scores["popularity"])
	}
	wantFused := 0.5*spot.Scores["content"] + 0.3*0.5
	if diff := spot.PriorityScore - wantFused; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("priority = %v, want %v", spot.PriorityScore, wantFused)
	}
}

func TestRecommendEncoderFailureErrors(t *testing.T) {
	enc := &fakeEncoder{err: fmt.Errorf("encoder down")}
	engine := newTestEngine(t, enc)

	if _, err := engine.Recommend(context.Background(), tripRequest()); err == nil {
		t.Fatal("expected error when encoder fails")
	}
}

func TestRecommendEncoderDimMismatchErrors(t *testing.T) {
	enc := &fakeEncoder{vec: []float32{1, 0, 0}}
	engine := newTestEngine(t, enc)

	if _, err := engine.Recommend(context.Background(), tripRequest()); err == nil {
		t.Fatal("expected error for wrong encoder dimensionality")
	}
}

func TestRecommendUnresolvedDestinationDegrades(t *testing.T) {
	enc := &fakeEncoder{vec: []float32{1, 0}}
	engine := newTestEngine(t, enc)

	req := tripRequest()
	req.Destination = "Atlantis"

	resp, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if resp.Metadata.DestinationResolved {
		t.Error("expected DestinationResolved = false")
	}
	if len(resp.RecommendedSpots) == 0 {
		t.Error("expected content-ranked spots despite unresolved destination")
	}
	for _, s := range resp.RecommendedSpots {
		if s.Scores["graph"] != 0 {
			t.Errorf("graph score = %v, want 0 for unresolved destination", s.Scores["graph"])
		}
	}
}

func TestRecommendMalformedDatesFailOpen(t *testing.T) {
	enc := &fakeEncoder{vec: []float32{1, 0}}
	engine := newTestEngine(t, enc)

	req := tripRequest()
	req.StartDate = "2025-10-20"

	resp, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if resp.Metadata.DateFilterApplied {
		t.Error("expected DateFilterApplied = false for unparsable request dates")
	}
	// Both fixture events pass through unfiltered, capped at EventsK.
	if got := labels(resp.CulturalEvents); len(got) != 2 {
		t.Errorf("events = %v, want both retained", got)
	}
}

func TestRecommendWithPopularityProvider(t *testing.T) {
	enc := &fakeEncoder{vec: []float32{1, 0}}
	engine := newTestEngine(t, enc)
	engine.SetPopularityProvider(fixedPopularity{score: 1})

	resp, err := engine.Recommend(context.Background(), tripRequest())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	spot := resp.RecommendedSpots[0]
	if spot.Scores["popularity"] != 1 {
		t.Errorf("popularity score = %v, want 1", spot.Scores["popularity"])
	}
	wantFused := 0.5*spot.Scores["content"] + 0.3*0.5 + 0.2*1
	if diff := spot.PriorityScore - wantFused; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("priority = %v, want %v", spot.PriorityScore, wantFused)
	}
}

func TestRecommendPreservesSuppliedRequestID(t *testing.T) {
	enc := &fakeEncoder{vec: []float32{1, 0}}
	engine := newTestEngine(t, enc)

	req := tripRequest()
	req.RequestID = "req-123"

	resp, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if resp.Metadata.RequestID != "req-123" {
		t.Errorf("request id = %q, want req-123", resp.Metadata.RequestID)
	}
}

func TestNewEngineValidation(t *testing.T) {
	enc := &fakeEncoder{vec: []float32{1, 0}}
	engine := newTestEngine(t, enc)

	if _, err := NewEngine(nil, engine.graph, enc, DefaultConfig(), logging.NewTestLogger(io.Discard)); err == nil {
		t.Error("expected error for nil store")
	}
	if _, err := NewEngine(engine.store, nil, enc, DefaultConfig(), logging.NewTestLogger(io.Discard)); err == nil {
		t.Error("expected error for nil graph")
	}
	if _, err := NewEngine(engine.store, engine.graph, nil, DefaultConfig(), logging.NewTestLogger(io.Discard)); err == nil {
		t.Error("expected error for nil encoder")
	}

	bad := DefaultConfig()
	bad.Weights.Content = 0.9
	if _, err := NewEngine(engine.store, engine.graph, enc, bad, logging.NewTestLogger(io.Discard)); err == nil {
		t.Error("expected error for invalid weights")
	}
}
