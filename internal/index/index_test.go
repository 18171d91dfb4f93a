// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package index

import (
	"math"
	"testing"
)

func TestNewRejectsEmptyAndRagged(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for empty matrix")
	}
	if _, err := New([][]float32{{1, 2}, {3}}); err == nil {
		t.Error("expected error for ragged matrix")
	}
}

func TestSearchOrdering(t *testing.T) {
	// Unit vectors at known angles to the query (1, 0).
	ix, err := New([][]float32{
		{0, 1},                 // orthogonal, sim 0
		{1, 0},                 // identical, sim 1
		{0.7071, 0.7071},       // 45 degrees, sim ~0.7071
		{-1, 0},                // opposite, sim -1
		{0.86603, 0.5},         // 30 degrees, sim ~0.866
	})
	if err != nil {
		t.Fatal(err)
	}

	hits, err := ix.Search([]float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}

	wantRows := []int{1, 4, 2, 0, 3}
	for i, want := range wantRows {
		if hits[i].Row != want {
			t.Errorf("hits[%d].Row = %d, want %d", i, hits[i].Row, want)
		}
	}
	if math.Abs(hits[0].Similarity-1) > 1e-5 {
		t.Errorf("top similarity = %v, want 1", hits[0].Similarity)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Similarity > hits[i-1].Similarity {
			t.Errorf("similarity not descending at %d: %v > %v",
				i, hits[i].Similarity, hits[i-1].Similarity)
		}
	}
}

func TestSearchTieBreakByRow(t *testing.T) {
	// Rows 0 and 2 are identical, so they tie exactly.
	ix, err := New([][]float32{
		{1, 0},
		{0, 1},
		{1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}

	hits, err := ix.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if hits[0].Row != 0 || hits[1].Row != 2 {
		t.Errorf("tied rows ordered %d, %d; want 0, 2", hits[0].Row, hits[1].Row)
	}
}

func TestSearchClampsK(t *testing.T) {
	ix, err := New([][]float32{{1}, {2}})
	if err != nil {
		t.Fatal(err)
	}
	hits, err := ix.Search([]float32{1}, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Errorf("len(hits) = %d, want 2", len(hits))
	}
}

func TestSearchErrors(t *testing.T) {
	ix, err := New([][]float32{{1, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ix.Search([]float32{1}, 1); err == nil {
		t.Error("expected error for dimension mismatch")
	}
	if _, err := ix.Search([]float32{1, 0}, 0); err == nil {
		t.Error("expected error for k = 0")
	}
}

func TestSearchZeroVectorScoresZero(t *testing.T) {
	ix, err := New([][]float32{
		{0, 0},
		{1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	hits, err := ix.Search([]float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if hits[0].Row != 1 {
		t.Errorf("top hit = row %d, want 1", hits[0].Row)
	}
	if hits[1].Similarity != 0 {
		t.Errorf("zero vector similarity = %v, want 0", hits[1].Similarity)
	}
}
