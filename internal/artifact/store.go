// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

// Package artifact loads the precomputed vector artifacts and the item
// catalog into one consistent combined vector space.
//
// The combined space is the concatenation of three independently
// L2-normalized sub-vectors (content, structural, collaborative), itself
// L2-normalized as a whole. Every item vector and every query vector live
// in the same fixed dimensionality.
package artifact

import (
	"fmt"
	"math"

	"github.com/wayfare-io/wayfare/internal/catalog"
)

// normEpsilon clamps row norms to avoid division by zero for degenerate
// all-zero rows.
const normEpsilon = 1e-12

// Paths names the four artifact files produced by the offline build.
type Paths struct {
	ContentVectors    string
	StructuralVectors string
	CollabVectors     string
	Catalog           string
}

// Store holds the combined vector matrix and the catalog. It is built once
// at startup, never mutated, and safe for concurrent reads.
type Store struct {
	combined   [][]float32
	contentDim int
	dim        int
	catalog    *catalog.Catalog
}

// Load reads the four artifact files and assembles the combined space.
// Any failure here is fatal to startup; there is no partial service.
func Load(p Paths) (*Store, error) {
	content, err := ReadNPY(p.ContentVectors)
	if err != nil {
		return nil, fmt.Errorf("content vectors: %w", err)
	}
	structural, err := ReadNPY(p.StructuralVectors)
	if err != nil {
		return nil, fmt.Errorf("structural vectors: %w", err)
	}
	collab, err := ReadNPY(p.CollabVectors)
	if err != nil {
		return nil, fmt.Errorf("collaborative vectors: %w", err)
	}
	cat, err := catalog.Load(p.Catalog)
	if err != nil {
		return nil, err
	}

	return New(content, structural, collab, cat)
}

// New assembles a store from already-loaded matrices. Row counts across the
// three vector sources and the catalog must agree.
func New(content, structural, collab [][]float32, cat *catalog.Catalog) (*Store, error) {
	n := len(content)
	if len(structural) != n || len(collab) != n || cat.Len() != n {
		return nil, fmt.Errorf(
			"artifact row counts disagree: content=%d structural=%d collab=%d catalog=%d",
			n, len(structural), len(collab), cat.Len())
	}
	if n == 0 {
		return nil, fmt.Errorf("empty artifact set")
	}

	contentDim, err := checkRectangular("content", content)
	if err != nil {
		return nil, err
	}
	structuralDim, err := checkRectangular("structural", structural)
	if err != nil {
		return nil, err
	}
	collabDim, err := checkRectangular("collaborative", collab)
	if err != nil {
		return nil, err
	}

	normalizeRows(content)
	normalizeRows(structural)
	normalizeRows(collab)

	dim := contentDim + structuralDim + collabDim
	combined := make([][]float32, n)
	for i := 0; i < n; i++ {
		row := make([]float32, 0, dim)
		row = append(row, content[i]...)
		row = append(row, structural[i]...)
		row = append(row, collab[i]...)
		combined[i] = row
	}
	normalizeRows(combined)

	return &Store{
		combined:   combined,
		contentDim: contentDim,
		dim:        dim,
		catalog:    cat,
	}, nil
}

// Combined returns the combined vector matrix. Callers must not mutate it.
func (s *Store) Combined() [][]float32 {
	return s.combined
}

// Vector returns the combined vector for a row.
func (s *Store) Vector(row int) ([]float32, bool) {
	if row < 0 || row >= len(s.combined) {
		return nil, false
	}
	return s.combined[row], true
}

// Dim returns the combined-space dimensionality.
func (s *Store) Dim() int {
	return s.dim
}

// ContentDim returns the dimensionality of the content sub-space, the part
// a query vector actually carries before zero-padding.
func (s *Store) ContentDim() int {
	return s.contentDim
}

// Catalog returns the item catalog.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.combined)
}

// checkRectangular verifies every row has the same non-zero width.
func checkRectangular(name string, m [][]float32) (int, error) {
	width := len(m[0])
	if width == 0 {
		return 0, fmt.Errorf("%s vectors have zero width", name)
	}
	for i, row := range m {
		if len(row) != width {
			return 0, fmt.Errorf("%s vectors ragged at row %d: %d != %d", name, i, len(row), width)
		}
	}
	return width, nil
}

// normalizeRows L2-normalizes each row in place, clamping the norm to
// normEpsilon.
func normalizeRows(m [][]float32) {
	for _, row := range m {
		var sum float64
		for _, v := range row {
			sum += float64(v) * float64(v)
		}
		norm := math.Sqrt(sum)
		if norm < normEpsilon {
			norm = normEpsilon
		}
		for j := range row {
			row[j] = float32(float64(row[j]) / norm)
		}
	}
}
