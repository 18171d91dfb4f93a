// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

// Package index provides the cosine nearest-neighbor adapter over the
// combined vector space.
//
// The index is a pure vector-similarity oracle: it knows nothing about item
// semantics. It is built once at startup from the combined matrix and is
// read-only afterwards, so concurrent searches need no locking.
package index

import (
	"fmt"
	"math"
	"sort"
)

// Hit is a single search result: a combined-matrix row index and its
// cosine similarity to the query.
type Hit struct {
	Row        int     `json:"row"`
	Similarity float64 `json:"similarity"`
}

// Index answers cosine k-NN queries over a fixed vector matrix.
type Index struct {
	vectors [][]float32
	norms   []float64
	dim     int
}

// New builds an index over the given matrix. The matrix is retained by
// reference and must not be mutated afterwards.
func New(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("index: empty vector matrix")
	}

	dim := len(vectors[0])
	norms := make([]float64, len(vectors))
	for i, row := range vectors {
		if len(row) != dim {
			return nil, fmt.Errorf("index: ragged matrix at row %d: %d != %d", i, len(row), dim)
		}
		norms[i] = norm(row)
	}

	return &Index{vectors: vectors, norms: norms, dim: dim}, nil
}

// Len returns the number of indexed vectors.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// Dim returns the indexed dimensionality.
func (ix *Index) Dim() int {
	return ix.dim
}

// Search returns the k most similar rows to the query, ordered by
// descending similarity with ties broken by ascending row index. When k
// exceeds the item count, all items are returned.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("index: query dim %d != index dim %d", len(query), ix.dim)
	}
	if k <= 0 {
		return nil, fmt.Errorf("index: k must be positive, got %d", k)
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}

	qNorm := norm(query)

	hits := make([]Hit, len(ix.vectors))
	for i, row := range ix.vectors {
		hits[i] = Hit{Row: i, Similarity: cosine(query, row, qNorm, ix.norms[i])}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Similarity == hits[b].Similarity {
			return hits[a].Row < hits[b].Row
		}
		return hits[a].Similarity > hits[b].Similarity
	})

	return hits[:k], nil
}

// cosine computes the cosine similarity between two vectors given their
// precomputed norms. Degenerate zero vectors score 0.
func cosine(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
