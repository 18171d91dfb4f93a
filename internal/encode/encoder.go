// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

// Package encode turns a structured trip request into a query vector in the
// combined space.
//
// The actual text encoding happens in an external embedding service; this
// package owns the request boundary: rendering the query text, calling the
// encoder, and zero-padding the content-space vector to the combined
// dimensionality.
package encode

import "context"

// Encoder produces a content-space vector for a piece of text. It is the
// external-collaborator boundary around the offline text model.
type Encoder interface {
	// Encode returns the content-space embedding for the text.
	Encode(ctx context.Context, text string) ([]float32, error)
}

// Pad zero-extends a content-space vector to the combined dimensionality.
// A vector already at (or beyond) dim is returned unchanged.
func Pad(vec []float32, dim int) []float32 {
	if len(vec) >= dim {
		return vec
	}
	padded := make([]float32, dim)
	copy(padded, vec)
	return padded
}
