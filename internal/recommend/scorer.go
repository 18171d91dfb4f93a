// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package recommend

import "fmt"

// Fuse linearly combines the three per-candidate signals:
//
//	score[i] = w.Content*content[i] + w.Graph*proximity[i] + w.Popularity*popularity[i]
//
// popularity may be nil when no collaborative signal is supplied; it is
// treated as all zeros without special-casing the formula. No normalization
// or re-scaling is applied after fusion — raw fused values are compared
// directly during ranking.
func Fuse(w Weights, content, proximity, popularity []float64) ([]float64, error) {
	n := len(content)
	if len(proximity) != n {
		return nil, fmt.Errorf("fuse: proximity length %d != content length %d", len(proximity), n)
	}
	if popularity == nil {
		popularity = make([]float64, n)
	}
	if len(popularity) != n {
		return nil, fmt.Errorf("fuse: popularity length %d != content length %d", len(popularity), n)
	}

	fused := make([]float64, n)
	for i := 0; i < n; i++ {
		fused[i] = w.Content*content[i] + w.Graph*proximity[i] + w.Popularity*popularity[i]
	}

	return fused, nil
}
