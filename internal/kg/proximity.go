// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package kg

import (
	"context"
	"strings"
)

// CityResolver maps a free-text city name to a graph node ID. It is a
// pluggable strategy so the weak substring fallback can be replaced or
// stubbed in tests.
type CityResolver interface {
	// Resolve returns the node ID for the city, or false when the city
	// cannot be mapped to any node.
	Resolve(g *Graph, city string) (string, bool)
}

// SubstringResolver resolves a city by exact key first ("city:<name>"),
// then by a linear scan for the first node whose label contains the city
// name case-insensitively.
//
// The fallback is first-match-wins over insertion order, not best-match,
// which makes short names ambiguous on large graphs. It is kept for
// compatibility with the offline build's node keys.
type SubstringResolver struct{}

// Resolve implements CityResolver.
func (SubstringResolver) Resolve(g *Graph, city string) (string, bool) {
	if city == "" {
		return "", false
	}

	exact := "city:" + city
	if g.HasNode(exact) {
		return exact, true
	}

	needle := strings.ToLower(city)
	for _, id := range g.nodeOrder() {
		n, _ := g.Node(id)
		if strings.Contains(strings.ToLower(n.Label), needle) {
			return id, true
		}
	}

	return "", false
}

// Proximity scores candidates against a resolved destination node.
//
// Each score is 1/(d+1) where d is the shortest directed path length from
// the candidate node to the destination node: strictly decreasing in
// distance, bounded in (0, 1], and 1 only when the candidate is the
// destination itself. Candidates absent from the graph, unreachable
// candidates, and a destination absent from the graph all score 0, never
// an error. A canceled or expired context zeroes the remaining scores.
//
// The caller resolves the destination once (via a CityResolver) and
// passes the node ID, so a request does not repeat the resolution scan
// per scoring pass.
func Proximity(ctx context.Context, g *Graph, dest string, qids []string) []float64 {
	scores := make([]float64, len(qids))

	if !g.HasNode(dest) {
		return scores
	}

	for i, qid := range qids {
		if ctx.Err() != nil {
			break
		}
		if !g.HasNode(qid) {
			continue
		}
		if d, reachable := g.ShortestPath(ctx, qid, dest); reachable {
			scores[i] = 1.0 / float64(d+1)
		}
	}

	return scores
}
