// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package kg

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// graphJSON is the wire shape of the graph artifact: the offline build
// exports its node and edge lists in insertion order.
type graphJSON struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Load reads a graph artifact. An unreadable or malformed file is fatal to
// startup.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}

	var raw graphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse graph %s: %w", path, err)
	}

	g := NewGraph()
	for _, n := range raw.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("graph %s: node with empty id", path)
		}
		g.AddNode(n)
	}
	for _, e := range raw.Edges {
		if e.From == "" || e.To == "" {
			return nil, fmt.Errorf("graph %s: edge with empty endpoint", path)
		}
		g.AddEdge(e.From, e.To, e.Rel)
	}

	return g, nil
}
