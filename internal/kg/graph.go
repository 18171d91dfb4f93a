// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

// Package kg provides the knowledge-graph adapter: a directed multi-relation
// graph of typed travel entities and the proximity scoring built on it.
//
// The graph is built offline and loaded read-only at startup; concurrent
// traversals need no locking.
package kg

import "context"

// NodeKind classifies graph nodes.
type NodeKind string

const (
	KindCity    NodeKind = "city"
	KindPlace   NodeKind = "place"
	KindType    NodeKind = "type"
	KindEvent   NodeKind = "event"
	KindFood    NodeKind = "food"
	KindCuisine NodeKind = "cuisine"
	KindDiet    NodeKind = "diet"
)

// Relation classifies directed edges. The source node is always the more
// specific entity.
type Relation string

const (
	RelLocatedIn        Relation = "located_in"         // place -> city
	RelInstanceOf       Relation = "instance_of"        // place -> type
	RelHappensIn        Relation = "happens_in"         // event -> city
	RelAvailableIn      Relation = "available_in"       // food -> city
	RelBelongsToCuisine Relation = "belongs_to_cuisine" // food -> cuisine
	RelServesDiet       Relation = "serves_diet"        // food -> diet
	RelNearby           Relation = "nearby"             // city <-> city, symmetric
)

// Node is a typed graph node. ID carries the namespaced key shared with the
// catalog's QIDs (e.g. "place:City Museum", "city:Kochi").
type Node struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  NodeKind `json:"kind"`
}

// Edge is a directed, typed edge.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Rel  Relation `json:"rel"`
}

// halfEdge is the stored form of an outgoing edge.
type halfEdge struct {
	to  string
	rel Relation
}

// Graph is a directed multi-relation graph. Node insertion order is
// preserved so the fuzzy city-resolution scan stays deterministic.
type Graph struct {
	nodes     map[string]Node
	order     []string
	adjacency map[string][]halfEdge
	edgeCount int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]Node),
		adjacency: make(map[string][]halfEdge),
	}
}

// AddNode inserts a node. Re-adding an existing ID updates its attributes
// without changing its position in the scan order.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.nodes[n.ID]; !ok {
		g.order = append(g.order, n.ID)
	}
	g.nodes[n.ID] = n
}

// AddEdge inserts a directed edge. Endpoints missing from the graph are
// created as bare nodes. Symmetric relations such as "nearby" require the
// caller (or the offline build) to add both directions.
func (g *Graph) AddEdge(from, to string, rel Relation) {
	if _, ok := g.nodes[from]; !ok {
		g.AddNode(Node{ID: from})
	}
	if _, ok := g.nodes[to]; !ok {
		g.AddNode(Node{ID: to})
	}
	g.adjacency[from] = append(g.adjacency[from], halfEdge{to: to, rel: rel})
	g.edgeCount++
}

// EdgesFrom returns the typed outgoing edges of a node, in insertion
// order. Traversal treats all relations uniformly; the typing is for
// callers that need to distinguish them.
func (g *Graph) EdgesFrom(id string) []Edge {
	stored := g.adjacency[id]
	if len(stored) == 0 {
		return nil
	}
	edges := make([]Edge, len(stored))
	for i, he := range stored {
		edges[i] = Edge{From: id, To: he.to, Rel: he.rel}
	}
	return edges
}

// HasNode reports whether the ID is present.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node for an ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// nodeOrder returns node IDs in insertion order.
func (g *Graph) nodeOrder() []string {
	return g.order
}

// ShortestPath returns the length of the shortest directed path from one
// node to another with uniform edge weights. The second return is false
// when either node is absent or no path exists. A node reaches itself at
// distance 0.
func (g *Graph) ShortestPath(ctx context.Context, from, to string) (int, bool) {
	if !g.HasNode(from) || !g.HasNode(to) {
		return 0, false
	}
	if from == to {
		return 0, true
	}

	// Plain BFS; edge weights are uniform so the first visit is shortest.
	visited := map[string]struct{}{from: {}}
	frontier := []string{from}
	dist := 0

	for len(frontier) > 0 {
		if ctx.Err() != nil {
			return 0, false
		}
		dist++

		var next []string
		for _, id := range frontier {
			for _, he := range g.adjacency[id] {
				nb := he.to
				if _, seen := visited[nb]; seen {
					continue
				}
				if nb == to {
					return dist, true
				}
				visited[nb] = struct{}{}
				next = append(next, nb)
			}
		}
		frontier = next
	}

	return 0, false
}
