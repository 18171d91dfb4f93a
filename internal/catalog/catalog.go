// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package catalog

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Catalog is the ordered, immutable mapping from vector-matrix row index to
// item record. It is loaded once at startup and safe for concurrent reads.
type Catalog struct {
	items []Item
	byQID map[string]int
}

// New builds a catalog from an ordered item slice. Row index i corresponds
// to row i of the combined vector matrix. When two rows share a QID the
// first row wins the QID lookup.
func New(items []Item) (*Catalog, error) {
	byQID := make(map[string]int, len(items))
	for i, it := range items {
		if !it.Type.Valid() {
			return nil, fmt.Errorf("row %d: unknown item type %q", i, it.Type)
		}
		if ns, _, ok := strings.Cut(it.QID, ":"); !ok || ns != string(it.Type) {
			return nil, fmt.Errorf("row %d: qid %q does not match type %q", i, it.QID, it.Type)
		}
		if _, ok := byQID[it.QID]; !ok {
			byQID[it.QID] = i
		}
	}

	return &Catalog{items: items, byQID: byQID}, nil
}

// Load reads a catalog artifact: a JSON object keyed by stringified row
// index, one record per combined-matrix row. Rows must be dense from 0.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var rows map[string]Item
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	items := make([]Item, len(rows))
	for key, it := range rows {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(rows) {
			return nil, fmt.Errorf("catalog %s: non-dense row key %q", path, key)
		}
		items[idx] = it
	}

	return New(items)
}

// Len returns the number of catalog rows.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Item returns the record at the given row index.
func (c *Catalog) Item(row int) (Item, bool) {
	if row < 0 || row >= len(c.items) {
		return Item{}, false
	}
	return c.items[row], true
}

// QID returns the namespaced key at the given row index, or "" when the
// row is out of range.
func (c *Catalog) QID(row int) string {
	if row < 0 || row >= len(c.items) {
		return ""
	}
	return c.items[row].QID
}

// RowOf returns the row index for a QID.
func (c *Catalog) RowOf(qid string) (int, bool) {
	row, ok := c.byQID[qid]
	return row, ok
}
