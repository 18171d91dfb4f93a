// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

// Package catalog defines the recommendation item model and the immutable
// item catalog loaded from the offline artifact build.
package catalog

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ItemType partitions items into result categories.
type ItemType string

const (
	// TypePlace covers attractions and hotels. Hotels are places whose
	// metadata sub-type contains "hotel", not a distinct item type.
	TypePlace ItemType = "place"
	// TypeEvent covers festivals and other dated cultural events.
	TypeEvent ItemType = "event"
	// TypeFood covers dishes and restaurants.
	TypeFood ItemType = "food"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case TypePlace, TypeEvent, TypeFood:
		return true
	default:
		return false
	}
}

// PlaceMeta holds metadata specific to place items.
type PlaceMeta struct {
	// Type is the place sub-type (e.g. "hotel", "museum", "park").
	Type        string `json:"type"`
	Lat         string `json:"lat,omitempty"`
	Lon         string `json:"lon,omitempty"`
	Description string `json:"description,omitempty"`
}

// EventMeta holds metadata specific to event items. Start and End are
// day-month-year dates in the "2 Jan 2006" layout.
type EventMeta struct {
	Location    string `json:"location,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description,omitempty"`
}

// FoodMeta holds metadata specific to food items.
type FoodMeta struct {
	Cuisine     string `json:"cuisine,omitempty"`
	Diet        string `json:"diet,omitempty"`
	Description string `json:"description,omitempty"`
}

// Meta is a tagged variant holding exactly one of the per-type metadata
// shapes, selected by the owning item's Type.
type Meta struct {
	Place *PlaceMeta
	Event *EventMeta
	Food  *FoodMeta
}

// Item is the unit of recommendation. Items are created once during the
// offline artifact build and never mutated at request time.
type Item struct {
	// QID is the namespaced external key ("place:", "event:", "food:")
	// shared with the knowledge graph's node identifiers.
	QID string

	// Label is the human-readable display name and the deduplication key.
	Label string

	// Type selects the result category and the Meta variant.
	Type ItemType

	// City is the originating city, used as a fallback join key.
	City string

	// Meta holds the type-specific metadata variant.
	Meta Meta
}

// SubType returns the place sub-type, or "" for non-place items.
func (it Item) SubType() string {
	if it.Meta.Place != nil {
		return it.Meta.Place.Type
	}
	return ""
}

// IsHotel reports whether the item is a hotel: a place whose sub-type
// contains "hotel" (case-insensitive).
func (it Item) IsHotel() bool {
	return it.Type == TypePlace &&
		strings.Contains(strings.ToLower(it.SubType()), "hotel")
}

// EventWindow returns the raw start/end date strings for event items.
// Both are "" for non-event items.
func (it Item) EventWindow() (start, end string) {
	if it.Meta.Event != nil {
		return it.Meta.Event.Start, it.Meta.Event.End
	}
	return "", ""
}

// itemJSON is the wire shape of an item in the catalog artifact and in
// API responses. Meta stays raw until the type tag is known.
type itemJSON struct {
	QID   string          `json:"qid"`
	Label string          `json:"label"`
	Type  ItemType        `json:"type"`
	City  string          `json:"city"`
	Meta  json.RawMessage `json:"meta,omitempty"`
}

// UnmarshalJSON decodes an item, selecting the Meta variant from the
// item's type tag.
func (it *Item) UnmarshalJSON(data []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Type.Valid() {
		return fmt.Errorf("unknown item type %q for %q", raw.Type, raw.QID)
	}

	it.QID = raw.QID
	it.Label = raw.Label
	it.Type = raw.Type
	it.City = raw.City
	it.Meta = Meta{}

	if len(raw.Meta) == 0 {
		// Absent meta decodes to an empty variant so SubType and
		// EventWindow stay total.
		raw.Meta = json.RawMessage("{}")
	}

	switch raw.Type {
	case TypePlace:
		m := &PlaceMeta{}
		if err := json.Unmarshal(raw.Meta, m); err != nil {
			return fmt.Errorf("place meta for %q: %w", raw.QID, err)
		}
		it.Meta.Place = m
	case TypeEvent:
		m := &EventMeta{}
		if err := json.Unmarshal(raw.Meta, m); err != nil {
			return fmt.Errorf("event meta for %q: %w", raw.QID, err)
		}
		it.Meta.Event = m
	case TypeFood:
		m := &FoodMeta{}
		if err := json.Unmarshal(raw.Meta, m); err != nil {
			return fmt.Errorf("food meta for %q: %w", raw.QID, err)
		}
		it.Meta.Food = m
	}

	return nil
}

// MarshalJSON encodes an item with its active Meta variant inlined.
func (it Item) MarshalJSON() ([]byte, error) {
	var meta any
	switch {
	case it.Meta.Place != nil:
		meta = it.Meta.Place
	case it.Meta.Event != nil:
		meta = it.Meta.Event
	case it.Meta.Food != nil:
		meta = it.Meta.Food
	}

	var rawMeta json.RawMessage
	if meta != nil {
		data, err := json.Marshal(meta)
		if err != nil {
			return nil, err
		}
		rawMeta = data
	}

	return json.Marshal(itemJSON{
		QID:   it.QID,
		Label: it.Label,
		Type:  it.Type,
		City:  it.City,
		Meta:  rawMeta,
	})
}
