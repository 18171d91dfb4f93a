// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package recommend

import (
	"sort"
	"strings"

	"github.com/wayfare-io/wayfare/internal/catalog"
)

// composed holds the four category lists plus the date-filter outcome.
type composed struct {
	spots             []ScoredItem
	hotels            []ScoredItem
	food              []ScoredItem
	events            []ScoredItem
	dateFilterApplied bool
}

// compose reduces scored candidates into the four deduplicated,
// date-filtered, top-k category lists.
//
// Pipeline per category: partition, (events only) date-overlap filter,
// stable sort by score descending, dedup by trimmed lower-cased label
// keeping the first occurrence — which after sorting is the highest-scoring
// instance, ties resolved by first-seen order — then truncate to k.
func compose(candidates []ScoredItem, startDate, endDate string, limits Limits) composed {
	var spots, hotels, food, events []ScoredItem
	for _, c := range candidates {
		switch {
		case c.Item.IsHotel():
			hotels = append(hotels, c)
		case c.Item.Type == catalog.TypePlace:
			spots = append(spots, c)
		case c.Item.Type == catalog.TypeFood:
			food = append(food, c)
		case c.Item.Type == catalog.TypeEvent:
			events = append(events, c)
		}
	}

	events, filtered := filterEventsByDate(events, startDate, endDate)

	return composed{
		spots:             topK(spots, limits.SpotsK),
		hotels:            topK(hotels, limits.HotelsK),
		food:              topK(food, limits.FoodK),
		events:            topK(events, limits.EventsK),
		dateFilterApplied: filtered,
	}
}

// filterEventsByDate retains events whose [start, end] interval overlaps
// the request interval, inclusive on both ends. Unparsable request dates
// skip the filter entirely (fail-open); an event whose own dates fail to
// parse is dropped.
func filterEventsByDate(events []ScoredItem, startDate, endDate string) ([]ScoredItem, bool) {
	reqStart, okStart := parseTripDate(startDate)
	reqEnd, okEnd := parseTripDate(endDate)
	if !okStart || !okEnd {
		return events, false
	}

	kept := make([]ScoredItem, 0, len(events))
	for _, e := range events {
		startStr, endStr := e.Item.EventWindow()
		evStart, okS := parseTripDate(startStr)
		evEnd, okE := parseTripDate(endStr)
		if !okS || !okE {
			continue
		}
		if overlaps(evStart, evEnd, reqStart, reqEnd) {
			kept = append(kept, e)
		}
	}

	return kept, true
}

// topK sorts by score descending (stable, so equal scores keep first-seen
// order), collapses duplicate labels keeping the highest-scoring instance,
// and truncates to k.
func topK(items []ScoredItem, k int) []ScoredItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PriorityScore > items[j].PriorityScore
	})

	items = dedupByLabel(items)

	if len(items) > k {
		items = items[:k]
	}
	return items
}

// dedupByLabel collapses items sharing a trimmed, lower-cased label,
// keeping the first occurrence. Idempotent.
func dedupByLabel(items []ScoredItem) []ScoredItem {
	seen := make(map[string]struct{}, len(items))
	deduped := items[:0]
	for _, it := range items {
		key := strings.ToLower(strings.TrimSpace(it.Item.Label))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, it)
	}
	return deduped
}
