// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package recommend

import "time"

// DateLayout is the day-month-year three-letter-month format shared by
// requests and event metadata, e.g. "20 Oct 2025". Single-digit days parse
// without padding.
const DateLayout = "2 Jan 2006"

// parseTripDate parses a date in DateLayout.
func parseTripDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// overlaps reports whether two inclusive day intervals intersect:
// aStart <= bEnd AND aEnd >= bStart.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
