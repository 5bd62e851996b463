// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filterparams

import (
	"strings"
	"time"
)

// RangePreset is a named relative last-run window.
type RangePreset struct {
	Key   string
	Label string
	Days  int
}

// RangePresets are the lastRunRange presets offered by the date menu,
// in display order.
var RangePresets = []RangePreset{
	{Key: "yesterday", Label: "Yesterday", Days: 1},
	{Key: "last3days", Label: "Last 3 days", Days: 3},
	{Key: "last7days", Label: "Last 7 days", Days: 7},
	{Key: "last14days", Label: "Last 14 days", Days: 14},
	{Key: "last30days", Label: "Last 30 days", Days: 30},
	{Key: "last60days", Label: "Last 60 days", Days: 60},
}

// customRangeSeparator separates the two dates of a custom range.
const customRangeSeparator = ".."

const dateLayout = "2006-01-02"

// CustomRange formats a custom lastRunRange value covering the whole
// UTC days from start through end.
func CustomRange(start, end time.Time) string {
	return start.UTC().Format(dateLayout) + customRangeSeparator + end.UTC().Format(dateLayout)
}

// ResolveRange converts a lastRunRange value into epoch millisecond
// bounds. Presets run from the start of the UTC day N days before now
// through now. Custom ranges cover whole UTC days, end inclusive. ok is
// false for an empty or unrecognized value.
func ResolveRange(value string, now time.Time) (startMillis, endMillis int64, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, 0, false
	}

	for _, preset := range RangePresets {
		if preset.Key == value {
			start := startOfDay(now).AddDate(0, 0, -preset.Days)
			return start.UnixMilli(), now.UnixMilli(), true
		}
	}

	first, last, found := strings.Cut(value, customRangeSeparator)
	if !found {
		return 0, 0, false
	}
	start, err := time.Parse(dateLayout, first)
	if err != nil {
		return 0, 0, false
	}
	end, err := time.Parse(dateLayout, last)
	if err != nil {
		return 0, 0, false
	}
	if end.Before(start) {
		return 0, 0, false
	}
	// Inclusive of the whole final day.
	endOfDay := end.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start.UnixMilli(), endOfDay.UnixMilli(), true
}

// RangeLabel returns a human-readable label for a lastRunRange value.
func RangeLabel(value string) string {
	for _, preset := range RangePresets {
		if preset.Key == value {
			return preset.Label
		}
	}
	if first, last, found := strings.Cut(value, customRangeSeparator); found {
		return first + " to " + last
	}
	return value
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
