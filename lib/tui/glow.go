// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// GlowDuration is how long a row stays tinted after a mutation.
const GlowDuration = 5 * time.Second

// GlowTickInterval is the re-render interval while any row glows.
const GlowTickInterval = 250 * time.Millisecond

// GlowKind selects the tint color.
type GlowKind int

const (
	// GlowPatched marks a row whose record was updated in place.
	GlowPatched GlowKind = iota
	// GlowRefused marks a row whose mutation the catalog rejected.
	GlowRefused
)

type glowEntry struct {
	lit  time.Time
	kind GlowKind
}

// GlowTracker remembers when rows were last mutated so the list can
// tint them for GlowDuration. Not safe for concurrent use; it lives on
// the UI goroutine.
type GlowTracker struct {
	entries map[string]glowEntry
}

// NewGlowTracker creates an empty tracker.
func NewGlowTracker() *GlowTracker {
	return &GlowTracker{entries: make(map[string]glowEntry)}
}

// Light starts (or restarts) the glow for a row.
func (tracker *GlowTracker) Light(rowID string, kind GlowKind, now time.Time) {
	tracker.entries[rowID] = glowEntry{lit: now, kind: kind}
}

// Lit reports whether the row is still glowing at now, and with which
// kind.
func (tracker *GlowTracker) Lit(rowID string, now time.Time) (GlowKind, bool) {
	entry, exists := tracker.entries[rowID]
	if !exists || now.Sub(entry.lit) >= GlowDuration {
		return 0, false
	}
	return entry.kind, true
}

// Active reports whether any row still glows. Expired entries are
// dropped as a side effect, so the tick loop stops once it returns
// false.
func (tracker *GlowTracker) Active(now time.Time) bool {
	active := false
	for rowID, entry := range tracker.entries {
		if now.Sub(entry.lit) < GlowDuration {
			active = true
			continue
		}
		delete(tracker.entries, rowID)
	}
	return active
}

// Color returns the theme tint for a glow kind.
func (kind GlowKind) Color(theme Theme) lipgloss.Color {
	if kind == GlowRefused {
		return theme.GlowRefused
	}
	return theme.GlowPatched
}
