// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/dqview/lib/catalog"
)

// Theme defines the color palette for the terminal viewer. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
//
// The fields cover universal chrome (text, selection, borders) plus
// the semantic categories of the data-quality domain: test run
// outcomes, incident states, and notice severities.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Test run outcome colors.
	StatusSuccess lipgloss.Color
	StatusFailed  lipgloss.Color
	StatusAborted lipgloss.Color
	StatusQueued  lipgloss.Color

	// Incident colors, indexed in catalog.IncidentStatuses order.
	IncidentColors [4]lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	AccentColor      lipgloss.Color // Focus marker, scrollbar thumb, active chips.

	// Filter chips in the header bar.
	ChipForeground       lipgloss.Color
	ChipBackground       lipgloss.Color
	ChipActiveBackground lipgloss.Color

	// Glow accents: background tint for rows that changed recently.
	// GlowPatched follows an incident update; GlowRefused follows a
	// mutation the catalog rejected.
	GlowPatched lipgloss.Color
	GlowRefused lipgloss.Color

	// Fuzzy match highlighting in option pickers.
	MatchHighlightBackground lipgloss.Color

	// Status bar notices.
	NoticeError lipgloss.Color
	NoticeWarn  lipgloss.Color
	NoticeInfo  lipgloss.Color

	// Floating overlays (dropdowns, pickers, confirmation prompts).
	OverlayForeground lipgloss.Color
	OverlayBackground lipgloss.Color
}

// StatusColor returns the color for a test run outcome. Test cases
// that never ran, and unknown outcomes, use FaintText.
func (theme Theme) StatusColor(status string) lipgloss.Color {
	switch status {
	case catalog.StatusSuccess:
		return theme.StatusSuccess
	case catalog.StatusFailed:
		return theme.StatusFailed
	case catalog.StatusAborted:
		return theme.StatusAborted
	case catalog.StatusQueued:
		return theme.StatusQueued
	default:
		return theme.FaintText
	}
}

// IncidentColor returns the color for an incident state, or FaintText
// for an unknown state.
func (theme Theme) IncidentColor(status catalog.IncidentStatus) lipgloss.Color {
	for index, known := range catalog.IncidentStatuses {
		if known == status && index < len(theme.IncidentColors) {
			return theme.IncidentColors[index]
		}
	}
	return theme.FaintText
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusSuccess: lipgloss.Color("114"), // green
	StatusFailed:  lipgloss.Color("196"), // red
	StatusAborted: lipgloss.Color("208"), // orange
	StatusQueued:  lipgloss.Color("75"),  // blue

	IncidentColors: [4]lipgloss.Color{
		lipgloss.Color("196"), // new
		lipgloss.Color("220"), // acknowledged
		lipgloss.Color("141"), // assigned
		lipgloss.Color("114"), // resolved
	},

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	AccentColor:      lipgloss.Color("220"),

	ChipForeground:       lipgloss.Color("252"),
	ChipBackground:       lipgloss.Color("237"),
	ChipActiveBackground: lipgloss.Color("24"),

	GlowPatched: lipgloss.Color("58"), // dark amber
	GlowRefused: lipgloss.Color("52"), // dark red

	MatchHighlightBackground: lipgloss.Color("58"),

	NoticeError: lipgloss.Color("196"),
	NoticeWarn:  lipgloss.Color("208"),
	NoticeInfo:  lipgloss.Color("114"),

	OverlayForeground: lipgloss.Color("252"),
	OverlayBackground: lipgloss.Color("237"),
}
