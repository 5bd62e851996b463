// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DefaultDropdownRows caps how many options a dropdown shows at once.
// Longer lists scroll with the cursor.
const DefaultDropdownRows = 10

// DropdownOption is a single selectable item in a dropdown overlay.
type DropdownOption struct {
	Label   string // Display text shown in the dropdown.
	Value   string // Wire value written to the query string on selection.
	Checked bool   // Multi-select state; ignored by single-select dropdowns.

	// MatchPositions are rune offsets into Label to highlight, set by
	// fuzzy filtering.
	MatchPositions []int
}

// DropdownOverlay renders a floating menu anchored at a screen
// position. It captures all keyboard input when active (up/down to
// navigate, space to check in multi-select mode, enter to confirm,
// escape to dismiss). The model owns the dropdown instance and routes
// input to it when focus is set.
type DropdownOverlay struct {
	Title   string // Optional first line, rendered faint.
	Options []DropdownOption
	Cursor  int
	Multi   bool // Render check markers and allow Toggle.
	MaxRows int  // Visible option rows; zero means DefaultDropdownRows.
	Offset  int  // Index of the first visible option.
	AnchorX int  // Screen X coordinate of the dropdown's top-left corner.
	AnchorY int  // Screen Y coordinate of the dropdown's top-left corner.
	Field   string
	ItemID  string
}

// MoveUp moves the cursor up by one, wrapping to the bottom.
func (dropdown *DropdownOverlay) MoveUp() {
	if len(dropdown.Options) == 0 {
		return
	}
	dropdown.Cursor--
	if dropdown.Cursor < 0 {
		dropdown.Cursor = len(dropdown.Options) - 1
	}
	dropdown.scrollToCursor()
}

// MoveDown moves the cursor down by one, wrapping to the top.
func (dropdown *DropdownOverlay) MoveDown() {
	if len(dropdown.Options) == 0 {
		return
	}
	dropdown.Cursor++
	if dropdown.Cursor >= len(dropdown.Options) {
		dropdown.Cursor = 0
	}
	dropdown.scrollToCursor()
}

// SetOptions replaces the option list, keeping the cursor in range.
// Checked state is carried over for values present in both lists.
func (dropdown *DropdownOverlay) SetOptions(options []DropdownOption) {
	checked := make(map[string]bool)
	for _, option := range dropdown.Options {
		if option.Checked {
			checked[option.Value] = true
		}
	}
	dropdown.Options = options
	for index := range dropdown.Options {
		if checked[dropdown.Options[index].Value] {
			dropdown.Options[index].Checked = true
		}
	}
	if dropdown.Cursor >= len(options) {
		dropdown.Cursor = max(len(options)-1, 0)
	}
	dropdown.scrollToCursor()
}

// Selected returns the currently highlighted option. The second result
// is false when the list is empty.
func (dropdown *DropdownOverlay) Selected() (DropdownOption, bool) {
	if dropdown.Cursor < 0 || dropdown.Cursor >= len(dropdown.Options) {
		return DropdownOption{}, false
	}
	return dropdown.Options[dropdown.Cursor], true
}

// Toggle flips the checked state of the highlighted option. It is a
// no-op for single-select dropdowns.
func (dropdown *DropdownOverlay) Toggle() {
	if !dropdown.Multi || dropdown.Cursor < 0 || dropdown.Cursor >= len(dropdown.Options) {
		return
	}
	dropdown.Options[dropdown.Cursor].Checked = !dropdown.Options[dropdown.Cursor].Checked
}

// CheckedValues returns the values of checked options in list order.
func (dropdown *DropdownOverlay) CheckedValues() []string {
	var values []string
	for _, option := range dropdown.Options {
		if option.Checked {
			values = append(values, option.Value)
		}
	}
	return values
}

func (dropdown *DropdownOverlay) maxRows() int {
	if dropdown.MaxRows > 0 {
		return dropdown.MaxRows
	}
	return DefaultDropdownRows
}

func (dropdown *DropdownOverlay) scrollToCursor() {
	rows := dropdown.maxRows()
	if dropdown.Cursor < dropdown.Offset {
		dropdown.Offset = dropdown.Cursor
	}
	if dropdown.Cursor >= dropdown.Offset+rows {
		dropdown.Offset = dropdown.Cursor - rows + 1
	}
	if dropdown.Offset < 0 {
		dropdown.Offset = 0
	}
}

func (dropdown *DropdownOverlay) visibleRange() (int, int) {
	end := min(dropdown.Offset+dropdown.maxRows(), len(dropdown.Options))
	return dropdown.Offset, end
}

func (dropdown *DropdownOverlay) headerLines() int {
	if dropdown.Title != "" {
		return 1
	}
	return 0
}

// Height returns the number of rendered lines.
func (dropdown *DropdownOverlay) Height() int {
	start, end := dropdown.visibleRange()
	rows := end - start
	if rows == 0 {
		rows = 1 // "no matches" line
	}
	return dropdown.headerLines() + rows
}

func (dropdown *DropdownOverlay) markerWidth() int {
	if dropdown.Multi {
		return 6 // "> [x] "
	}
	return 2 // "> "
}

// Width returns the total visible width of the rendered dropdown in
// columns. This matches the width used by Render and is needed for
// mouse hit-testing.
func (dropdown *DropdownOverlay) Width() int {
	maxLabelWidth := ansi.StringWidth(dropdown.Title)
	for _, option := range dropdown.Options {
		labelWidth := dropdown.markerWidth() + ansi.StringWidth(option.Label)
		if labelWidth > maxLabelWidth {
			maxLabelWidth = labelWidth
		}
	}
	if maxLabelWidth < len(noMatchesLabel)+dropdown.markerWidth() {
		maxLabelWidth = len(noMatchesLabel) + dropdown.markerWidth()
	}
	return maxLabelWidth + 2
}

const noMatchesLabel = "no matches"

// Contains returns true if the screen coordinate (x, y) falls within
// the dropdown's bounding rectangle.
func (dropdown *DropdownOverlay) Contains(x, y int) bool {
	if y < dropdown.AnchorY || y >= dropdown.AnchorY+dropdown.Height() {
		return false
	}
	return x >= dropdown.AnchorX && x < dropdown.AnchorX+dropdown.Width()
}

// OptionAtY returns the option index corresponding to the given
// screen Y coordinate, or -1 if the Y coordinate does not land on an
// option row.
func (dropdown *DropdownOverlay) OptionAtY(y int) int {
	row := y - dropdown.AnchorY - dropdown.headerLines()
	start, end := dropdown.visibleRange()
	index := start + row
	if row < 0 || index >= end {
		return -1
	}
	return index
}

// Render produces the dropdown lines for overlay splicing. Each line
// has the same visible width and a solid background for visual
// separation from the underlying content. The highlighted option uses
// a contrasting background.
func (dropdown *DropdownOverlay) Render(theme Theme) []string {
	totalWidth := dropdown.Width()
	innerWidth := totalWidth - 2

	backgroundStyle := lipgloss.NewStyle().
		Background(theme.OverlayBackground).
		Foreground(theme.OverlayForeground)
	selectedStyle := lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground)
	faintStyle := backgroundStyle.Foreground(theme.FaintText)

	var lines []string
	if dropdown.Title != "" {
		lines = append(lines, PadOverlayLine(faintStyle.Render(dropdown.Title), innerWidth, totalWidth, backgroundStyle))
	}

	start, end := dropdown.visibleRange()
	if start == end {
		lines = append(lines, PadOverlayLine(faintStyle.Render(strings.Repeat(" ", dropdown.markerWidth())+noMatchesLabel), innerWidth, totalWidth, backgroundStyle))
		return lines
	}

	for index := start; index < end; index++ {
		option := dropdown.Options[index]
		style := backgroundStyle
		marker := "  "
		if index == dropdown.Cursor {
			style = selectedStyle
			marker = "> "
		}
		if dropdown.Multi {
			if option.Checked {
				marker += "[x] "
			} else {
				marker += "[ ] "
			}
		}
		highlight := style.Background(theme.MatchHighlightBackground)
		label := HighlightPositions(option.Label, option.MatchPositions, style, highlight)
		lines = append(lines, PadOverlayLine(style.Render(marker)+label, innerWidth, totalWidth, style))
	}

	return lines
}

// HighlightPositions renders text with the runes at positions drawn in
// highlightStyle and everything else in baseStyle. Consecutive runes
// sharing a style are rendered as one segment.
func HighlightPositions(text string, positions []int, baseStyle, highlightStyle lipgloss.Style) string {
	if len(positions) == 0 {
		return baseStyle.Render(text)
	}
	marked := make(map[int]bool, len(positions))
	for _, position := range positions {
		marked[position] = true
	}

	var result strings.Builder
	var segment []rune
	segmentMarked := false
	flush := func() {
		if len(segment) == 0 {
			return
		}
		if segmentMarked {
			result.WriteString(highlightStyle.Render(string(segment)))
		} else {
			result.WriteString(baseStyle.Render(string(segment)))
		}
		segment = segment[:0]
	}
	for index, character := range []rune(text) {
		if marked[index] != segmentMarked {
			flush()
			segmentMarked = marked[index]
		}
		segment = append(segment, character)
	}
	flush()
	return result.String()
}
