// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/tui"
)

// Column widths of a list row. The name column takes what is left.
const (
	columnWidthStatus  = 2  // icon + space
	columnWidthTable   = 18 // table short name
	columnWidthLastRun = 9  // "12m ago", "3d ago", "never"
)

// statusIcon returns the one-character indicator of a run outcome.
func statusIcon(status string) string {
	switch status {
	case catalog.StatusSuccess:
		return "✓"
	case catalog.StatusFailed:
		return "✗"
	case catalog.StatusAborted:
		return "◐"
	case catalog.StatusQueued:
		return "○"
	default:
		return "·"
	}
}

// tableName returns the short name of the table a test case checks,
// with the column appended for column-level tests.
func tableName(testCase catalog.TestCase) string {
	link, ok := catalog.ParseEntityLink(testCase.EntityLink)
	if !ok {
		return testCase.EntityFQN
	}
	name := link.FQN
	if index := strings.LastIndex(name, "."); index >= 0 {
		name = name[index+1:]
	}
	if link.Column != "" {
		name += "." + link.Column
	}
	return name
}

// relativeTime renders how long ago a result was recorded.
func relativeTime(then, now time.Time) string {
	elapsed := now.Sub(then)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}

func lastRun(testCase catalog.TestCase, now time.Time) string {
	if testCase.TestCaseResult == nil || testCase.TestCaseResult.Timestamp == 0 {
		return "never"
	}
	return relativeTime(testCase.TestCaseResult.Time(), now)
}

// ListRenderer renders result rows at a fixed width.
type ListRenderer struct {
	theme tui.Theme
	width int
	now   time.Time
}

// NewListRenderer creates a ListRenderer. now anchors the relative
// last-run column.
func NewListRenderer(theme tui.Theme, width int, now time.Time) ListRenderer {
	return ListRenderer{theme: theme, width: width, now: now}
}

// RenderRow renders one test case:
//
//	✗ column_values_to_be_not_null     orders.amount       3h ago
func (renderer ListRenderer) RenderRow(testCase catalog.TestCase, selected bool) string {
	nameWidth := max(renderer.width-columnWidthStatus-columnWidthTable-columnWidthLastRun-2, 8)

	name := fit(testCase.DisplayLabel(), nameWidth)
	table := fit(tableName(testCase), columnWidthTable)
	when := fmt.Sprintf("%*s", columnWidthLastRun, lastRun(testCase, renderer.now))
	icon := statusIcon(testCase.Status())

	if selected {
		style := lipgloss.NewStyle().
			Background(renderer.theme.SelectedBackground).
			Foreground(renderer.theme.SelectedForeground).
			Bold(true)
		return style.Render(padLine(icon+" "+name+" "+table+" "+when, renderer.width))
	}

	iconStyle := lipgloss.NewStyle().Foreground(renderer.theme.StatusColor(testCase.Status()))
	nameStyle := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)
	faintStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	row := iconStyle.Render(icon) + " " +
		nameStyle.Render(name) + " " +
		faintStyle.Render(table) + " " +
		faintStyle.Render(when)
	return padLine(row, renderer.width)
}

// padLine truncates or pads a styled line to exactly width columns.
func padLine(line string, width int) string {
	if ansi.StringWidth(line) > width {
		line = ansi.Truncate(line, width, "")
	}
	return line + strings.Repeat(" ", max(width-ansi.StringWidth(line), 0))
}

// fit truncates text to width with an ellipsis and pads it to exactly
// width columns.
func fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(text) > width {
		text = ansi.Truncate(text, width-1, "") + "…"
	}
	return text + strings.Repeat(" ", max(width-ansi.StringWidth(text), 0))
}
