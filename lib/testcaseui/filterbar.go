// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/dqview/lib/filterparams"
	"github.com/bureau-foundation/dqview/lib/testcaseview"
	"github.com/bureau-foundation/dqview/lib/tui"
)

// activeFilters returns the shown filters in menu order.
func activeFilters(page *testcaseview.Page) []testcaseview.Filter {
	var filters []testcaseview.Filter
	for _, filter := range testcaseview.Filters {
		if page.IsActive(filter.Key) {
			filters = append(filters, filter)
		}
	}
	return filters
}

// valueLabel returns the display text of one filter value: the static
// option label when there is one, the last FQN segment for catalog
// entities, the value itself otherwise.
func valueLabel(filter testcaseview.Filter, value string) string {
	if filter.Input == testcaseview.InputDateRange {
		return filterparams.RangeLabel(value)
	}
	for _, option := range filter.Static {
		if option.Value == value {
			return option.Label
		}
	}
	if filter.Key == filterparams.TableFQN || filter.Key == filterparams.ServiceName {
		if index := strings.LastIndex(value, "."); index >= 0 {
			return value[index+1:]
		}
	}
	return value
}

// chipText renders the text of a filter chip, e.g. "Status: Failed" or
// "Tags: PII.Sensitive +2". Filters without a value read "any"; the
// status filter reads "All" since an empty status means every status.
func chipText(page *testcaseview.Page, filter testcaseview.Filter) string {
	values := page.Values(filter.Key)
	text := filter.Label + ": "
	switch {
	case len(values) == 0 && filter.Key == filterparams.TestCaseStatus:
		text += "All"
	case len(values) == 0:
		text += "any"
	default:
		text += valueLabel(filter, values[0])
		if len(values) > 1 {
			text += " +" + strconv.Itoa(len(values)-1)
		}
	}
	if filter.Remote && page.Options(filter.Key).Loading {
		text += " …"
	}
	return text
}

// renderFilterBar renders the chip row. The chip at cursor is
// highlighted when focused is set.
func renderFilterBar(page *testcaseview.Page, theme tui.Theme, width, cursor int, focused bool) string {
	chipStyle := lipgloss.NewStyle().
		Foreground(theme.ChipForeground).
		Background(theme.ChipBackground).
		Padding(0, 1)
	valuedStyle := chipStyle.Background(theme.ChipActiveBackground)
	cursorStyle := chipStyle.
		Background(theme.SelectedBackground).
		Foreground(theme.AccentColor).
		Bold(true)

	var chips []string
	for index, filter := range activeFilters(page) {
		style := chipStyle
		if len(page.Values(filter.Key)) > 0 {
			style = valuedStyle
		}
		if focused && index == cursor {
			style = cursorStyle
		}
		chips = append(chips, style.Render(chipText(page, filter)))
	}

	hint := lipgloss.NewStyle().Foreground(theme.HelpText).Render(" f filters")
	line := " " + strings.Join(chips, " ") + hint
	if ansi.StringWidth(line) > width {
		line = ansi.Truncate(line, width-1, "") + "…"
	}
	return padLine(line, width)
}

// renderInfoLine shows the search term on the left and paging on the
// right.
func renderInfoLine(page *testcaseview.Page, theme tui.Theme, width int) string {
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	accent := lipgloss.NewStyle().Foreground(theme.AccentColor)

	left := faint.Render(" search: ")
	if term := page.Params().Get(filterparams.SearchValue); term != "" {
		left += accent.Render(term)
	} else {
		left += faint.Render("(none)")
	}

	results := page.Results()
	right := ""
	if page.Loading() {
		right = "loading…  "
	}
	if count := results.PageCount(); count > 0 {
		right += "page " + strconv.Itoa(results.CurrentPage) + "/" + strconv.Itoa(count) + "  "
	}
	right += strconv.Itoa(results.Total) + " test cases  " + strconv.Itoa(page.PageSize()) + "/page "
	right = faint.Render(right)

	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return padLine(left, width)
	}
	return left + strings.Repeat(" ", gap) + right
}
