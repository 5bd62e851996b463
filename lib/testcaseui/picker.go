// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseui

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/dqview/lib/filterparams"
	"github.com/bureau-foundation/dqview/lib/testcaseview"
	"github.com/bureau-foundation/dqview/lib/tui"
)

// picker edits the values of one filter: a text input above a ranked
// option dropdown. For searchable catalog filters every edit of the
// input also re-queries the catalog (debounced by the page); the
// loaded options are ranked locally with fzf as the user types.
type picker struct {
	filter   testcaseview.Filter
	input    textinput.Model
	dropdown tui.DropdownOverlay
	checked  map[string]bool
}

func newPicker(page *testcaseview.Page, filter testcaseview.Filter) *picker {
	input := newInput(filter.Label+" › ", "")
	input.Placeholder = "type to filter"
	if filter.Input == testcaseview.InputDateRange {
		input.Placeholder = "preset, or 2026-03-01..2026-03-15"
	}

	checked := make(map[string]bool)
	for _, value := range page.Values(filter.Key) {
		checked[value] = true
	}

	picker := &picker{
		filter:  filter,
		input:   input,
		checked: checked,
		dropdown: tui.DropdownOverlay{
			Multi: filter.Input == testcaseview.InputMultiSelect,
			Field: string(filter.Key),
		},
	}
	picker.refresh(page)
	return picker
}

// refresh rebuilds the dropdown from the page's current options for
// the filter, ranked against the input.
func (picker *picker) refresh(page *testcaseview.Page) {
	state := page.Options(picker.filter.Key)
	options := make([]tui.DropdownOption, 0, len(state.Options))
	for _, option := range state.Options {
		options = append(options, tui.DropdownOption{
			Label:   option.Label,
			Value:   option.Value,
			Checked: picker.checked[option.Value],
		})
	}
	picker.dropdown.SetOptions(tui.RankOptions(options, picker.input.Value()))

	title := picker.filter.Label
	if state.Loading {
		title += " (loading…)"
	}
	if picker.dropdown.Multi {
		title += "  Tab check, Enter apply"
	}
	picker.dropdown.Title = title
}

// pickerResult is what the model does when a picker closes.
type pickerResult struct {
	apply  bool
	values []string
}

// update handles one key. done is set when the picker should close.
func (picker *picker) update(page *testcaseview.Page, keys KeyMap, message tea.KeyMsg) (cmd tea.Cmd, result pickerResult, done bool) {
	switch {
	case key.Matches(message, keys.Cancel):
		return nil, pickerResult{}, true

	case key.Matches(message, keys.Confirm):
		values, ok := picker.selection()
		return nil, pickerResult{apply: ok, values: values}, true

	case message.Type == tea.KeyUp:
		picker.dropdown.MoveUp()
		return nil, pickerResult{}, false

	case message.Type == tea.KeyDown:
		picker.dropdown.MoveDown()
		return nil, pickerResult{}, false

	case picker.dropdown.Multi && key.Matches(message, keys.Check):
		if option, ok := picker.dropdown.Selected(); ok {
			picker.checked[option.Value] = !picker.checked[option.Value]
			picker.dropdown.Toggle()
		}
		return nil, pickerResult{}, false
	}

	before := picker.input.Value()
	var inputCmd tea.Cmd
	picker.input, inputCmd = picker.input.Update(message)
	term := picker.input.Value()
	if term == before {
		return inputCmd, pickerResult{}, false
	}
	picker.refresh(page)
	if picker.filter.Searchable {
		return tea.Batch(inputCmd, page.SearchOptions(picker.filter.Key, strings.TrimSpace(term))), pickerResult{}, false
	}
	return inputCmd, pickerResult{}, false
}

// selection returns the values to store. Multi-select stores the
// checked values (none clears the filter); single select stores the
// highlighted option. A date-range picker also accepts a typed custom
// range.
func (picker *picker) selection() ([]string, bool) {
	if picker.filter.Input == testcaseview.InputDateRange {
		if typed := strings.TrimSpace(picker.input.Value()); typed != "" {
			if _, _, ok := filterparams.ResolveRange(typed, time.Time{}); ok && strings.Contains(typed, "..") {
				return []string{typed}, true
			}
		}
	}
	if picker.dropdown.Multi {
		var values []string
		for _, option := range picker.dropdown.Options {
			if picker.checked[option.Value] {
				values = append(values, option.Value)
			}
		}
		// Checked values filtered out of view by the input still count.
		var hidden []string
		for value, checked := range picker.checked {
			if checked && !slices.Contains(values, value) {
				hidden = append(hidden, value)
			}
		}
		sort.Strings(hidden)
		return append(values, hidden...), true
	}
	option, ok := picker.dropdown.Selected()
	if !ok {
		return nil, false
	}
	return []string{option.Value}, true
}

// render returns the picker's overlay lines: the input, then the
// dropdown.
func (picker *picker) render(theme tui.Theme) []string {
	dropdownLines := picker.dropdown.Render(theme)
	width := picker.dropdown.Width()
	inputLine := picker.input.View()
	width = max(width, lipgloss.Width(inputLine)+2)

	background := lipgloss.NewStyle().Background(theme.OverlayBackground).Foreground(theme.OverlayForeground)
	lines := []string{tui.PadOverlayLine(inputLine, width-2, width, background)}
	for _, line := range dropdownLines {
		lines = append(lines, line+background.Render(strings.Repeat(" ", max(width-lipgloss.Width(line), 0))))
	}
	return lines
}
