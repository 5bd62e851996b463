// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the test case browser.
type KeyMap struct {
	// Navigation (list movement or detail scrolling depending on
	// focus).
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	FocusToggle key.Binding

	// Result paging.
	NextPage       key.Binding
	PreviousPage   key.Binding
	GrowPageSize   key.Binding
	ShrinkPageSize key.Binding
	Refresh        key.Binding
	JumpToPage     key.Binding // Type a page number.

	// Filters.
	Search      key.Binding // Edit the free-text search term.
	FilterMenu  key.Binding // Show or hide filter categories.
	EditFilter  key.Binding // Pick values for the filter under the chip cursor.
	NextChip    key.Binding
	PrevChip    key.Binding
	ClearFilter key.Binding // Clear the value of the filter under the chip cursor.
	GoTo        key.Binding // Type or paste a location.

	// Location history.
	Back    key.Binding
	Forward key.Binding

	// Mutations on the selected test case.
	Incident key.Binding
	Delete   key.Binding

	// Overlay input.
	Confirm key.Binding
	Cancel  key.Binding
	Check   key.Binding // Multi-select toggle inside pickers.

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set: vim-style movement
// alongside arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "scroll up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "scroll down"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "switch pane"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("n", "right"),
		key.WithHelp("n", "next page"),
	),
	PreviousPage: key.NewBinding(
		key.WithKeys("p", "left"),
		key.WithHelp("p", "prev page"),
	),
	GrowPageSize: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "more per page"),
	),
	ShrinkPageSize: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "fewer per page"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r", "ctrl+r"),
		key.WithHelp("r", "refresh"),
	),
	JumpToPage: key.NewBinding(
		key.WithKeys(":"),
		key.WithHelp(":", "go to page"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	FilterMenu: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filters"),
	),
	EditFilter: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit filter"),
	),
	NextChip: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next filter"),
	),
	PrevChip: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev filter"),
	),
	ClearFilter: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear filter"),
	),
	GoTo: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open location"),
	),
	Back: key.NewBinding(
		key.WithKeys("backspace", "alt+left"),
		key.WithHelp("BS", "back"),
	),
	Forward: key.NewBinding(
		key.WithKeys("alt+right", "ctrl+f"),
		key.WithHelp("C-f", "forward"),
	),
	Incident: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "incident"),
	),
	Delete: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
	Check: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "check"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
