// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseview

// History is the stack of locations visited during one session, with
// browser-style back and forward. Entries are encoded query strings.
type History struct {
	entries []string
	index   int
}

// NewHistory starts a history at initial.
func NewHistory(initial string) *History {
	return &History{entries: []string{initial}}
}

// Current returns the entry at the cursor.
func (history *History) Current() string {
	return history.entries[history.index]
}

// Push records query as the newest entry, discarding any entries ahead
// of the cursor.
func (history *History) Push(query string) {
	history.entries = append(history.entries[:history.index+1], query)
	history.index = len(history.entries) - 1
}

// Back moves the cursor one entry back. Reports false at the oldest
// entry.
func (history *History) Back() bool {
	if history.index == 0 {
		return false
	}
	history.index--
	return true
}

// Forward moves the cursor one entry forward. Reports false at the
// newest entry.
func (history *History) Forward() bool {
	if history.index >= len(history.entries)-1 {
		return false
	}
	history.index++
	return true
}

// Len returns the number of entries.
func (history *History) Len() int {
	return len(history.entries)
}
