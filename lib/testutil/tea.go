// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	tea "github.com/charmbracelet/bubbletea"
)

// RunCmd executes cmd on the calling goroutine and returns the messages
// it produces. A tea.BatchMsg is expanded into the messages of its
// commands, depth first. Nil commands and nil messages are dropped.
//
// Commands that block (debounce timers) block RunCmd; run those on a
// goroutine and drive the clock from the test.
func RunCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	message := cmd()
	if message == nil {
		return nil
	}
	if batch, ok := message.(tea.BatchMsg); ok {
		var messages []tea.Msg
		for _, inner := range batch {
			messages = append(messages, RunCmd(inner)...)
		}
		return messages
	}
	return []tea.Msg{message}
}

// Updater is a model whose Update returns only a follow-up command.
type Updater interface {
	Update(message tea.Msg) tea.Cmd
}

// Drain runs cmd, feeds every resulting message to model, and repeats
// with the follow-up commands until none remain. Returns the number of
// messages delivered. maxSteps bounds runaway command chains.
func Drain(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, model Updater, cmd tea.Cmd, maxSteps int) int {
	t.Helper()
	pending := []tea.Cmd{cmd}
	delivered := 0
	for len(pending) > 0 {
		next := pending[0]
		pending = pending[1:]
		for _, message := range RunCmd(next) {
			delivered++
			if delivered > maxSteps {
				t.Fatalf("command chain did not settle within %d messages", maxSteps)
			}
			if followUp := model.Update(message); followUp != nil {
				pending = append(pending, followUp)
			}
		}
	}
	return delivered
}
