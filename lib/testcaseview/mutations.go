// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/dqview/lib/catalog"
)

// Mutation names a write a Page performs on behalf of the user.
type Mutation string

// Mutations.
const (
	MutationIncident Mutation = "incident"
	MutationDelete   Mutation = "delete"
)

// MutationResult is emitted once an incident update or delete settles,
// after the page has applied it. Screens use it to mark the affected
// row. Page.Update ignores it.
type MutationResult struct {
	Mutation    Mutation
	TestCaseFQN string
	Err         error
}

func reportMutation(mutation Mutation, fqn string, err error) tea.Cmd {
	return func() tea.Msg {
		return MutationResult{Mutation: mutation, TestCaseFQN: fqn, Err: err}
	}
}

// incidentUpdatedMsg carries the re-read test case after an incident
// status change. readErr is set when the change was recorded but the
// re-read failed.
type incidentUpdatedMsg struct {
	update   catalog.IncidentUpdate
	testCase *catalog.TestCase
	err      error
	readErr  error
}

// testCaseDeletedMsg reports the outcome of a delete.
type testCaseDeletedMsg struct {
	testCase catalog.TestCase
	err      error
}

// UpdateIncident records a new incident status for a test case, then
// re-reads the test case and patches it into the displayed page. If
// only the re-read fails, the update still counts as applied and the
// page is refetched instead.
func (page *Page) UpdateIncident(update catalog.IncidentUpdate) tea.Cmd {
	if err := update.Validate(); err != nil {
		page.logger.Warn("incident status not changed", "error", err)
		return nil
	}
	ctx, backend := page.ctx, page.backend
	return func() tea.Msg {
		if err := backend.UpdateIncidentStatus(ctx, update); err != nil {
			return incidentUpdatedMsg{update: update, err: err}
		}
		testCase, err := backend.GetTestCaseByName(ctx, update.TestCaseFQN, resultFields...)
		if err == nil && testCase == nil {
			err = errEmptyResponse
		}
		return incidentUpdatedMsg{update: update, testCase: testCase, readErr: err}
	}
}

func (page *Page) handleIncidentUpdated(message incidentUpdatedMsg) tea.Cmd {
	if message.err != nil {
		page.logger.Warn("updating incident status failed",
			"test_case", message.update.TestCaseFQN,
			"status", message.update.Status,
			"error", message.err,
		)
		return reportMutation(MutationIncident, message.update.TestCaseFQN, message.err)
	}
	page.logger.Info("incident status updated",
		"test_case", message.update.TestCaseFQN,
		"status", message.update.Status,
	)
	reported := reportMutation(MutationIncident, message.update.TestCaseFQN, nil)
	if message.readErr != nil {
		page.logger.Debug("re-reading test case failed, refetching page",
			"test_case", message.update.TestCaseFQN,
			"error", message.readErr,
		)
		return tea.Batch(page.Refresh(), reported)
	}
	page.PatchTestCase(*message.testCase)
	return reported
}

// Delete permanently deletes a test case. On success the row is
// dropped and the current page is refetched, or the new last page when
// the current one no longer exists.
func (page *Page) Delete(testCase catalog.TestCase) tea.Cmd {
	ctx, backend := page.ctx, page.backend
	return func() tea.Msg {
		return testCaseDeletedMsg{testCase: testCase, err: backend.DeleteTestCase(ctx, testCase.ID)}
	}
}

func (page *Page) handleDeleted(message testCaseDeletedMsg) tea.Cmd {
	if message.err != nil {
		page.logger.Warn("deleting test case failed",
			"test_case", message.testCase.FullyQualifiedName,
			"error", message.err,
		)
		return reportMutation(MutationDelete, message.testCase.FullyQualifiedName, message.err)
	}
	page.results.Remove(message.testCase.ID)
	page.logger.Info("test case deleted", "test_case", message.testCase.FullyQualifiedName)
	return tea.Batch(page.AfterDelete(), reportMutation(MutationDelete, message.testCase.FullyQualifiedName, nil))
}
