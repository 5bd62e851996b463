// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseview

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/dqview/lib/catalog"
)

var errEmptyResponse = errors.New("catalog returned an empty response")

// ResultPage is the displayed page of test cases.
type ResultPage struct {
	TestCases []catalog.TestCase

	// CurrentPage is 1-based.
	CurrentPage int
	PageSize    int

	// Total is the number of matching test cases across all pages.
	Total int
}

// PageCount returns the number of pages at the current page size.
func (page ResultPage) PageCount() int {
	if page.PageSize <= 0 || page.Total <= 0 {
		return 0
	}
	return (page.Total + page.PageSize - 1) / page.PageSize
}

// HasNext reports whether a page follows the current one.
func (page ResultPage) HasNext() bool {
	return page.CurrentPage < page.PageCount()
}

// HasPrevious reports whether a page precedes the current one.
func (page ResultPage) HasPrevious() bool {
	return page.CurrentPage > 1
}

// resultsLoadedMsg carries the outcome of a result fetch.
type resultsLoadedMsg struct {
	generation uint64
	page       int
	pageSize   int
	response   *catalog.TestCasePage
	err        error
}

// Results fetches and holds the displayed result page.
type Results struct {
	ctx     context.Context
	backend Backend
	logger  *slog.Logger

	page       ResultPage
	loading    bool
	generation uint64
}

// NewResults creates an empty result holder. Fetches run under ctx.
func NewResults(ctx context.Context, backend Backend, logger *slog.Logger) *Results {
	return &Results{ctx: ctx, backend: backend, logger: logger}
}

// Page returns the displayed page.
func (results *Results) Page() ResultPage {
	return results.page
}

// Loading is true while the newest fetch is in flight.
func (results *Results) Loading() bool {
	return results.loading
}

// SetLoading overrides the loading flag. Used when a fetch is
// abandoned before it is issued, such as on a permission denial.
func (results *Results) SetLoading(loading bool) {
	results.loading = loading
}

// Fetch requests search as result page page. The displayed page is
// replaced when the newest fetch succeeds.
func (results *Results) Fetch(search catalog.TestCaseSearch, page int) tea.Cmd {
	results.generation++
	results.loading = true
	generation := results.generation
	ctx, backend := results.ctx, results.backend
	return func() tea.Msg {
		response, err := backend.SearchTestCases(ctx, search)
		if err == nil && response == nil {
			err = errEmptyResponse
		}
		return resultsLoadedMsg{
			generation: generation,
			page:       page,
			pageSize:   search.Limit,
			response:   response,
			err:        err,
		}
	}
}

// Update applies result messages. handled is false for messages that
// belong to someone else.
func (results *Results) Update(message tea.Msg) (handled bool) {
	loaded, ok := message.(resultsLoadedMsg)
	if !ok {
		return false
	}
	if loaded.generation != results.generation {
		results.logger.Debug("discarding stale results",
			"generation", loaded.generation,
			"latest", results.generation,
		)
		return true
	}
	results.loading = false
	if loaded.err != nil {
		if results.ctx.Err() == nil {
			results.logger.Error("fetching test cases failed", "error", loaded.err)
		}
		return true
	}
	results.page = ResultPage{
		TestCases:   loaded.response.Data,
		CurrentPage: loaded.page,
		PageSize:    loaded.pageSize,
		Total:       loaded.response.Paging.Total,
	}
	return true
}

// PatchOne replaces the displayed test case that record identifies,
// matched by ID and, when record has no ID, by fully-qualified name.
// Expanded fields the update does not carry keep their displayed
// values. Reports whether a record was replaced. No request is made.
func (results *Results) PatchOne(record catalog.TestCase) bool {
	for index, existing := range results.page.TestCases {
		if !sameTestCase(existing, record) {
			continue
		}
		testCases := slices.Clone(results.page.TestCases)
		testCases[index] = mergeTestCase(existing, record)
		results.page.TestCases = testCases
		return true
	}
	return false
}

// Remove drops the displayed test case with id without refetching.
func (results *Results) Remove(id string) bool {
	for index, existing := range results.page.TestCases {
		if existing.ID == id {
			results.page.TestCases = slices.Delete(slices.Clone(results.page.TestCases), index, index+1)
			results.page.Total = max(results.page.Total-1, 0)
			return true
		}
	}
	return false
}

func sameTestCase(a, b catalog.TestCase) bool {
	if b.ID != "" {
		return a.ID == b.ID
	}
	return b.FullyQualifiedName != "" && a.FullyQualifiedName == b.FullyQualifiedName
}

func mergeTestCase(existing, update catalog.TestCase) catalog.TestCase {
	merged := update
	if merged.TestCaseResult == nil {
		merged.TestCaseResult = existing.TestCaseResult
	}
	if merged.TestSuite == nil {
		merged.TestSuite = existing.TestSuite
	}
	if merged.TestDefinition == nil {
		merged.TestDefinition = existing.TestDefinition
	}
	if merged.ID == "" {
		merged.ID = existing.ID
	}
	return merged
}
