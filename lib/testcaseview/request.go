// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseview

import (
	"time"

	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/filterparams"
)

// DefaultPageSize is the number of test cases per result page.
const DefaultPageSize = 10

// sortField orders results by latest run, newest first.
const sortField = "testCaseResult.timestamp"

// resultFields are expanded on every listed test case.
var resultFields = []string{
	catalog.FieldTestCaseResult,
	catalog.FieldTestSuite,
	catalog.FieldIncidentID,
}

// BuildSearch assembles the search request for one result page.
//
// Only active filters contribute their values, with one exception: the
// status is always taken from params, and an empty status is requested
// as catalog.AllStatuses. now anchors relative last-run ranges.
func BuildSearch(params filterparams.Params, active ActiveSet, page, pageSize int, now time.Time) catalog.TestCaseSearch {
	page = max(page, 1)
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	search := catalog.TestCaseSearch{
		Offset:          (page - 1) * pageSize,
		Limit:           pageSize,
		SortField:       sortField,
		SortType:        catalog.SortDescending,
		Fields:          resultFields,
		IncludeAllTests: true,
		TestCaseStatus:  catalog.AllStatuses,
	}
	if term := params.Get(filterparams.SearchValue); term != "" {
		search.Query = catalog.WildcardQuery(term)
	}
	if status := params.Get(filterparams.TestCaseStatus); status != "" {
		search.TestCaseStatus = status
	}

	for _, key := range active.Keys() {
		switch key {
		case filterparams.TableFQN:
			if table := params.Get(key); table != "" {
				search.EntityLink = catalog.TableEntityLink(table)
			}
		case filterparams.TestPlatforms:
			search.TestPlatforms = params.Values(key)
		case filterparams.TestCaseType:
			search.TestCaseType = params.Get(key)
		case filterparams.LastRunRange:
			if start, end, ok := filterparams.ResolveRange(params.Get(key), now); ok {
				search.StartTimestamp = start
				search.EndTimestamp = end
			}
		case filterparams.Tags:
			search.Tags = params.Values(key)
		case filterparams.Tier:
			search.Tier = params.Get(key)
		case filterparams.ServiceName:
			search.ServiceName = params.Get(key)
		}
	}
	return search
}
