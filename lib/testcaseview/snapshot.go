// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bureau-foundation/dqview/lib/filterparams"
)

// ErrNotPermitted is returned by Snapshot when the caller may not list
// test cases.
var ErrNotPermitted = errors.New("not permitted to view test cases")

// Snapshot fetches one result page of location without a program:
// the permission check, then the search a Page at location would issue
// for page number. now anchors relative last-run ranges.
func Snapshot(ctx context.Context, backend Backend, location string, number, pageSize int, now time.Time) (ResultPage, error) {
	permissions, err := backend.ResourcePermissions(ctx)
	if err != nil {
		return ResultPage{}, fmt.Errorf("loading permissions: %w", err)
	}
	if !permissions.CanViewTestCases() {
		return ResultPage{}, ErrNotPermitted
	}

	_, query := filterparams.SplitLocation(location)
	params := filterparams.Parse(query)
	active := NewActiveSet(DefaultActive...)
	active.Union(locationFilters(params)...)

	number = max(number, 1)
	search := BuildSearch(params, active, number, pageSize, now)
	response, err := backend.SearchTestCases(ctx, search)
	if err != nil {
		return ResultPage{}, fmt.Errorf("fetching test cases: %w", err)
	}
	return ResultPage{
		TestCases:   response.Data,
		CurrentPage: number,
		PageSize:    search.Limit,
		Total:       response.Paging.Total,
	}, nil
}
