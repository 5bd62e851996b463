// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseview

import (
	"context"

	"github.com/bureau-foundation/dqview/lib/catalog"
)

// Backend is the catalog API surface the listing consumes.
// *catalog.Client implements it; tests substitute a fake.
type Backend interface {
	SearchTestCases(ctx context.Context, search catalog.TestCaseSearch) (*catalog.TestCasePage, error)
	GetTestCaseByName(ctx context.Context, fqn string, fields ...string) (*catalog.TestCase, error)
	DeleteTestCase(ctx context.Context, id string) error
	UpdateIncidentStatus(ctx context.Context, update catalog.IncidentUpdate) error
	ListTags(ctx context.Context, parent string, limit int) ([]catalog.Tag, error)
	SearchEntities(ctx context.Context, search catalog.EntitySearch) (*catalog.SearchResult, error)
	ResourcePermissions(ctx context.Context) (catalog.Permissions, error)
}

var _ Backend = (*catalog.Client)(nil)
