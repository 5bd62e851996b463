// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/clock"
)

// testEpoch is the fake clock's starting time.
var testEpoch = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// fakeBackend is an in-memory Backend that records every call.
type fakeBackend struct {
	mu sync.Mutex

	testCases   []catalog.TestCase
	searchErr   error
	emptySearch bool
	readErr     error
	permissions catalog.Permissions
	permErr     error
	optionErr   error
	mutationErr error
	hits        map[string][]catalog.EntityHit
	tiers       []catalog.Tag

	searches        []catalog.TestCaseSearch
	entitySearches  []catalog.EntitySearch
	tagListings     []string
	incidentUpdates []catalog.IncidentUpdate
	deleted         []string
	reads           []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		permissions: catalog.Permissions{
			catalog.ResourceTestCase: {catalog.OperationViewAll: true},
		},
		hits: map[string][]catalog.EntityHit{
			catalog.IndexTable: {
				entityHit("svc.db.s.orders", "orders", ""),
				entityHit("svc.db.s.customers", "customers", ""),
			},
			catalog.IndexDatabaseService: {
				entityHit("mysql_prod", "mysql_prod", ""),
			},
			catalog.IndexTag: {
				entityHit("PII.Sensitive", "Sensitive", "PII"),
				entityHit("Tier.Tier1", "Tier1", "Tier"),
				entityHit("PersonalData.Personal", "Personal", "PersonalData"),
			},
		},
		tiers: []catalog.Tag{
			{Name: "Tier1", FullyQualifiedName: "Tier.Tier1"},
			{Name: "Tier2", FullyQualifiedName: "Tier.Tier2", DisplayName: "Tier 2"},
		},
	}
}

func entityHit(fqn, name, classification string) catalog.EntityHit {
	hit := catalog.EntityHit{Source: catalog.EntitySource{Name: name, FullyQualifiedName: fqn}}
	if classification != "" {
		hit.Source.Classification = &catalog.EntityReference{Name: classification}
	}
	return hit
}

func testCase(id, status string) catalog.TestCase {
	return catalog.TestCase{
		ID:                 id,
		Name:               "check_" + id,
		FullyQualifiedName: "svc.db.s.orders.check_" + id,
		TestCaseResult:     &catalog.TestCaseResult{Timestamp: testEpoch.UnixMilli(), TestCaseStatus: status},
		TestSuite:          &catalog.EntityReference{Name: "orders.testSuite"},
	}
}

func (backend *fakeBackend) SearchTestCases(ctx context.Context, search catalog.TestCaseSearch) (*catalog.TestCasePage, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.searches = append(backend.searches, search)
	if backend.searchErr != nil {
		return nil, backend.searchErr
	}
	if backend.emptySearch {
		return nil, nil
	}
	start := min(search.Offset, len(backend.testCases))
	end := min(start+search.Limit, len(backend.testCases))
	return &catalog.TestCasePage{
		Data:   append([]catalog.TestCase(nil), backend.testCases[start:end]...),
		Paging: catalog.Paging{Offset: search.Offset, Limit: search.Limit, Total: len(backend.testCases)},
	}, nil
}

func (backend *fakeBackend) GetTestCaseByName(ctx context.Context, fqn string, fields ...string) (*catalog.TestCase, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.reads = append(backend.reads, fqn)
	if backend.readErr != nil {
		return nil, backend.readErr
	}
	for _, existing := range backend.testCases {
		if existing.FullyQualifiedName == fqn {
			found := existing
			return &found, nil
		}
	}
	return nil, &catalog.APIError{StatusCode: 404, Message: "not found"}
}

func (backend *fakeBackend) DeleteTestCase(ctx context.Context, id string) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.mutationErr != nil {
		return backend.mutationErr
	}
	backend.deleted = append(backend.deleted, id)
	for index, existing := range backend.testCases {
		if existing.ID == id {
			backend.testCases = append(backend.testCases[:index:index], backend.testCases[index+1:]...)
			break
		}
	}
	return nil
}

func (backend *fakeBackend) UpdateIncidentStatus(ctx context.Context, update catalog.IncidentUpdate) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.mutationErr != nil {
		return backend.mutationErr
	}
	backend.incidentUpdates = append(backend.incidentUpdates, update)
	for index, existing := range backend.testCases {
		if existing.FullyQualifiedName == update.TestCaseFQN {
			backend.testCases[index].IncidentID = "incident-" + string(update.Status)
		}
	}
	return nil
}

func (backend *fakeBackend) ListTags(ctx context.Context, parent string, limit int) ([]catalog.Tag, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.tagListings = append(backend.tagListings, fmt.Sprintf("%s/%d", parent, limit))
	if backend.optionErr != nil {
		return nil, backend.optionErr
	}
	return backend.tiers, nil
}

func (backend *fakeBackend) SearchEntities(ctx context.Context, search catalog.EntitySearch) (*catalog.SearchResult, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.entitySearches = append(backend.entitySearches, search)
	if backend.optionErr != nil {
		return nil, backend.optionErr
	}
	hits := backend.hits[search.Index]
	return &catalog.SearchResult{Hits: hits, Total: len(hits)}, nil
}

func (backend *fakeBackend) ResourcePermissions(ctx context.Context) (catalog.Permissions, error) {
	if backend.permErr != nil {
		return nil, backend.permErr
	}
	return backend.permissions, nil
}

// calls returns the total number of recorded catalog calls.
func (backend *fakeBackend) calls() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return len(backend.searches) + len(backend.entitySearches) + len(backend.tagListings) +
		len(backend.incidentUpdates) + len(backend.deleted) + len(backend.reads)
}

func (backend *fakeBackend) searchCount() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return len(backend.searches)
}

func (backend *fakeBackend) lastSearch(t *testing.T) catalog.TestCaseSearch {
	t.Helper()
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.searches) == 0 {
		t.Fatal("no test case search was issued")
	}
	return backend.searches[len(backend.searches)-1]
}

// logRecord is one captured log record.
type logRecord struct {
	level   slog.Level
	message string
}

// recordingHandler captures log records for assertions.
type recordingHandler struct {
	mu      sync.Mutex
	records []logRecord
}

func (handler *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (handler *recordingHandler) Handle(_ context.Context, record slog.Record) error {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	handler.records = append(handler.records, logRecord{level: record.Level, message: record.Message})
	return nil
}

func (handler *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return handler }
func (handler *recordingHandler) WithGroup(string) slog.Handler      { return handler }

// atLeast returns the messages logged at level or above.
func (handler *recordingHandler) atLeast(level slog.Level) []string {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	var messages []string
	for _, record := range handler.records {
		if record.level >= level {
			messages = append(messages, record.message)
		}
	}
	return messages
}

// pageFixture bundles a page with its fakes.
type pageFixture struct {
	page    *Page
	backend *fakeBackend
	clock   *clock.FakeClock
	logs    *recordingHandler
}

func newPageFixture(t *testing.T, location string) *pageFixture {
	t.Helper()
	return newPageFixtureWithBackend(t, location, newFakeBackend())
}

func newPageFixtureWithBackend(t *testing.T, location string, backend *fakeBackend) *pageFixture {
	t.Helper()
	logs := &recordingHandler{}
	fakeClock := clock.Fake(testEpoch)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	page, err := NewPage(ctx, PageConfig{
		Location: location,
		Backend:  backend,
		Clock:    fakeClock,
		Logger:   slog.New(logs),
	})
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	return &pageFixture{page: page, backend: backend, clock: fakeClock, logs: logs}
}

var errBackendDown = errors.New("backend unavailable")
