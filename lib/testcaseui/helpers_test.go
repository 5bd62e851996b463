// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/clock"
	"github.com/bureau-foundation/dqview/lib/testcaseview"
)

var testEpoch = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// uiBackend is an in-memory testcaseview.Backend.
type uiBackend struct {
	mu sync.Mutex

	testCases   []catalog.TestCase
	searchErr   error
	mutationErr error
	permissions catalog.Permissions
	permErr     error

	searches        []catalog.TestCaseSearch
	entitySearches  []catalog.EntitySearch
	incidentUpdates []catalog.IncidentUpdate
	deleted         []string
}

func newUIBackend(count int) *uiBackend {
	backend := &uiBackend{
		permissions: catalog.Permissions{
			catalog.ResourceTestCase: {
				catalog.OperationViewAll: true,
				catalog.OperationEditAll: true,
				catalog.OperationDelete:  true,
			},
		},
	}
	for index := range count {
		backend.testCases = append(backend.testCases, sampleTestCase(index))
	}
	return backend
}

func sampleTestCase(index int) catalog.TestCase {
	status := catalog.StatusSuccess
	if index%2 == 1 {
		status = catalog.StatusFailed
	}
	name := fmt.Sprintf("amount_not_null_%02d", index)
	return catalog.TestCase{
		ID:                 fmt.Sprintf("id-%02d", index),
		Name:               name,
		FullyQualifiedName: "mysql_prod.shop.public.orders.amount." + name,
		EntityLink:         "<#E::table::mysql_prod.shop.public.orders::columns::amount>",
		TestCaseResult: &catalog.TestCaseResult{
			Timestamp:      testEpoch.Add(-3 * time.Hour).UnixMilli(),
			TestCaseStatus: status,
			Result:         "Found 0 null values",
		},
	}
}

func (backend *uiBackend) SearchTestCases(ctx context.Context, search catalog.TestCaseSearch) (*catalog.TestCasePage, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.searches = append(backend.searches, search)
	if backend.searchErr != nil {
		return nil, backend.searchErr
	}
	start := min(search.Offset, len(backend.testCases))
	end := min(start+search.Limit, len(backend.testCases))
	return &catalog.TestCasePage{
		Data:   append([]catalog.TestCase(nil), backend.testCases[start:end]...),
		Paging: catalog.Paging{Offset: search.Offset, Limit: search.Limit, Total: len(backend.testCases)},
	}, nil
}

func (backend *uiBackend) GetTestCaseByName(ctx context.Context, fqn string, fields ...string) (*catalog.TestCase, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	for _, existing := range backend.testCases {
		if existing.FullyQualifiedName == fqn {
			found := existing
			return &found, nil
		}
	}
	return nil, &catalog.APIError{StatusCode: 404, Message: "not found"}
}

func (backend *uiBackend) DeleteTestCase(ctx context.Context, id string) error {
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

func (backend *uiBackend) UpdateIncidentStatus(ctx context.Context, update catalog.IncidentUpdate) error {
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

func (backend *uiBackend) ListTags(ctx context.Context, parent string, limit int) ([]catalog.Tag, error) {
	return []catalog.Tag{{Name: "Tier1", FullyQualifiedName: "Tier.Tier1"}}, nil
}

func (backend *uiBackend) SearchEntities(ctx context.Context, search catalog.EntitySearch) (*catalog.SearchResult, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.entitySearches = append(backend.entitySearches, search)
	hits := []catalog.EntityHit{
		{Source: catalog.EntitySource{Name: "orders", FullyQualifiedName: "mysql_prod.shop.public.orders"}},
		{Source: catalog.EntitySource{Name: "customers", FullyQualifiedName: "mysql_prod.shop.public.customers"}},
	}
	return &catalog.SearchResult{Hits: hits, Total: len(hits)}, nil
}

func (backend *uiBackend) ResourcePermissions(ctx context.Context) (catalog.Permissions, error) {
	if backend.permErr != nil {
		return nil, backend.permErr
	}
	return backend.permissions, nil
}

func (backend *uiBackend) searchCount() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return len(backend.searches)
}

func (backend *uiBackend) lastSearch(t *testing.T) catalog.TestCaseSearch {
	t.Helper()
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.searches) == 0 {
		t.Fatal("no test case search was issued")
	}
	return backend.searches[len(backend.searches)-1]
}

func (backend *uiBackend) entitySearchCount() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return len(backend.entitySearches)
}

// harness runs a Model the way tea.Program does: every command runs
// on its own goroutine and its message is fed back through Update on
// the test goroutine. Commands blocked on the fake clock count as
// settled, so tests advance time explicitly.
type harness struct {
	t       *testing.T
	model   Model
	backend *uiBackend
	clock   *clock.FakeClock

	messages    chan tea.Msg
	outstanding atomic.Int64
}

func newHarness(t *testing.T, location string, backend *uiBackend) *harness {
	t.Helper()
	fakeClock := clock.Fake(testEpoch)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := &harness{
		t:        t,
		backend:  backend,
		clock:    fakeClock,
		messages: make(chan tea.Msg, 256),
	}
	handler := NewTUILogHandler(slog.LevelWarn)
	handler.SetSender(h)

	page, err := testcaseview.NewPage(ctx, testcaseview.PageConfig{
		Location: location,
		Backend:  backend,
		Clock:    fakeClock,
		Logger:   slog.New(countingHandler{Handler: handler, harness: h}),
	})
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	h.model = NewModel(page, fakeClock)

	h.deliver(tea.WindowSizeMsg{Width: 120, Height: 30})
	h.start(h.model.Init())
	h.settle()
	return h
}

// Send implements Sender for the log handler. The notice was counted
// as outstanding when it was handled.
func (h *harness) Send(message tea.Msg) {
	h.messages <- message
	h.outstanding.Add(-1)
}

// countingHandler counts each handled record as outstanding until the
// TUILogHandler's asynchronous Send lands in the harness queue.
type countingHandler struct {
	slog.Handler
	harness *harness
}

func (handler countingHandler) Handle(ctx context.Context, record slog.Record) error {
	handler.harness.outstanding.Add(1)
	return handler.Handler.Handle(ctx, record)
}

func (handler countingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return countingHandler{Handler: handler.Handler.WithAttrs(attrs), harness: handler.harness}
}

func (handler countingHandler) WithGroup(name string) slog.Handler {
	return countingHandler{Handler: handler.Handler.WithGroup(name), harness: handler.harness}
}

func (h *harness) start(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	h.outstanding.Add(1)
	go func() {
		defer h.outstanding.Add(-1)
		message := cmd()
		if batch, ok := message.(tea.BatchMsg); ok {
			for _, inner := range batch {
				h.start(inner)
			}
			return
		}
		if message != nil {
			h.messages <- message
		}
	}()
}

func (h *harness) deliver(message tea.Msg) {
	next, cmd := h.model.Update(message)
	h.model = next.(Model)
	h.start(cmd)
}

// settle delivers messages until every remaining command is waiting on
// the fake clock.
func (h *harness) settle() {
	h.t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		select {
		case message := <-h.messages:
			h.deliver(message)
			continue
		default:
		}
		if int(h.outstanding.Load()) == h.clock.PendingCount() && len(h.messages) == 0 {
			return
		}
		if time.Now().After(deadline) {
			h.t.Fatalf("commands did not settle: %d outstanding, %d timers pending",
				h.outstanding.Load(), h.clock.PendingCount())
		}
		time.Sleep(time.Millisecond)
	}
}

// advance moves the fake clock and settles.
func (h *harness) advance(duration time.Duration) {
	h.t.Helper()
	h.clock.Advance(duration)
	h.settle()
}

// press delivers keys and settles after each. Each argument is a key
// name ("enter", "esc", "tab", "up", "down", "backspace", "ctrl+f") or
// text typed rune by rune.
func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, name := range keys {
		for _, message := range keyMessages(name) {
			h.deliver(message)
			h.settle()
		}
	}
}

func keyMessages(name string) []tea.KeyMsg {
	switch name {
	case "enter":
		return []tea.KeyMsg{{Type: tea.KeyEnter}}
	case "esc":
		return []tea.KeyMsg{{Type: tea.KeyEsc}}
	case "tab":
		return []tea.KeyMsg{{Type: tea.KeyTab}}
	case "up":
		return []tea.KeyMsg{{Type: tea.KeyUp}}
	case "down":
		return []tea.KeyMsg{{Type: tea.KeyDown}}
	case "backspace":
		return []tea.KeyMsg{{Type: tea.KeyBackspace}}
	case "ctrl+f":
		return []tea.KeyMsg{{Type: tea.KeyCtrlF}}
	}
	var messages []tea.KeyMsg
	for _, character := range name {
		messages = append(messages, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{character}})
	}
	return messages
}
