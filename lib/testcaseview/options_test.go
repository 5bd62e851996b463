// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseview

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/clock"
	"github.com/bureau-foundation/dqview/lib/filterparams"
	"github.com/bureau-foundation/dqview/lib/testutil"
)

// scriptedSource answers each Options call with a numbered option so
// tests can tell responses apart.
type scriptedSource struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (source *scriptedSource) Options(ctx context.Context, category Key, term string) ([]Option, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.calls = append(source.calls, string(category)+":"+term)
	if source.fail {
		return nil, errBackendDown
	}
	label := fmt.Sprintf("%s#%d", category, len(source.calls))
	return []Option{{Label: label, Value: label}}, nil
}

func newTestLoader(t *testing.T, source OptionSource) (*OptionLoader, *clock.FakeClock, *recordingHandler) {
	t.Helper()
	logs := &recordingHandler{}
	fakeClock := clock.Fake(testEpoch)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewOptionLoader(ctx, source, fakeClock, slog.New(logs)), fakeClock, logs
}

// deliver runs cmd and applies its messages to loader, returning any
// follow-up commands.
func deliver(loader *OptionLoader, cmd tea.Cmd) []tea.Cmd {
	var followUps []tea.Cmd
	for _, message := range testutil.RunCmd(cmd) {
		if next, _ := loader.Update(message); next != nil {
			followUps = append(followUps, next)
		}
	}
	return followUps
}

func TestDebouncedSearchIssuesOneFetch(t *testing.T) {
	fixture := newPageFixture(t, "")
	fixture.start(t)

	// Each keystroke's debounce command blocks on the fake clock, so
	// run them as a tea.Program would: on their own goroutines.
	messages := make(chan tea.Msg, 3)
	for index, term := range []string{"a", "ab", "abc"} {
		cmd := fixture.page.SearchOptions(filterparams.Tags, term)
		if cmd == nil {
			t.Fatalf("SearchOptions(%q) returned nil", term)
		}
		go func() { messages <- cmd() }()
		fixture.clock.WaitForTimers(index + 1)
		fixture.clock.Advance(300 * time.Millisecond)
	}
	if len(fixture.backend.entitySearches) != 0 {
		t.Fatal("search issued before the quiet window ended")
	}

	fixture.clock.Advance(DebounceWindow)

	var fetches []tea.Cmd
	for range 3 {
		message := testutil.RequireReceive(t, messages, 5*time.Second, "waiting for debounce")
		if cmd := fixture.page.Update(message); cmd != nil {
			fetches = append(fetches, cmd)
		}
	}
	if len(fetches) != 1 {
		t.Fatalf("%d fetches after typing, want 1", len(fetches))
	}
	fixture.drain(t, fetches[0])

	if len(fixture.backend.entitySearches) != 1 {
		t.Fatalf("entity searches = %d, want 1", len(fixture.backend.entitySearches))
	}
	search := fixture.backend.entitySearches[0]
	if search.Query != "*abc*" || search.Index != catalog.IndexTag {
		t.Errorf("search = %+v", search)
	}
}

func TestDebounceWaitsForQuietWindow(t *testing.T) {
	source := &scriptedSource{}
	loader, fakeClock, _ := newTestLoader(t, source)

	messages := make(chan tea.Msg, 1)
	cmd := loader.Search(filterparams.TableFQN, "ord")
	go func() { messages <- cmd() }()
	fakeClock.WaitForTimers(1)

	fakeClock.Advance(DebounceWindow - time.Millisecond)
	select {
	case <-messages:
		t.Fatal("debounce fired before the window elapsed")
	default:
	}
	fakeClock.Advance(time.Millisecond)
	message := testutil.RequireReceive(t, messages, 5*time.Second, "waiting for debounce")

	followUp, handled := loader.Update(message)
	if !handled || followUp == nil {
		t.Fatalf("debounce message: handled=%v followUp=%v", handled, followUp != nil)
	}
	if !loader.State(filterparams.TableFQN).Loading {
		t.Error("category should be loading once the fetch is issued")
	}
	deliver(loader, followUp)
	if !slices.Equal(source.calls, []string{"tableFqn:ord"}) {
		t.Errorf("calls = %v", source.calls)
	}
}

func TestSearchCancelledWithContext(t *testing.T) {
	fakeClock := clock.Fake(testEpoch)
	ctx, cancel := context.WithCancel(context.Background())
	loader := NewOptionLoader(ctx, &scriptedSource{}, fakeClock, slog.New(&recordingHandler{}))

	messages := make(chan tea.Msg, 1)
	cmd := loader.Search(filterparams.Tags, "pii")
	go func() { messages <- cmd() }()
	fakeClock.WaitForTimers(1)
	cancel()
	if message := testutil.RequireReceive(t, messages, 5*time.Second, "waiting for cancelled debounce"); message != nil {
		t.Errorf("cancelled debounce produced %T", message)
	}
}

func TestSearchOnlyForSearchableFilters(t *testing.T) {
	loader, _, _ := newTestLoader(t, &scriptedSource{})
	if cmd := loader.Search(filterparams.Tier, "gold"); cmd != nil {
		t.Error("tier options are filtered locally, not searched")
	}
	if cmd := loader.Search(filterparams.TestCaseStatus, "fail"); cmd != nil {
		t.Error("static filters have no remote search")
	}
}

func TestStaleOptionsDiscarded(t *testing.T) {
	source := &scriptedSource{}
	loader, _, _ := newTestLoader(t, source)

	older := testutil.RunCmd(loader.FetchInitial(filterparams.Tags, true))
	newer := testutil.RunCmd(loader.FetchInitial(filterparams.Tags, true))

	loader.Update(older[0])
	if !loader.State(filterparams.Tags).Loading {
		t.Error("an outdated response cleared the loading flag")
	}
	if len(loader.State(filterparams.Tags).Options) != 0 {
		t.Error("an outdated response was applied")
	}

	loader.Update(newer[0])
	state := loader.State(filterparams.Tags)
	if state.Loading || len(state.Options) != 1 || state.Options[0].Label != "tags#2" {
		t.Errorf("state = %+v", state)
	}

	// A late arrival after the newest one changes nothing.
	loader.Update(older[0])
	if got := loader.State(filterparams.Tags).Options[0].Label; got != "tags#2" {
		t.Errorf("late response overwrote options with %s", got)
	}
}

func TestLoadingFlagIsPerCategory(t *testing.T) {
	loader, _, _ := newTestLoader(t, &scriptedSource{})
	tierCmd := loader.FetchInitial(filterparams.Tier, false)
	tableCmd := loader.FetchInitial(filterparams.TableFQN, false)

	deliver(loader, tierCmd)
	if loader.State(filterparams.Tier).Loading {
		t.Error("tier still loading after its response")
	}
	if !loader.State(filterparams.TableFQN).Loading {
		t.Error("table stopped loading before its response")
	}
	if loader.State(filterparams.Tags).Loading {
		t.Error("tags loading without a request")
	}
	deliver(loader, tableCmd)
	if loader.State(filterparams.TableFQN).Loading {
		t.Error("table still loading after its response")
	}
}

func TestOptionFailureClearsSilently(t *testing.T) {
	source := &scriptedSource{}
	loader, _, logs := newTestLoader(t, source)

	deliver(loader, loader.FetchInitial(filterparams.ServiceName, false))
	if len(loader.State(filterparams.ServiceName).Options) != 1 {
		t.Fatal("setup: service options not loaded")
	}

	source.fail = true
	deliver(loader, loader.FetchInitial(filterparams.ServiceName, true))
	state := loader.State(filterparams.ServiceName)
	if len(state.Options) != 0 || state.Loading {
		t.Errorf("state after failure = %+v", state)
	}
	if visible := logs.atLeast(slog.LevelInfo); len(visible) != 0 {
		t.Errorf("option failure logged visibly: %v", visible)
	}
	if all := logs.atLeast(slog.LevelDebug); len(all) == 0 {
		t.Error("option failure not logged at debug level")
	}
}

func TestFetchInitialSkipsLoaded(t *testing.T) {
	source := &scriptedSource{}
	loader, _, _ := newTestLoader(t, source)

	deliver(loader, loader.FetchInitial(filterparams.Tier, false))
	if cmd := loader.FetchInitial(filterparams.Tier, false); cmd != nil {
		t.Error("loaded category fetched again without force")
	}
	if cmd := loader.FetchInitial(filterparams.Tier, true); cmd == nil {
		t.Error("forced fetch skipped")
	}
	if cmd := loader.FetchInitial(filterparams.TestPlatforms, true); cmd != nil {
		t.Error("static filter fetched remotely")
	}
}

func TestCatalogOptionsSources(t *testing.T) {
	backend := newFakeBackend()
	source := NewCatalogOptions(backend)
	ctx := context.Background()

	tags, err := source.Options(ctx, filterparams.Tags, "")
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	var tagValues []string
	for _, option := range tags {
		tagValues = append(tagValues, option.Value)
	}
	if !slices.Equal(tagValues, []string{"PII.Sensitive", "PersonalData.Personal"}) {
		t.Errorf("tag options = %v, want tier tags excluded", tagValues)
	}

	tiers, err := source.Options(ctx, filterparams.Tier, "ignored")
	if err != nil {
		t.Fatalf("tier: %v", err)
	}
	if len(tiers) != 2 || tiers[1].Label != "Tier 2" || tiers[1].Value != "Tier.Tier2" {
		t.Errorf("tier options = %+v", tiers)
	}
	if !slices.Equal(backend.tagListings, []string{"Tier/100"}) {
		t.Errorf("tag listings = %v", backend.tagListings)
	}

	services, err := source.Options(ctx, filterparams.ServiceName, "mysql")
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	if len(services) != 1 || services[0].Value != "mysql_prod" {
		t.Errorf("service options = %+v", services)
	}
	last := backend.entitySearches[len(backend.entitySearches)-1]
	if last.Index != catalog.IndexDatabaseService || last.Query != "*mysql*" || last.Page != 1 {
		t.Errorf("service search = %+v", last)
	}

	if _, err := source.Options(ctx, filterparams.TestCaseType, ""); err == nil {
		t.Error("static filter should have no remote source")
	}
}

func TestIsTierTagWithoutClassification(t *testing.T) {
	if !isTierTag(catalog.EntitySource{FullyQualifiedName: "Tier.Tier3"}) {
		t.Error("Tier. prefix should mark a tier tag")
	}
	if isTierTag(catalog.EntitySource{FullyQualifiedName: "Tiers.Gold"}) {
		t.Error("Tiers.Gold is not a tier tag")
	}
}
