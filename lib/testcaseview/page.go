// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseview

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/clock"
	"github.com/bureau-foundation/dqview/lib/filterparams"
)

// PermissionState is the outcome of the view permission check.
type PermissionState int

const (
	// PermissionPending means the check has not completed.
	PermissionPending PermissionState = iota

	// PermissionGranted means the caller may list test cases.
	PermissionGranted

	// PermissionDenied means the caller may not, or the check failed.
	PermissionDenied
)

func (state PermissionState) String() string {
	switch state {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "pending"
	}
}

// permissionsLoadedMsg carries the outcome of the permission check.
type permissionsLoadedMsg struct {
	permissions catalog.Permissions
	err         error
}

// PageConfig configures a Page.
type PageConfig struct {
	// Location is the starting location: a query string or a full URL.
	Location string

	// PageSize is the number of results per page. Defaults to
	// DefaultPageSize.
	PageSize int

	// Backend serves results, mutations, and permissions. Required.
	Backend Backend

	// Options serves remote filter options. Defaults to
	// NewCatalogOptions(Backend).
	Options OptionSource

	// Clock drives debouncing and relative date ranges. Defaults to
	// clock.Real().
	Clock clock.Clock

	// Logger receives result failures at error level, mutation
	// failures at warn level, and option failures at debug level.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Page is the state of one test case listing session.
type Page struct {
	ctx     context.Context
	backend Backend
	clock   clock.Clock
	logger  *slog.Logger

	// base is the part of the starting location before the query,
	// kept so the printed location reopens the same page.
	base    string
	history *History
	params  filterparams.Params

	active   ActiveSet
	options  *OptionLoader
	results  *Results
	pageSize int

	permission  PermissionState
	permissions catalog.Permissions
}

// NewPage creates a page at config.Location. Nothing is fetched until
// Init's permission check succeeds. Requests run under ctx; cancel it
// when the program exits.
func NewPage(ctx context.Context, config PageConfig) (*Page, error) {
	if config.Backend == nil {
		return nil, errors.New("testcaseview: backend is required")
	}
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	source := config.Options
	if source == nil {
		source = NewCatalogOptions(config.Backend)
	}

	path, query := filterparams.SplitLocation(config.Location)
	base := ""
	if path != "" {
		base, _, _ = strings.Cut(strings.TrimSpace(config.Location), "?")
	}
	params := filterparams.Parse(query)
	encoded := filterparams.Encode(params)

	return &Page{
		ctx:      ctx,
		backend:  config.Backend,
		clock:    clk,
		logger:   logger,
		base:     base,
		history:  NewHistory(encoded),
		params:   filterparams.Parse(encoded),
		active:   NewActiveSet(DefaultActive...),
		options:  NewOptionLoader(ctx, source, clk, logger),
		results:  NewResults(ctx, config.Backend, logger),
		pageSize: pageSize,
	}, nil
}

// Init starts the permission check. The first results are requested
// when it grants access.
func (page *Page) Init() tea.Cmd {
	page.results.SetLoading(true)
	ctx, backend := page.ctx, page.backend
	return func() tea.Msg {
		permissions, err := backend.ResourcePermissions(ctx)
		return permissionsLoadedMsg{permissions: permissions, err: err}
	}
}

// Update applies the completion message of one of the page's commands
// and returns any follow-up command. Messages the page does not own are
// ignored.
func (page *Page) Update(message tea.Msg) tea.Cmd {
	if cmd, handled := page.options.Update(message); handled {
		return cmd
	}
	if page.results.Update(message) {
		return nil
	}

	switch message := message.(type) {
	case permissionsLoadedMsg:
		return page.handlePermissions(message)
	case incidentUpdatedMsg:
		return page.handleIncidentUpdated(message)
	case testCaseDeletedMsg:
		return page.handleDeleted(message)
	}
	return nil
}

func (page *Page) handlePermissions(message permissionsLoadedMsg) tea.Cmd {
	if message.err != nil {
		page.logger.Warn("loading permissions failed", "error", message.err)
		page.deny()
		return nil
	}
	page.permissions = message.permissions
	if !message.permissions.CanViewTestCases() {
		page.logger.Info("test case listing not permitted")
		page.deny()
		return nil
	}
	page.permission = PermissionGranted

	// First display: load every active remote category even if a list
	// is already present, then the first page.
	cmds := page.hydrate(true)
	cmds = append(cmds, page.fetch(1))
	return tea.Batch(cmds...)
}

func (page *Page) deny() {
	page.permission = PermissionDenied
	page.results.SetLoading(false)
}

// hydrate activates every filter that has a value in the location (or
// is listed in selectedFilters) and loads the options of every active
// remote category. Without force, categories that already have options
// are not reloaded.
func (page *Page) hydrate(force bool) []tea.Cmd {
	if added := page.active.Union(locationFilters(page.params)...); len(added) > 0 {
		page.logger.Debug("showing filters from location", "added", added)
	}

	var cmds []tea.Cmd
	for _, key := range page.active.Keys() {
		if cmd := page.options.FetchInitial(key, force); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// fetch requests result page number. Nothing is requested until the
// permission check grants access.
func (page *Page) fetch(number int) tea.Cmd {
	if page.permission != PermissionGranted {
		return nil
	}
	number = max(number, 1)
	search := BuildSearch(page.params, page.active, number, page.pageSize, page.clock.Now())
	return page.results.Fetch(search, number)
}

// locationFilters returns the filter keys params gives a value or
// lists in selectedFilters.
func locationFilters(params filterparams.Params) []Key {
	var keys []Key
	for _, name := range params.Keys() {
		if key := Key(name); IsFilterKey(key) {
			keys = append(keys, key)
		}
	}
	for _, name := range params.Values(filterparams.SelectedFilters) {
		if key := Key(name); IsFilterKey(key) {
			keys = append(keys, key)
		}
	}
	return keys
}

// navigate makes next the current location. Reports false when the
// location is unchanged. The stored params are re-parsed from the
// pushed location so they always match what a reader of the location
// would see.
func (page *Page) navigate(next filterparams.Params) bool {
	encoded := filterparams.Encode(next)
	if encoded == filterparams.Encode(page.params) {
		return false
	}
	page.history.Push(encoded)
	page.params = filterparams.Parse(encoded)
	return true
}

// paramsChanged reacts to a new location: newly valued filters become
// active and the first page is requested.
func (page *Page) paramsChanged() tea.Cmd {
	cmds := page.hydrate(false)
	cmds = append(cmds, page.fetch(1))
	return tea.Batch(cmds...)
}

// Toggle shows or hides a filter. Hiding clears its value from the
// location. Showing a remote-backed filter loads its options if none
// are loaded yet. Either way the first page is requested once.
func (page *Page) Toggle(key Key) tea.Cmd {
	if !IsFilterKey(key) {
		return nil
	}
	var cmds []tea.Cmd
	next := page.params
	if page.active.Toggle(key) {
		cmds = append(cmds, page.options.FetchInitial(key, false))
	} else {
		next = next.Without(key)
		if selected := next.Values(filterparams.SelectedFilters); len(selected) > 0 {
			next = next.With(filterparams.SelectedFilters, without(selected, string(key))...)
		}
	}
	page.navigate(next)
	cmds = append(cmds, page.fetch(1))
	return tea.Batch(cmds...)
}

// SetValue sets a filter's values in the location. No values clears
// it. Setting a value on a hidden filter shows it.
func (page *Page) SetValue(key Key, values ...string) tea.Cmd {
	if !page.navigate(page.params.With(key, values...)) {
		return nil
	}
	return page.paramsChanged()
}

// SetSearch sets the free-text search term.
func (page *Page) SetSearch(term string) tea.Cmd {
	return page.SetValue(filterparams.SearchValue, strings.TrimSpace(term))
}

// Navigate replaces the location with one typed or pasted by the
// user: a query string or a full URL.
func (page *Page) Navigate(location string) tea.Cmd {
	_, query := filterparams.SplitLocation(location)
	if !page.navigate(filterparams.Parse(query)) {
		return nil
	}
	return page.paramsChanged()
}

// Back returns to the previous location. Returns nil at the oldest.
func (page *Page) Back() tea.Cmd {
	if !page.history.Back() {
		return nil
	}
	page.params = filterparams.Parse(page.history.Current())
	return page.paramsChanged()
}

// Forward undoes Back. Returns nil at the newest location.
func (page *Page) Forward() tea.Cmd {
	if !page.history.Forward() {
		return nil
	}
	page.params = filterparams.Parse(page.history.Current())
	return page.paramsChanged()
}

// SearchOptions re-queries a remote filter's options for term after
// the debounce window.
func (page *Page) SearchOptions(key Key, term string) tea.Cmd {
	return page.options.Search(key, term)
}

// LoadOptions loads a filter's options if none are loaded yet, as
// when its picker opens.
func (page *Page) LoadOptions(key Key) tea.Cmd {
	return page.options.FetchInitial(key, false)
}

// GoToPage requests result page number, clamped to the known range.
func (page *Page) GoToPage(number int) tea.Cmd {
	if count := page.results.Page().PageCount(); count > 0 && number > count {
		number = count
	}
	return page.fetch(max(number, 1))
}

// NextPage requests the page after the current one, if any.
func (page *Page) NextPage() tea.Cmd {
	current := page.results.Page()
	if !current.HasNext() {
		return nil
	}
	return page.fetch(current.CurrentPage + 1)
}

// PreviousPage requests the page before the current one, if any.
func (page *Page) PreviousPage() tea.Cmd {
	current := page.results.Page()
	if !current.HasPrevious() {
		return nil
	}
	return page.fetch(current.CurrentPage - 1)
}

// SetPageSize changes the page size and requests the first page.
func (page *Page) SetPageSize(size int) tea.Cmd {
	if size <= 0 || size == page.pageSize {
		return nil
	}
	page.pageSize = size
	return page.fetch(1)
}

// Refresh requests the current page again.
func (page *Page) Refresh() tea.Cmd {
	return page.fetch(page.currentPage())
}

func (page *Page) currentPage() int {
	return max(page.results.Page().CurrentPage, 1)
}

// PatchTestCase replaces one displayed test case without a request.
func (page *Page) PatchTestCase(record catalog.TestCase) bool {
	return page.results.PatchOne(record)
}

// AfterDelete refetches the current page, clamped to the page count
// after the removal.
func (page *Page) AfterDelete() tea.Cmd {
	return page.GoToPage(page.currentPage())
}

// Params returns a copy of the current location parameters.
func (page *Page) Params() filterparams.Params {
	return page.params.Clone()
}

// Query returns the current location's encoded query string.
func (page *Page) Query() string {
	return filterparams.Encode(page.params)
}

// Location returns the current location in the form it was given:
// a full URL or path when the page was opened from one, otherwise a
// bare query string.
func (page *Page) Location() string {
	query := page.Query()
	switch {
	case page.base == "":
		return query
	case query == "":
		return page.base
	default:
		return page.base + "?" + query
	}
}

// Active returns a copy of the active filter set.
func (page *Page) Active() ActiveSet {
	return page.active.Clone()
}

// IsActive reports whether key's filter is shown.
func (page *Page) IsActive(key Key) bool {
	return page.active.Contains(key)
}

// Values returns the values of key in the location.
func (page *Page) Values(key Key) []string {
	return page.params.Values(key)
}

// Options returns the option list of a filter: the loaded list for
// remote-backed filters, the fixed list otherwise.
func (page *Page) Options(key Key) OptionState {
	filter, ok := LookupFilter(key)
	if !ok {
		return OptionState{}
	}
	if !filter.Remote {
		return OptionState{Options: filter.Static}
	}
	return page.options.State(key)
}

// Results returns the displayed result page.
func (page *Page) Results() ResultPage {
	return page.results.Page()
}

// Loading is true while a result fetch (or the permission check that
// precedes the first one) is outstanding.
func (page *Page) Loading() bool {
	return page.results.Loading()
}

// PageSize returns the results per page.
func (page *Page) PageSize() int {
	return page.pageSize
}

// Permission returns the permission check state.
func (page *Page) Permission() PermissionState {
	return page.permission
}

// Can reports whether the caller may perform operation on test cases.
func (page *Page) Can(operation string) bool {
	return page.permissions.Allows(catalog.ResourceTestCase, operation)
}

func without(values []string, drop string) []string {
	var kept []string
	for _, value := range values {
		if value != drop {
			kept = append(kept, value)
		}
	}
	return kept
}
