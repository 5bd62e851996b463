// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseview

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/clock"
	"github.com/bureau-foundation/dqview/lib/filterparams"
)

// DebounceWindow is how long a category's search input must be quiet
// before the typed term is sent to the catalog.
const DebounceWindow = time.Second

// Page sizes of the option lookups.
const (
	optionPageSize = 15
	tierPageSize   = 100
)

// entitySourceFields restricts entity search hits to what an option
// needs.
var entitySourceFields = []string{"name", "fullyQualifiedName", "displayName"}

// OptionSource fetches the options of a remote-backed filter.
type OptionSource interface {
	// Options returns the options of category matching term. An empty
	// term lists the first page of everything.
	Options(ctx context.Context, category Key, term string) ([]Option, error)
}

// CatalogOptions serves filter options from catalog search and tag
// endpoints.
type CatalogOptions struct {
	backend Backend
}

// NewCatalogOptions returns an OptionSource backed by backend.
func NewCatalogOptions(backend Backend) *CatalogOptions {
	return &CatalogOptions{backend: backend}
}

// Options implements OptionSource.
func (source *CatalogOptions) Options(ctx context.Context, category Key, term string) ([]Option, error) {
	switch category {
	case filterparams.TableFQN:
		return source.searchEntities(ctx, catalog.IndexTable, term)
	case filterparams.ServiceName:
		return source.searchEntities(ctx, catalog.IndexDatabaseService, term)
	case filterparams.Tags:
		return source.searchTags(ctx, term)
	case filterparams.Tier:
		return source.listTiers(ctx)
	default:
		return nil, fmt.Errorf("filter %q has no remote options", category)
	}
}

func (source *CatalogOptions) searchEntities(ctx context.Context, index, term string) ([]Option, error) {
	result, err := source.backend.SearchEntities(ctx, catalog.EntitySearch{
		Query:        catalog.WildcardQuery(term),
		Index:        index,
		Page:         1,
		PageSize:     optionPageSize,
		SourceFields: entitySourceFields,
	})
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(result.Hits))
	for _, hit := range result.Hits {
		options = append(options, Option{
			Label: hit.Source.DisplayLabel(),
			Value: hit.Source.FullyQualifiedName,
		})
	}
	return options, nil
}

// searchTags lists general-purpose tags. Tier tags live in the same
// index but have their own filter, so they are left out here.
func (source *CatalogOptions) searchTags(ctx context.Context, term string) ([]Option, error) {
	result, err := source.backend.SearchEntities(ctx, catalog.EntitySearch{
		Query:        catalog.WildcardQuery(term),
		Index:        catalog.IndexTag,
		Page:         1,
		PageSize:     optionPageSize,
		SourceFields: append(slices.Clone(entitySourceFields), "classification"),
	})
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if isTierTag(hit.Source) {
			continue
		}
		options = append(options, Option{
			Label: hit.Source.DisplayLabel(),
			Value: hit.Source.FullyQualifiedName,
		})
	}
	return options, nil
}

func (source *CatalogOptions) listTiers(ctx context.Context) ([]Option, error) {
	tags, err := source.backend.ListTags(ctx, catalog.TierClassification, tierPageSize)
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(tags))
	for _, tag := range tags {
		options = append(options, Option{
			Label: tag.DisplayLabel(),
			Value: tag.FullyQualifiedName,
		})
	}
	return options, nil
}

func isTierTag(source catalog.EntitySource) bool {
	if source.Classification != nil {
		return source.Classification.Name == catalog.TierClassification
	}
	return strings.HasPrefix(source.FullyQualifiedName, catalog.TierClassification+".")
}

// OptionState is the option list of one category as the view sees it.
type OptionState struct {
	Options []Option

	// Loading is true while the newest request for this category is
	// in flight.
	Loading bool
}

// categoryState is the loader's bookkeeping for one category.
type categoryState struct {
	options []Option
	loading bool

	// generation numbers fetches; only the response to the newest
	// one is applied.
	generation uint64

	// debounceSeq numbers search keystrokes; only the newest one
	// fires a fetch when its quiet window ends.
	debounceSeq uint64
}

// optionDebounceMsg is delivered when a search keystroke's quiet
// window ends.
type optionDebounceMsg struct {
	category Key
	seq      uint64
	term     string
}

// optionsLoadedMsg carries the outcome of an option fetch.
type optionsLoadedMsg struct {
	category   Key
	generation uint64
	term       string
	options    []Option
	err        error
}

// OptionLoader lazily loads and refreshes the option lists of the
// remote-backed filters.
type OptionLoader struct {
	ctx    context.Context
	source OptionSource
	clock  clock.Clock
	logger *slog.Logger

	states map[Key]*categoryState
}

// NewOptionLoader creates a loader. Fetches run under ctx, so
// cancelling it abandons in-flight requests and pending debounces.
func NewOptionLoader(ctx context.Context, source OptionSource, clk clock.Clock, logger *slog.Logger) *OptionLoader {
	states := make(map[Key]*categoryState)
	for _, key := range RemoteKeys() {
		states[key] = &categoryState{}
	}
	return &OptionLoader{
		ctx:    ctx,
		source: source,
		clock:  clk,
		logger: logger,
		states: states,
	}
}

// State returns the current options and loading flag of category.
func (loader *OptionLoader) State(category Key) OptionState {
	state, ok := loader.states[category]
	if !ok {
		return OptionState{}
	}
	return OptionState{Options: state.options, Loading: state.loading}
}

// FetchInitial loads category's options unless they are already
// present. force reloads regardless. Returns nil when no fetch is
// needed or category is not remote-backed.
func (loader *OptionLoader) FetchInitial(category Key, force bool) tea.Cmd {
	state, ok := loader.states[category]
	if !ok {
		return nil
	}
	if !force && len(state.options) > 0 {
		return nil
	}
	return loader.fetch(category, "")
}

// Search schedules a fetch of category's options matching term once
// input has been quiet for DebounceWindow. Each call supersedes the
// previous pending one, so a burst of keystrokes yields one fetch with
// the final term. Returns nil for categories that do not search
// remotely.
func (loader *OptionLoader) Search(category Key, term string) tea.Cmd {
	state, ok := loader.states[category]
	if !ok {
		return nil
	}
	if filter, _ := LookupFilter(category); !filter.Searchable {
		return nil
	}
	state.debounceSeq++
	seq := state.debounceSeq
	ctx, clk := loader.ctx, loader.clock
	return func() tea.Msg {
		select {
		case <-clk.After(DebounceWindow):
		case <-ctx.Done():
			return nil
		}
		return optionDebounceMsg{category: category, seq: seq, term: term}
	}
}

// fetch issues a request for category and marks it loading.
func (loader *OptionLoader) fetch(category Key, term string) tea.Cmd {
	state := loader.states[category]
	state.generation++
	state.loading = true
	generation := state.generation
	ctx, source := loader.ctx, loader.source
	return func() tea.Msg {
		options, err := source.Options(ctx, category, term)
		return optionsLoadedMsg{
			category:   category,
			generation: generation,
			term:       term,
			options:    options,
			err:        err,
		}
	}
}

// Update applies loader messages. handled is false for messages that
// belong to someone else.
func (loader *OptionLoader) Update(message tea.Msg) (cmd tea.Cmd, handled bool) {
	switch message := message.(type) {
	case optionDebounceMsg:
		state := loader.states[message.category]
		if state == nil || message.seq != state.debounceSeq {
			return nil, true
		}
		return loader.fetch(message.category, message.term), true

	case optionsLoadedMsg:
		state := loader.states[message.category]
		if state == nil {
			return nil, true
		}
		if message.generation != state.generation {
			loader.logger.Debug("discarding stale options",
				"filter", message.category,
				"generation", message.generation,
				"latest", state.generation,
			)
			return nil, true
		}
		state.loading = false
		if message.err != nil {
			state.options = nil
			loader.logger.Debug("loading filter options failed",
				"filter", message.category,
				"term", message.term,
				"error", message.err,
			)
			return nil, true
		}
		state.options = message.options
		return nil, true
	}
	return nil, false
}
