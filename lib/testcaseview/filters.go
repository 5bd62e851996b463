// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseview

import (
	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/filterparams"
)

// Key identifies a filter category. It is the query parameter the
// filter's value is stored under.
type Key = filterparams.Key

// Option is one selectable value of a filter.
type Option struct {
	// Label is the human-readable name shown in the picker.
	Label string

	// Value is what is stored in the location, usually a
	// fully-qualified name.
	Value string
}

// InputKind describes how a filter's value is entered.
type InputKind int

const (
	// InputSelect picks one value from a list.
	InputSelect InputKind = iota

	// InputMultiSelect picks any number of values from a list.
	InputMultiSelect

	// InputDateRange picks a last-run preset or a custom date range.
	InputDateRange
)

// Filter describes one filter category.
type Filter struct {
	Key   Key
	Label string
	Input InputKind

	// Remote is true when the options come from the catalog and are
	// loaded on demand. Static lists the options otherwise.
	Remote bool
	Static []Option

	// Searchable filters re-query the catalog as the user types.
	Searchable bool
}

// Filters lists every filter category in menu order.
var Filters = []Filter{
	{Key: filterparams.TableFQN, Label: "Table", Input: InputSelect, Remote: true, Searchable: true},
	{Key: filterparams.TestPlatforms, Label: "Platform", Input: InputMultiSelect, Static: platformOptions},
	{Key: filterparams.TestCaseType, Label: "Type", Input: InputSelect, Static: typeOptions},
	{Key: filterparams.TestCaseStatus, Label: "Status", Input: InputSelect, Static: statusOptions},
	{Key: filterparams.LastRunRange, Label: "Last Run", Input: InputDateRange, Static: lastRunOptions()},
	{Key: filterparams.Tier, Label: "Tier", Input: InputSelect, Remote: true},
	{Key: filterparams.Tags, Label: "Tags", Input: InputMultiSelect, Remote: true, Searchable: true},
	{Key: filterparams.ServiceName, Label: "Service", Input: InputSelect, Remote: true, Searchable: true},
}

// DefaultActive is the active filter set of a first visit with no
// location parameters.
var DefaultActive = []Key{filterparams.TestCaseStatus, filterparams.TestCaseType}

var platformOptions = []Option{
	{Label: "OpenMetadata", Value: "OpenMetadata"},
	{Label: "GreatExpectations", Value: "GreatExpectations"},
	{Label: "DBT", Value: "DBT"},
	{Label: "Deequ", Value: "Deequ"},
	{Label: "Soda", Value: "Soda"},
	{Label: "Other", Value: "Other"},
}

var typeOptions = []Option{
	{Label: "All", Value: "all"},
	{Label: "Table", Value: "table"},
	{Label: "Column", Value: "column"},
}

// statusOptions leads with "All", whose empty value clears the status
// parameter.
var statusOptions = []Option{
	{Label: "All", Value: ""},
	{Label: catalog.StatusSuccess, Value: catalog.StatusSuccess},
	{Label: catalog.StatusFailed, Value: catalog.StatusFailed},
	{Label: catalog.StatusAborted, Value: catalog.StatusAborted},
	{Label: catalog.StatusQueued, Value: catalog.StatusQueued},
}

func lastRunOptions() []Option {
	options := make([]Option, 0, len(filterparams.RangePresets))
	for _, preset := range filterparams.RangePresets {
		options = append(options, Option{Label: preset.Label, Value: preset.Key})
	}
	return options
}

// LookupFilter returns the filter for key.
func LookupFilter(key Key) (Filter, bool) {
	for _, filter := range Filters {
		if filter.Key == key {
			return filter, true
		}
	}
	return Filter{}, false
}

// IsFilterKey reports whether key names a filter category.
func IsFilterKey(key Key) bool {
	_, ok := LookupFilter(key)
	return ok
}

// IsRemote reports whether key is a filter with catalog-backed options.
func IsRemote(key Key) bool {
	filter, ok := LookupFilter(key)
	return ok && filter.Remote
}

// RemoteKeys lists the catalog-backed filter categories in menu order.
func RemoteKeys() []Key {
	var keys []Key
	for _, filter := range Filters {
		if filter.Remote {
			keys = append(keys, filter.Key)
		}
	}
	return keys
}
