// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filterparams

// Key names a query parameter of the test case listing.
type Key string

// Known keys. The filter keys double as the identifiers of the filter
// categories shown in the filter bar.
const (
	SearchValue     Key = "searchValue"
	TableFQN        Key = "tableFqn"
	TestPlatforms   Key = "testPlatforms"
	TestCaseType    Key = "testCaseType"
	TestCaseStatus  Key = "testCaseStatus"
	LastRunRange    Key = "lastRunRange"
	Tags            Key = "tags"
	Tier            Key = "tier"
	ServiceName     Key = "serviceName"
	SelectedFilters Key = "selectedFilters"
)

// multiValued lists the keys that carry a list of values.
var multiValued = map[Key]bool{
	TestPlatforms: true,
	Tags:          true,
}

// IsMultiValued reports whether key carries a list rather than a
// single value.
func IsMultiValued(key Key) bool {
	return multiValued[key]
}
