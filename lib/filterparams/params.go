// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filterparams

import (
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// Params maps a query key to its values. Single-valued keys hold one
// element. A Params is treated as immutable by this package: With and
// Without return copies.
type Params map[string][]string

// Get returns the first value of key, or "" when absent.
func (params Params) Get(key Key) string {
	values := params[string(key)]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Values returns the non-empty values of key.
func (params Params) Values(key Key) []string {
	return nonEmpty(params[string(key)])
}

// Has reports whether key is present with at least one non-empty value.
func (params Params) Has(key Key) bool {
	return len(params.Values(key)) > 0
}

// Keys returns the keys that carry a non-empty value, sorted.
func (params Params) Keys() []string {
	keys := make([]string, 0, len(params))
	for key, values := range params {
		if len(nonEmpty(values)) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (params Params) Clone() Params {
	clone := make(Params, len(params))
	for key, values := range params {
		clone[key] = slices.Clone(values)
	}
	return clone
}

// With returns a copy of params with key set to values. Empty strings
// are dropped; when nothing remains the key is removed, so clearing a
// filter removes it from the location instead of writing an empty
// marker.
func (params Params) With(key Key, values ...string) Params {
	clone := params.Clone()
	kept := nonEmpty(values)
	if len(kept) == 0 {
		delete(clone, string(key))
		return clone
	}
	clone[string(key)] = kept
	return clone
}

// Without returns a copy of params with key removed.
func (params Params) Without(key Key) Params {
	return params.With(key)
}

// Equal reports whether two Params encode to the same query string.
func (params Params) Equal(other Params) bool {
	return Encode(params) == Encode(other)
}

// bracketSuffix matches the array notations browser query-string
// libraries emit: "tags[]" and "tags[0]".
var bracketSuffix = regexp.MustCompile(`^(.+)\[(\d*)\]$`)

// Parse decodes a query string. A leading "?" is stripped. Malformed
// input yields an empty Params rather than an error.
func Parse(raw string) Params {
	raw = strings.TrimPrefix(raw, "?")
	params := Params{}
	if raw == "" {
		return params
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return Params{}
	}

	// Indexed array entries ("tags[1]=b&tags[0]=a") are ordered by
	// index. Plain repeated keys keep their order of appearance.
	type indexed struct {
		index int
		value string
	}
	indexedValues := map[string][]indexed{}

	for _, key := range sortedKeys(values) {
		match := bracketSuffix.FindStringSubmatch(key)
		if match == nil {
			params[key] = append(params[key], values[key]...)
			continue
		}
		base := match[1]
		if match[2] == "" {
			params[base] = append(params[base], values[key]...)
			continue
		}
		position := atoi(match[2])
		for _, value := range values[key] {
			indexedValues[base] = append(indexedValues[base], indexed{position, value})
		}
	}

	for base, entries := range indexedValues {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].index < entries[j].index })
		for _, entry := range entries {
			params[base] = append(params[base], entry.value)
		}
	}
	return params
}

// Encode serializes params as a query string without the leading "?".
// Keys are sorted and empty values omitted, so the output is stable:
// Encode(Parse(Encode(p))) == Encode(p).
func Encode(params Params) string {
	values := url.Values{}
	for key, entries := range params {
		kept := nonEmpty(entries)
		if len(kept) == 0 {
			continue
		}
		values[key] = kept
	}
	return values.Encode()
}

// SplitLocation separates a location into path and query. It accepts a
// bare query string ("tier=Gold", "?tier=Gold") or a full URL copied
// from the catalog web UI.
func SplitLocation(location string) (path, query string) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", ""
	}
	if strings.HasPrefix(location, "?") || !strings.ContainsAny(location, "/?") {
		return "", strings.TrimPrefix(location, "?")
	}
	parsed, err := url.Parse(location)
	if err != nil {
		return "", ""
	}
	return parsed.Path, parsed.RawQuery
}

func nonEmpty(values []string) []string {
	var kept []string
	for _, value := range values {
		if value != "" {
			kept = append(kept, value)
		}
	}
	return kept
}

func sortedKeys(values url.Values) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func atoi(digits string) int {
	n := 0
	for _, digit := range digits {
		n = n*10 + int(digit-'0')
	}
	return n
}
