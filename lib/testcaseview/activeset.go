// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseview

import "slices"

// ActiveSet is the ordered, duplicate-free set of filter categories
// currently shown in the filter bar. Order is activation order.
type ActiveSet struct {
	keys []Key
}

// NewActiveSet returns a set holding keys in order, without duplicates.
func NewActiveSet(keys ...Key) ActiveSet {
	var set ActiveSet
	set.Union(keys...)
	return set
}

// Contains reports whether key is active.
func (set ActiveSet) Contains(key Key) bool {
	return slices.Contains(set.keys, key)
}

// Keys returns the active keys in activation order.
func (set ActiveSet) Keys() []Key {
	return slices.Clone(set.keys)
}

// Len returns the number of active keys.
func (set ActiveSet) Len() int {
	return len(set.keys)
}

// Add activates key. Returns false if it was already active.
func (set *ActiveSet) Add(key Key) bool {
	if set.Contains(key) {
		return false
	}
	set.keys = append(set.keys, key)
	return true
}

// Remove deactivates key. Returns false if it was not active.
func (set *ActiveSet) Remove(key Key) bool {
	index := slices.Index(set.keys, key)
	if index < 0 {
		return false
	}
	set.keys = slices.Delete(set.keys, index, index+1)
	return true
}

// Toggle flips key and reports whether it is now active.
func (set *ActiveSet) Toggle(key Key) bool {
	if set.Remove(key) {
		return false
	}
	set.keys = append(set.keys, key)
	return true
}

// Union activates every key not already active, preserving the order
// of first appearance. Returns the keys that were newly added.
func (set *ActiveSet) Union(keys ...Key) []Key {
	var added []Key
	for _, key := range keys {
		if set.Add(key) {
			added = append(added, key)
		}
	}
	return added
}

// Clone returns an independent copy.
func (set ActiveSet) Clone() ActiveSet {
	return ActiveSet{keys: slices.Clone(set.keys)}
}
