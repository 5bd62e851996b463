// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// The option loader's debounce window and the last-run range presets
// both read time through a Clock so tests can control it:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go func() { results <- cmd() }() // cmd waits on c.After(time.Second)
//	c.WaitForTimers(1)
//	c.Advance(time.Second)
//
// WaitForTimers closes the race between a goroutine registering its
// wait and the test advancing time.
package clock
