// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testcaseview holds the state of the test case listing:
// which filters are shown, their values, the autocomplete option lists
// behind the remote-backed filters, and the current page of results.
//
// The location query string (see package filterparams) is the source
// of truth for filter values. Every edit produces a new location, which
// is pushed to the [History] and parsed back; the filter form reads
// params directly, so the form and the location cannot diverge.
//
// [Page] is a single owned state container for one viewing session.
// It is driven by a bubbletea program: operations return a tea.Cmd that
// performs the network call off the event loop, and [Page.Update]
// applies the completion message. State is only ever mutated inside
// those methods, on the event loop goroutine, so nothing is locked.
//
// Two failure classes are kept distinct. A failed result fetch is
// logged at error level (the terminal UI turns error records into a
// status bar notice) and leaves the displayed page untouched. A failed
// option fetch empties that category's option list and is logged at
// debug level only.
//
// Every asynchronous fetch carries a per-category generation number.
// A response older than the newest request of its category is dropped,
// so a slow early search cannot overwrite a faster later one. Loading
// flags are tracked per category for the same reason.
package testcaseview
