// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package filterparams encodes the test case listing's filter state as
// a location query string and back.
//
// The query string is the only persisted form of the view: the viewer
// prints it on exit and accepts it on start, and it is compatible with
// the catalog web UI's own data-quality links. Keys this package does
// not know about pass through Parse and Encode untouched, so a location
// shared with sibling views keeps their parameters.
//
// [ResolveRange] turns a lastRunRange value (a preset such as
// "last7days" or a custom "2026-01-01..2026-01-31") into the epoch
// millisecond bounds the search endpoint expects.
package filterparams
