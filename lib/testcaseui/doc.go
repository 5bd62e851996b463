// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testcaseui is the terminal screen of the data-quality test
// case listing. It renders a testcaseview.Page: a row of filter chips,
// a paged result list, and a detail pane with the selected test case's
// result, parameters, and markdown description.
//
// The model owns presentation only. Every key that changes what is
// listed calls a Page operation and returns its command; completion
// messages flow back through Update into the page. Failures reach the
// user through slog: install a [TUILogHandler] and its warn and error
// records appear in the status bar for a few seconds.
//
// [RenderPlain] renders one result page as a table for the
// non-interactive mode.
package testcaseui
