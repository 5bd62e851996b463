// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds the error and logging conventions of the dqview
// command.
//
// Commands return a [ToolError] whose [ErrorCategory] decides the
// process exit code (see [ToolError.ExitCode]). [Classify] maps catalog
// API failures onto categories so a 401 or 403 from the catalog exits
// differently from a network failure. [ExitError] exits non-zero
// without printing anything further.
//
// [NewCommandLogger] writes text to a terminal and JSON otherwise.
package cli
