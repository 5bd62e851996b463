// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] encapsulates the timeout safety valve pattern
// (select with time.After fallback) so that individual tests do not
// need direct time.After calls. Timers under test run on clock.Fake;
// wall-clock timeouts only bound how long a broken test hangs.
//
// [RunCmd] executes a bubbletea command synchronously and flattens
// batches, so a test can feed the resulting messages back into the
// model that issued the command without running a tea.Program.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
