// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/testcaseview"
)

// ErrorCategory classifies command errors so scripts can tell bad
// input from an unreachable catalog by exit code alone.
type ErrorCategory string

const (
	// CategoryValidation indicates invalid input: unknown flags, a bad
	// config file, a malformed location. Fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced resource does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden indicates the token is missing, expired, or
	// lacks permission.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryTransient indicates a temporary failure: network error,
	// timeout, rate limit, or a 5xx from the catalog.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error.
	CategoryInternal ErrorCategory = "internal"
)

// exitCodes maps categories to process exit codes. 1 is left for
// uncategorized errors.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryNotFound:   3,
	CategoryForbidden:  4,
	CategoryTransient:  5,
	CategoryInternal:   1,
}

// ToolError is a categorized command error. It wraps an inner error,
// preserving the chain for errors.Is and errors.As.
type ToolError struct {
	// Category classifies the error.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint is an optional next step printed after the message.
	Hint string
}

// Error returns the underlying message, followed by the hint when one
// is set.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// ExitCode returns the process exit code for the category.
func (e *ToolError) ExitCode() int {
	return e.Category.ExitCode()
}

// ExitCode returns the process exit code for category. Unknown
// categories exit 1.
func (category ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[category]; ok {
		return code
	}
	return 1
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Classify wraps err in a ToolError chosen from what the catalog said.
// Errors that already carry a category are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return err
	}

	switch {
	case catalog.IsUnauthorized(err):
		return Forbidden("%w", err).
			WithHint("Check the token: set DQVIEW_TOKEN or pass --token.")
	case catalog.IsForbidden(err), errors.Is(err, testcaseview.ErrNotPermitted):
		return Forbidden("%w", err).
			WithHint("Ask a catalog administrator for test case view access.")
	case catalog.IsNotFound(err):
		return NotFound("%w", err)
	case catalog.IsRateLimited(err), errors.Is(err, context.DeadlineExceeded):
		return Transient("%w", err)
	}

	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 500 {
			return Transient("%w", err)
		}
		return Internal("%w", err)
	}
	// Anything that never produced a catalog response is a transport
	// failure: refused connection, DNS, TLS.
	return Transient("%w", err).
		WithHint("Check that the catalog URL is reachable: set catalog.url or pass --catalog-url.")
}
