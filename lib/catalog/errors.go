// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the catalog API. The
// catalog returns {"code": 404, "message": "..."} bodies; when the body
// is not in that shape, Message holds the raw body text.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the server's error description.
	Message string

	// RequestID is the X-Request-Id sent with the failed request.
	RequestID string
}

func (err *APIError) Error() string {
	if err.RequestID != "" {
		return fmt.Sprintf("catalog: HTTP %d: %s (request %s)", err.StatusCode, err.Message, err.RequestID)
	}
	return fmt.Sprintf("catalog: HTTP %d: %s", err.StatusCode, err.Message)
}

// IsNotFound reports whether err is a catalog 404 response.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsForbidden reports whether err is a catalog 403 response.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsUnauthorized reports whether err is a catalog 401 response, which
// means the token is missing, expired, or revoked.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsRateLimited reports whether err is a catalog 429 response.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

func hasStatus(err error, status int) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == status
}
