// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog provides a typed client for the subset of the data
// catalog REST API that the test case viewer consumes: test case search
// and mutation, tag listing, entity search, and resource permissions.
//
// The API is OpenMetadata-compatible. The base URL includes the "/api"
// prefix (for example "http://localhost:8585/api"); every call path
// starts at "/v1". Requests carry a bearer token and a fresh
// X-Request-Id so that a slow call can be found in the server log.
// Responses may be gzip-compressed; the default transport negotiates
// compression transparently.
//
// Non-2xx responses are returned as *[APIError]. Use [IsNotFound],
// [IsForbidden], and [IsUnauthorized] to classify them.
package catalog
