// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"

	"github.com/bureau-foundation/dqview/lib/clock"
)

// maxResponseSize bounds response body reads. Catalog responses are
// JSON pages of at most a few hundred records.
const maxResponseSize int64 = 64 << 20

// maxRetryAfter caps how long a rate-limited request waits before its
// single retry.
const maxRetryAfter = 10 * time.Second

// defaultTimeout bounds each request when no HTTPClient is configured.
const defaultTimeout = 30 * time.Second

// NewHTTPClient returns a client that accepts gzip-compressed responses
// and gives up on a request after timeout. Zero means no timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: gzhttp.Transport(http.DefaultTransport),
		Timeout:   timeout,
	}
}

// Config holds configuration for creating a catalog Client.
type Config struct {
	// BaseURL is the API root, including the "/api" prefix. Required.
	BaseURL string

	// Token is the bearer token (a bot or personal access token).
	// Requests are sent unauthenticated when empty, which only works
	// against catalogs with auth disabled.
	Token string

	// HTTPClient is used for all requests. Defaults to a client whose
	// transport accepts gzip-compressed responses.
	HTTPClient *http.Client

	// Clock provides the wait before retrying a rate-limited request.
	// Defaults to clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a typed catalog REST API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient creates a catalog client. Returns an error if the base URL
// is missing or not an absolute http(s) URL.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("catalog: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("catalog: parsing base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("catalog: base URL must be http or https (got %q)", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("catalog: base URL has no host (got %q)", baseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(defaultTimeout)
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
		clock:      clk,
		logger:     logger,
	}, nil
}

// BaseURL returns the normalized API root.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// do executes a request against path (relative to the base URL, with
// any query string already attached) and returns the response body.
// A 429 response is retried once after the server's Retry-After delay.
// Non-2xx responses return an *APIError.
func (client *Client) do(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	return client.doWithRetry(ctx, method, path, requestBody, false)
}

func (client *Client) doWithRetry(ctx context.Context, method, path string, requestBody any, isRetry bool) ([]byte, error) {
	var encoded []byte
	if requestBody != nil {
		var err error
		encoded, err = json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("catalog: encoding request body: %w", err)
		}
	}

	var bodyReader io.Reader
	if encoded != nil {
		bodyReader = bytes.NewReader(encoded)
	}
	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("catalog: creating request: %w", err)
	}

	requestID := uuid.NewString()
	request.Header.Set("Accept", "application/json")
	request.Header.Set("X-Request-Id", requestID)
	if client.token != "" {
		request.Header.Set("Authorization", "Bearer "+client.token)
	}
	if encoded != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	started := client.clock.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("catalog: reading response body: %w", err)
	}

	client.logger.Debug("catalog request",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"request_id", requestID,
		"duration", client.clock.Now().Sub(started),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		if !isRetry && response.StatusCode == http.StatusTooManyRequests {
			delay := retryAfter(response.Header)
			client.logger.Info("rate limited, backing off",
				"duration", delay,
				"method", method,
				"path", path,
			)
			select {
			case <-client.clock.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return client.doWithRetry(ctx, method, path, requestBody, true)
		}
		return nil, parseAPIError(response.StatusCode, body, requestID)
	}

	return body, nil
}

// get performs a GET and decodes the JSON response into result.
func (client *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := client.do(ctx, http.MethodGet, withQuery(path, query), nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("catalog: decoding %s response: %w", path, err)
	}
	return nil
}

// post performs a POST with a JSON body and decodes the response into
// result when result is non-nil.
func (client *Client) post(ctx context.Context, path string, requestBody any, result any) error {
	body, err := client.do(ctx, http.MethodPost, path, requestBody)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("catalog: decoding %s response: %w", path, err)
	}
	return nil
}

// delete performs a DELETE and discards the response body.
func (client *Client) delete(ctx context.Context, path string, query url.Values) error {
	_, err := client.do(ctx, http.MethodDelete, withQuery(path, query), nil)
	return err
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// retryAfter reads the Retry-After header (delay in seconds), defaulting
// to one second and capped at maxRetryAfter.
func retryAfter(header http.Header) time.Duration {
	delay := time.Second
	if seconds, err := strconv.Atoi(header.Get("Retry-After")); err == nil && seconds > 0 {
		delay = time.Duration(seconds) * time.Second
	}
	return min(delay, maxRetryAfter)
}

func parseAPIError(statusCode int, body []byte, requestID string) *APIError {
	apiError := &APIError{StatusCode: statusCode, RequestID: requestID}

	var wireError struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Message != "" {
		apiError.Message = wireError.Message
	} else {
		apiError.Message = strings.TrimSpace(string(body))
	}
	if apiError.Message == "" {
		apiError.Message = http.StatusText(statusCode)
	}
	return apiError
}
