// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Search index names.
const (
	IndexTable           = "table_search_index"
	IndexDatabaseService = "database_service_search_index"
	IndexTag             = "tag_search_index"
)

// WildcardQuery wraps term for a substring search. An empty term
// matches everything.
func WildcardQuery(term string) string {
	if term == "" {
		term = "*"
	}
	return "*" + term + "*"
}

// EntitySearch holds the parameters of the generic search endpoint.
type EntitySearch struct {
	Query string
	Index string

	// Page is 1-based; zero means the first page.
	Page     int
	PageSize int

	// SourceFields restricts the returned _source documents.
	SourceFields []string
}

// SearchEntities runs a query against one search index.
func (client *Client) SearchEntities(ctx context.Context, search EntitySearch) (*SearchResult, error) {
	if search.Index == "" {
		return nil, fmt.Errorf("entity search: index is required")
	}
	page := max(search.Page, 1)

	query := url.Values{}
	query.Set("q", search.Query)
	query.Set("index", search.Index)
	query.Set("from", strconv.Itoa((page-1)*search.PageSize))
	query.Set("size", strconv.Itoa(search.PageSize))
	for _, field := range search.SourceFields {
		query.Add("include_source_fields", field)
	}

	var result SearchResult
	if err := client.get(ctx, "/v1/search/query", query, &result); err != nil {
		return nil, fmt.Errorf("searching %s: %w", search.Index, err)
	}
	return &result, nil
}
