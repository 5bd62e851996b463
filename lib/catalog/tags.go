// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// TierClassification is the reserved classification whose tags are
// tiers rather than general-purpose labels.
const TierClassification = "Tier"

// ListTags lists the tags of one classification.
func (client *Client) ListTags(ctx context.Context, parent string, limit int) ([]Tag, error) {
	query := url.Values{}
	if parent != "" {
		query.Set("parent", parent)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var response struct {
		Data   []Tag  `json:"data"`
		Paging Paging `json:"paging"`
	}
	if err := client.get(ctx, "/v1/tags", query, &response); err != nil {
		return nil, fmt.Errorf("listing tags of %q: %w", parent, err)
	}
	return response.Data, nil
}
