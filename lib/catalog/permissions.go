// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
)

// Resource names used in permission checks.
const ResourceTestCase = "testCase"

// Operations the viewer checks.
const (
	OperationViewAll   = "ViewAll"
	OperationViewBasic = "ViewBasic"
	OperationEditAll   = "EditAll"
	OperationDelete    = "Delete"
)

// Access decisions.
const (
	AccessAllow            = "allow"
	AccessConditionalAllow = "conditionalAllow"
	AccessDeny             = "deny"
	AccessNotAllow         = "notAllow"
)

// Permission is one operation's access decision.
type Permission struct {
	Operation string `json:"operation"`
	Access    string `json:"access"`
}

// ResourcePermission lists the caller's access to one resource type.
type ResourcePermission struct {
	Resource    string       `json:"resource"`
	Permissions []Permission `json:"permissions"`
}

// Permissions maps resource name to operation to whether it is allowed.
type Permissions map[string]map[string]bool

// Allows reports whether operation is allowed on resource.
func (permissions Permissions) Allows(resource, operation string) bool {
	return permissions[resource][operation]
}

// CanViewTestCases reports whether the caller may list test cases.
func (permissions Permissions) CanViewTestCases() bool {
	return permissions.Allows(ResourceTestCase, OperationViewAll) ||
		permissions.Allows(ResourceTestCase, OperationViewBasic)
}

// ResourcePermissions returns the caller's permissions on every
// resource type. Conditional allows count as allowed; the server
// enforces the condition per entity.
func (client *Client) ResourcePermissions(ctx context.Context) (Permissions, error) {
	var response struct {
		Data []ResourcePermission `json:"data"`
	}
	if err := client.get(ctx, "/v1/permissions", nil, &response); err != nil {
		return nil, fmt.Errorf("loading permissions: %w", err)
	}

	permissions := make(Permissions, len(response.Data))
	for _, resource := range response.Data {
		operations := make(map[string]bool, len(resource.Permissions))
		for _, permission := range resource.Permissions {
			operations[permission.Operation] = permission.Access == AccessAllow ||
				permission.Access == AccessConditionalAllow
		}
		permissions[resource.Resource] = operations
	}
	return permissions, nil
}
