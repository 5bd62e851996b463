// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Fields the viewer asks the search endpoint to expand.
const (
	FieldTestCaseResult = "testCaseResult"
	FieldTestSuite      = "testSuite"
	FieldIncidentID     = "incidentId"
)

// Sort orders.
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// TestCaseSearch holds the query parameters of the test case search
// endpoint. Zero-valued fields are omitted from the request.
type TestCaseSearch struct {
	// Query is the free-text query, already wildcard-wrapped.
	Query string

	Offset int
	Limit  int

	SortField string
	SortType  string

	Fields          []string
	IncludeAllTests bool

	// TestCaseStatus filters by latest run outcome. AllStatuses and ""
	// both send no status filter.
	TestCaseStatus string
	TestCaseType   string
	TestPlatforms  []string

	// EntityLink scopes the search to one table, in entity link form.
	EntityLink  string
	Tags        []string
	Tier        string
	ServiceName string

	// StartTimestamp and EndTimestamp bound the last run time, in epoch
	// milliseconds. Zero means unbounded.
	StartTimestamp int64
	EndTimestamp   int64
}

// Values encodes the search as query parameters.
func (search TestCaseSearch) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}

	set("q", search.Query)
	values.Set("offset", strconv.Itoa(search.Offset))
	if search.Limit > 0 {
		values.Set("limit", strconv.Itoa(search.Limit))
	}
	set("sortField", search.SortField)
	set("sortType", search.SortType)
	set("fields", strings.Join(search.Fields, ","))
	if search.IncludeAllTests {
		values.Set("includeAllTests", "true")
	}
	if search.TestCaseStatus != AllStatuses {
		set("testCaseStatus", search.TestCaseStatus)
	}
	set("testCaseType", search.TestCaseType)
	set("testPlatforms", strings.Join(search.TestPlatforms, ","))
	set("entityLink", search.EntityLink)
	set("tags", strings.Join(search.Tags, ","))
	set("tier", search.Tier)
	set("serviceName", search.ServiceName)
	if search.StartTimestamp > 0 {
		values.Set("startTimestamp", strconv.FormatInt(search.StartTimestamp, 10))
	}
	if search.EndTimestamp > 0 {
		values.Set("endTimestamp", strconv.FormatInt(search.EndTimestamp, 10))
	}
	return values
}

// TableEntityLink returns the entity link addressing a table by its
// fully-qualified name.
func TableEntityLink(tableFQN string) string {
	return "<#E::table::" + tableFQN + ">"
}

// EntityLink is a parsed entity link such as
// "<#E::table::svc.db.schema.orders::columns::amount>".
type EntityLink struct {
	EntityType string
	FQN        string
	Column     string // Empty for table-level links.
}

// ParseEntityLink parses an entity link. The second result is false
// when link is not one.
func ParseEntityLink(link string) (EntityLink, bool) {
	body, found := strings.CutPrefix(link, "<#E::")
	if !found {
		return EntityLink{}, false
	}
	body, found = strings.CutSuffix(body, ">")
	if !found {
		return EntityLink{}, false
	}
	parts := strings.Split(body, "::")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return EntityLink{}, false
	}
	parsed := EntityLink{EntityType: parts[0], FQN: parts[1]}
	if len(parts) >= 4 && parts[2] == "columns" {
		parsed.Column = parts[3]
	}
	return parsed, true
}

// SearchTestCases returns one page of test cases matching search.
func (client *Client) SearchTestCases(ctx context.Context, search TestCaseSearch) (*TestCasePage, error) {
	var page TestCasePage
	if err := client.get(ctx, "/v1/dataQuality/testCases/search/list", search.Values(), &page); err != nil {
		return nil, fmt.Errorf("searching test cases: %w", err)
	}
	return &page, nil
}

// GetTestCaseByName reads one test case by fully-qualified name, with
// the given fields expanded.
func (client *Client) GetTestCaseByName(ctx context.Context, fqn string, fields ...string) (*TestCase, error) {
	query := url.Values{}
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}
	var testCase TestCase
	path := "/v1/dataQuality/testCases/name/" + url.PathEscape(fqn)
	if err := client.get(ctx, path, query, &testCase); err != nil {
		return nil, fmt.Errorf("getting test case %q: %w", fqn, err)
	}
	return &testCase, nil
}

// DeleteTestCase permanently deletes a test case and its results.
func (client *Client) DeleteTestCase(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("hardDelete", "true")
	query.Set("recursive", "true")
	if err := client.delete(ctx, "/v1/dataQuality/testCases/"+url.PathEscape(id), query); err != nil {
		return fmt.Errorf("deleting test case %s: %w", id, err)
	}
	return nil
}

// IncidentStatus is the resolution state of a test case failure
// incident.
type IncidentStatus string

const (
	IncidentNew      IncidentStatus = "New"
	IncidentAck      IncidentStatus = "Ack"
	IncidentAssigned IncidentStatus = "Assigned"
	IncidentResolved IncidentStatus = "Resolved"
)

// IncidentStatuses lists the statuses in workflow order.
var IncidentStatuses = []IncidentStatus{IncidentNew, IncidentAck, IncidentAssigned, IncidentResolved}

// FailureReasonOther is the resolution reason used when the viewer
// resolves an incident.
const FailureReasonOther = "Other"

// IncidentUpdate is a request to move a test case's incident to a new
// status.
type IncidentUpdate struct {
	// TestCaseFQN is the fully-qualified name of the test case.
	TestCaseFQN string

	Status IncidentStatus

	// Assignee is the user name to assign. Required for
	// IncidentAssigned.
	Assignee string

	// Comment accompanies a resolution. Used only for IncidentResolved.
	Comment string

	// ResolvedBy is the user name recorded as resolver. Used only for
	// IncidentResolved.
	ResolvedBy string
}

// Validate checks that the update carries the details its status
// requires.
func (update IncidentUpdate) Validate() error {
	if update.TestCaseFQN == "" {
		return fmt.Errorf("incident update: test case FQN is required")
	}
	switch update.Status {
	case IncidentNew, IncidentAck, IncidentResolved:
	case IncidentAssigned:
		if update.Assignee == "" {
			return fmt.Errorf("incident update: assignee is required for status %s", update.Status)
		}
	default:
		return fmt.Errorf("incident update: unknown status %q", update.Status)
	}
	return nil
}

type incidentStatusRequest struct {
	Type      IncidentStatus  `json:"testCaseResolutionStatusType"`
	Reference string          `json:"testCaseReference"`
	Details   *incidentDetail `json:"testCaseResolutionStatusDetails,omitempty"`
}

type incidentDetail struct {
	Assignee *EntityReference `json:"assignee,omitempty"`

	ResolvedBy    *EntityReference `json:"resolvedBy,omitempty"`
	FailureReason string           `json:"testCaseFailureReason,omitempty"`
	Comment       string           `json:"testCaseFailureComment,omitempty"`
}

// UpdateIncidentStatus records a new incident status for a test case.
func (client *Client) UpdateIncidentStatus(ctx context.Context, update IncidentUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	request := incidentStatusRequest{
		Type:      update.Status,
		Reference: update.TestCaseFQN,
	}
	switch update.Status {
	case IncidentAssigned:
		request.Details = &incidentDetail{
			Assignee: &EntityReference{Name: update.Assignee, Type: "user"},
		}
	case IncidentResolved:
		request.Details = &incidentDetail{
			FailureReason: FailureReasonOther,
			Comment:       update.Comment,
		}
		if update.ResolvedBy != "" {
			request.Details.ResolvedBy = &EntityReference{Name: update.ResolvedBy, Type: "user"}
		}
	}
	if err := client.post(ctx, "/v1/dataQuality/testCases/testCaseIncidentStatus", request, nil); err != nil {
		return fmt.Errorf("updating incident status of %q: %w", update.TestCaseFQN, err)
	}
	return nil
}
