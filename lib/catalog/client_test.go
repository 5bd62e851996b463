// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bureau-foundation/dqview/lib/clock"
	"github.com/bureau-foundation/dqview/lib/testutil"
)

// newTestClient creates a Client backed by the given httptest.Server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    server.URL + "/api",
		Token:      "test-token",
		HTTPClient: server.Client(),
		Clock:      clock.Real(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func writeJSON(t *testing.T, writer http.ResponseWriter, value any) {
	t.Helper()
	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(value); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

func TestNewClient_Validation(t *testing.T) {
	for _, baseURL := range []string{"", "   ", "ftp://catalog/api", "catalog:8585/api", "http:///api"} {
		if _, err := NewClient(Config{BaseURL: baseURL}); err == nil {
			t.Errorf("NewClient(%q) should fail", baseURL)
		}
	}
	client, err := NewClient(Config{BaseURL: "http://localhost:8585/api/"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.BaseURL() != "http://localhost:8585/api" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", client.BaseURL())
	}
}

func TestClient_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if got := request.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if request.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id")
		}
		if got := request.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		writeJSON(t, writer, map[string]any{"data": []any{}})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.ListTags(context.Background(), "Tier", 100); err != nil {
		t.Fatalf("ListTags: %v", err)
	}
}

func TestClient_NoTokenSendsNoAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if got := request.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want none", got)
		}
		writeJSON(t, writer, map[string]any{"data": []any{}})
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL + "/api", HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.ListTags(context.Background(), "", 0); err != nil {
		t.Fatalf("ListTags: %v", err)
	}
}

func TestClient_APIError(t *testing.T) {
	tests := []struct {
		status      int
		body        string
		wantMessage string
		predicate   func(error) bool
	}{
		{404, `{"code":404,"message":"testCase instance for x not found"}`, "testCase instance for x not found", IsNotFound},
		{403, `{"code":403,"message":"Principal: bot is not allowed"}`, "Principal: bot is not allowed", IsForbidden},
		{401, `Unauthorized`, "Unauthorized", IsUnauthorized},
		{500, ``, "Internal Server Error", nil},
	}
	for _, test := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(test.status)
			io.WriteString(writer, test.body)
		}))

		client := newTestClient(t, server)
		_, err := client.GetTestCaseByName(context.Background(), "svc.db.s.t.check")
		server.Close()

		apiError, ok := errorAs(err)
		if !ok {
			t.Fatalf("status %d: error %v is not *APIError", test.status, err)
		}
		if apiError.StatusCode != test.status {
			t.Errorf("StatusCode = %d, want %d", apiError.StatusCode, test.status)
		}
		if apiError.Message != test.wantMessage {
			t.Errorf("Message = %q, want %q", apiError.Message, test.wantMessage)
		}
		if apiError.RequestID == "" {
			t.Error("RequestID not recorded")
		}
		if test.predicate != nil && !test.predicate(err) {
			t.Errorf("status %d: predicate did not match", test.status)
		}
	}
}

func TestClient_RateLimitRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if calls.Add(1) == 1 {
			writer.Header().Set("Retry-After", "3")
			writer.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(t, writer, map[string]any{"data": []any{map[string]any{"name": "Tier1"}}})
	}))
	defer server.Close()

	fakeClock := clock.Fake(time.Unix(1_700_000_000, 0))
	client, err := NewClient(Config{
		BaseURL:    server.URL + "/api",
		HTTPClient: server.Client(),
		Clock:      fakeClock,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	type outcome struct {
		tags []Tag
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		tags, err := client.ListTags(context.Background(), "Tier", 100)
		done <- outcome{tags, err}
	}()

	fakeClock.WaitForTimers(1)
	fakeClock.Advance(3 * time.Second)

	result := testutil.RequireReceive(t, done, 5*time.Second, "waiting for retried request")
	if result.err != nil {
		t.Fatalf("ListTags: %v", result.err)
	}
	if len(result.tags) != 1 || result.tags[0].Name != "Tier1" {
		t.Errorf("tags = %+v", result.tags)
	}
	if calls.Load() != 2 {
		t.Errorf("server saw %d calls, want 2", calls.Load())
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", time.Second},
		{"garbage", time.Second},
		{"0", time.Second},
		{"4", 4 * time.Second},
		{"120", maxRetryAfter},
	}
	for _, test := range tests {
		header := http.Header{}
		if test.header != "" {
			header.Set("Retry-After", test.header)
		}
		if got := retryAfter(header); got != test.want {
			t.Errorf("retryAfter(%q) = %v, want %v", test.header, got, test.want)
		}
	}
}

func TestSearchTestCases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/v1/dataQuality/testCases/search/list" {
			t.Errorf("path = %s", request.URL.Path)
		}
		query := request.URL.Query()
		want := map[string]string{
			"q":               "*orders*",
			"offset":          "20",
			"limit":           "10",
			"sortField":       "testCaseResult.timestamp",
			"sortType":        "desc",
			"fields":          "testCaseResult,testSuite,incidentId",
			"includeAllTests": "true",
			"testCaseStatus":  "Failed",
			"entityLink":      "<#E::table::svc.db.s.orders>",
			"tags":            "PII.Sensitive,Tier.Tier1",
			"startTimestamp":  "1000",
		}
		for key, value := range want {
			if got := query.Get(key); got != value {
				t.Errorf("query %s = %q, want %q", key, got, value)
			}
		}
		for _, absent := range []string{"testCaseType", "tier", "serviceName", "endTimestamp", "testPlatforms"} {
			if query.Has(absent) {
				t.Errorf("query has %s, want absent", absent)
			}
		}
		writeJSON(t, writer, map[string]any{
			"data": []map[string]any{{
				"id":                 "id-1",
				"name":               "orders_not_null",
				"fullyQualifiedName": "svc.db.s.orders.orders_not_null",
				"testCaseResult":     map[string]any{"timestamp": 1700000000000, "testCaseStatus": "Failed"},
			}},
			"paging": map[string]any{"offset": 20, "limit": 10, "total": 21},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	page, err := client.SearchTestCases(context.Background(), TestCaseSearch{
		Query:           WildcardQuery("orders"),
		Offset:          20,
		Limit:           10,
		SortField:       "testCaseResult.timestamp",
		SortType:        SortDescending,
		Fields:          []string{FieldTestCaseResult, FieldTestSuite, FieldIncidentID},
		IncludeAllTests: true,
		TestCaseStatus:  StatusFailed,
		EntityLink:      TableEntityLink("svc.db.s.orders"),
		Tags:            []string{"PII.Sensitive", "Tier.Tier1"},
		StartTimestamp:  1000,
	})
	if err != nil {
		t.Fatalf("SearchTestCases: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Status() != StatusFailed {
		t.Errorf("data = %+v", page.Data)
	}
	if page.Paging.Total != 21 {
		t.Errorf("total = %d", page.Paging.Total)
	}
}

func TestTestCaseSearchAllStatusesOmitted(t *testing.T) {
	values := TestCaseSearch{TestCaseStatus: AllStatuses}.Values()
	if values.Has("testCaseStatus") {
		t.Errorf("AllStatuses should not be sent, got %q", values.Get("testCaseStatus"))
	}
	if values.Get("offset") != "0" {
		t.Errorf("offset = %q, want 0", values.Get("offset"))
	}
}

func TestGetTestCaseByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.EscapedPath() != "/api/v1/dataQuality/testCases/name/svc.db.s.t.%22quoted%20name%22" {
			t.Errorf("escaped path = %s", request.URL.EscapedPath())
		}
		if got := request.URL.Query().Get("fields"); got != "testCaseResult,incidentId" {
			t.Errorf("fields = %q", got)
		}
		writeJSON(t, writer, map[string]any{"id": "id-9", "name": "quoted name"})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	testCase, err := client.GetTestCaseByName(context.Background(), `svc.db.s.t."quoted name"`, FieldTestCaseResult, FieldIncidentID)
	if err != nil {
		t.Fatalf("GetTestCaseByName: %v", err)
	}
	if testCase.ID != "id-9" || testCase.DisplayLabel() != "quoted name" {
		t.Errorf("testCase = %+v", testCase)
	}
}

func TestDeleteTestCase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodDelete {
			t.Errorf("method = %s", request.Method)
		}
		if request.URL.Path != "/api/v1/dataQuality/testCases/id-1" {
			t.Errorf("path = %s", request.URL.Path)
		}
		query := request.URL.Query()
		if query.Get("hardDelete") != "true" || query.Get("recursive") != "true" {
			t.Errorf("query = %s", request.URL.RawQuery)
		}
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := newTestClient(t, server).DeleteTestCase(context.Background(), "id-1"); err != nil {
		t.Fatalf("DeleteTestCase: %v", err)
	}
}

func TestUpdateIncidentStatus(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPost || request.URL.Path != "/api/v1/dataQuality/testCases/testCaseIncidentStatus" {
			t.Errorf("%s %s", request.Method, request.URL.Path)
		}
		if got := request.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if err := json.NewDecoder(request.Body).Decode(&received); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		writeJSON(t, writer, map[string]any{"id": "status-1"})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	err := client.UpdateIncidentStatus(context.Background(), IncidentUpdate{
		TestCaseFQN: "svc.db.s.t.check",
		Status:      IncidentAssigned,
		Assignee:    "alice",
	})
	if err != nil {
		t.Fatalf("UpdateIncidentStatus: %v", err)
	}
	if received["testCaseResolutionStatusType"] != "Assigned" {
		t.Errorf("type = %v", received["testCaseResolutionStatusType"])
	}
	if received["testCaseReference"] != "svc.db.s.t.check" {
		t.Errorf("reference = %v", received["testCaseReference"])
	}
	details, _ := received["testCaseResolutionStatusDetails"].(map[string]any)
	assignee, _ := details["assignee"].(map[string]any)
	if assignee["name"] != "alice" || assignee["type"] != "user" {
		t.Errorf("assignee = %v", assignee)
	}
}

func TestIncidentUpdateValidate(t *testing.T) {
	tests := []struct {
		name    string
		update  IncidentUpdate
		wantErr bool
	}{
		{"ack", IncidentUpdate{TestCaseFQN: "a.b", Status: IncidentAck}, false},
		{"resolved without comment", IncidentUpdate{TestCaseFQN: "a.b", Status: IncidentResolved}, false},
		{"assigned without assignee", IncidentUpdate{TestCaseFQN: "a.b", Status: IncidentAssigned}, true},
		{"missing fqn", IncidentUpdate{Status: IncidentNew}, true},
		{"unknown status", IncidentUpdate{TestCaseFQN: "a.b", Status: "Closed"}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.update.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, test.wantErr)
			}
		})
	}
}

func TestSearchEntities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		query := request.URL.Query()
		if query.Get("q") != "*ord*" || query.Get("index") != IndexTable {
			t.Errorf("query = %s", request.URL.RawQuery)
		}
		if query.Get("from") != "0" || query.Get("size") != "15" {
			t.Errorf("from/size = %s/%s", query.Get("from"), query.Get("size"))
		}
		if fields := query["include_source_fields"]; !slices.Equal(fields, []string{"name", "fullyQualifiedName", "displayName"}) {
			t.Errorf("include_source_fields = %v", fields)
		}
		writeJSON(t, writer, map[string]any{
			"hits": map[string]any{
				"total": map[string]any{"value": 1},
				"hits": []map[string]any{{
					"_index":  IndexTable,
					"_id":     "t-1",
					"_source": map[string]any{"name": "orders", "fullyQualifiedName": "svc.db.s.orders"},
				}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	result, err := client.SearchEntities(context.Background(), EntitySearch{
		Query:        WildcardQuery("ord"),
		Index:        IndexTable,
		PageSize:     15,
		SourceFields: []string{"name", "fullyQualifiedName", "displayName"},
	})
	if err != nil {
		t.Fatalf("SearchEntities: %v", err)
	}
	if result.Total != 1 || len(result.Hits) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if hit := result.Hits[0]; hit.Source.FullyQualifiedName != "svc.db.s.orders" || hit.Source.DisplayLabel() != "orders" {
		t.Errorf("hit = %+v", hit)
	}
}

func TestSearchEntitiesRequiresIndex(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://localhost:1/api"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.SearchEntities(context.Background(), EntitySearch{Query: "*"}); err == nil {
		t.Error("expected error for missing index")
	}
}

func TestWildcardQuery(t *testing.T) {
	if got := WildcardQuery(""); got != "***" {
		t.Errorf("WildcardQuery(\"\") = %q", got)
	}
	if got := WildcardQuery("abc"); got != "*abc*" {
		t.Errorf("WildcardQuery(abc) = %q", got)
	}
}

func TestResourcePermissions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/v1/permissions" {
			t.Errorf("path = %s", request.URL.Path)
		}
		writeJSON(t, writer, map[string]any{
			"data": []map[string]any{
				{"resource": "testCase", "permissions": []map[string]any{
					{"operation": "ViewAll", "access": "notAllow"},
					{"operation": "ViewBasic", "access": "conditionalAllow"},
					{"operation": "Delete", "access": "deny"},
				}},
				{"resource": "table", "permissions": []map[string]any{
					{"operation": "ViewAll", "access": "allow"},
				}},
			},
		})
	}))
	defer server.Close()

	permissions, err := newTestClient(t, server).ResourcePermissions(context.Background())
	if err != nil {
		t.Fatalf("ResourcePermissions: %v", err)
	}
	if !permissions.CanViewTestCases() {
		t.Error("conditional ViewBasic should allow viewing test cases")
	}
	if permissions.Allows(ResourceTestCase, OperationDelete) {
		t.Error("Delete should be denied")
	}
	if !permissions.Allows("table", OperationViewAll) {
		t.Error("table ViewAll should be allowed")
	}
	if (Permissions{}).CanViewTestCases() {
		t.Error("empty permissions should not allow viewing")
	}
}

func errorAs(err error) (*APIError, bool) {
	var apiError *APIError
	ok := errors.As(err, &apiError)
	return apiError, ok
}

func TestParseEntityLink(t *testing.T) {
	tests := []struct {
		name string
		link string
		want EntityLink
		ok   bool
	}{
		{"table", TableEntityLink("svc.db.s.orders"), EntityLink{EntityType: "table", FQN: "svc.db.s.orders"}, true},
		{"column", "<#E::table::svc.db.s.orders::columns::amount>", EntityLink{EntityType: "table", FQN: "svc.db.s.orders", Column: "amount"}, true},
		{"missing suffix", "<#E::table::svc.db.s.orders", EntityLink{}, false},
		{"plain fqn", "svc.db.s.orders", EntityLink{}, false},
		{"empty fqn", "<#E::table::>", EntityLink{}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := ParseEntityLink(test.link)
			if ok != test.ok || got != test.want {
				t.Errorf("ParseEntityLink(%q) = %+v, %v; want %+v, %v", test.link, got, ok, test.want, test.ok)
			}
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(5 * time.Second)
	if client.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.Timeout)
	}
	if client.Transport == nil {
		t.Error("expected a gzip-capable transport")
	}
}
