// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"encoding/json"
	"time"
)

// EntityReference points at another catalog entity.
type EntityReference struct {
	ID                 string `json:"id,omitempty"`
	Type               string `json:"type,omitempty"`
	Name               string `json:"name,omitempty"`
	FullyQualifiedName string `json:"fullyQualifiedName,omitempty"`
	DisplayName        string `json:"displayName,omitempty"`
	Deleted            bool   `json:"deleted,omitempty"`
}

// DisplayLabel returns DisplayName, falling back to Name and then the
// fully-qualified name.
func (ref EntityReference) DisplayLabel() string {
	return firstNonEmpty(ref.DisplayName, ref.Name, ref.FullyQualifiedName)
}

// TagLabel is a tag applied to an entity.
type TagLabel struct {
	TagFQN    string `json:"tagFQN"`
	Name      string `json:"name,omitempty"`
	Source    string `json:"source,omitempty"`
	LabelType string `json:"labelType,omitempty"`
	State     string `json:"state,omitempty"`
}

// ParameterValue is one configured argument of a test case.
type ParameterValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ResultValue is one measured value in a test case result.
type ResultValue struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// Test case run outcomes.
const (
	StatusSuccess = "Success"
	StatusFailed  = "Failed"
	StatusAborted = "Aborted"
	StatusQueued  = "Queued"
)

// AllStatuses requests test cases of every run outcome. The search
// endpoint has no literal "all" value; SearchTestCases omits the status
// parameter when it sees this sentinel.
const AllStatuses = "all"

// TestCaseResult is the most recent execution result of a test case.
type TestCaseResult struct {
	// Timestamp is epoch milliseconds.
	Timestamp       int64         `json:"timestamp"`
	TestCaseStatus  string        `json:"testCaseStatus,omitempty"`
	Result          string        `json:"result,omitempty"`
	TestResultValue []ResultValue `json:"testResultValue,omitempty"`
}

// Time converts the result timestamp.
func (result TestCaseResult) Time() time.Time {
	return time.UnixMilli(result.Timestamp)
}

// TestCase is a data-quality check definition together with its latest
// result.
type TestCase struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	FullyQualifiedName string           `json:"fullyQualifiedName"`
	DisplayName        string           `json:"displayName,omitempty"`
	Description        string           `json:"description,omitempty"`
	EntityLink         string           `json:"entityLink,omitempty"`
	EntityFQN          string           `json:"entityFQN,omitempty"`
	TestDefinition     *EntityReference `json:"testDefinition,omitempty"`
	TestSuite          *EntityReference `json:"testSuite,omitempty"`
	ParameterValues    []ParameterValue `json:"parameterValues,omitempty"`
	TestCaseResult     *TestCaseResult  `json:"testCaseResult,omitempty"`
	IncidentID         string           `json:"incidentId,omitempty"`
	Tags               []TagLabel       `json:"tags,omitempty"`
	Version            float64          `json:"version,omitempty"`
	UpdatedAt          int64            `json:"updatedAt,omitempty"`
	UpdatedBy          string           `json:"updatedBy,omitempty"`
	Deleted            bool             `json:"deleted,omitempty"`
}

// DisplayLabel returns DisplayName, falling back to Name.
func (testCase TestCase) DisplayLabel() string {
	return firstNonEmpty(testCase.DisplayName, testCase.Name, testCase.FullyQualifiedName)
}

// Status returns the latest run outcome, or "" when the test case has
// never run.
func (testCase TestCase) Status() string {
	if testCase.TestCaseResult == nil {
		return ""
	}
	return testCase.TestCaseResult.TestCaseStatus
}

// Paging is the paging block of a list response.
type Paging struct {
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
	Total  int    `json:"total"`
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// TestCasePage is one page of test case search results.
type TestCasePage struct {
	Data   []TestCase `json:"data"`
	Paging Paging     `json:"paging"`
}

// Tag is a classification tag.
type Tag struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	FullyQualifiedName string           `json:"fullyQualifiedName"`
	DisplayName        string           `json:"displayName,omitempty"`
	Description        string           `json:"description,omitempty"`
	Classification     *EntityReference `json:"classification,omitempty"`
}

// DisplayLabel returns DisplayName, falling back to Name.
func (tag Tag) DisplayLabel() string {
	return firstNonEmpty(tag.DisplayName, tag.Name, tag.FullyQualifiedName)
}

// EntitySource is the subset of an indexed document's _source the
// viewer requests.
type EntitySource struct {
	ID                 string           `json:"id,omitempty"`
	Name               string           `json:"name"`
	FullyQualifiedName string           `json:"fullyQualifiedName"`
	DisplayName        string           `json:"displayName,omitempty"`
	Classification     *EntityReference `json:"classification,omitempty"`
}

// DisplayLabel returns DisplayName, falling back to Name.
func (source EntitySource) DisplayLabel() string {
	return firstNonEmpty(source.DisplayName, source.Name, source.FullyQualifiedName)
}

// EntityHit is one search hit.
type EntityHit struct {
	Index  string       `json:"_index"`
	ID     string       `json:"_id"`
	Source EntitySource `json:"_source"`
}

// SearchResult is the response of the generic search endpoint.
type SearchResult struct {
	Hits  []EntityHit
	Total int
}

// UnmarshalJSON flattens the search engine's nested hits envelope.
func (result *SearchResult) UnmarshalJSON(data []byte) error {
	var wire struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []EntityHit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	result.Hits = wire.Hits.Hits
	result.Total = wire.Hits.Total.Value
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
