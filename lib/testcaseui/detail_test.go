// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseui

import (
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/tui"
)

func plainLines(lines []string) []string {
	plain := make([]string, len(lines))
	for index, line := range lines {
		plain[index] = strings.TrimRight(ansi.Strip(line), " ")
	}
	return plain
}

func TestDetailRendererFields(t *testing.T) {
	testCase := sampleTestCase(1)
	testCase.TestDefinition = &catalog.EntityReference{Name: "columnValuesToBeNotNull", DisplayName: "Column Values To Be Not Null"}
	testCase.TestSuite = &catalog.EntityReference{Name: "orders.testSuite"}
	testCase.IncidentID = "incident-7"
	testCase.Tags = []catalog.TagLabel{{TagFQN: "PII.Sensitive"}, {TagFQN: "Tier.Tier1"}}
	testCase.ParameterValues = []catalog.ParameterValue{{Name: "minValue", Value: "0"}}

	lines := plainLines(NewDetailRenderer(tui.DefaultTheme, 80).Render(testCase, testEpoch))

	tests := []struct {
		label string
		value string
	}{
		{"Table", "mysql_prod.shop.public.orders"},
		{"Column", "amount"},
		{"Definition", "Column Values To Be Not Null"},
		{"Suite", "orders.testSuite"},
		{"Incident", "incident-7"},
		{"Tags", "PII.Sensitive, Tier.Tier1"},
		{"minValue", "0"},
	}
	for _, test := range tests {
		found := slices.ContainsFunc(lines, func(line string) bool {
			return strings.HasPrefix(line, test.label) && strings.HasSuffix(line, " "+test.value)
		})
		if !found {
			t.Errorf("no %s line with %q in:\n%s", test.label, test.value, strings.Join(lines, "\n"))
		}
	}

	// Fields follow the status block after one blank separator.
	table := slices.IndexFunc(lines, func(line string) bool { return strings.HasPrefix(line, "Table") })
	if table < 1 || lines[table-1] != "" {
		t.Errorf("field block at line %d is not preceded by a blank line", table)
	}
	parameters := slices.Index(lines, "Parameters")
	if parameters < table {
		t.Errorf("Parameters heading at line %d, want after the fields at %d", parameters, table)
	}
}

func TestDetailPaneKeepsScrollForSameTestCase(t *testing.T) {
	pane := NewDetailPane(tui.DefaultTheme)
	pane.SetSize(60, 4)

	testCase := sampleTestCase(0)
	testCase.ParameterValues = []catalog.ParameterValue{
		{Name: "minValue", Value: "0"},
		{Name: "maxValue", Value: "100"},
		{Name: "columnName", Value: "amount"},
	}
	pane.SetContent(testCase, testEpoch)
	pane.ScrollBy(3)
	if pane.offset != 3 {
		t.Fatalf("offset = %d, want 3", pane.offset)
	}

	testCase.IncidentID = "incident-1"
	pane.SetContent(testCase, testEpoch)
	if pane.offset != 3 {
		t.Errorf("offset after re-render = %d, want 3", pane.offset)
	}

	pane.SetContent(sampleTestCase(1), testEpoch)
	if pane.offset != 0 {
		t.Errorf("offset for another test case = %d, want 0", pane.offset)
	}

	pane.ScrollBy(1000)
	if want := len(pane.lines) - 4; pane.offset != want {
		t.Errorf("offset = %d, want clamped to %d", pane.offset, want)
	}
}
