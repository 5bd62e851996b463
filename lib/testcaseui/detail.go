// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/tui"
)

// sqlParameters are test parameters whose values are SQL and get
// highlighted as such.
var sqlParameters = map[string]bool{
	"sqlExpression": true,
	"sqlQuery":      true,
	"query":         true,
}

// DetailRenderer renders one test case for the detail pane.
type DetailRenderer struct {
	theme tui.Theme
	width int
}

// NewDetailRenderer creates a DetailRenderer for the given width.
func NewDetailRenderer(theme tui.Theme, width int) DetailRenderer {
	return DetailRenderer{theme: theme, width: width}
}

// Render returns the detail lines of a test case.
func (renderer DetailRenderer) Render(testCase catalog.TestCase, now time.Time) []string {
	var sections []string

	title := lipgloss.NewStyle().Bold(true).Foreground(renderer.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	sections = append(sections,
		ansi.Wrap(title.Render(testCase.DisplayLabel()), renderer.width, " _."),
		faint.Render(ansi.Truncate(testCase.FullyQualifiedName, renderer.width, "…")),
	)

	sections = append(sections, "", renderer.renderStatusLine(testCase, now))
	if result := testCase.TestCaseResult; result != nil && result.Result != "" {
		sections = append(sections, ansi.Wrap(
			lipgloss.NewStyle().Foreground(renderer.theme.NormalText).Render(result.Result),
			renderer.width, " ,.;"))
	}

	sections = append(append(sections, ""), renderer.renderFields(testCase)...)

	if len(testCase.ParameterValues) > 0 {
		sections = append(sections, "", renderer.heading("Parameters"))
		sections = append(sections, renderer.renderParameters(testCase.ParameterValues)...)
	}

	if result := testCase.TestCaseResult; result != nil && len(result.TestResultValue) > 0 {
		sections = append(sections, "", renderer.heading("Result values"))
		for _, value := range result.TestResultValue {
			sections = append(sections, renderer.field(value.Name, value.Value))
		}
	}

	if description := renderMarkdown(testCase.Description, renderer.theme, renderer.width); description != "" {
		sections = append(sections, "", renderer.heading("Description"), description)
	}

	return strings.Split(strings.Join(sections, "\n"), "\n")
}

func (renderer DetailRenderer) heading(text string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(renderer.theme.HeaderForeground).Render(text)
}

func (renderer DetailRenderer) field(label, value string) string {
	labelStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	valueStyle := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)
	labelText := fmt.Sprintf("%-12s", label)
	available := max(renderer.width-ansi.StringWidth(labelText)-1, 8)
	return labelStyle.Render(labelText) + " " + valueStyle.Render(ansi.Truncate(value, available, "…"))
}

func (renderer DetailRenderer) renderStatusLine(testCase catalog.TestCase, now time.Time) string {
	status := testCase.Status()
	label := status
	if label == "" {
		label = "Not run"
	}
	statusStyle := lipgloss.NewStyle().Bold(true).Foreground(renderer.theme.StatusColor(status))
	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)

	line := statusStyle.Render(statusIcon(status) + " " + label)
	if result := testCase.TestCaseResult; result != nil && result.Timestamp != 0 {
		line += faint.Render("  " + result.Time().UTC().Format("2006-01-02 15:04 MST") + " (" + relativeTime(result.Time(), now) + ")")
	}
	return line
}

func (renderer DetailRenderer) renderFields(testCase catalog.TestCase) []string {
	var lines []string
	if link, ok := catalog.ParseEntityLink(testCase.EntityLink); ok {
		lines = append(lines, renderer.field("Table", link.FQN))
		if link.Column != "" {
			lines = append(lines, renderer.field("Column", link.Column))
		}
	}
	if testCase.TestDefinition != nil {
		lines = append(lines, renderer.field("Definition", testCase.TestDefinition.DisplayLabel()))
	}
	if testCase.TestSuite != nil {
		lines = append(lines, renderer.field("Suite", testCase.TestSuite.DisplayLabel()))
	}
	if testCase.IncidentID != "" {
		lines = append(lines, renderer.field("Incident", testCase.IncidentID))
	}
	if len(testCase.Tags) > 0 {
		tags := make([]string, len(testCase.Tags))
		for index, tag := range testCase.Tags {
			tags[index] = tag.TagFQN
		}
		lines = append(lines, renderer.field("Tags", strings.Join(tags, ", ")))
	}
	if testCase.UpdatedBy != "" {
		lines = append(lines, renderer.field("Updated by", testCase.UpdatedBy))
	}
	return lines
}

func (renderer DetailRenderer) renderParameters(parameters []catalog.ParameterValue) []string {
	var lines []string
	for _, parameter := range parameters {
		if !sqlParameters[parameter.Name] {
			lines = append(lines, renderer.field(parameter.Name, parameter.Value))
			continue
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(renderer.theme.FaintText).Render(parameter.Name))
		for _, line := range strings.Split(highlightCode(parameter.Value, "sql", renderer.theme), "\n") {
			lines = append(lines, "  "+line)
		}
	}
	return lines
}

// DetailPane is the scrollable right-hand pane.
type DetailPane struct {
	theme  tui.Theme
	width  int
	height int
	offset int
	lines  []string

	testCaseID string
}

// NewDetailPane creates an empty pane.
func NewDetailPane(theme tui.Theme) DetailPane {
	return DetailPane{theme: theme}
}

// SetSize sets the pane dimensions, including the scrollbar column.
func (pane *DetailPane) SetSize(width, height int) {
	pane.width = width
	pane.height = height
	pane.clampOffset()
}

func (pane DetailPane) contentWidth() int {
	return max(pane.width-2, 10) // focus marker + scrollbar
}

// SetContent renders testCase into the pane. The scroll position is
// kept when the same test case is re-rendered (after a patch).
func (pane *DetailPane) SetContent(testCase catalog.TestCase, now time.Time) {
	if testCase.ID != pane.testCaseID {
		pane.offset = 0
	}
	pane.testCaseID = testCase.ID
	pane.lines = NewDetailRenderer(pane.theme, pane.contentWidth()).Render(testCase, now)
	pane.clampOffset()
}

// Clear empties the pane.
func (pane *DetailPane) Clear() {
	pane.lines = nil
	pane.testCaseID = ""
	pane.offset = 0
}

// ScrollBy moves the viewport by delta lines.
func (pane *DetailPane) ScrollBy(delta int) {
	pane.offset += delta
	pane.clampOffset()
}

func (pane *DetailPane) clampOffset() {
	pane.offset = min(pane.offset, max(len(pane.lines)-pane.height, 0))
	pane.offset = max(pane.offset, 0)
}

// View renders the visible slice of the pane.
func (pane DetailPane) View(focused bool) string {
	if pane.height <= 0 {
		return ""
	}
	width := pane.contentWidth()
	marker := " "
	if focused {
		marker = lipgloss.NewStyle().Foreground(pane.theme.AccentColor).Render("▎")
	}

	rows := make([]string, pane.height)
	for index := range rows {
		line := ""
		if lineIndex := pane.offset + index; lineIndex < len(pane.lines) {
			line = pane.lines[lineIndex]
		}
		rows[index] = marker + padLine(line, width)
	}
	content := strings.Join(rows, "\n")
	scrollbar := tui.RenderScrollbar(pane.theme, pane.height, len(pane.lines), pane.height, pane.offset, focused)
	return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollbar)
}
