// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bureau-foundation/dqview/lib/testcaseview"
	"github.com/bureau-foundation/dqview/lib/tui"
)

// plainColumns are the headers of the plain-mode table.
var plainColumns = []string{"", "Name", "Table", "Status", "Last run", "Incident"}

// RenderPlain renders one result page as a bordered table followed by
// a paging summary, for non-interactive output. Without color the
// status column carries no styling, so the output is safe to pipe.
func RenderPlain(results testcaseview.ResultPage, theme tui.Theme, now time.Time, color bool) string {
	rows := make([][]string, len(results.TestCases))
	statuses := make([]string, len(results.TestCases))
	for index, testCase := range results.TestCases {
		status := testCase.Status()
		statuses[index] = status
		label := status
		if label == "" {
			label = "Not run"
		}
		rows[index] = []string{
			statusIcon(status),
			testCase.DisplayLabel(),
			tableName(testCase),
			label,
			lastRun(testCase, now),
			testCase.IncidentID,
		}
	}

	output := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(plainColumns...).
		Rows(rows...).
		StyleFunc(func(row, column int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if !color {
				return style
			}
			if row == table.HeaderRow {
				return style.Bold(true).Foreground(theme.HeaderForeground)
			}
			if (column == 0 || column == 3) && row >= 0 && row < len(statuses) {
				return style.Foreground(theme.StatusColor(statuses[row]))
			}
			return style
		}).
		Render()

	summary := fmt.Sprintf("%d test cases", results.Total)
	if count := results.PageCount(); count > 0 {
		summary = fmt.Sprintf("page %d/%d, %s", results.CurrentPage, count, summary)
	}
	return output + "\n" + summary + "\n"
}
