// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseui

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/dqview/lib/catalog"
	"github.com/bureau-foundation/dqview/lib/clock"
	"github.com/bureau-foundation/dqview/lib/filterparams"
	"github.com/bureau-foundation/dqview/lib/testcaseview"
	"github.com/bureau-foundation/dqview/lib/tui"
)

// Focus identifies which pane receives navigation keys.
type Focus int

const (
	// FocusList means navigation keys move the result list cursor.
	FocusList Focus = iota

	// FocusDetail means navigation keys scroll the detail pane.
	FocusDetail
)

// mode is the input mode. Every mode other than modeBrowse owns the
// keyboard until it is confirmed or cancelled.
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeLocation
	modeJumpPage
	modeFilterMenu
	modePicker
	modeIncident
	modeIncidentNote
	modeConfirmDelete
)

// pageSizes are the page sizes the grow and shrink keys step through.
var pageSizes = []int{10, 15, 25, 50, 100}

const (
	// headerHeight is the filter bar plus the info line.
	headerHeight = 2

	// footerHeight is the bottom separator plus the status bar.
	footerHeight = 2

	listWidthRatio = 0.5
	minListWidth   = 40
)

// glowTickMsg redraws fading row glows.
type glowTickMsg struct{}

// pendingMutation is the test case a prompt or confirmation acts on.
type pendingMutation struct {
	testCase catalog.TestCase
	status   catalog.IncidentStatus
}

// Model is the bubbletea model of the test case listing: a filter chip
// row, a paged result list, and a detail pane for the selected test
// case. All data state lives in the testcaseview.Page; the model owns
// only presentation state.
type Model struct {
	page  *testcaseview.Page
	clock clock.Clock
	theme tui.Theme
	keys  KeyMap

	width  int
	height int
	ready  bool

	focus        Focus
	cursor       int
	scrollOffset int
	shownPage    int
	detail       DetailPane
	chipCursor   int

	mode     mode
	prompt   textinput.Model
	menu     *tui.DropdownOverlay
	picker   *picker
	incident *tui.DropdownOverlay
	pending  *pendingMutation

	notice         *logRecordMsg
	noticeSequence int

	glow        *tui.GlowTracker
	glowTicking bool
}

// NewModel creates a model over page. clk drives notice fading and row
// glow; pass the same clock the page uses.
func NewModel(page *testcaseview.Page, clk clock.Clock) Model {
	if clk == nil {
		clk = clock.Real()
	}
	theme := tui.DefaultTheme
	return Model{
		page:   page,
		clock:  clk,
		theme:  theme,
		keys:   DefaultKeyMap,
		detail: NewDetailPane(theme),
		glow:   tui.NewGlowTracker(),
	}
}

// Location returns the page's current location, for printing on exit.
func (model Model) Location() string {
	return model.page.Location()
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return model.page.Init()
}

// newInput creates a focused single-line input. The cursor does not
// blink: blinking needs a wall-clock timer per keystroke.
func newInput(prompt, value string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorStatic)
	input.SetValue(value)
	input.CursorEnd()
	input.Focus()
	return input
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.updatePaneSizes()

	case tea.KeyMsg:
		cmd = model.handleKey(message)

	case logRecordMsg:
		model.noticeSequence++
		model.notice = &message
		cmd = model.scheduleNoticeFade(model.noticeSequence)

	case noticeFadeMsg:
		if message.sequence == model.noticeSequence {
			model.notice = nil
		}

	case testcaseview.MutationResult:
		cmd = model.handleMutationResult(message)

	case glowTickMsg:
		if model.glow.Active(model.clock.Now()) {
			cmd = model.scheduleGlowTick()
		} else {
			model.glowTicking = false
		}

	default:
		cmd = model.page.Update(message)
	}
	model.sync()
	return model, cmd
}

func (model *Model) scheduleNoticeFade(sequence int) tea.Cmd {
	timer := model.clock.After(noticeFadeDelay)
	return func() tea.Msg {
		<-timer
		return noticeFadeMsg{sequence: sequence}
	}
}

func (model *Model) scheduleGlowTick() tea.Cmd {
	timer := model.clock.After(tui.GlowTickInterval)
	return func() tea.Msg {
		<-timer
		return glowTickMsg{}
	}
}

// handleMutationResult lights the affected row: refused writes glow
// red, applied incident updates glow green. A deleted row is gone, so
// a successful delete lights nothing.
func (model *Model) handleMutationResult(result testcaseview.MutationResult) tea.Cmd {
	now := model.clock.Now()
	switch {
	case result.Err != nil:
		model.glow.Light(result.TestCaseFQN, tui.GlowRefused, now)
	case result.Mutation == testcaseview.MutationIncident:
		model.glow.Light(result.TestCaseFQN, tui.GlowPatched, now)
	default:
		return nil
	}
	if model.glowTicking {
		return nil
	}
	model.glowTicking = true
	return model.scheduleGlowTick()
}

// sync reconciles presentation state with the page after any change:
// the cursor resets when a different result page arrives, stays in
// range, and the detail pane follows the selected row. An open picker
// picks up newly loaded options.
func (model *Model) sync() {
	results := model.page.Results()
	if results.CurrentPage != model.shownPage {
		model.shownPage = results.CurrentPage
		model.cursor = 0
		model.scrollOffset = 0
	}
	model.cursor = min(model.cursor, max(len(results.TestCases)-1, 0))
	model.ensureCursorVisible()

	if chips := len(activeFilters(model.page)); model.chipCursor >= chips {
		model.chipCursor = max(chips-1, 0)
	}

	if selected, ok := model.selected(); ok {
		model.detail.SetContent(selected, model.clock.Now())
	} else {
		model.detail.Clear()
	}

	if model.picker != nil {
		model.picker.refresh(model.page)
	}
}

// selected returns the test case under the list cursor.
func (model Model) selected() (catalog.TestCase, bool) {
	testCases := model.page.Results().TestCases
	if model.cursor < 0 || model.cursor >= len(testCases) {
		return catalog.TestCase{}, false
	}
	return testCases[model.cursor], true
}

func (model *Model) handleKey(message tea.KeyMsg) tea.Cmd {
	switch model.mode {
	case modeSearch, modeLocation, modeJumpPage, modeIncidentNote:
		return model.handlePromptKeys(message)
	case modeFilterMenu:
		return model.handleMenuKeys(message)
	case modePicker:
		return model.handlePickerKeys(message)
	case modeIncident:
		return model.handleIncidentKeys(message)
	case modeConfirmDelete:
		return model.handleConfirmKeys(message)
	}

	if key.Matches(message, model.keys.Quit) {
		return tea.Quit
	}
	if model.page.Permission() != testcaseview.PermissionGranted {
		return nil
	}

	switch {
	case key.Matches(message, model.keys.FocusToggle):
		if model.focus == FocusList {
			model.focus = FocusDetail
		} else {
			model.focus = FocusList
		}

	case key.Matches(message, model.keys.NextPage):
		return model.page.NextPage()

	case key.Matches(message, model.keys.PreviousPage):
		return model.page.PreviousPage()

	case key.Matches(message, model.keys.GrowPageSize):
		return model.page.SetPageSize(stepPageSize(model.page.PageSize(), 1))

	case key.Matches(message, model.keys.ShrinkPageSize):
		return model.page.SetPageSize(stepPageSize(model.page.PageSize(), -1))

	case key.Matches(message, model.keys.Refresh):
		return model.page.Refresh()

	case key.Matches(message, model.keys.JumpToPage):
		model.mode = modeJumpPage
		model.prompt = newInput("Page › ", "")

	case key.Matches(message, model.keys.Search):
		model.mode = modeSearch
		model.prompt = newInput("Search › ", model.page.Params().Get(filterparams.SearchValue))

	case key.Matches(message, model.keys.GoTo):
		model.mode = modeLocation
		model.prompt = newInput("Open › ", model.page.Location())

	case key.Matches(message, model.keys.FilterMenu):
		model.openFilterMenu()

	case key.Matches(message, model.keys.EditFilter):
		filters := activeFilters(model.page)
		if model.chipCursor < len(filters) {
			return model.openPicker(filters[model.chipCursor])
		}

	case key.Matches(message, model.keys.NextChip):
		if model.chipCursor < len(activeFilters(model.page))-1 {
			model.chipCursor++
		}

	case key.Matches(message, model.keys.PrevChip):
		if model.chipCursor > 0 {
			model.chipCursor--
		}

	case key.Matches(message, model.keys.ClearFilter):
		filters := activeFilters(model.page)
		if model.chipCursor < len(filters) {
			return model.page.SetValue(filters[model.chipCursor].Key)
		}

	case key.Matches(message, model.keys.Back):
		return model.page.Back()

	case key.Matches(message, model.keys.Forward):
		return model.page.Forward()

	case key.Matches(message, model.keys.Incident):
		model.openIncidentMenu()

	case key.Matches(message, model.keys.Delete):
		if testCase, ok := model.selected(); ok && model.page.Can(catalog.OperationDelete) {
			model.pending = &pendingMutation{testCase: testCase}
			model.mode = modeConfirmDelete
		}

	default:
		if model.focus == FocusList {
			model.handleListKeys(message)
		} else {
			model.handleDetailKeys(message)
		}
	}
	return nil
}

// stepPageSize returns the page size one step from current in
// direction. A size not in the list steps to its nearest neighbor.
func stepPageSize(current, direction int) int {
	index, found := slices.BinarySearch(pageSizes, current)
	switch {
	case direction > 0 && found:
		index++
	case direction < 0:
		index--
	}
	return pageSizes[min(max(index, 0), len(pageSizes)-1)]
}

func (model *Model) handleListKeys(message tea.KeyMsg) {
	count := len(model.page.Results().TestCases)
	switch {
	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
	case key.Matches(message, model.keys.Down):
		if model.cursor < count-1 {
			model.cursor++
		}
	case key.Matches(message, model.keys.Home):
		model.cursor = 0
	case key.Matches(message, model.keys.End):
		model.cursor = max(count-1, 0)
	case key.Matches(message, model.keys.PageUp):
		model.cursor = max(model.cursor-model.visibleHeight()/2, 0)
	case key.Matches(message, model.keys.PageDown):
		model.cursor = max(min(model.cursor+model.visibleHeight()/2, count-1), 0)
	}
}

func (model *Model) handleDetailKeys(message tea.KeyMsg) {
	half := max(model.visibleHeight()/2, 1)
	switch {
	case key.Matches(message, model.keys.Up):
		model.detail.ScrollBy(-1)
	case key.Matches(message, model.keys.Down):
		model.detail.ScrollBy(1)
	case key.Matches(message, model.keys.Home):
		model.detail.ScrollBy(-len(model.detail.lines))
	case key.Matches(message, model.keys.End):
		model.detail.ScrollBy(len(model.detail.lines))
	case key.Matches(message, model.keys.PageUp):
		model.detail.ScrollBy(-half)
	case key.Matches(message, model.keys.PageDown):
		model.detail.ScrollBy(half)
	}
}

// handlePromptKeys drives the single-line prompts: search term,
// location, page number, and the incident assignee or comment.
func (model *Model) handlePromptKeys(message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, model.keys.Cancel):
		model.closePrompt()
		return nil

	case message.Type == tea.KeyEnter:
		value := strings.TrimSpace(model.prompt.Value())
		current := model.mode
		pending := model.pending
		model.closePrompt()
		switch current {
		case modeSearch:
			return model.page.SetSearch(value)
		case modeLocation:
			if value == "" {
				return nil
			}
			return model.page.Navigate(value)
		case modeJumpPage:
			number, err := strconv.Atoi(value)
			if err != nil || number < 1 {
				return nil
			}
			return model.page.GoToPage(number)
		case modeIncidentNote:
			if pending == nil {
				return nil
			}
			update := catalog.IncidentUpdate{
				TestCaseFQN: pending.testCase.FullyQualifiedName,
				Status:      pending.status,
			}
			if pending.status == catalog.IncidentAssigned {
				update.Assignee = value
			} else {
				update.Comment = value
			}
			return model.page.UpdateIncident(update)
		}
		return nil
	}

	var cmd tea.Cmd
	model.prompt, cmd = model.prompt.Update(message)
	return cmd
}

func (model *Model) closePrompt() {
	model.mode = modeBrowse
	model.prompt.Blur()
	model.pending = nil
}

// openFilterMenu shows every filter category with the active ones
// checked.
func (model *Model) openFilterMenu() {
	options := make([]tui.DropdownOption, len(testcaseview.Filters))
	for index, filter := range testcaseview.Filters {
		options[index] = tui.DropdownOption{
			Label:   filter.Label,
			Value:   string(filter.Key),
			Checked: model.page.IsActive(filter.Key),
		}
	}
	model.menu = &tui.DropdownOverlay{
		Title:   "Filters  Tab show/hide, Enter pick",
		Options: options,
		Multi:   true,
		AnchorX: 1,
		AnchorY: 1,
	}
	model.mode = modeFilterMenu
}

// handleMenuKeys toggles filter categories. Enter on a hidden
// category shows it and opens its picker; on a shown one it closes the
// menu.
func (model *Model) handleMenuKeys(message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, model.keys.Cancel):
		model.closeMenu()
	case key.Matches(message, model.keys.Up):
		model.menu.MoveUp()
	case key.Matches(message, model.keys.Down):
		model.menu.MoveDown()
	case key.Matches(message, model.keys.Check):
		if option, ok := model.menu.Selected(); ok {
			model.menu.Toggle()
			return model.page.Toggle(testcaseview.Key(option.Value))
		}
	case key.Matches(message, model.keys.Confirm):
		option, ok := model.menu.Selected()
		model.closeMenu()
		if !ok || option.Checked {
			return nil
		}
		filter, found := testcaseview.LookupFilter(testcaseview.Key(option.Value))
		if !found {
			return nil
		}
		toggle := model.page.Toggle(filter.Key)
		return tea.Batch(toggle, model.openPicker(filter))
	}
	return nil
}

func (model *Model) closeMenu() {
	model.menu = nil
	model.mode = modeBrowse
}

// openPicker opens the value picker for filter, anchored under its
// chip, and loads remote options when none are loaded or loading.
func (model *Model) openPicker(filter testcaseview.Filter) tea.Cmd {
	model.picker = newPicker(model.page, filter)
	model.picker.dropdown.AnchorX = 1
	model.picker.dropdown.AnchorY = 1
	model.mode = modePicker
	for index, active := range activeFilters(model.page) {
		if active.Key == filter.Key {
			model.chipCursor = index
		}
	}
	if filter.Remote && !model.page.Options(filter.Key).Loading {
		return model.page.LoadOptions(filter.Key)
	}
	return nil
}

func (model *Model) handlePickerKeys(message tea.KeyMsg) tea.Cmd {
	cmd, result, done := model.picker.update(model.page, model.keys, message)
	if !done {
		return cmd
	}
	filter := model.picker.filter
	model.picker = nil
	model.mode = modeBrowse
	if !result.apply {
		return cmd
	}
	return tea.Batch(cmd, model.page.SetValue(filter.Key, result.values...))
}

// openIncidentMenu offers the incident statuses for the selected test
// case. Needs edit permission.
func (model *Model) openIncidentMenu() {
	testCase, ok := model.selected()
	if !ok || !model.page.Can(catalog.OperationEditAll) {
		return
	}
	options := make([]tui.DropdownOption, len(catalog.IncidentStatuses))
	for index, status := range catalog.IncidentStatuses {
		options[index] = tui.DropdownOption{Label: string(status), Value: string(status)}
	}
	model.incident = &tui.DropdownOverlay{
		Title:   "Incident status",
		Options: options,
		Field:   "incident",
		ItemID:  testCase.FullyQualifiedName,
	}
	model.pending = &pendingMutation{testCase: testCase}
	model.mode = modeIncident
}

// handleIncidentKeys picks a status. Assigned asks for an assignee and
// Resolved for a comment before the update is sent.
func (model *Model) handleIncidentKeys(message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, model.keys.Cancel):
		model.incident = nil
		model.pending = nil
		model.mode = modeBrowse
	case key.Matches(message, model.keys.Up):
		model.incident.MoveUp()
	case key.Matches(message, model.keys.Down):
		model.incident.MoveDown()
	case key.Matches(message, model.keys.Confirm):
		option, ok := model.incident.Selected()
		model.incident = nil
		if !ok || model.pending == nil {
			model.pending = nil
			model.mode = modeBrowse
			return nil
		}
		status := catalog.IncidentStatus(option.Value)
		model.pending.status = status
		switch status {
		case catalog.IncidentAssigned:
			model.mode = modeIncidentNote
			model.prompt = newInput("Assignee › ", "")
		case catalog.IncidentResolved:
			model.mode = modeIncidentNote
			model.prompt = newInput("Resolution comment › ", "")
		default:
			testCase := model.pending.testCase
			model.pending = nil
			model.mode = modeBrowse
			return model.page.UpdateIncident(catalog.IncidentUpdate{
				TestCaseFQN: testCase.FullyQualifiedName,
				Status:      status,
			})
		}
	}
	return nil
}

func (model *Model) handleConfirmKeys(message tea.KeyMsg) tea.Cmd {
	pending := model.pending
	model.pending = nil
	model.mode = modeBrowse
	if message.String() != "y" || pending == nil {
		return nil
	}
	return model.page.Delete(pending.testCase)
}

func (model *Model) updatePaneSizes() {
	model.detail.SetSize(model.width-model.listWidth()-1, model.visibleHeight())
}

func (model Model) listWidth() int {
	return min(max(int(float64(model.width)*listWidthRatio), minListWidth), model.width)
}

func (model Model) visibleHeight() int {
	return max(model.height-headerHeight-footerHeight, 0)
}

func (model *Model) ensureCursorVisible() {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}
	count := len(model.page.Results().TestCases)
	model.scrollOffset = min(model.scrollOffset, max(count-visible, 0))
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	switch model.page.Permission() {
	case testcaseview.PermissionPending:
		return model.renderPlaceholder("Checking permissions…")
	case testcaseview.PermissionDenied:
		return model.renderPlaceholder("You do not have permission to view test cases.")
	}

	sections := []string{
		renderFilterBar(model.page, model.theme, model.width, model.chipCursor, model.mode == modeBrowse),
		renderInfoLine(model.page, model.theme, model.width),
		lipgloss.JoinHorizontal(lipgloss.Top,
			model.renderListPane(),
			model.renderDivider(),
			model.detail.View(model.focus == FocusDetail),
		),
		lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render(strings.Repeat("─", model.width)),
		model.renderStatusBar(),
	}
	output := strings.Join(sections, "\n")

	switch {
	case model.menu != nil:
		output = tui.SpliceOverlay(output, model.menu.Render(model.theme), model.menu.AnchorX, model.menu.AnchorY)
	case model.picker != nil:
		output = tui.SpliceOverlay(output, model.picker.render(model.theme), model.picker.dropdown.AnchorX, model.picker.dropdown.AnchorY)
	case model.incident != nil:
		lines := model.incident.Render(model.theme)
		anchorX, anchorY := tui.CenterAnchor(model.width, model.height, model.incident.Width(), len(lines))
		output = tui.SpliceOverlay(output, lines, anchorX, anchorY)
	case model.mode == modeConfirmDelete && model.pending != nil:
		lines := model.renderConfirm(model.pending.testCase)
		anchorX, anchorY := tui.CenterAnchor(model.width, model.height, lipgloss.Width(lines[0]), len(lines))
		output = tui.SpliceOverlay(output, lines, anchorX, anchorY)
	}
	return output
}

func (model Model) renderPlaceholder(text string) string {
	return lipgloss.Place(model.width, model.height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(text))
}

func (model Model) renderListPane() string {
	width := model.listWidth() - 1 // focus marker
	visible := model.visibleHeight()
	testCases := model.page.Results().TestCases

	marker := " "
	if model.focus == FocusList {
		marker = lipgloss.NewStyle().Foreground(model.theme.AccentColor).Render("▎")
	}

	rows := make([]string, visible)
	if len(testCases) == 0 && visible > 0 {
		text := "No test cases match these filters."
		if model.page.Loading() {
			text = "Loading test cases…"
		}
		rows[0] = " " + padLine(lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(text), width)
		for index := 1; index < visible; index++ {
			rows[index] = strings.Repeat(" ", width+1)
		}
		return strings.Join(rows, "\n")
	}

	now := model.clock.Now()
	renderer := NewListRenderer(model.theme, width, now)
	for index := range rows {
		position := model.scrollOffset + index
		if position >= len(testCases) {
			rows[index] = strings.Repeat(" ", width+1)
			continue
		}
		testCase := testCases[position]
		row := renderer.RenderRow(testCase, position == model.cursor)
		if kind, lit := model.glow.Lit(testCase.FullyQualifiedName, now); lit && position != model.cursor {
			row = lipgloss.NewStyle().Background(kind.Color(model.theme)).Render(ansi.Strip(row))
		}
		rowMarker := " "
		if position == model.cursor {
			rowMarker = marker
		}
		rows[index] = rowMarker + row
	}
	return strings.Join(rows, "\n")
}

func (model Model) renderDivider() string {
	lines := make([]string, model.visibleHeight())
	for index := range lines {
		lines[index] = "│"
	}
	return lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render(strings.Join(lines, "\n"))
}

// renderStatusBar shows the open prompt, else the latest notice, else
// key help.
func (model Model) renderStatusBar() string {
	switch model.mode {
	case modeSearch, modeLocation, modeJumpPage, modeIncidentNote:
		return padLine(" "+model.prompt.View(), model.width)
	}

	if model.notice != nil {
		color := model.theme.NoticeInfo
		switch {
		case model.notice.Level >= slog.LevelError:
			color = model.theme.NoticeError
		case model.notice.Level >= slog.LevelWarn:
			color = model.theme.NoticeWarn
		}
		return padLine(lipgloss.NewStyle().Foreground(color).Render(" "+model.notice.Summary), model.width)
	}

	help := " q quit  ↑↓ move  Tab pane  n/p/: page  / search  f filters  e edit  x clear  o open  BS back"
	if model.page.Can(catalog.OperationEditAll) {
		help += "  i incident"
	}
	if model.page.Can(catalog.OperationDelete) {
		help += "  D delete"
	}
	if results := model.page.Results(); len(results.TestCases) > 0 {
		help += fmt.Sprintf("  %d/%d", model.cursor+1, len(results.TestCases))
	}
	return padLine(lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(help), model.width)
}

func (model Model) renderConfirm(testCase catalog.TestCase) []string {
	body := []string{
		"Delete " + testCase.DisplayLabel() + "?",
		"This removes the test case and all of its results.",
		"",
		"y delete   any other key cancels",
	}
	width := 0
	for _, line := range body {
		width = max(width, lipgloss.Width(line))
	}
	style := lipgloss.NewStyle().
		Foreground(model.theme.OverlayForeground).
		Background(model.theme.OverlayBackground)
	lines := make([]string, 0, len(body)+2)
	blank := style.Render(strings.Repeat(" ", width+4))
	lines = append(lines, blank)
	for _, line := range body {
		lines = append(lines, tui.PadOverlayLine(style.Render(line), width, width+4, style))
	}
	return append(lines, blank)
}
