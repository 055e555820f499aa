// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/koch/internal/curriculum"
	"github.com/verte-zerg/koch/internal/model"
	"github.com/verte-zerg/koch/internal/stats"
	"github.com/verte-zerg/koch/internal/store"
)

const (
	tabOverview = iota
	tabLessonTable
	tabCurves
)

const (
	plotHeight  = 10
	trendLength = 10
	weakTop     = 5
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// ReportSource loads score reports.
type ReportSource interface {
	BuildReport(ctx context.Context, cfg model.StatsConfig) (stats.Report, error)
}

type storeSource struct {
	st *store.Store
}

func (s storeSource) BuildReport(ctx context.Context, cfg model.StatsConfig) (stats.Report, error) {
	return stats.BuildReport(ctx, s.st, cfg)
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	source ReportSource
	cfg    model.StatsConfig

	report stats.Report
	errMsg string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	lessonTable  table.Model
	lessonLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	curveLessons       []int
	curveLessonsCustom bool

	lessonInputMode  bool
	lessonInput      textinput.Model
	lessonInputError string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
	colCount int
}

// NewModel constructs a stats UI model backed by a score store.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	return NewModelWithSource(storeSource{st: st}, cfg)
}

// NewModelWithSource constructs a stats UI model over any report source.
func NewModelWithSource(source ReportSource, cfg model.StatsConfig) *Model {
	m := &Model{
		source: source,
		cfg:    cfg,
		tabs:   []string{"Overview", "Lessons", "Curves"},
	}
	m.initInputs()
	m.initLessonInput()
	m.lessonTable = buildLessonTable(nil, 0, 1)
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.lessonInputMode {
			return m.updateLessonInput(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabLessonTable {
			m.lessonTable.Focus()
		} else {
			m.lessonTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "enter":
			switch m.activeTab {
			case tabCurves:
				return m.startLessonInput()
			case tabLessonTable:
				m.showSelectedLesson()
				return m, tea.ClearScreen
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabLessonTable {
				m.lessonTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabLessonTable {
				m.lessonTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabLessonTable {
				var cmd tea.Cmd
				m.lessonTable, cmd = m.lessonTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.lessonInputMode {
		return fitLines(m.renderLessonModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// CurveLessons returns the lessons currently plotted on the curves tab.
func (m *Model) CurveLessons() []int {
	return append([]int(nil), m.curveLessons...)
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Lesson (0 = most practiced): "),
		newFilterInput("Last attempts: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) initLessonInput() {
	m.lessonInput = newFilterInput("Lessons: ")
	m.lessonInput.Placeholder = "1,2,5"
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[0].SetValue(strconv.Itoa(m.cfg.Lesson))
	if m.cfg.Last > 0 {
		m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[1].SetValue("")
	}
	m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setLessonTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
	promptWidth := lipgloss.Width(m.lessonInput.Prompt)
	m.lessonInput.Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabLessonTable {
		m.lessonTable.Focus()
	} else {
		m.lessonTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	lesson := "most practiced"
	if m.cfg.Lesson > 0 {
		lesson = strconv.Itoa(m.cfg.Lesson)
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: lesson=%s  last=%s  window=%d", lesson, last, m.cfg.CurveWindow)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	switch m.activeTab {
	case tabCurves:
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Edit lessons: enter  Window: -/=  Settings: /  Quit: q"
	case tabLessonTable:
		help = "Nav: left/right  Select: up/down  Plot lesson: enter  Settings: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabLessonTable {
		if len(m.report.Summaries) == 0 {
			return fitLines("No scores found.", m.width, height)
		}
		view := tableMutedStyle.Render(m.lessonTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := m.source.BuildReport(context.Background(), m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	if !m.curveLessonsCustom {
		m.curveLessons = append([]int(nil), report.CurveLessons...)
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	applyLessonTable(m, m.report, width, bodyHeight, true)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabCurves].SetContent(renderCurves(m.report, m.curveLessons, m.cfg, width))
}

func (m *Model) showSelectedLesson() {
	row := m.lessonTable.SelectedRow()
	if len(row) == 0 {
		return
	}
	lesson, err := strconv.Atoi(row[0])
	if err != nil {
		return
	}
	m.curveLessons = []int{lesson}
	m.curveLessonsCustom = true
	m.activeTab = tabCurves
	m.lessonTable.Blur()
	m.renderTabContents()
}

func renderOverview(report stats.Report, width int) string {
	if len(report.Summaries) == 0 {
		return "No scores found. Finish a lesson to record one."
	}
	attempts := 0
	mastered := 0
	for _, s := range report.Summaries {
		attempts += s.Attempts
		if s.Mastered {
			mastered++
		}
	}
	highest := "none"
	if h := stats.HighestMastered(report.Summaries); h > 0 {
		highest = strconv.Itoa(h)
	}
	cards := []string{
		metricCard("Lessons", fmt.Sprintf("%d/%d", len(report.Summaries), curriculum.LessonCount())),
		metricCard("Attempts", strconv.Itoa(attempts)),
		metricCard("Mastered", strconv.Itoa(mastered)),
		metricCard("Highest", highest),
	}
	var out string
	if width < 80 {
		out = strings.Join(cards, "\n")
	} else {
		out = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	weak := stats.SelectWeakLessons(report.Summaries, weakTop)
	if len(weak) > 0 {
		labels := make([]string, len(weak))
		for i, l := range weak {
			labels[i] = strconv.Itoa(l)
		}
		out += "\n\n" + headerStyle.Render("Needs work: lessons "+strings.Join(labels, ", "))
	}
	return out
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(report stats.Report, lessons []int, cfg model.StatsConfig, width int) string {
	if len(report.Summaries) == 0 {
		return "No scores found."
	}
	if len(lessons) == 0 {
		return "No lessons selected. Press Enter to choose lessons."
	}
	var buf bytes.Buffer
	for _, lesson := range lessons {
		history := stats.LastN(report.Data.History(lesson), cfg.Last)
		if err := stats.RenderHistoryWithSize(&buf, lesson, history, cfg.CurveWindow, width, plotHeight, true); err != nil {
			return fmt.Sprintf("Failed to render curves: %v", err)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func lessonTableColumns() []table.Column {
	return []table.Column{
		{Title: "Lesson", Width: 6},
		{Title: "New", Width: 4},
		{Title: "Attempts", Width: 8},
		{Title: "Last", Width: 5},
		{Title: "Best", Width: 5},
		{Title: "Avg", Width: 6},
		{Title: "Mastered", Width: 8},
		{Title: "Trend", Width: trendLength},
	}
}

func buildLessonTable(summaries []model.LessonSummary, width, height int) table.Model {
	t := table.New(
		table.WithColumns(lessonTableColumns()),
		table.WithRows(lessonRows(stats.Report{Summaries: summaries})),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(lessonTableStyles())
	return t
}

func lessonRows(report stats.Report) []table.Row {
	rows := make([]table.Row, 0, len(report.Summaries))
	for _, s := range report.Summaries {
		mastered := "no"
		if s.Mastered {
			mastered = "yes"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(s.Lesson),
			newCharsLabel(s.Lesson),
			strconv.Itoa(s.Attempts),
			fmt.Sprintf("%d%%", s.Last),
			fmt.Sprintf("%d%%", s.Best),
			fmt.Sprintf("%.1f%%", s.Average),
			mastered,
			stats.PercentSparkline(stats.LastN(report.Data.History(s.Lesson), trendLength)),
		})
	}
	return rows
}

func newCharsLabel(lesson int) string {
	chars, err := curriculum.NewCharacters(lesson)
	if err != nil {
		return "?"
	}
	return string(chars)
}

func applyLessonTable(m *Model, report stats.Report, width, height int, force bool) {
	cols := lessonTableColumns()
	rows := lessonRows(report)
	viewportHeight := maxInt(1, height-1)
	if !force &&
		m.lessonLayout.width == width &&
		m.lessonLayout.height == viewportHeight &&
		m.lessonLayout.rowCount == len(rows) &&
		m.lessonLayout.colCount == len(cols) {
		return
	}
	m.lessonTable.SetColumns(cols)
	m.lessonTable.SetRows(rows)
	m.lessonLayout.rowCount = len(rows)
	m.lessonLayout.colCount = len(cols)
	m.setLessonTableSize(width, height)
}

func (m *Model) setLessonTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.lessonLayout.width == width && m.lessonLayout.height == viewportHeight {
		return
	}
	m.lessonLayout.width = width
	m.lessonLayout.height = viewportHeight
	m.lessonTable.SetWidth(width)
	m.lessonTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustLessonTableHeight(height)
	if m.lessonLayout.height != viewportHeight {
		m.lessonLayout.height = viewportHeight
		m.lessonTable.SetHeight(viewportHeight)
	}
}

func lessonTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) adjustLessonTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.lessonTable.Height()
	viewHeight := lipgloss.Height(m.lessonTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.lessonTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.lessonTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) startLessonInput() (tea.Model, tea.Cmd) {
	m.lessonInputMode = true
	m.lessonInputError = ""
	labels := make([]string, len(m.curveLessons))
	for i, l := range m.curveLessons {
		labels[i] = strconv.Itoa(l)
	}
	m.lessonInput.SetValue(strings.Join(labels, ","))
	return m, m.lessonInput.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.curveLessonsCustom = false
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) updateLessonInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.lessonInputMode = false
		m.lessonInputError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyLessonInput(); err != nil {
			m.lessonInputError = err.Error()
			return m, nil
		}
		m.lessonInputMode = false
		m.lessonInputError = ""
		m.renderTabContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.lessonInput, cmd = m.lessonInput.Update(msg)
	normalized := normalizeLessonInput(m.lessonInput.Value())
	if normalized != m.lessonInput.Value() {
		m.lessonInput.SetValue(normalized)
	}
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	lesson := 0
	if raw := strings.TrimSpace(m.filterInputs[0].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > curriculum.LessonCount() {
			return fmt.Errorf("invalid lesson (use 0-%d)", curriculum.LessonCount())
		}
		lesson = parsed
	}

	last := 0
	if raw := strings.TrimSpace(m.filterInputs[1].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	window := 1
	if raw := strings.TrimSpace(m.filterInputs[2].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid curve window (use integer)")
		}
		if parsed < 1 {
			return fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg = model.StatsConfig{
		Lesson:      lesson,
		Last:        last,
		CurveWindow: window,
	}
	return nil
}

func (m *Model) applyLessonInput() error {
	raw := normalizeLessonInput(m.lessonInput.Value())
	if raw == "" {
		m.curveLessonsCustom = false
		m.curveLessons = append([]int(nil), m.report.CurveLessons...)
		return nil
	}
	lessons, err := parseLessons(raw)
	if err != nil {
		return err
	}
	m.curveLessonsCustom = true
	m.curveLessons = lessons
	return nil
}

func (m *Model) renderLessonModal() string {
	title := cardValueStyle.Render("Select Lessons")
	body := []string{
		title,
		m.lessonInput.View(),
		headerStyle.Render("Comma-separated lesson numbers. Empty resets to most practiced."),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	}
	if m.lessonInputError != "" {
		body = append(body, errorStyle.Render(m.lessonInputError))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func parseLessons(input string) ([]int, error) {
	parts := strings.Split(input, ",")
	out := make([]int, 0, len(parts))
	seen := map[int]struct{}{}
	for _, part := range parts {
		if part == "" {
			continue
		}
		lesson, err := strconv.Atoi(part)
		if err != nil || lesson < 1 || lesson > curriculum.LessonCount() {
			return nil, fmt.Errorf("invalid lesson %q (use 1-%d)", part, curriculum.LessonCount())
		}
		if _, ok := seen[lesson]; ok {
			continue
		}
		seen[lesson] = struct{}{}
		out = append(out, lesson)
	}
	return out, nil
}

func normalizeLessonInput(input string) string {
	if input == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r == ',' || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
