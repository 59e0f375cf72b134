// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tango/internal/model"
	"github.com/verte-zerg/tango/internal/stats"
)

const (
	tabOverview = iota
	tabQuizTypes
	tabHistory
	tabWeakWords
)

const (
	plotHeight    = 10
	defaultWindow = 7
	maxWindow     = 30
)

var rangeCycle = []model.DateRange{model.RangeAll, model.RangeToday, model.RangeWeek, model.RangeMonth}

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
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	source stats.HistorySource
	filter model.HistoryFilter
	window int

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	tables    map[int]*table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model over src, starting with filter.
func NewModel(src stats.HistorySource, filter model.HistoryFilter) *Model {
	m := &Model{
		source: src,
		filter: filter,
		window: defaultWindow,
		tabs:   []string{"Overview", "Quiz Types", "History", "Weak Words"},
	}
	m.initViewports()
	m.initTables()
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
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		m.syncTableFocus()
		switch msg.String() {
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.filter.Range = nextRange(m.filter.Range)
			m.refreshReport()
			return m, nil
		case "=":
			m.window = minInt(maxWindow, m.window+1)
			m.renderTabContents()
			return m, nil
		case "-":
			m.window = maxInt(1, m.window-1)
			m.renderTabContents()
			return m, nil
		case "g", "home":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if t, ok := m.tables[m.activeTab]; ok {
				var cmd tea.Cmd
				*t, cmd = t.Update(msg)
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
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initTables() {
	history := newTable(historyColumns(), nil, 0, 1)
	weak := newTable(weakColumns(), nil, 0, 1)
	m.tables = map[int]*table.Model{
		tabHistory:   &history,
		tabWeakWords: &weak,
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(maxInt(1, bodyHeight-1))
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	m.syncTableFocus()
}

func (m *Model) syncTableFocus() {
	for tab, t := range m.tables {
		if tab == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
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
	summary := fmt.Sprintf("Range: %s  records=%d  window=%d", m.filter.Range, len(m.report.Records), m.window)
	filters := padLines(headerStyle.Render(truncateLine(summary, m.width)), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Range: r  Window: -/=  Quit: q")
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if t, ok := m.tables[m.activeTab]; ok {
		if len(t.Rows()) == 0 {
			return fitLines(m.emptyMessage(), m.width, height)
		}
		return fitLines(tableMutedStyle.Render(t.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) emptyMessage() string {
	if len(m.report.Records) == 0 {
		return "No practice recorded in this range."
	}
	return "No missed words."
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.source, m.filter)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{Filter: m.filter}
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		m.tables[tabHistory].SetRows(nil)
		m.tables[tabWeakWords].SetRows(nil)
		return
	}
	m.errMsg = ""
	m.report = report
	m.tables[tabHistory].SetRows(historyRows(report.Records))
	m.tables[tabWeakWords].SetRows(weakRows(report.Weak))
	m.tables[tabHistory].GotoTop()
	m.tables[tabWeakWords].GotoTop()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 || m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.window, width))
	m.viewports[tabQuizTypes].SetContent(renderQuizTypes(m.report.Types))
}

func renderOverview(r stats.Report, window, width int) string {
	if r.Summary.TotalPractice == 0 {
		return "No practice recorded in this range."
	}
	cards := renderSummaryCards(r.Summary, width)
	var buf bytes.Buffer
	if err := stats.RenderCurves(&buf, r.Days, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	var top []string
	for _, ws := range r.Top {
		top = append(top, fmt.Sprintf("%s (%d)", ws.Word.Native, ws.Attempts))
	}
	out := cards + "\n\n" + strings.TrimRight(buf.String(), "\n")
	if len(top) > 0 {
		out += "\n\n" + headerStyle.Render("Most practised: ") + strings.Join(top, "  ")
	}
	return out
}

func renderSummaryCards(s stats.Summary, width int) string {
	cards := []string{
		metricCard("Practiced", fmt.Sprintf("%d", s.TotalPractice)),
		metricCard("Correct", fmt.Sprintf("%d", s.Correct)),
		metricCard("Accuracy", fmt.Sprintf("%d%%", s.AccuracyRate)),
		metricCard("Words", fmt.Sprintf("%d", s.LearnedWords)),
		metricCard("Time", stats.FormatDuration(s.TimeSpentMs)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderQuizTypes(types []stats.TypeStat) string {
	var buf bytes.Buffer
	if err := stats.RenderTypeTable(&buf, types); err != nil {
		return fmt.Sprintf("Failed to render quiz types: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	lines[0] = cardValueStyle.Render(lines[0])
	for _, t := range types {
		if t.Total == 0 {
			continue
		}
		bar := strings.Repeat("█", t.Accuracy/5) + strings.Repeat("░", 20-t.Accuracy/5)
		lines = append(lines, fmt.Sprintf("%-12s %s %3d%%", t.Type, bar, t.Accuracy))
	}
	return strings.Join(lines, "\n")
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "When", Width: 16},
		{Title: "Word", Width: 18},
		{Title: "Type", Width: 11},
		{Title: "Answer", Width: 30},
		{Title: "Score", Width: 5},
		{Title: "Time", Width: 7},
		{Title: "", Width: 1},
	}
}

func weakColumns() []table.Column {
	return []table.Column{
		{Title: "Word", Width: 10},
		{Title: "Reading", Width: 12},
		{Title: "Translation", Width: 24},
		{Title: "Attempts", Width: 8},
		{Title: "Accuracy", Width: 8},
		{Title: "Last seen", Width: 16},
	}
}

func historyRows(records []model.AnswerRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row(stats.HistoryRow(r)))
	}
	return rows
}

func weakRows(weak []stats.WordStat) []table.Row {
	rows := make([]table.Row, 0, len(weak))
	for _, ws := range weak {
		rows = append(rows, table.Row{
			ws.Word.Native,
			ws.Word.Reading,
			ws.Word.Translation,
			fmt.Sprintf("%d", ws.Attempts),
			fmt.Sprintf("%d%%", stats.Percent(ws.Correct, ws.Attempts)),
			ws.LastSeen.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func newTable(columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
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

func nextRange(r model.DateRange) model.DateRange {
	for i, v := range rangeCycle {
		if v == r {
			return rangeCycle[(i+1)%len(rangeCycle)]
		}
	}
	return model.RangeAll
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
	return runewidth.Truncate(s, width, "...")
}
