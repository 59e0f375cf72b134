// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tango/internal/model"
	"github.com/verte-zerg/tango/internal/quiz"
	"github.com/verte-zerg/tango/internal/session"
)

const refreshInterval = 200 * time.Millisecond

// Config selects how the practice screen drives the engine.
type Config struct {
	Mode      model.Mode
	Auto      session.AutoSettings
	ShowHints bool
}

// Logs carries engine diagnostics into the UI, where stderr would corrupt
// the screen. Sends never block; overflow is dropped.
type Logs chan string

// NewLogs returns a buffered log channel.
func NewLogs() Logs {
	return make(Logs, 16)
}

// Logf matches the engine's log hook.
func (l Logs) Logf(format string, args ...any) {
	select {
	case l <- strings.TrimSpace(fmt.Sprintf(format, args...)):
	default:
	}
}

type logMsg string

type refreshMsg time.Time

func (l Logs) wait() tea.Cmd {
	if l == nil {
		return nil
	}
	return func() tea.Msg {
		return logMsg(<-l)
	}
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	engine *session.Engine
	sched  *Scheduler
	logs   Logs
	cfg    Config
	ctx    context.Context

	inputs [3]textinput.Model
	fields []model.Field
	focus  int

	card     *session.Card
	result   *model.EvaluationResult
	resultOf session.Card
	skipped  *session.Card
	revealed bool

	current  int
	total    int
	deadline time.Time
	now      func() time.Time

	answered int
	correct  int
	stopped  bool

	status    string
	statusErr bool

	width  int
	height int
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle      = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel wires a practice screen to engine. The engine must have been
// built with sched as its scheduler and logs.Logf as its log hook.
func NewModel(engine *session.Engine, sched *Scheduler, logs Logs, cfg Config) *Model {
	m := &Model{
		engine: engine,
		sched:  sched,
		logs:   logs,
		cfg:    cfg,
		ctx:    context.Background(),
		now:    time.Now,
	}
	for _, f := range model.AllFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = quiz.FieldLabel(f)
		in.Cursor.SetMode(cursor.CursorStatic)
		m.inputs[f] = in
	}
	engine.Subscribe(session.ListenerFunc(m.onEvent))
	engine.SetInputSource(m)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.start(), m.logs.wait())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.inputs {
			m.inputs[i].Width = maxInt(10, m.contentWidth()-16)
		}
		return m, nil
	case timerMsg:
		m.sched.Fire(msg.id)
		return m, m.sched.Drain()
	case refreshMsg:
		return m, m.refresh()
	case logMsg:
		m.setError(string(msg))
		return m, m.logs.wait()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.engine.Stop()
		return m, tea.Quit
	case "esc":
		if !m.engine.Active() {
			return m, tea.Quit
		}
		m.engine.Stop()
		return m, nil
	case "enter":
		return m, m.handleEnter()
	case "tab":
		m.moveFocus(1)
		return m, nil
	case "shift+tab":
		m.moveFocus(-1)
		return m, nil
	case "ctrl+s":
		if m.result != nil && m.engine.Mode() == model.ModeManual {
			m.setStatus("Already checked; press enter for the next card")
			return m, nil
		}
		if err := m.engine.SkipCard(m.ctx); err != nil {
			m.setError(err.Error())
		}
		return m, m.sched.Drain()
	case "ctrl+n":
		if m.engine.Mode() == model.ModeAuto {
			m.setStatus("Cards advance on their own in auto mode")
			return m, nil
		}
		m.draw()
		return m, nil
	case "ctrl+p":
		if err := m.engine.PlayAudio(); err != nil {
			m.setError(err.Error())
		}
		return m, nil
	case "ctrl+a":
		if m.card != nil {
			m.revealed = !m.revealed
		}
		return m, nil
	}
	if !m.answering() {
		return m, nil
	}
	f := m.fields[m.focus]
	var cmd tea.Cmd
	m.inputs[f], cmd = m.inputs[f].Update(msg)
	return m, cmd
}

func (m *Model) handleEnter() tea.Cmd {
	if !m.engine.Active() {
		return m.start()
	}
	if m.engine.Mode() == model.ModeAuto {
		if m.card == nil {
			return nil
		}
		if _, err := m.engine.SubmitAnswerInAutoMode(m.ctx, m.answer()); err != nil {
			m.setError(err.Error())
		}
		return m.sched.Drain()
	}
	if m.card == nil || m.result != nil {
		m.draw()
		return nil
	}
	if _, err := m.engine.SubmitAnswer(m.ctx, m.answer()); err != nil {
		m.setError(err.Error())
	}
	return nil
}

func (m *Model) start() tea.Cmd {
	m.stopped = false
	m.answered, m.correct = 0, 0
	if err := m.engine.Start(m.ctx, m.cfg.Mode, m.cfg.Auto); err != nil {
		m.stopped = true
		m.setError(describeError(err))
		return nil
	}
	if m.cfg.Mode == model.ModeAuto {
		return tea.Batch(m.sched.Drain(), m.tick())
	}
	m.draw()
	return nil
}

func (m *Model) draw() {
	if _, err := m.engine.DrawCard(m.ctx, nil); err != nil {
		m.setError(describeError(err))
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m *Model) refresh() tea.Cmd {
	if !m.engine.Active() || m.engine.Mode() != model.ModeAuto {
		return nil
	}
	return m.tick()
}

func (m *Model) onEvent(ev session.Event) {
	switch ev.Kind {
	case session.EventStarted:
		m.result = nil
		m.skipped = nil
		m.current, m.total = 0, 0
		m.status, m.statusErr = "", false
	case session.EventCardDrawn:
		card := ev.Card
		m.card = &card
		m.revealed = false
		if ev.Mode == model.ModeManual {
			m.result = nil
			m.skipped = nil
		}
		m.resetInputs(quiz.CheckedFields(card.QuizType))
		if ev.Mode == model.ModeAuto {
			m.deadline = m.now().Add(m.engine.State().Interval)
		}
	case session.EventAnswerChecked:
		res := ev.Result
		m.result = &res
		m.resultOf = ev.Card
		m.skipped = nil
		m.answered++
		if res.IsCorrect {
			m.correct++
		}
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
	case session.EventCardSkipped:
		card := ev.Card
		m.skipped = &card
		m.result = nil
		m.card = nil
		m.answered++
	case session.EventProgress:
		m.current, m.total = ev.Current, ev.Total
	case session.EventStopped:
		m.card = nil
		m.deadline = time.Time{}
		m.stopped = true
		m.setStatus(fmt.Sprintf("Session over: %d/%d correct. enter: new session  esc: quit", m.correct, m.answered))
	}
}

// PendingInput implements session.InputSource.
func (m *Model) PendingInput() (model.Answer, bool) {
	ans := m.answer()
	if ans.IsBlank() {
		return model.Answer{}, false
	}
	return ans, true
}

func (m *Model) answer() model.Answer {
	var ans model.Answer
	for _, f := range m.fields {
		ans.Set(f, m.inputs[f].Value())
	}
	return ans
}

func (m *Model) resetInputs(fields []model.Field) {
	m.fields = fields
	m.focus = 0
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	if len(fields) > 0 {
		m.inputs[fields[0]].Focus()
	}
}

func (m *Model) moveFocus(delta int) {
	if !m.answering() {
		return
	}
	m.inputs[m.fields[m.focus]].Blur()
	m.focus = (m.focus + delta + len(m.fields)) % len(m.fields)
	m.inputs[m.fields[m.focus]].Focus()
}

// answering reports whether the drawn card accepts input. A manual card
// is locked once checked; in auto mode the shown result belongs to the
// previous card.
func (m *Model) answering() bool {
	if m.card == nil || len(m.fields) == 0 {
		return false
	}
	return m.result == nil || m.engine.Mode() == model.ModeAuto
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
}

func describeError(err error) string {
	switch {
	case errors.Is(err, session.ErrNoWordsAvailable):
		return "No words yet. Add some with: tango words add"
	case errors.Is(err, session.ErrNoEnabledTypes):
		return "Every quiz type is disabled. Enable one with: tango settings enable_reading true"
	default:
		return err.Error()
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	body := m.renderBody()
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return body + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	bodyHeight := m.height - 1
	content := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return content + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) renderBody() string {
	var sections []string
	if m.result != nil && m.engine.Mode() == model.ModeAuto {
		sections = append(sections, m.renderResult(m.resultOf, *m.result))
	}
	if m.skipped != nil {
		sections = append(sections, pendingStyle.Render("Skipped: "+describeWord(m.skipped.Word)))
	}
	if m.card != nil {
		sections = append(sections, cardStyle.Render(m.renderCard()))
	}
	if m.result != nil && m.engine.Mode() == model.ModeManual {
		sections = append(sections, m.renderResult(m.resultOf, *m.result))
	}
	if m.status != "" {
		style := footerStyle
		if m.statusErr {
			style = incorrectStyle
		}
		sections = append(sections, style.Render(m.status))
	}
	return strings.Join(sections, "\n\n")
}

func (m *Model) renderCard() string {
	card := *m.card
	width := m.contentWidth()
	var lines []string
	if card.Prompt.Audio {
		lines = append(lines, promptStyle.Render("♪ listen"))
		if card.Word.AudioRef == "" {
			lines = append(lines, pendingStyle.Render("(no audio for this word)"))
		}
	} else {
		lines = append(lines, wrapStyledRunes(plainRunes(card.Prompt.Content, promptStyle), width))
	}
	if m.cfg.ShowHints {
		lines = append(lines, pendingStyle.Render(card.Prompt.Hint))
	}
	lines = append(lines, "")
	for i, f := range m.fields {
		label := fmt.Sprintf("%-12s", quiz.FieldLabel(f))
		if i == m.focus && m.answering() {
			label = labelStyle.Render(label)
		} else {
			label = pendingStyle.Render(label)
		}
		lines = append(lines, label+" "+m.inputs[f].View())
	}
	if m.revealed {
		lines = append(lines, "", pendingStyle.Render("Answer: "+describeWord(card.Word)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderResult(card session.Card, res model.EvaluationResult) string {
	head := incorrectStyle.Render(fmt.Sprintf("✗ %d/%d", res.Score, res.MaxScore))
	if res.IsCorrect {
		head = correctStyle.Render(fmt.Sprintf("✓ %d/%d", res.Score, res.MaxScore))
	}
	lines := []string{head + "  " + describeWord(card.Word)}
	for _, f := range model.AllFields {
		fr, ok := res.Fields[f]
		if !ok || !fr.Checked {
			continue
		}
		typed := buildAnswerRunes([]rune(fr.Expected), []rune(fr.Actual), correctStyle, incorrectStyle)
		line := fmt.Sprintf("%-12s ", quiz.FieldLabel(f)) + wrapStyledRunes(typed, m.contentWidth())
		if !fr.Correct {
			line += pendingStyle.Render("  → " + fr.Expected)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func describeWord(w model.Word) string {
	return fmt.Sprintf("%s (%s) %s", w.Native, w.Reading, w.Translation)
}

func (m *Model) renderFooter() string {
	segments := []string{m.engine.Mode().String()}
	if m.total > 0 && m.engine.Active() {
		segments = append(segments, fmt.Sprintf("Card %d/%d", m.current, m.total))
	}
	if !m.deadline.IsZero() && m.engine.Active() {
		left := m.deadline.Sub(m.now())
		if left < 0 {
			left = 0
		}
		segments = append(segments, fmt.Sprintf("Next in %.1fs", left.Seconds()))
	}
	if m.answered > 0 {
		segments = append(segments, fmt.Sprintf("Score %d/%d", m.correct, m.answered))
	}
	segments = append(segments, m.keyHelp())
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) keyHelp() string {
	switch {
	case m.stopped || !m.engine.Active():
		return "enter new session · esc quit"
	case m.engine.Mode() == model.ModeAuto:
		return "enter submit · tab field · ctrl+s skip · ctrl+p audio · ctrl+a answer · esc stop"
	case m.result != nil:
		return "enter next · ctrl+n new card · esc stop"
	default:
		return "enter check · tab field · ctrl+s skip · ctrl+n new card · ctrl+p audio · ctrl+a answer · esc stop"
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
