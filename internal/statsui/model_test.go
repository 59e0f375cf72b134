package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tango/internal/model"
)

type fakeSource struct {
	records []model.AnswerRecord
	err     error
	filters []model.HistoryFilter
}

func (f *fakeSource) ListHistory(_ context.Context, filter model.HistoryFilter) ([]model.AnswerRecord, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func sampleRecords() []model.AnswerRecord {
	book := model.Word{ID: 1, Native: "本", Reading: "ほん", Translation: "book"}
	cat := model.Word{ID: 2, Native: "猫", Reading: "ねこ", Translation: "cat"}
	ts := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	return []model.AnswerRecord{
		{WordID: 1, Word: book, QuizType: model.QuizReading, IsCorrect: true, Score: 2, MaxScore: 2, Timestamp: ts},
		{WordID: 2, Word: cat, QuizType: model.QuizNative, IsCorrect: false, Score: 1, MaxScore: 2, Timestamp: ts.Add(time.Hour)},
	}
}

func TestRangeKeyCyclesFilter(t *testing.T) {
	src := &fakeSource{records: sampleRecords()}
	m := NewModel(src, model.HistoryFilter{})
	for _, want := range []model.DateRange{model.RangeToday, model.RangeWeek, model.RangeMonth, model.RangeAll} {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
		if m.filter.Range != want {
			t.Fatalf("expected range %s, got %s", want, m.filter.Range)
		}
	}
	if len(src.filters) != 5 {
		t.Fatalf("expected a reload per range change, got %d loads", len(src.filters))
	}
}

func TestTabsWrapAround(t *testing.T) {
	m := NewModel(&fakeSource{}, model.HistoryFilter{})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabWeakWords {
		t.Fatalf("expected wrap to last tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected wrap to first tab, got %d", m.activeTab)
	}
}

func TestViewShowsReport(t *testing.T) {
	m := NewModel(&fakeSource{records: sampleRecords()}, model.HistoryFilter{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()
	for _, want := range []string{"Overview", "Range: all", "records=2", "Accuracy", "50%"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if view := m.View(); !strings.Contains(view, "本 (ほん)") {
		t.Fatalf("expected history row in view:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if rows := m.tables[tabWeakWords].Rows(); len(rows) != 1 || rows[0][0] != "猫" {
		t.Fatalf("unexpected weak rows: %v", rows)
	}
}

func TestLoadErrorIsShown(t *testing.T) {
	m := NewModel(&fakeSource{err: errors.New("disk gone")}, model.HistoryFilter{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(m.View(), "disk gone") {
		t.Fatalf("expected error in footer")
	}
}

func TestWindowKeysClamp(t *testing.T) {
	m := NewModel(&fakeSource{}, model.HistoryFilter{})
	for i := 0; i < 20; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	}
	if m.window != 1 {
		t.Fatalf("expected window clamped to 1, got %d", m.window)
	}
}
