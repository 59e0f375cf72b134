package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/tango/internal/model"
)

// RenderSummary prints the headline numbers.
func RenderSummary(w io.Writer, s Summary) error {
	if s.TotalPractice == 0 {
		_, err := fmt.Fprintln(w, "No practice recorded yet.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Practiced: %d", s.TotalPractice),
		fmt.Sprintf("Correct: %d", s.Correct),
		fmt.Sprintf("Accuracy: %d%%", s.AccuracyRate),
		fmt.Sprintf("Words practiced: %d", s.LearnedWords),
		fmt.Sprintf("Time spent: %s", FormatDuration(s.TimeSpentMs)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTypeTable prints accuracy per quiz type.
func RenderTypeTable(w io.Writer, types []TypeStat) error {
	if _, err := fmt.Fprintln(w, "By Quiz Type"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		acc := "-"
		if t.Total > 0 {
			acc = fmt.Sprintf("%d%%", t.Accuracy)
		}
		rows = append(rows, []string{
			t.Type.String(),
			fmt.Sprintf("%d", t.Total),
			fmt.Sprintf("%d", t.Correct),
			acc,
		})
	}
	return WriteTable(w, []string{"Type", "Total", "Correct", "Accuracy"}, rows, map[int]bool{1: true, 2: true, 3: true})
}

// RenderHistory prints records as a table, newest first.
func RenderHistory(w io.Writer, records []model.AnswerRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No history found.")
		return err
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, HistoryRow(r))
	}
	return WriteTable(w, HistoryHeaders, rows, map[int]bool{4: true, 5: true})
}

// HistoryHeaders are the column titles of RenderHistory.
var HistoryHeaders = []string{"When", "Word", "Type", "Answer", "Score", "Time", "Result"}

// HistoryRow formats one record for a history table.
func HistoryRow(r model.AnswerRecord) []string {
	result := "✗"
	if r.IsCorrect {
		result = "✓"
	}
	answer := formatAnswer(r.UserAnswer)
	if answer == "" {
		answer = "(skipped)"
	}
	return []string{
		r.Timestamp.Local().Format("2006-01-02 15:04"),
		fmt.Sprintf("%s (%s)", r.Word.Native, r.Word.Reading),
		r.QuizType.String(),
		Truncate(answer, 30),
		fmt.Sprintf("%d/%d", r.Score, r.MaxScore),
		FormatDuration(r.TimeSpentMs),
		result,
	}
}

// RenderWeakWords prints the words missed most often.
func RenderWeakWords(w io.Writer, weak []WordStat) error {
	if _, err := fmt.Fprintln(w, "Weak Words"); err != nil {
		return err
	}
	if len(weak) == 0 {
		_, err := fmt.Fprintln(w, "No missed words.")
		return err
	}
	rows := make([][]string, 0, len(weak))
	for _, ws := range weak {
		rows = append(rows, []string{
			ws.Word.Native,
			ws.Word.Reading,
			Truncate(ws.Word.Translation, 24),
			fmt.Sprintf("%d", ws.Attempts),
			fmt.Sprintf("%d%%", Percent(ws.Correct, ws.Attempts)),
		})
	}
	return WriteTable(w, []string{"Word", "Reading", "Translation", "Attempts", "Accuracy"}, rows, map[int]bool{3: true, 4: true})
}

// RenderCurves prints the daily accuracy plot with its moving average.
func RenderCurves(w io.Writer, days []DayPoint, window, totalWidth, height int, color bool) error {
	if len(days) == 0 {
		return nil
	}
	values := AccuracyValues(days)
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	title := fmt.Sprintf("Daily Accuracy (%s to %s)", days[0].Day.Format("Jan 2"), days[len(days)-1].Day.Format("Jan 2"))
	return PlotAccuracy(w, title, []Series{
		{Name: "Accuracy", Values: values},
		{Name: fmt.Sprintf("%d-day average", window), Values: MovingAverage(values, window)},
	}, width, height, color)
}

// RenderReport prints every section of a report as plain text.
func RenderReport(w io.Writer, r Report, totalWidth int, color bool) error {
	if err := RenderSummary(w, r.Summary); err != nil {
		return err
	}
	if r.Summary.TotalPractice == 0 {
		return nil
	}
	if err := RenderTypeTable(w, r.Types); err != nil {
		return err
	}
	if err := RenderCurves(w, r.Days, 7, totalWidth, 0, color); err != nil {
		return err
	}
	if len(r.Days) > 0 {
		if _, err := fmt.Fprintf(w, "Trend: %s\n\n", Sparkline(AccuracyValues(r.Days))); err != nil {
			return err
		}
	}
	return RenderWeakWords(w, r.Weak)
}

// FormatDuration renders milliseconds compactly: 850ms, 4.2s, 3m05s.
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", ms)
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

func formatAnswer(a model.Answer) string {
	var parts []string
	for _, v := range []string{a.Native, a.Reading, a.Translation} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " / ")
}

// WriteTable prints an aligned table followed by a blank line.
func WriteTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
