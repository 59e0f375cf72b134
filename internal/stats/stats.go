// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/tango/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of answer records.
type Summary struct {
	TotalPractice int
	Correct       int
	AccuracyRate  int
	LearnedWords  int
	TimeSpentMs   int64
}

// TypeStat aggregates records of one quiz type.
type TypeStat struct {
	Type     model.QuizType
	Total    int
	Correct  int
	Accuracy int
}

// DayPoint aggregates the records of one local calendar day.
type DayPoint struct {
	Day      time.Time
	Total    int
	Correct  int
	Accuracy float64
}

// Percent returns correct/total as a whole percentage, rounded.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// Summarize counts attempts, correct answers, the rounded accuracy and the
// number of distinct words practised.
func Summarize(records []model.AnswerRecord) Summary {
	var s Summary
	seen := map[int64]struct{}{}
	for _, r := range records {
		s.TotalPractice++
		if r.IsCorrect {
			s.Correct++
		}
		s.TimeSpentMs += r.TimeSpentMs
		seen[r.WordID] = struct{}{}
	}
	s.AccuracyRate = Percent(s.Correct, s.TotalPractice)
	s.LearnedWords = len(seen)
	return s
}

// TypeBreakdown returns one entry per quiz type in canonical order.
func TypeBreakdown(records []model.AnswerRecord) []TypeStat {
	byType := make(map[model.QuizType]*TypeStat, len(model.AllQuizTypes))
	out := make([]TypeStat, len(model.AllQuizTypes))
	for i, qt := range model.AllQuizTypes {
		out[i].Type = qt
		byType[qt] = &out[i]
	}
	for _, r := range records {
		ts, ok := byType[r.QuizType]
		if !ok {
			continue
		}
		ts.Total++
		if r.IsCorrect {
			ts.Correct++
		}
	}
	for i := range out {
		out[i].Accuracy = Percent(out[i].Correct, out[i].Total)
	}
	return out
}

// DailyAccuracy groups records by local day, oldest first.
func DailyAccuracy(records []model.AnswerRecord) []DayPoint {
	byDay := map[time.Time]*DayPoint{}
	for _, r := range records {
		ts := r.Timestamp.Local()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.Local)
		p, ok := byDay[day]
		if !ok {
			p = &DayPoint{Day: day}
			byDay[day] = p
		}
		p.Total++
		if r.IsCorrect {
			p.Correct++
		}
	}
	out := make([]DayPoint, 0, len(byDay))
	for _, p := range byDay {
		p.Accuracy = float64(p.Correct) / float64(p.Total) * 100
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// AccuracyValues extracts the accuracy series from day points.
func AccuracyValues(days []DayPoint) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = d.Accuracy
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline on a fixed 0-100 scale.
func Sparkline(values []float64) string {
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round(v / 100 * float64(last)))
		if idx < 0 {
			idx = 0
		}
		if idx > last {
			idx = last
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
