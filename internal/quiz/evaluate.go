// Package quiz scores answers and chooses which representation to hide.
package quiz

import (
	"strings"
	"unicode"

	"github.com/verte-zerg/tango/internal/model"
)

// CheckedFields returns the fields the learner must supply for a quiz type:
// every field except the revealed one.
func CheckedFields(qt model.QuizType) []model.Field {
	revealed, ok := qt.Revealed()
	out := make([]model.Field, 0, len(model.AllFields))
	for _, f := range model.AllFields {
		if ok && f == revealed {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Evaluate scores ans against word for the given quiz type.
//
// Unchecked fields are reported with Checked=false and Correct=true and do not
// count toward MaxScore.
func Evaluate(word model.Word, qt model.QuizType, ans model.Answer) model.EvaluationResult {
	checked := CheckedFields(qt)
	isChecked := make(map[model.Field]bool, len(checked))
	for _, f := range checked {
		isChecked[f] = true
	}

	res := model.EvaluationResult{
		Fields:   make(map[model.Field]model.FieldResult, len(model.AllFields)),
		MaxScore: len(checked),
	}
	for _, f := range model.AllFields {
		fr := model.FieldResult{
			Expected: word.Get(f),
			Actual:   ans.Get(f),
			Checked:  isChecked[f],
			Correct:  true,
		}
		if fr.Checked {
			fr.Correct = Match(fr.Actual, fr.Expected)
			if fr.Correct {
				res.Score++
			}
		}
		res.Fields[f] = fr
	}
	res.IsCorrect = res.Score == res.MaxScore
	return res
}

// Match compares two answers ignoring case and all whitespace.
// Empty values never match.
func Match(actual, expected string) bool {
	a := normalize(actual)
	e := normalize(expected)
	if a == "" || e == "" {
		return false
	}
	return a == e
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
