package stats

import (
	"testing"

	"github.com/verte-zerg/tango/internal/model"
)

func TestMostPracticed(t *testing.T) {
	a := model.Word{ID: 1, Native: "a"}
	b := model.Word{ID: 2, Native: "b"}
	c := model.Word{ID: 3, Native: "c"}
	records := []model.AnswerRecord{
		rec(b, true, day(1)), rec(a, true, day(1)), rec(b, false, day(2)),
		rec(a, false, day(2)), rec(c, true, day(3)), rec(b, true, day(3)),
	}
	top := MostPracticed(records, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 words, got %d", len(top))
	}
	if top[0].Word.Native != "b" || top[1].Word.Native != "a" {
		t.Fatalf("unexpected order: %+v", top)
	}
	if MostPracticed(records, 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
}
