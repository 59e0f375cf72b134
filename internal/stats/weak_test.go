package stats

import (
	"testing"

	"github.com/verte-zerg/tango/internal/model"
)

func TestSelectWeakWords(t *testing.T) {
	a := model.Word{ID: 1, Native: "a"}
	b := model.Word{ID: 2, Native: "b"}
	c := model.Word{ID: 3, Native: "c"}
	d := model.Word{ID: 4, Native: "d"}
	records := []model.AnswerRecord{
		rec(a, false, day(1)), rec(a, true, day(2)),
		rec(b, false, day(1)), rec(b, false, day(2)),
		rec(c, true, day(1)),
		rec(d, false, day(1)), rec(d, true, day(2)), rec(d, true, day(3)), rec(d, false, day(4)),
	}
	weak := SelectWeakWords(records, 0)
	if len(weak) != 3 {
		t.Fatalf("expected 3 weak words, got %d", len(weak))
	}
	if weak[0].Word.Native != "b" || weak[1].Word.Native != "d" || weak[2].Word.Native != "a" {
		t.Fatalf("unexpected order: %+v", weak)
	}
	if top := SelectWeakWords(records, 1); len(top) != 1 || top[0].Word.Native != "b" {
		t.Fatalf("unexpected top-1: %+v", top)
	}
}

func TestWordStatsKeepsNewestSnapshot(t *testing.T) {
	old := model.Word{ID: 1, Native: "本", Translation: "book"}
	renamed := model.Word{ID: 1, Native: "本", Translation: "书"}
	stats := WordStats([]model.AnswerRecord{rec(renamed, true, day(5)), rec(old, false, day(1))})
	if len(stats) != 1 || stats[0].Word.Translation != "书" || stats[0].Attempts != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
