package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tango/internal/generator"
	"github.com/verte-zerg/tango/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "tango.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if cerr := st.Close(); cerr != nil {
			t.Fatalf("close store: %v", cerr)
		}
	})
	st.SetGenerator(generator.NewSeeded(3))
	return st
}

func record(word model.Word, correct bool, ts time.Time) *model.AnswerRecord {
	score := 0
	if correct {
		score = 2
	}
	return &model.AnswerRecord{
		SessionID:     "s1",
		WordID:        word.ID,
		Word:          word,
		QuizType:      model.QuizReading,
		UserAnswer:    model.Answer{Native: word.Native},
		CorrectAnswer: word.Answer(),
		IsCorrect:     correct,
		Score:         score,
		MaxScore:      2,
		TimeSpentMs:   1200,
		Timestamp:     ts,
	}
}

func TestWordCRUD(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.AddWord(ctx, model.Word{Native: "本", Reading: " "}); err == nil {
		t.Fatalf("expected validation error for incomplete word")
	}
	w, err := st.AddWord(ctx, model.Word{Native: " 本 ", Reading: "ほん", Translation: "书"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if w.ID == 0 || w.Native != "本" {
		t.Fatalf("unexpected word: %+v", w)
	}

	w.Translation = "book"
	w.AudioRef = "hon.mp3"
	if err := st.UpdateWord(ctx, w); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := st.GetWord(ctx, w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != w {
		t.Fatalf("expected %+v, got %+v", w, got)
	}

	if err := st.DeleteWord(ctx, w.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.DeleteWord(ctx, w.ID); !errors.Is(err, ErrWordNotFound) {
		t.Fatalf("expected ErrWordNotFound, got %v", err)
	}
	if _, err := st.GetWord(ctx, w.ID); !errors.Is(err, ErrWordNotFound) {
		t.Fatalf("expected ErrWordNotFound, got %v", err)
	}
	if err := st.UpdateWord(ctx, w); !errors.Is(err, ErrWordNotFound) {
		t.Fatalf("expected ErrWordNotFound, got %v", err)
	}
}

func TestSeedAndSearch(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	seeded, err := st.SeedSampleWords(ctx)
	if err != nil || !seeded {
		t.Fatalf("seed: %v %v", seeded, err)
	}
	seeded, err = st.SeedSampleWords(ctx)
	if err != nil || seeded {
		t.Fatalf("second seed must be a no-op: %v %v", seeded, err)
	}
	n, err := st.CountWords(ctx)
	if err != nil || n != len(SampleWords) {
		t.Fatalf("expected %d words, got %d (%v)", len(SampleWords), n, err)
	}

	found, err := st.SearchWords(ctx, "学")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 3 {
		t.Fatalf("expected 3 matches for 学, got %d", len(found))
	}
	if _, err := st.AddWord(ctx, model.Word{Native: "Haus", Reading: "haus", Translation: "House"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	found, err = st.SearchWords(ctx, "HOUSE")
	if err != nil || len(found) != 1 {
		t.Fatalf("expected case-insensitive match, got %d (%v)", len(found), err)
	}
}

func TestRandomWords(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.RandomWord(ctx); ok || err != nil {
		t.Fatalf("empty store must report no word: %v %v", ok, err)
	}
	if _, err := st.SeedSampleWords(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	w, ok, err := st.RandomWord(ctx)
	if err != nil || !ok || w.ID == 0 {
		t.Fatalf("random word: %+v %v %v", w, ok, err)
	}

	two, err := st.RandomWords(ctx, 2)
	if err != nil {
		t.Fatalf("random words: %v", err)
	}
	if len(two) != 2 || two[0].ID == two[1].ID {
		t.Fatalf("expected 2 distinct words, got %+v", two)
	}
	all, err := st.RandomWords(ctx, 50)
	if err != nil || len(all) != len(SampleWords) {
		t.Fatalf("expected all words, got %d (%v)", len(all), err)
	}
}

func TestHistoryAppendAndFilter(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	w, err := st.AddWord(ctx, model.Word{Native: "本", Reading: "ほん", Translation: "书"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	now := time.Date(2024, 5, 20, 15, 0, 0, 0, time.Local)
	times := []time.Time{
		now.Add(-time.Hour),
		now.AddDate(0, 0, -3),
		now.AddDate(0, 0, -20),
		now.AddDate(0, 0, -60),
	}
	for i, ts := range times {
		rec := record(w, i%2 == 0, ts)
		if err := st.AppendHistory(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
		if rec.ID == 0 {
			t.Fatalf("append must assign an ID")
		}
	}

	tests := []struct {
		r    model.DateRange
		want int
	}{
		{model.RangeAll, 4},
		{model.RangeToday, 1},
		{model.RangeWeek, 2},
		{model.RangeMonth, 3},
	}
	for _, tt := range tests {
		got, err := st.ListHistory(ctx, model.HistoryFilter{Range: tt.r, Now: now})
		if err != nil {
			t.Fatalf("list %s: %v", tt.r, err)
		}
		if len(got) != tt.want {
			t.Fatalf("%s: expected %d records, got %d", tt.r, tt.want, len(got))
		}
	}

	got, err := st.ListHistory(ctx, model.HistoryFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || !got[0].Timestamp.After(got[1].Timestamp) {
		t.Fatalf("expected newest first with limit, got %+v", got)
	}
	first := got[0]
	if first.Word.Native != "本" || first.QuizType != model.QuizReading || !first.IsCorrect || first.TimeSpentMs != 1200 {
		t.Fatalf("record not round-tripped: %+v", first)
	}
	if first.CorrectAnswer != w.Answer() {
		t.Fatalf("correct answer not restored: %+v", first.CorrectAnswer)
	}

	if err := st.ClearHistory(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = st.ListHistory(ctx, model.HistoryFilter{})
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %d", len(got))
	}
}

func TestHistoryPrunes(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	w := model.Word{ID: 1, Native: "本", Reading: "ほん", Translation: "书"}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxHistory+5; i++ {
		if err := st.AppendHistory(ctx, record(w, true, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	got, err := st.ListHistory(ctx, model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != MaxHistory {
		t.Fatalf("expected %d rows, got %d", MaxHistory, len(got))
	}
	oldest := got[len(got)-1].Timestamp
	if !oldest.Equal(base.Add(5 * time.Second)) {
		t.Fatalf("expected oldest rows pruned, oldest is %v", oldest)
	}
}

func TestSettings(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	got, err := st.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if !got.AutoPlayAudio || !got.ShowHints || got.DefaultQuizType != nil || len(got.EnabledTypes()) != 4 {
		t.Fatalf("unexpected defaults: %+v", got)
	}

	if err := st.SetSetting(ctx, EnableKey(model.QuizAudio), "off"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.SetSetting(ctx, KeyDefaultQuizType, "kana"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.SetSetting(ctx, "theme", "dark"); err == nil {
		t.Fatalf("expected unknown key error")
	}
	if err := st.SetSetting(ctx, KeyShowHints, "maybe"); err == nil {
		t.Fatalf("expected invalid boolean error")
	}

	got, err = st.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if got.IsEnabled(model.QuizAudio) || got.DefaultQuizType == nil || *got.DefaultQuizType != model.QuizReading {
		t.Fatalf("settings not applied: %+v", got)
	}

	got.AutoPlayAudio = false
	got.DefaultQuizType = nil
	if err := st.UpdateSettings(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, err := st.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if again.AutoPlayAudio || again.DefaultQuizType != nil || again.IsEnabled(model.QuizAudio) {
		t.Fatalf("update not persisted: %+v", again)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := openTestStore(t)
	ctx := context.Background()
	if _, err := src.SeedSampleWords(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	words, _ := src.AllWords(ctx)
	if err := src.AppendHistory(ctx, record(words[0], true, time.Now())); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := src.SetSetting(ctx, KeyShowHints, "false"); err != nil {
		t.Fatalf("set: %v", err)
	}

	var buf bytes.Buffer
	if err := src.Export(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if doc["version"] != BackupVersion || doc["exportDate"] == nil {
		t.Fatalf("missing metadata: %v", doc)
	}

	dst := openTestStore(t)
	if _, err := dst.AddWord(ctx, model.Word{Native: "x", Reading: "x", Translation: "x"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	res, err := dst.Import(ctx, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Words != len(SampleWords) || res.History != 1 || !res.Settings {
		t.Fatalf("unexpected import result: %+v", res)
	}
	got, _ := dst.AllWords(ctx)
	if len(got) != len(words) || got[0] != words[0] {
		t.Fatalf("words not restored: %+v", got)
	}
	hist, _ := dst.ListHistory(ctx, model.HistoryFilter{})
	if len(hist) != 1 || hist[0].WordID != words[0].ID {
		t.Fatalf("history not restored: %+v", hist)
	}
	settings, _ := dst.Settings(ctx)
	if settings.ShowHints {
		t.Fatalf("settings not restored")
	}
}

func TestImportFailureKeepsData(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.SeedSampleWords(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	bad := []string{
		`not json`,
		`{"history": []}`,
		`{"words": [{"native": "a", "reading": "", "translation": "c"}]}`,
		`{"words": [{"id": 1, "native": "a", "reading": "b", "translation": "c"}], "history": [{"id": 1, "quizType": "bogus"}]}`,
		`{"words": [{"id": 1, "native": "a", "reading": "b", "translation": "c"}], "settings": {"enable_audio": "nope"}}`,
		`{"words": [], "version": "9.9"}`,
	}
	for _, doc := range bad {
		if _, err := st.Import(ctx, strings.NewReader(doc)); err == nil {
			t.Fatalf("expected import error for %s", doc)
		}
		n, _ := st.CountWords(ctx)
		if n != len(SampleWords) {
			t.Fatalf("failed import changed words: %d", n)
		}
	}
}

func TestResetAll(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	w, err := st.AddWord(ctx, model.Word{Native: "猫", Reading: "ねこ", Translation: "猫"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := st.AppendHistory(ctx, record(w, false, time.Now())); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := st.SetSetting(ctx, KeyAutoPlayAudio, "false"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.ResetAll(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	words, _ := st.AllWords(ctx)
	if len(words) != len(SampleWords) || words[0].Native != SampleWords[0].Native {
		t.Fatalf("expected sample words after reset, got %+v", words)
	}
	hist, _ := st.ListHistory(ctx, model.HistoryFilter{})
	settings, _ := st.Settings(ctx)
	if len(hist) != 0 || !settings.AutoPlayAudio {
		t.Fatalf("reset did not clear history and settings")
	}
}
