package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/tango/internal/model"
)

// WordStat aggregates the attempts on one word.
type WordStat struct {
	Word     model.Word
	Attempts int
	Correct  int
	LastSeen time.Time
}

// Accuracy returns the share of correct attempts in [0, 1].
func (w WordStat) Accuracy() float64 {
	if w.Attempts == 0 {
		return 1
	}
	return float64(w.Correct) / float64(w.Attempts)
}

// WordStats groups records by word ID. The newest snapshot of each word wins.
func WordStats(records []model.AnswerRecord) []WordStat {
	byID := map[int64]*WordStat{}
	var order []int64
	for _, r := range records {
		ws, ok := byID[r.WordID]
		if !ok {
			ws = &WordStat{Word: r.Word}
			byID[r.WordID] = ws
			order = append(order, r.WordID)
		}
		ws.Attempts++
		if r.IsCorrect {
			ws.Correct++
		}
		if r.Timestamp.After(ws.LastSeen) {
			ws.LastSeen = r.Timestamp
			ws.Word = r.Word
		}
	}
	out := make([]WordStat, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

// SelectWeakWords returns up to top words with at least one miss, lowest
// accuracy first. Ties go to the word with more attempts.
func SelectWeakWords(records []model.AnswerRecord, top int) []WordStat {
	var candidates []WordStat
	for _, ws := range WordStats(records) {
		if ws.Correct < ws.Attempts {
			candidates = append(candidates, ws)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ai, aj := candidates[i].Accuracy(), candidates[j].Accuracy()
		if ai != aj {
			return ai < aj
		}
		if candidates[i].Attempts != candidates[j].Attempts {
			return candidates[i].Attempts > candidates[j].Attempts
		}
		return candidates[i].Word.Native < candidates[j].Word.Native
	})
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	return candidates
}
