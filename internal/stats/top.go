package stats

import (
	"sort"

	"github.com/verte-zerg/tango/internal/model"
)

// MostPracticed returns the n words with the most attempts.
func MostPracticed(records []model.AnswerRecord, n int) []WordStat {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	items := WordStats(records)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Attempts == items[j].Attempts {
			return items[i].Word.Native < items[j].Word.Native
		}
		return items[i].Attempts > items[j].Attempts
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
