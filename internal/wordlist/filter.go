package wordlist

import (
	"strings"

	"github.com/verte-zerg/tango/internal/model"
)

// FilterComplete keeps entries with native, reading and translation set and
// returns the rest as rejected.
func FilterComplete(entries []Entry) ([]model.Word, []Entry) {
	var words []model.Word
	var rejected []Entry
	for _, e := range entries {
		if isComplete(e.Word) {
			words = append(words, e.Word)
			continue
		}
		rejected = append(rejected, e)
	}
	return words, rejected
}

func isComplete(w model.Word) bool {
	return strings.TrimSpace(w.Native) != "" &&
		strings.TrimSpace(w.Reading) != "" &&
		strings.TrimSpace(w.Translation) != ""
}
