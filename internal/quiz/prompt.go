package quiz

import (
	"strings"

	"github.com/verte-zerg/tango/internal/model"
)

// Prompt is what the learner sees for a card.
type Prompt struct {
	Audio   bool
	Content string
	Hint    string
}

var fieldLabels = map[model.Field]string{
	model.FieldNative:      "word",
	model.FieldReading:     "reading",
	model.FieldTranslation: "translation",
}

// FieldLabel returns the display label of a field.
func FieldLabel(f model.Field) string {
	return fieldLabels[f]
}

// PromptFor builds the prompt for a word under a quiz type. Audio prompts
// carry the audio reference as content.
func PromptFor(word model.Word, qt model.QuizType) Prompt {
	labels := make([]string, 0, 3)
	for _, f := range CheckedFields(qt) {
		labels = append(labels, fieldLabels[f])
	}
	hint := "Enter the " + joinLabels(labels)
	if f, ok := qt.Revealed(); ok {
		return Prompt{Content: word.Get(f), Hint: hint}
	}
	return Prompt{Audio: true, Content: word.AudioRef, Hint: "Listen, then enter the " + joinLabels(labels)}
}

func joinLabels(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
}
