package quiz

import (
	"errors"

	"github.com/verte-zerg/tango/internal/model"
)

// ErrNoEnabledTypes is returned when settings leave no quiz type selectable.
var ErrNoEnabledTypes = errors.New("no quiz types enabled; enable at least one in settings")

// Rand is the random source used for selection.
type Rand interface {
	Intn(n int) int
}

// Selector chooses the quiz type for a card.
type Selector struct {
	rnd Rand
}

// NewSelector returns a Selector drawing from rnd.
func NewSelector(rnd Rand) *Selector {
	return &Selector{rnd: rnd}
}

// Select picks a quiz type from the enabled set. A forced type that is
// enabled is returned as is; otherwise the choice is uniform.
func (s *Selector) Select(settings model.Settings, forced *model.QuizType) (model.QuizType, error) {
	enabled := settings.EnabledTypes()
	if len(enabled) == 0 {
		return 0, ErrNoEnabledTypes
	}
	if forced != nil && settings.IsEnabled(*forced) {
		return *forced, nil
	}
	return enabled[s.rnd.Intn(len(enabled))], nil
}
