// Package generator provides the randomness behind card draws.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/tango/internal/model"
)

// Generator draws words and indices from a seeded source.
// It is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed for reproducible draws.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform index in [0, n).
func (g *Generator) Intn(n int) int {
	return g.rnd.Intn(n)
}

// Pick selects one word uniformly. ok is false when words is empty.
func (g *Generator) Pick(words []model.Word) (model.Word, bool) {
	if len(words) == 0 {
		return model.Word{}, false
	}
	return words[g.rnd.Intn(len(words))], true
}

// Sample returns count distinct words in random order. When count is at
// least len(words) every word is returned, shuffled. The input is not modified.
func (g *Generator) Sample(words []model.Word, count int) []model.Word {
	if len(words) == 0 || count <= 0 {
		return nil
	}
	shuffled := make([]model.Word, len(words))
	copy(shuffled, words)
	g.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count >= len(shuffled) {
		return shuffled
	}
	return shuffled[:count]
}
