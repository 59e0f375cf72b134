package generator

import (
	"testing"

	"github.com/verte-zerg/tango/internal/model"
)

func testWords(n int) []model.Word {
	words := make([]model.Word, n)
	for i := range words {
		words[i] = model.Word{ID: int64(i + 1), Native: "w"}
	}
	return words
}

func TestSampleDistinct(t *testing.T) {
	g := NewSeeded(1)
	got := g.Sample(testWords(5), 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 words, got %d", len(got))
	}
	seen := map[int64]bool{}
	for _, w := range got {
		if seen[w.ID] {
			t.Fatalf("duplicate word %d in sample", w.ID)
		}
		seen[w.ID] = true
	}
}

func TestSampleReturnsAllWhenCountExceeds(t *testing.T) {
	g := NewSeeded(2)
	words := testWords(4)
	got := g.Sample(words, 10)
	if len(got) != 4 {
		t.Fatalf("expected all 4 words, got %d", len(got))
	}
	for i, w := range words {
		if w.ID != int64(i+1) {
			t.Fatalf("input slice was modified")
		}
	}
}

func TestSampleEmpty(t *testing.T) {
	g := NewSeeded(3)
	if got := g.Sample(nil, 3); got != nil {
		t.Fatalf("expected nil sample, got %v", got)
	}
	if _, ok := g.Pick(nil); ok {
		t.Fatalf("expected no pick from empty list")
	}
}

func TestSeededIsReproducible(t *testing.T) {
	a := NewSeeded(42).Sample(testWords(10), 5)
	b := NewSeeded(42).Sample(testWords(10), 5)
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("seeded samples differ at %d: %d vs %d", i, a[i].ID, b[i].ID)
		}
	}
}
