package tui

import (
	"strings"
	"testing"
)

func TestBuildAnswerRunesMarksMismatch(t *testing.T) {
	runes := buildAnswerRunes([]rune("ほん"), []rune("ほし"), correctStyle, incorrectStyle)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("ほ") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != incorrectStyle.Render("し") {
		t.Fatalf("expected incorrect style for second rune")
	}
	if runes[0].width != 2 {
		t.Fatalf("expected wide rune width 2, got %d", runes[0].width)
	}
}

func TestBuildAnswerRunesPadsMissing(t *testing.T) {
	runes := buildAnswerRunes([]rune("Book"), []rune("b"), correctStyle, incorrectStyle)
	if len(runes) != 4 {
		t.Fatalf("expected typed rune plus 3 placeholders, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("b") {
		t.Fatalf("expected case-insensitive match")
	}
	if runes[3].s != pendingStyle.Render("_") {
		t.Fatalf("expected pending placeholder")
	}
}

func TestWrapStyledRunesBreaksAtSpace(t *testing.T) {
	out := wrapStyledRunes(plainRunes("one two three", pendingStyle), 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != pendingStyle.Render("o")+pendingStyle.Render("n")+pendingStyle.Render("e")+
		pendingStyle.Render(" ")+pendingStyle.Render("t")+pendingStyle.Render("w")+pendingStyle.Render("o") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
}

func TestWrapStyledRunesCountsWideRunes(t *testing.T) {
	out := wrapStyledRunes(plainRunes("学校先生", pendingStyle), 4)
	if got := strings.Count(out, "\n"); got != 1 {
		t.Fatalf("expected one break for 8 cells at width 4, got %d", got)
	}
}
