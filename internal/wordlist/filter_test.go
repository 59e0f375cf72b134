package wordlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"# native\treading\ttranslation",
		"本\tほん\t书",
		"",
		"  先生 \t せんせい\t老师\thttps://example.com/sensei.mp3",
		"猫\tねこ",
	}, "\n")
	entries, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].Line != 4 || entries[1].Word.Native != "先生" || entries[1].Word.AudioRef != "https://example.com/sensei.mp3" {
		t.Fatalf("unexpected entry: %+v", entries[1])
	}
}

func TestParseRejectsExtraFields(t *testing.T) {
	if _, err := Parse(strings.NewReader("a\tb\tc\td\te\n")); err == nil {
		t.Fatalf("expected error for too many fields")
	}
	if _, err := Parse(strings.NewReader("# only comments\n\n")); err == nil {
		t.Fatalf("expected error for empty list")
	}
}

func TestFilterComplete(t *testing.T) {
	entries, err := Parse(strings.NewReader("本\tほん\t书\n猫\tねこ\n\tいぬ\t狗\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	words, rejected := FilterComplete(entries)
	if len(words) != 1 || words[0].Native != "本" {
		t.Fatalf("unexpected words: %+v", words)
	}
	if len(rejected) != 2 || rejected[0].Line != 2 || rejected[1].Line != 3 {
		t.Fatalf("unexpected rejected: %+v", rejected)
	}
}

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.tsv")
	if err := os.WriteFile(path, []byte("本\tほん\t书\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := LoadWords(path)
	if err != nil || len(entries) != 1 {
		t.Fatalf("load: %v %+v", err, entries)
	}
	if _, err := LoadWords(filepath.Join(t.TempDir(), "missing.tsv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
