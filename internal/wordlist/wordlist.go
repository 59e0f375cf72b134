// Package wordlist loads vocabulary files.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/tango/internal/model"
)

// Entry is a parsed line of a word list.
type Entry struct {
	Line int
	Word model.Word
}

// LoadWords reads a tab-separated word list from path.
func LoadWords(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Parse reads lines of native<TAB>reading<TAB>translation[<TAB>audio].
// Blank lines and lines starting with # are skipped.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), " \t\r")
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(raw, "\t")
		if len(fields) > 4 {
			return nil, fmt.Errorf("line %d: expected at most 4 tab-separated fields, got %d", lineNo, len(fields))
		}
		var w model.Word
		for i, f := range fields {
			f = strings.TrimSpace(f)
			switch i {
			case 0:
				w.Native = f
			case 1:
				w.Reading = f
			case 2:
				w.Translation = f
			case 3:
				w.AudioRef = f
			}
		}
		entries = append(entries, Entry{Line: lineNo, Word: w})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return entries, nil
}
