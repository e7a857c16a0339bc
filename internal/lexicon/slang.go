// Package lexicon loads the static word resources of a pipeline run:
// the slang dictionary, the stopword set and the word-frequency report.
package lexicon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tweetsent/internal/domain"
)

// Slang maps informal words to their standard form.
type Slang struct {
	entries map[string]string
}

// NewSlang builds a dictionary from in-memory pairs. The first pair for a
// key wins, matching what LoadSlang does with files.
func NewSlang(pairs [][2]string) *Slang {
	s := &Slang{entries: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		s.add(p[0], p[1])
	}
	return s
}

// LoadSlang reads a delimited slang;replacement table. A header row is
// detected and skipped.
func LoadSlang(path string, delimiter rune) (*Slang, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ResourceLoadError{Resource: "slang lexicon", Path: path, Err: err}
	}
	defer f.Close()
	s, err := ParseSlang(f, delimiter)
	if err != nil {
		return nil, &domain.ResourceLoadError{Resource: "slang lexicon", Path: path, Err: err}
	}
	return s, nil
}

// ParseSlang reads slang pairs from r.
func ParseSlang(r io.Reader, delimiter rune) (*Slang, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	s := &Slang{entries: make(map[string]string)}
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", row+1, err)
		}
		row++
		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected 2 fields, got %d", row, len(record))
		}
		if row == 1 && looksLikeHeader(record) {
			continue
		}
		s.add(record[0], record[1])
	}
	if len(s.entries) == 0 {
		return nil, errors.New("no slang entries")
	}
	return s, nil
}

func (s *Slang) add(slang, standard string) {
	key := strings.ToLower(strings.TrimSpace(slang))
	if key == "" {
		return
	}
	if _, exists := s.entries[key]; exists {
		return
	}
	s.entries[key] = strings.TrimSpace(standard)
}

// Len returns the number of distinct slang keys.
func (s *Slang) Len() int { return len(s.entries) }

// Lookup returns the standard form of word, if known.
func (s *Slang) Lookup(word string) (string, bool) {
	v, ok := s.entries[word]
	return v, ok
}

// Replace substitutes every whitespace-separated word of text that has a
// dictionary entry and rejoins the result with single spaces.
func (s *Slang) Replace(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		if v, ok := s.Lookup(w); ok {
			words[i] = v
		}
	}
	return strings.Join(words, " ")
}

var headerNames = map[string]struct{}{
	"slang": {}, "alay": {}, "informal": {}, "tidak_baku": {}, "kata": {},
	"formal": {}, "baku": {}, "normal": {}, "replacement": {}, "standard": {},
}

func looksLikeHeader(record []string) bool {
	for _, field := range record[:2] {
		if _, ok := headerNames[strings.ToLower(strings.TrimSpace(field))]; !ok {
			return false
		}
	}
	return true
}
