package lexicon

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"tweetsent/internal/domain"
)

// CountWords counts whitespace-separated words over texts. Rows are
// ordered by descending count, then alphabetically.
func CountWords(texts []string) []domain.WordCount {
	freq := map[string]int{}
	for _, text := range texts {
		for _, tok := range strings.Fields(text) {
			freq[tok]++
		}
	}
	out := make([]domain.WordCount, 0, len(freq))
	for w, c := range freq {
		out = append(out, domain.WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// WriteWordFrequency writes a Word;Count table to w.
func WriteWordFrequency(w io.Writer, counts []domain.WordCount, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.Write([]string{"Word", "Count"}); err != nil {
		return err
	}
	for _, c := range counts {
		if err := cw.Write([]string{c.Word, strconv.Itoa(c.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveWordFrequency writes the report to path, creating directories as needed.
func SaveWordFrequency(path string, counts []domain.WordCount, delimiter rune) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWordFrequency(f, counts, delimiter); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
