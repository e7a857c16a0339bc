package lexicon

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/bbalet/stopwords"

	"tweetsent/internal/domain"
)

// Stopwords is the union of a base language list and custom entries.
// The base list lives inside github.com/bbalet/stopwords and is only
// reachable by membership test, so Stopwords never enumerates it.
type Stopwords struct {
	language string
	custom   map[string]struct{}
}

// NewStopwords builds a set over the base list for language (ISO 639-1,
// empty to disable it) plus the given custom words.
func NewStopwords(language string, custom []string) *Stopwords {
	s := &Stopwords{language: language, custom: make(map[string]struct{}, len(custom))}
	for _, w := range custom {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s.custom[w] = struct{}{}
		}
	}
	return s
}

// LoadStopwords reads a newline- or space-delimited word list and merges
// it with the base list for language.
func LoadStopwords(path, language string) (*Stopwords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ResourceLoadError{Resource: "stopword list", Path: path, Err: err}
	}
	defer f.Close()

	var words []string
	scan := bufio.NewScanner(f)
	scan.Split(bufio.ScanWords)
	for scan.Scan() {
		words = append(words, scan.Text())
	}
	if err := scan.Err(); err != nil {
		return nil, &domain.ResourceLoadError{Resource: "stopword list", Path: path, Err: err}
	}
	return NewStopwords(language, words), nil
}

// Contains reports whether word is a stopword.
func (s *Stopwords) Contains(word string) bool {
	if _, ok := s.custom[word]; ok {
		return true
	}
	return s.inBase(word)
}

func (s *Stopwords) inBase(word string) bool {
	if s.language == "" || word == "" {
		return false
	}
	// CleanString drops stop words and keeps everything else.
	return strings.TrimSpace(stopwords.CleanString(word, s.language, false)) == ""
}

// Custom returns the supplementary entries in sorted order.
func (s *Stopwords) Custom() []string {
	out := make([]string, 0, len(s.custom))
	for w := range s.custom {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Filter returns tokens without stopwords, preserving order.
func (s *Stopwords) Filter(tokens []string) []string {
	return s.FilterAll([][]string{tokens})[0]
}

// FilterAll filters every document. Membership is memoized per call so
// each distinct token is tested once.
func (s *Stopwords) FilterAll(docs [][]string) [][]string {
	seen := make(map[string]bool)
	out := make([][]string, len(docs))
	for i, tokens := range docs {
		kept := make([]string, 0, len(tokens))
		for _, t := range tokens {
			stop, ok := seen[t]
			if !ok {
				stop = s.Contains(t)
				seen[t] = stop
			}
			if !stop {
				kept = append(kept, t)
			}
		}
		out[i] = kept
	}
	return out
}
