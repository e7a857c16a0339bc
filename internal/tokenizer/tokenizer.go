// Package tokenizer splits normalized tweet text into word tokens using the
// Punkt word tokenizer from gopkg.in/neurosnap/sentences.v1.
package tokenizer

import (
	"strings"

	"gopkg.in/neurosnap/sentences.v1"
)

// WordTokenizer wraps the Punkt word tokenizer. It is stateless after
// construction and safe to share.
type WordTokenizer struct {
	punkt *sentences.DefaultWordTokenizer
}

// New creates a word tokenizer with the default Punkt punctuation rules.
func New() *WordTokenizer {
	return &WordTokenizer{punkt: sentences.NewWordTokenizer(sentences.NewPunctStrings())}
}

// Tokenize returns the words of text in order. Empty or blank input yields
// an empty slice.
func (t *WordTokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	toks := t.punkt.Tokenize(text, false)
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		w := strings.TrimSpace(tok.Tok)
		if w == "" {
			continue
		}
		out = append(out, w)
	}
	return out
}
