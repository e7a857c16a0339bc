package pipeline

import (
	"tweetsent/internal/domain"
)

// DefaultStemExceptions are tokens that bypass stemming.
var DefaultStemExceptions = []string{"pemilu"}

// TermCorpus maps every distinct raw token of a corpus to its stemmed form.
type TermCorpus map[string]string

// BuildTermCorpus scans all documents once and stems each distinct token
// exactly once. Tokens in exceptions map to themselves.
func BuildTermCorpus(docs [][]string, stemmer domain.Stemmer, exceptions map[string]struct{}) TermCorpus {
	tc := make(TermCorpus)
	for _, tokens := range docs {
		for _, tok := range tokens {
			if _, done := tc[tok]; done {
				continue
			}
			if _, skip := exceptions[tok]; skip {
				tc[tok] = tok
				continue
			}
			tc[tok] = stemmer.Stem(tok)
		}
	}
	return tc
}

// Apply replaces every token with its cached stem. Tokens missing from the
// corpus are kept as they are.
func (tc TermCorpus) Apply(docs [][]string) [][]string {
	out := make([][]string, len(docs))
	for i, tokens := range docs {
		stemmed := make([]string, len(tokens))
		for j, tok := range tokens {
			if s, ok := tc[tok]; ok {
				stemmed[j] = s
			} else {
				stemmed[j] = tok
			}
		}
		out[i] = stemmed
	}
	return out
}
