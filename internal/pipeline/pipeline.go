// Package pipeline turns raw tweets into the canonical text used for
// feature extraction: clean, replace slang, tokenize, stem, drop stopwords
// and join.
package pipeline

import (
	"errors"
	"strings"
	"unicode/utf8"

	"tweetsent/internal/domain"
	"tweetsent/internal/lexicon"
	"tweetsent/internal/normalize"
)

// Stage names used in StageError.
const (
	StageClean     = "clean"
	StageSlang     = "slang"
	StageTokenize  = "tokenize"
	StageStem      = "stem"
	StageStopwords = "stopwords"
)

// SlangReplacer substitutes informal words in normalized text.
type SlangReplacer interface {
	Replace(text string) string
}

// StopwordFilter drops stopwords from token sequences.
type StopwordFilter interface {
	FilterAll(docs [][]string) [][]string
}

// Result is the output of one preprocessing run.
type Result struct {
	Rows       []domain.PreprocessedRow
	WordCounts []domain.WordCount
	Terms      TermCorpus
	CacheHit   bool
}

// Finals returns the joined preprocessed text of every row.
func (r *Result) Finals() []string {
	out := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Final
	}
	return out
}

// Preprocessor runs the stages in a fixed order over a whole corpus.
type Preprocessor struct {
	slang      SlangReplacer
	tokenizer  domain.Tokenizer
	stemmer    domain.Stemmer
	stopwords  StopwordFilter
	exceptions map[string]struct{}
	cache      *StemCache
}

// Option customises a Preprocessor.
type Option func(*Preprocessor)

// WithStemExceptions replaces the set of tokens that bypass stemming.
func WithStemExceptions(words []string) Option {
	return func(p *Preprocessor) {
		p.exceptions = make(map[string]struct{}, len(words))
		for _, w := range words {
			p.exceptions[w] = struct{}{}
		}
	}
}

// WithStemCache memoizes the stemming stage across runs.
func WithStemCache(c *StemCache) Option {
	return func(p *Preprocessor) { p.cache = c }
}

// NewPreprocessor wires the stages together.
func NewPreprocessor(slang SlangReplacer, tokenizer domain.Tokenizer, stemmer domain.Stemmer, stopwords StopwordFilter, opts ...Option) *Preprocessor {
	p := &Preprocessor{slang: slang, tokenizer: tokenizer, stemmer: stemmer, stopwords: stopwords}
	WithStemExceptions(DefaultStemExceptions)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run preprocesses every document. Any per-document failure aborts the run.
func (p *Preprocessor) Run(docs []domain.Document) (*Result, error) {
	cleaned := make([]string, len(docs))
	for i, d := range docs {
		if !utf8.ValidString(d.Text) {
			return nil, &domain.StageError{Stage: StageClean, Row: d.Row, Err: errors.New("text is not valid UTF-8")}
		}
		cleaned[i] = normalize.Normalize(d.Text)
	}
	wordCounts := lexicon.CountWords(cleaned)

	slangFree := make([]string, len(docs))
	for i := range cleaned {
		slangFree[i] = p.slang.Replace(cleaned[i])
	}

	tokens := make([][]string, len(docs))
	for i := range slangFree {
		tokens[i] = p.tokenizer.Tokenize(slangFree[i])
	}

	stemmed, terms, hit := p.stem(tokens)
	filtered := p.stopwords.FilterAll(stemmed)
	if len(filtered) != len(docs) {
		return nil, &domain.StageError{Stage: StageStopwords, Row: -1, Err: errors.New("document count changed")}
	}

	rows := make([]domain.PreprocessedRow, len(docs))
	for i, d := range docs {
		rows[i] = domain.PreprocessedRow{
			Original:  d.Text,
			Cleaned:   cleaned[i],
			SlangFree: slangFree[i],
			Tokens:    tokens[i],
			Stemmed:   stemmed[i],
			Filtered:  filtered[i],
			Final:     strings.Join(filtered[i], " "),
			Label:     d.Label,
		}
	}
	return &Result{Rows: rows, WordCounts: wordCounts, Terms: terms, CacheHit: hit}, nil
}

// stem builds the term corpus over the whole collection, then applies it.
func (p *Preprocessor) stem(tokens [][]string) ([][]string, TermCorpus, bool) {
	key := ""
	if p.cache != nil {
		key = CollectionKey(tokens)
		if stemmed, terms, ok := p.cache.Get(key); ok {
			return stemmed, terms, true
		}
	}
	terms := BuildTermCorpus(tokens, p.stemmer, p.exceptions)
	stemmed := terms.Apply(tokens)
	if p.cache != nil {
		p.cache.Put(key, stemmed, terms)
	}
	return stemmed, terms, false
}

// Text preprocesses a single unseen text. Tokens already in terms reuse
// their cached stem; new tokens are stemmed directly.
func (p *Preprocessor) Text(text string, terms TermCorpus) (domain.PreprocessedRow, error) {
	if !utf8.ValidString(text) {
		return domain.PreprocessedRow{}, &domain.StageError{Stage: StageClean, Row: -1, Err: errors.New("text is not valid UTF-8")}
	}
	cleaned := normalize.Normalize(text)
	slangFree := p.slang.Replace(cleaned)
	tokens := p.tokenizer.Tokenize(slangFree)

	var unseen []string
	local := make(TermCorpus, len(tokens))
	for _, tok := range tokens {
		if s, ok := terms[tok]; ok {
			local[tok] = s
		} else {
			unseen = append(unseen, tok)
		}
	}
	for tok, s := range BuildTermCorpus([][]string{unseen}, p.stemmer, p.exceptions) {
		local[tok] = s
	}
	stemmed := local.Apply([][]string{tokens})[0]
	filtered := p.stopwords.FilterAll([][]string{stemmed})[0]
	return domain.PreprocessedRow{
		Original:  text,
		Cleaned:   cleaned,
		SlangFree: slangFree,
		Tokens:    tokens,
		Stemmed:   stemmed,
		Filtered:  filtered,
		Final:     strings.Join(filtered, " "),
	}, nil
}
