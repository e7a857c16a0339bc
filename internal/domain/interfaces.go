package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Label is a sentiment class as it appears in the input corpus.
type Label string

// Document is one raw tweet paired with its label.
type Document struct {
	Row   int
	Text  string
	Label Label
}

// Corpus is the labeled input collection, kept in file order.
type Corpus struct {
	Path      string
	Documents []Document
}

// Texts returns the raw tweet texts in corpus order.
func (c Corpus) Texts() []string {
	out := make([]string, len(c.Documents))
	for i, d := range c.Documents {
		out[i] = d.Text
	}
	return out
}

// Labels returns the labels in corpus order.
func (c Corpus) Labels() []Label {
	out := make([]Label, len(c.Documents))
	for i, d := range c.Documents {
		out[i] = d.Label
	}
	return out
}

// Fingerprint hashes every text and label in order.
func (c Corpus) Fingerprint() string {
	h := sha256.New()
	labels := c.Labels()
	for i, text := range c.Texts() {
		h.Write([]byte(text))
		h.Write([]byte{0})
		h.Write([]byte(labels[i]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// PreprocessedRow holds the output of every preprocessing stage for one document.
type PreprocessedRow struct {
	Original  string
	Cleaned   string
	SlangFree string
	Tokens    []string
	Stemmed   []string
	Filtered  []string
	Final     string
	Label     Label
}

// WordCount is one row of the word-frequency report.
type WordCount struct {
	Word  string
	Count int
}

// Tokenizer splits normalized text into word tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Stemmer reduces a single word to its root form.
type Stemmer interface {
	Stem(word string) string
}

// ArtifactStore is the handoff point between pipeline stages.
// Values are stored by name and overwritten on every run.
type ArtifactStore interface {
	Put(key string, value any) error
	Get(key string, out any) error
	Keys() ([]string, error)
	Clear() error
}

// Prediction is the classification of one unseen text.
type Prediction struct {
	Row           PreprocessedRow
	Label         Label
	Probabilities map[Label]float64
}
