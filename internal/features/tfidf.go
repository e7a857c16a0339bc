package features

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"sort"
)

// Vectorizer is a TF-IDF vectorizer. Fit builds the vocabulary and IDF
// values from a training corpus; afterwards the vocabulary is frozen and
// Transform ignores unseen terms.
type Vectorizer struct {
	vocabulary   map[string]int
	terms        []string
	idf          []float64
	fitted       bool
	tokenPattern *regexp.Regexp
}

// NewVectorizer creates an unfitted vectorizer. Tokens are runs of two or
// more word characters.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`\w\w+`),
	}
}

// Fit builds the vocabulary and smoothed IDF values from corpus.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF fit")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range v.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("no terms found in training corpus; every document is empty after preprocessing")
	}
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	v.terms = terms
	v.fitted = true
	return nil
}

// FitTransform fits on corpus and returns its matrix.
func (v *Vectorizer) FitTransform(corpus []string) (*Matrix, error) {
	if err := v.Fit(corpus); err != nil {
		return nil, err
	}
	return v.Transform(corpus)
}

// Transform vectorizes texts with the frozen vocabulary.
func (v *Vectorizer) Transform(texts []string) (*Matrix, error) {
	if !v.fitted {
		return nil, errors.New("tfidf vectorizer not fitted")
	}
	m := &Matrix{NumRows: len(texts), NumCols: len(v.terms), Data: make([]Row, len(texts))}
	for i, text := range texts {
		m.Data[i] = v.vector(text)
	}
	return m, nil
}

// TransformOne vectorizes a single text.
func (v *Vectorizer) TransformOne(text string) (*Matrix, error) {
	return v.Transform([]string{text})
}

func (v *Vectorizer) vector(text string) Row {
	tf := make(map[int]int)
	for _, tok := range v.tokenize(text) {
		if idx, ok := v.vocabulary[tok]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return Row{Indices: []int{}, Values: []float64{}}
	}
	row := Row{Indices: make([]int, 0, len(tf)), Values: make([]float64, 0, len(tf))}
	for idx := range tf {
		row.Indices = append(row.Indices, idx)
	}
	sort.Ints(row.Indices)
	norm := 0.0
	for _, idx := range row.Indices {
		w := float64(tf[idx]) * v.idf[idx]
		row.Values = append(row.Values, w)
		norm += w * w
	}
	// L2 normalize
	norm = math.Sqrt(norm)
	for k := range row.Values {
		row.Values[k] /= norm
	}
	return row
}

func (v *Vectorizer) tokenize(text string) []string {
	return v.tokenPattern.FindAllString(text, -1)
}

// Fitted reports whether Fit has succeeded.
func (v *Vectorizer) Fitted() bool { return v.fitted }

// Dimension returns the vocabulary size.
func (v *Vectorizer) Dimension() int { return len(v.terms) }

// Vocabulary returns the terms in column order.
func (v *Vectorizer) Vocabulary() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// IDF returns the inverse document frequency of term, or 0 when unknown.
func (v *Vectorizer) IDF(term string) float64 {
	if i, ok := v.vocabulary[term]; ok {
		return v.idf[i]
	}
	return 0
}

// Fingerprint identifies the fitted vocabulary and its IDF weights. A model
// trained on one vectorizer must only be applied to columns with the same
// fingerprint.
func (v *Vectorizer) Fingerprint() string {
	h := sha256.New()
	var buf [8]byte
	for i, term := range v.terms {
		h.Write([]byte(term))
		h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.idf[i]))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

type vectorizerState struct {
	Terms []string  `json:"terms"`
	IDF   []float64 `json:"idf"`
}

func (v *Vectorizer) MarshalJSON() ([]byte, error) {
	return json.Marshal(vectorizerState{Terms: v.terms, IDF: v.idf})
}

func (v *Vectorizer) UnmarshalJSON(data []byte) error {
	var st vectorizerState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	if len(st.Terms) != len(st.IDF) {
		return errors.New("tfidf vectorizer: terms and idf length mismatch")
	}
	fresh := NewVectorizer()
	*v = *fresh
	for i, term := range st.Terms {
		v.vocabulary[term] = i
	}
	v.terms = st.Terms
	v.idf = st.IDF
	v.fitted = len(st.Terms) > 0
	return nil
}
