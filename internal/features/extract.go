// Package features splits the preprocessed corpus and turns it into
// TF-IDF matrices.
package features

import (
	"errors"
	"fmt"

	"tweetsent/internal/domain"
	"tweetsent/internal/store"
)

// Provenance records what an extraction was built from.
type Provenance struct {
	Corpus    string  `json:"corpus"`
	TestRatio float64 `json:"test_ratio"`
	Seed      int64   `json:"seed"`
}

// Extraction is the output of the feature stage.
type Extraction struct {
	Split      *Split
	Train      *Matrix
	Test       *Matrix
	Vectorizer *Vectorizer
	Provenance Provenance
}

// Extractor runs the split and vectorization and hands the results to the
// artifact store.
type Extractor struct {
	store     store.Storage
	testRatio float64
	seed      int64
}

func NewExtractor(st store.Storage, testRatio float64, seed int64) *Extractor {
	return &Extractor{store: st, testRatio: testRatio, seed: seed}
}

// Extract splits documents, fits the vectorizer on the training side only
// and transforms both sides with the frozen vocabulary. source identifies
// the corpus the documents came from. Saving replaces everything in the
// store, so artifacts of later stages never outlive the extraction they
// were built on.
func (e *Extractor) Extract(source string, documents []string, labels []domain.Label) (*Extraction, error) {
	split, err := StratifiedSplit(documents, labels, e.testRatio, e.seed)
	if err != nil {
		return nil, err
	}
	vec := NewVectorizer()
	train, err := vec.FitTransform(split.TrainText)
	if err != nil {
		return nil, &domain.InsufficientDataError{Reason: err.Error()}
	}
	test, err := vec.Transform(split.TestText)
	if err != nil {
		return nil, err
	}
	ex := &Extraction{
		Split:      split,
		Train:      train,
		Test:       test,
		Vectorizer: vec,
		Provenance: Provenance{Corpus: source, TestRatio: e.testRatio, Seed: e.seed},
	}
	if err := e.save(ex); err != nil {
		return nil, err
	}
	return ex, nil
}

func (e *Extractor) save(ex *Extraction) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Clear(); err != nil {
		return fmt.Errorf("clear artifact store: %w", err)
	}
	artifacts := []struct {
		key   string
		value any
	}{
		{store.KeyTrainText, ex.Split.TrainText},
		{store.KeyTestText, ex.Split.TestText},
		{store.KeyTrainLabel, ex.Split.TrainLabel},
		{store.KeyTestLabel, ex.Split.TestLabel},
		{store.KeyTrainTFIDF, ex.Train},
		{store.KeyTestTFIDF, ex.Test},
		{store.KeyVectorizer, ex.Vectorizer},
		{store.KeyProvenance, ex.Provenance},
	}
	for _, a := range artifacts {
		if err := e.store.Put(a.key, a.value); err != nil {
			return fmt.Errorf("save %s: %w", a.key, err)
		}
	}
	return nil
}

// LoadExtraction restores a previous Extract from the artifact store.
// Partition indices are not persisted and come back empty. Callers compare
// Provenance before reusing the result.
func LoadExtraction(st store.Storage) (*Extraction, error) {
	if st == nil {
		return nil, errors.New("no artifact store")
	}
	ex := &Extraction{Split: &Split{}, Train: &Matrix{}, Test: &Matrix{}, Vectorizer: NewVectorizer()}
	targets := []struct {
		key string
		out any
	}{
		{store.KeyTrainText, &ex.Split.TrainText},
		{store.KeyTestText, &ex.Split.TestText},
		{store.KeyTrainLabel, &ex.Split.TrainLabel},
		{store.KeyTestLabel, &ex.Split.TestLabel},
		{store.KeyTrainTFIDF, ex.Train},
		{store.KeyTestTFIDF, ex.Test},
		{store.KeyVectorizer, ex.Vectorizer},
		{store.KeyProvenance, &ex.Provenance},
	}
	for _, t := range targets {
		if err := st.Get(t.key, t.out); err != nil {
			return nil, err
		}
	}
	return ex, nil
}
