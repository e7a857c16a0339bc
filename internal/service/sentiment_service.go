// Package service runs the sentiment pipeline stages in order and keeps
// their results for the CLI and the TUI.
package service

import (
	"errors"
	"fmt"
	"path/filepath"

	"tweetsent/internal/classifier"
	"tweetsent/internal/domain"
	"tweetsent/internal/features"
	"tweetsent/internal/lexicon"
	"tweetsent/internal/pipeline"
	"tweetsent/internal/store"
)

// Options configures the stages run by the service.
type Options struct {
	OutputDir         string
	WordFrequencyFile string
	PreprocessingFile string
	WriteSideReports  bool
	Delimiter         rune
	TestRatio         float64
	Seed              int64
	Classifier        classifier.Config
}

// SentimentServiceImpl runs preprocess, extract, train and evaluate.
// Every stage runs its prerequisites when their output is not available,
// first trying the artifact store.
type SentimentServiceImpl struct {
	corpus       *domain.Corpus
	preprocessor *pipeline.Preprocessor
	store        store.Storage
	opts         Options

	preprocessed *pipeline.Result
	extraction   *features.Extraction
	model        *classifier.Model
	report       *classifier.Report
}

func NewSentimentService(corpus *domain.Corpus, preprocessor *pipeline.Preprocessor, st store.Storage, opts Options) *SentimentServiceImpl {
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}
	return &SentimentServiceImpl{corpus: corpus, preprocessor: preprocessor, store: st, opts: opts}
}

// Corpus returns the labeled input.
func (s *SentimentServiceImpl) Corpus() *domain.Corpus { return s.corpus }

// Preprocess runs the text pipeline over the whole corpus and writes the
// word-frequency report and the preprocessing table when enabled.
func (s *SentimentServiceImpl) Preprocess() (*pipeline.Result, error) {
	if s.corpus == nil {
		return nil, errors.New("no corpus loaded")
	}
	res, err := s.preprocessor.Run(s.corpus.Documents)
	if err != nil {
		return nil, err
	}
	if s.opts.WriteSideReports {
		wf := filepath.Join(s.opts.OutputDir, s.opts.WordFrequencyFile)
		if err := lexicon.SaveWordFrequency(wf, res.WordCounts, s.opts.Delimiter); err != nil {
			return nil, fmt.Errorf("write word frequency report: %w", err)
		}
		table := filepath.Join(s.opts.OutputDir, s.opts.PreprocessingFile)
		if err := pipeline.SaveTable(table, res.Rows, s.opts.Delimiter); err != nil {
			return nil, fmt.Errorf("write preprocessing table: %w", err)
		}
	}
	s.preprocessed = res
	s.extraction, s.model, s.report = nil, nil, nil
	return res, nil
}

// Extract splits the preprocessed corpus and builds the TF-IDF matrices.
func (s *SentimentServiceImpl) Extract() (*features.Extraction, error) {
	if s.preprocessed == nil {
		if _, err := s.Preprocess(); err != nil {
			return nil, err
		}
	}
	ex, err := features.NewExtractor(s.store, s.opts.TestRatio, s.opts.Seed).
		Extract(s.corpus.Fingerprint(), s.preprocessed.Finals(), s.corpus.Labels())
	if err != nil {
		return nil, err
	}
	s.extraction = ex
	s.model, s.report = nil, nil
	return ex, nil
}

// Train fits the classifier on the training matrix and stores the model.
func (s *SentimentServiceImpl) Train() (*classifier.Model, error) {
	ex, err := s.ensureExtraction()
	if err != nil {
		return nil, err
	}
	m, err := classifier.Train(ex.Train, ex.Split.TrainLabel, s.opts.Classifier)
	if err != nil {
		return nil, err
	}
	m.Vocabulary = ex.Vectorizer.Fingerprint()
	if s.store != nil {
		if err := s.store.Put(store.KeyModel, m); err != nil {
			return nil, fmt.Errorf("save %s: %w", store.KeyModel, err)
		}
	}
	s.model = m
	s.report = nil
	return m, nil
}

// Evaluate scores the model on the held-out partition.
func (s *SentimentServiceImpl) Evaluate() (*classifier.Report, error) {
	ex, err := s.ensureExtraction()
	if err != nil {
		return nil, err
	}
	m, err := s.ensureModel(ex)
	if err != nil {
		return nil, err
	}
	r, err := classifier.Evaluate(m, ex.Test, ex.Split.TestLabel)
	if err != nil {
		return nil, err
	}
	s.report = r
	return r, nil
}

// Run executes every stage from scratch.
func (s *SentimentServiceImpl) Run() (*classifier.Report, error) {
	if _, err := s.Preprocess(); err != nil {
		return nil, err
	}
	if _, err := s.Extract(); err != nil {
		return nil, err
	}
	if _, err := s.Train(); err != nil {
		return nil, err
	}
	return s.Evaluate()
}

// Predict classifies a single text with the trained model. The text goes
// through the same preprocessing and the frozen vocabulary.
func (s *SentimentServiceImpl) Predict(text string) (*domain.Prediction, error) {
	ex, err := s.ensureExtraction()
	if err != nil {
		return nil, err
	}
	m, err := s.ensureModel(ex)
	if err != nil {
		return nil, err
	}
	var terms pipeline.TermCorpus
	if s.preprocessed != nil {
		terms = s.preprocessed.Terms
	}
	row, err := s.preprocessor.Text(text, terms)
	if err != nil {
		return nil, err
	}
	x, err := ex.Vectorizer.TransformOne(row.Final)
	if err != nil {
		return nil, err
	}
	labels, err := m.Predict(x)
	if err != nil {
		return nil, err
	}
	proba, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	p := &domain.Prediction{Row: row, Label: labels[0], Probabilities: make(map[domain.Label]float64, len(m.Classes))}
	for k, c := range m.Classes {
		p.Probabilities[c] = proba.At(0, k)
	}
	return p, nil
}

// Preprocessed returns the last preprocessing result, if any.
func (s *SentimentServiceImpl) Preprocessed() *pipeline.Result { return s.preprocessed }

// Extraction returns the last feature extraction, if any.
func (s *SentimentServiceImpl) Extraction() *features.Extraction { return s.extraction }

// Report returns the last evaluation, if any.
func (s *SentimentServiceImpl) Report() *classifier.Report { return s.report }

// ensureExtraction returns the current extraction, reusing a stored one
// only when it was built from this corpus with the same split settings.
func (s *SentimentServiceImpl) ensureExtraction() (*features.Extraction, error) {
	if s.extraction != nil {
		return s.extraction, nil
	}
	if s.preprocessed == nil && s.store != nil {
		ex, err := features.LoadExtraction(s.store)
		switch {
		case err == nil && s.current(ex.Provenance):
			s.extraction = ex
			return ex, nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}
	return s.Extract()
}

// current reports whether p describes the corpus and split of this service.
// Without a corpus only the split settings can be checked.
func (s *SentimentServiceImpl) current(p features.Provenance) bool {
	if p.TestRatio != s.opts.TestRatio || p.Seed != s.opts.Seed {
		return false
	}
	return s.corpus == nil || p.Corpus == s.corpus.Fingerprint()
}

// ensureModel returns a model trained on the columns of ex with the
// configured hyperparameters. A stored model with another vocabulary
// fingerprint is retrained, never applied.
func (s *SentimentServiceImpl) ensureModel(ex *features.Extraction) (*classifier.Model, error) {
	want := ex.Vectorizer.Fingerprint()
	if s.model != nil && s.model.Vocabulary == want {
		return s.model, nil
	}
	if s.store != nil {
		var m classifier.Model
		err := s.store.Get(store.KeyModel, &m)
		if err == nil && m.Vocabulary == want && m.Config == s.opts.Classifier {
			s.model = &m
			return &m, nil
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return s.Train()
}
