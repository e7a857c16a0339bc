package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetsent/internal/classifier"
	"tweetsent/internal/config"
	"tweetsent/internal/domain"
	"tweetsent/internal/lexicon"
	"tweetsent/internal/pipeline"
	"tweetsent/internal/stemmer"
	"tweetsent/internal/store"
	"tweetsent/internal/store/memory"
	"tweetsent/internal/tokenizer"
)

func testCorpus() *domain.Corpus {
	pos := []string{"senang", "bagus", "mantap", "keren", "hebat"}
	neg := []string{"kecewa", "buruk", "jelek", "payah", "parah"}
	c := &domain.Corpus{Path: "memory"}
	for i := 0; i < 10; i++ {
		c.Documents = append(c.Documents,
			domain.Document{Text: fmt.Sprintf("Aku suka %s bgt sm kamu http://t.co/x %d", pos[i%5], i), Label: "positif"},
			domain.Document{Text: fmt.Sprintf("@user benci %s bgt!! #kesal", neg[i%5]), Label: "negatif"},
		)
	}
	for i := range c.Documents {
		c.Documents[i].Row = i + 1
	}
	return c
}

// matchCorpus has 8 documents per class, so a 0.3 split gives 12/4.
func matchCorpus() *domain.Corpus {
	teams := []string{"garuda", "persib", "arema", "persija"}
	c := &domain.Corpus{Path: "matches"}
	for i := 0; i < 8; i++ {
		c.Documents = append(c.Documents,
			domain.Document{Text: fmt.Sprintf("Tim %s menang juara", teams[i%4]), Label: "positif"},
			domain.Document{Text: fmt.Sprintf("Tim %s kalah lagi", teams[i%4]), Label: "negatif"},
		)
	}
	for i := range c.Documents {
		c.Documents[i].Row = i + 1
	}
	return c
}

func newPreprocessor() *pipeline.Preprocessor {
	return pipeline.NewPreprocessor(
		lexicon.NewSlang([][2]string{{"bgt", "banget"}, {"sm", "sama"}}),
		tokenizer.New(),
		stemmer.New(),
		lexicon.NewStopwords("", []string{"aku", "banget", "sama"}),
	)
}

func testOptions(dir string) Options {
	cfg := classifier.DefaultConfig()
	cfg.C = 10
	return Options{
		OutputDir:         dir,
		WordFrequencyFile: "word_frequency.csv",
		PreprocessingFile: "preprocessing.csv",
		WriteSideReports:  true,
		Delimiter:         ';',
		TestRatio:         0.3,
		Seed:              42,
		Classifier:        cfg,
	}
}

func TestRunAllStages(t *testing.T) {
	dir := t.TempDir()
	st := memory.NewStorage()
	svc := NewSentimentService(testCorpus(), newPreprocessor(), st, testOptions(dir))

	report, err := svc.Run()
	require.NoError(t, err)

	assert.Equal(t, 14, report.TrainCount)
	assert.Equal(t, 6, report.TestCount)
	assert.Equal(t, []domain.Label{"negatif", "positif"}, report.Labels)
	assert.Equal(t, 1.0, report.Accuracy)

	keys, err := st.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, 9)
	assert.Contains(t, keys, store.KeyModel)

	for _, name := range []string{"word_frequency.csv", "preprocessing.csv"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}

	rows := svc.Preprocessed().Rows
	assert.Equal(t, "aku suka senang bgt sm kamu", rows[0].Cleaned)
	assert.Equal(t, "suka senang kamu", rows[0].Final)
}

func TestPredictUsesTrainedModel(t *testing.T) {
	svc := NewSentimentService(testCorpus(), newPreprocessor(), memory.NewStorage(), testOptions(t.TempDir()))
	_, err := svc.Run()
	require.NoError(t, err)

	p, err := svc.Predict("Aku benci filmnya, JELEK bgt http://x.co")
	require.NoError(t, err)
	assert.Equal(t, domain.Label("negatif"), p.Label)
	assert.Equal(t, "benci filmnya jelek", p.Row.Final)
	assert.InDelta(t, 1.0, p.Probabilities["negatif"]+p.Probabilities["positif"], 1e-12)
	assert.Greater(t, p.Probabilities["negatif"], 0.5)

	p, err = svc.Predict("suka banget")
	require.NoError(t, err)
	assert.Equal(t, domain.Label("positif"), p.Label)
}

func TestPredictRunsPrerequisites(t *testing.T) {
	svc := NewSentimentService(testCorpus(), newPreprocessor(), nil, testOptions(t.TempDir()))
	p, err := svc.Predict("suka")
	require.NoError(t, err)
	assert.Equal(t, domain.Label("positif"), p.Label)
	assert.NotNil(t, svc.Extraction())
}

func TestStagesReloadFromStore(t *testing.T) {
	st := memory.NewStorage()
	first := NewSentimentService(testCorpus(), newPreprocessor(), st, testOptions(t.TempDir()))
	_, err := first.Extract()
	require.NoError(t, err)

	// No corpus: Train can only succeed by reading the stored partitions.
	second := NewSentimentService(nil, newPreprocessor(), st, testOptions(t.TempDir()))
	m, err := second.Train()
	require.NoError(t, err)
	assert.Equal(t, 14, m.TrainCount)

	third := NewSentimentService(nil, newPreprocessor(), st, testOptions(t.TempDir()))
	r, err := third.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 6, r.TestCount)
	assert.Same(t, r, third.Report())
}

func TestReextractDropsStoredModel(t *testing.T) {
	st := memory.NewStorage()
	opts := testOptions(t.TempDir())
	_, err := NewSentimentService(testCorpus(), newPreprocessor(), st, opts).Run()
	require.NoError(t, err)

	ex, err := NewSentimentService(matchCorpus(), newPreprocessor(), st, opts).Extract()
	require.NoError(t, err)
	keys, err := st.Keys()
	require.NoError(t, err)
	assert.NotContains(t, keys, store.KeyModel)

	later := NewSentimentService(nil, newPreprocessor(), st, opts)
	r, err := later.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 12, r.TrainCount)
	assert.Equal(t, 4, r.TestCount)

	var m classifier.Model
	require.NoError(t, st.Get(store.KeyModel, &m))
	assert.Equal(t, ex.Vectorizer.Fingerprint(), m.Vocabulary)
}

func TestStaleModelIsRetrained(t *testing.T) {
	st := memory.NewStorage()
	opts := testOptions(t.TempDir())
	old, err := NewSentimentService(testCorpus(), newPreprocessor(), st, opts).Train()
	require.NoError(t, err)

	ex, err := NewSentimentService(matchCorpus(), newPreprocessor(), st, opts).Extract()
	require.NoError(t, err)
	// A model left behind by an older run, trained on other columns.
	require.NoError(t, st.Put(store.KeyModel, old))

	later := NewSentimentService(nil, newPreprocessor(), st, opts)
	r, err := later.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 12, r.TrainCount)

	var m classifier.Model
	require.NoError(t, st.Get(store.KeyModel, &m))
	assert.Equal(t, ex.Vectorizer.Fingerprint(), m.Vocabulary)
	assert.NotEqual(t, old.Vocabulary, m.Vocabulary)
}

func TestStoredModelWithOtherHyperparametersIsRetrained(t *testing.T) {
	st := memory.NewStorage()
	opts := testOptions(t.TempDir())
	_, err := NewSentimentService(testCorpus(), newPreprocessor(), st, opts).Train()
	require.NoError(t, err)

	opts.Classifier.C = 1
	_, err = NewSentimentService(nil, newPreprocessor(), st, opts).Evaluate()
	require.NoError(t, err)

	var stored classifier.Model
	require.NoError(t, st.Get(store.KeyModel, &stored))
	assert.Equal(t, 1.0, stored.Config.C)
}

func TestStoredExtractionOfOtherCorpusIsRebuilt(t *testing.T) {
	st := memory.NewStorage()
	opts := testOptions(t.TempDir())
	_, err := NewSentimentService(testCorpus(), newPreprocessor(), st, opts).Extract()
	require.NoError(t, err)

	svc := NewSentimentService(matchCorpus(), newPreprocessor(), st, opts)
	m, err := svc.Train()
	require.NoError(t, err)
	assert.Equal(t, 12, m.TrainCount)
	assert.Equal(t, matchCorpus().Fingerprint(), svc.Extraction().Provenance.Corpus)

	// Same corpus, new seed: the stored split no longer applies.
	opts.Seed = 7
	svc = NewSentimentService(matchCorpus(), newPreprocessor(), st, opts)
	_, err = svc.Train()
	require.NoError(t, err)
	assert.Equal(t, int64(7), svc.Extraction().Provenance.Seed)
}

func TestPreprocessWithoutCorpus(t *testing.T) {
	svc := NewSentimentService(nil, newPreprocessor(), memory.NewStorage(), testOptions(t.TempDir()))
	_, err := svc.Train()
	assert.Error(t, err)
}

func TestRunSurfacesTypedErrors(t *testing.T) {
	c := testCorpus()
	for i := range c.Documents {
		c.Documents[i].Label = "positif"
	}
	svc := NewSentimentService(c, newPreprocessor(), nil, testOptions(t.TempDir()))
	_, err := svc.Run()
	var ide *domain.InsufficientDataError
	assert.True(t, errors.As(err, &ide))

	c = testCorpus()
	c.Documents[3].Text = "rusak \xff"
	svc = NewSentimentService(c, newPreprocessor(), nil, testOptions(t.TempDir()))
	_, err = svc.Run()
	var se *domain.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 4, se.Row)
}

func TestLoadResources(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}
	cfg := config.ResourcesConfig{
		CorpusPath:        write("tweets.csv", "tweet;label\nAku lg senang;positif\nkecewa;negatif\n"),
		SlangPath:         write("slang.csv", "slang;formal\nlg;lagi\n"),
		StopwordsPath:     write("stopwords.txt", "aku\nlagi yang\n"),
		StopwordsLanguage: "id",
		Delimiter:         ";",
		TextColumn:        "tweet",
		LabelColumn:       "label",
	}
	res, err := LoadResources(cfg)
	require.NoError(t, err)
	assert.Len(t, res.Corpus.Documents, 2)
	assert.Equal(t, 1, res.Slang.Len())
	assert.True(t, res.Stopwords.Contains("yang"))

	cfg.SlangPath = filepath.Join(dir, "missing.csv")
	_, err = LoadResources(cfg)
	var rle *domain.ResourceLoadError
	require.True(t, errors.As(err, &rle))
	assert.True(t, strings.HasSuffix(rle.Path, "missing.csv"))
}
