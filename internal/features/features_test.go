package features

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetsent/internal/domain"
	"tweetsent/internal/store"
	"tweetsent/internal/store/memory"
)

func labeled(pos, neg int) ([]string, []domain.Label) {
	var texts []string
	var labels []domain.Label
	for i := 0; i < pos; i++ {
		texts = append(texts, fmt.Sprintf("senang bagus doc%d", i))
		labels = append(labels, "positif")
	}
	for i := 0; i < neg; i++ {
		texts = append(texts, fmt.Sprintf("kecewa buruk doc%d", i))
		labels = append(labels, "negatif")
	}
	return texts, labels
}

func count(labels []domain.Label, want domain.Label) int {
	n := 0
	for _, l := range labels {
		if l == want {
			n++
		}
	}
	return n
}

func TestStratifiedSplitProportions(t *testing.T) {
	texts, labels := labeled(60, 40)
	s, err := StratifiedSplit(texts, labels, 0.3, 42)
	require.NoError(t, err)

	assert.Len(t, s.TestText, 30)
	assert.Len(t, s.TrainText, 70)
	assert.Equal(t, 18, count(s.TestLabel, "positif"))
	assert.Equal(t, 12, count(s.TestLabel, "negatif"))
	assert.Equal(t, 42, count(s.TrainLabel, "positif"))
	assert.Equal(t, 28, count(s.TrainLabel, "negatif"))

	seen := make(map[int]bool)
	for _, i := range append(append([]int{}, s.TrainIndex...), s.TestIndex...) {
		assert.False(t, seen[i], "index %d in both partitions", i)
		seen[i] = true
	}
	assert.Len(t, seen, 100)
	for k, i := range s.TestIndex {
		assert.Equal(t, texts[i], s.TestText[k])
		assert.Equal(t, labels[i], s.TestLabel[k])
	}
}

func TestStratifiedSplitDeterministic(t *testing.T) {
	texts, labels := labeled(23, 17)
	a, err := StratifiedSplit(texts, labels, 0.3, 7)
	require.NoError(t, err)
	b, err := StratifiedSplit(texts, labels, 0.3, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := StratifiedSplit(texts, labels, 0.3, 8)
	require.NoError(t, err)
	assert.NotEqual(t, a.TestIndex, c.TestIndex)
}

func TestStratifiedSplitSizes(t *testing.T) {
	for _, n := range []int{4, 7, 10, 33, 101} {
		texts, labels := labeled(n, n/2+2)
		s, err := StratifiedSplit(texts, labels, 0.3, 1)
		require.NoError(t, err)
		total := len(texts)
		assert.Equal(t, total, len(s.TrainText)+len(s.TestText))
		assert.InDelta(t, float64(total)*0.3, float64(len(s.TestText)), 1.0)
	}
}

func TestStratifiedSplitErrors(t *testing.T) {
	var ide *domain.InsufficientDataError
	var se *domain.SchemaError

	_, err := StratifiedSplit([]string{"a", "b", "c"}, []domain.Label{"x", "x", "x"}, 0.3, 1)
	assert.True(t, errors.As(err, &ide))

	_, err = StratifiedSplit([]string{"a", "b", "c"}, []domain.Label{"x", "x", "y"}, 0.3, 1)
	assert.True(t, errors.As(err, &ide))

	_, err = StratifiedSplit([]string{"a"}, []domain.Label{"x", "y"}, 0.3, 1)
	assert.True(t, errors.As(err, &se))

	_, err = StratifiedSplit([]string{"a", "b"}, []domain.Label{"x", "y"}, 1.5, 1)
	assert.Error(t, err)
}

func TestVectorizerFitTransform(t *testing.T) {
	v := NewVectorizer()
	m, err := v.FitTransform([]string{"bola bola seru", "bola jelek", ""})
	require.NoError(t, err)

	assert.Equal(t, []string{"bola", "jelek", "seru"}, v.Vocabulary())
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)

	// Smoothed idf: log((1+n)/(1+df)) + 1.
	assert.InDelta(t, math.Log(4.0/3.0)+1, v.IDF("bola"), 1e-12)
	assert.InDelta(t, math.Log(2.0)+1, v.IDF("seru"), 1e-12)

	for i := 0; i < 2; i++ {
		norm := 0.0
		m.DoRowNonZero(i, func(_, _ int, x float64) { norm += x * x })
		assert.InDelta(t, 1.0, norm, 1e-12)
	}
	assert.Empty(t, m.Data[2].Indices)

	bola := v.vocabulary["bola"]
	seru := v.vocabulary["seru"]
	wantRatio := 2 * v.IDF("bola") / v.IDF("seru")
	assert.InDelta(t, wantRatio, m.At(0, bola)/m.At(0, seru), 1e-12)
	assert.Zero(t, m.At(1, seru))
}

func TestVectorizerFrozenVocabulary(t *testing.T) {
	v := NewVectorizer()
	require.NoError(t, v.Fit([]string{"bola seru", "film jelek"}))

	m, err := v.Transform([]string{"bola baru sekali", "asing total"})
	require.NoError(t, err)

	assert.Equal(t, 4, v.Dimension())
	_, ok := v.vocabulary["baru"]
	assert.False(t, ok)
	_, c := m.Dims()
	assert.Equal(t, 4, c)
	assert.Len(t, m.Data[0].Indices, 1)
	assert.InDelta(t, 1.0, m.Data[0].Values[0], 1e-12)
	assert.Empty(t, m.Data[1].Indices)
}

func TestVectorizerErrors(t *testing.T) {
	v := NewVectorizer()
	_, err := v.Transform([]string{"x"})
	assert.Error(t, err)
	assert.Error(t, v.Fit(nil))
	assert.Error(t, v.Fit([]string{"", "a"}))
}

func TestVectorizerJSON(t *testing.T) {
	v := NewVectorizer()
	require.NoError(t, v.Fit([]string{"bola seru", "film jelek"}))
	data, err := json.Marshal(v)
	require.NoError(t, err)

	restored := NewVectorizer()
	require.NoError(t, json.Unmarshal(data, restored))
	assert.True(t, restored.Fitted())
	assert.Equal(t, v.Vocabulary(), restored.Vocabulary())

	a, err := v.Transform([]string{"bola jelek"})
	require.NoError(t, err)
	b, err := restored.Transform([]string{"bola jelek"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMatrixAccess(t *testing.T) {
	m := &Matrix{NumRows: 2, NumCols: 3, Data: []Row{
		{Indices: []int{0, 2}, Values: []float64{0.6, 0.8}},
		{Indices: []int{}, Values: []float64{}},
	}}
	assert.Equal(t, 0.8, m.At(0, 2))
	assert.Equal(t, 0.0, m.At(1, 1))
	assert.Equal(t, 2, m.NNZ())
	assert.Equal(t, 0.6, m.T().At(0, 0))
	assert.Panics(t, func() { m.At(2, 0) })
}

func TestExtractPersistsArtifacts(t *testing.T) {
	texts, labels := labeled(10, 10)
	st := memory.NewStorage()
	ex, err := NewExtractor(st, 0.3, 42).Extract("tweets", texts, labels)
	require.NoError(t, err)

	keys, err := st.Keys()
	require.NoError(t, err)
	for _, k := range []string{store.KeyTrainText, store.KeyTestText, store.KeyTrainLabel, store.KeyTestLabel,
		store.KeyTrainTFIDF, store.KeyTestTFIDF, store.KeyVectorizer, store.KeyProvenance} {
		assert.Contains(t, keys, k)
	}

	// Vocabulary comes from the training side only.
	for _, term := range ex.Vectorizer.Vocabulary() {
		found := false
		for _, doc := range ex.Split.TrainText {
			for _, tok := range ex.Vectorizer.tokenize(doc) {
				if tok == term {
					found = true
				}
			}
		}
		assert.True(t, found, "term %q not in training text", term)
	}

	loaded, err := LoadExtraction(st)
	require.NoError(t, err)
	assert.Equal(t, ex.Split.TrainText, loaded.Split.TrainText)
	assert.Equal(t, ex.Split.TestLabel, loaded.Split.TestLabel)
	assert.Equal(t, ex.Train, loaded.Train)
	assert.Equal(t, ex.Test, loaded.Test)
	assert.Equal(t, ex.Vectorizer.Vocabulary(), loaded.Vectorizer.Vocabulary())
	assert.Equal(t, ex.Vectorizer.Fingerprint(), loaded.Vectorizer.Fingerprint())
	assert.Equal(t, Provenance{Corpus: "tweets", TestRatio: 0.3, Seed: 42}, loaded.Provenance)
}

func TestExtractReplacesStoreContents(t *testing.T) {
	st := memory.NewStorage()
	require.NoError(t, st.Put(store.KeyModel, "stale"))

	texts, labels := labeled(5, 5)
	_, err := NewExtractor(st, 0.3, 42).Extract("tweets", texts, labels)
	require.NoError(t, err)

	keys, err := st.Keys()
	require.NoError(t, err)
	assert.NotContains(t, keys, store.KeyModel)
	assert.Len(t, keys, 8)
}

func TestVectorizerFingerprint(t *testing.T) {
	a := NewVectorizer()
	require.NoError(t, a.Fit([]string{"bola seru", "film jelek"}))
	b := NewVectorizer()
	require.NoError(t, b.Fit([]string{"bola seru", "film jelek"}))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	// Same vocabulary size, different terms.
	c := NewVectorizer()
	require.NoError(t, c.Fit([]string{"tim menang", "laga kalah"}))
	assert.Equal(t, a.Dimension(), c.Dimension())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	// Same terms, different document frequencies.
	d := NewVectorizer()
	require.NoError(t, d.Fit([]string{"bola seru film", "film jelek"}))
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
}

func TestExtractErrors(t *testing.T) {
	var se *domain.SchemaError
	_, err := NewExtractor(nil, 0.3, 1).Extract("", []string{"a"}, nil)
	assert.True(t, errors.As(err, &se))

	var ide *domain.InsufficientDataError
	_, err = NewExtractor(nil, 0.3, 1).Extract("", []string{"", "", "", ""}, []domain.Label{"a", "a", "b", "b"})
	assert.True(t, errors.As(err, &ide))

	_, err = LoadExtraction(memory.NewStorage())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
