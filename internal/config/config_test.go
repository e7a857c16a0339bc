package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ";", cfg.Resources.Delimiter)
	assert.Equal(t, "id", cfg.Resources.StopwordsLanguage)
	assert.Equal(t, 0.3, cfg.Split.TestRatio)
	assert.Equal(t, int64(42), cfg.Split.Seed)
	assert.Equal(t, 0.01, cfg.Classifier.C)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.True(t, cfg.Classifier.FitInterceptOrDefault())
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
resources:
  corpus_path: tweets.csv
  text_column: Tweet
classifier:
  c: 1.5
  fit_intercept: false
store:
  type: sqlite
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tweets.csv", cfg.Resources.CorpusPath)
	assert.Equal(t, "Tweet", cfg.Resources.TextColumn)
	assert.Equal(t, "label", cfg.Resources.LabelColumn)
	assert.Equal(t, 1.5, cfg.Classifier.C)
	assert.False(t, cfg.Classifier.FitInterceptOrDefault())
	assert.Equal(t, 1000, cfg.Classifier.MaxIter)
	require.NotNil(t, cfg.Store.SQLite)
	assert.Equal(t, filepath.Join("out", "artifacts.db"), cfg.Store.SQLite.Path)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Split.Seed = 7

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Split.Seed)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resources: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDelimiterRune(t *testing.T) {
	assert.Equal(t, ';', ResourcesConfig{}.DelimiterRune())
	assert.Equal(t, '\t', ResourcesConfig{Delimiter: "\t"}.DelimiterRune())
	assert.Equal(t, ',', ResourcesConfig{Delimiter: ",;"}.DelimiterRune())
}

func TestBaseStopwordsLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resources:\n  stopwords_language: none\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Resources.BaseStopwordsLanguage())

	assert.Equal(t, "id", ResourcesConfig{StopwordsLanguage: "id"}.BaseStopwordsLanguage())
	assert.Equal(t, "", ResourcesConfig{StopwordsLanguage: "None"}.BaseStopwordsLanguage())
}
