package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ResourcesConfig points at the static inputs of a pipeline run.
type ResourcesConfig struct {
	CorpusPath        string `yaml:"corpus_path"`
	SlangPath         string `yaml:"slang_path"`
	StopwordsPath     string `yaml:"stopwords_path"`
	StopwordsLanguage string `yaml:"stopwords_language"`
	Delimiter         string `yaml:"delimiter"`
	TextColumn        string `yaml:"text_column"`
	LabelColumn       string `yaml:"label_column"`
}

// OutputConfig controls where side tables are written.
type OutputConfig struct {
	Dir                string `yaml:"dir"`
	WordFrequencyFile  string `yaml:"word_frequency_file"`
	PreprocessingFile  string `yaml:"preprocessing_file"`
	DisableSideReports bool   `yaml:"disable_side_reports"`
}

// SplitConfig configures the stratified train/test partition.
type SplitConfig struct {
	TestRatio float64 `yaml:"test_ratio"`
	Seed      int64   `yaml:"seed"`
}

// ClassifierConfig is the logistic-regression hyperparameter record.
// C is the inverse regularization strength; smaller means stronger.
type ClassifierConfig struct {
	C            float64 `yaml:"c"`
	MaxIter      int     `yaml:"max_iter"`
	Tol          float64 `yaml:"tol"`
	FitIntercept *bool   `yaml:"fit_intercept,omitempty"`
}

// StoreConfig selects the artifact store implementation.
type StoreConfig struct {
	Type   string        `yaml:"type"`
	SQLite *SQLiteConfig `yaml:"sqlite,omitempty"`
}

// SQLiteConfig contains the database file for the sqlite artifact store.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig configures the stemming cache.
type CacheConfig struct {
	TTLSecs int `yaml:"ttl_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Resources  ResourcesConfig  `yaml:"resources"`
	Output     OutputConfig     `yaml:"output"`
	Split      SplitConfig      `yaml:"split"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Store      StoreConfig      `yaml:"store"`
	Cache      CacheConfig      `yaml:"cache"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/tweetsent/config.yaml.
// If neither exists, it writes defaults to ~/.config/tweetsent/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DelimiterRune returns the first rune of Delimiter, or ';' when it is empty.
func (r ResourcesConfig) DelimiterRune() rune {
	if c, _ := utf8.DecodeRuneInString(r.Delimiter); c != utf8.RuneError {
		return c
	}
	return ';'
}

// BaseStopwordsLanguage returns the language of the base stopword list, or
// "" when it is switched off with "none".
func (r ResourcesConfig) BaseStopwordsLanguage() string {
	if strings.EqualFold(strings.TrimSpace(r.StopwordsLanguage), "none") {
		return ""
	}
	return r.StopwordsLanguage
}

// FitInterceptOrDefault reports whether the classifier learns a bias term (default true).
func (c ClassifierConfig) FitInterceptOrDefault() bool {
	if c.FitIntercept == nil {
		return true
	}
	return *c.FitIntercept
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tweetsent", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Resources: ResourcesConfig{
			CorpusPath:    "data/tweets.csv",
			SlangPath:     "data/slang.csv",
			StopwordsPath: "data/stopwords.txt",
		},
		Store: StoreConfig{Type: "memory"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	r := &cfg.Resources
	if r.StopwordsLanguage == "" {
		r.StopwordsLanguage = "id"
	}
	if r.Delimiter == "" {
		r.Delimiter = ";"
	}
	if r.TextColumn == "" {
		r.TextColumn = "tweet"
	}
	if r.LabelColumn == "" {
		r.LabelColumn = "label"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "out"
	}
	if cfg.Output.WordFrequencyFile == "" {
		cfg.Output.WordFrequencyFile = "word_frequency.csv"
	}
	if cfg.Output.PreprocessingFile == "" {
		cfg.Output.PreprocessingFile = "preprocessing.csv"
	}
	if cfg.Split.TestRatio <= 0 || cfg.Split.TestRatio >= 1 {
		cfg.Split.TestRatio = 0.3
	}
	if cfg.Split.Seed == 0 {
		cfg.Split.Seed = 42
	}
	if cfg.Classifier.C <= 0 {
		cfg.Classifier.C = 0.01
	}
	if cfg.Classifier.MaxIter == 0 {
		cfg.Classifier.MaxIter = 1000
	}
	if cfg.Classifier.Tol == 0 {
		cfg.Classifier.Tol = 1e-6
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "memory"
	}
	if cfg.Store.Type == "sqlite" {
		if cfg.Store.SQLite == nil {
			cfg.Store.SQLite = &SQLiteConfig{}
		}
		if cfg.Store.SQLite.Path == "" {
			cfg.Store.SQLite.Path = filepath.Join(cfg.Output.Dir, "artifacts.db")
		}
	}
	if cfg.Cache.TTLSecs == 0 {
		cfg.Cache.TTLSecs = 600
	}
}
