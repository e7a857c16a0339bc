package service

import (
	"tweetsent/internal/config"
	"tweetsent/internal/corpus"
	"tweetsent/internal/domain"
	"tweetsent/internal/lexicon"
)

// Resources are the static inputs of a run.
type Resources struct {
	Corpus    *domain.Corpus
	Slang     *lexicon.Slang
	Stopwords *lexicon.Stopwords
}

// LoadResources reads the corpus, slang lexicon and stopword list. Any
// missing or malformed resource fails the whole load.
func LoadResources(cfg config.ResourcesConfig) (*Resources, error) {
	delim := cfg.DelimiterRune()
	slang, err := lexicon.LoadSlang(cfg.SlangPath, delim)
	if err != nil {
		return nil, err
	}
	stop, err := lexicon.LoadStopwords(cfg.StopwordsPath, cfg.BaseStopwordsLanguage())
	if err != nil {
		return nil, err
	}
	c, err := corpus.Load(cfg.CorpusPath, corpus.Options{
		Delimiter:   delim,
		TextColumn:  cfg.TextColumn,
		LabelColumn: cfg.LabelColumn,
	})
	if err != nil {
		return nil, err
	}
	return &Resources{Corpus: c, Slang: slang, Stopwords: stop}, nil
}
