package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tweetsent/internal/classifier"
	"tweetsent/internal/config"
	"tweetsent/internal/domain"
	"tweetsent/internal/pipeline"
	"tweetsent/internal/service"
	"tweetsent/internal/stemmer"
	"tweetsent/internal/store"
	"tweetsent/internal/store/memory"
	"tweetsent/internal/store/sqlite"
	"tweetsent/internal/tokenizer"
	"tweetsent/internal/tui"
)

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tweetsent",
	Short: "Sentiment analysis for Indonesian tweets",
	Long: `tweetsent cleans labeled Indonesian tweets, replaces slang, stems and
filters stopwords, then trains a TF-IDF logistic-regression classifier
and reports accuracy, a classification report and a confusion matrix.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (default: $TWEETSENT_CONFIG, ./config.yaml or ~/.config/tweetsent/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log stage progress")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "preprocess",
			Short: "Run the text pipeline and write the side reports",
			Args:  cobra.NoArgs,
			RunE: withService(func(svc *service.SentimentServiceImpl) error {
				res, err := svc.Preprocess()
				if err != nil {
					return err
				}
				fmt.Printf("Preprocessed %d documents, %d distinct tokens\n", len(res.Rows), len(res.Terms))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "extract",
			Short: "Split the corpus and build TF-IDF matrices",
			Args:  cobra.NoArgs,
			RunE: withService(func(svc *service.SentimentServiceImpl) error {
				ex, err := svc.Extract()
				if err != nil {
					return err
				}
				rows, cols := ex.Train.Dims()
				testRows, _ := ex.Test.Dims()
				fmt.Printf("Train: %d documents, Test: %d documents, Vocabulary: %d terms\n", rows, testRows, cols)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "train",
			Short: "Train the classifier",
			Args:  cobra.NoArgs,
			RunE: withService(func(svc *service.SentimentServiceImpl) error {
				m, err := svc.Train()
				if err != nil {
					return err
				}
				fmt.Printf("Trained on %d documents, classes %v, converged=%v\n", m.TrainCount, m.Classes, m.Converged)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "evaluate",
			Short: "Evaluate the classifier on the test partition",
			Args:  cobra.NoArgs,
			RunE: withService(func(svc *service.SentimentServiceImpl) error {
				r, err := svc.Evaluate()
				if err != nil {
					return err
				}
				printReport(r)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "predict <text>",
			Short: "Classify a single tweet",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withService(func(svc *service.SentimentServiceImpl) error {
					p, err := svc.Predict(args[0])
					if err != nil {
						return err
					}
					fmt.Printf("Preprocessed: %s\nSentiment: %s\n", p.Row.Final, p.Label)
					labels := make([]string, 0, len(p.Probabilities))
					for label := range p.Probabilities {
						labels = append(labels, string(label))
					}
					sort.Strings(labels)
					for _, label := range labels {
						fmt.Printf("  %s: %.4f\n", label, p.Probabilities[domain.Label(label)])
					}
					return nil
				})(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "run",
			Short: "Run every stage and print the evaluation",
			Args:  cobra.NoArgs,
			RunE: withService(func(svc *service.SentimentServiceImpl) error {
				r, err := svc.Run()
				if err != nil {
					return err
				}
				printReport(r)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "ui",
			Short: "Open the interactive viewer",
			Args:  cobra.NoArgs,
			RunE: withService(func(svc *service.SentimentServiceImpl) error {
				_, err := tea.NewProgram(tui.New(svc), tea.WithAltScreen()).Run()
				return err
			}),
		},
	)
}

func printReport(r *classifier.Report) {
	fmt.Printf("Train documents: %d\nTest documents:  %d\nAccuracy: %.4f\n\n", r.TrainCount, r.TestCount, r.Accuracy)
	fmt.Print(r.String())
	fmt.Println()
	fmt.Print(r.ConfusionString())
}

// withService loads the config and resources, assembles the service and
// hands it to fn.
func withService(fn func(svc *service.SentimentServiceImpl) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		start := time.Now()
		res, err := service.LoadResources(cfg.Resources)
		if err != nil {
			return err
		}
		logf("loaded %d documents from %s, %d slang entries, %d custom stopwords",
			len(res.Corpus.Documents), res.Corpus.Path, res.Slang.Len(), len(res.Stopwords.Custom()))

		st, closeStore, err := openStore(cfg.Store)
		if err != nil {
			return err
		}
		defer closeStore()

		pre := pipeline.NewPreprocessor(
			res.Slang,
			tokenizer.New(),
			stemmer.New(),
			res.Stopwords,
			pipeline.WithStemCache(pipeline.NewStemCache(time.Duration(cfg.Cache.TTLSecs)*time.Second)),
		)
		svc := service.NewSentimentService(res.Corpus, pre, st, service.Options{
			OutputDir:         cfg.Output.Dir,
			WordFrequencyFile: cfg.Output.WordFrequencyFile,
			PreprocessingFile: cfg.Output.PreprocessingFile,
			WriteSideReports:  !cfg.Output.DisableSideReports,
			Delimiter:         cfg.Resources.DelimiterRune(),
			TestRatio:         cfg.Split.TestRatio,
			Seed:              cfg.Split.Seed,
			Classifier: classifier.Config{
				C:            cfg.Classifier.C,
				MaxIter:      cfg.Classifier.MaxIter,
				Tol:          cfg.Classifier.Tol,
				FitIntercept: cfg.Classifier.FitInterceptOrDefault(),
			},
		})
		if err := fn(svc); err != nil {
			return err
		}
		logf("%s finished in %s", cmd.Name(), time.Since(start).Round(time.Millisecond))
		if !cfg.Output.DisableSideReports && svc.Preprocessed() != nil {
			logf("side reports written to %s", filepath.Clean(cfg.Output.Dir))
		}
		return nil
	}
}

func loadConfig() (*config.AppConfig, error) {
	path := cfgPath
	if path == "" {
		path = os.Getenv("TWEETSENT_CONFIG")
	}
	if path == "" {
		cfg, used, err := config.LoadDefault()
		if err == nil {
			logf("using config %s", used)
		}
		return cfg, err
	}
	logf("using config %s", path)
	return config.Load(path)
}

func openStore(cfg config.StoreConfig) (store.Storage, func(), error) {
	switch cfg.Type {
	case "memory", "":
		return memory.NewStorage(), func() {}, nil
	case "sqlite":
		if cfg.SQLite == nil {
			return nil, nil, fmt.Errorf("sqlite store config missing")
		}
		s, err := sqlite.Open(sqlite.Config{Path: cfg.SQLite.Path})
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Printf("close artifact store: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown artifact store: %s", cfg.Type)
	}
}

func logf(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}
