package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/shopassist/shopassist/internal/config"
	"github.com/shopassist/shopassist/internal/db"
	"github.com/shopassist/shopassist/internal/embeddings"
	"github.com/shopassist/shopassist/internal/intent"
	"github.com/shopassist/shopassist/internal/logger"
	"github.com/shopassist/shopassist/internal/progress"
	"github.com/shopassist/shopassist/internal/rewrite"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `shopassist init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	return logger.New(logger.Options{
		File:       cfg.Log.File,
		Production: cfg.Log.Production,
		Verbose:    verbose,
	})
}

func openDatabase(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	e := cfg.Embedding
	switch e.Provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(e.Model), e.Host), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(e.Model, e.Dimensions, e.Host), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", e.Provider)
	}
}

// createRewriterFromConfig returns a disabled rewriter unless rewrite.enabled is set.
func createRewriterFromConfig(cfg *config.Config, log *zap.Logger) (*rewrite.Rewriter, error) {
	if !cfg.Rewrite.Enabled {
		return rewrite.New(nil, cfg.Timeouts.Rewrite, log), nil
	}
	model, err := rewrite.NewModel(rewrite.ModelOptions{
		Provider: string(cfg.Rewrite.Provider),
		Model:    cfg.Rewrite.Model,
		Host:     cfg.Rewrite.Host,
		RPM:      cfg.Rewrite.RPM,
	})
	if err != nil {
		return nil, fmt.Errorf("creating rewrite model: %w", err)
	}
	return rewrite.New(model, cfg.Timeouts.Rewrite, log), nil
}

// seedIfEmpty imports cfg.IntentsFile when the intents table is empty.
func seedIfEmpty(ctx context.Context, cfg *config.Config, store *intent.Store, log *zap.Logger) error {
	n, err := store.Count(ctx)
	if err != nil || n > 0 || cfg.IntentsFile == "" {
		return err
	}
	phrases, err := intent.LoadSeedFile(cfg.IntentsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, p := range phrases {
		if err := store.Upsert(ctx, p); err != nil {
			return err
		}
	}
	log.Info("seeded intents", zap.String("file", cfg.IntentsFile), zap.Int("phrases", len(phrases)))
	return nil
}

// buildMatcher loads the corpus, embeds it and returns a matcher backed by
// the intent store. An empty corpus is a configuration error.
func buildMatcher(ctx context.Context, cfg *config.Config, store *intent.Store, log *zap.Logger, showProgress bool) (*intent.Matcher, *intent.Index, error) {
	if err := seedIfEmpty(ctx, cfg, store, log); err != nil {
		return nil, nil, fmt.Errorf("seeding intents: %w", err)
	}

	phrases, err := store.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing intents: %w", err)
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	var onBatch intent.ProgressFunc
	var reporter progress.Reporter
	if showProgress {
		reporter = progress.NewReporter()
		onBatch = progress.Batches(reporter, "Embedding intents")
	}
	index, err := intent.NewIndex(ctx, embedder, phrases, onBatch)
	if reporter != nil {
		reporter.Finish()
	}
	if errors.Is(err, intent.ErrEmptyCorpus) {
		return nil, nil, fmt.Errorf("%w: add phrases with `shopassist intents import <file.yml>`", err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("building intent index: %w", err)
	}

	matcher, err := intent.NewMatcher(index, store, intent.MatcherOptions{
		Threshold: cfg.Matcher.Threshold,
		Timeout:   cfg.Timeouts.Embedding,
		Logger:    log,
	})
	if err != nil {
		return nil, nil, err
	}
	return matcher, index, nil
}
