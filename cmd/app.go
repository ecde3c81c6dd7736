package main

import (
	"context"
	"fmt"

	"github.com/FileLanderScaner/ANALYZER/internal/config"
	"github.com/FileLanderScaner/ANALYZER/internal/driven"
	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/logger"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
	"github.com/FileLanderScaner/ANALYZER/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

// app holds everything a command needs, wired from configuration.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	store    storage.Store
	pipeline *driven.Pipeline
}

// loadConfig reads and validates configuration. A missing or placeholder API
// key stops the process here, before any AI capability is built.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadWith(viper.GetViper())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, log, nil
}

// openStore picks Postgres (plus optional blob storage) when DATABASE_URL is
// set and an in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (storage.Store, error) {
	if cfg.Database.URL == "" {
		log.Warn("⚠️ DATABASE_URL not set, analysis history is kept in memory only")
		return storage.NewMemoryStorage(cfg.Pipeline.PremiumUsers), nil
	}

	var blobs *storage.BlobStore
	if cfg.Blob.Enabled() {
		b, err := storage.NewBlobStore(cfg.Blob)
		if err != nil {
			return nil, err
		}
		if err := b.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		blobs = b
		log.WithField("bucket", cfg.Blob.Bucket).Info("🪣 Report data goes to blob storage")
	}

	pg, err := storage.OpenPostgres(ctx, cfg.Database.URL, blobs, cfg.Pipeline.PremiumUsers, log)
	if err != nil {
		return nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	log.Info("🗄️ Connected to Postgres")
	return pg, nil
}

func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger, events driven.EventSink) (*app, error) {
	g, err := llm.InitGenkitApp(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genkit: %w", err)
	}
	flows := llm.DefineFlows(g, llm.FlowConfig{
		ModelName:  cfg.LLM.ModelName(),
		MaxRetries: cfg.Pipeline.MaxRetries,
		Logger:     log,
	})

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	pipeline, err := driven.NewPipeline(flows, driven.Options{
		Store:           store,
		Events:          events,
		Locale:          models.ParseLocale(cfg.Pipeline.Locale, models.LocaleEN),
		CategoryTimeout: cfg.Pipeline.CategoryTimeout,
		PersistTimeout:  cfg.Pipeline.PersistTimeout,
		Logger:          log,
		Tracer:          otel.Tracer("analyzer/pipeline"),
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"provider": cfg.LLM.Provider,
		"model":    cfg.LLM.Model,
	}).Info("🤖 AI pipeline ready")

	return &app{cfg: cfg, log: log, store: store, pipeline: pipeline}, nil
}

func (a *app) Close() {
	a.store.Close()
}
