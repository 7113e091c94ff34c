package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"

	"github.com/xuanhai0913/Vision-Key/internal/config"
	"github.com/xuanhai0913/Vision-Key/internal/database"
	"github.com/xuanhai0913/Vision-Key/internal/history"
	"github.com/xuanhai0913/Vision-Key/internal/inference"
	"github.com/xuanhai0913/Vision-Key/internal/inference/gemini"
	"github.com/xuanhai0913/Vision-Key/internal/inference/openai"
	"github.com/xuanhai0913/Vision-Key/internal/ocr"
	"github.com/xuanhai0913/Vision-Key/schemas"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// newProviderClient builds the client of one provider, or returns nil when it has no API key.
func newProviderClient(ctx context.Context, cfg *config.Config, provider string) (inference.Client, error) {
	apiKey := cfg.APIKey(provider)
	if apiKey == "" {
		slog.Default().Warn("skipping provider without an API key", "provider", provider)
		return nil, nil
	}

	switch inference.Provider(provider) {
	case inference.ProviderOpenAI:
		return openai.NewClient(apiKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, cfg.OpenAI.MaxRetryAttempts), nil
	case inference.ProviderGemini:
		client, err := gemini.NewClient(ctx, apiKey, cfg.Gemini.Model)
		if err != nil {
			return nil, fmt.Errorf("gemini.NewClient() > %w", err)
		}
		return client, nil
	}
	return nil, fmt.Errorf("unknown provider %q", provider)
}

// newInferenceClient chains the configured providers, primary first. A non-empty
// override replaces the configured primary provider.
func newInferenceClient(ctx context.Context, cfg *config.Config, override inference.Provider) (inference.Client, error) {
	chainCfg := *cfg
	if override != "" {
		chainCfg.Provider = string(override)
	}

	var clients []inference.Client
	for _, provider := range chainCfg.ProviderChain() {
		client, err := newProviderClient(ctx, cfg, provider)
		if err != nil {
			return nil, err
		}
		if client != nil {
			clients = append(clients, client)
		}
	}

	var client inference.Client
	switch len(clients) {
	case 0:
		return nil, fmt.Errorf("set OPENAI_API_KEY or GEMINI_API_KEY: %w", inference.ErrNoProvider)
	case 1:
		client = clients[0]
	default:
		fallback, err := inference.NewFallbackClient(clients...)
		if err != nil {
			return nil, err
		}
		client = fallback
	}

	if cfg.Assistant.CacheDirectory != "" {
		cached, err := inference.NewFileCachingClient(client, cfg.Assistant.CacheDirectory)
		if err != nil {
			return nil, err
		}
		client = cached
	}
	if cfg.Assistant.CacheSize > 0 {
		cached, err := inference.NewCachingClient(client, cfg.Assistant.CacheSize)
		if err != nil {
			return nil, err
		}
		client = cached
	}
	return client, nil
}

// newHistoryRepository opens the configured history backend. The returned close function
// is never nil.
func newHistoryRepository(ctx context.Context, cfg *config.Config) (history.Repository, func(), error) {
	switch cfg.History.Backend {
	case config.HistoryBackendNone:
		return history.NopRepository{}, func() {}, nil
	case config.HistoryBackendMySQL:
		db, err := openMigratedDB(ctx, cfg.Database)
		if err != nil {
			return nil, func() {}, err
		}
		return history.NewDBRepository(db), func() { _ = db.Close() }, nil
	default:
		return history.NewYAMLRepository(cfg.History.Directory), func() {}, nil
	}
}

func openMigratedDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := database.Migrate(ctx, db, schemas.Migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database.Migrate() > %w", err)
	}
	return db, nil
}

func readObservations(path string) ([]ocr.TextObservation, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	var observations []ocr.TextObservation
	if err := yaml.Unmarshal(content, &observations); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}
	return observations, nil
}
