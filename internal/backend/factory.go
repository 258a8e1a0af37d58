package backend

import (
	"context"
	"fmt"
	"log/slog"

	"gestionale/internal/store/memory"
	"gestionale/internal/supabase"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SupabaseBackend:
		return f.createSupabaseBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSupabaseBackend(config Config) (*Result, error) {
	client, err := supabase.New(supabase.Config{
		URL:    config.SupabaseURL,
		APIKey: config.SupabaseAnonKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
	}

	f.logger.Info("Initialized Supabase backend", "url", config.SupabaseURL)

	return &Result{
		Stores: supabase.NewStores(client),
		Auth:   client.Auth(),
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*Result, error) {
	b := memory.New()
	if config.SeedDemoData {
		if err := b.Seed(ctx); err != nil {
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	f.logger.Info("Initialized memory backend", "seeded", config.SeedDemoData)

	// Auth stays nil: the demo backend has no accounts, the HTTP layer
	// answers 503 on auth endpoints.
	return &Result{
		Stores: b.Stores(),
	}, nil
}
