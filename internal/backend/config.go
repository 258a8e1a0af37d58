package backend

import (
	"fmt"

	"gestionale/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SupabaseURL:     appConfig.SupabaseURL,
		SupabaseAnonKey: appConfig.SupabaseAnonKey,

		SeedDemoData: appConfig.SeedDemoData,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SupabaseBackend:
		if c.SupabaseURL == "" {
			return fmt.Errorf("Supabase URL is required for supabase backend")
		}
		if c.SupabaseAnonKey == "" {
			return fmt.Errorf("Supabase anon key is required for supabase backend")
		}

	case MemoryBackend:
		// Memory backend doesn't require additional configuration
	}

	return nil
}

// Types returns all valid backend types
func Types() []Type {
	return []Type{SupabaseBackend, MemoryBackend}
}
