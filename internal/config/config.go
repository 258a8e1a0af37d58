package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Supabase
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string

	// Backend selection
	DataBackend string

	// Memory backend
	SeedDemoData bool

	// Request shaping
	RateLimitPerMinute int
	CacheTTL           time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		SupabaseURL:       getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:   getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),

		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SeedDemoData: getEnvBool("SEED_DEMO_DATA", true),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		CacheTTL:           getEnvDuration("CACHE_TTL", 30*time.Second),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "supabase"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate Supabase configuration if backend is supabase
	if c.DataBackend == "supabase" {
		if c.SupabaseURL == "" {
			errors = append(errors, "SUPABASE_URL is required when using supabase backend")
		} else if parsedURL, err := url.Parse(c.SupabaseURL); err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid SUPABASE_URL '%s': must be an absolute http(s) URL", c.SupabaseURL))
		}
		if c.SupabaseAnonKey == "" {
			errors = append(errors, "SUPABASE_ANON_KEY is required when using supabase backend")
		}
		// The JWT secret is optional: without it the API skips token
		// verification, which is only acceptable in development.
	}

	// Validate request shaping
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	} else if c.RateLimitPerMinute > 100000 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at most 100000 requests per minute", c.RateLimitPerMinute))
	}

	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	} else if c.CacheTTL > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 1 hour", c.CacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
