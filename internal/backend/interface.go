package backend

import (
	"context"

	"gestionale/internal/store"
	"gestionale/internal/supabase"
)

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result bundles the stores of one backend with its optional auth
// surface and cleanup. Auth is nil for backends without accounts.
type Result struct {
	Stores  store.Stores
	Auth    *supabase.AuthClient
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// Supabase specific
	SupabaseURL     string
	SupabaseAnonKey string

	// Memory backend specific
	SeedDemoData bool
}

// Type selects the persistence backend.
type Type string

const (
	SupabaseBackend Type = "supabase"
	MemoryBackend   Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case SupabaseBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
