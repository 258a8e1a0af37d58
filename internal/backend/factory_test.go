package backend

import (
	"context"
	"testing"

	"gestionale/internal/config"
)

func TestCreateMemoryBackend(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{
		Type:         MemoryBackend,
		SeedDemoData: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Auth != nil {
		t.Error("memory backend should have no auth surface")
	}

	clients, err := result.Stores.Clients.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(clients) == 0 {
		t.Error("seeded backend has no clients")
	}
}

func TestCreateMemoryBackendWithoutSeed(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clients, err := result.Stores.Clients.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(clients) != 0 {
		t.Errorf("unseeded backend has %d clients, want 0", len(clients))
	}
}

func TestCreateSupabaseBackend(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{
		Type:            SupabaseBackend,
		SupabaseURL:     "https://example.supabase.co",
		SupabaseAnonKey: "anon-key",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Auth == nil {
		t.Error("supabase backend should expose the auth surface")
	}
}

func TestCreateBackendInvalidType(t *testing.T) {
	factory := NewFactory(nil)

	if _, err := factory.CreateBackend(context.Background(), Config{Type: "sqlite"}); err == nil {
		t.Fatal("expected error for invalid backend type")
	}
}

func TestFromAppConfig(t *testing.T) {
	tests := []struct {
		name     string
		app      *config.Config
		wantType Type
		wantErr  bool
	}{
		{
			name:     "memory",
			app:      &config.Config{DataBackend: "memory", SeedDemoData: true},
			wantType: MemoryBackend,
		},
		{
			name: "supabase",
			app: &config.Config{
				DataBackend:     "supabase",
				SupabaseURL:     "https://example.supabase.co",
				SupabaseAnonKey: "k",
			},
			wantType: SupabaseBackend,
		},
		{
			name:    "invalid backend",
			app:     &config.Config{DataBackend: "sqlite"},
			wantErr: true,
		},
		{
			name:    "nil config",
			app:     nil,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAppConfig(tt.app)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory ok", Config{Type: MemoryBackend}, false},
		{
			"supabase ok",
			Config{Type: SupabaseBackend, SupabaseURL: "https://x.supabase.co", SupabaseAnonKey: "k"},
			false,
		},
		{"supabase missing url", Config{Type: SupabaseBackend, SupabaseAnonKey: "k"}, true},
		{"supabase missing key", Config{Type: SupabaseBackend, SupabaseURL: "https://x.supabase.co"}, true},
		{"invalid type", Config{Type: "sqlite"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
