package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gestionale/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{URL: srv.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing url", Config{APIKey: "k"}},
		{"missing key", Config{URL: "https://example.supabase.co"}},
		{"relative url", Config{URL: "example.supabase.co", APIKey: "k"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestQueryRequestShape(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Write([]byte("[]"))
	})

	var out []core.Transaction
	err := c.From("transactions").
		Select("*, clients(*)").
		Eq("area", "studio").
		Gte("date", "2024-01-01").
		Order("date", false).
		Limit(10).
		Get(context.Background(), &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.URL.Path != "/rest/v1/transactions" {
		t.Fatalf("path: %s", got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("select") != "*, clients(*)" {
		t.Fatalf("select: %q", q.Get("select"))
	}
	if q.Get("area") != "eq.studio" {
		t.Fatalf("area filter: %q", q.Get("area"))
	}
	if q.Get("date") != "gte.2024-01-01" {
		t.Fatalf("date filter: %q", q.Get("date"))
	}
	if q.Get("order") != "date.desc" {
		t.Fatalf("order: %q", q.Get("order"))
	}
	if q.Get("limit") != "10" {
		t.Fatalf("limit: %q", q.Get("limit"))
	}
	if got.Header.Get("apikey") != "test-key" {
		t.Fatal("apikey header missing")
	}
	if got.Header.Get("Authorization") != "Bearer test-key" {
		t.Fatalf("authorization: %q", got.Header.Get("Authorization"))
	}
}

func TestSingleRequestsObjectRepresentation(t *testing.T) {
	var accept string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		w.Write([]byte(`{"id":"c1","name":"Marco Rossi","status":"lead"}`))
	})

	var client core.Client
	if err := c.From("clients").Eq("id", "c1").Single().Get(context.Background(), &client); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if accept != "application/vnd.pgrst.object+json" {
		t.Fatalf("accept: %q", accept)
	}
	if client.Name != "Marco Rossi" {
		t.Fatalf("name: %q", client.Name)
	}
}

func TestInsertUnwrapsRowArray(t *testing.T) {
	var prefer string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		prefer = r.Header.Get("Prefer")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"t1","title":"Selezione scatti","status":"todo","priority":"medium"}]`))
	})

	var task core.Task
	err := c.From("tasks").Insert(context.Background(), core.TaskInput{Title: "Selezione scatti"}, &task)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if prefer != "return=representation" {
		t.Fatalf("prefer: %q", prefer)
	}
	if task.ID != "t1" || task.Status != core.TaskTodo {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		single bool
		check  func(t *testing.T, err error)
	}{
		{
			"server error", http.StatusBadGateway, `{"message":"upstream down"}`, false,
			func(t *testing.T, err error) {
				var te *core.TransportError
				if !errors.As(err, &te) || te.StatusCode != http.StatusBadGateway {
					t.Fatalf("expected transport error, got %v", err)
				}
			},
		},
		{
			"constraint violation", http.StatusConflict, `{"message":"duplicate key"}`, false,
			func(t *testing.T, err error) {
				var ve *core.ValidationError
				if !errors.As(err, &ve) || ve.Message != "duplicate key" {
					t.Fatalf("expected validation error, got %v", err)
				}
			},
		},
		{
			"single with zero rows", http.StatusNotAcceptable, `{"code":"PGRST116","message":"no rows"}`, true,
			func(t *testing.T, err error) {
				if !errors.Is(err, core.ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
			},
		},
		{
			"missing table", http.StatusNotFound, `{"message":"relation does not exist"}`, false,
			func(t *testing.T, err error) {
				if !errors.Is(err, core.ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})
			q := c.From("clients")
			if tc.single {
				q = q.Single()
			}
			var out json.RawMessage
			tc.check(t, q.Get(context.Background(), &out))
		})
	}
}

func TestNetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	c, err := New(Config{URL: srv.URL, APIKey: "k"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var out []core.Client
	err = c.From("clients").Get(context.Background(), &out)
	var te *core.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestDecodeRepresentation(t *testing.T) {
	t.Run("empty array into object is not found", func(t *testing.T) {
		var client core.Client
		if err := decodeRepresentation([]byte("[]"), &client); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
	t.Run("array into slice", func(t *testing.T) {
		var clients []core.Client
		if err := decodeRepresentation([]byte(`[{"name":"a"},{"name":"b"}]`), &clients); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(clients) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(clients))
		}
	})
	t.Run("empty body is not found", func(t *testing.T) {
		var client core.Client
		if err := decodeRepresentation(nil, &client); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAuthSignIn(t *testing.T) {
	t.Run("password grant", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL)
			}
			var creds map[string]string
			json.NewDecoder(r.Body).Decode(&creds)
			if creds["email"] != "info@studio.it" {
				t.Errorf("email: %q", creds["email"])
			}
			json.NewEncoder(w).Encode(Session{
				AccessToken: "jwt-token",
				TokenType:   "bearer",
				User:        User{ID: "u1", Email: "info@studio.it"},
			})
		})
		session, err := c.Auth().SignIn(context.Background(), "info@studio.it", "secret")
		if err != nil {
			t.Fatalf("SignIn: %v", err)
		}
		if session.AccessToken != "jwt-token" || session.User.ID != "u1" {
			t.Fatalf("unexpected session: %+v", session)
		}
	})

	t.Run("wrong credentials", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
		})
		_, err := c.Auth().SignIn(context.Background(), "info@studio.it", "wrong")
		var ve *core.ValidationError
		if !errors.As(err, &ve) || ve.Message != "Invalid login credentials" {
			t.Fatalf("expected validation error with GoTrue message, got %v", err)
		}
	})
}
