package http

import (
	"context"
	"net/http"
	"time"

	"gestionale/internal/cache"
	"gestionale/internal/core"
	applog "gestionale/internal/log"
	"gestionale/internal/middleware/ratelimit"
	"gestionale/internal/middleware/security"
	"gestionale/internal/middleware/trace"
	"gestionale/internal/services"
	"gestionale/internal/store"
	"gestionale/internal/supabase"
	"gestionale/internal/views"
)

const (
	shutdownGrace        = 10 * time.Second
	statsCacheSize       = 8
	cacheCleanupInterval = time.Minute
)

// Options configures the API server.
type Options struct {
	Addr      string
	Stores    store.Stores
	Auth      *supabase.AuthClient // nil disables the auth endpoints
	JWTSecret string               // empty skips bearer verification
	Logger    *applog.Logger

	RateLimitPerMinute int
	CacheTTL           time.Duration
}

// Server is the JSON API over the entity stores. It owns the view
// snapshots, the dashboard stats cache and the rate limiter, and wires
// the middleware chain around the route table.
type Server struct {
	httpServer *http.Server
	stores     store.Stores
	auth       *supabase.AuthClient
	jwtSecret  string
	cacheTTL   time.Duration
	logger     *applog.Logger

	limiter      *ratelimit.Limiter
	cacheManager *cache.Manager
	statsCache   *cache.LRUCache[*services.Stats]
	dashboard    *services.DashboardService

	clientViews      *views.Scoped[core.Client]
	projectViews     *views.Scoped[core.Project]
	taskViews        *views.Scoped[core.Task]
	transactionViews *views.Scoped[core.Transaction]
	proposalViews    *views.Scoped[core.Proposal]
}

// NewServer builds the server and its route table.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}

	s := &Server{
		stores:    opts.Stores,
		auth:      opts.Auth,
		jwtSecret: opts.JWTSecret,
		cacheTTL:  opts.CacheTTL,
		logger:    logger,

		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		cacheManager: cache.NewManager(),
		statsCache:   cache.NewLRUCache[*services.Stats](statsCacheSize, opts.CacheTTL),
		dashboard:    services.NewDashboardService(opts.Stores, logger.Logger),

		clientViews:      views.NewScoped(func(c core.Client) string { return c.ID }),
		projectViews:     views.NewScoped(func(p core.Project) string { return p.ID }),
		taskViews:        views.NewScoped(func(t core.Task) string { return t.ID }),
		transactionViews: views.NewScoped(func(t core.Transaction) string { return t.ID }),
		proposalViews:    views.NewScoped(func(p core.Proposal) string { return p.ID }),
	}

	s.cacheManager.Register(s.statsCache)
	s.cacheManager.StartCleanup(cacheCleanupInterval)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.buildHandler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler exposes the full middleware-wrapped handler, mainly for
// tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) buildHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/forgot-password", s.handleForgotPassword)
	mux.HandleFunc("POST /auth/reset-password", s.handleResetPassword)

	mux.HandleFunc("GET /api/clients", s.handleListClients)
	mux.HandleFunc("POST /api/clients", s.handleCreateClient)
	mux.HandleFunc("GET /api/clients/{id}", s.handleGetClient)
	mux.HandleFunc("PATCH /api/clients/{id}", s.handleUpdateClient)
	mux.HandleFunc("DELETE /api/clients/{id}", s.handleDeleteClient)

	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PATCH /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/proposals", s.handleListProposals)
	mux.HandleFunc("POST /api/proposals", s.handleCreateProposal)
	mux.HandleFunc("GET /api/proposals/{id}", s.handleGetProposal)
	mux.HandleFunc("PATCH /api/proposals/{id}", s.handleUpdateProposal)
	mux.HandleFunc("DELETE /api/proposals/{id}", s.handleDeleteProposal)

	mux.HandleFunc("GET /api/dashboard/stats", s.handleDashboardStats)
	mux.HandleFunc("GET /api/report", s.handleReport)

	var handler http.Handler = mux
	handler = s.withAuth(handler)
	handler = s.withRateLimit(handler)
	handler = applog.Middleware(s.logger)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(clientIP).Middleware(handler)
	return handler
}

// withRateLimit throttles mutating requests per client IP. Reads stay
// unthrottled; they are served from snapshots and caches anyway.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(clientIP, func(w http.ResponseWriter, _ *http.Request) {
		TooManyRequestsError().Write(w)
	})(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// ListenAndServe starts the server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("API server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the background loops.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	s.limiter.Stop()
	s.cacheManager.Stop()
	return err
}

// invalidateStats drops every cached dashboard aggregate. Called after
// any write that can move a figure on the dashboard.
func (s *Server) invalidateStats() {
	s.statsCache.Purge()
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// A cheap store read proves the backend is reachable.
	if _, err := s.stores.Clients.List(ctx); err != nil {
		s.logger.WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
		ServiceUnavailableError("data store not reachable").Write(w)
		return
	}
	NewJSONResponse().Body(map[string]string{"status": "ready"}).Write(w)
}
