package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"gestionale/internal/core"
	applog "gestionale/internal/log"
)

// Session identifies the authenticated account behind a request.
type Session struct {
	UserID string
	Email  string
}

type sessionContextKey struct{}

// SessionFrom returns the session attached by the auth middleware, if
// any.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(Session)
	return s, ok
}

type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// withAuth verifies the bearer token on API requests. Auth and health
// endpoints stay open. With no JWT secret configured verification is
// skipped entirely; that is the development mode for the memory
// backend, never a production setup.
func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.jwtSecret == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isOpenPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			UnauthorizedError("missing bearer token").Write(w)
			return
		}

		claims := &accessClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			return []byte(s.jwtSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !parsed.Valid {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Rejected bearer token", applog.FieldError, err)
			UnauthorizedError("invalid or expired token").Write(w)
			return
		}

		session := Session{UserID: claims.Subject, Email: claims.Email}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionContextKey{}, session)))
	})
}

func isOpenPath(path string) bool {
	return strings.HasPrefix(path, "/auth/") || path == "/healthz" || path == "/readyz"
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		ServiceUnavailableError("authentication is not available on this backend").Write(w)
		return
	}
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		BadRequestError("email and password are required").Write(w)
		return
	}

	session, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if core.IsValidation(err) {
			// GoTrue answers 400 for wrong credentials; to the API
			// consumer that is an authentication failure.
			UnauthorizedError("invalid credentials").Write(w)
			return
		}
		WriteError(w, err)
		return
	}
	NewJSONResponse().Body(session).Write(w)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		ServiceUnavailableError("authentication is not available on this backend").Write(w)
		return
	}
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		BadRequestError("email and password are required").Write(w)
		return
	}

	session, err := s.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(session).Write(w)
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		ServiceUnavailableError("authentication is not available on this backend").Write(w)
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if req.Email == "" {
		BadRequestError("email is required").Write(w)
		return
	}

	if err := s.auth.Recover(r.Context(), req.Email); err != nil {
		WriteError(w, err)
		return
	}
	// Always 204: the store answers the same whether or not the
	// address exists, and so do we.
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		ServiceUnavailableError("authentication is not available on this backend").Write(w)
		return
	}
	token := bearerToken(r)
	if token == "" {
		UnauthorizedError("missing recovery token").Write(w)
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if req.Password == "" {
		BadRequestError("password is required").Write(w)
		return
	}

	user, err := s.auth.UpdatePassword(r.Context(), token, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}
	NewJSONResponse().Body(user).Write(w)
}
