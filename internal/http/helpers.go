package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"gestionale/internal/views"
)

// clientIP extracts the originating client address, trusting the
// proxy headers when present.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First hop is the original client.
		if i := strings.Index(xff, ","); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// listSnapshot serves a list from the scoped view state when it is
// still fresh, otherwise refetches. A refresh that raced with a local
// write is served to the caller but not installed, so the newer
// mutation stays visible on the next read.
func listSnapshot[T any](ctx context.Context, sc *views.Scoped[T], scope string, ttl time.Duration, fetch func(context.Context) ([]T, error)) ([]T, error) {
	state := sc.Scope(scope)
	if state.Fresh(ttl) {
		return state.Items(), nil
	}
	started := state.Version()
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	state.Replace(items, started)
	return items, nil
}
