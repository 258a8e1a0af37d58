package http

import (
	"net/http"
	"strconv"
	"time"

	"gestionale/internal/report"
)

func statsCacheKey(now time.Time) string {
	return "stats:" + strconv.Itoa(now.Year())
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	key := statsCacheKey(time.Now())
	if stats, ok := s.statsCache.Get(key); ok {
		NewJSONResponse().Body(stats).Write(w)
		return
	}

	stats, err := s.dashboard.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	s.statsCache.Set(key, stats)
	NewJSONResponse().Body(stats).Write(w)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	stats, ok := s.statsCache.Get(statsCacheKey(now))
	if !ok {
		var err error
		stats, err = s.dashboard.Stats(r.Context())
		if err != nil {
			WriteError(w, err)
			return
		}
		s.statsCache.Set(statsCacheKey(now), stats)
	}

	body := report.Render(stats, now)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="report-`+now.Format("2006-01-02")+`.txt"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		s.logger.Warn("Failed to write report body", "error", err)
	}
}
