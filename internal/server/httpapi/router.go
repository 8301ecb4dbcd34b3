package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ysemenov/coinkeeper/internal/logging"
)

// NewRouter wires the API routes. Everything under /api/records requires a
// valid Bearer token; register, login, refresh, and ping are open.
func NewRouter(h *Handlers, secretKey []byte, log logging.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/register", h.handleRegister)
	mux.HandleFunc("/api/login", h.handleLogin)
	mux.HandleFunc("/api/refresh", h.handleRefresh)
	mux.HandleFunc("/api/ping", h.handlePing)

	authed := authMiddleware(secretKey)
	mux.Handle("/api/records", authed(http.HandlerFunc(h.handleRecords)))
	mux.Handle("/api/records/", authed(http.HandlerFunc(h.handleRecordByID)))

	return loggingMiddleware(log, mux)
}

func loggingMiddleware(log logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info(r.Context(), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
