// Package http exposes the ledger and its derived views as a JSON API.
// Handlers recompute analytics from ledger state on every request;
// there is no response caching.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"luxe/internal/assistant"
	"luxe/internal/ledger"
)

// Asker is the assistant dependency. Nil disables the endpoint.
type Asker interface {
	Ask(ctx context.Context, question string, snap assistant.Snapshot) (string, error)
}

type Server struct {
	http.Server
	ledger *ledger.Ledger
	asker  Asker

	rateLimiter  *rateLimiter
	metrics      *securityMetrics
	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
// mutationLimit caps mutating requests per client IP per minute.
func NewServer(addr string, l *ledger.Ledger, asker Asker, mutationLimit int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:      l,
		asker:       asker,
		rateLimiter: newRateLimiter(mutationLimit),
		metrics:     &securityMetrics{},
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/expenses", s.guard(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.guard(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.guard(s.handleDeleteExpense))
	mux.HandleFunc("POST /api/earnings", s.guard(s.handleCreateEarning))
	mux.HandleFunc("GET /api/transactions", s.guard(s.handleTransactions))

	mux.HandleFunc("GET /api/dashboard", s.guard(s.handleDashboard))
	mux.HandleFunc("GET /api/insights/budgets", s.guard(s.handleBudgetInsights))
	mux.HandleFunc("GET /api/insights/heatmap", s.guard(s.handleHeatmap))
	mux.HandleFunc("GET /api/insights/distribution", s.guard(s.handleDistribution))

	mux.HandleFunc("GET /api/goal", s.guard(s.handleGetGoal))
	mux.HandleFunc("PUT /api/goal", s.guard(s.handlePutGoal))
	mux.HandleFunc("GET /api/budgets", s.guard(s.handleGetBudgets))
	mux.HandleFunc("PUT /api/budgets", s.guard(s.handlePutBudget))
	mux.HandleFunc("DELETE /api/budgets/{category}", s.guard(s.handleDeleteBudget))
	mux.HandleFunc("GET /api/profile", s.guard(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", s.guard(s.handlePutProfile))

	mux.HandleFunc("GET /api/assistant", s.guard(s.handleAssistantGreeting))
	mux.HandleFunc("POST /api/assistant", s.guard(s.handleAssistant))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// guard adds request logging, rate limiting of mutations, and response
// headers around a handler.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r, s.metrics)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request rejected",
				"client_ip", clientIP, "url", r.URL.String())
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		if mutating(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
