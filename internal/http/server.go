// Package http is the JSON API surface: ledger and goal CRUD, dashboard
// summaries, the advisory chat, and the kids-mode jars.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finanzas/internal/cache"
	"finanzas/internal/core"
	"finanzas/internal/state"

	"github.com/go-chi/chi/v5"
)

// Adviser generates free-text financial guidance and category suggestions.
type Adviser interface {
	Advise(ctx context.Context, query string, txs []core.Transaction, goals []core.Goal) (text string, isError bool)
	Categorize(ctx context.Context, description string) string
}

type Server struct {
	http.Server

	app     *state.App
	adviser Adviser

	rateLimiter *rateLimiter

	// summaryCache holds computed dashboard aggregates keyed by filter
	// criteria. Any committed mutation clears it wholesale.
	summaryCache     *cache.LRUCache[summaryView]
	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once

	// transcript is the advisory chat history, append-only in completion
	// order. Never persisted.
	transcriptMu sync.Mutex
	transcript   []core.ChatMessage
}

func NewServer(addr string, app *state.App, adviser Adviser) *Server {
	s := &Server{
		app:              app,
		adviser:          adviser,
		rateLimiter:      newRateLimiter(),
		summaryCache:     cache.NewLRUCache[summaryView](100, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	// Ledger and goal mutations invalidate every cached aggregate.
	app.Subscribe(func(state.Event) {
		s.summaryCache.Clear()
	})

	r := chi.NewRouter()
	r.Use(s.withSecurityHeaders)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleCreateTransaction)
		r.Put("/transactions/{id}", s.handleUpdateTransaction)
		r.Delete("/transactions/{id}", s.handleDeleteTransaction)

		r.Get("/goals", s.handleListGoals)
		r.Put("/goals/{id}", s.handleUpsertGoal)

		r.Get("/dashboard/summary", s.handleDashboardSummary)

		r.Post("/advisor/chat", s.handleAdvisorChat)
		r.Get("/advisor/messages", s.handleAdvisorMessages)
		r.Post("/advisor/categorize", s.handleAdvisorCategorize)

		r.Get("/jars", s.handleListJars)
		r.Post("/jars/{type}/deposit", s.handleJarDeposit)
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: r,
	}

	go s.startCacheCleanup()

	return s
}

// startCacheCleanup periodically drops expired summary entries.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.summaryCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit mutations and advisory calls; plain reads are free.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	})
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
