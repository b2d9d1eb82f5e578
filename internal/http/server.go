// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applog "financas/internal/log"
	"financas/internal/metrics"
	"financas/internal/services"
)

// maxBodyBytes caps request bodies; every accepted payload is a single record.
const maxBodyBytes = 64 << 10

type Server struct {
	http.Server
	ledger         *services.Ledger
	logger         *applog.Logger
	metricsEnabled bool
	limiter        *writeLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, ledger *services.Ledger, logger *applog.Logger, metricsEnabled bool) *Server {
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		ledger:         ledger,
		logger:         logger.WithComponent(applog.ComponentHTTP),
		metricsEnabled: metricsEnabled,
		limiter:        newWriteLimiter(defaultWritesPerMinute),
	}
	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(applog.Middleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(countRequests)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(s.limiter.middleware)

		r.Route("/banks", func(r chi.Router) {
			r.Get("/", s.handleListBanks)
			r.Post("/", s.handleAddBank)
			r.Delete("/{id}", s.handleDeleteBank)
		})
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.handleListExpenses)
			r.Post("/", s.handleAddExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
			r.Post("/{id}/pay", s.handlePayExpense)
			r.Post("/{id}/revert", s.handleRevertExpense)
		})
		r.Route("/movements", func(r chi.Router) {
			r.Get("/", s.handleListMovements)
			r.Post("/", s.handleAddMovement)
			r.Delete("/{id}", s.handleDeleteMovement)
		})
		r.Route("/investments", func(r chi.Router) {
			r.Get("/", s.handleListInvestments)
			r.Post("/", s.handleAddInvestment)
			r.Delete("/{id}", s.handleDeleteInvestment)
		})
		r.Route("/taxes", func(r chi.Router) {
			r.Get("/", s.handleListTaxes)
			r.Post("/", s.handleAddTax)
			r.Delete("/{id}", s.handleDeleteTax)
			r.Post("/{id}/pay", s.handlePayTax)
			r.Post("/{id}/revert", s.handleRevertTax)
		})

		r.Get("/overview", s.handleOverview)
		r.Get("/suggestions", s.handleSuggestions)
		r.Get("/snapshot", s.handleSnapshot)

		r.Post("/maintenance/reset", s.handleReset)
		r.Post("/maintenance/self-test", s.handleSelfTest)
	})

	return r
}

// Shutdown gracefully stops the server. Later calls are no-ops.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// securityHeaders sets the response headers every JSON answer carries.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// countRequests records one sample per request keyed by the matched route
// pattern, so record ids never become label values.
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Ping(r.Context()); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
