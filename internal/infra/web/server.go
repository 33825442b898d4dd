package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/infra/logging"
	"telegram-group-guardian/internal/infra/metrics"
	"telegram-group-guardian/internal/usecase"
)

// Pinger reports backend liveness for /healthz; production passes the pgx
// pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the ops and admin-stats HTTP surface: health, Prometheus metrics
// and a JWT-guarded read-only view over the usage counters.
type Server struct {
	usageUC usecase.UsageUseCase
	auth    *AuthManager
	pinger  Pinger
	log     *zerolog.Logger
}

func NewServer(usageUC usecase.UsageUseCase, auth *AuthManager, pinger Pinger, logger *zerolog.Logger) *Server {
	return &Server{
		usageUC: usageUC,
		auth:    auth,
		pinger:  pinger,
		log:     logger,
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/stats", s.handleStats)
			r.Get("/stats/chats/{chatID}", s.handleChatStats)
		})
	})
	return r
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ulid.Make().String()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.WithTraceID(r.Context(), id)))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.IncHTTPRequest(route, ww.Status())
		logging.With(r.Context(), s.log).Info().
			Str("method", r.Method).
			Str("route", route).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// requireSession guards the stats endpoints. With no ADMIN_API_TOKEN
// configured the whole admin API is disabled, not just unauthenticated.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.Enabled() {
			http.Error(w, "admin API disabled", http.StatusServiceUnavailable)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
