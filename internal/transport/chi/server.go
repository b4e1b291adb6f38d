// Package chi exposes the search engine over HTTP: the read surface
// (search, autocomplete, stats) and the administrative sync triggers.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/logger"
	"github.com/openbrik/propsearch/internal/metrics"
	healthuc "github.com/openbrik/propsearch/internal/usecase/health"
	searchuc "github.com/openbrik/propsearch/internal/usecase/search"
	syncuc "github.com/openbrik/propsearch/internal/usecase/sync"
)

// Server wires the usecases to HTTP handlers.
type Server struct {
	search *searchuc.Service
	sync   *syncuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	sync *syncuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{search: search, sync: sync, health: health, logger: logger}
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.jsonRecoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(s.wideEventMiddleware)
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/properties", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/autocomplete", s.handleAutocomplete)
		r.Get("/search/stats", s.handleStats)
		r.Post("/sync", s.handleSyncAll)
		r.Post("/{id}/sync", s.handleSyncOne)
	})

	return r
}

// jsonRecoverer returns JSON instead of a plain text stacktrace on panic.
func (s *Server) jsonRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				s.logger.Error("panic recovered",
					zap.Any("panic", rvr),
					zap.Stack("stacktrace"),
				)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// wideEventMiddleware emits a canonical log line per request, propagates
// X-Request-ID and stores a request-scoped logger in the context.
func (s *Server) wideEventMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := chiMiddleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
		}

		reqLogger := s.logger.With(zap.String("request_id", requestID))
		ctx := logger.ContextWithLogger(r.Context(), reqLogger)

		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		reqLogger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", r.RemoteAddr),
			zap.Int("response_bytes", ww.BytesWritten()),
		)
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSearchRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prefix := q.Get("q")
	limit, err := intParam(q, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	names, err := s.search.Autocomplete(r.Context(), prefix, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"suggestions": names})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.search.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSyncOne(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "property id is required")
		return
	}

	s.sync.OnUpdate(id)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled", "id": id})
}

// handleSyncAll starts a full resync in the background; the response never
// waits for it.
func (s *Server) handleSyncAll(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	go func() {
		ctx := logger.ContextWithLogger(context.Background(), log)
		if err := s.sync.FullResync(ctx); err != nil {
			log.Error("manual resync failed", zap.Error(err))
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleDomainError maps domain sentinels to HTTP statuses. An unavailable
// index is reported distinctly from an empty result set.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrIndexUnavailable):
		logger.FromContext(r.Context()).Error("search unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "search unavailable")
	default:
		logger.FromContext(r.Context()).Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
