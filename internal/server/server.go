package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/RewardArcade_Go/internal/handler"
	"github.com/osse101/RewardArcade_Go/internal/logger"
	"github.com/osse101/RewardArcade_Go/internal/metrics"
)

// Engine is the slice of the engine the HTTP surface calls
type Engine interface {
	handler.SummaryService
	handler.HistoryService
	handler.AdminService
}

// Options configures the HTTP server
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	MaxBodyBytes   int64
}

type Server struct {
	httpServer *http.Server
}

// NewServer builds the ops/admin router. Readiness checks run in order on /readyz.
func NewServer(opts Options, eng Engine, admins handler.AdminChecker, readiness ...handler.ReadinessCheck) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, eng, admins, readiness...),
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			WriteTimeout:      DefaultWriteTimeout,
		},
	}
}

// NewRouter wires middleware and routes
func NewRouter(opts Options, eng Engine, admins handler.AdminChecker, readiness ...handler.ReadinessCheck) http.Handler {
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	detector := NewSuspiciousActivityDetector()

	r := chi.NewRouter()
	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(RateLimitMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(maxBody))

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(readiness...))
	r.Handle("/metrics", promhttp.Handler())

	adminHandler := handler.NewAdminHandler(eng)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/employees/{id}/summary", handler.HandleGetEmployeeSummary(eng))
		r.Get("/employees/{id}/history", handler.HandleGetEmployeeHistory(eng))

		r.Route("/admin", func(r chi.Router) {
			r.Use(handler.RequireAdmin(admins))
			r.Get("/config", adminHandler.HandleExportConfig)
			r.Put("/config", adminHandler.HandleImportConfig)
			r.Patch("/config/{section}", adminHandler.HandleUpdateSection)
			r.Post("/monthly-reset", adminHandler.HandleMonthlyReset)
			r.Post("/auto-reverse", adminHandler.HandleAutoReverse)
			r.Post("/employees/{id}/points", adminHandler.HandleAdjustPoints)
			r.Get("/employees/{id}/reconcile", adminHandler.HandleReconcile)
		})
	})

	return r
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (rw *statusRecorder) WriteHeader(status int) {
	if !rw.written {
		rw.status = status
		rw.written = true
		rw.ResponseWriter.WriteHeader(status)
	}
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// loggingMiddleware tags each request with an id and logs start and completion.
// Health and scrape paths are not logged.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"actor_id", handler.ActorID(r))
		log.Debug(LogMsgRequestHeaders, "headers", redactHeaders(r.Header))

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

func redactHeaders(in http.Header) http.Header {
	out := make(http.Header, len(in))
	for k, v := range in {
		if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
			out[k] = []string{RedactedValue}
			continue
		}
		out[k] = v
	}
	return out
}

// Start serves until Stop is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	slog.Default().Info(LogMsgServerStopping)
	return s.httpServer.Shutdown(ctx)
}
