// Package server provides the HTTP REST API for the career assistant.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/career-assistant/internal/ats"
	"github.com/jonathan/career-assistant/internal/coding"
	"github.com/jonathan/career-assistant/internal/db"
	"github.com/jonathan/career-assistant/internal/interview"
	"github.com/jonathan/career-assistant/internal/metrics"
	"github.com/jonathan/career-assistant/internal/server/middleware"
	"github.com/jonathan/career-assistant/internal/server/ratelimit"
	"github.com/jonathan/career-assistant/internal/templates"
	"github.com/jonathan/career-assistant/internal/types"
)

// ATSScorer scores resumes.
type ATSScorer interface {
	Score(ctx context.Context, req ats.Request) (*types.ATSReport, error)
}

// CodingService generates and explains coding questions.
type CodingService interface {
	Generate(ctx context.Context, req coding.Request) ([]types.CodingQuestion, error)
	AddMore(ctx context.Context, req coding.MoreRequest) ([]types.CodingQuestion, error)
	Explain(ctx context.Context, req coding.ExplainRequest) (*types.Explanation, error)
}

// InterviewService generates interview Q&A.
type InterviewService interface {
	Generate(ctx context.Context, req interview.Request) ([]types.InterviewQA, error)
	GenerateBatch(ctx context.Context, req interview.BatchRequest) ([]types.InterviewSet, error)
}

// EmailService writes email templates.
type EmailService interface {
	Generate(ctx context.Context, req templates.Request) (*types.EmailTemplate, error)
}

// Services are the feature backends. All are required.
type Services struct {
	ATS       ATSScorer
	Coding    CodingService
	Interview InterviewService
	Templates EmailService
}

// Config holds server configuration
type Config struct {
	Port            int
	CORSAllowOrigin string
	// RequestTimeout bounds one AI request including its retries.
	RequestTimeout  time.Duration
	RateLimitPerMin int
	MaxBodyBytes    int64
}

// Default request limits.
const (
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxBodyBytes   = 1 << 20
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	services    Services
	store       db.Store
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
	cfg         Config
}

// New creates a server. store may be nil, in which case results are not
// persisted and the /results routes answer 503.
func New(cfg Config, services Services, store db.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.L()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.CORSAllowOrigin == "" {
		cfg.CORSAllowOrigin = "*"
	}

	s := &Server{
		services:    services,
		store:       store,
		rateLimiter: ratelimit.NewLimiter(ratelimit.NewConfig(cfg.RateLimitPerMin, nil)),
		logger:      logger.Named("server"),
		cfg:         cfg,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /ats/score", handleAI(s, ats.Feature, s.services.ATS.Score))

	mux.HandleFunc("POST /coding/questions", handleAI(s, coding.Feature, s.services.Coding.Generate))
	mux.HandleFunc("POST /coding/questions/more", handleAI(s, coding.Feature, s.services.Coding.AddMore))
	mux.HandleFunc("POST /coding/explain", handleAI(s, coding.Feature, s.services.Coding.Explain))
	mux.HandleFunc("POST /coding/grade", handleAI(s, coding.Feature, func(_ context.Context, req coding.GradeRequest) (*types.GradeReport, error) {
		return coding.Grade(req)
	}))

	mux.HandleFunc("POST /interview/questions", handleAI(s, interview.Feature, s.services.Interview.Generate))
	mux.HandleFunc("POST /interview/questions/batch", handleAI(s, interview.Feature, s.services.Interview.GenerateBatch))

	mux.HandleFunc("POST /templates/email", handleAI(s, templates.Feature, s.services.Templates.Generate))

	mux.HandleFunc("GET /results", s.handleListResults)
	mux.HandleFunc("GET /results/{id}", s.handleGetResult)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	var h http.Handler = mux
	h = s.withRateLimit(h)
	h = s.withCORS(h)
	h = middleware.Logging(s.logger)(h)
	h = middleware.RequestID(h)
	return h
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSAllowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their limit with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if !allowed {
			retryAfter := int(info.RetryAfter.Round(time.Second).Seconds())
			w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			s.logger.Warn("rate limit exceeded",
				zap.String("client", clientID(r)),
				zap.String("path", r.URL.Path))
			s.jsonResponse(w, http.StatusTooManyRequests, ErrorResponse{
				Error:     CodeRateLimited,
				Message:   "Rate limit exceeded. Please try again later.",
				RequestID: middleware.GetRequestID(r.Context()),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID is the remote IP without its port.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}
