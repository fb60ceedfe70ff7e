// Package http provides the HTTP API for orgmatchd.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fernwerk/orgmatch/internal/logging"
	"github.com/fernwerk/orgmatch/internal/matching"
	"github.com/fernwerk/orgmatch/internal/tenant"
)

// CompanyResolver runs the matching cascade for one candidate set.
type CompanyResolver interface {
	Resolve(ctx context.Context, variants []matching.CandidateVariant, tenantID, userID string, autoGlobal bool) (*matching.MatchResult, error)
}

// Server provides HTTP endpoints for orgmatchd.
type Server struct {
	echo     *echo.Echo
	resolver CompanyResolver
	limiter  *TenantLimiter
	logger   *zap.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// RateLimit is the per-tenant resolve rate in requests per second.
	// Zero disables limiting.
	RateLimit float64
	// RateBurst is the per-tenant burst allowance.
	RateBurst int
}

// NewServer creates a new HTTP server.
func NewServer(resolver CompanyResolver, logger *zap.Logger, metrics *HTTPMetrics, cfg *Config) (*Server, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 9290,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})
	if metrics != nil {
		e.Use(metrics.MetricsMiddleware())
	}

	s := &Server{
		echo:     e,
		resolver: resolver,
		limiter:  NewTenantLimiter(cfg.RateLimit, cfg.RateBurst),
		logger:   logger,
		config:   cfg,
	}

	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/resolve", s.handleResolve)
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleResolve runs the matching cascade for the posted candidate set.
func (s *Server) handleResolve(c echo.Context) error {
	var req ResolveRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid resolve request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.TenantID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tenantId field is required")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId field is required")
	}

	// Validate ids before the limiter so an unvalidated tenant id never
	// allocates a rate bucket.
	if err := tenant.ValidateTenantID(req.TenantID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := tenant.ValidateUserID(req.UserID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if !s.limiter.Allow(req.TenantID) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "tenant rate limit exceeded")
	}

	ctx := logging.WithTenantID(c.Request().Context(), req.TenantID)
	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		ctx = logging.WithRequestID(ctx, rid)
	}

	result, err := s.resolver.Resolve(ctx, req.Variants, req.TenantID, req.UserID, req.AutoGlobal)
	if err != nil {
		if errors.Is(err, tenant.ErrInvalidTenantID) || errors.Is(err, tenant.ErrInvalidUserID) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.logger.Error("resolution failed",
			zap.String("tenant", req.TenantID),
			zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "resolution failed")
	}

	return c.JSON(http.StatusOK, ResolveResponse{Result: result})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
