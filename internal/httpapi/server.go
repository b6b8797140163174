// Package httpapi provides the HTTP API for embedrelay.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/embedrelay/internal/embeddings"
	"github.com/fyrsmithlabs/embedrelay/internal/logging"
)

// Embedder resolves text to an embedding vector. Implemented by
// embeddings.Resolver.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string, targetDims int) ([]float32, error)
}

// Server provides HTTP endpoints for embedrelay.
type Server struct {
	echo     *echo.Echo
	embedder Embedder
	logger   *zap.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// DefaultDimensions is used when a request omits target_dimensions.
	DefaultDimensions int
}

// NewServer creates a new HTTP server.
func NewServer(embedder Embedder, logger *zap.Logger, cfg *Config) (*Server, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 9190,
		}
	}
	if cfg.DefaultDimensions <= 0 {
		cfg.DefaultDimensions = embeddings.DefaultDimensions
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

	s := &Server{
		echo:     e,
		embedder: embedder,
		logger:   logger,
		config:   cfg,
	}

	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/embed", s.handleEmbed)
}

// EmbedRequest is the request body for POST /api/v1/embed.
type EmbedRequest struct {
	Text             string `json:"text"`
	TargetDimensions int    `json:"target_dimensions"`
}

// EmbedResponse is the response body for POST /api/v1/embed.
type EmbedResponse struct {
	Embedding  []float32 `json:"embedding"`
	Dimensions int       `json:"dimensions"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleEmbed resolves the request text to an embedding vector.
func (s *Server) handleEmbed(c echo.Context) error {
	var req EmbedRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid embed request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}
	if req.TargetDimensions < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "target_dimensions must be non-negative")
	}

	dims := req.TargetDimensions
	if dims == 0 {
		dims = s.config.DefaultDimensions
	}

	ctx := logging.WithRequestID(c.Request().Context(),
		c.Response().Header().Get(echo.HeaderXRequestID))

	vec, err := s.embedder.GetEmbedding(ctx, req.Text, dims)
	if err != nil {
		s.logger.Error("embedding resolution failed", zap.Error(err))
		if errors.Is(err, embeddings.ErrEmptyInput) {
			return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
		}
		return echo.NewHTTPError(http.StatusBadGateway, "embedding providers unavailable")
	}

	return c.JSON(http.StatusOK, EmbedResponse{
		Embedding:  vec,
		Dimensions: len(vec),
	})
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
