package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/satoshe-sluggers/ownership-indexer/internal/api/middleware"
	"github.com/satoshe-sluggers/ownership-indexer/internal/api/rest"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
)

// Server wraps the HTTP server
type Server struct {
	debug      bool
	cfg        config.ServerConfig
	authCfg    config.AuthConfig
	handler    rest.Handler
	httpServer *http.Server
}

// New creates a new API server
func New(debug bool, cfg config.ServerConfig, authCfg config.AuthConfig, handler rest.Handler) *Server {
	return &Server{
		debug:   debug,
		cfg:     cfg,
		authCfg: authCfg,
		handler: handler,
	}
}

// Start initializes and starts the HTTP server. It blocks until the server
// stops.
func (s *Server) Start() error {
	if s.debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(s.cfg.AllowedOrigins))

	rest.SetupRoutes(router, s.handler, s.authCfg)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeout) * time.Second,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
