package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/edupath/internal/bootstrap"
	"github.com/yigit/edupath/internal/config"
	"github.com/yigit/edupath/internal/pkg/filestorage"
)

// Server holds the state for the HTTP server.
type Server struct {
	config  *config.Config
	router  *gin.Engine
	infra   *bootstrap.Infrastructure
	logger  zerolog.Logger
	http    *http.Server
	stopHub context.CancelFunc
	hubDone chan struct{}
	// cancels scheduled auto-replies
	stopReplies func()
	closed      bool
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	ctx := context.Background()
	infra, err := bootstrap.SetupInfrastructure(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup infrastructure: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(ctx, cfg, infra, lgr)
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)
	setupStaticFileServing(router, infra.Storage, lgr)

	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		deps.Hub.Run(hubCtx)
	}()

	return &Server{
		config:      cfg,
		router:      router,
		infra:       infra,
		logger:      lgr,
		stopHub:     stopHub,
		hubDone:     hubDone,
		stopReplies: deps.MessageService.Close,
	}, nil
}

// setupStaticFileServing serves local uploads at /uploads; bucket storage serves itself
func setupStaticFileServing(router *gin.Engine, storage filestorage.FileStorage, lgr zerolog.Logger) {
	local, ok := storage.(*filestorage.LocalStorage)
	if !ok {
		return
	}

	router.Static("/uploads", local.BasePath())
	lgr.Info().Str("path", local.BasePath()).Msg("Static file serving configured for uploads directory")
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second, // multipart uploads
		WriteTimeout:      config.Duration(s.config.Server.WriteTimeout),
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.Shutdown(context.Background())
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var shutdownErr error

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownErr = errors.Join(shutdownErr, err)
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	s.logger.Info().Msg("Stopping scheduled auto-replies...")
	s.stopReplies()

	// Websocket connections are hijacked and not covered by http.Server.Shutdown
	s.stopHub()
	select {
	case <-s.hubDone:
	case <-ctx.Done():
		s.logger.Warn().Msg("Timed out waiting for websocket hub to stop")
	}

	s.logger.Info().Msg("Closing broker, key-value store and database connections...")
	if err := s.infra.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing infrastructure")
		shutdownErr = errors.Join(shutdownErr, err)
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown completed with errors: %w", shutdownErr)
	}
	return nil
}
