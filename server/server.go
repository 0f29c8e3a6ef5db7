package server

import (
	"context"
	"time"

	"github.com/TebbyShelby/pricecatcher/pkg/errors"
	"github.com/TebbyShelby/pricecatcher/server/config"
	"github.com/TebbyShelby/pricecatcher/server/drive"
	"github.com/TebbyShelby/pricecatcher/server/protocols/http"
	"github.com/TebbyShelby/pricecatcher/server/workspace"
	"github.com/rs/zerolog"
)

// Server wires the Drive fetcher, the workspace registry and the HTTP
// protocol server together
type Server struct {
	config     *config.Config
	logger     zerolog.Logger
	manager    *workspace.Manager
	httpServer *http.Server
	startTime  time.Time
}

// New creates a new server instance
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	fetcher := drive.NewGoogleFetcher(drive.Config{
		FolderID:  cfg.Drive.FolderID,
		FileName:  cfg.Drive.FileName,
		ChunkSize: config.DOWNLOAD_CHUNK_SIZE,
	}, logger)

	manager := workspace.NewManager(cfg, fetcher, logger)

	httpServer, err := http.NewServer(cfg, manager, logger)
	if err != nil {
		return nil, errors.New(ErrServerCreationFailed, "failed to create HTTP server", err)
	}

	return &Server{
		config:     cfg,
		logger:     logger.With().Str("component", "server").Logger(),
		manager:    manager,
		httpServer: httpServer,
		startTime:  time.Now(),
	}, nil
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Msg("Starting pricecatcher server...")

	if err := s.httpServer.Start(ctx); err != nil {
		return errors.New(ErrServerStartFailed, "failed to start HTTP server", err)
	}

	s.logger.Info().
		Str("address", s.config.Server.Address).
		Int("port", s.config.Server.Port).
		Str("drive_file", s.config.Drive.FileName).
		Msg("Server started")
	return nil
}

// Shutdown gracefully stops the HTTP server and tears down every live
// workspace so no temporary database or credential files survive
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server...")

	if err := s.httpServer.Stop(); err != nil {
		s.logger.Error().Err(err).Msg("Error stopping HTTP server")
	}

	s.manager.CloseAll()

	s.logger.Info().Msg("Graceful shutdown completed")
	return nil
}

// GetUptime returns the server uptime
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.startTime)
}

// GetStatus returns the server status
func (s *Server) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"uptime":     s.GetUptime().String(),
		"start_time": s.startTime,
		"workspaces": s.manager.Count(),
		"http":       s.httpServer.GetStatus(),
	}
}
