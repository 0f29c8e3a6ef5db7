// Package http serves the single-page query UI and its JSON API over
// Fiber. Every request is bound to a per-session workspace through a
// cookie, so concurrent users get isolated database sessions.
package http

import (
	"context"
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/TebbyShelby/pricecatcher/pkg/errors"
	"github.com/TebbyShelby/pricecatcher/server/config"
	"github.com/TebbyShelby/pricecatcher/server/workspace"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

//go:embed ui.html
var uiPage []byte

const sessionCookie = "pricecatcher_session"

// Server represents the HTTP protocol server
type Server struct {
	cfg       *config.Config
	manager   *workspace.Manager
	logger    zerolog.Logger
	app       *fiber.App
	wg        sync.WaitGroup
	startTime time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, manager *workspace.Manager, logger zerolog.Logger) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		manager:   manager,
		logger:    logger.With().Str("component", "http-server").Logger(),
		startTime: time.Now(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "pricecatcher",
		DisableStartupMessage: true,
		// The download and query paths block for as long as the
		// operation takes; no server-side deadline is imposed.
		ReadTimeout: 0,
	})

	app.Use(s.sessionMiddleware)

	app.Get("/", s.handleIndex)
	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Post("/credentials", s.handleCredentials)
	api.Post("/connect", s.handleConnect)
	api.Get("/schema", s.handleSchema)
	api.Post("/query", s.handleQuery)
	api.Get("/export", s.handleExport)
	api.Get("/status", s.handleStatus)

	s.app = app
	return s, nil
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Address, s.cfg.Server.Port)
	s.logger.Info().Str("address", addr).Msg("Starting HTTP server")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.app.Listen(addr); err != nil {
			s.logger.Error().
				Err(errors.New(ErrStartFailed, "HTTP server stopped unexpectedly", err)).
				Msg("HTTP server error")
		}
	}()

	s.logger.Info().Msg("HTTP server started successfully")
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error during HTTP server shutdown")
	}

	s.wg.Wait()
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// GetStatus returns server status
func (s *Server) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"address":    s.cfg.Server.Address,
		"port":       s.cfg.Server.Port,
		"workspaces": s.manager.Count(),
		"uptime":     time.Since(s.startTime).String(),
	}
}

// sessionMiddleware binds the request to a workspace via cookie
func (s *Server) sessionMiddleware(c *fiber.Ctx) error {
	ws := s.manager.GetOrCreate(c.Cookies(sessionCookie))
	if ws.ID() != c.Cookies(sessionCookie) {
		c.Cookie(&fiber.Cookie{
			Name:     sessionCookie,
			Value:    ws.ID(),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	c.Locals("workspace", ws)
	return c.Next()
}

// currentWorkspace returns the workspace bound by the middleware
func currentWorkspace(c *fiber.Ctx) *workspace.Workspace {
	return c.Locals("workspace").(*workspace.Workspace)
}
