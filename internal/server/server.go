package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/congo_chain/internal/config"
	"github.com/congo-pay/congo_chain/internal/infra"
	"github.com/congo-pay/congo_chain/internal/node"
	"github.com/congo-pay/congo_chain/internal/routes"
)

// Server wraps the Fiber application serving one node.
type Server struct {
	app *fiber.App
	cfg config.Config
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(cfg config.Config, clients *infra.Clients, svc *node.Service, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		DisableStartupMessage: !cfg.IsDev(),
	})

	deps := routes.Deps{Cfg: cfg, Logger: logger, Node: svc}
	if clients != nil {
		deps.DB = clients.DB
		deps.Cache = clients.Cache
	}
	if err := routes.Setup(app, deps); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg}, nil
}

// App exposes the underlying Fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
