package api

import (
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	mcpapi "github.com/stackpile/graphzep/api/mcp"
	"github.com/stackpile/graphzep/pkg/graph"
)

// Server is the HTTP server for the graphzep memory service. It mounts the
// MCP endpoint alongside plain HTTP health and status probes.
type Server struct {
	config  Config
	service *graph.Service
	logger  *slog.Logger
	app     *fiber.App
}

// NewServer creates a new API server. The MCP server is injected so its
// transport handler can be shared with other hosts.
func NewServer(config Config, mcpServer *mcpapi.Server, service *graph.Service, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		service: service,
		logger:  logger,
		app:     app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/status", s.handleStatus)
	app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
