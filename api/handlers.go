package api

import (
	"github.com/gofiber/fiber/v2"
)

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleStatus reports service liveness and the configured collections.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	status, err := s.service.Status(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get status",
		})
	}
	return c.JSON(status)
}
