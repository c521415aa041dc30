package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/guzotech/guzobus-backend/internal/services"
)

// AdminHandler handles monitoring and maintenance operations
type AdminHandler struct {
	sessions *services.SessionManager
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(sessions *services.SessionManager) *AdminHandler {
	return &AdminHandler{sessions: sessions}
}

// GetSessionStats returns the session monitoring aggregate
func (h *AdminHandler) GetSessionStats(c *fiber.Ctx) error {
	stats, err := h.sessions.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch session stats",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// CleanupSessions runs the expiry sweep on demand
func (h *AdminHandler) CleanupSessions(c *fiber.Ctx) error {
	count, err := h.sessions.CleanupExpired()
	if err != nil {
		log.Printf("Manual session cleanup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Cleanup failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"deleted": count,
	})
}
