package handlers

import "github.com/gofiber/fiber/v2"

// HealthHandler reports liveness for the load balancer: overall status plus
// the state of the database and SMS dependencies.
type HealthHandler struct {
	version       string
	dbPing        func() error // nil when running on the memory store
	smsConfigured bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, dbPing func() error, smsConfigured bool) *HealthHandler {
	return &HealthHandler{
		version:       version,
		dbPing:        dbPing,
		smsConfigured: smsConfigured,
	}
}

// Check returns the health status of the service. A failing database ping
// flips the whole check to 503 so the instance is pulled from rotation.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbHealthy := true
	if h.dbPing != nil {
		dbHealthy = h.dbPing() == nil
	}

	status := "healthy"
	statusCode := fiber.StatusOK
	if !dbHealthy {
		status = "unhealthy"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"service": "GuzoBus Backend",
		"version": h.version,
		"services": fiber.Map{
			"database": dbHealthy,
			"twilio":   h.smsConfigured,
		},
	})
}
