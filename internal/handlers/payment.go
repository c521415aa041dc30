package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/guzotech/guzobus-backend/internal/services"
)

// PaymentHandler handles payment gateway webhook requests
type PaymentHandler struct {
	paymentService *services.GatewayPaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.GatewayPaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// HandleWebhook processes settlement notifications from the gateway
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	if err := h.paymentService.ProcessPaymentWebhook(c.Body()); err != nil {
		log.Printf("Error processing payment webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"success": true})
}
