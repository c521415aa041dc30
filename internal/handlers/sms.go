package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/guzotech/guzobus-backend/internal/services"
)

// SMSHandler handles inbound SMS webhook requests
type SMSHandler struct {
	smsService *services.SMSService
	smsSender  services.SMSSender
}

// NewSMSHandler creates a new SMS handler
func NewSMSHandler(smsService *services.SMSService, smsSender services.SMSSender) *SMSHandler {
	return &SMSHandler{
		smsService: smsService,
		smsSender:  smsSender,
	}
}

// TwilioWebhookPayload represents an incoming SMS from Twilio
type TwilioWebhookPayload struct {
	MessageSid string `form:"MessageSid"`
	AccountSid string `form:"AccountSid"`
	From       string `form:"From"` // sender phone, E.164
	To         string `form:"To"`   // our Twilio number
	Body       string `form:"Body"` // message text
}

// HandleWebhook processes incoming SMS messages
func (h *SMSHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	log.Printf("📱 SMS from %s: %s", payload.From, payload.Body)

	if payload.Body == "" || payload.From == "" {
		// Status callbacks and empty bodies are acknowledged and dropped.
		return c.SendStatus(fiber.StatusOK)
	}

	response, err := h.smsService.ProcessMessage(payload.From, payload.Body)
	if err != nil {
		log.Printf("Error processing message: %v", err)
		return c.SendStatus(fiber.StatusOK)
	}

	if h.smsSender != nil && response != "" {
		if err := h.smsSender.SendSMS(payload.From, response); err != nil {
			log.Printf("❌ Failed to send SMS response: %v", err)
		}
	} else {
		log.Printf("📤 Response (not sent - Twilio not configured): %s", response)
	}

	return c.SendStatus(fiber.StatusOK)
}

// TestWebhookPayload is the JSON shape for the development endpoint
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook processes test messages without Twilio (for development)
func (h *SMSHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	log.Printf("🧪 Test webhook from %s: %s", payload.From, payload.Message)

	response, err := h.smsService.ProcessMessage(payload.From, payload.Message)
	if err != nil {
		log.Printf("Error processing message: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"response": response,
	})
}
