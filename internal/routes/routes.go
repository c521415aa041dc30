package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/guzotech/guzobus-backend/internal/handlers"
	"github.com/guzotech/guzobus-backend/internal/middleware"
	"github.com/guzotech/guzobus-backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	app *fiber.App,
	smsService *services.SMSService,
	paymentService *services.GatewayPaymentService,
	sessionManager *services.SessionManager,
	smsSender services.SMSSender,
	healthHandler *handlers.HealthHandler,
) {
	smsHandler := handlers.NewSMSHandler(smsService, smsSender)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	adminHandler := handlers.NewAdminHandler(sessionManager)

	// ========== HEALTH CHECK ==========
	app.Get("/health", healthHandler.Check)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	// SMS webhook - environment-aware validation
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		webhooks.Post("/sms", smsHandler.HandleWebhook)
		if os.Getenv("ENVIRONMENT") == "development" {
			println("⚠️  SMS webhook validation DISABLED for development")
		}
	} else {
		webhooks.Post("/sms", middleware.ValidateTwilioSignature(), smsHandler.HandleWebhook)
	}

	// Payment gateway settlement webhook
	webhooks.Post("/payment", paymentHandler.HandleWebhook)

	// ========== TEST ROUTES (Development Only) ==========
	app.Post("/test/sms", smsHandler.HandleTestWebhook)

	// ========== ADMIN ROUTES ==========
	admin := app.Group("/admin", middleware.RequireAdmin())
	admin.Get("/sessions/stats", adminHandler.GetSessionStats)
	admin.Post("/sessions/cleanup", adminHandler.CleanupSessions)
}
