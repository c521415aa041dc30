package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/guzotech/guzobus-backend/database"
	"github.com/guzotech/guzobus-backend/internal/handlers"
	"github.com/guzotech/guzobus-backend/internal/jobs"
	"github.com/guzotech/guzobus-backend/internal/models"
	"github.com/guzotech/guzobus-backend/internal/routes"
	"github.com/guzotech/guzobus-backend/internal/services"
	"github.com/guzotech/guzobus-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			err = godotenv.Load("environments/.env.development")
			if err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		memStore := storage.NewMemoryStore()
		seedTrips(memStore)
		store = memStore
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Session{},
			&models.Trip{},
			&models.Booking{},
			&models.BookingPassenger{},
			&models.Payment{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Initialize Twilio service (optional in development)
	var smsSender services.SMSSender
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Printf("⚠️  Twilio service not initialized: %v", err)
	} else {
		smsSender = twilioService
		log.Println("✅ Twilio service initialized")
	}

	// Initialize all services
	messages := services.NewMessageResolver(os.Getenv("SUPPORT_PHONE"))
	pricing := services.NewPricingCalculator()
	sessionManager := services.NewSessionManager(store)
	reservationService := services.NewReservationService(store, pricing)
	paymentService := services.NewGatewayPaymentService(store, smsSender, messages, sessionManager)
	ticketService := services.NewTicketService(store, messages)
	orchestrator := services.NewBookingOrchestrator(store, reservationService, paymentService, pricing, messages)
	smsService := services.NewSMSService(sessionManager, store, orchestrator, ticketService, messages, pricing)

	// Start the session expiry sweep
	cleanupJob := jobs.NewCleanupJob(sessionManager)
	cleanupJob.Start()

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "GuzoBus Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Root endpoint with service status
	app.Get("/", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service":     "GuzoBus Backend API",
			"version":     "1.0.0",
			"status":      "healthy",
			"environment": getEnvironment(),
			"storage":     getStorageType(),
			"sms": fiber.Map{
				"configured": smsSender != nil,
			},
		}

		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			dbStatus := "connected"
			if err != nil {
				dbStatus = "error: " + err.Error()
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error: " + err.Error()
			}

			var tripCount, bookingCount, sessionCount int64
			database.DB.Model(&models.Trip{}).Count(&tripCount)
			database.DB.Model(&models.Booking{}).Count(&bookingCount)
			database.DB.Model(&models.Session{}).Count(&sessionCount)

			response["database"] = fiber.Map{
				"status":   dbStatus,
				"trips":    tripCount,
				"bookings": bookingCount,
				"sessions": sessionCount,
			}
		}

		if stats, err := sessionManager.Stats(); err == nil {
			response["sessions"] = stats
		}

		return c.JSON(response)
	})

	// Health check endpoint for monitoring
	var dbPing func() error
	if os.Getenv("USE_MEMORY_STORE") != "true" {
		dbPing = func() error {
			sqlDB, err := database.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		}
	}
	healthHandler := handlers.NewHealthHandler("1.0.0", dbPing, smsSender != nil)

	// Setup routes
	routes.SetupRoutes(app, smsService, paymentService, sessionManager, smsSender, healthHandler)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping cleanup job...")
		cleanupJob.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚌 GuzoBus Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Printf("📱 SMS: %s", getSMSStatus(smsSender))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

// seedTrips loads sample departures so the flow works without a database
func seedTrips(store *storage.MemoryStore) {
	departure := time.Now().Add(26 * time.Hour)
	trips := []*models.Trip{
		{Origin: "ADDIS ABABA", Destination: "HAWASSA", DepartureTime: departure, CompanyName: "Selam Bus", Price: 450, TotalSeats: 49, AvailableSeats: 49, Status: models.TripStatusScheduled, BookingOpen: true},
		{Origin: "ADDIS ABABA", Destination: "HAWASSA", DepartureTime: departure.Add(2 * time.Hour), CompanyName: "Sky Bus", Price: 520, TotalSeats: 45, AvailableSeats: 30, Status: models.TripStatusScheduled, BookingOpen: true},
		{Origin: "ADDIS ABABA", Destination: "BAHIR DAR", DepartureTime: departure.Add(time.Hour), CompanyName: "Abay Bus", Price: 780, TotalSeats: 49, AvailableSeats: 12, Status: models.TripStatusScheduled, BookingOpen: true},
	}
	for _, trip := range trips {
		if _, err := store.CreateTrip(trip); err != nil {
			log.Printf("Failed to seed trip: %v", err)
		}
	}
	log.Printf("Seeded %d sample trips", len(trips))
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getSMSStatus(sender services.SMSSender) string {
	if sender == nil {
		return "Not configured"
	}
	return "Configured"
}
