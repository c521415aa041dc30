package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the PostgreSQL connection. On Cloud Run the Cloud SQL proxy
// exposes a unix socket under /cloudsql; everywhere else we dial TCP with
// DB_HOST/DB_PORT (defaulting to a local postgres).
func Connect() {
	var err error

	dbUser := envOr("DB_USER", "postgres")
	dbPass := os.Getenv("DB_PASS")
	dbName := envOr("DB_NAME", "guzobus")

	instanceConnectionName := os.Getenv("INSTANCE_CONNECTION_NAME")

	var dsn string
	if instanceConnectionName != "" {
		dsn = fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			instanceConnectionName, dbUser, dbPass, dbName)
		log.Printf("🚌 GuzoBus connecting to Cloud SQL via socket: %s", instanceConnectionName)
	} else {
		dbHost := envOr("DB_HOST", "localhost")
		dbPort := envOr("DB_PORT", "5432")
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			dbHost, dbUser, dbPass, dbName, dbPort)
		log.Printf("🚌 GuzoBus connecting to PostgreSQL at %s:%s/%s", dbHost, dbPort, dbName)
	}

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Printf("❌ Failed to connect to booking database: %v", err)
		panic(err)
	}

	log.Println("✅ Booking database connected")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
