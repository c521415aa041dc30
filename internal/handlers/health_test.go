package handlers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func healthCheck(t *testing.T, h *HealthHandler) (int, map[string]interface{}) {
	t.Helper()

	app := fiber.New()
	app.Get("/health", h.Check)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp.StatusCode, body
}

func TestHealthCheckHealthy(t *testing.T) {
	h := NewHealthHandler("1.0.0", func() error { return nil }, true)

	code, body := healthCheck(t, h)
	if code != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["status"] != "healthy" {
		t.Fatalf("status field = %v, want healthy", body["status"])
	}
	if body["version"] != "1.0.0" {
		t.Fatalf("version = %v, want 1.0.0", body["version"])
	}
}

func TestHealthCheckMemoryStore(t *testing.T) {
	// No database to ping: healthy, SMS unconfigured.
	h := NewHealthHandler("1.0.0", nil, false)

	code, body := healthCheck(t, h)
	if code != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	services := body["services"].(map[string]interface{})
	if services["database"] != true || services["twilio"] != false {
		t.Fatalf("services = %v", services)
	}
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	h := NewHealthHandler("1.0.0", func() error { return fmt.Errorf("connection refused") }, true)

	code, body := healthCheck(t, h)
	if code != fiber.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", code)
	}
	if body["status"] != "unhealthy" {
		t.Fatalf("status field = %v, want unhealthy", body["status"])
	}
}
