package services

import (
	"strings"
	"testing"
	"time"

	"github.com/guzotech/guzobus-backend/internal/models"
	"github.com/guzotech/guzobus-backend/internal/storage"
)

// countingStore counts ticket lookups to verify the length short-circuit.
type countingStore struct {
	*storage.MemoryStore
	ticketLookups int
}

func (c *countingStore) GetTicketByCode(code string) (*models.BookingPassenger, error) {
	c.ticketLookups++
	return c.MemoryStore.GetTicketByCode(code)
}

func newTicketFixture(t *testing.T) (*TicketService, *countingStore, *models.Booking) {
	t.Helper()

	store := &countingStore{MemoryStore: storage.NewMemoryStore()}

	trip, err := store.CreateTrip(&models.Trip{
		Origin: "ADDIS ABABA", Destination: "HAWASSA",
		DepartureTime: time.Date(2025, time.March, 11, 6, 30, 0, 0, time.UTC),
		CompanyName:   "Selam Bus", Price: 450,
		TotalSeats: 45, AvailableSeats: 12,
		Status: models.TripStatusScheduled, BookingOpen: true,
	})
	if err != nil {
		t.Fatalf("seed trip: %v", err)
	}

	booking, err := store.CreateBooking(&models.Booking{
		TripID: trip.ID, Phone: "+251911234567",
		Status: models.BookingStatusPending, PaymentStatus: models.PaymentStatusPending,
		Passengers: []models.BookingPassenger{
			{Name: "Abel Tesfaye", NationalID: "ID1234567", SeatNumber: 34, TicketCode: "ABC234"},
		},
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	return NewTicketService(store, NewMessageResolver("")), store, booking
}

func markPaid(t *testing.T, store *countingStore, booking *models.Booking) {
	t.Helper()
	booking.Status = models.BookingStatusPaid
	booking.PaymentStatus = models.PaymentStatusCompleted
	if err := store.UpdateBooking(booking); err != nil {
		t.Fatalf("UpdateBooking: %v", err)
	}
}

func TestVerifyWrongLengthSkipsLookup(t *testing.T) {
	svc, store, _ := newTicketFixture(t)

	for _, code := range []string{"", "AB", "ABC23", "ABC2345"} {
		reply := svc.Verify(code, models.LanguageEnglish)
		if !strings.Contains(reply, "No ticket found") {
			t.Fatalf("Verify(%q) = %q, want not-found", code, reply)
		}
	}
	if store.ticketLookups != 0 {
		t.Fatalf("%d lookups for malformed codes, want 0", store.ticketLookups)
	}
}

func TestVerifyUnknownCode(t *testing.T) {
	svc, store, _ := newTicketFixture(t)

	reply := svc.Verify("ZZZZZZ", models.LanguageEnglish)
	if !strings.Contains(reply, "ZZZZZZ") {
		t.Fatalf("reply %q does not echo the code", reply)
	}
	if store.ticketLookups != 1 {
		t.Fatalf("lookups = %d, want 1", store.ticketLookups)
	}
}

func TestVerifyUnpaidBooking(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	reply := svc.Verify("ABC234", models.LanguageEnglish)
	if !strings.Contains(reply, "not paid") {
		t.Fatalf("reply = %q, want unpaid warning", reply)
	}
}

func TestVerifyValidTicket(t *testing.T) {
	svc, store, booking := newTicketFixture(t)
	markPaid(t, store, booking)

	reply := svc.Verify("abc234", models.LanguageEnglish)
	for _, want := range []string{"ABC234", "Abel Tesfaye", "Seat 34", "Selam Bus", "HAWASSA"} {
		if !strings.Contains(reply, want) {
			t.Fatalf("reply %q missing %q", reply, want)
		}
	}
}

func TestVerifyUsedTicket(t *testing.T) {
	svc, store, booking := newTicketFixture(t)
	markPaid(t, store, booking)

	used := time.Date(2025, time.March, 11, 6, 10, 0, 0, time.UTC)
	ticket := booking.Passengers[0]
	ticket.UsedAt = &used
	if err := store.UpdateTicket(&ticket); err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}

	reply := svc.Verify("ABC234", models.LanguageEnglish)
	if !strings.Contains(reply, "already used") {
		t.Fatalf("reply = %q, want already-used warning", reply)
	}
	if !strings.Contains(reply, "8707") {
		t.Fatalf("reply = %q, want support phone", reply)
	}
}

func TestVerifyAmharic(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	reply := svc.Verify("ZZZZZZ", models.LanguageAmharic)
	if !containsEthiopic(reply) {
		t.Fatalf("Amharic verify replied in English: %q", reply)
	}
}
