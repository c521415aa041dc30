package storage

import (
	"testing"
	"time"

	"github.com/guzotech/guzobus-backend/internal/models"
)

var testDay = time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)

func seedTrip(t *testing.T, store *MemoryStore, company string, hour int, seats int, status string, open bool) *models.Trip {
	t.Helper()
	trip, err := store.CreateTrip(&models.Trip{
		Origin:         "ADDIS ABABA",
		Destination:    "HAWASSA",
		DepartureTime:  testDay.Add(time.Duration(hour) * time.Hour),
		CompanyName:    company,
		Price:          450,
		TotalSeats:     45,
		AvailableSeats: seats,
		Status:         status,
		BookingOpen:    open,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	return trip
}

func TestSearchTripsFilters(t *testing.T) {
	store := NewMemoryStore()

	seedTrip(t, store, "Selam Bus", 6, 12, models.TripStatusScheduled, true)
	seedTrip(t, store, "Sky Bus", 14, 8, models.TripStatusScheduled, true)
	seedTrip(t, store, "Sold Out", 8, 0, models.TripStatusScheduled, true)
	seedTrip(t, store, "Closed", 9, 10, models.TripStatusScheduled, false)
	seedTrip(t, store, "Cancelled", 10, 10, models.TripStatusCancelled, true)

	// A trip on another day must not match.
	store.CreateTrip(&models.Trip{
		Origin: "ADDIS ABABA", Destination: "HAWASSA",
		DepartureTime: testDay.AddDate(0, 0, 1).Add(6 * time.Hour),
		CompanyName:   "Wrong Day", Price: 450,
		TotalSeats: 45, AvailableSeats: 10,
		Status: models.TripStatusScheduled, BookingOpen: true,
	})

	results, err := store.SearchTrips(&models.TripSearch{
		Origin: "ADDIS", Destination: "HAWASSA", Date: testDay, Limit: 5,
	})
	if err != nil {
		t.Fatalf("SearchTrips: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d trips, want 2", len(results))
	}
	if results[0].CompanyName != "Selam Bus" || results[1].CompanyName != "Sky Bus" {
		t.Fatalf("wrong order: %s, %s", results[0].CompanyName, results[1].CompanyName)
	}
}

func TestSearchTripsSubstringMatch(t *testing.T) {
	store := NewMemoryStore()
	seedTrip(t, store, "Selam Bus", 6, 12, models.TripStatusScheduled, true)

	// "ADDIS" matches "ADDIS ABABA"; case does not matter.
	results, err := store.SearchTrips(&models.TripSearch{
		Origin: "addis", Destination: "hawassa", Date: testDay, Limit: 5,
	})
	if err != nil {
		t.Fatalf("SearchTrips: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d trips, want 1", len(results))
	}

	results, _ = store.SearchTrips(&models.TripSearch{
		Origin: "GONDAR", Destination: "HAWASSA", Date: testDay, Limit: 5,
	})
	if len(results) != 0 {
		t.Fatalf("got %d trips for wrong origin, want 0", len(results))
	}
}

func TestSearchTripsLimit(t *testing.T) {
	store := NewMemoryStore()
	for i := 0; i < 8; i++ {
		seedTrip(t, store, "Bus", 6+i, 10, models.TripStatusScheduled, true)
	}

	results, err := store.SearchTrips(&models.TripSearch{
		Origin: "ADDIS", Destination: "HAWASSA", Date: testDay, Limit: 5,
	})
	if err != nil {
		t.Fatalf("SearchTrips: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("got %d trips, want limit of 5", len(results))
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	created, err := store.CreateSession(&models.Session{
		SessionID: "sess-1", Phone: "+251911234567",
		State: models.StateIdle, Language: models.LanguageEnglish,
		ExpiresAt: now.Add(15 * time.Minute),
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := store.GetActiveSessionByPhone("+251911234567", now)
	if err != nil {
		t.Fatalf("GetActiveSessionByPhone: %v", err)
	}
	if got.SessionID != created.SessionID {
		t.Fatalf("SessionID = %q, want %q", got.SessionID, created.SessionID)
	}

	// Saved changes are visible on the next read.
	got.State = models.StateSelectTrip
	if err := store.SaveSession(got); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	again, _ := store.GetSessionByID("sess-1")
	if again.State != models.StateSelectTrip {
		t.Fatalf("state = %q, want SELECT_TRIP", again.State)
	}

	// At the expiry instant the session no longer resolves by phone.
	at := created.ExpiresAt
	if _, err := store.GetActiveSessionByPhone("+251911234567", at); err == nil {
		t.Fatal("expired session still resolved by phone")
	}

	deleted, err := store.DeleteExpiredSessions(at)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if err := store.SaveSession(got); err == nil {
		t.Fatal("SaveSession succeeded after the sweep")
	}
}

func TestSaveSessionUnknown(t *testing.T) {
	store := NewMemoryStore()
	err := store.SaveSession(&models.Session{SessionID: "missing"})
	if err == nil {
		t.Fatal("SaveSession for unknown session did not error")
	}
}

func TestCreateBookingIssuesIDAndRegistersTickets(t *testing.T) {
	store := NewMemoryStore()
	trip := seedTrip(t, store, "Selam Bus", 6, 12, models.TripStatusScheduled, true)

	booking, err := store.CreateBooking(&models.Booking{
		TripID: trip.ID, Phone: "+251911234567",
		Status: models.BookingStatusPending, PaymentStatus: models.PaymentStatusPending,
		Passengers: []models.BookingPassenger{
			{Name: "Abel Tesfaye", SeatNumber: 34, TicketCode: "ABC234"},
			{Name: "Sara Bekele", SeatNumber: 35, TicketCode: "DEF567"},
		},
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.ID != "BK00001" {
		t.Fatalf("booking ID = %q, want BK00001", booking.ID)
	}

	ticket, err := store.GetTicketByCode("def567")
	if err != nil {
		t.Fatalf("GetTicketByCode: %v", err)
	}
	if ticket.Name != "Sara Bekele" || ticket.BookingID != booking.ID {
		t.Fatalf("ticket = %+v, want Sara Bekele on %s", ticket, booking.ID)
	}

	used := time.Now()
	ticket.UsedAt = &used
	if err := store.UpdateTicket(ticket); err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	again, _ := store.GetTicketByCode("DEF567")
	if again.UsedAt == nil {
		t.Fatal("UsedAt not persisted")
	}
}

func TestPaymentByReference(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.CreatePayment(&models.Payment{
		TransactionID: "TX-00001", Reference: "BK00001",
		Amount: 475.88, Status: models.PaymentStatusPending,
	}); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	payment, err := store.GetPaymentByReference("BK00001")
	if err != nil {
		t.Fatalf("GetPaymentByReference: %v", err)
	}

	payment.Status = models.PaymentStatusCompleted
	if err := store.UpdatePayment(payment); err != nil {
		t.Fatalf("UpdatePayment: %v", err)
	}

	if _, err := store.GetPaymentByReference("BK99999"); err == nil {
		t.Fatal("unknown reference did not error")
	}
}
