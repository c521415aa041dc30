package storage

import (
	"time"

	"github.com/guzotech/guzobus-backend/internal/models"
)

// SessionRepository persists conversation sessions.
type SessionRepository interface {
	CreateSession(session *models.Session) (*models.Session, error)
	GetSessionByID(sessionID string) (*models.Session, error)
	// GetActiveSessionByPhone returns the newest session for the phone whose
	// expiry is after now. A missing or expired session is a not-found error.
	GetActiveSessionByPhone(phone string, now time.Time) (*models.Session, error)
	// SaveSession writes the full session row. Fails with not-found if the
	// row no longer exists.
	SaveSession(session *models.Session) error
	DeleteExpiredSessions(now time.Time) (int64, error)
	SessionStats(now time.Time) (*models.SessionStats, error)
}

// TripRepository serves trip search and lookup.
type TripRepository interface {
	CreateTrip(trip *models.Trip) (*models.Trip, error)
	GetTrip(id string) (*models.Trip, error)
	// SearchTrips matches origin/destination as case-insensitive substrings
	// and the date by calendar day, keeps only bookable trips, orders by
	// departure time and caps at search.Limit.
	SearchTrips(search *models.TripSearch) ([]*models.Trip, error)
	UpdateTrip(trip *models.Trip) error
}

// BookingRepository persists bookings and their passengers.
type BookingRepository interface {
	CreateBooking(booking *models.Booking) (*models.Booking, error)
	GetBooking(id string) (*models.Booking, error)
	UpdateBooking(booking *models.Booking) error
}

// TicketRepository resolves ticket codes for the CHECK command.
type TicketRepository interface {
	GetTicketByCode(code string) (*models.BookingPassenger, error)
	UpdateTicket(ticket *models.BookingPassenger) error
}

// PaymentRepository persists payment records.
type PaymentRepository interface {
	CreatePayment(payment *models.Payment) (*models.Payment, error)
	GetPaymentByReference(reference string) (*models.Payment, error)
	UpdatePayment(payment *models.Payment) error
}

// Store defines the interface for storage operations
type Store interface {
	SessionRepository
	TripRepository
	BookingRepository
	TicketRepository
	PaymentRepository
}
