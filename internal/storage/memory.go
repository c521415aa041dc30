package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/guzotech/guzobus-backend/internal/models"
)

// MemoryStore holds all data in memory for development and tests
type MemoryStore struct {
	sessions map[string]*models.Session // keyed by session ID
	trips    map[string]*models.Trip
	bookings map[string]*models.Booking
	tickets  map[string]*models.BookingPassenger // keyed by ticket code
	payments map[string]*models.Payment          // keyed by transaction ID

	// Mutexes for thread safety
	sessionMu sync.RWMutex
	tripMu    sync.RWMutex
	bookingMu sync.RWMutex
	paymentMu sync.RWMutex

	// Counters for ID generation
	sessionCounter uint
	tripCounter    int
	bookingCounter int
	ticketCounter  uint
	paymentCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		trips:    make(map[string]*models.Trip),
		bookings: make(map[string]*models.Booking),
		tickets:  make(map[string]*models.BookingPassenger),
		payments: make(map[string]*models.Payment),
	}
}

// Session operations

func (m *MemoryStore) CreateSession(session *models.Session) (*models.Session, error) {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	m.sessionCounter++
	session.Model.ID = m.sessionCounter
	session.CreatedAt = time.Now()
	session.UpdatedAt = time.Now()

	copied := *session
	m.sessions[session.SessionID] = &copied
	return session, nil
}

func (m *MemoryStore) GetSessionByID(sessionID string) (*models.Session, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("session not found")
	}
	copied := *session
	return &copied, nil
}

func (m *MemoryStore) GetActiveSessionByPhone(phone string, now time.Time) (*models.Session, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	var newest *models.Session
	for _, session := range m.sessions {
		if session.Phone != phone || session.Expired(now) {
			continue
		}
		if newest == nil || session.CreatedAt.After(newest.CreatedAt) {
			newest = session
		}
	}
	if newest == nil {
		return nil, fmt.Errorf("session not found")
	}
	copied := *newest
	return &copied, nil
}

func (m *MemoryStore) SaveSession(session *models.Session) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	if _, exists := m.sessions[session.SessionID]; !exists {
		return fmt.Errorf("session not found")
	}
	session.UpdatedAt = time.Now()
	copied := *session
	m.sessions[session.SessionID] = &copied
	return nil
}

func (m *MemoryStore) DeleteExpiredSessions(now time.Time) (int64, error) {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	var deleted int64
	for id, session := range m.sessions {
		if session.Expired(now) {
			delete(m.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MemoryStore) SessionStats(now time.Time) (*models.SessionStats, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	stats := &models.SessionStats{TotalSessions: len(m.sessions)}
	for _, session := range m.sessions {
		if !session.Expired(now) {
			stats.ActiveSessions++
		}
		if now.Sub(session.LastMessageAt) <= time.Hour {
			stats.LastHour++
		}
	}
	return stats, nil
}

// Trip operations

func (m *MemoryStore) CreateTrip(trip *models.Trip) (*models.Trip, error) {
	m.tripMu.Lock()
	defer m.tripMu.Unlock()

	if trip.ID == "" {
		m.tripCounter++
		trip.ID = fmt.Sprintf("TR%05d", m.tripCounter)
	}
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = time.Now()

	m.trips[trip.ID] = trip
	return trip, nil
}

func (m *MemoryStore) GetTrip(id string) (*models.Trip, error) {
	m.tripMu.RLock()
	defer m.tripMu.RUnlock()

	trip, exists := m.trips[id]
	if !exists {
		return nil, fmt.Errorf("trip not found")
	}
	copied := *trip
	return &copied, nil
}

func (m *MemoryStore) SearchTrips(search *models.TripSearch) ([]*models.Trip, error) {
	m.tripMu.RLock()
	defer m.tripMu.RUnlock()

	origin := strings.ToUpper(search.Origin)
	destination := strings.ToUpper(search.Destination)

	var results []*models.Trip
	for _, trip := range m.trips {
		if !trip.Bookable() {
			continue
		}
		if !strings.Contains(strings.ToUpper(trip.Origin), origin) {
			continue
		}
		if !strings.Contains(strings.ToUpper(trip.Destination), destination) {
			continue
		}
		if !sameDay(trip.DepartureTime, search.Date) {
			continue
		}
		copied := *trip
		results = append(results, &copied)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DepartureTime.Before(results[j].DepartureTime)
	})

	if search.Limit > 0 && len(results) > search.Limit {
		results = results[:search.Limit]
	}
	return results, nil
}

func (m *MemoryStore) UpdateTrip(trip *models.Trip) error {
	m.tripMu.Lock()
	defer m.tripMu.Unlock()

	if _, exists := m.trips[trip.ID]; !exists {
		return fmt.Errorf("trip not found")
	}
	trip.UpdatedAt = time.Now()
	m.trips[trip.ID] = trip
	return nil
}

// Booking operations

func (m *MemoryStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	m.bookingMu.Lock()
	defer m.bookingMu.Unlock()

	m.bookingCounter++
	booking.ID = fmt.Sprintf("BK%05d", m.bookingCounter)
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	for i := range booking.Passengers {
		m.ticketCounter++
		booking.Passengers[i].ID = m.ticketCounter
		booking.Passengers[i].BookingID = booking.ID
		m.tickets[booking.Passengers[i].TicketCode] = &booking.Passengers[i]
	}

	m.bookings[booking.ID] = booking
	return booking, nil
}

func (m *MemoryStore) GetBooking(id string) (*models.Booking, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()

	booking, exists := m.bookings[id]
	if !exists {
		return nil, fmt.Errorf("booking not found")
	}
	return booking, nil
}

func (m *MemoryStore) UpdateBooking(booking *models.Booking) error {
	m.bookingMu.Lock()
	defer m.bookingMu.Unlock()

	if _, exists := m.bookings[booking.ID]; !exists {
		return fmt.Errorf("booking not found")
	}
	booking.UpdatedAt = time.Now()
	m.bookings[booking.ID] = booking
	return nil
}

// Ticket operations

func (m *MemoryStore) GetTicketByCode(code string) (*models.BookingPassenger, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()

	ticket, exists := m.tickets[strings.ToUpper(code)]
	if !exists {
		return nil, fmt.Errorf("ticket not found")
	}
	return ticket, nil
}

func (m *MemoryStore) UpdateTicket(ticket *models.BookingPassenger) error {
	m.bookingMu.Lock()
	defer m.bookingMu.Unlock()

	existing, exists := m.tickets[ticket.TicketCode]
	if !exists {
		return fmt.Errorf("ticket not found")
	}
	*existing = *ticket
	return nil
}

// Payment operations

func (m *MemoryStore) CreatePayment(payment *models.Payment) (*models.Payment, error) {
	m.paymentMu.Lock()
	defer m.paymentMu.Unlock()

	m.paymentCounter++
	payment.ID = m.paymentCounter
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()

	m.payments[payment.TransactionID] = payment
	return payment, nil
}

func (m *MemoryStore) GetPaymentByReference(reference string) (*models.Payment, error) {
	m.paymentMu.RLock()
	defer m.paymentMu.RUnlock()

	for _, payment := range m.payments {
		if payment.Reference == reference {
			return payment, nil
		}
	}
	return nil, fmt.Errorf("payment not found")
}

func (m *MemoryStore) UpdatePayment(payment *models.Payment) error {
	m.paymentMu.Lock()
	defer m.paymentMu.Unlock()

	if _, exists := m.payments[payment.TransactionID]; !exists {
		return fmt.Errorf("payment not found")
	}
	payment.UpdatedAt = time.Now()
	m.payments[payment.TransactionID] = payment
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
