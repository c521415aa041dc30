package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/guzotech/guzobus-backend/internal/models"
)

// DatabaseStore implements Store on top of PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Session operations

func (d *DatabaseStore) CreateSession(session *models.Session) (*models.Session, error) {
	if err := d.db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (d *DatabaseStore) GetSessionByID(sessionID string) (*models.Session, error) {
	var session models.Session
	err := d.db.Where("session_id = ?", sessionID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (d *DatabaseStore) GetActiveSessionByPhone(phone string, now time.Time) (*models.Session, error) {
	var session models.Session
	err := d.db.
		Where("phone = ? AND expires_at > ?", phone, now).
		Order("created_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (d *DatabaseStore) SaveSession(session *models.Session) error {
	result := d.db.Model(&models.Session{}).
		Where("session_id = ?", session.SessionID).
		Select("*").
		Omit("id", "created_at").
		Updates(session)
	if result.Error != nil {
		return fmt.Errorf("failed to save session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("session not found")
	}
	return nil
}

func (d *DatabaseStore) DeleteExpiredSessions(now time.Time) (int64, error) {
	result := d.db.Where("expires_at < ?", now).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (d *DatabaseStore) SessionStats(now time.Time) (*models.SessionStats, error) {
	stats := &models.SessionStats{}

	var total, active, lastHour int64
	if err := d.db.Model(&models.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	if err := d.db.Model(&models.Session{}).Where("expires_at > ?", now).Count(&active).Error; err != nil {
		return nil, fmt.Errorf("failed to count active sessions: %w", err)
	}
	if err := d.db.Model(&models.Session{}).Where("last_message_at > ?", now.Add(-time.Hour)).Count(&lastHour).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent sessions: %w", err)
	}

	stats.TotalSessions = int(total)
	stats.ActiveSessions = int(active)
	stats.LastHour = int(lastHour)
	return stats, nil
}

// Trip operations

func (d *DatabaseStore) CreateTrip(trip *models.Trip) (*models.Trip, error) {
	if err := d.db.Create(trip).Error; err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	return trip, nil
}

func (d *DatabaseStore) GetTrip(id string) (*models.Trip, error) {
	var trip models.Trip
	err := d.db.First(&trip, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("trip not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

func (d *DatabaseStore) SearchTrips(search *models.TripSearch) ([]*models.Trip, error) {
	dayStart := time.Date(search.Date.Year(), search.Date.Month(), search.Date.Day(), 0, 0, 0, 0, search.Date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var trips []*models.Trip
	query := d.db.
		Where("status = ? AND booking_open = ? AND available_seats > 0", models.TripStatusScheduled, true).
		Where("UPPER(origin) LIKE ?", "%"+strings.ToUpper(search.Origin)+"%").
		Where("UPPER(destination) LIKE ?", "%"+strings.ToUpper(search.Destination)+"%").
		Where("departure_time >= ? AND departure_time < ?", dayStart, dayEnd).
		Order("departure_time ASC")
	if search.Limit > 0 {
		query = query.Limit(search.Limit)
	}
	if err := query.Find(&trips).Error; err != nil {
		return nil, fmt.Errorf("failed to search trips: %w", err)
	}
	return trips, nil
}

func (d *DatabaseStore) UpdateTrip(trip *models.Trip) error {
	if err := d.db.Save(trip).Error; err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return nil
}

// Booking operations

func (d *DatabaseStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	if booking.ID == "" {
		// Highest issued ID, not row count: counting collides with existing
		// rows as soon as any booking has been deleted.
		var lastID string
		err := d.db.Model(&models.Booking{}).
			Select("id").
			Order("id DESC").
			Limit(1).
			Scan(&lastID).Error
		if err != nil {
			return nil, fmt.Errorf("failed to find last booking id: %w", err)
		}
		booking.ID = nextBookingID(lastID)
	}
	if err := d.db.Create(booking).Error; err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return booking, nil
}

// nextBookingID increments the numeric part of a BK%05d identifier. The
// zero padding keeps lexical and numeric order aligned, so the lexically
// greatest row is also the highest issued ID.
func nextBookingID(lastID string) string {
	next := 1
	if lastID != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(lastID, "BK")); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("BK%05d", next)
}

func (d *DatabaseStore) GetBooking(id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.db.Preload("Passengers").First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (d *DatabaseStore) UpdateBooking(booking *models.Booking) error {
	if err := d.db.Save(booking).Error; err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return nil
}

// Ticket operations

func (d *DatabaseStore) GetTicketByCode(code string) (*models.BookingPassenger, error) {
	var ticket models.BookingPassenger
	err := d.db.Where("ticket_code = ?", strings.ToUpper(code)).First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("ticket not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &ticket, nil
}

func (d *DatabaseStore) UpdateTicket(ticket *models.BookingPassenger) error {
	if err := d.db.Save(ticket).Error; err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	return nil
}

// Payment operations

func (d *DatabaseStore) CreatePayment(payment *models.Payment) (*models.Payment, error) {
	if err := d.db.Create(payment).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return payment, nil
}

func (d *DatabaseStore) GetPaymentByReference(reference string) (*models.Payment, error) {
	var payment models.Payment
	err := d.db.Where("reference = ?", reference).Order("created_at DESC").First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("payment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

func (d *DatabaseStore) UpdatePayment(payment *models.Payment) error {
	if err := d.db.Save(payment).Error; err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}
