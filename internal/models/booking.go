package models

import "time"

// Booking represents a confirmed reservation for one or more passengers
type Booking struct {
	ID        string `json:"id" gorm:"primaryKey"`
	TripID    string `json:"trip_id"`
	SessionID string `json:"session_id"` // conversation correlation id
	Phone     string `json:"phone"`

	// Pricing
	TicketPrice float64 `json:"ticket_price"` // per-seat price at booking time
	Commission  float64 `json:"commission"`   // GuzoBus 5% service commission
	VAT         float64 `json:"vat"`          // 15% VAT on the commission
	TotalAmount float64 `json:"total_amount"` // what the passenger pays

	// Status tracking
	Status        string `json:"status"`         // "pending", "paid", "cancelled"
	PaymentStatus string `json:"payment_status"` // "pending", "completed", "failed"
	PaymentRef    string `json:"payment_ref"`    // gateway transaction ID

	Passengers []BookingPassenger `json:"passengers" gorm:"foreignKey:BookingID"`

	PaidAt    *time.Time `json:"paid_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BookingPassenger is one seated passenger on a booking. The ticket code
// is the 6-character handle used by the CHECK command.
type BookingPassenger struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	BookingID  string     `json:"booking_id" gorm:"index"`
	Name       string     `json:"name"`
	NationalID string     `json:"national_id"`
	Phone      string     `json:"phone"`
	SeatNumber int        `json:"seat_number"`
	TicketCode string     `json:"ticket_code" gorm:"uniqueIndex"`
	UsedAt     *time.Time `json:"used_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingStatus constants
const (
	BookingStatusPending   = "pending"
	BookingStatusPaid      = "paid"
	BookingStatusCancelled = "cancelled"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)
