package models

import "time"

// Trip represents a scheduled intercity bus departure
type Trip struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	CompanyName    string    `json:"company_name"`
	Price          float64   `json:"price"` // ticket price in ETB
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	Status         string    `json:"status"` // "scheduled", "boarding", "departed", "cancelled"
	BookingOpen    bool      `json:"booking_open"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TripStatus constants
const (
	TripStatusScheduled = "scheduled"
	TripStatusBoarding  = "boarding"
	TripStatusDeparted  = "departed"
	TripStatusCancelled = "cancelled"
)

// Bookable reports whether new bookings are accepted for the trip.
func (t *Trip) Bookable() bool {
	return t.Status == TripStatusScheduled && t.BookingOpen && t.AvailableSeats > 0
}

// TripSearch holds trip search criteria from the BOOK command
type TripSearch struct {
	Origin      string    `json:"origin"`      // matched as substring
	Destination string    `json:"destination"` // matched as substring
	Date        time.Time `json:"date"`        // matched by calendar day
	Limit       int       `json:"limit"`
}
