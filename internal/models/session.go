package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ConversationState names a position in the booking dialogue.
type ConversationState string

const (
	StateIdle              ConversationState = "IDLE"
	StateSearch            ConversationState = "SEARCH" // reserved for step-by-step search entry
	StateSelectTrip        ConversationState = "SELECT_TRIP"
	StateAskPassengerCount ConversationState = "ASK_PASSENGER_COUNT"
	StateAskPassengerName  ConversationState = "ASK_PASSENGER_NAME"
	StateAskPassengerID    ConversationState = "ASK_PASSENGER_ID"
	StateConfirmBooking    ConversationState = "CONFIRM_BOOKING"
	StateWaitPayment       ConversationState = "WAIT_PAYMENT"
	StatePaymentSuccess    ConversationState = "PAYMENT_SUCCESS"
)

// Language is the reply language for a session, fixed after first-message detection.
type Language string

const (
	LanguageEnglish Language = "EN"
	LanguageAmharic Language = "AM"
)

// PassengerInput is one collected passenger record (name + national ID).
type PassengerInput struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
}

// Session stores the conversation position for one phone number.
// PassengerData and TripOptions are JSON strings so the row stays flat.
type Session struct {
	gorm.Model
	SessionID             string            `json:"session_id" gorm:"uniqueIndex"`
	Phone                 string            `json:"phone" gorm:"index"`
	State                 ConversationState `json:"state"`
	Language              Language          `json:"language"`
	Origin                string            `json:"origin"`
	Destination           string            `json:"destination"`
	TravelDate            *time.Time        `json:"travel_date"`
	TravelDateText        string            `json:"travel_date_text"` // raw date token, echoed in replies
	TripOptions           string            `json:"trip_options"`     // JSON array of trip IDs shown in SELECT_TRIP
	SelectedTripID        string            `json:"selected_trip_id"`
	PassengerCount        int               `json:"passenger_count"`
	CurrentPassengerIndex int               `json:"current_passenger_index"`
	PassengerData         string            `json:"passenger_data"` // JSON array of PassengerInput
	PendingName           string            `json:"pending_name"`   // name captured, waiting for the ID step
	BookingID             string            `json:"booking_id"`
	MessageCount          int               `json:"message_count"`
	LastMessageAt         time.Time         `json:"last_message_at"`
	ExpiresAt             time.Time         `json:"expires_at"`
}

// Passengers decodes the collected passenger records.
func (s *Session) Passengers() []PassengerInput {
	if s.PassengerData == "" {
		return nil
	}
	var passengers []PassengerInput
	if err := json.Unmarshal([]byte(s.PassengerData), &passengers); err != nil {
		return nil
	}
	return passengers
}

// SetPassengers encodes passenger records and keeps the index in step.
func (s *Session) SetPassengers(passengers []PassengerInput) {
	data, _ := json.Marshal(passengers)
	s.PassengerData = string(data)
	s.CurrentPassengerIndex = len(passengers)
}

// TripOptionIDs decodes the trip IDs listed during SELECT_TRIP.
func (s *Session) TripOptionIDs() []string {
	if s.TripOptions == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(s.TripOptions), &ids); err != nil {
		return nil
	}
	return ids
}

// SetTripOptionIDs encodes the listed trip IDs.
func (s *Session) SetTripOptionIDs(ids []string) {
	data, _ := json.Marshal(ids)
	s.TripOptions = string(data)
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
