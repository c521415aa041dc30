package services

import (
	"fmt"
	"log"

	"github.com/guzotech/guzobus-backend/internal/models"
	"github.com/guzotech/guzobus-backend/internal/storage"
)

// BookingOrchestrator sequences booking creation and payment initiation as
// one logical, deliberately non-atomic operation.
type BookingOrchestrator struct {
	store    storage.Store
	booking  BookingService
	payments PaymentService
	pricing  *PricingCalculator
	messages *MessageResolver
}

// NewBookingOrchestrator creates a new orchestrator
func NewBookingOrchestrator(store storage.Store, booking BookingService, payments PaymentService, pricing *PricingCalculator, messages *MessageResolver) *BookingOrchestrator {
	return &BookingOrchestrator{
		store:    store,
		booking:  booking,
		payments: payments,
		pricing:  pricing,
		messages: messages,
	}
}

// Confirm runs the booking/payment hand-off for a confirmed session. It
// mutates the session to its next state and returns the reply text.
//
// When payment initiation fails after the booking was created, the booking
// stays valid: the user is told to contact support, and the session resets
// to IDLE. That divergence is surfaced, never rolled back.
func (o *BookingOrchestrator) Confirm(session *models.Session) string {
	lang := session.Language

	trip, err := o.store.GetTrip(session.SelectedTripID)
	if err != nil {
		resetBookingFields(session)
		session.State = models.StateIdle
		return o.messages.Render(MsgBookingFailed, lang, MessageParams{Error: err.Error()})
	}
	if !trip.Bookable() || trip.AvailableSeats < session.PassengerCount {
		resetBookingFields(session)
		session.State = models.StateIdle
		return o.messages.Render(MsgTripUnavailable, lang, MessageParams{})
	}

	result, err := o.booking.CreateBooking(&BookingRequest{
		TripID:        trip.ID,
		Passengers:    session.Passengers(),
		Phone:         session.Phone,
		CorrelationID: session.SessionID,
	})
	if err != nil {
		log.Printf("Booking creation failed for session %s: %v", session.SessionID, err)
		resetBookingFields(session)
		session.State = models.StateIdle
		return o.messages.Render(MsgBookingFailed, lang, MessageParams{Error: err.Error()})
	}

	session.BookingID = result.BookingID

	payment, err := o.payments.InitiatePayment(&PaymentRequest{
		Phone:       session.Phone,
		Amount:      result.TotalAmount,
		Reference:   result.BookingID,
		Description: fmt.Sprintf("GuzoBus booking %s (%s-%s)", result.BookingID, trip.Origin, trip.Destination),
	})
	if err != nil {
		// Partial failure: the booking holds, payment must go through support.
		log.Printf("Payment initiation failed for booking %s: %v", result.BookingID, err)
		session.State = models.StateIdle
		return o.messages.Render(MsgPaymentInitFailed, lang, MessageParams{
			BookingID: result.BookingID,
		})
	}

	if _, err := o.store.CreatePayment(&models.Payment{
		TransactionID: payment.TransactionID,
		Phone:         session.Phone,
		Amount:        result.TotalAmount,
		Reference:     result.BookingID,
		Description:   fmt.Sprintf("Booking %s", result.BookingID),
		Status:        models.PaymentStatusPending,
	}); err != nil {
		log.Printf("Failed to record pending payment for %s: %v", result.BookingID, err)
	}

	session.State = models.StateWaitPayment
	return o.messages.Render(MsgPaymentRequested, lang, MessageParams{
		BookingID: result.BookingID,
		Amount:    result.TotalAmount,
	})
}

// resetBookingFields clears the in-progress booking data while keeping the
// session identity and language.
func resetBookingFields(session *models.Session) {
	session.Origin = ""
	session.Destination = ""
	session.TravelDate = nil
	session.TravelDateText = ""
	session.TripOptions = ""
	session.SelectedTripID = ""
	session.PassengerCount = 0
	session.CurrentPassengerIndex = 0
	session.PassengerData = ""
	session.PendingName = ""
}
