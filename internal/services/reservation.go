package services

import (
	"fmt"
	"log"

	"github.com/guzotech/guzobus-backend/internal/models"
	"github.com/guzotech/guzobus-backend/internal/storage"
	"github.com/guzotech/guzobus-backend/internal/utils"
)

// BookingRequest is the input to the booking-creation contract.
type BookingRequest struct {
	TripID        string
	Passengers    []models.PassengerInput
	Phone         string
	CorrelationID string // session ID, for idempotency and audit
}

// BookingResult is the output of the booking-creation contract. The server
// side alone computes and validates monetary totals.
type BookingResult struct {
	BookingID   string
	Passengers  []models.BookingPassenger
	TotalAmount float64
}

// BookingService creates bookings against the reservation backend.
type BookingService interface {
	CreateBooking(req *BookingRequest) (*BookingResult, error)
}

// ReservationService is the store-backed BookingService: it assigns seats,
// issues ticket codes and decrements trip availability.
type ReservationService struct {
	store   storage.Store
	pricing *PricingCalculator
}

// NewReservationService creates a new reservation service
func NewReservationService(store storage.Store, pricing *PricingCalculator) *ReservationService {
	return &ReservationService{
		store:   store,
		pricing: pricing,
	}
}

func (r *ReservationService) CreateBooking(req *BookingRequest) (*BookingResult, error) {
	if len(req.Passengers) == 0 {
		return nil, fmt.Errorf("booking needs at least one passenger")
	}

	trip, err := r.store.GetTrip(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("trip lookup failed: %w", err)
	}
	if !trip.Bookable() {
		return nil, fmt.Errorf("trip %s is not open for booking", trip.ID)
	}
	if trip.AvailableSeats < len(req.Passengers) {
		return nil, fmt.Errorf("only %d seats left on trip %s", trip.AvailableSeats, trip.ID)
	}

	quote := r.pricing.Quote(trip.Price, len(req.Passengers))

	// Seats are handed out from the back of the sold block.
	nextSeat := trip.TotalSeats - trip.AvailableSeats + 1

	passengers := make([]models.BookingPassenger, 0, len(req.Passengers))
	for i, p := range req.Passengers {
		code, err := utils.GenerateTicketCode()
		if err != nil {
			return nil, fmt.Errorf("failed to issue ticket code: %w", err)
		}
		passengers = append(passengers, models.BookingPassenger{
			Name:       p.Name,
			NationalID: p.NationalID,
			Phone:      req.Phone,
			SeatNumber: nextSeat + i,
			TicketCode: code,
		})
	}

	booking := &models.Booking{
		TripID:        trip.ID,
		SessionID:     req.CorrelationID,
		Phone:         req.Phone,
		TicketPrice:   trip.Price,
		Commission:    quote.Commission,
		VAT:           quote.VAT,
		TotalAmount:   quote.Total,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Passengers:    passengers,
	}

	created, err := r.store.CreateBooking(booking)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	trip.AvailableSeats -= len(req.Passengers)
	if err := r.store.UpdateTrip(trip); err != nil {
		log.Printf("Failed to decrement seats for trip %s: %v", trip.ID, err)
	}

	log.Printf("Booking %s created: trip %s, %d passengers, total %.2f ETB",
		created.ID, trip.ID, len(req.Passengers), created.TotalAmount)

	return &BookingResult{
		BookingID:   created.ID,
		Passengers:  created.Passengers,
		TotalAmount: created.TotalAmount,
	}, nil
}
