package services

import (
	"strings"

	"github.com/guzotech/guzobus-backend/internal/models"
	"github.com/guzotech/guzobus-backend/internal/storage"
)

// TicketService verifies tickets for the CHECK command. It is stateless and
// never touches conversation sessions.
type TicketService struct {
	store    storage.Store
	messages *MessageResolver
}

// NewTicketService creates a new ticket verification service
func NewTicketService(store storage.Store, messages *MessageResolver) *TicketService {
	return &TicketService{
		store:    store,
		messages: messages,
	}
}

// Verify resolves a 6-character ticket code into a user-facing reply:
// not-found, already-used, unpaid, or valid with seat and trip details.
// Codes of the wrong length short-circuit without a lookup.
func (t *TicketService) Verify(code string, lang models.Language) string {
	code = strings.ToUpper(strings.TrimSpace(code))

	if len(code) != 6 {
		return t.messages.Render(MsgTicketNotFound, lang, MessageParams{TicketCode: code})
	}

	ticket, err := t.store.GetTicketByCode(code)
	if err != nil {
		return t.messages.Render(MsgTicketNotFound, lang, MessageParams{TicketCode: code})
	}

	if ticket.UsedAt != nil {
		return t.messages.Render(MsgTicketAlreadyUsed, lang, MessageParams{
			TicketCode: code,
			UsedAt:     ticket.UsedAt,
		})
	}

	booking, err := t.store.GetBooking(ticket.BookingID)
	if err != nil {
		return t.messages.Render(MsgTicketNotFound, lang, MessageParams{TicketCode: code})
	}

	if booking.Status != models.BookingStatusPaid {
		return t.messages.Render(MsgTicketUnpaid, lang, MessageParams{TicketCode: code})
	}

	trip, err := t.store.GetTrip(booking.TripID)
	if err != nil {
		return t.messages.Render(MsgTicketNotFound, lang, MessageParams{TicketCode: code})
	}

	return t.messages.Render(MsgTicketValid, lang, MessageParams{
		TicketCode: code,
		Name:       ticket.Name,
		SeatNumber: ticket.SeatNumber,
		Trip:       trip,
	})
}
