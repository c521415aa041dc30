package services

import (
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/guzotech/guzobus-backend/internal/models"
	"github.com/guzotech/guzobus-backend/internal/storage"
)

// Passenger collection bounds
const (
	MaxPassengers = 5
	MinNameLength = 2
	MinIDLength   = 3
	TripListLimit = 5
)

// SMSService routes inbound messages through the conversation state machine:
// one message in, one reply out, one state update.
type SMSService struct {
	sessions     *SessionManager
	store        storage.Store
	orchestrator *BookingOrchestrator
	tickets      *TicketService
	messages     *MessageResolver
	pricing      *PricingCalculator
	now          func() time.Time
}

// NewSMSService creates the conversational engine
func NewSMSService(sessions *SessionManager, store storage.Store, orchestrator *BookingOrchestrator, tickets *TicketService, messages *MessageResolver, pricing *PricingCalculator) *SMSService {
	return &SMSService{
		sessions:     sessions,
		store:        store,
		orchestrator: orchestrator,
		tickets:      tickets,
		messages:     messages,
		pricing:      pricing,
		now:          time.Now,
	}
}

// ProcessMessage handles one inbound message and returns the reply text.
// Errors never escape to the transport: every failure becomes a reply in a
// best-effort detected language.
func (s *SMSService) ProcessMessage(phone, message string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic processing message from %s: %v", phone, r)
			reply = s.messages.Render(MsgSystemError, DetectLanguage(message), MessageParams{})
			err = nil
		}
	}()

	// The whole turn runs under the phone's session lock so a rapid
	// double-send or a concurrent settlement webhook cannot produce a
	// lost state update.
	unlock := s.sessions.LockPhone(phone)
	defer unlock()

	raw := strings.TrimSpace(message)
	log.Printf("Processing message from %s: '%s'", phone, raw)

	session, serr := s.sessions.GetOrCreate(phone)
	if serr != nil {
		log.Printf("Failed to load session for %s: %v", phone, serr)
		return s.messages.Render(MsgSystemError, DetectLanguage(raw), MessageParams{}), nil
	}

	// Language is fixed on the session's first turn and never re-detected.
	if session.MessageCount == 0 {
		session.Language = DetectLanguage(raw)
	}

	reply = s.dispatch(session, raw, ParseCommand(raw, s.now()))

	if uerr := s.sessions.Update(session); uerr != nil {
		log.Printf("Failed to persist session %s: %v", session.SessionID, uerr)
		return s.messages.Render(MsgSystemError, session.Language, MessageParams{}), nil
	}
	return reply, nil
}

// dispatch intercepts global commands, then hands the message to the handler
// for the session's current state.
func (s *SMSService) dispatch(session *models.Session, raw string, cmd *Command) string {
	lang := session.Language

	switch cmd.Kind {
	case CommandHelp:
		// HELP never moves the conversation.
		return s.messages.Render(MsgHelp, lang, MessageParams{})

	case CommandCancel:
		resetBookingFields(session)
		session.State = models.StateIdle
		return s.messages.Render(MsgCancelled, lang, MessageParams{})

	case CommandCheck:
		if cmd.TicketCode == "" {
			return s.messages.Render(MsgCheckUsage, lang, MessageParams{})
		}
		return s.tickets.Verify(cmd.TicketCode, lang)
	}

	switch session.State {
	case models.StateIdle:
		return s.handleIdle(session, cmd)
	case models.StateSearch:
		// Reserved for step-by-step search entry; always routes back.
		session.State = models.StateIdle
		return s.messages.Render(MsgHelp, lang, MessageParams{})
	case models.StateSelectTrip:
		return s.handleSelectTrip(session, raw)
	case models.StateAskPassengerCount:
		return s.handleAskPassengerCount(session, raw)
	case models.StateAskPassengerName:
		return s.handleAskPassengerName(session, raw)
	case models.StateAskPassengerID:
		return s.handleAskPassengerID(session, raw)
	case models.StateConfirmBooking:
		return s.handleConfirmBooking(session, raw)
	case models.StateWaitPayment:
		return s.messages.Render(MsgWaitingForPayment, lang, MessageParams{BookingID: session.BookingID})
	case models.StatePaymentSuccess:
		// Terminal state: any further message starts a fresh conversation.
		resetBookingFields(session)
		session.State = models.StateIdle
		return s.handleIdle(session, cmd)
	default:
		log.Printf("Unrecognized state %q for session %s, resetting", session.State, session.SessionID)
		session.State = models.StateIdle
		return s.messages.Render(MsgWelcome, lang, MessageParams{})
	}
}

func (s *SMSService) handleIdle(session *models.Session, cmd *Command) string {
	lang := session.Language

	switch cmd.Kind {
	case CommandBook:
		trips, err := s.store.SearchTrips(&models.TripSearch{
			Origin:      cmd.Origin,
			Destination: cmd.Destination,
			Date:        cmd.Date,
			Limit:       TripListLimit,
		})
		if err != nil {
			log.Printf("Trip search failed: %v", err)
			return s.messages.Render(MsgSystemError, lang, MessageParams{})
		}

		params := MessageParams{
			Origin:      cmd.Origin,
			Destination: cmd.Destination,
			DateText:    cmd.DateText,
			Date:        cmd.Date,
		}
		if len(trips) == 0 {
			return s.messages.Render(MsgNoTripsFound, lang, params)
		}

		ids := make([]string, len(trips))
		for i, trip := range trips {
			ids[i] = trip.ID
		}

		travelDate := cmd.Date
		session.Origin = cmd.Origin
		session.Destination = cmd.Destination
		session.TravelDate = &travelDate
		session.TravelDateText = cmd.DateText
		session.SetTripOptionIDs(ids)
		session.State = models.StateSelectTrip

		params.Trips = trips
		return s.messages.Render(MsgTripList, lang, params)

	case CommandBookIncomplete:
		return s.messages.Render(MsgHelp, lang, MessageParams{})

	default:
		return s.messages.Render(MsgWelcome, lang, MessageParams{})
	}
}

func (s *SMSService) handleSelectTrip(session *models.Session, raw string) string {
	lang := session.Language
	options := session.TripOptionIDs()

	choice, ok := ParseSelection(raw)
	if !ok || choice < 1 || choice > len(options) {
		return s.messages.Render(MsgInvalidSelection, lang, MessageParams{MaxChoice: len(options)})
	}

	// Re-validate: the trip may have sold out or been halted since listing.
	trip, err := s.store.GetTrip(options[choice-1])
	if err != nil || !trip.Bookable() {
		return s.messages.Render(MsgTripUnavailable, lang, MessageParams{})
	}

	session.SelectedTripID = trip.ID
	session.State = models.StateAskPassengerCount
	return s.messages.Render(MsgAskPassengerCount, lang, MessageParams{})
}

func (s *SMSService) handleAskPassengerCount(session *models.Session, raw string) string {
	lang := session.Language

	count, ok := ParseSelection(raw)
	if !ok || count < 1 || count > MaxPassengers {
		return s.messages.Render(MsgInvalidCount, lang, MessageParams{})
	}

	session.PassengerCount = count
	session.CurrentPassengerIndex = 0
	session.PassengerData = ""
	session.PendingName = ""
	session.State = models.StateAskPassengerName
	return s.messages.Render(MsgAskPassengerName, lang, MessageParams{Index: 1, Count: count})
}

func (s *SMSService) handleAskPassengerName(session *models.Session, raw string) string {
	lang := session.Language

	if utf8.RuneCountInString(raw) < MinNameLength {
		return s.messages.Render(MsgNameTooShort, lang, MessageParams{})
	}

	session.PendingName = raw
	session.State = models.StateAskPassengerID
	return s.messages.Render(MsgAskPassengerNatID, lang, MessageParams{Name: raw})
}

func (s *SMSService) handleAskPassengerID(session *models.Session, raw string) string {
	lang := session.Language

	if utf8.RuneCountInString(raw) < MinIDLength {
		return s.messages.Render(MsgNatIDTooShort, lang, MessageParams{})
	}

	passengers := append(session.Passengers(), models.PassengerInput{
		Name:       session.PendingName,
		NationalID: raw,
	})
	session.SetPassengers(passengers)
	session.PendingName = ""

	if len(passengers) < session.PassengerCount {
		session.State = models.StateAskPassengerName
		return s.messages.Render(MsgAskPassengerName, lang, MessageParams{
			Index: len(passengers) + 1,
			Count: session.PassengerCount,
		})
	}

	trip, err := s.store.GetTrip(session.SelectedTripID)
	if err != nil {
		resetBookingFields(session)
		session.State = models.StateIdle
		return s.messages.Render(MsgBookingFailed, lang, MessageParams{Error: err.Error()})
	}

	quote := s.pricing.Quote(trip.Price, session.PassengerCount)
	session.State = models.StateConfirmBooking
	return s.messages.Render(MsgConfirmSummary, lang, MessageParams{
		Trip:   trip,
		Count:  session.PassengerCount,
		Amount: quote.Total,
	})
}

func (s *SMSService) handleConfirmBooking(session *models.Session, raw string) string {
	lang := session.Language

	switch {
	case IsAffirmative(raw):
		return s.orchestrator.Confirm(session)
	case IsNegative(raw):
		// Discarded before any downstream call: no side effects.
		resetBookingFields(session)
		session.State = models.StateIdle
		return s.messages.Render(MsgBookingDiscarded, lang, MessageParams{})
	default:
		return s.messages.Render(MsgConfirmReprompt, lang, MessageParams{})
	}
}
