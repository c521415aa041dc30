package services

import (
	"strings"
	"testing"
	"time"

	"github.com/guzotech/guzobus-backend/internal/models"
)

func TestRenderBothLanguages(t *testing.T) {
	r := NewMessageResolver("")

	en := r.Render(MsgHelp, models.LanguageEnglish, MessageParams{})
	if !strings.Contains(en, "BOOK") {
		t.Fatalf("English help %q missing BOOK", en)
	}

	am := r.Render(MsgHelp, models.LanguageAmharic, MessageParams{})
	if !containsEthiopic(am) {
		t.Fatalf("Amharic help not in Ethiopic script: %q", am)
	}
}

func TestRenderUnknownLanguageFallsBackToEnglish(t *testing.T) {
	r := NewMessageResolver("")

	got := r.Render(MsgHelp, models.Language("FR"), MessageParams{})
	want := r.Render(MsgHelp, models.LanguageEnglish, MessageParams{})
	if got != want {
		t.Fatalf("fallback = %q, want English variant", got)
	}
}

func TestRenderUnknownKeyDegrades(t *testing.T) {
	r := NewMessageResolver("")

	got := r.Render(MessageKey("no_such_key"), models.LanguageEnglish, MessageParams{})
	want := r.Render(MsgSystemError, models.LanguageEnglish, MessageParams{})
	if got != want {
		t.Fatalf("unknown key rendered %q, want system error", got)
	}
}

func TestRenderSupportPhoneSubstitution(t *testing.T) {
	r := NewMessageResolver("+251-11-555-0100")

	got := r.Render(MsgPaymentInitFailed, models.LanguageEnglish, MessageParams{BookingID: "BK00042"})
	if !strings.Contains(got, "+251-11-555-0100") {
		t.Fatalf("reply %q missing support phone", got)
	}
	if strings.Contains(got, "{support}") {
		t.Fatalf("placeholder left unsubstituted: %q", got)
	}
}

func TestTripListNumberingAndPluralization(t *testing.T) {
	r := NewMessageResolver("")
	departure := time.Date(2025, time.March, 11, 6, 30, 0, 0, time.UTC)

	trips := []*models.Trip{
		{CompanyName: "Selam Bus", DepartureTime: departure, AvailableSeats: 1},
		{CompanyName: "Sky Bus", DepartureTime: departure.Add(8 * time.Hour), AvailableSeats: 8},
	}

	got := r.Render(MsgTripList, models.LanguageEnglish, MessageParams{
		Origin: "ADDIS", Destination: "HAWASSA", DateText: "TOMORROW", Trips: trips,
	})

	for _, want := range []string{"1. 6:30 AM - Selam Bus (1 seat)", "2. 2:30 PM - Sky Bus (8 seats)", "(1-2)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("trip list %q missing %q", got, want)
		}
	}
}

func TestDateLabelPrefersLiteralToken(t *testing.T) {
	r := NewMessageResolver("")
	date := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	withText := r.Render(MsgNoTripsFound, models.LanguageEnglish, MessageParams{
		Origin: "ADDIS", Destination: "HAWASSA", DateText: "JAN15", Date: date,
	})
	if !strings.Contains(withText, "JAN15") {
		t.Fatalf("reply %q does not echo the typed token", withText)
	}

	withoutText := r.Render(MsgNoTripsFound, models.LanguageEnglish, MessageParams{
		Origin: "ADDIS", Destination: "HAWASSA", Date: date,
	})
	if !strings.Contains(withoutText, "Thu, Jan 15") {
		t.Fatalf("reply %q missing formatted default date", withoutText)
	}
}

func TestTicketLinesFormat(t *testing.T) {
	r := NewMessageResolver("")

	got := r.Render(MsgPaymentConfirmed, models.LanguageEnglish, MessageParams{
		BookingID: "BK00007",
		Tickets: []models.BookingPassenger{
			{Name: "Abel Tesfaye", SeatNumber: 12, TicketCode: "ABC234"},
			{Name: "Sara Bekele", SeatNumber: 13, TicketCode: "DEF567"},
		},
	})

	for _, want := range []string{"BK00007", "Abel Tesfaye", "#12", "ABC234", "Sara Bekele", "#13", "DEF567"} {
		if !strings.Contains(got, want) {
			t.Fatalf("confirmation %q missing %q", got, want)
		}
	}
}
