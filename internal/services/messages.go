package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/guzotech/guzobus-backend/internal/models"
)

// MessageKey names a user-visible outcome.
type MessageKey string

const (
	MsgWelcome             MessageKey = "welcome"
	MsgHelp                MessageKey = "help"
	MsgNoTripsFound        MessageKey = "no_trips_found"
	MsgTripList            MessageKey = "trip_list"
	MsgInvalidSelection    MessageKey = "invalid_selection"
	MsgTripUnavailable     MessageKey = "trip_unavailable"
	MsgAskPassengerCount   MessageKey = "ask_passenger_count"
	MsgInvalidCount        MessageKey = "invalid_passenger_count"
	MsgAskPassengerName    MessageKey = "ask_passenger_name"
	MsgNameTooShort        MessageKey = "name_too_short"
	MsgAskPassengerNatID   MessageKey = "ask_passenger_id"
	MsgNatIDTooShort       MessageKey = "id_too_short"
	MsgConfirmSummary      MessageKey = "confirm_summary"
	MsgConfirmReprompt     MessageKey = "confirm_reprompt"
	MsgBookingDiscarded    MessageKey = "booking_discarded"
	MsgBookingFailed       MessageKey = "booking_failed"
	MsgPaymentRequested    MessageKey = "payment_requested"
	MsgPaymentInitFailed   MessageKey = "payment_init_failed"
	MsgWaitingForPayment   MessageKey = "waiting_for_payment"
	MsgPaymentConfirmed    MessageKey = "payment_confirmed"
	MsgCancelled           MessageKey = "cancelled"
	MsgSystemError         MessageKey = "system_error"
	MsgCheckUsage          MessageKey = "check_usage"
	MsgTicketNotFound      MessageKey = "ticket_not_found"
	MsgTicketAlreadyUsed   MessageKey = "ticket_already_used"
	MsgTicketUnpaid        MessageKey = "ticket_unpaid"
	MsgTicketValid         MessageKey = "ticket_valid"
)

// MessageParams carries everything any template can interpolate. Each key
// documents its own requirements; unused fields are ignored.
type MessageParams struct {
	Origin      string
	Destination string
	DateText    string
	Date        time.Time
	Trips       []*models.Trip
	Trip        *models.Trip
	Index       int
	Count       int
	MaxChoice   int
	Name        string
	Amount      float64
	BookingID   string
	Seats       []int
	Tickets     []models.BookingPassenger
	TicketCode  string
	SeatNumber  int
	UsedAt      *time.Time
	Error       string
}

// template is either a fixed string or a typed formatter, never both.
type template struct {
	fixed  string
	format func(p MessageParams) string
}

func (t template) render(p MessageParams) string {
	if t.format != nil {
		return t.format(p)
	}
	return t.fixed
}

// MessageResolver renders the bilingual reply for every outcome.
type MessageResolver struct {
	supportPhone string
}

// NewMessageResolver creates a resolver. The support phone shows up in
// partial-failure and used-ticket replies.
func NewMessageResolver(supportPhone string) *MessageResolver {
	if supportPhone == "" {
		supportPhone = "8707"
	}
	return &MessageResolver{supportPhone: supportPhone}
}

// Render resolves a message key in the session's language. Unknown keys log
// and degrade to the system-error text so the user always gets a reply.
func (r *MessageResolver) Render(key MessageKey, lang models.Language, p MessageParams) string {
	variants, exists := catalog[key]
	if !exists {
		log.Printf("Missing message template: %s", key)
		variants = catalog[MsgSystemError]
	}

	tmpl, exists := variants[lang]
	if !exists {
		tmpl = variants[models.LanguageEnglish]
	}

	reply := tmpl.render(p)
	if strings.Contains(reply, "{support}") {
		reply = strings.ReplaceAll(reply, "{support}", r.supportPhone)
	}
	return reply
}

// Formatting helpers

func formatETB(amount float64) string {
	return fmt.Sprintf("%.2f ETB", amount)
}

func formatDate(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

func formatTime(t time.Time) string {
	return t.Format("3:04 PM")
}

func seatWord(n int, lang models.Language) string {
	if lang == models.LanguageAmharic {
		return "መቀመጫ"
	}
	if n == 1 {
		return "seat"
	}
	return "seats"
}

// dateLabel prefers the literal token the user typed, falling back to a
// formatted date when the date was defaulted.
func dateLabel(p MessageParams) string {
	if p.DateText != "" {
		return p.DateText
	}
	return formatDate(p.Date)
}

func tripListLines(trips []*models.Trip, lang models.Language) string {
	var b strings.Builder
	for i, trip := range trips {
		fmt.Fprintf(&b, "%d. %s - %s (%d %s)\n",
			i+1, formatTime(trip.DepartureTime), trip.CompanyName,
			trip.AvailableSeats, seatWord(trip.AvailableSeats, lang))
	}
	return strings.TrimRight(b.String(), "\n")
}

func ticketLines(tickets []models.BookingPassenger) string {
	var b strings.Builder
	for _, t := range tickets {
		fmt.Fprintf(&b, "🎫 %s - %s #%d - %s\n", t.Name, "Seat", t.SeatNumber, t.TicketCode)
	}
	return strings.TrimRight(b.String(), "\n")
}

var catalog = map[MessageKey]map[models.Language]template{
	MsgWelcome: {
		models.LanguageEnglish: {fixed: `🚌 Welcome to GuzoBus!

Book intercity bus tickets by SMS.

📍 BOOK <from> <to> [date] - Find trips
🎫 CHECK <code> - Verify a ticket
ℹ️ HELP - All commands

Example: BOOK ADDIS HAWASSA JAN15`},
		models.LanguageAmharic: {fixed: `🚌 እንኳን ወደ ጉዞቡስ በደህና መጡ!

የአውቶብስ ትኬት በኤስኤምኤስ ይያዙ።

📍 ቲኬት <መነሻ> <መድረሻ> [ቀን]
🎫 አረጋግጥ <ኮድ>
ℹ️ እርዳታ

ምሳሌ፦ ቲኬት ADDIS HAWASSA ዛሬ`},
	},

	MsgHelp: {
		models.LanguageEnglish: {fixed: `ℹ️ GuzoBus commands:

📍 BOOK <from> <to> [date] - Search trips
   Dates: TODAY, TOMORROW, 15, JAN15
🎫 CHECK <code> - Verify a ticket
❌ CANCEL - Abandon the current booking
ℹ️ HELP - Show this message

Reply with numbers to pick from lists.`},
		models.LanguageAmharic: {fixed: `ℹ️ የጉዞቡስ ትዕዛዞች፦

📍 ቲኬት <መነሻ> <መድረሻ> [ቀን] - ጉዞ ፈልግ
   ቀን፦ ዛሬ፣ ነገ፣ 15፣ JAN15
🎫 አረጋግጥ <ኮድ> - ትኬት አረጋግጥ
❌ ሰርዝ - ያለውን ሂደት አቋርጥ
ℹ️ እርዳታ - ይህን መልዕክት አሳይ`},
	},

	MsgNoTripsFound: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf("😔 No trips found from %s to %s on %s.\n\nTry another date or route.",
				p.Origin, p.Destination, dateLabel(p))
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf("😔 ከ%s ወደ %s በ%s ጉዞ አልተገኘም።\n\nሌላ ቀን ወይም መስመር ይሞክሩ።",
				p.Origin, p.Destination, dateLabel(p))
		}},
	},

	MsgTripList: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf("🚌 Trips %s → %s on %s:\n\n%s\n\nReply with a number (1-%d) to select.",
				p.Origin, p.Destination, dateLabel(p),
				tripListLines(p.Trips, models.LanguageEnglish), len(p.Trips))
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf("🚌 ጉዞዎች %s → %s በ%s፦\n\n%s\n\nለመምረጥ ቁጥር ይላኩ (1-%d)።",
				p.Origin, p.Destination, dateLabel(p),
				tripListLines(p.Trips, models.LanguageAmharic), len(p.Trips))
		}},
	},

	MsgInvalidSelection: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf("❌ Please reply with a number between 1 and %d.", p.MaxChoice)
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf("❌ እባክዎ ከ1 እስከ %d ያለ ቁጥር ይላኩ።", p.MaxChoice)
		}},
	},

	MsgTripUnavailable: {
		models.LanguageEnglish: {fixed: "😔 That trip is no longer available (sold out or closed).\n\nPick another trip from the list, or send BOOK to search again."},
		models.LanguageAmharic: {fixed: "😔 ይህ ጉዞ ከአሁን በኋላ አይገኝም (ተሞልቷል ወይም ተዘግቷል)።\n\nሌላ ይምረጡ ወይም ቲኬት ብለው እንደገና ይፈልጉ።"},
	},

	MsgAskPassengerCount: {
		models.LanguageEnglish: {fixed: "👥 How many passengers? (1-5)"},
		models.LanguageAmharic: {fixed: "👥 ስንት ተሳፋሪዎች? (1-5)"},
	},

	MsgInvalidCount: {
		models.LanguageEnglish: {fixed: "❌ Please send a number between 1 and 5."},
		models.LanguageAmharic: {fixed: "❌ እባክዎ ከ1 እስከ 5 ያለ ቁጥር ይላኩ።"},
	},

	MsgAskPassengerName: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf("✍️ Passenger %d of %d - what is their full name?", p.Index, p.Count)
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf("✍️ ተሳፋሪ %d ከ%d - ሙሉ ስም ይላኩ።", p.Index, p.Count)
		}},
	},

	MsgNameTooShort: {
		models.LanguageEnglish: {fixed: "❌ Please send the passenger's full name (at least 2 characters)."},
		models.LanguageAmharic: {fixed: "❌ እባክዎ ሙሉ ስም ይላኩ (ቢያንስ 2 ፊደላት)።"},
	},

	MsgAskPassengerNatID: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf("🪪 National ID number for %s?", p.Name)
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf("🪪 የ%s መታወቂያ ቁጥር ይላኩ።", p.Name)
		}},
	},

	MsgNatIDTooShort: {
		models.LanguageEnglish: {fixed: "❌ Please send a valid ID number (at least 3 characters)."},
		models.LanguageAmharic: {fixed: "❌ እባክዎ ትክክለኛ መታወቂያ ቁጥር ይላኩ (ቢያንስ 3 ፊደላት)።"},
	},

	MsgConfirmSummary: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf(`📋 Booking summary:

🚌 %s
📍 %s → %s
🕐 %s at %s
👥 %d %s
💰 Total: %s

Reply YES to confirm or NO to discard.`,
				p.Trip.CompanyName, p.Trip.Origin, p.Trip.Destination,
				formatDate(p.Trip.DepartureTime), formatTime(p.Trip.DepartureTime),
				p.Count, seatWord(p.Count, models.LanguageEnglish), formatETB(p.Amount))
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf(`📋 የቦታ ማስያዝ ማጠቃለያ፦

🚌 %s
📍 %s → %s
🕐 %s በ%s
👥 %d %s
💰 ጠቅላላ፦ %s

ለማረጋገጥ አዎ፣ ለመሰረዝ አይ ይላኩ።`,
				p.Trip.CompanyName, p.Trip.Origin, p.Trip.Destination,
				formatDate(p.Trip.DepartureTime), formatTime(p.Trip.DepartureTime),
				p.Count, seatWord(p.Count, models.LanguageAmharic), formatETB(p.Amount))
		}},
	},

	MsgConfirmReprompt: {
		models.LanguageEnglish: {fixed: "Please reply YES to confirm the booking or NO to discard it."},
		models.LanguageAmharic: {fixed: "እባክዎ ለማረጋገጥ አዎ ወይም ለመሰረዝ አይ ይላኩ።"},
	},

	MsgBookingDiscarded: {
		models.LanguageEnglish: {fixed: "👍 Booking discarded. Send BOOK <from> <to> to start again."},
		models.LanguageAmharic: {fixed: "👍 አልተያዘም። እንደገና ለመጀመር ቲኬት <መነሻ> <መድረሻ> ይላኩ።"},
	},

	MsgBookingFailed: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf("❌ Booking failed: %s\n\nSend BOOK to try again.", p.Error)
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf("❌ ማስያዝ አልተሳካም፦ %s\n\nእንደገና ለመሞከር ቲኬት ይላኩ።", p.Error)
		}},
	},

	MsgPaymentRequested: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf(`✅ Booking %s created!

💰 Pay %s from this phone to complete your purchase. A payment request has been sent to your mobile money account.

Your tickets arrive by SMS once payment clears.`,
				p.BookingID, formatETB(p.Amount))
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf(`✅ ቦታ %s ተይዟል!

💰 ግዢውን ለመጨረስ %s ከዚህ ስልክ ይክፈሉ። የክፍያ ጥያቄ ወደ ሞባይል ገንዘብዎ ተልኳል።

ክፍያው ሲጠናቀቅ ትኬቶችዎ በኤስኤምኤስ ይደርሳሉ።`,
				p.BookingID, formatETB(p.Amount))
		}},
	},

	MsgPaymentInitFailed: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf(`⚠️ Your booking %s is reserved, but the payment request could not be sent.

Please call support at {support} with your booking number to complete payment.`, p.BookingID)
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf(`⚠️ ቦታ %s ተይዟል፣ ነገር ግን የክፍያ ጥያቄው አልተላከም።

ክፍያውን ለመጨረስ በ{support} ድጋፍን ይደውሉ።`, p.BookingID)
		}},
	},

	MsgWaitingForPayment: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf("⏳ Waiting for payment on booking %s. Your tickets arrive by SMS once payment clears.\n\nSend CANCEL to abandon.", p.BookingID)
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf("⏳ ለቦታ %s ክፍያ በመጠበቅ ላይ። ክፍያው ሲጠናቀቅ ትኬቶችዎ ይደርሳሉ።\n\nለማቋረጥ ሰርዝ ይላኩ።", p.BookingID)
		}},
	},

	MsgPaymentConfirmed: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf(`🎉 Payment received! Booking %s is confirmed.

%s

Show a ticket code at boarding. Safe travels!`,
				p.BookingID, ticketLines(p.Tickets))
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf(`🎉 ክፍያ ደርሷል! ቦታ %s ተረጋግጧል።

%s

በመሳፈሪያ ጊዜ የትኬት ኮድ ያሳዩ። መልካም ጉዞ!`,
				p.BookingID, ticketLines(p.Tickets))
		}},
	},

	MsgCancelled: {
		models.LanguageEnglish: {fixed: "✅ Cancelled. Send BOOK <from> <to> whenever you are ready."},
		models.LanguageAmharic: {fixed: "✅ ተሰርዟል። ዝግጁ ሲሆኑ ቲኬት <መነሻ> <መድረሻ> ይላኩ።"},
	},

	MsgSystemError: {
		models.LanguageEnglish: {fixed: "❌ Sorry, something went wrong. Please try again."},
		models.LanguageAmharic: {fixed: "❌ ይቅርታ፣ ስህተት ተከስቷል። እባክዎ እንደገና ይሞክሩ።"},
	},

	MsgCheckUsage: {
		models.LanguageEnglish: {fixed: "🎫 To verify a ticket send: CHECK <6-character code>"},
		models.LanguageAmharic: {fixed: "🎫 ትኬት ለማረጋገጥ፦ አረጋግጥ <ባለ6 ፊደል ኮድ>"},
	},

	MsgTicketNotFound: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf("❌ No ticket found for code %s.", p.TicketCode)
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf("❌ በኮድ %s ትኬት አልተገኘም።", p.TicketCode)
		}},
	},

	MsgTicketAlreadyUsed: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf("⚠️ Ticket %s was already used at %s.\n\nIf this is unexpected, call support at {support}.",
				p.TicketCode, p.UsedAt.Format("3:04 PM, Jan 2"))
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf("⚠️ ትኬት %s በ%s ተጠቅሞበታል።\n\nይህ ያልተጠበቀ ከሆነ በ{support} ይደውሉ።",
				p.TicketCode, p.UsedAt.Format("3:04 PM, Jan 2"))
		}},
	},

	MsgTicketUnpaid: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf("⚠️ Ticket %s exists but its booking is not paid yet.", p.TicketCode)
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf("⚠️ ትኬት %s አለ ነገር ግን ክፍያው ገና አልተጠናቀቀም።", p.TicketCode)
		}},
	},

	MsgTicketValid: {
		models.LanguageEnglish: {format: func(p MessageParams) string {
			return fmt.Sprintf(`✅ Valid ticket %s

👤 %s
💺 Seat %d
🚌 %s
📍 %s → %s
🕐 %s at %s`,
				p.TicketCode, p.Name, p.SeatNumber, p.Trip.CompanyName,
				p.Trip.Origin, p.Trip.Destination,
				formatDate(p.Trip.DepartureTime), formatTime(p.Trip.DepartureTime))
		}},
		models.LanguageAmharic: {format: func(p MessageParams) string {
			return fmt.Sprintf(`✅ ትክክለኛ ትኬት %s

👤 %s
💺 መቀመጫ %d
🚌 %s
📍 %s → %s
🕐 %s በ%s`,
				p.TicketCode, p.Name, p.SeatNumber, p.Trip.CompanyName,
				p.Trip.Origin, p.Trip.Destination,
				formatDate(p.Trip.DepartureTime), formatTime(p.Trip.DepartureTime))
		}},
	},
}
