package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/guzotech/guzobus-backend/internal/models"
)

// CommandKind classifies a parsed inbound message.
type CommandKind int

const (
	CommandNone CommandKind = iota // no global or entry command recognized
	CommandHelp
	CommandCancel
	CommandCheck
	CommandBook
	CommandBookIncomplete // BOOK keyword with fewer than two location tokens
)

// Command is the structured result of parsing one inbound message.
type Command struct {
	Kind        CommandKind
	Origin      string
	Destination string
	DateText    string // raw date token as typed, echoed verbatim in replies
	Date        time.Time
	TicketCode  string
}

// Amharic command keywords. Ethiopic script has no case, so these survive
// the ToUpper normalization unchanged.
const (
	amharicHelp     = "እርዳታ"
	amharicCancel   = "ሰርዝ"
	amharicCheck    = "አረጋግጥ"
	amharicBook     = "ቲኬት"
	amharicBookAlt  = "ጉዞ"
	amharicToday    = "ዛሬ"
	amharicTomorrow = "ነገ"
)

// ParseCommand turns one raw inbound message into a structured intent.
// Global commands win over everything; the BOOK entry command is parsed
// into search criteria with the date defaulting to today.
func ParseCommand(message string, now time.Time) *Command {
	msg := strings.ToUpper(strings.TrimSpace(message))
	fields := strings.Fields(msg)
	if len(fields) == 0 {
		return &Command{Kind: CommandNone}
	}

	switch fields[0] {
	case "HELP", amharicHelp:
		return &Command{Kind: CommandHelp}

	case "CANCEL", amharicCancel:
		return &Command{Kind: CommandCancel}

	case "CHECK", amharicCheck:
		cmd := &Command{Kind: CommandCheck}
		if len(fields) > 1 {
			cmd.TicketCode = fields[1]
		}
		return cmd

	case "BOOK", amharicBook, amharicBookAlt:
		if len(fields) < 3 {
			return &Command{Kind: CommandBookIncomplete}
		}
		cmd := &Command{
			Kind:        CommandBook,
			Origin:      fields[1],
			Destination: fields[2],
			Date:        dateOnly(now),
		}
		if len(fields) > 3 {
			cmd.DateText = fields[3]
			cmd.Date = ParseDateToken(fields[3], now)
		}
		return cmd
	}

	return &Command{Kind: CommandNone}
}

// monthAbbreviations maps 3-letter month prefixes to months.
var monthAbbreviations = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// ParseDateToken evaluates a date token against the grammar, in priority
// order: today/tomorrow keywords, bare day-of-month, month+day ("JAN15").
// Anything invalid falls back to today; a day or month+day earlier than
// today rolls forward to the next occurrence, so the result is always a
// deterministic future (or current) date.
func ParseDateToken(token string, now time.Time) time.Time {
	token = strings.ToUpper(strings.TrimSpace(token))
	today := dateOnly(now)

	switch token {
	case "TODAY", amharicToday:
		return today
	case "TOMORROW", amharicTomorrow:
		return today.AddDate(0, 0, 1)
	}

	// Bare 1-2 digit day of month
	if len(token) <= 2 && isDigits(token) {
		day, err := strconv.Atoi(token)
		if err != nil || day < 1 || day > 31 {
			return today
		}
		candidate := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location())
		// time.Date normalizes overflow ("31" in February becomes March 3);
		// a shifted day means the month has no such date.
		if candidate.Day() != day {
			return today
		}
		if candidate.Before(today) {
			candidate = time.Date(now.Year(), now.Month()+1, day, 0, 0, 0, 0, now.Location())
			if candidate.Day() != day {
				return today
			}
		}
		return candidate
	}

	// 3-letter month abbreviation followed by a day, e.g. JAN15
	if len(token) > 3 {
		month, ok := monthAbbreviations[token[:3]]
		if !ok || !isDigits(token[3:]) {
			return today
		}
		day, err := strconv.Atoi(token[3:])
		if err != nil || day < 1 || day > 31 {
			return today
		}
		candidate := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
		if candidate.Month() != month || candidate.Day() != day {
			return today
		}
		if candidate.Before(today) {
			candidate = time.Date(now.Year()+1, month, day, 0, 0, 0, 0, now.Location())
			if candidate.Month() != month || candidate.Day() != day {
				return today
			}
		}
		return candidate
	}

	return today
}

// ParseSelection parses a numeric menu choice. Anything that is not a clean
// integer is rejected; range checking belongs to the calling state.
func ParseSelection(message string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(message))
	if err != nil {
		return 0, false
	}
	return n, true
}

// DetectLanguage picks the session language from the first inbound message:
// any rune in the Ethiopic block, or a known Amharic keyword, selects Amharic.
func DetectLanguage(message string) models.Language {
	for _, r := range message {
		if r >= 0x1200 && r <= 0x137F {
			return models.LanguageAmharic
		}
	}
	msg := strings.ToUpper(strings.TrimSpace(message))
	switch msg {
	case amharicHelp, amharicCancel, amharicCheck, amharicBook, amharicBookAlt:
		return models.LanguageAmharic
	}
	return models.LanguageEnglish
}

// IsAffirmative reports whether the message is a yes in either language.
func IsAffirmative(message string) bool {
	switch strings.ToUpper(strings.TrimSpace(message)) {
	case "YES", "Y", "OK", "CONFIRM", "አዎ", "አዎን", "እሺ":
		return true
	}
	return false
}

// IsNegative reports whether the message is a no in either language.
func IsNegative(message string) bool {
	switch strings.ToUpper(strings.TrimSpace(message)) {
	case "NO", "N", "አይ", "አይደለም", "የለም":
		return true
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
