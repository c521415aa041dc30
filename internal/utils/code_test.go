package utils

import (
	"strings"
	"testing"
)

func TestGenerateTicketCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 200; i++ {
		code, err := GenerateTicketCode()
		if err != nil {
			t.Fatalf("GenerateTicketCode: %v", err)
		}
		if len(code) != TicketCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), TicketCodeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(ticketAlphabet, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
		seen[code] = true
	}

	// 200 draws from a 32^6 space should not collide down to a handful.
	if len(seen) < 190 {
		t.Fatalf("only %d distinct codes out of 200", len(seen))
	}
}

func TestTicketAlphabetAvoidsAmbiguousGlyphs(t *testing.T) {
	for _, c := range "0O1I" {
		if strings.ContainsRune(ticketAlphabet, c) {
			t.Fatalf("alphabet contains ambiguous glyph %q", c)
		}
	}
}
