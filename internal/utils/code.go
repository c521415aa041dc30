package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// ticketAlphabet excludes 0/O and 1/I so codes survive being read aloud
const ticketAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// TicketCodeLength is the fixed length of passenger ticket codes
const TicketCodeLength = 6

// GenerateTicketCode generates a cryptographically secure 6-character ticket code
func GenerateTicketCode() (string, error) {
	code := make([]byte, TicketCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(ticketAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		code[i] = ticketAlphabet[n.Int64()]
	}
	return string(code), nil
}
