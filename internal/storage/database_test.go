package storage

import "testing"

func TestNextBookingID(t *testing.T) {
	tests := []struct {
		name   string
		lastID string
		want   string
	}{
		{"empty table starts at one", "", "BK00001"},
		{"increments the highest issued id", "BK00041", "BK00042"},
		{"survives gaps from deleted rows", "BK00100", "BK00101"},
		{"grows past the padding width", "BK99999", "BK100000"},
		{"unparseable id restarts the sequence", "LEGACY", "BK00001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextBookingID(tt.lastID); got != tt.want {
				t.Fatalf("nextBookingID(%q) = %q, want %q", tt.lastID, got, tt.want)
			}
		})
	}
}
