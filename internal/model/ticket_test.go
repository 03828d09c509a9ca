package model

import (
	"strings"
	"testing"
)

func TestNewTicketCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewTicketCode()
		if len(code) != 12 {
			t.Fatalf("code %q has length %d, want 12", code, len(code))
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("code %q is not upper case", code)
		}
		if seen[code] {
			t.Fatalf("code %q generated twice in 100 draws", code)
		}
		seen[code] = true
	}
}

func TestTicketQRPayload(t *testing.T) {
	got := TicketQRPayload("ABC123DE-F01", "A7", 42)
	want := "Ticket: ABC123DE-F01, Seat: A7, Booking ID: 42"
	if got != want {
		t.Fatalf("TicketQRPayload = %q, want %q", got, want)
	}
}
