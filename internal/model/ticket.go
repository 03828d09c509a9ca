package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ticket is issued per (booking, seat) pair once the booking's
// payment succeeds.  Tickets are immutable; they disappear only when
// their booking is deleted.
//
// Fields:
//  ID         – primary key identifier.
//  BookingID  – owning booking.
//  ShowID     – show, denormalized from the booking for queries.
//  SeatID     – seat this ticket admits.
//  TicketCode – globally unique 12 character code.
//  QRPayload  – string encoded into the ticket's QR image.
//  IssuedAt   – issuance timestamp.
type Ticket struct {
	ID         uint64    // tickets.id
	BookingID  uint64    // tickets.booking_id
	ShowID     uint64    // tickets.show_id
	SeatID     uint64    // tickets.seat_id
	TicketCode string    // tickets.ticket_code
	QRPayload  string    // tickets.qr_payload
	IssuedAt   time.Time // tickets.issued_at
}

// NewTicketCode generates a fresh 12 character upper-case ticket code
// from a random UUID.  Collisions are guarded by the unique index on
// tickets.ticket_code.
func NewTicketCode() string {
	return strings.ToUpper(uuid.NewString()[:12])
}

// TicketQRPayload renders the string embedded in a ticket's QR code.
// Scanners at the venue parse this exact format.
func TicketQRPayload(ticketCode, seatNumber string, bookingID uint64) string {
	return fmt.Sprintf("Ticket: %s, Seat: %s, Booking ID: %d", ticketCode, seatNumber, bookingID)
}
