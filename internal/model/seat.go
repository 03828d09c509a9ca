package model

import (
	"errors"
	"math"
	"time"
)

// Seat types supported by the pricing table.  A seat's type never
// changes; pricing is resolved per (show, seat_type).
const (
	SeatTypeRegular = "regular"
	SeatTypeVIP     = "vip"
	SeatTypePremium = "premium"
)

// ValidSeatType reports whether t is one of the recognised seat types.
func ValidSeatType(t string) bool {
	switch t {
	case SeatTypeRegular, SeatTypeVIP, SeatTypePremium:
		return true
	}
	return false
}

// Seat describes a physical seat in a screen.  Seats are immutable
// reference data once created; whether a seat is taken for a given
// show is recorded in the booked_seats ledger, never on the seat
// itself.
//
// Fields:
//  ID         – primary key identifier.
//  ScreenID   – screen to which this seat belongs.
//  SeatNumber – label such as "A1" or "B12".
//  SeatType   – one of regular, vip, premium.
//  CreatedAt  – creation timestamp.
type Seat struct {
	ID         uint64    `json:"id"`
	ScreenID   uint64    `json:"screen_id"`
	SeatNumber string    `json:"seat_number"`
	SeatType   string    `json:"seat_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// ShowSeatPricing maps a seat type to its price for one show.  Rows
// are created when the show is scheduled and the pair (show, seat
// type) is unique.  Bookings snapshot these prices at creation time.
type ShowSeatPricing struct {
	ID         uint64 `json:"id"`
	ShowID     uint64 `json:"show_id"`
	SeatType   string `json:"seat_type"`
	PriceCents uint32 `json:"price_cents"`
}

// ErrPriceOverflow is returned when a booking total does not fit in
// the 32-bit cents column.
var ErrPriceOverflow = errors.New("total price exceeds representable range")

// SumPriceCents totals the price of the given seats using a price map
// keyed by seat type.  It returns the seat type of the first seat
// without a price entry; an empty string means every seat was priced.
// The sum accumulates in 64 bits and fails with ErrPriceOverflow
// rather than wrapping, so a booking can never be stored cheaper than
// its seats.  The returned total is a snapshot: callers persist it on
// the booking and never recompute it.
func SumPriceCents(seats []Seat, prices map[string]uint32) (uint32, string, error) {
	var total uint64
	for _, s := range seats {
		p, ok := prices[s.SeatType]
		if !ok {
			return 0, s.SeatType, nil
		}
		total += uint64(p)
		if total > math.MaxUint32 {
			return 0, "", ErrPriceOverflow
		}
	}
	return uint32(total), "", nil
}
