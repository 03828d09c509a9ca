// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrBookingNotFound maps to a 404 response, while
// SeatConflictError names every seat a reservation attempt lost to a
// concurrent booking.
package repository

import (
	"errors"
	"fmt"
)

// ErrConflict is returned when an insert or update cannot be
// performed because of conflicting state, such as creating a second
// pricing row for the same (show, seat type) pair. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ErrBookingNotFound indicates that a booking lookup yielded no rows.
var ErrBookingNotFound = errors.New("booking not found")

// ErrPaymentNotFound indicates that a payment lookup yielded no rows.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrTicketNotFound indicates that a ticket lookup yielded no rows.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrDuplicatePayment is returned when a payment already exists for
// the booking. Payments are one-to-one with bookings.
var ErrDuplicatePayment = errors.New("payment already exists for booking")

// ErrScreenMismatch is returned when a requested seat does not belong
// to the screen the show runs on. This is a validation failure on the
// request, not a seat conflict.
var ErrScreenMismatch = errors.New("seat does not belong to the show's screen")

// PricingNotFoundError reports that no pricing row exists for a seat
// type of the show being booked. The seat type is carried so the
// response can name the offending field.
type PricingNotFoundError struct {
	SeatType string
}

func (e *PricingNotFoundError) Error() string {
	return fmt.Sprintf("no price defined for seat type %q", e.SeatType)
}

// SeatConflictError reports that one or more requested seats are
// already held for the show. SeatIDs lists every seat the caller lost,
// in ascending order, so clients can retry with different seats.
type SeatConflictError struct {
	SeatIDs []uint64
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already booked: %v", e.SeatIDs)
}
