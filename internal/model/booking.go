package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  A
// booking is created pending, becomes confirmed when its payment
// settles successfully, and ends in exactly one of the terminal
// states.
type BookingStatus string

const (
	BookingPending           BookingStatus = "pending"
	BookingConfirmed         BookingStatus = "confirmed"
	BookingCancelledByUser   BookingStatus = "cancelled_by_user"
	BookingCancelledBySystem BookingStatus = "cancelled_by_system"
	BookingExpired           BookingStatus = "expired"
	BookingRefunded          BookingStatus = "refunded"
)

// Terminal reports whether the status permits no further transitions.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingCancelledByUser, BookingCancelledBySystem, BookingExpired, BookingRefunded:
		return true
	}
	return false
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelledByUser,
		BookingCancelledBySystem, BookingExpired, BookingRefunded:
		return true
	}
	return false
}

// Booking records a user's reservation of a set of seats for a show.
// TotalPriceCents is a snapshot of the pricing at creation time and is
// never recomputed.  The seats themselves live in the booked_seats
// ledger, owned exclusively by this booking.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user who made the booking.
//  ShowID          – show being booked.
//  Status          – lifecycle state, see BookingStatus.
//  TotalPriceCents – snapshot price for all seats in cents.
//  IsCancelled     – set alongside any cancelled_*/expired transition.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64        `json:"id"`
	UserID          uint64        `json:"user_id"`
	ShowID          uint64        `json:"show_id"`
	Status          BookingStatus `json:"status"`
	TotalPriceCents uint32        `json:"total_price_cents"`
	IsCancelled     bool          `json:"is_cancelled"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// CanConfirm reports whether the booking may transition to confirmed.
// Only pending bookings confirm; everything else is either already
// confirmed or terminal.
func (b *Booking) CanConfirm() bool {
	return b.Status == BookingPending
}

// CanCancel reports whether the booking may be cancelled.  Terminal
// bookings stay terminal; pending and confirmed bookings may cancel
// up until the show starts (the caller checks the show clock).
func (b *Booking) CanCancel() bool {
	return !b.Status.Terminal()
}

// ExpiryEligible reports whether an unpaid booking has outlived the
// grace window and should be reclaimed by the expiry sweep.  Only
// pending bookings expire; a confirmed booking holds its seats until
// cancelled.
func (b *Booking) ExpiryEligible(now time.Time, grace time.Duration) bool {
	return b.Status == BookingPending && now.Sub(b.CreatedAt) > grace
}
