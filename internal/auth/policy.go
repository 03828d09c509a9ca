// Package auth implements the capability policy for booking, payment,
// ticket and pricing operations. Each entry point declares the
// capability it needs and a single evaluator decides whether the
// acting user holds it, instead of scattering role and ownership
// checks across handlers.
package auth

import "errors"

// Role values carried in the JWT "role" claim. The identity provider
// is trusted to have assigned them correctly.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleOwner    Role = "OWNER"
	RoleStaff    Role = "STAFF"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint64
	Role   Role
}

// Capability names an action guarded by the policy evaluator.
type Capability int

const (
	// CapBookSeats allows creating bookings. Reserved for regular
	// customers; theater owners and staff do not buy seats through
	// the public flow.
	CapBookSeats Capability = iota
	// CapManageBooking allows viewing and cancelling a booking.
	// Held by the booking's owner; staff may override (their
	// cancellations are recorded as system cancellations).
	CapManageBooking
	// CapManagePayment allows creating and settling the payment of a
	// booking. Held by the booking's owner and staff.
	CapManagePayment
	// CapViewTicket allows reading a ticket. Held by the owner of
	// the ticket's booking and staff.
	CapViewTicket
	// CapManagePricing allows listing, creating and correcting seat
	// pricing for a show. Held by the owner of the show's theater
	// and staff.
	CapManagePricing
)

// ErrDenied is returned when the actor does not hold the capability.
// Handlers translate it into an HTTP 403 response.
var ErrDenied = errors.New("permission denied")

// Require evaluates whether the actor holds the capability over a
// resource owned by resourceOwner. For CapBookSeats the owner
// argument is ignored (the capability is purely role based).
func Require(actor Actor, capability Capability, resourceOwner uint64) error {
	switch capability {
	case CapBookSeats:
		if actor.Role == RoleCustomer {
			return nil
		}
	case CapManageBooking, CapManagePayment, CapViewTicket:
		if actor.Role == RoleStaff || actor.UserID == resourceOwner {
			return nil
		}
	case CapManagePricing:
		if actor.Role == RoleStaff || (actor.Role == RoleOwner && actor.UserID == resourceOwner) {
			return nil
		}
	}
	return ErrDenied
}

// IsOverride reports whether the actor acts with staff privileges
// rather than as the resource owner. Cancellations performed as an
// override are recorded as cancelled_by_system.
func IsOverride(actor Actor, resourceOwner uint64) bool {
	return actor.Role == RoleStaff && actor.UserID != resourceOwner
}
