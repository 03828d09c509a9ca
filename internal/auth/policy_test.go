package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireBookSeats(t *testing.T) {
	assert.NoError(t, Require(Actor{UserID: 1, Role: RoleCustomer}, CapBookSeats, 0))
	assert.ErrorIs(t, Require(Actor{UserID: 1, Role: RoleOwner}, CapBookSeats, 0), ErrDenied)
	assert.ErrorIs(t, Require(Actor{UserID: 1, Role: RoleStaff}, CapBookSeats, 0), ErrDenied)
	assert.ErrorIs(t, Require(Actor{UserID: 1, Role: Role("")}, CapBookSeats, 0), ErrDenied)
}

func TestRequireOwnerScopedCapabilities(t *testing.T) {
	owner := Actor{UserID: 7, Role: RoleCustomer}
	stranger := Actor{UserID: 8, Role: RoleCustomer}
	staff := Actor{UserID: 99, Role: RoleStaff}

	for _, capability := range []Capability{CapManageBooking, CapManagePayment, CapViewTicket} {
		assert.NoError(t, Require(owner, capability, 7), "resource owner must pass")
		assert.ErrorIs(t, Require(stranger, capability, 7), ErrDenied, "other users must be denied")
		assert.NoError(t, Require(staff, capability, 7), "staff override must pass")
	}
}

func TestRequireManagePricing(t *testing.T) {
	theaterOwner := Actor{UserID: 3, Role: RoleOwner}
	otherOwner := Actor{UserID: 4, Role: RoleOwner}
	customer := Actor{UserID: 3, Role: RoleCustomer}
	staff := Actor{UserID: 50, Role: RoleStaff}

	assert.NoError(t, Require(theaterOwner, CapManagePricing, 3))
	assert.ErrorIs(t, Require(otherOwner, CapManagePricing, 3), ErrDenied)
	// Owning the resource is not enough without the OWNER role.
	assert.ErrorIs(t, Require(customer, CapManagePricing, 3), ErrDenied)
	assert.NoError(t, Require(staff, CapManagePricing, 3))
}

func TestIsOverride(t *testing.T) {
	assert.True(t, IsOverride(Actor{UserID: 99, Role: RoleStaff}, 7))
	assert.False(t, IsOverride(Actor{UserID: 7, Role: RoleStaff}, 7))
	assert.False(t, IsOverride(Actor{UserID: 99, Role: RoleCustomer}, 7))
}
