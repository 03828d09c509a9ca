package model

import (
	"testing"
	"time"
)

func TestBookingStatusTerminal(t *testing.T) {
	cases := []struct {
		status   BookingStatus
		terminal bool
	}{
		{BookingPending, false},
		{BookingConfirmed, false},
		{BookingCancelledByUser, true},
		{BookingCancelledBySystem, true},
		{BookingExpired, true},
		{BookingRefunded, true},
	}
	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.terminal {
			t.Errorf("%s.Terminal() = %v, want %v", tc.status, got, tc.terminal)
		}
	}
}

func TestBookingStatusValid(t *testing.T) {
	for _, s := range []BookingStatus{
		BookingPending, BookingConfirmed, BookingCancelledByUser,
		BookingCancelledBySystem, BookingExpired, BookingRefunded,
	} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if BookingStatus("held").Valid() {
		t.Error("unknown status should not be valid")
	}
}

func TestBookingCanConfirm(t *testing.T) {
	if !(&Booking{Status: BookingPending}).CanConfirm() {
		t.Error("pending booking should confirm")
	}
	for _, s := range []BookingStatus{BookingConfirmed, BookingCancelledByUser, BookingExpired} {
		if (&Booking{Status: s}).CanConfirm() {
			t.Errorf("%s booking should not confirm", s)
		}
	}
}

func TestBookingCanCancel(t *testing.T) {
	if !(&Booking{Status: BookingPending}).CanCancel() {
		t.Error("pending booking should be cancellable")
	}
	if !(&Booking{Status: BookingConfirmed}).CanCancel() {
		t.Error("confirmed booking should be cancellable before the show")
	}
	for _, s := range []BookingStatus{BookingCancelledByUser, BookingCancelledBySystem, BookingExpired, BookingRefunded} {
		if (&Booking{Status: s}).CanCancel() {
			t.Errorf("%s booking should not be cancellable again", s)
		}
	}
}

func TestBookingExpiryEligible(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	grace := 15 * time.Minute

	fresh := &Booking{Status: BookingPending, CreatedAt: now.Add(-5 * time.Minute)}
	if fresh.ExpiryEligible(now, grace) {
		t.Error("booking inside the grace window must not expire")
	}
	atBoundary := &Booking{Status: BookingPending, CreatedAt: now.Add(-grace)}
	if atBoundary.ExpiryEligible(now, grace) {
		t.Error("booking exactly at the grace boundary must not expire yet")
	}
	stale := &Booking{Status: BookingPending, CreatedAt: now.Add(-grace - time.Second)}
	if !stale.ExpiryEligible(now, grace) {
		t.Error("pending booking past the grace window should expire")
	}
	confirmed := &Booking{Status: BookingConfirmed, CreatedAt: now.Add(-time.Hour)}
	if confirmed.ExpiryEligible(now, grace) {
		t.Error("confirmed booking must never expire")
	}
}
