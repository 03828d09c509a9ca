package model

import (
	"testing"
	"time"
)

func TestShowBookingWindow(t *testing.T) {
	starts := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	show := &Show{ID: 1, StartsAt: starts, EndsAt: starts.Add(2 * time.Hour)}

	cases := []struct {
		name     string
		now      time.Time
		bookable bool
	}{
		{"three days before", starts.Add(-72 * time.Hour), false},
		{"one second before window opens", show.BookingOpensAt().Add(-time.Second), false},
		{"exactly at open", show.BookingOpensAt(), true},
		{"one hour before start", starts.Add(-time.Hour), true},
		{"at start", starts, true},
		{"ten minutes after start", starts.Add(10 * time.Minute), true},
		{"exactly at close", show.BookingClosesAt(), true},
		{"one second after close", show.BookingClosesAt().Add(time.Second), false},
		{"next day", starts.Add(24 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := show.Bookable(tc.now); got != tc.bookable {
				t.Fatalf("Bookable(%s) = %v, want %v", tc.now, got, tc.bookable)
			}
		})
	}
}

func TestShowBookingWindowBounds(t *testing.T) {
	starts := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	show := &Show{StartsAt: starts}
	if got, want := show.BookingOpensAt(), starts.Add(-48*time.Hour); !got.Equal(want) {
		t.Fatalf("BookingOpensAt = %s, want %s", got, want)
	}
	if got, want := show.BookingClosesAt(), starts.Add(15*time.Minute); !got.Equal(want) {
		t.Fatalf("BookingClosesAt = %s, want %s", got, want)
	}
}

func TestShowStarted(t *testing.T) {
	starts := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	show := &Show{StartsAt: starts}
	if show.Started(starts.Add(-time.Second)) {
		t.Fatal("show should not have started one second before starts_at")
	}
	if !show.Started(starts) {
		t.Fatal("show should count as started at starts_at")
	}
	if !show.Started(starts.Add(time.Hour)) {
		t.Fatal("show should count as started after starts_at")
	}
}
