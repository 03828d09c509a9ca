package model

import "time"

// Booking window bounds relative to the show's start time.  Bookings
// open two days before the show and close fifteen minutes after it
// starts, so latecomers can still buy a seat during trailers.
const (
	BookingOpenBefore = 48 * time.Hour
	BookingCloseAfter = 15 * time.Minute
)

// Show is a scheduled screening of a movie on a specific screen.
// Shows are reference data for the booking engine.
//
// Fields:
//  ID         – primary key identifier.
//  ScreenID   – screen on which the show runs.
//  MovieTitle – title of the movie being screened.
//  StartsAt   – start timestamp (UTC).
//  EndsAt     – end timestamp (UTC).
type Show struct {
	ID         uint64    `json:"id"`
	ScreenID   uint64    `json:"screen_id"`
	MovieTitle string    `json:"movie_title"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
}

// BookingOpensAt returns the instant from which bookings are accepted.
func (s *Show) BookingOpensAt() time.Time {
	return s.StartsAt.Add(-BookingOpenBefore)
}

// BookingClosesAt returns the instant after which bookings are rejected.
func (s *Show) BookingClosesAt() time.Time {
	return s.StartsAt.Add(BookingCloseAfter)
}

// Bookable reports whether now falls inside the booking window.
func (s *Show) Bookable(now time.Time) bool {
	return !now.Before(s.BookingOpensAt()) && !now.After(s.BookingClosesAt())
}

// Started reports whether the show has begun.  Payments cannot
// confirm and bookings cannot be cancelled once this is true.
func (s *Show) Started(now time.Time) bool {
	return !now.Before(s.StartsAt)
}
