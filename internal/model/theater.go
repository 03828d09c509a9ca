package model

import "time"

// Theater is a venue containing one or more screens.  Theaters are
// reference data: the booking engine only reads them, administration
// happens elsewhere.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the theater.
//  Location  – city or address string.
//  OwnerID   – user who administers this theater.
//  CreatedAt – creation timestamp.
type Theater struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	OwnerID   uint64    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Screen is an auditorium inside a theater.  Every show is scheduled
// on exactly one screen and every seat belongs to exactly one screen.
type Screen struct {
	ID        uint64    `json:"id"`
	TheaterID uint64    `json:"theater_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
