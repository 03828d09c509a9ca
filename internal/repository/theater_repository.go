package repository // repository defines data access for theaters and screens

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// TheaterRepo reads theater and screen reference data. The booking
// engine never mutates these tables; they are administered elsewhere.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo constructs a TheaterRepo with the given DB handle.
func NewTheaterRepo(db *sql.DB) *TheaterRepo {
	return &TheaterRepo{db: db}
}

// List returns all theaters ordered by name.
func (r *TheaterRepo) List(ctx context.Context) ([]model.Theater, error) {
	const q = `SELECT id, name, location, owner_id, created_at FROM theaters ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Theater, 0)
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.Name, &t.Location, &t.OwnerID, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListScreens returns all screens of a theater ordered by name. An
// unknown theater yields an empty slice, matching the behaviour of
// listing an empty theater.
func (r *TheaterRepo) ListScreens(ctx context.Context, theaterID uint64) ([]model.Screen, error) {
	const q = `SELECT id, theater_id, name, created_at FROM screens WHERE theater_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Screen, 0)
	for rows.Next() {
		var s model.Screen
		if err := rows.Scan(&s.ID, &s.TheaterID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// OwnerOfShow resolves the owner of the theater a show runs in. It is
// used by administrative endpoints (seat pricing) to enforce the
// owner-of-theater capability. Returns ErrShowNotFound when the show
// does not exist.
func (r *TheaterRepo) OwnerOfShow(ctx context.Context, showID uint64) (uint64, error) {
	const q = `SELECT t.owner_id
	           FROM shows sh
	           JOIN screens sc ON sc.id = sh.screen_id
	           JOIN theaters t ON t.id = sc.theater_id
	           WHERE sh.id = ?`
	var ownerID uint64
	err := r.db.QueryRowContext(ctx, q, showID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrShowNotFound
		}
		return 0, err
	}
	return ownerID, nil
}
