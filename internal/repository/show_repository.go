// Package repository contains data access logic for Show domain
// operations. A Show represents a scheduled screening of a movie on a
// specific screen. The booking engine treats shows as read-only
// reference data; scheduling and content management live elsewhere.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.  Use this method to
// obtain a *sql.DB when you need fine-grained transaction control.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

const showColumns = `id, screen_id, movie_title, starts_at, ends_at`

func scanShow(row *sql.Row) (*model.Show, error) {
	var s model.Show
	err := row.Scan(&s.ID, &s.ScreenID, &s.MovieTitle, &s.StartsAt, &s.EndsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows WHERE id = ?`
	return scanShow(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDTx is GetByID executed within the caller's transaction so the
// show's schedule participates in the booking snapshot.
func (r *ShowRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows WHERE id = ?`
	return scanShow(tx.QueryRowContext(ctx, q, id))
}

// ListByScreen returns all shows scheduled on a screen ordered by
// start time ascending. Used by the public browse endpoints.
func (r *ShowRepo) ListByScreen(ctx context.Context, screenID uint64) ([]model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows WHERE screen_id = ? ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, screenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.ScreenID, &s.MovieTitle, &s.StartsAt, &s.EndsAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
