package repository // repository defines data access for seats

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// SeatRepo provides read access to seat reference data. Seats belong
// to screens and never change once created; availability for a show
// is derived from the booked_seats ledger, not stored on the seat.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// ListByScreen retrieves all seats of a screen ordered by seat number.
func (r *SeatRepo) ListByScreen(ctx context.Context, screenID uint64) ([]model.Seat, error) {
	const q = `SELECT id, screen_id, seat_number, seat_type, created_at
	           FROM seats
	           WHERE screen_id = ?
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, screenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ScreenID, &s.SeatNumber, &s.SeatType, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByIDsTx loads the given seats inside the caller's transaction,
// ordered by ID ascending. Seats that do not exist are simply absent
// from the result; callers compare lengths to detect unknown IDs.
func (r *SeatRepo) GetByIDsTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) ([]model.Seat, error) {
	if len(seatIDs) == 0 {
		return []model.Seat{}, nil
	}
	q := `SELECT id, screen_id, seat_number, seat_type, created_at
	      FROM seats
	      WHERE id IN (` + placeholders(len(seatIDs)) + `)
	      ORDER BY id ASC`
	rows, err := tx.QueryContext(ctx, q, uint64Args(seatIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Seat, 0, len(seatIDs))
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ScreenID, &s.SeatNumber, &s.SeatType, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AvailableSeat pairs a seat with its price for a specific show. It
// is the unit returned by the seat-availability listing.
type AvailableSeat struct {
	SeatID     uint64 `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	SeatType   string `json:"seat_type"`
	PriceCents uint32 `json:"price_cents"`
}

// ListAvailableByShow returns every seat on the show's screen that has
// no booked_seats ledger row for the show, joined with the pricing
// table so clients see the price they would pay. Seats whose type has
// no pricing row are excluded: they cannot be booked until the owner
// defines a price.
func (r *SeatRepo) ListAvailableByShow(ctx context.Context, showID uint64) ([]AvailableSeat, error) {
	const q = `SELECT se.id, se.seat_number, se.seat_type, p.price_cents
	           FROM shows sh
	           JOIN seats se ON se.screen_id = sh.screen_id
	           JOIN show_seat_pricing p ON p.show_id = sh.id AND p.seat_type = se.seat_type
	           LEFT JOIN booked_seats b ON b.show_id = sh.id AND b.seat_id = se.id
	           WHERE sh.id = ? AND b.id IS NULL
	           ORDER BY se.seat_number`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]AvailableSeat, 0)
	for rows.Next() {
		var a AvailableSeat
		if err := rows.Scan(&a.SeatID, &a.SeatNumber, &a.SeatType, &a.PriceCents); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
