package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings. A booking groups
// together one or more ledger rows for a particular show and user and
// carries the snapshot total price. All timestamp fields are stored
// in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// DB exposes the underlying sql.DB for callers that need transactions
// spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB {
	return r.db
}

const bookingColumns = `id, user_id, show_id, status, total_price_cents, is_cancelled, created_at, updated_at`

func scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.ShowID, &b.Status, &b.TotalPriceCents,
		&b.IsCancelled, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and DB-default fields on
// the provided record. The caller must commit or roll back.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, show_id, status, total_price_cents) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.ShowID, b.Status, b.TotalPriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(
		&b.ID, &b.UserID, &b.ShowID, &b.Status, &b.TotalPriceCents,
		&b.IsCancelled, &b.CreatedAt, &b.UpdatedAt,
	)
}

// GetByID retrieves a booking by ID. Returns ErrBookingNotFound when
// no row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, q, id))
}

// GetForUpdateTx loads a booking inside the transaction and locks its
// row until commit. Settlement and cancellation lock the booking first
// so concurrent state transitions serialize on it.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	return scanBooking(tx.QueryRowContext(ctx, q, id))
}

// UpdateStatusTx transitions a booking's status within the caller's
// transaction. The cancelled flag is set for every terminal
// transition so listing endpoints can filter cheaply.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.BookingStatus) error {
	const q = `UPDATE bookings
	           SET status = ?, is_cancelled = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, status.Terminal(), id)
	return err
}

// BookingDetail is a booking joined with its show and seats for
// display to customers.
type BookingDetail struct {
	ID              uint64              `json:"id"`
	ShowID          uint64              `json:"show_id"`
	MovieTitle      string              `json:"movie_title"`
	StartsAt        time.Time           `json:"starts_at"`
	Status          model.BookingStatus `json:"status"`
	TotalPriceCents uint32              `json:"total_price_cents"`
	CreatedAt       time.Time           `json:"created_at"`
	Seats           []BookingSeatDetail `json:"seats"`
}

// BookingSeatDetail identifies one seat held under a booking.
type BookingSeatDetail struct {
	SeatID     uint64 `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	SeatType   string `json:"seat_type"`
}

// ListByUser returns all bookings of a user with show and seat
// details, newest first. Seats of all bookings are fetched in a
// single query to avoid N round trips.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.show_id, sh.movie_title, sh.starts_at, b.status, b.total_price_cents, b.created_at
	           FROM bookings b
	           JOIN shows sh ON sh.id = b.show_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.ID, &d.ShowID, &d.MovieTitle, &d.StartsAt, &d.Status, &d.TotalPriceCents, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Seats = []BookingSeatDetail{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	ids := make([]interface{}, 0, len(details))
	marks := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		marks = append(marks, "?")
	}
	seatQ := `SELECT bs.booking_id, bs.seat_id, se.seat_number, se.seat_type
	          FROM booked_seats bs
	          JOIN seats se ON se.id = bs.seat_id
	          WHERE bs.booking_id IN (` + strings.Join(marks, ",") + `)
	          ORDER BY bs.booking_id, se.seat_number`
	srows, err := r.db.QueryContext(ctx, seatQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var bid uint64
		var sd BookingSeatDetail
		if err := srows.Scan(&bid, &sd.SeatID, &sd.SeatNumber, &sd.SeatType); err != nil {
			return nil, err
		}
		if idx, ok := index[bid]; ok {
			details[idx].Seats = append(details[idx].Seats, sd)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListByShow returns every booking taken for a show, newest first.
// Used by theater owners to inspect sales for their shows.
func (r *BookingRepo) ListByShow(ctx context.Context, showID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE show_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ShowID, &b.Status, &b.TotalPriceCents,
			&b.IsCancelled, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ExpireStaleForShowTx expires every pending booking for the show
// created before the cutoff and deletes its ledger rows, returning
// the freed seat IDs. Booking creation calls this before checking
// availability so abandoned checkouts cannot block a seat past the
// grace window. A pending booking by definition has no successful
// payment: settlement flips the status to confirmed in the same
// transaction that records the success.
func (r *BookingRepo) ExpireStaleForShowTx(ctx context.Context, tx *sql.Tx, showID uint64, cutoff time.Time) ([]uint64, error) {
	const sel = `SELECT id FROM bookings
	             WHERE show_id = ? AND status = ? AND created_at < ?
	             FOR UPDATE`
	staleIDs, err := queryIDs(ctx, tx, sel, showID, model.BookingPending, cutoff.UTC())
	if err != nil {
		return nil, err
	}
	if len(staleIDs) == 0 {
		return []uint64{}, nil
	}
	return r.expireTx(ctx, tx, staleIDs)
}

// ExpireStaleTx is the sweep-wide variant used by the background
// worker: it expires stale pending bookings across all shows, up to
// limit per invocation, and returns how many bookings were expired.
func (r *BookingRepo) ExpireStaleTx(ctx context.Context, tx *sql.Tx, cutoff time.Time, limit int) (int, error) {
	const sel = `SELECT id FROM bookings
	             WHERE status = ? AND created_at < ?
	             ORDER BY created_at ASC
	             LIMIT ?
	             FOR UPDATE`
	staleIDs, err := queryIDs(ctx, tx, sel, model.BookingPending, cutoff.UTC(), limit)
	if err != nil {
		return 0, err
	}
	if len(staleIDs) == 0 {
		return 0, nil
	}
	if _, err := r.expireTx(ctx, tx, staleIDs); err != nil {
		return 0, err
	}
	return len(staleIDs), nil
}

// expireTx marks the bookings expired and removes their ledger rows,
// returning the seat IDs that were freed.
func (r *BookingRepo) expireTx(ctx context.Context, tx *sql.Tx, bookingIDs []uint64) ([]uint64, error) {
	marks := placeholders(len(bookingIDs))
	args := uint64Args(bookingIDs)

	freed, err := queryIDs(ctx, tx,
		`SELECT seat_id FROM booked_seats WHERE booking_id IN (`+marks+`)`, args...)
	if err != nil {
		return nil, err
	}
	upd := `UPDATE bookings
	        SET status = ?, is_cancelled = TRUE, updated_at = CURRENT_TIMESTAMP
	        WHERE id IN (` + marks + `)`
	if _, err := tx.ExecContext(ctx, upd, append([]interface{}{model.BookingExpired}, args...)...); err != nil {
		return nil, err
	}
	del := `DELETE FROM booked_seats WHERE booking_id IN (` + marks + `)`
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return nil, err
	}
	return freed, nil
}

// queryIDs runs a single-column uint64 query inside the transaction.
func queryIDs(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
