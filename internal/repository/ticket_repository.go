package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// TicketRepo persists tickets. One ticket exists per (booking, seat)
// pair once the booking's payment succeeds; tickets are immutable and
// disappear only through cascading booking deletion.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

// ListByBookingTx returns all tickets of a booking inside the caller's
// transaction, ordered by seat ID.
func (r *TicketRepo) ListByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]model.Ticket, error) {
	const q = `SELECT id, booking_id, show_id, seat_id, ticket_code, qr_payload, issued_at
	           FROM tickets
	           WHERE booking_id = ?
	           ORDER BY seat_id ASC`
	rows, err := tx.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tickets []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.BookingID, &t.ShowID, &t.SeatID, &t.TicketCode, &t.QRPayload, &t.IssuedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// IssueTx creates one ticket per seat for a booking whose payment just
// succeeded. It is idempotent: when tickets already exist for the
// booking the existing set is returned unchanged, so a settlement
// callback firing twice cannot duplicate tickets. Codes and QR
// payloads are generated here; rendering the QR image is the
// renderer collaborator's job.
func (r *TicketRepo) IssueTx(ctx context.Context, tx *sql.Tx, bookingID, showID uint64, seats []model.Seat, now time.Time) ([]model.Ticket, error) {
	existing, err := r.ListByBookingTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}
	if len(seats) == 0 {
		return []model.Ticket{}, nil
	}
	tickets := make([]model.Ticket, 0, len(seats))
	query := `INSERT INTO tickets (booking_id, show_id, seat_id, ticket_code, qr_payload, issued_at) VALUES `
	args := make([]interface{}, 0, len(seats)*6)
	for i, seat := range seats {
		code := model.NewTicketCode()
		t := model.Ticket{
			BookingID:  bookingID,
			ShowID:     showID,
			SeatID:     seat.ID,
			TicketCode: code,
			QRPayload:  model.TicketQRPayload(code, seat.SeatNumber, bookingID),
			IssuedAt:   now.UTC(),
		}
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, t.BookingID, t.ShowID, t.SeatID, t.TicketCode, t.QRPayload, t.IssuedAt)
		tickets = append(tickets, t)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	// Re-read to pick up generated IDs.
	return r.ListByBookingTx(ctx, tx, bookingID)
}

// TicketDetail is a ticket joined with seat and show information for
// display to the ticket holder.
type TicketDetail struct {
	ID         uint64    `json:"id"`
	TicketCode string    `json:"ticket_code"`
	QRPayload  string    `json:"qr_payload"`
	IssuedAt   time.Time `json:"issued_at"`
	BookingID  uint64    `json:"booking_id"`
	ShowID     uint64    `json:"show_id"`
	MovieTitle string    `json:"movie_title"`
	StartsAt   time.Time `json:"starts_at"`
	SeatNumber string    `json:"seat_number"`
	SeatType   string    `json:"seat_type"`
}

const ticketDetailQuery = `SELECT t.id, t.ticket_code, t.qr_payload, t.issued_at,
       t.booking_id, t.show_id, sh.movie_title, sh.starts_at,
       se.seat_number, se.seat_type
FROM tickets t
JOIN shows sh ON sh.id = t.show_id
JOIN seats se ON se.id = t.seat_id`

// ListByUser returns every ticket belonging to the user's bookings,
// newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]TicketDetail, error) {
	const q = ticketDetailQuery + `
	          JOIN bookings b ON b.id = t.booking_id
	          WHERE b.user_id = ?
	          ORDER BY t.issued_at DESC, t.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]TicketDetail, 0)
	for rows.Next() {
		var d TicketDetail
		if err := rows.Scan(&d.ID, &d.TicketCode, &d.QRPayload, &d.IssuedAt,
			&d.BookingID, &d.ShowID, &d.MovieTitle, &d.StartsAt,
			&d.SeatNumber, &d.SeatType); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetDetail retrieves a single ticket together with the user ID of the
// booking it belongs to, so callers can run the access decision through
// the capability policy. Returns ErrTicketNotFound when the ticket does
// not exist.
func (r *TicketRepo) GetDetail(ctx context.Context, id uint64) (*TicketDetail, uint64, error) {
	var d TicketDetail
	var ownerID uint64
	const qo = `SELECT t.id, t.ticket_code, t.qr_payload, t.issued_at,
	                   t.booking_id, t.show_id, sh.movie_title, sh.starts_at,
	                   se.seat_number, se.seat_type, b.user_id
	            FROM tickets t
	            JOIN shows sh ON sh.id = t.show_id
	            JOIN seats se ON se.id = t.seat_id
	            JOIN bookings b ON b.id = t.booking_id
	            WHERE t.id = ?`
	err := r.db.QueryRowContext(ctx, qo, id).Scan(&d.ID, &d.TicketCode, &d.QRPayload, &d.IssuedAt,
		&d.BookingID, &d.ShowID, &d.MovieTitle, &d.StartsAt,
		&d.SeatNumber, &d.SeatType, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrTicketNotFound
		}
		return nil, 0, err
	}
	return &d, ownerID, nil
}
