package repository

import (
	"context"
	"database/sql"
)

// BookedSeatRepo is the seat-inventory ledger. A row in booked_seats
// means the seat is taken for that show; the unique key on
// (show_id, seat_id) is the invariant that makes double booking
// impossible. Rows are created atomically with their booking and
// removed only by cancellation or expiry.
//
// Reservation protocol: inside the booking transaction the requested
// ledger rows are read FOR UPDATE in ascending seat order (stable lock
// order prevents deadlocks between overlapping requests), conflicts
// are collected, and only a fully free set is inserted. A concurrent
// transaction that slips an insert between the read and ours loses the
// race on the unique key; that duplicate-entry error is translated
// back into a SeatConflictError by re-reading the ledger, so the first
// transaction to commit always wins and the loser learns exactly which
// seats it lost.
type BookedSeatRepo struct {
	db *sql.DB
}

// NewBookedSeatRepo constructs a BookedSeatRepo bound to the given database.
func NewBookedSeatRepo(db *sql.DB) *BookedSeatRepo {
	return &BookedSeatRepo{db: db}
}

// ConflictingTx returns the subset of seatIDs that already have ledger
// rows for the show, locking those rows for the remainder of the
// transaction. IDs must be pre-sorted by the caller; ReserveTx does
// this. An empty result means every requested seat is currently free.
func (r *BookedSeatRepo) ConflictingTx(ctx context.Context, tx *sql.Tx, showID uint64, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return []uint64{}, nil
	}
	q := `SELECT seat_id FROM booked_seats
	      WHERE show_id = ? AND seat_id IN (` + placeholders(len(seatIDs)) + `)
	      ORDER BY seat_id ASC
	      FOR UPDATE`
	args := append([]interface{}{showID}, uint64Args(seatIDs)...)
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	taken := make([]uint64, 0)
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		taken = append(taken, sid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return taken, nil
}

// ReserveTx inserts ledger rows for every seat in seatIDs, all owned
// by the given booking. The operation is all-or-nothing: when any
// seat is already taken it returns *SeatConflictError naming every
// conflicting seat and inserts nothing. The caller's transaction
// rollback then undoes the booking row as well.
func (r *BookedSeatRepo) ReserveTx(ctx context.Context, tx *sql.Tx, bookingID, showID uint64, seatIDs []uint64) error {
	ids := sortedUnique(seatIDs)
	taken, err := r.ConflictingTx(ctx, tx, showID, ids)
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		return &SeatConflictError{SeatIDs: taken}
	}
	query := `INSERT INTO booked_seats (booking_id, show_id, seat_id) VALUES `
	args := make([]interface{}, 0, len(ids)*3)
	for i, sid := range ids {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, bookingID, showID, sid)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateEntry(err) {
			// A concurrent transaction committed first. Re-read the
			// ledger to name the seats we lost.
			taken, rerr := r.ConflictingTx(ctx, tx, showID, ids)
			if rerr != nil || len(taken) == 0 {
				return err
			}
			return &SeatConflictError{SeatIDs: taken}
		}
		return err
	}
	return nil
}

// ReleaseByBookingTx deletes all ledger rows owned by the booking,
// freeing its seats for the show. Releasing a booking that holds no
// rows is a no-op, which makes cancellation and the expiry sweep
// idempotent.
func (r *BookedSeatRepo) ReleaseByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM booked_seats WHERE booking_id = ?`, bookingID)
	return err
}

// SeatIDsByBookingTx returns the seats currently held by a booking in
// ascending order. Ticket issuance uses this to create one ticket per
// held seat.
func (r *BookedSeatRepo) SeatIDsByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]uint64, error) {
	const q = `SELECT seat_id FROM booked_seats WHERE booking_id = ? ORDER BY seat_id ASC`
	rows, err := tx.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seatIDs []uint64
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		seatIDs = append(seatIDs, sid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seatIDs, nil
}
