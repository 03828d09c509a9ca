package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockTx opens a mock database with a transaction already begun, so
// tests can drive the ...Tx repository methods directly.
func newMockTx(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *sql.Tx) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return db, mock, tx
}

func TestReserveTxAllOrNothingOnConflict(t *testing.T) {
	db, mock, tx := newMockTx(t)
	defer db.Close()

	// Seat 3 already has a ledger row; no insert may follow.
	mock.ExpectQuery("SELECT seat_id FROM booked_seats").
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(3))

	err := NewBookedSeatRepo(db).ReserveTx(context.Background(), tx, 10, 5, []uint64{2, 3, 4})
	var conflict *SeatConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []uint64{3}, conflict.SeatIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveTxNamesSeatsLostToRace(t *testing.T) {
	db, mock, tx := newMockTx(t)
	defer db.Close()

	// The locked read sees every seat free, but a concurrent booking
	// commits between the read and our insert. The unique key rejects
	// the insert and the ledger is re-read to name the lost seats.
	mock.ExpectQuery("SELECT seat_id FROM booked_seats").
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	mock.ExpectExec("INSERT INTO booked_seats").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '5-4' for key 'uniq_show_seat'"})
	mock.ExpectQuery("SELECT seat_id FROM booked_seats").
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(4))

	err := NewBookedSeatRepo(db).ReserveTx(context.Background(), tx, 10, 5, []uint64{2, 4})
	var conflict *SeatConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []uint64{4}, conflict.SeatIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveTxInsertsFreeSeats(t *testing.T) {
	db, mock, tx := newMockTx(t)
	defer db.Close()

	mock.ExpectQuery("SELECT seat_id FROM booked_seats").
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	// Requested out of order and with a duplicate; the ledger gets one
	// row per distinct seat in ascending order.
	mock.ExpectExec("INSERT INTO booked_seats").
		WithArgs(int64(10), int64(5), int64(2), int64(10), int64(5), int64(4)).
		WillReturnResult(sqlmock.NewResult(1, 2))

	err := NewBookedSeatRepo(db).ReserveTx(context.Background(), tx, 10, 5, []uint64{4, 2, 4})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseByBookingTxIdempotent(t *testing.T) {
	db, mock, tx := newMockTx(t)
	defer db.Close()

	// Releasing a booking that holds no rows deletes nothing and is
	// still not an error, so cancel and expiry can run twice.
	mock.ExpectExec("DELETE FROM booked_seats").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM booked_seats").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewBookedSeatRepo(db)
	require.NoError(t, repo.ReleaseByBookingTx(context.Background(), tx, 10))
	require.NoError(t, repo.ReleaseByBookingTx(context.Background(), tx, 10))
	require.NoError(t, mock.ExpectationsWereMet())
}
