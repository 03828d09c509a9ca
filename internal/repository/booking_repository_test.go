package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

func TestUpdateStatusTxFlagsTerminalStates(t *testing.T) {
	db, mock, tx := newMockTx(t)
	defer db.Close()

	mock.ExpectExec("UPDATE bookings").
		WithArgs("cancelled_by_user", true, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings").
		WithArgs("confirmed", false, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewBookingRepo(db)
	require.NoError(t, repo.UpdateStatusTx(context.Background(), tx, 5, model.BookingCancelledByUser))
	require.NoError(t, repo.UpdateStatusTx(context.Background(), tx, 5, model.BookingConfirmed))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireStaleForShowTxFreesSeats(t *testing.T) {
	db, mock, tx := newMockTx(t)
	defer db.Close()

	// Two abandoned pending bookings hold seats 2 and 3. Expiring them
	// flips the bookings and clears exactly their ledger rows.
	mock.ExpectQuery("SELECT id FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11).AddRow(12))
	mock.ExpectQuery("SELECT seat_id FROM booked_seats").
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(2).AddRow(3))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM booked_seats").
		WillReturnResult(sqlmock.NewResult(0, 2))

	freed, err := NewBookingRepo(db).ExpireStaleForShowTx(context.Background(), tx, 5, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, freed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireStaleForShowTxNothingStale(t *testing.T) {
	db, mock, tx := newMockTx(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	freed, err := NewBookingRepo(db).ExpireStaleForShowTx(context.Background(), tx, 5, time.Now())
	require.NoError(t, err)
	assert.Empty(t, freed)
	require.NoError(t, mock.ExpectationsWereMet())
}
