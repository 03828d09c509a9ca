package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

func newBookingHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	h := NewBookingHandler(
		repository.NewShowRepo(db),
		repository.NewSeatRepo(db),
		repository.NewPricingRepo(db),
		repository.NewBookingRepo(db),
		repository.NewBookedSeatRepo(db),
		repository.NewTheaterRepo(db),
		15*time.Minute,
	)
	return h, mock, func() { db.Close() }
}

func expectCancelFlow(mock sqlmock.Sqlmock, ownerID uint64, status string) {
	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, show_id, status").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "show_id", "status", "total_price_cents", "is_cancelled", "created_at", "updated_at",
		}).AddRow(9, ownerID, 5, "pending", 3000, false, now, now))
	mock.ExpectQuery("SELECT id, screen_id, movie_title, starts_at, ends_at").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "screen_id", "movie_title", "starts_at", "ends_at",
		}).AddRow(5, 1, "Blade Runner", now.Add(24*time.Hour), now.Add(26*time.Hour)))
	mock.ExpectExec("UPDATE bookings").
		WithArgs(status, true, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM booked_seats").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
}

func TestCancelBookingReleasesSeats(t *testing.T) {
	h, mock, closeDB := newBookingHandler(t)
	defer closeDB()

	// Cancelling frees the ledger rows in the same transaction that
	// flips the booking state, so the seats come back together.
	expectCancelFlow(mock, 7, "cancelled_by_user")

	c, rec := newAuthedContext(http.MethodPost, "/v1/bookings/9/cancel", 7, "CUSTOMER")
	c.SetPath("/v1/bookings/:id/cancel")
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, h.CancelBooking(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cancelled_by_user")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingStaffOverride(t *testing.T) {
	h, mock, closeDB := newBookingHandler(t)
	defer closeDB()

	// A staff cancel of someone else's booking is recorded as a system
	// cancellation, not a user one.
	expectCancelFlow(mock, 7, "cancelled_by_system")

	c, rec := newAuthedContext(http.MethodPost, "/v1/bookings/9/cancel", 99, "STAFF")
	c.SetPath("/v1/bookings/:id/cancel")
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, h.CancelBooking(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cancelled_by_system")
	require.NoError(t, mock.ExpectationsWereMet())
}
