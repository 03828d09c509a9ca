package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// newAuthedContext builds an echo context carrying the claims the JWT
// middleware would have stored for the given user.
func newAuthedContext(method, target string, userID uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", role)
	return c, rec
}

var ticketDetailColumns = []string{
	"id", "ticket_code", "qr_payload", "issued_at",
	"booking_id", "show_id", "movie_title", "starts_at",
	"seat_number", "seat_type", "user_id",
}

func expectTicketDetail(mock sqlmock.Sqlmock, ownerID uint64) {
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT t.id, t.ticket_code, t.qr_payload").
		WillReturnRows(sqlmock.NewRows(ticketDetailColumns).
			AddRow(1, "AB12CD34-EF5", "Ticket: AB12CD34-EF5, Seat: A1, Booking ID: 10", now,
				10, 5, "Blade Runner", now.Add(24*time.Hour),
				"A1", "regular", ownerID))
}

func TestGetTicketOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	expectTicketDetail(mock, 7)

	c, rec := newAuthedContext(http.MethodGet, "/v1/tickets/1", 7, "CUSTOMER")
	c.SetPath("/v1/tickets/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewTicketHandler(repository.NewTicketRepo(db))
	require.NoError(t, h.GetTicket(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "AB12CD34-EF5")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTicketStaffMayViewAny(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	expectTicketDetail(mock, 7)

	// Staff at the door pull up tickets they do not own.
	c, rec := newAuthedContext(http.MethodGet, "/v1/tickets/1", 99, "STAFF")
	c.SetPath("/v1/tickets/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewTicketHandler(repository.NewTicketRepo(db))
	require.NoError(t, h.GetTicket(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTicketStrangerForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	expectTicketDetail(mock, 7)

	c, rec := newAuthedContext(http.MethodGet, "/v1/tickets/1", 8, "CUSTOMER")
	c.SetPath("/v1/tickets/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewTicketHandler(repository.NewTicketRepo(db))
	require.NoError(t, h.GetTicket(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
