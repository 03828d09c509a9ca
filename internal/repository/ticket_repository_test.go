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

var ticketColumns = []string{"id", "booking_id", "show_id", "seat_id", "ticket_code", "qr_payload", "issued_at"}

func TestIssueTxReturnsExistingTickets(t *testing.T) {
	db, mock, tx := newMockTx(t)
	defer db.Close()

	issued := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	// Tickets already exist for the booking: a settlement callback
	// firing twice must get the same set back with no second insert.
	mock.ExpectQuery("SELECT id, booking_id, show_id, seat_id, ticket_code, qr_payload, issued_at").
		WillReturnRows(sqlmock.NewRows(ticketColumns).
			AddRow(1, 10, 5, 2, "AB12CD34-EF5", "Ticket: AB12CD34-EF5, Seat: A1, Booking ID: 10", issued).
			AddRow(2, 10, 5, 4, "GH67IJ89-KL0", "Ticket: GH67IJ89-KL0, Seat: A2, Booking ID: 10", issued))

	seats := []model.Seat{{ID: 2, SeatNumber: "A1"}, {ID: 4, SeatNumber: "A2"}}
	tickets, err := NewTicketRepo(db).IssueTx(context.Background(), tx, 10, 5, seats, time.Now())
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "AB12CD34-EF5", tickets[0].TicketCode)
	assert.Equal(t, uint64(4), tickets[1].SeatID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueTxCreatesOneTicketPerSeat(t *testing.T) {
	db, mock, tx := newMockTx(t)
	defer db.Close()

	issued := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, booking_id, show_id, seat_id, ticket_code, qr_payload, issued_at").
		WillReturnRows(sqlmock.NewRows(ticketColumns))
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectQuery("SELECT id, booking_id, show_id, seat_id, ticket_code, qr_payload, issued_at").
		WillReturnRows(sqlmock.NewRows(ticketColumns).
			AddRow(1, 10, 5, 2, "AB12CD34-EF5", "Ticket: AB12CD34-EF5, Seat: A1, Booking ID: 10", issued).
			AddRow(2, 10, 5, 4, "GH67IJ89-KL0", "Ticket: GH67IJ89-KL0, Seat: A2, Booking ID: 10", issued))

	seats := []model.Seat{{ID: 2, SeatNumber: "A1"}, {ID: 4, SeatNumber: "A2"}}
	tickets, err := NewTicketRepo(db).IssueTx(context.Background(), tx, 10, 5, seats, issued)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, uint64(1), tickets[0].ID)
	assert.Equal(t, uint64(2), tickets[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueTxNoSeats(t *testing.T) {
	db, mock, tx := newMockTx(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, booking_id, show_id, seat_id, ticket_code, qr_payload, issued_at").
		WillReturnRows(sqlmock.NewRows(ticketColumns))

	tickets, err := NewTicketRepo(db).IssueTx(context.Background(), tx, 10, 5, nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, tickets)
	require.NoError(t, mock.ExpectationsWereMet())
}
