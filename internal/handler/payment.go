package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/auth"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

// PaymentHandler creates payments for pending bookings and applies
// settlement outcomes. A successful settlement confirms the booking
// and issues its tickets in the same transaction, then publishes the
// booking.confirmed event; a failed settlement records the failure and
// leaves the seats held so the customer can retry until the expiry
// sweep reclaims them.
type PaymentHandler struct {
	BookingRepo    *repository.BookingRepo
	PaymentRepo    *repository.PaymentRepo
	TicketRepo     *repository.TicketRepo
	SeatRepo       *repository.SeatRepo
	BookedSeatRepo *repository.BookedSeatRepo
	ShowRepo       *repository.ShowRepo
	Publisher      *service.Publisher
}

// NewPaymentHandler constructs a PaymentHandler. The publisher may be
// nil, in which case confirmed bookings produce no events.
func NewPaymentHandler(bookingRepo *repository.BookingRepo, paymentRepo *repository.PaymentRepo, ticketRepo *repository.TicketRepo, seatRepo *repository.SeatRepo, bookedSeatRepo *repository.BookedSeatRepo, showRepo *repository.ShowRepo, publisher *service.Publisher) *PaymentHandler {
	if bookingRepo == nil || paymentRepo == nil || ticketRepo == nil || seatRepo == nil || bookedSeatRepo == nil || showRepo == nil {
		panic("nil repository passed to NewPaymentHandler")
	}
	return &PaymentHandler{
		BookingRepo:    bookingRepo,
		PaymentRepo:    paymentRepo,
		TicketRepo:     ticketRepo,
		SeatRepo:       seatRepo,
		BookedSeatRepo: bookedSeatRepo,
		ShowRepo:       showRepo,
		Publisher:      publisher,
	}
}

// CreatePayment handles POST /v1/payments. The amount is copied from
// the booking's snapshot total, never taken from the client. Only one
// payment may exist per booking; the unique key turns a second attempt
// into 409.
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		BookingID uint64 `json:"booking_id"`
		Method    string `json:"method"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id is required"})
	}
	if !model.ValidPaymentMethod(body.Method) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method"})
	}

	ctx := c.Request().Context()
	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := h.BookingRepo.GetForUpdateTx(ctx, tx, body.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := auth.Require(actor, auth.CapManagePayment, booking.UserID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !booking.CanConfirm() {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "booking is not payable",
			"status": booking.Status,
		})
	}

	payment := &model.Payment{
		BookingID:   booking.ID,
		AmountCents: booking.TotalPriceCents,
		Status:      model.PaymentPending,
		Method:      body.Method,
	}
	if err := h.PaymentRepo.CreateTx(ctx, tx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "payment already exists for this booking"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create payment"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"payment_id":   payment.ID,
		"booking_id":   payment.BookingID,
		"amount_cents": payment.AmountCents,
		"status":       payment.Status,
	})
}

// SettlePayment handles PATCH /v1/payments/:id. The body carries the
// settlement outcome (success or failed) and an optional gateway
// transaction ID; when absent on success one is generated. On success
// the booking is confirmed and its tickets issued atomically with the
// payment update, and the booking.confirmed event is published after
// commit. A failed outcome only records the failure; the seats stay
// held for a retry.
func (h *PaymentHandler) SettlePayment(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	paymentID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	var body struct {
		Status        string `json:"status"`
		TransactionID string `json:"transaction_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	now := time.Now().UTC()
	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	payment, err := h.PaymentRepo.GetForUpdateTx(ctx, tx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	booking, err := h.BookingRepo.GetForUpdateTx(ctx, tx, payment.BookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := auth.Require(actor, auth.CapManagePayment, booking.UserID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	outcome := model.PaymentStatus(body.Status)
	show, err := h.ShowRepo.GetByIDTx(ctx, tx, booking.ShowID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if outcome == model.PaymentSuccess {
		// A booking expired or cancelled while the payment was
		// in-flight no longer holds its seats and must not confirm.
		if !booking.CanConfirm() {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":  "booking is no longer pending",
				"status": booking.Status,
			})
		}
		if show.Started(now) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "show already started"})
		}
		if body.TransactionID == "" {
			body.TransactionID = uuid.NewString()
		}
	}
	if err := payment.Settle(outcome, body.TransactionID, now); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidOutcome):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be success or failed"})
		case errors.Is(err, model.ErrAlreadySettled):
			return c.JSON(http.StatusConflict, echo.Map{"error": "payment already settled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to settle payment"})
		}
	}
	if err := h.PaymentRepo.SettleTx(ctx, tx, payment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to settle payment"})
	}

	var tickets []model.Ticket
	var seats []model.Seat
	if outcome == model.PaymentSuccess {
		if err := h.BookingRepo.UpdateStatusTx(ctx, tx, booking.ID, model.BookingConfirmed); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm booking"})
		}
		seatIDs, err := h.BookedSeatRepo.SeatIDsByBookingTx(ctx, tx, booking.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booked seats"})
		}
		seats, err = h.SeatRepo.GetByIDsTx(ctx, tx, seatIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
		}
		tickets, err = h.TicketRepo.IssueTx(ctx, tx, booking.ID, booking.ShowID, seats, now)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue tickets"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if outcome == model.PaymentSuccess && h.Publisher != nil {
		event := queue.BookingConfirmedEvent{
			BookingID:       booking.ID,
			UserID:          booking.UserID,
			ShowID:          show.ID,
			MovieTitle:      show.MovieTitle,
			StartsAt:        show.StartsAt.Format(time.RFC3339),
			EndsAt:          show.EndsAt.Format(time.RFC3339),
			TotalPriceCents: booking.TotalPriceCents,
			PaymentID:       payment.ID,
			PaymentMethod:   payment.Method,
			ConfirmedAt:     now.Format(time.RFC3339),
		}
		for _, s := range seats {
			event.SeatNumbers = append(event.SeatNumbers, s.SeatNumber)
		}
		if payment.TransactionID != nil {
			event.TransactionID = *payment.TransactionID
		}
		// Best effort. The error is logged by the publisher; a broker
		// outage must not fail a settled payment.
		_ = h.Publisher.PublishBookingConfirmed(ctx, event)
	}

	resp := echo.Map{
		"payment_id": payment.ID,
		"booking_id": booking.ID,
		"status":     payment.Status,
	}
	if payment.TransactionID != nil {
		resp["transaction_id"] = *payment.TransactionID
	}
	if outcome == model.PaymentSuccess {
		resp["tickets_issued"] = len(tickets)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetPayment handles GET /v1/payments/:id for the payment owner.
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	paymentID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	ctx := c.Request().Context()
	payment, err := h.PaymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	booking, err := h.BookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := auth.Require(actor, auth.CapManagePayment, booking.UserID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	resp := echo.Map{
		"payment_id":   payment.ID,
		"booking_id":   payment.BookingID,
		"amount_cents": payment.AmountCents,
		"status":       payment.Status,
		"method":       payment.Method,
		"created_at":   payment.CreatedAt.Format(time.RFC3339),
	}
	if payment.TransactionID != nil {
		resp["transaction_id"] = *payment.TransactionID
	}
	if payment.PaidAt != nil {
		resp["paid_at"] = payment.PaidAt.Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, resp)
}
