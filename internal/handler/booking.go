package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/auth"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// BookingHandler implements the booking lifecycle: creation with
// atomic seat reservation, listing, retrieval and cancellation. Every
// state-changing method runs inside a single transaction so a failure
// at any step leaves no partial booking behind.
type BookingHandler struct {
	ShowRepo       *repository.ShowRepo
	SeatRepo       *repository.SeatRepo
	PricingRepo    *repository.PricingRepo
	BookingRepo    *repository.BookingRepo
	BookedSeatRepo *repository.BookedSeatRepo
	TheaterRepo    *repository.TheaterRepo
	// PendingTTL is how long a pending booking may hold seats before
	// it becomes eligible for expiry.
	PendingTTL time.Duration
}

// NewBookingHandler constructs a BookingHandler with the provided
// repositories. All dependencies must be non-nil.
func NewBookingHandler(showRepo *repository.ShowRepo, seatRepo *repository.SeatRepo, pricingRepo *repository.PricingRepo, bookingRepo *repository.BookingRepo, bookedSeatRepo *repository.BookedSeatRepo, theaterRepo *repository.TheaterRepo, pendingTTL time.Duration) *BookingHandler {
	if showRepo == nil || seatRepo == nil || pricingRepo == nil || bookingRepo == nil || bookedSeatRepo == nil || theaterRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		ShowRepo:       showRepo,
		SeatRepo:       seatRepo,
		PricingRepo:    pricingRepo,
		BookingRepo:    bookingRepo,
		BookedSeatRepo: bookedSeatRepo,
		TheaterRepo:    theaterRepo,
		PendingTTL:     pendingTTL,
	}
}

// CreateBooking handles POST /v1/bookings. The body carries the show
// and the requested seat IDs. The whole operation is one transaction:
// window check, seat validation, lazy expiry of stale pending bookings
// for the show, price resolution, booking insert and ledger
// reservation. A seat conflict rejects the entire request with 409 and
// the list of conflicting seat IDs; nothing is partially reserved.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := auth.Require(actor, auth.CapBookSeats, 0); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var body struct {
		ShowID  uint64   `json:"show_id"`
		SeatIDs []uint64 `json:"seat_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id is required"})
	}
	if len(body.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
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

	show, err := h.ShowRepo.GetByIDTx(ctx, tx, body.ShowID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !show.Bookable(now) {
		if now.Before(show.BookingOpensAt()) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":            "booking not yet open for this show",
				"booking_opens_at": show.BookingOpensAt().Format(time.RFC3339),
			})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking window closed for this show"})
	}

	seats, err := h.SeatRepo.GetByIDsTx(ctx, tx, body.SeatIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	requested := make(map[uint64]struct{})
	for _, id := range body.SeatIDs {
		if id != 0 {
			requested[id] = struct{}{}
		}
	}
	if len(requested) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no valid seat IDs provided"})
	}
	if len(seats) != len(requested) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat ids in request"})
	}
	for _, s := range seats {
		if s.ScreenID != show.ScreenID {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":   repository.ErrScreenMismatch.Error(),
				"seat_id": s.ID,
			})
		}
	}

	// Abandoned checkouts past the grace window must not block seats,
	// so expire them here before looking at the ledger.
	if _, err := h.BookingRepo.ExpireStaleForShowTx(ctx, tx, show.ID, now.Add(-h.PendingTTL)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to expire stale bookings"})
	}

	prices, err := h.PricingRepo.PriceMapTx(ctx, tx, show.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load pricing"})
	}
	total, missing, err := model.SumPriceCents(seats, prices)
	if missing != "" {
		perr := &repository.PricingNotFoundError{SeatType: missing}
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":     perr.Error(),
			"seat_type": missing,
		})
	}
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "booking total too large"})
	}

	booking := &model.Booking{
		UserID:          actor.UserID,
		ShowID:          show.ID,
		Status:          model.BookingPending,
		TotalPriceCents: total,
	}
	if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	if err := h.BookedSeatRepo.ReserveTx(ctx, tx, booking.ID, show.ID, body.SeatIDs); err != nil {
		var conflict *repository.SeatConflictError
		if errors.As(err, &conflict) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":    "some seats are already booked",
				"seat_ids": conflict.SeatIDs,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":        booking.ID,
		"status":            booking.Status,
		"total_price_cents": booking.TotalPriceCents,
		"created_at":        booking.CreatedAt.Format(time.RFC3339),
	})
}

// ListBookings handles GET /v1/bookings. It returns the caller's
// bookings with show and seat details, newest first.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetBooking handles GET /v1/bookings/:id. The booking owner and staff
// may read it; anyone else receives 403.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	booking, err := h.BookingRepo.GetByID(c.Request().Context(), bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if err := auth.Require(actor, auth.CapManageBooking, booking.UserID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": booking})
}

// ListShowBookings handles GET /v1/shows/:id/bookings. It lets the
// owner of the show's theater (or staff) inspect the bookings taken
// for a show.
func (h *BookingHandler) ListShowBookings(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx := c.Request().Context()
	ownerID, err := h.TheaterRepo.OwnerOfShow(ctx, showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := auth.Require(actor, auth.CapManagePricing, ownerID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	bookings, err := h.BookingRepo.ListByShow(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": bookings})
}

// CancelBooking handles POST /v1/bookings/:id/cancel. The owner may
// cancel before the show starts; staff may override, in which case the
// cancellation is recorded as cancelled_by_system. Cancelling releases
// every ledger row the booking holds in the same transaction.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
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

	booking, err := h.BookingRepo.GetForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := auth.Require(actor, auth.CapManageBooking, booking.UserID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !booking.CanCancel() {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "booking already in a terminal state",
			"status": booking.Status,
		})
	}
	show, err := h.ShowRepo.GetByIDTx(ctx, tx, booking.ShowID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if show.Started(now) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "show already started"})
	}

	status := model.BookingCancelledByUser
	if auth.IsOverride(actor, booking.UserID) {
		status = model.BookingCancelledBySystem
	}
	if err := h.BookingRepo.UpdateStatusTx(ctx, tx, booking.ID, status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}
	if err := h.BookedSeatRepo.ReleaseByBookingTx(ctx, tx, booking.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id": booking.ID,
		"status":     status,
	})
}
