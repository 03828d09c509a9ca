package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// BrowseHandler serves the public reference surface: theaters, screens,
// shows and per-show seat availability. Responses are read-only and
// safe to cache; the response-cache middleware sits in front of these
// routes.
type BrowseHandler struct {
	TheaterRepo *repository.TheaterRepo
	ShowRepo    *repository.ShowRepo
	SeatRepo    *repository.SeatRepo
}

// NewBrowseHandler constructs a BrowseHandler. All dependencies must be
// non-nil.
func NewBrowseHandler(theaterRepo *repository.TheaterRepo, showRepo *repository.ShowRepo, seatRepo *repository.SeatRepo) *BrowseHandler {
	if theaterRepo == nil || showRepo == nil || seatRepo == nil {
		panic("nil repository passed to NewBrowseHandler")
	}
	return &BrowseHandler{TheaterRepo: theaterRepo, ShowRepo: showRepo, SeatRepo: seatRepo}
}

// ListTheaters handles GET /v1/theaters.
func (h *BrowseHandler) ListTheaters(c echo.Context) error {
	theaters, err := h.TheaterRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load theaters"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": theaters})
}

// ListScreens handles GET /v1/theaters/:id/screens.
func (h *BrowseHandler) ListScreens(c echo.Context) error {
	theaterID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	screens, err := h.TheaterRepo.ListScreens(c.Request().Context(), theaterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load screens"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": screens})
}

// ListShows handles GET /v1/screens/:id/shows.
func (h *BrowseHandler) ListShows(c echo.Context) error {
	screenID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
	}
	shows, err := h.ShowRepo.ListByScreen(c.Request().Context(), screenID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load shows"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shows})
}

// GetShow handles GET /v1/shows/:id. The response includes the booking
// window bounds so clients can tell users when sales open and close.
func (h *BrowseHandler) GetShow(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	show, err := h.ShowRepo.GetByID(c.Request().Context(), showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load show"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item":              show,
		"booking_opens_at":  show.BookingOpensAt(),
		"booking_closes_at": show.BookingClosesAt(),
	})
}

// ListAvailableSeats handles GET /v1/shows/:id/seats. A seat is
// available when it has no ledger row for the show; the per-seat price
// comes from the show's pricing snapshot.
func (h *BrowseHandler) ListAvailableSeats(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx := c.Request().Context()
	if _, err := h.ShowRepo.GetByID(ctx, showID); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load show"})
	}
	seats, err := h.SeatRepo.ListAvailableByShow(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}
