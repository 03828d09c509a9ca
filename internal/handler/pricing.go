package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/auth"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// PricingHandler exposes the administrative pricing surface for
// theater owners: listing a show's price table, adding a seat-type
// price and correcting an existing one. Authorization ties each show
// to the owner of its theater.
type PricingHandler struct {
	TheaterRepo *repository.TheaterRepo
	PricingRepo *repository.PricingRepo
}

// NewPricingHandler constructs a PricingHandler.
func NewPricingHandler(theaterRepo *repository.TheaterRepo, pricingRepo *repository.PricingRepo) *PricingHandler {
	if theaterRepo == nil || pricingRepo == nil {
		panic("nil repository passed to NewPricingHandler")
	}
	return &PricingHandler{TheaterRepo: theaterRepo, PricingRepo: pricingRepo}
}

// requireShowOwner resolves the show's theater owner and checks the
// pricing capability against it. It writes the error response itself
// and reports whether the caller may proceed.
func (h *PricingHandler) requireShowOwner(c echo.Context, showID uint64) bool {
	actor, err := getActor(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return false
	}
	ownerID, err := h.TheaterRepo.OwnerOfShow(c.Request().Context(), showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return false
	}
	if err := auth.Require(actor, auth.CapManagePricing, ownerID); err != nil {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		return false
	}
	return true
}

// ListPricing handles GET /v1/shows/:id/pricing.
func (h *PricingHandler) ListPricing(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	if !h.requireShowOwner(c, showID) {
		return nil
	}
	rows, err := h.PricingRepo.ListByShow(c.Request().Context(), showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load pricing"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}

// CreatePricing handles POST /v1/shows/:id/pricing. Each seat type may
// have exactly one price row per show.
func (h *PricingHandler) CreatePricing(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	if !h.requireShowOwner(c, showID) {
		return nil
	}
	var body struct {
		SeatType   string `json:"seat_type"`
		PriceCents uint32 `json:"price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !model.ValidSeatType(body.SeatType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat type"})
	}
	if body.PriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be positive"})
	}
	row := &model.ShowSeatPricing{ShowID: showID, SeatType: body.SeatType, PriceCents: body.PriceCents}
	if err := h.PricingRepo.Create(c.Request().Context(), row); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "pricing already defined for this seat type"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create pricing"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": row})
}

// UpdatePricing handles PATCH /v1/pricing/:id. Corrections only change
// future bookings; totals already snapshotted on bookings keep the
// price that was in force when they were created.
func (h *PricingHandler) UpdatePricing(c echo.Context) error {
	pricingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pricing id"})
	}
	row, err := h.PricingRepo.GetByID(c.Request().Context(), pricingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pricing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !h.requireShowOwner(c, row.ShowID) {
		return nil
	}
	var body struct {
		PriceCents uint32 `json:"price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.PriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be positive"})
	}
	if err := h.PricingRepo.UpdatePrice(c.Request().Context(), pricingID, body.PriceCents); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pricing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update pricing"})
	}
	row.PriceCents = body.PriceCents
	return c.JSON(http.StatusOK, echo.Map{"item": row})
}
