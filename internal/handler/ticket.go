package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/auth"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

// TicketHandler serves issued tickets to their holders, including the
// rendered QR image used at theater entry.
type TicketHandler struct {
	TicketRepo *repository.TicketRepo
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(ticketRepo *repository.TicketRepo) *TicketHandler {
	if ticketRepo == nil {
		panic("nil repository passed to NewTicketHandler")
	}
	return &TicketHandler{TicketRepo: ticketRepo}
}

// ListTickets handles GET /v1/my-tickets. It returns every ticket
// belonging to the caller's bookings, newest first.
func (h *TicketHandler) ListTickets(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tickets, err := h.TicketRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tickets})
}

// loadTicket fetches the ticket and runs the view decision through the
// capability policy, so staff can pull up any ticket at the door while
// customers only see their own.
func (h *TicketHandler) loadTicket(c echo.Context) (*repository.TicketDetail, int, string) {
	actor, err := getActor(c)
	if err != nil {
		return nil, http.StatusUnauthorized, "unauthorized"
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return nil, http.StatusBadRequest, "invalid ticket id"
	}
	detail, ownerID, err := h.TicketRepo.GetDetail(c.Request().Context(), ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, http.StatusNotFound, "ticket not found"
		}
		return nil, http.StatusInternalServerError, "failed to load ticket"
	}
	if err := auth.Require(actor, auth.CapViewTicket, ownerID); err != nil {
		return nil, http.StatusForbidden, "forbidden"
	}
	return detail, http.StatusOK, ""
}

// GetTicket handles GET /v1/tickets/:id.
func (h *TicketHandler) GetTicket(c echo.Context) error {
	detail, code, msg := h.loadTicket(c)
	if detail == nil {
		return c.JSON(code, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// GetTicketQR handles GET /v1/tickets/:id/qr. It renders the ticket's
// stored QR payload as a PNG; the image itself is never persisted.
func (h *TicketHandler) GetTicketQR(c echo.Context) error {
	detail, code, msg := h.loadTicket(c)
	if detail == nil {
		return c.JSON(code, echo.Map{"error": msg})
	}
	png, err := service.RenderQRPNG(detail.QRPayload)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to render qr code"})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
