// Package router wires handlers, middleware and route groups onto the
// Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
)

// Handlers bundles every handler the route table needs.
type Handlers struct {
	Browse  *handler.BrowseHandler
	Booking *handler.BookingHandler
	Payment *handler.PaymentHandler
	Ticket  *handler.TicketHandler
	Pricing *handler.PricingHandler
}

// RegisterRoutes registers routes that do not require authentication.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse surface. The
// cache middleware is applied here and nowhere else: these responses
// are identical for every caller, booking state is not.
func RegisterPublic(e *echo.Echo, h *handler.BrowseHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/theaters", h.ListTheaters)
	g.GET("/theaters/:id/screens", h.ListScreens)
	g.GET("/screens/:id/shows", h.ListShows)
	g.GET("/shows/:id", h.GetShow)
	g.GET("/shows/:id/seats", h.ListAvailableSeats)
}

// RegisterCustomer registers the booking, payment and ticket endpoints
// under /v1. Routes require a valid JWT; RequireRole is a coarse gate
// and the capability policy inside handlers decides per-resource
// access. STAFF is admitted so support can inspect and cancel
// bookings on a customer's behalf.
func RegisterCustomer(e *echo.Echo, h *Handlers, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "STAFF"),
	)
	g.POST("/bookings", h.Booking.CreateBooking)
	g.GET("/bookings", h.Booking.ListBookings)
	g.GET("/bookings/:id", h.Booking.GetBooking)
	g.POST("/bookings/:id/cancel", h.Booking.CancelBooking)

	g.POST("/payments", h.Payment.CreatePayment)
	g.PATCH("/payments/:id", h.Payment.SettlePayment)
	g.GET("/payments/:id", h.Payment.GetPayment)

	g.GET("/my-tickets", h.Ticket.ListTickets)
	g.GET("/tickets/:id", h.Ticket.GetTicket)
	g.GET("/tickets/:id/qr", h.Ticket.GetTicketQR)
}

// RegisterOwner registers the administrative surface for theater
// owners: the pricing table of a show and the bookings taken for it.
func RegisterOwner(e *echo.Echo, h *Handlers, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "STAFF"),
	)
	g.GET("/shows/:id/pricing", h.Pricing.ListPricing)
	g.POST("/shows/:id/pricing", h.Pricing.CreatePricing)
	g.PATCH("/pricing/:id", h.Pricing.UpdatePricing)
	g.GET("/shows/:id/bookings", h.Booking.ListShowBookings)
}
