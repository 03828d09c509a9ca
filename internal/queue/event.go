// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedQueue is the durable queue that carries confirmed
// booking events.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published after a payment settles
// successfully and the booking is confirmed. It carries enough detail
// for downstream consumers to log or notify without querying the
// primary database.
type BookingConfirmedEvent struct {
	BookingID       uint64   `json:"booking_id"`
	UserID          uint64   `json:"user_id"`
	ShowID          uint64   `json:"show_id"`
	MovieTitle      string   `json:"movie_title"`
	StartsAt        string   `json:"starts_at"`
	EndsAt          string   `json:"ends_at"`
	SeatNumbers     []string `json:"seats"`
	TotalPriceCents uint32   `json:"total_price_cents"`
	PaymentID       uint64   `json:"payment_id"`
	PaymentMethod   string   `json:"payment_method"`
	TransactionID   string   `json:"transaction_id,omitempty"`
	ConfirmedAt     string   `json:"confirmed_at"`
}
