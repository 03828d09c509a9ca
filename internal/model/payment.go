package model

import (
	"errors"
	"time"
)

// PaymentStatus enumerates the states of a payment attempt.  A
// payment that reaches success is immutable: no later settlement may
// change it.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment methods accepted at settlement.  The gateway integration
// itself is out of scope; the method is recorded for reporting only.
const (
	PaymentMethodUPI        = "upi"
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodDebitCard  = "debit_card"
	PaymentMethodNetBanking = "net_banking"
	PaymentMethodWallet     = "wallet"
	PaymentMethodCash       = "cash"
)

// ValidPaymentMethod reports whether m is a recognised payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodUPI, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodNetBanking, PaymentMethodWallet, PaymentMethodCash:
		return true
	}
	return false
}

// ErrAlreadySettled is returned when settling a payment whose status
// is already success.  Successful payments are immutable.
var ErrAlreadySettled = errors.New("payment already settled")

// ErrInvalidOutcome is returned when a settlement outcome is neither
// success nor failed.
var ErrInvalidOutcome = errors.New("invalid payment outcome")

// Payment records a payment attempt against a booking.  There is at
// most one payment per booking; its amount is copied from the
// booking's snapshot total at creation time.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – booking this payment settles (unique).
//  AmountCents   – amount copied from booking.total_price_cents.
//  Status        – pending, success or failed.
//  Method        – payment method label, see constants above.
//  TransactionID – external reference recorded on success.
//  PaidAt        – set when the payment succeeds.
//  CreatedAt     – creation timestamp.
type Payment struct {
	ID            uint64        // payments.id
	BookingID     uint64        // payments.booking_id
	AmountCents   uint32        // payments.amount_cents
	Status        PaymentStatus // payments.status
	Method        string        // payments.method
	TransactionID *string       // payments.transaction_id (nullable)
	PaidAt        *time.Time    // payments.paid_at (nullable)
	CreatedAt     time.Time     // payments.created_at
}

// Settle applies a settlement outcome to the payment in memory.  It
// enforces the immutability invariant (success is final) and rejects
// unknown outcomes.  A failed payment may be retried, so failed →
// success is permitted.  The caller persists the mutation.
func (p *Payment) Settle(outcome PaymentStatus, transactionID string, now time.Time) error {
	if outcome != PaymentSuccess && outcome != PaymentFailed {
		return ErrInvalidOutcome
	}
	if p.Status == PaymentSuccess {
		return ErrAlreadySettled
	}
	p.Status = outcome
	if outcome == PaymentSuccess {
		t := now.UTC()
		p.PaidAt = &t
		if transactionID != "" {
			p.TransactionID = &transactionID
		}
	}
	return nil
}
