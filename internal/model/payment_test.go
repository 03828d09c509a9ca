package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleSuccess(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	p := &Payment{Status: PaymentPending}

	require.NoError(t, p.Settle(PaymentSuccess, "txn-123", now))
	assert.Equal(t, PaymentSuccess, p.Status)
	require.NotNil(t, p.TransactionID)
	assert.Equal(t, "txn-123", *p.TransactionID)
	require.NotNil(t, p.PaidAt)
	assert.Equal(t, now, *p.PaidAt)
}

func TestSettleFailureKeepsPaidAtEmpty(t *testing.T) {
	p := &Payment{Status: PaymentPending}
	require.NoError(t, p.Settle(PaymentFailed, "", time.Now()))
	assert.Equal(t, PaymentFailed, p.Status)
	assert.Nil(t, p.PaidAt)
	assert.Nil(t, p.TransactionID)
}

func TestSettleSuccessIsImmutable(t *testing.T) {
	now := time.Now().UTC()
	p := &Payment{Status: PaymentPending}
	require.NoError(t, p.Settle(PaymentSuccess, "txn-1", now))

	assert.ErrorIs(t, p.Settle(PaymentSuccess, "txn-2", now), ErrAlreadySettled)
	assert.ErrorIs(t, p.Settle(PaymentFailed, "", now), ErrAlreadySettled)
	assert.Equal(t, "txn-1", *p.TransactionID)
}

func TestSettleFailedAllowsRetry(t *testing.T) {
	now := time.Now().UTC()
	p := &Payment{Status: PaymentPending}
	require.NoError(t, p.Settle(PaymentFailed, "", now))
	require.NoError(t, p.Settle(PaymentSuccess, "txn-retry", now))
	assert.Equal(t, PaymentSuccess, p.Status)
	assert.Equal(t, "txn-retry", *p.TransactionID)
}

func TestSettleRejectsUnknownOutcome(t *testing.T) {
	p := &Payment{Status: PaymentPending}
	assert.ErrorIs(t, p.Settle(PaymentPending, "", time.Now()), ErrInvalidOutcome)
	assert.ErrorIs(t, p.Settle(PaymentStatus("refunded"), "", time.Now()), ErrInvalidOutcome)
	assert.Equal(t, PaymentPending, p.Status)
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []string{
		PaymentMethodUPI, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodNetBanking, PaymentMethodWallet, PaymentMethodCash,
	} {
		assert.True(t, ValidPaymentMethod(m), m)
	}
	assert.False(t, ValidPaymentMethod("bitcoin"))
	assert.False(t, ValidPaymentMethod(""))
}
