package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// PaymentRepo persists payment attempts. The unique key on
// payments.booking_id enforces the one-payment-per-booking invariant
// at the storage layer; the immutability of successful payments is
// enforced by model.Payment.Settle before any update is written.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

const paymentColumns = `id, booking_id, amount_cents, status, method, transaction_id, paid_at, created_at`

func scanPayment(row *sql.Row) (*model.Payment, error) {
	var p model.Payment
	var txnID sql.NullString
	var paidAt sql.NullTime
	err := row.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Status, &p.Method, &txnID, &paidAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if txnID.Valid {
		v := txnID.String
		p.TransactionID = &v
	}
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	return &p, nil
}

// CreateTx inserts a pending payment for a booking within the caller's
// transaction. A second payment for the same booking trips the unique
// key and is reported as ErrDuplicatePayment. The generated ID and
// DB defaults are populated on the record.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (booking_id, amount_cents, status, method) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.BookingID, p.AmountCents, p.Status, p.Method)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicatePayment
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT created_at FROM payments WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt)
}

// GetByID retrieves a payment by ID. Returns ErrPaymentNotFound when
// no row matches.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`
	return scanPayment(r.db.QueryRowContext(ctx, q, id))
}

// GetForUpdateTx loads a payment inside the transaction and locks its
// row so concurrent settlements of the same payment serialize.
func (r *PaymentRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = ? FOR UPDATE`
	return scanPayment(tx.QueryRowContext(ctx, q, id))
}

// SettleTx writes the settled state of the payment produced by
// model.Payment.Settle back to storage.
func (r *PaymentRepo) SettleTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `UPDATE payments SET status = ?, transaction_id = ?, paid_at = ? WHERE id = ?`
	var txnID interface{}
	if p.TransactionID != nil {
		txnID = *p.TransactionID
	}
	var paidAt interface{}
	if p.PaidAt != nil {
		paidAt = p.PaidAt.UTC()
	}
	_, err := tx.ExecContext(ctx, q, p.Status, txnID, paidAt, p.ID)
	return err
}
