package repository // repository defines data access for show seat pricing

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// PricingRepo resolves (show, seat type) pairs to prices. Pricing rows
// are created when a show is scheduled and are read-only afterwards
// except for administrative correction by the theater owner. Booking
// creation batch-fetches the whole map once per attempt so prices are
// a consistent snapshot for the duration of the transaction.
type PricingRepo struct {
	db *sql.DB
}

// NewPricingRepo constructs a PricingRepo with the given DB handle.
func NewPricingRepo(db *sql.DB) *PricingRepo {
	return &PricingRepo{db: db}
}

// PriceMapTx fetches all pricing rows for a show in one query and
// returns them keyed by seat type. Executed inside the booking
// transaction so the snapshot cannot change mid-booking.
func (r *PricingRepo) PriceMapTx(ctx context.Context, tx *sql.Tx, showID uint64) (map[string]uint32, error) {
	const q = `SELECT seat_type, price_cents FROM show_seat_pricing WHERE show_id = ?`
	rows, err := tx.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	prices := make(map[string]uint32)
	for rows.Next() {
		var seatType string
		var cents uint32
		if err := rows.Scan(&seatType, &cents); err != nil {
			return nil, err
		}
		prices[seatType] = cents
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return prices, nil
}

// ListByShow returns all pricing rows for a show ordered by seat type.
func (r *PricingRepo) ListByShow(ctx context.Context, showID uint64) ([]model.ShowSeatPricing, error) {
	const q = `SELECT id, show_id, seat_type, price_cents
	           FROM show_seat_pricing
	           WHERE show_id = ?
	           ORDER BY seat_type`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.ShowSeatPricing, 0)
	for rows.Next() {
		var p model.ShowSeatPricing
		if err := rows.Scan(&p.ID, &p.ShowID, &p.SeatType, &p.PriceCents); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a pricing row. The unique key on (show_id, seat_type)
// rejects a second row for the same pair; that case surfaces as
// ErrConflict. On success the generated ID is populated.
func (r *PricingRepo) Create(ctx context.Context, p *model.ShowSeatPricing) error {
	const q = `INSERT INTO show_seat_pricing (show_id, seat_type, price_cents) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.ShowID, p.SeatType, p.PriceCents)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// UpdatePrice changes the price of an existing pricing row. Returns
// sql.ErrNoRows when the row does not exist.
func (r *PricingRepo) UpdatePrice(ctx context.Context, id uint64, priceCents uint32) error {
	const q = `UPDATE show_seat_pricing SET price_cents = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, priceCents, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByID retrieves a single pricing row. Returns sql.ErrNoRows when
// absent so handlers can map it to 404.
func (r *PricingRepo) GetByID(ctx context.Context, id uint64) (*model.ShowSeatPricing, error) {
	const q = `SELECT id, show_id, seat_type, price_cents FROM show_seat_pricing WHERE id = ?`
	var p model.ShowSeatPricing
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.ShowID, &p.SeatType, &p.PriceCents)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// isDuplicateEntry reports whether err is MySQL error 1062 (duplicate
// entry for a unique key).
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
