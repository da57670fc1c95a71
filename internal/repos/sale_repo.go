package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"counterpos/internal/domain"
)

type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

const saleCols = `id, items_json, total, payment_method, cashier_email, cashier_name, created_at, date_string`

func (r *SaleRepo) Get(ctx context.Context, id string) (domain.Sale, error) {
	var s domain.Sale
	err := r.db.GetContext(ctx, &s, r.db.Rebind(`SELECT `+saleCols+` FROM sales WHERE id = ?`), id)
	return s, err
}

// Latest returns the newest sales first. limit <= 0 means no limit.
func (r *SaleRepo) Latest(ctx context.Context, limit int) ([]domain.Sale, error) {
	out := []domain.Sale{}
	err := r.Each(ctx, limit, func(s domain.Sale) error {
		out = append(out, s)
		return nil
	})
	return out, err
}

// Each streams sales newest first without materializing the whole collection.
func (r *SaleRepo) Each(ctx context.Context, limit int, fn func(domain.Sale) error) error {
	q := `SELECT ` + saleCols + ` FROM sales ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var s domain.Sale
		if err := rows.StructScan(&s); err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *SaleRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sales`)
	return n, err
}

// Revenue reads the running aggregate.
func (r *SaleRepo) Revenue(ctx context.Context) (domain.Revenue, error) {
	var rev domain.Revenue
	err := r.db.GetContext(ctx, &rev, `SELECT total_cents, sale_count FROM revenue WHERE id = 'all'`)
	return rev, err
}

// Reconcile recomputes the aggregate from every sale row and overwrites it
// when it has drifted. Both values are returned.
func (r *SaleRepo) Reconcile(ctx context.Context) (stored, scanned domain.Revenue, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return stored, scanned, err
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the aggregate first so a checkout committing during the scan waits
	// and lands its increment on top of the repaired value.
	if err = tx.GetContext(ctx, &stored, lockRevenueQuery(r.db.DriverName())); err != nil {
		return stored, scanned, err
	}
	var totals []decimal.Decimal
	if err = tx.SelectContext(ctx, &totals, `SELECT total FROM sales`); err != nil {
		return stored, scanned, err
	}
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	cents, err := ToCents(sum)
	if err != nil {
		return stored, scanned, err
	}
	scanned = domain.Revenue{TotalCents: cents, SaleCount: int64(len(totals))}
	if scanned == stored {
		return stored, scanned, nil
	}
	if _, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE revenue SET total_cents = ?, sale_count = ? WHERE id = 'all'
	`), scanned.TotalCents, scanned.SaleCount); err != nil {
		return stored, scanned, err
	}
	err = tx.Commit()
	return stored, scanned, err
}

func lockRevenueQuery(driver string) string {
	q := `SELECT total_cents, sale_count FROM revenue WHERE id = 'all'`
	if driver == "postgres" {
		q += ` FOR UPDATE`
	}
	return q
}

// ToCents converts an amount to whole cents, failing when it does not fit int64.
func ToCents(d decimal.Decimal) (int64, error) {
	c := d.Round(2).Shift(2)
	if !c.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrAmountOutOfRange, d.String())
	}
	return c.IntPart(), nil
}
