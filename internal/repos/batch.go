package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"counterpos/internal/domain"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAmountOutOfRange  = errors.New("amount out of range")
)

type stockDelta struct {
	productID string
	delta     int
}

// Batch stages writes that are applied by Commit in a single transaction.
// Either every staged write lands or none does.
type Batch struct {
	db *sqlx.DB

	sale       *domain.Sale
	saleItems  []domain.SaleItem
	stock      []stockDelta
	guardStock bool

	revenueCents int64
	revenueCount int64
}

// BatchResult reports product ids that matched no product row.
type BatchResult struct {
	Missing []string
}

func NewBatch(db *sqlx.DB) *Batch { return &Batch{db: db} }

// CreateSale stages the sale document. Items are stored as a snapshot; product
// lines whose id matches nothing are flagged Unresolved at commit time.
func (b *Batch) CreateSale(s domain.Sale, items []domain.SaleItem) {
	b.sale = &s
	b.saleItems = append([]domain.SaleItem(nil), items...)
}

// IncrementStock stages stock = stock + delta for a product.
func (b *Batch) IncrementStock(productID string, delta int) {
	b.stock = append(b.stock, stockDelta{productID: productID, delta: delta})
}

// GuardStock makes every staged stock increment fail the batch when it would
// leave stock below zero.
func (b *Batch) GuardStock(on bool) { b.guardStock = on }

func (b *Batch) IncrementRevenue(cents, count int64) {
	b.revenueCents += cents
	b.revenueCount += count
}

func (b *Batch) Commit(ctx context.Context) (BatchResult, error) {
	var res BatchResult
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback() }()

	missing := map[string]bool{}
	for _, s := range b.stock {
		ok, err := b.applyStock(ctx, tx, s)
		if err != nil {
			return res, err
		}
		if !ok && !missing[s.productID] {
			missing[s.productID] = true
			res.Missing = append(res.Missing, s.productID)
		}
	}

	if b.sale != nil {
		for i := range b.saleItems {
			if b.saleItems[i].Kind == domain.KindProduct && missing[b.saleItems[i].ProductID] {
				b.saleItems[i].Unresolved = true
			}
		}
		raw, err := json.Marshal(b.saleItems)
		if err != nil {
			return res, err
		}
		s := b.sale
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO sales(id,items_json,total,payment_method,cashier_email,cashier_name,created_at,date_string)
			VALUES(?,?,?,?,?,?,?,?)
		`), s.ID, string(raw), s.Total.StringFixed(2), s.PaymentMethod, s.CashierEmail, s.CashierName,
			s.CreatedAt, s.DateString); err != nil {
			return res, err
		}
	}

	if b.revenueCents != 0 || b.revenueCount != 0 {
		if err := b.applyRevenue(ctx, tx); err != nil {
			return res, err
		}
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	return res, nil
}

// applyStock reports false when the product does not exist.
func (b *Batch) applyStock(ctx context.Context, tx *sqlx.Tx, s stockDelta) (bool, error) {
	q := `UPDATE products SET stock = stock + ? WHERE id = ?`
	args := []any{s.delta, s.productID}
	if b.guardStock {
		q = `UPDATE products SET stock = stock + ? WHERE id = ? AND stock + ? >= 0`
		args = append(args, s.delta)
	}
	r, err := tx.ExecContext(ctx, tx.Rebind(q), args...)
	if err != nil {
		return false, err
	}
	n, err := r.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	if !b.guardStock {
		return false, nil
	}

	var exists int
	if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM products WHERE id = ?`), s.productID); err != nil {
		return false, err
	}
	if exists == 0 {
		return false, nil
	}
	return false, fmt.Errorf("%w for %s", ErrInsufficientStock, s.productID)
}

// applyRevenue refuses an increment that would take the total past int64;
// sqlite would silently turn the column into a float instead.
func (b *Batch) applyRevenue(ctx context.Context, tx *sqlx.Tx) error {
	if b.revenueCents < 0 {
		return fmt.Errorf("%w: negative revenue increment", ErrAmountOutOfRange)
	}
	r, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE revenue SET total_cents = total_cents + ?, sale_count = sale_count + ?
		WHERE id = 'all' AND total_cents <= ?
	`), b.revenueCents, b.revenueCount, int64(math.MaxInt64)-b.revenueCents)
	if err != nil {
		return err
	}
	n, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: revenue total would overflow", ErrAmountOutOfRange)
	}
	return nil
}
