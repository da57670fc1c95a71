package repos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// StockRow is a product's stock with its name, for the owner's stock table.
type StockRow struct {
	ProductID string `db:"id"`
	Name      string `db:"name"`
	Qty       int    `db:"stock"`
}

// Levels lists stock for every product, lowest first.
func (r *InventoryRepo) Levels(ctx context.Context) ([]StockRow, error) {
	rows := []StockRow{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, stock FROM products
		ORDER BY stock, name
	`)
	return rows, err
}

// SetQty overwrites the stock count after a physical count or delivery.
// sql.ErrNoRows when the product does not exist.
func (r *InventoryRepo) SetQty(ctx context.Context, productID string, qty int) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE products SET stock = ? WHERE id = ?
	`), qty, productID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
