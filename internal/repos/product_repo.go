package repos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"counterpos/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, price, stock, barcode, category, created_at`

// List returns every product in the requested order.
func (r *ProductRepo) List(ctx context.Context, order domain.ProductOrder) ([]domain.Product, error) {
	q := `SELECT ` + productCols + ` FROM products ORDER BY name, id`
	if order == domain.ByNewest {
		q = `SELECT ` + productCols + ` FROM products ORDER BY created_at DESC, id DESC`
	}
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, q)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT `+productCols+` FROM products WHERE id = ?`), id)
	return p, err
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO products(id,name,price,stock,barcode,category,created_at)
		VALUES(?,?,?,?,?,?,?)
	`), p.ID, p.Name, p.Price.StringFixed(2), p.Stock, p.Barcode, p.Category, p.CreatedAt)
	return err
}

// Delete removes a product; sql.ErrNoRows when nothing matched.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ProductRepo) Stock(ctx context.Context, id string) (int, error) {
	var qty int
	err := r.db.GetContext(ctx, &qty, r.db.Rebind(`SELECT stock FROM products WHERE id = ?`), id)
	return qty, err
}
