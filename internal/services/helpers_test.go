package services_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"counterpos/internal/domain"
	"counterpos/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func addProduct(t *testing.T, db *sqlx.DB, id, name, price string, stock int) {
	t.Helper()
	err := repos.NewProductRepo(db).Create(t.Context(), domain.Product{
		ID:        id,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		CreatedAt: repos.FormatTime(time.Now()),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func stockOf(t *testing.T, db *sqlx.DB, id string) int {
	t.Helper()
	n, err := repos.NewProductRepo(db).Stock(t.Context(), id)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

var cashier = domain.Cashier{Email: "sokha@counterpos.test", Name: "Sokha"}
