package services_test

import (
	"database/sql"
	"errors"
	"testing"

	"counterpos/internal/domain"
	"counterpos/internal/repos"
	"counterpos/internal/services"
)

func TestStatusThresholds(t *testing.T) {
	cases := map[int]domain.StockStatus{
		-2: domain.OutOfStock,
		0:  domain.OutOfStock,
		1:  domain.LowStock,
		5:  domain.LowStock,
		6:  domain.InStock,
	}
	for qty, want := range cases {
		if got := services.Status(qty); got != want {
			t.Fatalf("Status(%d) = %s, want %s", qty, got, want)
		}
	}
}

func TestSetStock(t *testing.T) {
	db := memdb(t)
	addProduct(t, db, "P1", "Notebook", "9.99", 0)
	svc := services.NewInventoryService(repos.NewInventoryRepo(db))

	if _, err := svc.SetStock(t.Context(), "P1", "-4"); !errors.Is(err, services.ErrInvalidRequest) {
		t.Fatalf("negative: want ErrInvalidRequest, got %v", err)
	}
	if _, err := svc.SetStock(t.Context(), "missing", "4"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("missing product: want sql.ErrNoRows, got %v", err)
	}
	if n, err := svc.SetStock(t.Context(), "P1", " 24 "); err != nil || n != 24 {
		t.Fatalf("set: %v %d", err, n)
	}

	levels, err := svc.Levels(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range levels {
		if l.ProductID == "P1" && (l.Qty != 24 || l.Status != domain.InStock) {
			t.Fatalf("P1 level: %+v", l)
		}
	}
}
