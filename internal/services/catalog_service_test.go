package services_test

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"counterpos/internal/domain"
	"counterpos/internal/repos"
	"counterpos/internal/services"
)

func TestCatalogAddListDelete(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewProductRepo(db))
	svc.Now = func() time.Time { return time.Now().Add(time.Hour) }

	p, err := svc.AddProduct(t.Context(), services.NewProduct{
		Name: "  Avocado Toast ", Price: "4.5", Stock: "7", Category: "Food",
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Avocado Toast" || p.Price.StringFixed(2) != "4.50" {
		t.Fatalf("unexpected product: %+v", p)
	}

	byNewest, err := svc.ForDashboard(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(byNewest) != 5 || byNewest[0].ID != p.ID {
		t.Fatalf("dashboard order: newest first expected, got %+v", byNewest[0])
	}
	byName, err := svc.ForSale(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if byName[0].Name != "Avocado Toast" {
		t.Fatalf("sale screen order: by name expected, got %s", byName[0].Name)
	}

	if err := svc.DeleteProduct(t.Context(), p.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteProduct(t.Context(), p.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("second delete: want sql.ErrNoRows, got %v", err)
	}
}

func TestDeletedProductKeepsSaleSnapshot(t *testing.T) {
	db := memdb(t)
	addProduct(t, db, "P1", "Notebook", "9.99", 10)
	checkout := services.NewCheckoutService(db, services.StockAllow, time.UTC)
	rc, err := checkout.Checkout(t.Context(), services.CheckoutRequest{
		Items: []services.CartLine{{ProductID: "P1", Name: "Notebook", Price: "9.99", Qty: 1}},
		Total: "9.99",
	}, cashier)
	if err != nil {
		t.Fatal(err)
	}

	if err := services.NewCatalogService(repos.NewProductRepo(db)).DeleteProduct(t.Context(), "P1"); err != nil {
		t.Fatal(err)
	}
	sale, err := repos.NewSaleRepo(db).Get(t.Context(), rc.SaleID)
	if err != nil {
		t.Fatal(err)
	}
	items, err := sale.Items()
	if err != nil || len(items) != 1 || items[0].Name != "Notebook" || items[0].Kind != domain.KindProduct {
		t.Fatalf("snapshot: %v %+v", err, items)
	}
}

func TestAddProductRejectsBadInput(t *testing.T) {
	svc := services.NewCatalogService(repos.NewProductRepo(memdb(t)))
	for name, in := range map[string]services.NewProduct{
		"empty name":  {Name: " ", Price: "1", Stock: "1"},
		"bad price":   {Name: "x", Price: "abc", Stock: "1"},
		"cents frac":  {Name: "x", Price: "0.001", Stock: "1"},
		"bad stock":   {Name: "x", Price: "1", Stock: "1.5"},
		"long categ":  {Name: "x", Price: "1", Stock: "1", Category: strings.Repeat("c", 41)},
		"bad barcode": {Name: "x", Price: "1", Stock: "1", Barcode: "12 34"},
	} {
		if _, err := svc.AddProduct(t.Context(), in); !errors.Is(err, services.ErrInvalidRequest) {
			t.Fatalf("%s: want ErrInvalidRequest, got %v", name, err)
		}
	}
}
