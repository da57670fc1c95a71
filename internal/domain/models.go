package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Stock     int             `db:"stock" json:"stock"`
	Barcode   string          `db:"barcode" json:"barcode"`
	Category  string          `db:"category" json:"category"`
	CreatedAt string          `db:"created_at" json:"createdAt"`
}

// ProductOrder selects how catalog listings are sorted.
type ProductOrder int

const (
	ByName ProductOrder = iota
	ByNewest
)

type ItemKind string

const (
	// KindProduct lines reference a catalog product and move its stock.
	KindProduct ItemKind = "product"
	// KindCustom lines are manual entries with no stock effect.
	KindCustom ItemKind = "custom"
)

// SaleItem is the snapshot of one cart line as it was sold.
type SaleItem struct {
	Kind       ItemKind        `json:"kind"`
	ProductID  string          `json:"productId,omitempty"`
	Name       string          `json:"name,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Qty        int             `json:"qty"`
	Unresolved bool            `json:"unresolved,omitempty"`
}

type Cashier struct {
	Email string
	Name  string
}

type Sale struct {
	ID            string          `db:"id"`
	ItemsJSON     string          `db:"items_json"`
	Total         decimal.Decimal `db:"total"`
	PaymentMethod string          `db:"payment_method"`
	CashierEmail  string          `db:"cashier_email"`
	CashierName   string          `db:"cashier_name"`
	CreatedAt     string          `db:"created_at"`
	DateString    string          `db:"date_string"`
}

// Cashier returns the display name, falling back to the email.
func (s Sale) Cashier() string {
	if s.CashierName != "" {
		return s.CashierName
	}
	return s.CashierEmail
}

const (
	PaymentCash = "Cash"
	PaymentCard = "Card"
	PaymentQR   = "QR"
)

// Revenue is the running aggregate maintained alongside every sale.
type Revenue struct {
	TotalCents int64 `db:"total_cents"`
	SaleCount  int64 `db:"sale_count"`
}

func (r Revenue) Total() decimal.Decimal {
	return decimal.New(r.TotalCents, -2)
}

// Items decodes the stored item snapshot.
func (s Sale) Items() ([]SaleItem, error) {
	var items []SaleItem
	if s.ItemsJSON == "" {
		return items, nil
	}
	err := json.Unmarshal([]byte(s.ItemsJSON), &items)
	return items, err
}

// StockStatus buckets a stock level for display.
type StockStatus string

const (
	InStock    StockStatus = "IN_STOCK"
	LowStock   StockStatus = "LOW_STOCK"
	OutOfStock StockStatus = "OUT_OF_STOCK"
)

// StockLevel is one product's current stock as shown to the owner.
type StockLevel struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Qty       int         `json:"qty"`
	Status    StockStatus `json:"status"`
}
