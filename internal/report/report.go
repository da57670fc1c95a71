// Package report renders sales rows as xlsx, pdf or csv documents.
package report

import (
	"github.com/shopspring/decimal"

	"counterpos/internal/domain"
)

// Row is one sale as it appears in an exported report.
type Row struct {
	ID      string `csv:"Order ID"`
	Date    string `csv:"Date"`
	Cashier string `csv:"Cashier"`
	Amount  string `csv:"Total ($)"`
	Method  string `csv:"Payment"`

	Total decimal.Decimal `csv:"-"`
}

func FromSale(s domain.Sale) Row {
	return Row{
		ID:      s.ID,
		Date:    s.DateString,
		Cashier: s.Cashier(),
		Amount:  s.Total.StringFixed(2),
		Method:  s.PaymentMethod,
		Total:   s.Total,
	}
}
