package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"counterpos/internal/domain"
	"counterpos/internal/repos"
	"counterpos/internal/validate"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrInsufficientStock = repos.ErrInsufficientStock
)

type StockPolicy string

const (
	// StockAllow decrements unconditionally; stock may go negative.
	StockAllow StockPolicy = "allow"
	// StockReject refuses a checkout that would take any product below zero.
	StockReject StockPolicy = "reject"
)

// CartLine is one client-supplied cart entry before coercion.
type CartLine struct {
	ProductID string
	Name      string
	Price     any
	Qty       any
}

type CheckoutRequest struct {
	Items         []CartLine
	Total         any
	PaymentMethod string
}

type Receipt struct {
	SaleID        string
	Total         decimal.Decimal
	ComputedTotal decimal.Decimal
	Unresolved    []string
}

type CheckoutService struct {
	DB       *sqlx.DB
	Policy   StockPolicy
	Location *time.Location
	Now      func() time.Time
}

func NewCheckoutService(db *sqlx.DB, policy StockPolicy, loc *time.Location) *CheckoutService {
	if loc == nil {
		loc = time.UTC
	}
	return &CheckoutService{DB: db, Policy: policy, Location: loc, Now: time.Now}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// DecodeCheckout parses a checkout body of the form
// {"cartItems":[{"id"|"productId","name","price","qty"}],"totalAmount":..,"paymentMethod":..}.
func DecodeCheckout(body []byte) (CheckoutRequest, error) {
	var raw struct {
		CartItems     json.RawMessage `json:"cartItems"`
		TotalAmount   any             `json:"totalAmount"`
		PaymentMethod string          `json:"paymentMethod"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return CheckoutRequest{}, invalid("malformed body")
	}
	var lines []map[string]any
	if len(raw.CartItems) == 0 || json.Unmarshal(raw.CartItems, &lines) != nil || lines == nil {
		return CheckoutRequest{}, invalid("no items in cart")
	}
	req := CheckoutRequest{Total: raw.TotalAmount, PaymentMethod: raw.PaymentMethod}
	for _, m := range lines {
		id := cast.ToString(m["productId"])
		if id == "" {
			id = cast.ToString(m["id"])
		}
		qty := m["qty"]
		if qty == nil {
			qty = m["quantity"]
		}
		req.Items = append(req.Items, CartLine{
			ProductID: strings.TrimSpace(id),
			Name:      cast.ToString(m["name"]),
			Price:     m["price"],
			Qty:       qty,
		})
	}
	return req, nil
}

var (
	maxQty = decimal.NewFromInt(1_000_000)
	// maxAmount bounds any single money value of a sale so the running
	// revenue total in cents stays within int64.
	maxAmount = decimal.NewFromInt(100_000_000_000)
)

func toDecimal(v any) (decimal.Decimal, error) {
	if _, ok := v.(bool); ok {
		return decimal.Zero, errors.New("not a number")
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}

func toQty(v any) (int, error) {
	if _, ok := v.(bool); ok {
		return 0, errors.New("not a number")
	}
	d, err := toDecimal(v)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() || d.LessThan(decimal.NewFromInt(1)) || d.GreaterThan(maxQty) {
		return 0, errors.New("quantity must be a whole number of at least 1")
	}
	return int(d.IntPart()), nil
}

// Checkout records a sale and moves stock for every product line in one atomic commit.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest, cashier domain.Cashier) (Receipt, error) {
	if len(req.Items) == 0 {
		return Receipt{}, invalid("no items in cart")
	}
	total, err := toDecimal(req.Total)
	if err != nil || total.IsNegative() {
		return Receipt{}, invalid("totalAmount must be a non-negative number")
	}
	if total.GreaterThan(maxAmount) {
		return Receipt{}, invalid("totalAmount exceeds %s", maxAmount)
	}
	method, ok := validate.PaymentMethod(req.PaymentMethod)
	if !ok {
		return Receipt{}, invalid("unknown payment method %q", req.PaymentMethod)
	}

	items := make([]domain.SaleItem, 0, len(req.Items))
	computed := decimal.Zero
	for i, line := range req.Items {
		qty, err := toQty(line.Qty)
		if err != nil {
			return Receipt{}, invalid("item %d: invalid qty", i+1)
		}
		price := decimal.Zero
		if line.Price != nil {
			if price, err = toDecimal(line.Price); err != nil || price.IsNegative() {
				return Receipt{}, invalid("item %d: invalid price", i+1)
			}
		}
		subtotal := price.Mul(decimal.NewFromInt(int64(qty)))
		if subtotal.GreaterThan(maxAmount) {
			return Receipt{}, invalid("item %d: amount exceeds %s", i+1, maxAmount)
		}
		kind := domain.KindCustom
		if line.ProductID != "" {
			kind = domain.KindProduct
		}
		items = append(items, domain.SaleItem{
			Kind:      kind,
			ProductID: line.ProductID,
			Name:      strings.TrimSpace(line.Name),
			Price:     price,
			Qty:       qty,
		})
		computed = computed.Add(subtotal)
	}
	if computed.GreaterThan(maxAmount) {
		return Receipt{}, invalid("cart amount exceeds %s", maxAmount)
	}

	total = total.Round(2)
	cents, err := repos.ToCents(total)
	if err != nil {
		return Receipt{}, invalid("totalAmount out of range")
	}

	now := s.Now()
	sale := domain.Sale{
		ID:            uuid.NewString(),
		Total:         total,
		PaymentMethod: method,
		CashierEmail:  cashier.Email,
		CashierName:   cashier.Name,
		CreatedAt:     repos.FormatTime(now),
		DateString:    now.In(s.Location).Format("2006-01-02 15:04:05"),
	}

	b := repos.NewBatch(s.DB)
	b.GuardStock(s.Policy == StockReject)
	b.CreateSale(sale, items)
	for _, it := range items {
		if it.Kind == domain.KindProduct {
			b.IncrementStock(it.ProductID, -it.Qty)
		}
	}
	b.IncrementRevenue(cents, 1)

	res, err := b.Commit(ctx)
	if err != nil {
		if errors.Is(err, repos.ErrInsufficientStock) {
			return Receipt{}, err
		}
		return Receipt{}, fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	return Receipt{
		SaleID:        sale.ID,
		Total:         total,
		ComputedTotal: computed,
		Unresolved:    res.Missing,
	}, nil
}
