package services

import (
	"context"

	"counterpos/internal/domain"
	"counterpos/internal/repos"
	"counterpos/internal/validate"
)

// lowStockAt is the level at or below which a product shows as LOW_STOCK.
const lowStockAt = 5

type InventoryService struct {
	Inv *repos.InventoryRepo
}

func NewInventoryService(inv *repos.InventoryRepo) *InventoryService {
	return &InventoryService{Inv: inv}
}

// Status converts a qty to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
// Negative stock, possible under the allow policy, counts as out of stock.
func Status(qty int) domain.StockStatus {
	switch {
	case qty > lowStockAt:
		return domain.InStock
	case qty > 0:
		return domain.LowStock
	}
	return domain.OutOfStock
}

func (s *InventoryService) Levels(ctx context.Context) ([]domain.StockLevel, error) {
	rows, err := s.Inv.Levels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.StockLevel, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.StockLevel{ProductID: r.ProductID, Name: r.Name, Qty: r.Qty, Status: Status(r.Qty)})
	}
	return out, nil
}

// SetStock records a counted stock level for a product.
func (s *InventoryService) SetStock(ctx context.Context, productID, qty string) (int, error) {
	id, ok := validate.ID(productID)
	if !ok {
		return 0, invalid("unknown product")
	}
	n, ok := validate.Stock(qty)
	if !ok {
		return 0, invalid("stock must be a non-negative integer")
	}
	if err := s.Inv.SetQty(ctx, id, n); err != nil {
		return 0, err
	}
	return n, nil
}
