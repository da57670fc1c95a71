package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"counterpos/internal/domain"
	"counterpos/internal/repos"
	"counterpos/internal/validate"
)

type CatalogService struct {
	Prods *repos.ProductRepo
	Now   func() time.Time
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods, Now: time.Now}
}

// ForSale lists the sale screen catalog, by name.
func (s *CatalogService) ForSale(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.List(ctx, domain.ByName)
}

// ForDashboard lists every product, newest first.
func (s *CatalogService) ForDashboard(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.List(ctx, domain.ByNewest)
}

// NewProduct carries the raw owner form values.
type NewProduct struct {
	Name     string
	Price    string
	Stock    string
	Barcode  string
	Category string
}

func (s *CatalogService) AddProduct(ctx context.Context, in NewProduct) (domain.Product, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return domain.Product{}, invalid("name must be 1-80 characters")
	}
	price, ok := validate.Price(in.Price)
	if !ok {
		return domain.Product{}, invalid("price must be a non-negative amount")
	}
	stock, ok := validate.Stock(in.Stock)
	if !ok {
		return domain.Product{}, invalid("stock must be a non-negative integer")
	}
	barcode, ok := validate.Barcode(in.Barcode)
	if !ok {
		return domain.Product{}, invalid("barcode must be up to 32 letters or digits")
	}
	category, ok := validate.Category(in.Category)
	if !ok {
		return domain.Product{}, invalid("category must be at most 40 characters")
	}
	p := domain.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		Stock:     stock,
		Barcode:   barcode,
		Category:  category,
		CreatedAt: repos.FormatTime(s.Now()),
	}
	if err := s.Prods.Create(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// DeleteProduct removes a product; past sales keep their snapshots.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.Prods.Delete(ctx, id)
}
