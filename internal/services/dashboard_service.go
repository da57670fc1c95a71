package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"counterpos/internal/domain"
	"counterpos/internal/repos"
)

const recentSalesLimit = 5

type Dashboard struct {
	Products    []domain.Product
	RecentSales []domain.Sale
	Revenue     domain.Revenue
	Stock       []domain.StockLevel
}

type DashboardService struct {
	Prods *repos.ProductRepo
	Sales *repos.SaleRepo
	Inv   *InventoryService
}

func NewDashboardService(prods *repos.ProductRepo, sales *repos.SaleRepo, inv *InventoryService) *DashboardService {
	return &DashboardService{Prods: prods, Sales: sales, Inv: inv}
}

// Load reads products, the latest sales, the revenue aggregate and stock levels concurrently.
func (s *DashboardService) Load(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Products, err = s.Prods.List(ctx, domain.ByNewest)
		return err
	})
	g.Go(func() (err error) {
		d.RecentSales, err = s.Sales.Latest(ctx, recentSalesLimit)
		return err
	})
	g.Go(func() (err error) {
		d.Revenue, err = s.Sales.Revenue(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Stock, err = s.Inv.Levels(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
