package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"counterpos/internal/config"
	"counterpos/internal/repos"
	"counterpos/internal/services"
)

type Deps struct {
	POSHandler       *POSHandler
	CheckoutHandler  *CheckoutHandler
	DashboardHandler *DashboardHandler
	ProductHandler   *ProductHandler
	ReportHandler    *ReportHandler
	APIHandler       *APIHandler
	InventoryHandler *InventoryHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, loc *time.Location) *Deps {
	prodRepo := repos.NewProductRepo(db)
	saleRepo := repos.NewSaleRepo(db)
	invRepo := repos.NewInventoryRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	checkoutSvc := services.NewCheckoutService(db, services.StockPolicy(cfg.StockPolicy), loc)
	invSvc := services.NewInventoryService(invRepo)
	dashSvc := services.NewDashboardService(prodRepo, saleRepo, invSvc)
	reportSvc := services.NewReportService(saleRepo, loc)

	return &Deps{
		POSHandler:       &POSHandler{Catalog: catalogSvc},
		CheckoutHandler:  &CheckoutHandler{Checkout: checkoutSvc},
		DashboardHandler: &DashboardHandler{Dash: dashSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		ReportHandler:    &ReportHandler{Reports: reportSvc},
		APIHandler:       &APIHandler{Auth: auth, Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
	}
}
