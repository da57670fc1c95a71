package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"counterpos/internal/config"
	"counterpos/internal/http/handlers"
	"counterpos/internal/jobs"
	applog "counterpos/internal/log"
	"counterpos/internal/repos"
	"counterpos/internal/services"
)

func main() {
	cfg := config.Load()

	if _, err := applog.Init(cfg.LogMode, cfg.LogFile); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		zap.S().Warnf("unknown TIMEZONE %q, using UTC", cfg.TimeZone)
		loc = time.UTC
	}

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		zap.S().Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{
		Users:      userRepo,
		OwnerEmail: cfg.OwnerEmail,
		OwnerHash:  cfg.OwnerSecretHash,
		JWTSecret:  []byte(cfg.JWTSecret),
	}
	if cfg.OwnerEmail == "" || cfg.OwnerSecretHash == "" {
		zap.S().Warn("OWNER_EMAIL / OWNER_SECRET_HASH not set; owner login is disabled")
	}
	authH := &handlers.AuthHandler{Auth: authSvc}

	sched := jobs.NewScheduler(repos.NewSaleRepo(db), userRepo)
	if err := sched.Start(loc, cfg.ReconcileSchedule); err != nil {
		zap.S().Fatalf("start scheduler: %v", err)
	}
	defer sched.Stop()

	// Templates & app
	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(cfg.LogMode != "production")

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.AttachUser(authSvc))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		Extractor:      handlers.CSRFToken,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     "csrf",
		// Bearer-token API calls carry no ambient credentials.
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))

	app.Static("/static", cfg.StaticDir)

	deps := handlers.NewDeps(db, cfg, authSvc, loc)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// Sale screen
	app.Get("/pos", handlers.RequireUser(authSvc), deps.POSHandler.Screen)
	app.Post("/checkout", handlers.RequireUser(authSvc), deps.CheckoutHandler.Place)

	// Owner
	owner := handlers.RequireOwner(authSvc)
	app.Get("/", owner, deps.DashboardHandler.Show)
	app.Post("/product/add", owner, deps.ProductHandler.Add)
	app.Post("/product/delete/:id", owner, deps.ProductHandler.Delete)
	app.Get("/export/:format", owner, deps.ReportHandler.Export)
	app.Post("/product/stock/:id", owner, deps.InventoryHandler.Set)

	// Terminal API
	api := app.Group("/api/v1")
	api.Post("/token", limiter.New(limiter.Config{Max: 10, Expiration: 10 * time.Minute}), deps.APIHandler.Token)
	api.Get("/products", handlers.RequireToken(authSvc), deps.APIHandler.Products)
	api.Get("/stock", handlers.RequireToken(authSvc), deps.InventoryHandler.Levels)
	api.Post("/checkout", handlers.RequireToken(authSvc), deps.CheckoutHandler.Place)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zap.S().Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	zap.S().Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zap.S().Errorf("shutdown: %v", err)
	}
}
