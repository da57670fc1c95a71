package handlers_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"counterpos/internal/config"
	"counterpos/internal/http/handlers"
	applog "counterpos/internal/log"
	"counterpos/internal/repos"
	"counterpos/internal/services"
)

const (
	ownerEmail  = "owner@counterpos.test"
	ownerSecret = "0wnerSecret!"
	staffEmail  = "sokha@counterpos.test"
	staffPass   = "Passw0rd!"
)

type testApp struct {
	app  *fiber.App
	db   *sqlx.DB
	auth *services.AuthService
}

type appOpts struct {
	stockPolicy string
	jwtSecret   string
	loginMax    int
}

// newTestApp wires the same middleware and routes as cmd/counterpos against an
// in-memory database.
func newTestApp(t *testing.T, o appOpts) *testApp {
	t.Helper()
	if o.stockPolicy == "" {
		o.stockPolicy = "allow"
	}
	if o.loginMax == 0 {
		o.loginMax = 5
	}
	cfg := config.Config{DBDriver: "sqlite", DBDSN: ":memory:", StockPolicy: o.stockPolicy, JWTSecret: o.jwtSecret}
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(ownerSecret), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash owner secret: %v", err)
	}
	authSvc := &services.AuthService{
		Users:      repos.NewUserRepo(db),
		OwnerEmail: ownerEmail,
		OwnerHash:  string(hash),
		JWTSecret:  []byte(cfg.JWTSecret),
	}
	authH := &handlers.AuthHandler{Auth: authSvc}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(handlers.AttachUser(authSvc))
	app.Use(csrf.New(csrf.Config{
		Extractor:      handlers.CSRFToken,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ContextKey:     "csrf",
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).SendString("Security check failed")
		},
	}))

	deps := handlers.NewDeps(db, cfg, authSvc, time.UTC)

	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{Max: o.loginMax, Expiration: time.Minute}), authH.Login)
	app.Post("/logout", authH.Logout)

	app.Get("/pos", handlers.RequireUser(authSvc), deps.POSHandler.Screen)
	app.Post("/checkout", handlers.RequireUser(authSvc), deps.CheckoutHandler.Place)

	owner := handlers.RequireOwner(authSvc)
	app.Get("/", owner, deps.DashboardHandler.Show)
	app.Post("/product/add", owner, deps.ProductHandler.Add)
	app.Post("/product/delete/:id", owner, deps.ProductHandler.Delete)
	app.Get("/export/:format", owner, deps.ReportHandler.Export)
	app.Post("/product/stock/:id", owner, deps.InventoryHandler.Set)

	api := app.Group("/api/v1")
	api.Post("/token", deps.APIHandler.Token)
	api.Get("/products", handlers.RequireToken(authSvc), deps.APIHandler.Products)
	api.Get("/stock", handlers.RequireToken(authSvc), deps.InventoryHandler.Levels)
	api.Post("/checkout", handlers.RequireToken(authSvc), deps.CheckoutHandler.Place)

	return &testApp{app: app, db: db, auth: authSvc}
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// csrf fetches a token the same way a browser does: by loading the login page.
func (ta *testApp) csrf(t *testing.T) string {
	t.Helper()
	resp, err := ta.app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

func (ta *testApp) postForm(t *testing.T, path, form, csrfTok, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if csrfTok != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

// login posts the login form and returns the new session id.
func (ta *testApp) login(t *testing.T, email, password string) (sid, csrfTok string) {
	t.Helper()
	csrfTok = ta.csrf(t)
	resp := ta.postForm(t, "/login", "csrf="+csrfTok+"&email="+email+"&password="+password, csrfTok, "")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("login %s: expected redirect, got %d", email, resp.StatusCode)
	}
	sid = extractCookie(resp, "sid")
	if sid == "" {
		t.Fatalf("login %s: no sid cookie", email)
	}
	return sid, csrfTok
}

func (ta *testApp) get(t *testing.T, path, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatal(err)
	}
	return string(b)
}

func (ta *testApp) productID(t *testing.T, name string) string {
	t.Helper()
	var id string
	if err := ta.db.Get(&id, `SELECT id FROM products WHERE name = ?`, name); err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return id
}

func (ta *testApp) stock(t *testing.T, id string) int {
	t.Helper()
	n, err := repos.NewProductRepo(ta.db).Stock(t.Context(), id)
	if err != nil {
		t.Fatalf("stock %s: %v", id, err)
	}
	return n
}

// captureLogs swaps the global zap logger for an in-memory observer while fn runs.
func captureLogs(t *testing.T, fn func()) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()
	fn()
	return logs
}

func hasAction(logs *observer.ObservedLogs, action string) bool {
	return logs.FilterMessage(action).Len() > 0
}
