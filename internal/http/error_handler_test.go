package handlers_test

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"counterpos/internal/http/handlers"
)

func TestErrorHandlerHidesInternals(t *testing.T) {
	app := fiber.New(fiber.Config{
		Views:        html.New("../../web/templates", ".html"),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: relation \"sales\" does not exist")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "internal: teapot driver v2")
	})

	var resp500, resp418 int
	logs := captureLogs(t, func() {
		resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
		if err != nil {
			t.Fatal(err)
		}
		resp500 = resp.StatusCode
		body := readBody(t, resp)
		if !strings.Contains(body, "Something went wrong") || strings.Contains(body, "relation") {
			t.Fatalf("500 body leaks or lacks friendly text: %s", body)
		}

		resp, err = app.Test(httptest.NewRequest("GET", "/teapot", nil))
		if err != nil {
			t.Fatal(err)
		}
		resp418 = resp.StatusCode
		if body := readBody(t, resp); strings.Contains(body, "teapot driver") {
			t.Fatalf("4xx body leaks message: %s", body)
		}
	})
	if resp500 != fiber.StatusInternalServerError || resp418 != fiber.StatusTeapot {
		t.Fatalf("status codes: %d %d", resp500, resp418)
	}
	if n := logs.FilterMessage("server.error").Len(); n != 1 {
		t.Fatalf("only the 500 should be logged as server.error, got %d", n)
	}
}
