package log

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"counterpos/internal/domain"
)

func TestWriteAddsRequestContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	app := fiber.New()
	app.Post("/product/add", func(c *fiber.Ctx) error {
		c.Locals("requestid", "rid-1")
		c.Locals("user", &domain.Principal{Email: "owner@counterpos.test", Role: domain.RoleOwner})
		Audit(c, "product.add", map[string]any{"product_id": "P1"})
		Security(c, "validation.fail", nil)
		return c.SendStatus(fiber.StatusNoContent)
	})
	if _, err := app.Test(httptest.NewRequest("POST", "/product/add", nil)); err != nil {
		t.Fatal(err)
	}

	all := logs.All()
	if len(all) != 2 {
		t.Fatalf("want 2 entries, got %d", len(all))
	}
	audit := all[0].ContextMap()
	if all[0].Message != "product.add" || audit["kind"] != "audit" || audit["actor"] != "owner@counterpos.test" {
		t.Fatalf("audit entry: %s %v", all[0].Message, audit)
	}
	if audit["req_id"] != "rid-1" || audit["method"] != "POST" || audit["path"] != "/product/add" {
		t.Fatalf("request fields: %v", audit)
	}
	if all[1].Level != zapcore.WarnLevel || all[1].ContextMap()["kind"] != "security" {
		t.Fatalf("security entry: %+v", all[1])
	}
}

func TestInitWritesToFile(t *testing.T) {
	prev := zap.L()
	defer zap.ReplaceGlobals(prev)

	file := t.TempDir() + "/app.log"
	logger, err := Init("production", file)
	if err != nil {
		t.Fatal(err)
	}
	Error(nil, "job.fail", nil, map[string]any{"job": "reconcile"})
	_ = logger.Sync()
	if zap.L() != logger {
		t.Fatal("Init must install the global logger")
	}
}
