package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "counterpos/internal/log"
)

var errNoCSRFToken = errors.New("missing csrf token")

// CSRFToken reads the token from the X-CSRF-Token header (fetch calls) or the
// csrf form field (plain forms).
func CSRFToken(c *fiber.Ctx) (string, error) {
	if tok := c.Get("X-CSRF-Token"); tok != "" {
		return tok, nil
	}
	if tok := c.FormValue("csrf"); tok != "" {
		return tok, nil
	}
	return "", errNoCSRFToken
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	// The CSRF middleware stores its token in Locals; fall back to the cookie.
	tok, _ := c.Locals("csrf").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": msg})
}

// ErrorHandler renders a friendly page for any error a handler returns. The
// status of a 4xx fiber.Error is kept; its message is not shown.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		code = fe.Code
	}
	if code >= 500 {
		applog.Error(c, "server.error", err, nil)
	}
	const msg = "Something went wrong. Please try again."
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
