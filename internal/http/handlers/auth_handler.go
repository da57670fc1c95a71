package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"counterpos/internal/domain"
	"counterpos/internal/log"
	"counterpos/internal/services"
	"counterpos/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func wantsJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON)
}

func homeFor(p *domain.Principal) string {
	if p.IsOwner() {
		return "/"
	}
	return "/pos"
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if p := principal(c); p != nil {
		return c.Redirect(homeFor(p))
	}
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx, status int, msg string) error {
	if wantsJSON(c) {
		return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
	}
	c.Status(status)
	return render(c, "login", fiber.Map{"Err": msg})
}

// Login accepts a form post or a JSON body; JSON callers get {success, redirectUrl}.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return h.loginFailed(c, fiber.StatusBadRequest, "Invalid email or password")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "bad_format"})
		return h.loginFailed(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !validate.Password(in.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return h.loginFailed(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	// Always start a fresh session id on login.
	sid := uuid.NewString()
	p, err := h.Auth.Login(c.UserContext(), sid, email, in.Password)
	if err == services.ErrBadCreds {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return h.loginFailed(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		log.Error(c, "auth.login.error", err, map[string]any{"email": email})
		return h.loginFailed(c, fiber.StatusInternalServerError, "Server error, please try again")
	}

	if old := c.Cookies(sessionCookie); old != "" {
		_ = h.Auth.Logout(c.UserContext(), old)
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false, // set true behind HTTPS
		Expires:  time.Now().Add(24 * time.Hour),
	})
	c.Locals("user", p)
	log.Audit(c, "auth.login.success", map[string]any{"email": p.Email, "role": string(p.Role)})

	if wantsJSON(c) {
		return c.JSON(fiber.Map{"success": true, "redirectUrl": homeFor(p)})
	}
	return c.Redirect(homeFor(p))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies(sessionCookie); sid != "" {
		_ = h.Auth.Logout(c.UserContext(), sid)
		log.Audit(c, "auth.logout", nil)
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	return c.Redirect("/login")
}
