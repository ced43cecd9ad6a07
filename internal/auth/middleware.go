package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wtusfo/song-and-singer/internal/models"
)

const accountKey = "account"

// TokenFrom reads the bearer token, falling back to the session cookie.
func TokenFrom(c *fiber.Ctx, cookie string) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Cookies(cookie)
}

// Authenticate stores the verified account in the request locals. Requests
// without a valid token pass through anonymously.
func Authenticate(v *Verifier, cookie string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if account, err := v.Verify(TokenFrom(c, cookie)); err == nil {
			c.Locals(accountKey, account)
		}
		return c.Next()
	}
}

// AccountFrom returns the session account of the request, or nil.
func AccountFrom(c *fiber.Ctx) *models.Account {
	account, _ := c.Locals(accountKey).(*models.Account)
	return account
}

// RequireAccount rejects anonymous requests with 401.
func RequireAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if AccountFrom(c) == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		return c.Next()
	}
}

// RequireRole rejects anonymous requests with 401 and other roles with 403.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := AccountFrom(c)
		if account == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		if account.Role != role {
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}
		return c.Next()
	}
}
