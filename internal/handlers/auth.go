package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wtusfo/song-and-singer/internal/auth"
	"github.com/wtusfo/song-and-singer/internal/identity"
)

const (
	sessionMaxAge     = 7 * 24 * time.Hour
	minPasswordLength = 8
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func parseCredentials(c *fiber.Ctx) (*credentials, error) {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}
	return &req, nil
}

// SignUp registers an account with the identity provider
func (h *Handler) SignUp(c *fiber.Ctx) error {
	req, err := parseCredentials(c)
	if err != nil {
		return err
	}
	if len(req.Password) < minPasswordLength {
		return respondError(c, fiber.StatusBadRequest, "Password must be at least 8 characters")
	}

	user, err := h.identity.SignUp(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	// An existing address comes back as a user without identities.
	if len(user.Identities) == 0 {
		return respondError(c, fiber.StatusBadRequest, "An account with this email already exists")
	}

	return c.JSON(fiber.Map{
		"message": "Please check your email to confirm your account",
		"user":    user,
	})
}

// SignIn exchanges credentials for a session stored in an HttpOnly cookie
func (h *Handler) SignIn(c *fiber.Ctx) error {
	req, err := parseCredentials(c)
	if err != nil {
		return err
	}

	session, err := h.identity.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.SessionCookie,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		Secure:   c.Protocol() == "https",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"message":      "Signed in successfully",
		"user":         session.User,
		"access_token": session.AccessToken,
	})
}

// SignOut revokes the session and clears the cookie
func (h *Handler) SignOut(c *fiber.Ctx) error {
	if token := auth.TokenFrom(c, h.cfg.SessionCookie); token != "" {
		if err := h.identity.SignOut(c.UserContext(), token); err != nil && !sessionGone(err) {
			h.log.Warn("sign-out at identity provider failed", "error", err)
		}
	}
	c.ClearCookie(h.cfg.SessionCookie)
	return c.JSON(fiber.Map{"message": "Signed out successfully"})
}

// sessionGone reports a logout rejected because the token is already expired
// or revoked.
func sessionGone(err error) bool {
	var identityErr *identity.Error
	if !errors.As(err, &identityErr) {
		return false
	}
	switch identityErr.Status {
	case fiber.StatusUnauthorized, fiber.StatusForbidden, fiber.StatusNotFound:
		return true
	}
	return false
}

// Me returns the account of the current session
func (h *Handler) Me(c *fiber.Ctx) error {
	account := auth.AccountFrom(c)
	if account == nil {
		return respondError(c, fiber.StatusUnauthorized, "Not authenticated")
	}
	return respondData(c, account)
}
