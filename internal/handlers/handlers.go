package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wtusfo/song-and-singer/internal/auth"
	"github.com/wtusfo/song-and-singer/internal/config"
	"github.com/wtusfo/song-and-singer/internal/database"
	"github.com/wtusfo/song-and-singer/internal/events"
	"github.com/wtusfo/song-and-singer/internal/identity"
	"github.com/wtusfo/song-and-singer/internal/logger"
	"github.com/wtusfo/song-and-singer/internal/metrics"
	"github.com/wtusfo/song-and-singer/internal/models"
	"github.com/wtusfo/song-and-singer/internal/review"
	"github.com/wtusfo/song-and-singer/internal/typesense"
)

// IdentityProvider is the part of the identity client the handlers use.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*identity.User, error)
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	SignOut(ctx context.Context, token string) error
	AdminUser(ctx context.Context, id string) (*identity.User, error)
	AdminListUsers(ctx context.Context, page, perPage int) ([]identity.User, error)
}

// SearchIndex is the read side of the search index plus full rebuilds.
type SearchIndex interface {
	Search(ctx context.Context, query string, languageID *int64, p models.Page) (*typesense.SearchResult, error)
	ReindexAll(ctx context.Context, submissions []models.Submission) error
}

// Deps wires the handler to the rest of the server. Search is nil when the
// index is disabled.
type Deps struct {
	DB       *database.DB
	Review   *review.Service
	Bus      *events.Bus
	Identity IdentityProvider
	Search   SearchIndex
	Verifier *auth.Verifier
	Metrics  *metrics.Metrics
	Config   *config.Config
	Log      *logger.Logger
}

type Handler struct {
	db       *database.DB
	review   *review.Service
	bus      *events.Bus
	identity IdentityProvider
	search   SearchIndex
	verifier *auth.Verifier
	metrics  *metrics.Metrics
	cfg      *config.Config
	log      *logger.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		db:       d.DB,
		review:   d.Review,
		bus:      d.Bus,
		identity: d.Identity,
		search:   d.Search,
		verifier: d.Verifier,
		metrics:  d.Metrics,
		cfg:      d.Config,
		log:      log,
	}
}

// HealthCheck reports database reachability and whether search is enabled
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	searchStatus := "disabled"
	if h.search != nil {
		searchStatus = "enabled"
	}

	if err := h.db.Health(c.UserContext()); err != nil {
		h.log.Error("health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "unreachable",
			"search":   searchStatus,
		})
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": "ok",
		"search":   searchStatus,
	})
}

// ErrorHandler turns every error returned by a handler into the
// {"error": "..."} envelope.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := classify(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return respondError(c, status, message)
	}
}

func classify(err error) (int, string) {
	var fiberErr *fiber.Error
	var validationErr *models.ValidationError
	var validationErrs models.ValidationErrors
	var storeErr *database.StoreError
	var identityErr *identity.Error

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.Is(err, review.ErrInvalidDecision):
		return fiber.StatusBadRequest, "Invalid payload"
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Error()
	case errors.As(err, &validationErrs):
		return fiber.StatusBadRequest, validationErrs.Error()
	case errors.Is(err, database.ErrNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.As(err, &storeErr):
		return fiber.StatusBadRequest, storeErr.Message()
	case errors.As(err, &identityErr) && identityErr.Status >= 400 && identityErr.Status < 500:
		return identityErr.Status, identityErr.Message
	}
	return fiber.StatusInternalServerError, "An unexpected error occurred"
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func respondData(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"data": data})
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, message string) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, message)
	}
	return id, nil
}
