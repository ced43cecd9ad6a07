package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/wtusfo/song-and-singer/internal/auth"
	"github.com/wtusfo/song-and-singer/internal/logger"
	"github.com/wtusfo/song-and-singer/internal/models"
)

// NewApp builds the fiber application with middleware and every route.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "song-and-singer",
		ErrorHandler: ErrorHandler(h.log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if h.metrics != nil {
		app.Use(h.metrics.Middleware())
	}
	app.Use(logger.Middleware(h.log))

	origins := h.cfg.CORSOrigins
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PATCH, DELETE, OPTIONS",
		AllowCredentials: origins != "*" && !strings.Contains(origins, "*"),
	}))

	h.RegisterRoutes(app)
	return app
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	if h.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))
	}

	api := app.Group("/api", auth.Authenticate(h.verifier, h.cfg.SessionCookie))

	api.Get("/health", h.HealthCheck)

	// Lyrics routes
	api.Get("/lyrics", h.ListLyrics)
	api.Get("/lyrics/search", h.SearchLyrics)
	api.Get("/lyrics/:id", h.GetLyrics)
	api.Post("/lyrics", auth.RequireAccount(), h.CreateLyrics)

	api.Get("/genres", h.ListGenres)
	api.Get("/languages", h.ListLanguages)

	// Session routes
	api.Post("/auth/signup", h.SignUp)
	api.Post("/auth/signin", h.SignIn)
	api.Post("/auth/signout", h.SignOut)
	api.Get("/auth/me", h.Me)

	// Review routes
	admin := api.Group("/admin", auth.RequireRole(models.RoleAdmin))
	admin.Get("/songs/list", h.ListSongs)
	admin.Post("/songs/decide", h.DecideSong)
	admin.Get("/songs/:id", h.GetSong)
	admin.Patch("/songs/:id", h.UnpublishSong)
	admin.Delete("/songs/:id", h.DeleteSong)
	admin.Get("/users", h.ListUsers)
	admin.Post("/reindex", h.ReindexAll)

	api.Get("/users", auth.RequireRole(models.RoleAdmin), h.ListUsers)
}
