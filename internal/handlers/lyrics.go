package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wtusfo/song-and-singer/internal/auth"
	"github.com/wtusfo/song-and-singer/internal/database"
	"github.com/wtusfo/song-and-singer/internal/events"
	"github.com/wtusfo/song-and-singer/internal/models"
)

// ListLyrics returns one page of published lyrics, newest first
func (h *Handler) ListLyrics(c *fiber.Ctx) error {
	filter, err := publicFilter(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c, h.cfg.PublicPageSize)
	if err != nil {
		return err
	}

	result, err := h.db.ListPublished(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetLyrics returns a published entry with its genre and languages
func (h *Handler) GetLyrics(c *fiber.Ctx) error {
	id, err := paramID(c, "Invalid lyric id")
	if err != nil {
		return err
	}

	detail, err := h.db.GetPublishedSubmission(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respondData(c, detail)
}

// CreateLyrics stores a new submission. Submissions by administrators are
// published immediately; everyone else's wait for review.
func (h *Handler) CreateLyrics(c *fiber.Ctx) error {
	account := auth.AccountFrom(c)

	var req models.CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return models.ValidationErrors(errs)
	}
	if err := h.checkReferences(c, &req); err != nil {
		return err
	}

	var publishedAt *time.Time
	if account.IsAdmin() {
		now := time.Now().UTC()
		publishedAt = &now
	}

	created, err := h.db.CreateSubmission(c.UserContext(), &req, account.ID, publishedAt)
	if err != nil {
		return err
	}

	h.log.WithSubmission(created.ID).Info("submission created", "published", created.IsPublished())
	h.bus.Publish(events.Event{Kind: events.Created, SubmissionID: created.ID, Submission: created})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": created})
}

func (h *Handler) checkReferences(c *fiber.Ctx, req *models.CreateSubmissionRequest) error {
	var errs models.ValidationErrors

	ok, err := h.db.GenreExists(c.UserContext(), req.Genre)
	if err != nil {
		return err
	}
	if !ok {
		errs = append(errs, models.ValidationError{Field: "genre", Message: "does not exist"})
	}

	for _, ref := range []struct {
		field string
		id    int64
	}{
		{"language", req.Language},
		{"languageTranslation", req.LanguageTranslation},
	} {
		ok, err := h.db.LanguageExists(c.UserContext(), ref.id)
		if err != nil {
			return err
		}
		if !ok {
			errs = append(errs, models.ValidationError{Field: ref.field, Message: "does not exist"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SearchLyrics runs a full-text search over published lyrics, falling back
// to a name search in the database when the index is disabled
func (h *Handler) SearchLyrics(c *fiber.Ctx) error {
	query := c.Query("q")
	languageID, err := queryInt64(c, "language")
	if err != nil {
		return err
	}
	page, err := pageFrom(c, h.cfg.PublicPageSize)
	if err != nil {
		return err
	}

	if h.search == nil {
		result, err := h.db.ListPublished(c.UserContext(), models.ListFilter{Name: query, LanguageID: languageID}, page)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}

	if query == "" {
		// Empty query lists everything, enabling language-only filtering.
		query = "*"
	}

	hits, err := h.search.Search(c.UserContext(), query, languageID, page)
	if err != nil {
		return err
	}

	data := make([]models.SubmissionDetail, 0, len(hits.IDs))
	stale := 0
	for _, id := range hits.IDs {
		detail, err := h.db.GetPublishedSubmission(c.UserContext(), id)
		if errors.Is(err, database.ErrNotFound) {
			// The index lags behind an unpublish or delete.
			stale++
			continue
		}
		if err != nil {
			return err
		}
		data = append(data, *detail)
	}

	return c.JSON(models.ListResult[models.SubmissionDetail]{
		Data:     data,
		Metadata: models.ListMetadata{Count: max(hits.TotalFound-stale, 0), Page: page.Page, Limit: page.Limit},
	})
}

// ListGenres returns every genre ordered by name
func (h *Handler) ListGenres(c *fiber.Ctx) error {
	genres, err := h.db.ListGenres(c.UserContext())
	if err != nil {
		return err
	}
	return respondData(c, genres)
}

// ListLanguages returns every language ordered by name
func (h *Handler) ListLanguages(c *fiber.Ctx) error {
	languages, err := h.db.ListLanguages(c.UserContext())
	if err != nil {
		return err
	}
	return respondData(c, languages)
}

// ReindexAll rebuilds the search index from the published lyrics
func (h *Handler) ReindexAll(c *fiber.Ctx) error {
	if h.search == nil {
		return respondError(c, fiber.StatusBadRequest, "Search index is disabled")
	}

	submissions, err := h.db.AllPublished(c.UserContext())
	if err != nil {
		return err
	}

	if err := h.search.ReindexAll(c.UserContext(), submissions); err != nil {
		h.log.Error("reindex failed", "error", err)
		return respondError(c, fiber.StatusInternalServerError, "Reindex failed")
	}

	return c.JSON(fiber.Map{
		"message": "Reindex completed successfully",
		"count":   len(submissions),
	})
}
