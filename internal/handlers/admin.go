package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wtusfo/song-and-singer/internal/models"
)

// ListSongs returns one page of submissions in any review state
func (h *Handler) ListSongs(c *fiber.Ctx) error {
	filter, err := adminFilter(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c, h.cfg.AdminPageSize)
	if err != nil {
		return err
	}

	result, err := h.db.ListSubmissions(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetSong returns a submission with its references and the uploader's email
func (h *Handler) GetSong(c *fiber.Ctx) error {
	id, err := paramID(c, "Invalid song id")
	if err != nil {
		return err
	}

	detail, err := h.db.GetSubmissionDetail(c.UserContext(), id)
	if err != nil {
		return err
	}

	if h.identity != nil {
		user, err := h.identity.AdminUser(c.UserContext(), detail.CreatedByID)
		if err != nil {
			h.log.WithSubmission(id).Warn("could not resolve uploader", "created_by_id", detail.CreatedByID, "error", err)
		} else if user.Email != "" {
			detail.UploaderEmail = &user.Email
		}
	}

	return respondData(c, detail)
}

// DecideSong approves or rejects a submission
func (h *Handler) DecideSong(c *fiber.Ctx) error {
	var req models.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid payload")
	}

	updated, err := h.review.Decide(c.UserContext(), req)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			return respondError(c, fiber.StatusBadRequest, "Invalid payload")
		}
		return err
	}

	message := "Lyrics rejected successfully"
	if req.Decision == models.DecisionApprove {
		message = "Lyrics approved successfully"
	}
	return c.JSON(fiber.Map{"message": message, "data": updated})
}

// UnpublishSong returns a submission to pending review
func (h *Handler) UnpublishSong(c *fiber.Ctx) error {
	id, err := paramID(c, "Invalid song id")
	if err != nil {
		return err
	}

	updated, err := h.review.Unpublish(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Song unpublished successfully", "data": updated})
}

// DeleteSong permanently removes a submission
func (h *Handler) DeleteSong(c *fiber.Ctx) error {
	id, err := paramID(c, "Invalid song id")
	if err != nil {
		return err
	}

	if err := h.review.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Song deleted successfully"})
}

// ListUsers returns the accounts known to the identity provider, reduced to
// id, email and creation time
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	page, err := queryPositive(c, "page", 1)
	if err != nil {
		return err
	}
	perPage, err := queryPositive(c, "per_page", 50)
	if err != nil {
		return err
	}

	users, err := h.identity.AdminListUsers(c.UserContext(), page, perPage)
	if err != nil {
		return err
	}

	redacted := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		redacted = append(redacted, models.UserSummary{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt})
	}
	return respondData(c, redacted)
}
