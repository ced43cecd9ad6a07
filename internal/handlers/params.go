package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wtusfo/song-and-singer/internal/models"
)

const maxPageSize = 100

// queryInt64 returns nil for an absent parameter and a validation error for a
// value that is not a whole number.
func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &models.ValidationError{Field: key, Message: "must be a number"}
	}
	return &v, nil
}

func queryPositive(c *fiber.Ctx, key string, fallback int) (int, error) {
	v, err := queryInt64(c, key)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return fallback, nil
	}
	if *v < 1 {
		return 0, &models.ValidationError{Field: key, Message: "must be at least 1"}
	}
	return int(*v), nil
}

func pageFrom(c *fiber.Ctx, defaultLimit int) (models.Page, error) {
	page, err := queryPositive(c, "page", 1)
	if err != nil {
		return models.Page{}, err
	}
	limit, err := queryPositive(c, "limit", defaultLimit)
	if err != nil {
		return models.Page{}, err
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return models.Page{Page: page, Limit: limit}, nil
}

// adminFilter reads the review table's filter parameters.
func adminFilter(c *fiber.Ctx) (models.ListFilter, error) {
	var f models.ListFilter
	var err error

	if f.ID, err = queryInt64(c, "id"); err != nil {
		return f, err
	}
	if f.GenreID, err = queryInt64(c, "genre"); err != nil {
		return f, err
	}
	if f.LanguageID, err = queryInt64(c, "language"); err != nil {
		return f, err
	}
	f.Name = c.Query("name")

	if createdBy := c.Query("created_by"); createdBy != "" {
		if _, err := uuid.Parse(createdBy); err != nil {
			return f, &models.ValidationError{Field: "created_by", Message: "must be a UUID"}
		}
		f.CreatedByID = createdBy
	}
	return f, nil
}

// publicFilter reads the public listing's parameters. "search" is the name
// used by the site's search box.
func publicFilter(c *fiber.Ctx) (models.ListFilter, error) {
	var f models.ListFilter
	var err error

	if f.LanguageID, err = queryInt64(c, "language"); err != nil {
		return f, err
	}
	if f.GenreID, err = queryInt64(c, "genre"); err != nil {
		return f, err
	}
	f.Name = c.Query("search", c.Query("name"))
	f.PublishedOnly = true
	return f, nil
}
