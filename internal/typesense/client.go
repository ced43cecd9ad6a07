package typesense

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/typesense/typesense-go/typesense"
	"github.com/typesense/typesense-go/typesense/api"
	"github.com/typesense/typesense-go/typesense/api/pointer"

	"github.com/wtusfo/song-and-singer/internal/logger"
	"github.com/wtusfo/song-and-singer/internal/models"
)

type Client struct {
	client *typesense.Client
	log    *logger.Logger
}

const collectionName = "lyrics"

func New(apiKey, host string, log *logger.Logger) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(host),
		typesense.WithAPIKey(apiKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	tc := &Client{client: client, log: log.WithComponent("typesense")}

	if err := tc.initSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("error initializing schema: %w", err)
	}

	tc.log.Info("typesense client initialized", "host", host)
	return tc, nil
}

func (c *Client) initSchema(ctx context.Context) error {
	_, err := c.client.Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "name_translation", Type: "string", Optional: pointer.True()},
			{Name: "artist_name", Type: "string"},
			{Name: "lyrics", Type: "string"},
			{Name: "lyrics_translation", Type: "string"},
			{Name: "genre_id", Type: "int64", Facet: pointer.True()},
			{Name: "language_id", Type: "int64", Facet: pointer.True()},
			{Name: "published_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("published_at"),
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("error creating collection: %w", err)
	}

	c.log.Info("typesense collection created", "collection", collectionName)
	return nil
}

func document(s *models.Submission) map[string]interface{} {
	doc := map[string]interface{}{
		"id":                 strconv.FormatInt(s.ID, 10),
		"name":               s.Name,
		"artist_name":        s.ArtistName,
		"lyrics":             s.Lyrics,
		"lyrics_translation": s.LyricsTranslation,
		"genre_id":           s.GenreID,
		"language_id":        s.LanguageID,
	}
	if s.NameTranslation != nil {
		doc["name_translation"] = *s.NameTranslation
	}
	if s.PublishedAt != nil {
		doc["published_at"] = s.PublishedAt.Unix()
	}
	return doc
}

// IndexSubmission upserts a published submission.
func (c *Client) IndexSubmission(ctx context.Context, s *models.Submission) error {
	if !s.IsPublished() {
		return fmt.Errorf("submission %d is not published", s.ID)
	}
	if _, err := c.client.Collection(collectionName).Documents().Upsert(ctx, document(s)); err != nil {
		return fmt.Errorf("error indexing submission: %w", err)
	}
	return nil
}

// DeleteSubmission removes a submission from the index. Missing documents are ignored.
func (c *Client) DeleteSubmission(ctx context.Context, id int64) error {
	_, err := c.client.Collection(collectionName).Document(strconv.FormatInt(id, 10)).Delete(ctx)
	var httpErr *typesense.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error deleting submission from index: %w", err)
	}
	return nil
}

// SearchResult holds the ids of matching submissions in rank order.
type SearchResult struct {
	IDs        []int64
	TotalFound int
	SearchTime int
}

// Search runs a full-text query over names, artists and both lyric texts.
func (c *Client) Search(ctx context.Context, query string, languageID *int64, p models.Page) (*SearchResult, error) {
	searchParams := &api.SearchCollectionParams{
		Q:       query,
		QueryBy: "name,name_translation,artist_name,lyrics,lyrics_translation",
		Prefix:  pointer.String("true"),
		Page:    pointer.Int(p.Page),
		PerPage: pointer.Int(p.Limit),
	}
	if languageID != nil {
		searchParams.FilterBy = pointer.String(fmt.Sprintf("language_id:=%d", *languageID))
	}

	result, err := c.client.Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("error searching: %w", err)
	}

	ids := make([]int64, 0)
	if result.Hits != nil {
		for _, hit := range *result.Hits {
			if hit.Document == nil {
				continue
			}
			raw, _ := (*hit.Document)["id"].(string)
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
	}

	searchTimeMs := 0
	if result.SearchTimeMs != nil {
		searchTimeMs = *result.SearchTimeMs
	}

	totalFound := 0
	if result.Found != nil {
		totalFound = *result.Found
	}

	return &SearchResult{
		IDs:        ids,
		TotalFound: totalFound,
		SearchTime: searchTimeMs,
	}, nil
}

// ReindexAll drops the collection and indexes every given submission.
func (c *Client) ReindexAll(ctx context.Context, submissions []models.Submission) error {
	c.log.Info("starting full reindex", "count", len(submissions))

	if _, err := c.client.Collection(collectionName).Delete(ctx); err != nil {
		c.log.Warn("could not delete existing collection", "error", err)
	}

	if err := c.initSchema(ctx); err != nil {
		return fmt.Errorf("error recreating schema: %w", err)
	}

	for i := range submissions {
		if err := c.IndexSubmission(ctx, &submissions[i]); err != nil {
			return fmt.Errorf("error indexing submission %d: %w", submissions[i].ID, err)
		}
		if (i+1)%100 == 0 {
			c.log.Info("reindex progress", "indexed", i+1, "total", len(submissions))
		}
	}

	c.log.Info("reindex complete", "count", len(submissions))
	return nil
}
