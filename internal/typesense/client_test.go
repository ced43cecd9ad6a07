package typesense

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typesense/typesense-go/typesense"

	"github.com/wtusfo/song-and-singer/internal/logger"
	"github.com/wtusfo/song-and-singer/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &Client{
		client: typesense.NewClient(
			typesense.WithServer(server.URL),
			typesense.WithAPIKey("test-key"),
			typesense.WithConnectionTimeout(time.Second),
		),
		log: logger.Discard(),
	}
}

func TestDocument(t *testing.T) {
	published := time.Unix(1767225600, 0)
	translation := "Ayer"
	doc := document(&models.Submission{
		ID:              42,
		Name:            "Yesterday",
		NameTranslation: &translation,
		ArtistName:      "The Beatles",
		GenreID:         1,
		LanguageID:      2,
		PublishedAt:     &published,
	})

	assert.Equal(t, "42", doc["id"])
	assert.Equal(t, "Ayer", doc["name_translation"])
	assert.Equal(t, int64(1767225600), doc["published_at"])
	assert.Equal(t, int64(2), doc["language_id"])
}

func TestIndexSubmission_RequiresPublication(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request %s", r.URL.Path)
	})

	err := c.IndexSubmission(context.Background(), &models.Submission{ID: 1})
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/lyrics/documents/search", r.URL.Path)
		assert.Equal(t, "love", r.URL.Query().Get("q"))
		assert.Equal(t, "language_id:=2", r.URL.Query().Get("filter_by"))
		assert.Equal(t, "test-key", r.Header.Get("X-TYPESENSE-API-KEY"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"found":2,"search_time_ms":3,"page":1,"out_of":10,
			"hits":[{"document":{"id":"7","name":"Love"}},{"document":{"id":"3","name":"Lovely"}}]}`))
	})

	language := int64(2)
	result, err := c.Search(context.Background(), "love", &language, models.Page{Page: 1, Limit: 12})
	require.NoError(t, err)

	assert.Equal(t, []int64{7, 3}, result.IDs)
	assert.Equal(t, 2, result.TotalFound)
	assert.Equal(t, 3, result.SearchTime)
}

func TestDeleteSubmission_MissingDocumentIsIgnored(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/collections/lyrics/documents/5", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Could not find a document with id: 5"}`))
	})

	assert.NoError(t, c.DeleteSubmission(context.Background(), 5))
}
