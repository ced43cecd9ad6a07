package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/wtusfo/song-and-singer/internal/models"
)

const testCreator = "8c5a3c5e-7f0e-4a43-9a52-2f1f4a9c1d10"

// setupTestDB opens a file-backed SQLite database with the schema applied
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New("sqlite", filepath.Join(t.TempDir(), "lyrics.db"))
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))

	_, err = db.Exec(`INSERT INTO genres (name) VALUES ('Pop'), ('Folk')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO languages (name) VALUES ('English'), ('Spanish')`)
	require.NoError(t, err)
	return db
}

func newRequest(name string) *models.CreateSubmissionRequest {
	return &models.CreateSubmissionRequest{
		Name:                name,
		Genre:               1,
		Language:            1,
		LanguageTranslation: 2,
		ArtistName:          "Artist",
		Lyrics:              "la la la",
		LyricsTranslation:   "la la la",
	}
}

func seed(t *testing.T, db *DB, n int) []*models.Submission {
	t.Helper()
	out := make([]*models.Submission, 0, n)
	for i := 1; i <= n; i++ {
		s, err := db.CreateSubmission(context.Background(), newRequest(fmt.Sprintf("Song %02d", i)), testCreator, nil)
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestCreateSubmission_Pending(t *testing.T) {
	db := setupTestDB(t)

	s, err := db.CreateSubmission(context.Background(), newRequest("Yesterday"), testCreator, nil)
	require.NoError(t, err)

	assert.NotZero(t, s.ID)
	assert.Equal(t, "Yesterday", s.Name)
	assert.Nil(t, s.Approved)
	assert.Nil(t, s.PublishedAt)
	assert.Equal(t, testCreator, s.CreatedByID)
}

func TestCreateSubmission_Published(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s, err := db.CreateSubmission(context.Background(), newRequest("Yesterday"), testCreator, &now)
	require.NoError(t, err)

	require.NotNil(t, s.Approved)
	assert.True(t, *s.Approved)
	require.NotNil(t, s.PublishedAt)
	assert.True(t, now.Equal(*s.PublishedAt))
}

func TestListSubmissions_Pagination(t *testing.T) {
	db := setupTestDB(t)
	seeded := seed(t, db, 25)

	result, err := db.ListSubmissions(context.Background(), models.ListFilter{}, models.Page{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, models.ListMetadata{Count: 25, Page: 2, Limit: 10}, result.Metadata)
	require.Len(t, result.Data, 10)
	assert.Equal(t, seeded[10].ID, result.Data[0].ID)
	assert.Equal(t, seeded[19].ID, result.Data[9].ID)

	last, err := db.ListSubmissions(context.Background(), models.ListFilter{}, models.Page{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, last.Data, 5)

	beyond, err := db.ListSubmissions(context.Background(), models.ListFilter{}, models.Page{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Data)
	assert.NotNil(t, beyond.Data)
	assert.Equal(t, 25, beyond.Metadata.Count)
}

func TestListSubmissions_Filters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seeded := seed(t, db, 3)

	other := newRequest("Hey_Jude 100%")
	other.Genre = 2
	other.Language = 2
	jude, err := db.CreateSubmission(ctx, other, "1b2d7f1c-0000-4000-8000-000000000001", nil)
	require.NoError(t, err)

	id := seeded[1].ID
	genre := int64(2)
	language := int64(1)

	tests := []struct {
		name   string
		filter models.ListFilter
		want   []int64
	}{
		{"no filter", models.ListFilter{}, []int64{seeded[0].ID, seeded[1].ID, seeded[2].ID, jude.ID}},
		{"by id", models.ListFilter{ID: &id}, []int64{id}},
		{"name is case insensitive", models.ListFilter{Name: "song 0"}, []int64{seeded[0].ID, seeded[1].ID, seeded[2].ID}},
		{"underscore is literal", models.ListFilter{Name: "y_j"}, []int64{jude.ID}},
		{"percent is literal", models.ListFilter{Name: "0%"}, []int64{jude.ID}},
		{"by genre", models.ListFilter{GenreID: &genre}, []int64{jude.ID}},
		{"by language", models.ListFilter{LanguageID: &language}, []int64{seeded[0].ID, seeded[1].ID, seeded[2].ID}},
		{"by creator", models.ListFilter{CreatedByID: testCreator}, []int64{seeded[0].ID, seeded[1].ID, seeded[2].ID}},
		{"combined", models.ListFilter{Name: "song", GenreID: &genre}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := db.ListSubmissions(ctx, tt.filter, models.Page{Page: 1, Limit: 15})
			require.NoError(t, err)

			var ids []int64
			for _, s := range result.Data {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(tt.want), result.Metadata.Count)
		})
	}
}

func TestListPublished_OnlyPublishedNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seeded := seed(t, db, 4)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, s := range seeded[:3] {
		at := base.Add(time.Duration(i) * time.Hour)
		_, err := db.ApplyDecision(ctx, s.ID, true, &at, nil)
		require.NoError(t, err)
	}
	_, err := db.ApplyDecision(ctx, seeded[1].ID, false, nil, nil)
	require.NoError(t, err)

	result, err := db.ListPublished(ctx, models.ListFilter{}, models.Page{Page: 1, Limit: 12})
	require.NoError(t, err)

	require.Len(t, result.Data, 2)
	assert.Equal(t, 2, result.Metadata.Count)
	assert.Equal(t, seeded[2].ID, result.Data[0].ID)
	assert.Equal(t, seeded[0].ID, result.Data[1].ID)

	first := result.Data[0]
	require.NotNil(t, first.Genre)
	assert.Equal(t, "Pop", first.Genre.Name)
	require.NotNil(t, first.TranslationLanguage)
	assert.Equal(t, "Spanish", first.TranslationLanguage.Name)
}

func TestGetPublishedSubmission(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := seed(t, db, 1)[0]

	_, err := db.GetPublishedSubmission(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	now := time.Now().UTC()
	_, err = db.ApplyDecision(ctx, s.ID, true, &now, nil)
	require.NoError(t, err)

	d, err := db.GetPublishedSubmission(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "English", d.Language.Name)

	detail, err := db.GetSubmissionDetail(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, detail.ID)
}

func TestApplyDecisionAndClearPublication(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := seed(t, db, 1)[0]
	note := "great translation"
	now := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)

	approved, err := db.ApplyDecision(ctx, s.ID, true, &now, &note)
	require.NoError(t, err)
	require.NotNil(t, approved.Approved)
	assert.True(t, *approved.Approved)
	assert.Equal(t, &note, approved.Note)
	assert.True(t, approved.IsPublished())

	cleared, err := db.ClearPublication(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.Approved)
	assert.Nil(t, cleared.PublishedAt)
	assert.Equal(t, &note, cleared.Note)

	again, err := db.ClearPublication(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, cleared, again)
}

func TestTransitions_NotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.ApplyDecision(ctx, 999, true, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.ClearPublication(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeleteSubmission(ctx, 999), ErrNotFound)

	_, err = db.GetSubmission(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSubmission(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := seed(t, db, 1)[0]

	require.NoError(t, db.DeleteSubmission(ctx, s.ID))

	_, err := db.GetSubmission(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReferences(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	genres, err := db.ListGenres(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Reference{{ID: 2, Name: "Folk"}, {ID: 1, Name: "Pop"}}, genres)

	ok, err := db.LanguageExists(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.GenreExists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreErrorPassthrough(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db := Wrap(sqlx.NewDb(mockDB, "postgres"))

	mock.ExpectQuery(`UPDATE lyrics SET approved = NULL`).
		WithArgs(int64(7)).
		WillReturnError(errors.New("permission denied for table lyrics"))

	_, err = db.ClearPublication(context.Background(), 7)
	require.Error(t, err)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "permission denied for table lyrics", storeErr.Message())
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestWrap_LikeOperator(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	assert.Equal(t, "ILIKE", Wrap(sqlx.NewDb(mockDB, "postgres")).likeOp)
	assert.Equal(t, "LIKE", Wrap(sqlx.NewDb(mockDB, "sqlite")).likeOp)
}
