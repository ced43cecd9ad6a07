package database

import (
	"context"
	"strings"
	"time"

	"github.com/wtusfo/song-and-singer/internal/models"
)

var submissionColumns = []string{
	"id", "created_at", "published_at", "name", "name_translation",
	"genre_id", "language_id", "language_translation_id", "artist_name",
	"lyrics", "lyrics_translation", "approved", "note", "created_by_id",
}

func columns(alias string) string {
	if alias == "" {
		return strings.Join(submissionColumns, ", ")
	}
	prefixed := make([]string, len(submissionColumns))
	for i, c := range submissionColumns {
		prefixed[i] = alias + "." + c
	}
	return strings.Join(prefixed, ", ")
}

const detailJoins = `
	FROM lyrics l
	LEFT JOIN genres g ON g.id = l.genre_id
	LEFT JOIN languages lang ON lang.id = l.language_id
	LEFT JOIN languages tlang ON tlang.id = l.language_translation_id`

var detailSelect = "SELECT " + columns("l") + `,
	g.name AS genre_name, lang.name AS language_name, tlang.name AS translation_language_name` + detailJoins

type detailRow struct {
	models.Submission
	GenreName               *string `db:"genre_name"`
	LanguageName            *string `db:"language_name"`
	TranslationLanguageName *string `db:"translation_language_name"`
}

func (r *detailRow) detail() models.SubmissionDetail {
	ref := func(id int64, name *string) *models.Reference {
		if name == nil {
			return nil
		}
		return &models.Reference{ID: id, Name: *name}
	}
	return models.SubmissionDetail{
		Submission:          r.Submission,
		Genre:               ref(r.GenreID, r.GenreName),
		Language:            ref(r.LanguageID, r.LanguageName),
		TranslationLanguage: ref(r.LanguageTranslationID, r.TranslationLanguageName),
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where builds the predicate for a listing filter against the "l" alias.
func (db *DB) where(f models.ListFilter) (string, []interface{}) {
	clause := " WHERE 1=1"
	args := []interface{}{}

	if f.PublishedOnly {
		clause += " AND l.published_at IS NOT NULL"
	}
	if f.ID != nil {
		clause += " AND l.id = ?"
		args = append(args, *f.ID)
	}
	if f.Name != "" {
		clause += " AND l.name " + db.likeOp + ` ? ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(f.Name)+"%")
	}
	if f.GenreID != nil {
		clause += " AND l.genre_id = ?"
		args = append(args, *f.GenreID)
	}
	if f.LanguageID != nil {
		clause += " AND l.language_id = ?"
		args = append(args, *f.LanguageID)
	}
	if f.CreatedByID != "" {
		clause += " AND l.created_by_id = ?"
		args = append(args, f.CreatedByID)
	}

	return clause, args
}

func (db *DB) count(ctx context.Context, where string, args []interface{}) (int, error) {
	var count int
	query := db.Rebind("SELECT COUNT(*) FROM lyrics l" + where)
	if err := db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, storeErr("count lyrics", err)
	}
	return count, nil
}

// ListSubmissions returns one page of submissions regardless of review state,
// ordered by id so consecutive pages never overlap.
func (db *DB) ListSubmissions(ctx context.Context, f models.ListFilter, p models.Page) (*models.ListResult[models.Submission], error) {
	where, args := db.where(f)

	count, err := db.count(ctx, where, args)
	if err != nil {
		return nil, err
	}

	query := db.Rebind("SELECT " + columns("l") + " FROM lyrics l" + where + " ORDER BY l.id LIMIT ? OFFSET ?")
	rows := []models.Submission{}
	if err := db.SelectContext(ctx, &rows, query, append(args, p.Limit, p.Offset())...); err != nil {
		return nil, storeErr("list lyrics", err)
	}

	return &models.ListResult[models.Submission]{
		Data:     rows,
		Metadata: models.ListMetadata{Count: count, Page: p.Page, Limit: p.Limit},
	}, nil
}

// ListPublished returns one page of published submissions with their
// references, newest publication first.
func (db *DB) ListPublished(ctx context.Context, f models.ListFilter, p models.Page) (*models.ListResult[models.SubmissionDetail], error) {
	f.PublishedOnly = true
	where, args := db.where(f)

	count, err := db.count(ctx, where, args)
	if err != nil {
		return nil, err
	}

	query := db.Rebind(detailSelect + where + " ORDER BY l.published_at DESC, l.id DESC LIMIT ? OFFSET ?")
	var rows []detailRow
	if err := db.SelectContext(ctx, &rows, query, append(args, p.Limit, p.Offset())...); err != nil {
		return nil, storeErr("list published lyrics", err)
	}

	data := make([]models.SubmissionDetail, 0, len(rows))
	for i := range rows {
		data = append(data, rows[i].detail())
	}

	return &models.ListResult[models.SubmissionDetail]{
		Data:     data,
		Metadata: models.ListMetadata{Count: count, Page: p.Page, Limit: p.Limit},
	}, nil
}

// AllPublished returns every published submission, used to rebuild the search index.
func (db *DB) AllPublished(ctx context.Context) ([]models.Submission, error) {
	query := "SELECT " + columns("") + " FROM lyrics WHERE published_at IS NOT NULL ORDER BY id"
	rows := []models.Submission{}
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, storeErr("list published lyrics", err)
	}
	return rows, nil
}

// GetSubmission retrieves a submission by ID
func (db *DB) GetSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	query := db.Rebind("SELECT " + columns("") + " FROM lyrics WHERE id = ?")

	var s models.Submission
	if err := db.GetContext(ctx, &s, query, id); err != nil {
		return nil, storeErr("get lyrics", err)
	}
	return &s, nil
}

// GetSubmissionDetail retrieves a submission and its references regardless of review state.
func (db *DB) GetSubmissionDetail(ctx context.Context, id int64) (*models.SubmissionDetail, error) {
	return db.getDetail(ctx, id, false)
}

// GetPublishedSubmission retrieves a submission only when it is publicly visible.
func (db *DB) GetPublishedSubmission(ctx context.Context, id int64) (*models.SubmissionDetail, error) {
	return db.getDetail(ctx, id, true)
}

func (db *DB) getDetail(ctx context.Context, id int64, publishedOnly bool) (*models.SubmissionDetail, error) {
	query := detailSelect + " WHERE l.id = ?"
	if publishedOnly {
		query += " AND l.published_at IS NOT NULL"
	}

	var row detailRow
	if err := db.GetContext(ctx, &row, db.Rebind(query), id); err != nil {
		return nil, storeErr("get lyrics", err)
	}
	d := row.detail()
	return &d, nil
}

// CreateSubmission inserts a new submission. Published submissions are stored
// as approved with publishedAt as their publication time.
func (db *DB) CreateSubmission(ctx context.Context, req *models.CreateSubmissionRequest, createdBy string, publishedAt *time.Time) (*models.Submission, error) {
	var approved *bool
	if publishedAt != nil {
		t := true
		approved = &t
	}

	query := db.Rebind(`
		INSERT INTO lyrics (created_at, published_at, name, name_translation, genre_id, language_id,
			language_translation_id, artist_name, lyrics, lyrics_translation, approved, created_by_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + columns(""))

	var s models.Submission
	err := db.GetContext(ctx, &s, query,
		time.Now().UTC(), publishedAt, req.Name, req.NameTranslation, req.Genre, req.Language,
		req.LanguageTranslation, req.ArtistName, req.Lyrics, req.LyricsTranslation, approved, createdBy)
	if err != nil {
		return nil, storeErr("create lyrics", err)
	}
	return &s, nil
}

// ApplyDecision writes the review columns of a submission and returns the updated row.
func (db *DB) ApplyDecision(ctx context.Context, id int64, approved bool, publishedAt *time.Time, note *string) (*models.Submission, error) {
	query := db.Rebind(`UPDATE lyrics SET approved = ?, published_at = ?, note = ? WHERE id = ? RETURNING ` + columns(""))

	var s models.Submission
	if err := db.GetContext(ctx, &s, query, approved, publishedAt, note, id); err != nil {
		return nil, storeErr("update lyrics", err)
	}
	return &s, nil
}

// ClearPublication resets a submission to pending, leaving its note untouched.
func (db *DB) ClearPublication(ctx context.Context, id int64) (*models.Submission, error) {
	query := db.Rebind(`UPDATE lyrics SET approved = NULL, published_at = NULL WHERE id = ? RETURNING ` + columns(""))

	var s models.Submission
	if err := db.GetContext(ctx, &s, query, id); err != nil {
		return nil, storeErr("unpublish lyrics", err)
	}
	return &s, nil
}

// DeleteSubmission deletes a submission by ID
func (db *DB) DeleteSubmission(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM lyrics WHERE id = ?`), id)
	if err != nil {
		return storeErr("delete lyrics", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeErr("delete lyrics", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
