package database

import (
	"context"

	"github.com/wtusfo/song-and-singer/internal/models"
)

func (db *DB) ListGenres(ctx context.Context) ([]models.Reference, error) {
	return db.listReferences(ctx, "genres")
}

func (db *DB) ListLanguages(ctx context.Context) ([]models.Reference, error) {
	return db.listReferences(ctx, "languages")
}

func (db *DB) GenreExists(ctx context.Context, id int64) (bool, error) {
	return db.referenceExists(ctx, "genres", id)
}

func (db *DB) LanguageExists(ctx context.Context, id int64) (bool, error) {
	return db.referenceExists(ctx, "languages", id)
}

// table is always one of the constant names above.
func (db *DB) listReferences(ctx context.Context, table string) ([]models.Reference, error) {
	refs := []models.Reference{}
	if err := db.SelectContext(ctx, &refs, "SELECT id, name FROM "+table+" ORDER BY name"); err != nil {
		return nil, storeErr("list "+table, err)
	}
	return refs, nil
}

func (db *DB) referenceExists(ctx context.Context, table string, id int64) (bool, error) {
	var count int
	if err := db.GetContext(ctx, &count, db.Rebind("SELECT COUNT(*) FROM "+table+" WHERE id = ?"), id); err != nil {
		return false, storeErr("check "+table, err)
	}
	return count > 0, nil
}
