package database

import "github.com/jmoiron/sqlx"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS genres (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS languages (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS lyrics (
	id BIGSERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	published_at TIMESTAMPTZ,
	name TEXT NOT NULL,
	name_translation TEXT,
	genre_id BIGINT NOT NULL REFERENCES genres(id),
	language_id BIGINT NOT NULL REFERENCES languages(id),
	language_translation_id BIGINT NOT NULL REFERENCES languages(id),
	artist_name TEXT NOT NULL,
	lyrics TEXT NOT NULL,
	lyrics_translation TEXT NOT NULL,
	approved BOOLEAN,
	note TEXT,
	created_by_id UUID NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lyrics_published_at ON lyrics(published_at DESC) WHERE published_at IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_lyrics_created_by ON lyrics(created_by_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS genres (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS languages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS lyrics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	published_at TIMESTAMP,
	name TEXT NOT NULL,
	name_translation TEXT,
	genre_id INTEGER NOT NULL REFERENCES genres(id),
	language_id INTEGER NOT NULL REFERENCES languages(id),
	language_translation_id INTEGER NOT NULL REFERENCES languages(id),
	artist_name TEXT NOT NULL,
	lyrics TEXT NOT NULL,
	lyrics_translation TEXT NOT NULL,
	approved BOOLEAN,
	note TEXT,
	created_by_id TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lyrics_published_at ON lyrics(published_at);
CREATE INDEX IF NOT EXISTS idx_lyrics_created_by ON lyrics(created_by_id);
`

func schemaFor(driver string) string {
	if sqlx.BindType(driver) == sqlx.DOLLAR {
		return postgresSchema
	}
	return sqliteSchema
}
