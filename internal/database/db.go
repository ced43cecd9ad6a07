package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	pq "github.com/lib/pq"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("record not found")

// StoreError is a failure reported by the database for an otherwise valid request.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message())
}

// Message is the database's own description of the failure.
func (e *StoreError) Message() string {
	var pqErr *pq.Error
	if errors.As(e.Err, &pqErr) {
		return pqErr.Message
	}
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return &StoreError{Op: op, Err: err}
}

type DB struct {
	*sqlx.DB
	likeOp string
}

// New opens a connection pool for the given driver ("postgres" in production).
func New(driver, dsn string) (*DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	return Wrap(db), nil
}

// Wrap adapts an existing sqlx handle.
func Wrap(db *sqlx.DB) *DB {
	likeOp := "LIKE"
	if sqlx.BindType(db.DriverName()) == sqlx.DOLLAR {
		likeOp = "ILIKE"
	}
	return &DB{DB: db, likeOp: likeOp}
}

// Migrate creates the tables when they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schemaFor(db.DriverName())); err != nil {
		return fmt.Errorf("error applying schema: %w", err)
	}
	return nil
}

func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}
