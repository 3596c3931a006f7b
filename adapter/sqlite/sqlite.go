// Package sqlite stores the stuff domain in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"go.llib.dev/restassured/domain/stuff"
)

type DB struct {
	db *sql.DB
}

// Open opens and migrates the database behind the DSN.
// A DSN of ":memory:" opens a private in-memory database.
func Open(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// pragmas are per connection, and an in-memory database only lives as long as its connection
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout=5000;")
	s := NewDB(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewDB wraps an already configured connection pool.
func NewDB(db *sql.DB) *DB {
	return &DB{db: db}
}

func (s *DB) Close() error {
	return s.db.Close()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS stuff (
  id     INTEGER PRIMARY KEY AUTOINCREMENT,
  name   TEXT NOT NULL,
  answer INTEGER,
  status TEXT NOT NULL DEFAULT 'draft'
);`,
	`CREATE TABLE IF NOT EXISTS related_stuff (
  id       INTEGER PRIMARY KEY AUTOINCREMENT,
  thing_id INTEGER NOT NULL REFERENCES stuff(id) ON DELETE CASCADE
);`,
	`CREATE TABLE IF NOT EXISTS many_related_stuff (
  id INTEGER PRIMARY KEY AUTOINCREMENT
);
CREATE TABLE IF NOT EXISTS many_related_stuff_stuff (
  many_related_stuff_id INTEGER NOT NULL REFERENCES many_related_stuff(id) ON DELETE CASCADE,
  stuff_id              INTEGER NOT NULL REFERENCES stuff(id) ON DELETE CASCADE,
  PRIMARY KEY (many_related_stuff_id, stuff_id)
);`,
}

// Migrate brings the schema up to date, using the user_version pragma to track the applied migrations.
func (s *DB) Migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for ; version < len(migrations); version++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, migrations[version])
		if err == nil {
			_, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version=%d;", version+1))
		}
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migrate v%d: %w", version+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// Storage returns the repositories of the stuff domain.
func (s *DB) Storage() stuff.Storage {
	return stuff.Storage{
		Stuff:            StuffRepository{DB: s},
		RelatedStuff:     RelatedStuffRepository{DB: s},
		ManyRelatedStuff: ManyRelatedStuffRepository{DB: s},
	}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func affectedOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
