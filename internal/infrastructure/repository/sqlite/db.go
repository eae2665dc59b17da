// Package sqlite persists the offline search index and the season summary
// store as SQLite files on local disk. Connections go through otelsqlx so
// statement spans land on the active trace.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"

	"github.com/openfooty/statindex/internal/domain/ranking"
)

const driverName = "sqlite"

// Open opens a writable database at path, creating the file and its parent
// directory when absent. The pool is pinned to a single connection so the
// session pragmas hold for every statement.
func Open(path string, opts ...otelsql.Option) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := otelsqlx.Open(driverName, path, append(defaultOptions(path), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	return db, nil
}

// OpenReadOnly opens an existing database without write access. A missing
// file reports ranking.ErrDatabaseMissing so callers can tell "never built"
// apart from a broken file.
func OpenReadOnly(path string, opts ...otelsql.Option) (*sqlx.DB, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ranking.ErrDatabaseMissing, path)
		}
		return nil, fmt.Errorf("stat sqlite database: %w", err)
	}

	db, err := otelsqlx.Open(driverName, "file:"+path+"?mode=ro", append(defaultOptions(path), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database read-only: %w", err)
	}
	db.SetMaxOpenConns(1)

	return db, nil
}

func defaultOptions(path string) []otelsql.Option {
	return []otelsql.Option{
		otelsql.WithAttributes(attribute.String("db.system", "sqlite")),
		otelsql.WithDBName(filepath.Base(path)),
		otelsql.WithQueryFormatter(formatQueryForTrace),
	}
}
