package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/openfooty/statindex/internal/domain/ranking"
)

func TestOpenCreatesParentDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "index.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("expected open to succeed, got=%v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE probe (id INTEGER)"); err != nil {
		t.Fatalf("expected writable database, got=%v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file on disk, got=%v", err)
	}
}

func TestOpenReadOnlyMissingFile(t *testing.T) {
	t.Parallel()

	_, err := OpenReadOnly(filepath.Join(t.TempDir(), "absent.db"))
	if !errors.Is(err, ranking.ErrDatabaseMissing) {
		t.Fatalf("expected ErrDatabaseMissing, got=%v", err)
	}
}

func TestOpenReadOnlyRejectsWrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "store.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("expected open to succeed, got=%v", err)
	}
	if _, err := db.Exec("CREATE TABLE probe (id INTEGER)"); err != nil {
		t.Fatalf("expected create table to succeed, got=%v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("expected close to succeed, got=%v", err)
	}

	readOnly, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("expected read-only open to succeed, got=%v", err)
	}
	defer readOnly.Close()

	if _, err := readOnly.Exec("INSERT INTO probe (id) VALUES (1)"); err == nil {
		t.Fatalf("expected insert on read-only database to fail")
	}
}
