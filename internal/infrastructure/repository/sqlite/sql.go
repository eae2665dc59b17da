package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/openfooty/statindex/internal/domain/ranking"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// readError wraps a read-path driver failure so callers can detect an
// unusable database via ranking.ErrDatabaseCorrupt. Context cancellation
// passes through unmarked.
func readError(op string, err error) error {
	if crerr.IsAny(err, context.Canceled, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, crerr.Mark(err, ranking.ErrDatabaseCorrupt))
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ", ")
}
