package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, so services can run
// multi-step writes inside a single transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var likePatternEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern neutralizes LIKE/ILIKE metacharacters in user input, so a
// search for "__" matches literal underscores rather than any two characters.
func escapeLikePattern(s string) string {
	return likePatternEscaper.Replace(s)
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}
