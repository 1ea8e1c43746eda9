package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hackmap/internal/database"
)

// EnsureTableColumns fails when the table lacks any of the columns, which
// usually means migrations have not been applied yet.
func EnsureTableColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	if db == nil {
		return errors.New("nil db")
	}
	if table == "" || len(columns) == 0 {
		return errors.New("table and columns are required")
	}

	rows, err := db.Query(ctx,
		`SELECT column_name FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = $1 AND column_name = ANY($2)`,
		table, columns,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	found := make(map[string]bool, len(columns))
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		found[c] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, c := range columns {
		if !found[c] {
			missing = append(missing, table+"."+c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema mismatch, run migrations first: missing %s", strings.Join(missing, ", "))
	}
	return nil
}
