// Package migrations carries the Postgres schema as embedded SQL files.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed *.up.sql
var files embed.FS

// Apply runs every *.up.sql file in name order. The statements are written to
// be re-runnable against an existing schema.
func Apply(ctx context.Context, db *sql.DB) error {
	names, err := fs.Glob(files, "*.up.sql")
	if err != nil {
		return fmt.Errorf("migrations.Apply: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migrations.Apply: read %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("migrations.Apply: execute %s: %w", name, err)
		}
	}
	return nil
}
