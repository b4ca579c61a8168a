package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedded embed.FS

// MigrationResult resume una corrida de goose.
type MigrationResult struct {
	Applied []int64
}

// Migrate aplica las migraciones embebidas pendientes.
func Migrate(ctx context.Context, db *sql.DB) (MigrationResult, error) {
	fsys, err := fs.Sub(embedded, "migrations")
	if err != nil {
		return MigrationResult{}, fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("goose up: %w", err)
	}

	var out MigrationResult
	for _, r := range results {
		if r.Source != nil {
			out.Applied = append(out.Applied, r.Source.Version)
		}
	}
	return out, nil
}
