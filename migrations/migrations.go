// Package migrations embeds the goose schema migrations of both storage
// backends and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Result is one applied migration.
type Result struct {
	Version  int64
	Source   string
	Duration string
}

func provider(db *sql.DB, driver string) (*goose.Provider, error) {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch driver {
	case "postgres":
		dialect, dir = goose.DialectPostgres, "postgres"
	case "sqlite":
		dialect, dir = goose.DialectSQLite3, "sqlite"
	default:
		return nil, fmt.Errorf("unsupported migration driver %q", driver)
	}
	sub, err := fs.Sub(files, dir)
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(dialect, db, sub)
}

// Up applies all pending migrations for driver ("postgres" or "sqlite").
func Up(ctx context.Context, db *sql.DB, driver string) ([]Result, error) {
	p, err := provider(db, driver)
	if err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	applied, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	out := make([]Result, 0, len(applied))
	for _, r := range applied {
		out = append(out, Result{
			Version:  r.Source.Version,
			Source:   r.Source.Path,
			Duration: r.Duration.String(),
		})
	}
	return out, nil
}

// Version reports the current schema version of db.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	p, err := provider(db, driver)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}
