package db

import (
	"context"
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

//go:embed sqlite/migrations/*.sql
var migrationFS embed.FS

type migration struct {
	version string
	file    string
	sql     string
}

// loadMigrations returns the embedded migrations in version order.
// 000_create_schema_migrations.sql sorts first.
func loadMigrations() ([]migration, error) {
	entries, err := migrationFS.ReadDir("sqlite/migrations")
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}
	var out []migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		body, err := migrationFS.ReadFile(path.Join("sqlite/migrations", entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", entry.Name())
		}
		version, _, _ := strings.Cut(entry.Name(), "_")
		out = append(out, migration{version: version, file: entry.Name(), sql: string(body)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// appliedVersions lists versions recorded in schema_migrations. A database
// without the table has nothing applied.
func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	var tables int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_migrations'").Scan(&tables)
	if err != nil {
		return nil, errors.Wrap(err, "inspect schema")
	}
	applied := make(map[string]bool)
	if tables == 0 {
		return applied, nil
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, errors.Wrap(err, "list applied migrations")
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan migration version")
		}
		applied[v] = true
	}
	return applied, errors.Wrap(rows.Err(), "list applied migrations")
}

// Migrate applies pending migrations, each in its own transaction.
// If logger is provided, logs migration progress; otherwise operates silently.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	return MigrateContext(context.Background(), db, logger)
}

// MigrateContext is Migrate with a context
func MigrateContext(ctx context.Context, db *sql.DB, logger *zap.SugaredLogger) error {
	all, err := loadMigrations()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	pending := 0
	for _, m := range all {
		if applied[m.version] {
			continue
		}
		if logger != nil {
			logger.Debugw("Applying migration", "migration", m.file, "version", m.version)
		}
		if err := apply(ctx, db, m); err != nil {
			return err
		}
		pending++
	}

	if logger != nil {
		logger.Debugw("Migrations complete", "applied", pending, "total_migrations", len(all))
	}
	return nil
}

func apply(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "begin tx for %s", m.file)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return errors.Wrapf(err, "execute %s", m.file)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
		return errors.Wrapf(err, "record %s", m.file)
	}
	return errors.Wrapf(tx.Commit(), "commit %s", m.file)
}
