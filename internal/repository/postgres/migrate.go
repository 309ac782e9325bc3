package postgres

import (
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"testing/fstest"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies all pending schema migrations using golang-migrate with the
// pgx5 driver. The embedded SQL uses a {{prefix}} placeholder so every
// environment (dev_/test_/prod_ table prefix) migrates its own tables; the
// rendered files are served to the migrator through an in-memory fs.
func Migrate(databaseURL, tablePrefix string, logger *slog.Logger) error {
	rendered, err := renderMigrations(tablePrefix)
	if err != nil {
		return err
	}

	source, err := iofs.New(rendered, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbURL := strings.Replace(databaseURL, "postgres://", "pgx5://", 1)
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("migrations applied",
		"version", version,
		"dirty", dirty,
		"table_prefix", tablePrefix,
	)

	return nil
}

// renderMigrations substitutes the table prefix into the embedded SQL.
func renderMigrations(prefix string) (fstest.MapFS, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	out := fstest.MapFS{}
	for _, e := range entries {
		data, err := migrationsFS.ReadFile("migrations/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		sql := strings.ReplaceAll(string(data), "{{prefix}}", prefix)
		out["migrations/"+e.Name()] = &fstest.MapFile{Data: []byte(sql)}
	}
	return out, nil
}
