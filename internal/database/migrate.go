package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"tuteai/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationFiles embed.FS

// oracleObjectExists is raised when a CREATE targets an existing name.
const oracleObjectExists = "ORA-00955"

// RunMigrations applies every *.up.sql file for the db's driver in name order.
// Re-running is safe.
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	dir := path.Join("migrations", db.DriverName())
	entries, err := fs.ReadDir(migrationFiles, dir)
	if err != nil {
		return fmt.Errorf("no migrations for driver %q: %w", db.DriverName(), err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	log := logger.Get()
	for _, name := range names {
		content, err := fs.ReadFile(migrationFiles, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}

		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			if strings.Contains(err.Error(), oracleObjectExists) {
				log.Info("Migration already applied", zap.String("file", name))
				continue
			}
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}
		log.Info("Executed migration", zap.String("file", name))
	}

	log.Info("Migrations completed successfully", zap.Int("count", len(names)))
	return nil
}
