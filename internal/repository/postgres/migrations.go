package postgres

import (
	"context"
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Execer выполняет SQL без возврата строк
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// RunMigrations выполняет миграции базы данных
// Автоматически находит все *.up.sql файлы и выполняет их в алфавитном порядке
func RunMigrations(ctx context.Context, db Execer, logger *zap.Logger) error {
	upMigrations, err := upMigrationNames()
	if err != nil {
		return err
	}

	// Выполняем миграции по порядку
	for _, name := range upMigrations {
		migrationPath := filepath.Join("migrations", name)
		content, err := migrationsFS.ReadFile(migrationPath)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		logger.Info("running migration", zap.String("name", name))
		_, err = db.Exec(ctx, string(content))
		if err != nil {
			return fmt.Errorf("failed to run migration %s: %w", name, err)
		}
		logger.Info("migration completed", zap.String("name", name))
	}

	return nil
}

// upMigrationNames возвращает отсортированный список up миграций
func upMigrationNames() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var upMigrations []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".up.sql") {
			upMigrations = append(upMigrations, entry.Name())
		}
	}
	sort.Strings(upMigrations)

	return upMigrations, nil
}
