package db

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"lukechampine.com/blake3"
)

// migrationLockID - ключ pg_advisory_xact_lock, под которым применяются миграции.
const migrationLockID int64 = 72430001

// NewPostgres создаёт подключение к PostgreSQL с заданным DSN.
// Движок выполняет действия по одному, поэтому пул небольшой: запись идёт через одно соединение,
// остальные обслуживают запросы чтения.
func NewPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: не удалось подключиться: %w", err)
	}

	conn.SetMaxOpenConns(20)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)
	conn.SetConnMaxIdleTime(time.Minute)

	return conn, nil
}

type migration struct {
	Name     string
	Checksum string
	SQL      string
}

type appliedMigration struct {
	Name     string `db:"name"`
	Checksum string `db:"checksum"`
}

// RunMigrations применяет новые SQL файлы из каталога в одной транзакции.
// Уже применённая миграция, файл которой изменился, считается ошибкой.
func RunMigrations(ctx context.Context, conn *sqlx.DB, migrationsDir string) error {
	migrations, err := loadMigrations(migrationsDir)
	if err != nil {
		return err
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: не удалось начать транзакцию миграций: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Несколько экземпляров сервиса не должны применять миграции одновременно.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockID); err != nil {
		return fmt.Errorf("postgres: не удалось получить блокировку миграций: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("postgres: не удалось инициализировать таблицу миграций: %w", err)
	}

	var rows []appliedMigration
	if err := tx.SelectContext(ctx, &rows, `SELECT name, checksum FROM schema_migrations`); err != nil {
		return fmt.Errorf("postgres: не удалось прочитать применённые миграции: %w", err)
	}
	applied := make(map[string]string, len(rows))
	for _, r := range rows {
		applied[r.Name] = r.Checksum
	}

	for _, m := range migrations {
		if checksum, ok := applied[m.Name]; ok {
			if checksum != m.Checksum {
				return fmt.Errorf("postgres: миграция %s изменена после применения", m.Name)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("postgres: не удалось выполнить миграцию %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (name, checksum) VALUES ($1, $2)`, m.Name, m.Checksum,
		); err != nil {
			return fmt.Errorf("postgres: не удалось отметить миграцию %s: %w", m.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: не удалось зафиксировать миграции: %w", err)
	}
	return nil
}

// loadMigrations читает *.sql файлы каталога в порядке имён.
func loadMigrations(dir string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("postgres: не удалось прочитать каталог миграций: %w", err)
	}

	migrations := make([]migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("postgres: не удалось прочитать миграцию %s: %w", entry.Name(), err)
		}
		sum := blake3.Sum256(content)
		migrations = append(migrations, migration{
			Name:     entry.Name(),
			Checksum: hex.EncodeToString(sum[:]),
			SQL:      string(content),
		})
	}
	return migrations, nil
}
