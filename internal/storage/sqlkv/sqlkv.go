// Package sqlkv implements storage.KV on top of a single SQL table.
// SQLite, PostgreSQL and MySQL are supported.
package sqlkv

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"doitlist/internal/storage"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type dialect struct {
	createSQL string
	getSQL    string
	setSQL    string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		createSQL: `CREATE TABLE IF NOT EXISTS kv_entries (
    entry_key TEXT PRIMARY KEY,
    entry_value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
)`,
		getSQL: `SELECT entry_value FROM kv_entries WHERE entry_key = ?`,
		setSQL: `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at`,
	},
	DriverPostgres: {
		createSQL: `CREATE TABLE IF NOT EXISTS kv_entries (
    entry_key TEXT PRIMARY KEY,
    entry_value TEXT NOT NULL,
    updated_at BIGINT NOT NULL
)`,
		getSQL: `SELECT entry_value FROM kv_entries WHERE entry_key = $1`,
		setSQL: `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (entry_key) DO UPDATE SET entry_value = EXCLUDED.entry_value, updated_at = EXCLUDED.updated_at`,
	},
	DriverMySQL: {
		createSQL: `CREATE TABLE IF NOT EXISTS kv_entries (
    entry_key VARCHAR(191) PRIMARY KEY,
    entry_value LONGTEXT NOT NULL,
    updated_at BIGINT NOT NULL
)`,
		getSQL: `SELECT entry_value FROM kv_entries WHERE entry_key = ?`,
		setSQL: `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE entry_value = VALUES(entry_value), updated_at = VALUES(updated_at)`,
	},
}

// Store is a SQL-backed storage.KV.
type Store struct {
	sqlDB   *sql.DB
	dialect dialect
	now     func() time.Time
}

// Open connects to the database identified by driver and dsn and ensures the schema exists.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = DriverSQLite
	}
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("storage dsn is required")
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", driver, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s db: %w", driver, err)
	}
	if _, err := sqlDB.ExecContext(ctx, d.createSQL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure kv table: %w", err)
	}

	return &Store{sqlDB: sqlDB, dialect: d, now: time.Now}, nil
}

// SQLiteDSN builds a SQLite DSN for the database file at path.
func SQLiteDSN(path string) string {
	cleanPath := filepath.Clean(path)
	return cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

// Get implements storage.KV.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.sqlDB == nil {
		return "", false, storage.ErrNotConfigured
	}

	var value string
	err := s.sqlDB.QueryRowContext(ctx, s.dialect.getSQL, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get kv entry: %w", err)
	}
	return value, true, nil
}

// Set implements storage.KV.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s == nil || s.sqlDB == nil {
		return storage.ErrNotConfigured
	}

	if _, err := s.sqlDB.ExecContext(ctx, s.dialect.setSQL, key, value, s.now().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("set kv entry: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	err := s.sqlDB.Close()
	s.sqlDB = nil
	return err
}
