// Package storage opens the relational database backing audience records.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"

	// UniqueViolationCode is the postgres SQLSTATE for unique constraint errors.
	UniqueViolationCode = "23505"
)

var (
	ErrUnsupportedDriver = errors.New("storage: unsupported driver")
	ErrDSNRequired       = errors.New("storage: dsn is required")
)

// Config selects the database driver and connection string.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// Open connects to the configured database and wraps it in bun. The memory
// driver returns a nil DB; callers fall back to in-memory repositories.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", DriverMemory:
		return nil, nil
	case DriverPostgres, "postgresql", "pgx":
		return open(ctx, "pgx", cfg, func(sqlDB *sql.DB) *bun.DB {
			return bun.NewDB(sqlDB, pgdialect.New())
		})
	case DriverSQLite, "sqlite3":
		return open(ctx, sqliteDriverName, cfg, func(sqlDB *sql.DB) *bun.DB {
			db := bun.NewDB(sqlDB, sqlitedialect.New())
			// SQLite serialises writers; one connection keeps in-memory DSNs coherent.
			db.SetMaxOpenConns(1)
			return db
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

func open(ctx context.Context, driverName string, cfg Config, wrap func(*sql.DB) *bun.DB) (*bun.DB, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, ErrDSNRequired
	}
	sqlDB, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driverName, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", driverName, err)
	}
	db := wrap(sqlDB)
	if cfg.MaxOpenConns > 0 && driverName == "pgx" {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return db, nil
}

// Migrate creates the tables for models when they do not exist yet.
func Migrate(ctx context.Context, db *bun.DB, models ...any) error {
	if db == nil {
		return nil
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	return nil
}

// IsUniqueViolation reports whether err comes from a unique constraint on
// postgres or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == UniqueViolationCode
	}
	if isSQLiteUniqueViolation(err) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value violates unique constraint")
}
