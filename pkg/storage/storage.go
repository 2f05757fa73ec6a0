// Package storage opens the SQL database backing the content store.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// ErrUnsupportedDialect is returned by Open for unknown dialect names.
var ErrUnsupportedDialect = errors.New("storage: unsupported dialect")

// ErrDSNRequired is returned by Open when no DSN is configured.
var ErrDSNRequired = errors.New("storage: dsn required")

// Config selects the SQL dialect and connection string.
type Config struct {
	Dialect string `yaml:"dialect" json:"dialect"`
	DSN     string `yaml:"dsn" json:"dsn"`
	// MaxOpenConns caps the pool. Zero keeps the driver default, except for
	// in-memory sqlite where it is forced to one.
	MaxOpenConns int `yaml:"max_open_conns" json:"max_open_conns"`
}

// DriverName maps a dialect to its database/sql driver.
func DriverName(dialect string) (string, error) {
	switch normalizeDialect(dialect) {
	case DialectSQLite:
		return "sqlite3", nil
	case DialectPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}
}

// Open connects to the configured database and wraps it in bun. The caller
// owns the returned handle.
func Open(cfg Config) (*bun.DB, error) {
	driver, err := DriverName(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driver, err)
	}

	var db *bun.DB
	switch normalizeDialect(cfg.Dialect) {
	case DialectPostgres:
		db = bun.NewDB(sqlDB, pgdialect.New())
	default:
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	}

	switch {
	case cfg.MaxOpenConns > 0:
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	case driver == "sqlite3" && strings.Contains(dsn, ":memory:"):
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func normalizeDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "sqlite", "sqlite3":
		return DialectSQLite
	case "postgres", "postgresql", "pg":
		return DialectPostgres
	default:
		return ""
	}
}
