// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jonasmwansa/portfolio-backend/database"
)

// Option adjusts the connection options of a test database.
type Option func(*database.ConnectOptions)

// WithNow pins the clock gorm uses for timestamps.
func WithNow(now func() time.Time) Option {
	return func(o *database.ConnectOptions) {
		o.NowFunc = now
	}
}

// Open returns a migrated database stored under t.TempDir().
func Open(t testing.TB, opts ...Option) *gorm.DB {
	t.Helper()

	connectOpts := database.ConnectOptions{
		Type:       database.TypeSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "portfolio.db"),
		LogLevel:   logger.Silent,
	}
	for _, opt := range opts {
		opt(&connectOpts)
	}

	db, err := database.Connect(connectOpts)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, database.Migrate(db))
	return db
}

// New returns the repository set over a fresh database.
func New(t testing.TB, opts ...Option) database.Database {
	t.Helper()
	return database.New(Open(t, opts...))
}
