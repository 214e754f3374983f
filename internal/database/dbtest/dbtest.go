// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"centro-site/api/internal/database"
)

// New returns a migrated SQLite database in a temp dir, closed on cleanup.
func New(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.NewDB(database.NewConfig(database.DriverSQLite, filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// MustExec runs a statement that the test setup depends on.
func MustExec(t testing.TB, db *database.DB, query string, args ...any) {
	t.Helper()
	_, err := db.Exec(db.Rebind(query), args...)
	require.NoError(t, err)
}
