// Package testutil holds helpers shared by repository and handler tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/storefront/internal/config"
	"github.com/vasiliy-maslov/storefront/internal/db"
)

// NewSQLiteDB opens a migrated SQLite database in a per-test temp dir.
func NewSQLiteDB(t *testing.T) *db.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "storefront_test.db")
	store, err := db.Open(context.Background(), config.DatabaseConfig{URL: "sqlite://" + path})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, store.Migrate(), "failed to migrate test database")

	t.Cleanup(store.Close)
	return store
}
