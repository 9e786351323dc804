// Package storetest opens seeded in-memory stores for tests.
package storetest

import (
	"context"
	_ "embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brandedliving/backoffice/internal/store"
	"github.com/brandedliving/backoffice/internal/testutil"
)

//go:embed fixtures.yaml
var fixtures []byte

// Open returns a migrated, empty in-memory store closed at test cleanup.
func Open(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(store.Config{Driver: store.DriverSQLite, DSN: ":memory:", Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// Seeded returns an in-memory store loaded with the shared fixtures.
func Seeded(t testing.TB) *store.Store {
	t.Helper()
	s := Open(t)
	f, err := store.ParseFixtures(fixtures)
	require.NoError(t, err)
	require.NoError(t, s.Seed(context.Background(), f))
	return s
}

// Fixtures returns a fresh copy of the shared fixtures.
func Fixtures(t testing.TB) *store.Fixtures {
	t.Helper()
	f, err := store.ParseFixtures(fixtures)
	require.NoError(t, err)
	return f
}

// WriteFixtures writes the shared fixtures into dir and returns the file path.
func WriteFixtures(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, fixtures, 0o600))
	return path
}
