// Package testutil holds helpers shared by tests that need a seeded store or a
// running development backend.
package testutil

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/thenoetrevino/funil/internal/config"
	"github.com/thenoetrevino/funil/internal/database"
	"github.com/thenoetrevino/funil/internal/server"
)

// SetupTestDB creates an in-memory database with the full schema and seed data
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.InitDB(context.Background(), database.MemoryPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// StartBackend serves the development backend over a fresh seeded store. It returns
// the server, for toggling fail-moves, and the API origin to point clients at.
func StartBackend(t *testing.T) (*server.Server, string) {
	t.Helper()
	s := server.NewServer(server.Config{Store: database.NewRepository(SetupTestDB(t))})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts.URL + server.APIPrefix
}

// Isolate points HOME and the config directory at a temp dir and clears FUNIL_
// overrides, so tests never read or write the developer's files
func Isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			t.Setenv(name, "")
			_ = os.Unsetenv(name)
		}
	}
	return dir
}
