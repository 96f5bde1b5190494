package testdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/forgo/missions/api/internal/database"
	"github.com/forgo/missions/api/internal/repository"
	"github.com/forgo/missions/api/internal/repository/sqlite"
	"github.com/forgo/missions/api/migrations"
)

// TestDB is an isolated store for one test
type TestDB struct {
	Store *repository.Store

	// Surreal is set only for SurrealDB-backed instances
	Surreal   database.Database
	Namespace string

	t *testing.T
}

var (
	// counterMu protects the namespace counter
	counterMu sync.Mutex
	counter   int64
)

// getTestConfig returns SurrealDB config from environment or defaults
func getTestConfig() database.Config {
	return database.Config{
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "8000"),
		User:     envOr("TEST_DB_USER", "root"),
		Password: envOr("TEST_DB_PASSWORD", "root"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// uniqueNamespace generates a unique namespace for test isolation
func uniqueNamespace() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// New creates an in-memory SQLite store with the schema applied
func New(t *testing.T) *TestDB {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("testdb: failed to open sqlite: %v", err)
	}

	tdb := &TestDB{Store: repository.NewSQLiteStore(db), t: t}
	t.Cleanup(func() { _ = tdb.Store.Close() })
	return tdb
}

// NewSurreal creates a SurrealDB store in a fresh namespace with migrations
// applied. It skips the test when the server cannot be reached.
func NewSurreal(t *testing.T) *TestDB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := getTestConfig()
	cfg.Namespace = uniqueNamespace()
	cfg.Database = "test"

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Skipf("testdb: surrealdb unavailable: %v", err)
	}

	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("testdb: migrations failed: %v", err)
	}

	tdb := &TestDB{
		Store:     repository.NewSurrealStore(db),
		Surreal:   db,
		Namespace: cfg.Namespace,
		t:         t,
	}
	t.Cleanup(tdb.closeSurreal)
	return tdb
}

// closeSurreal removes the test namespace and closes the connection
func (tdb *TestDB) closeSurreal() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = tdb.Surreal.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", tdb.Namespace), nil)
	_ = tdb.Store.Close()
}

// Ctx returns a context with a timeout suitable for one test operation
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	tdb.t.Cleanup(cancel)
	return ctx
}
