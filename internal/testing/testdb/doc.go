// Package testdb provides isolated catalog stores for tests.
//
// New returns an in-memory SQLite store that needs no external services:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    missions, total, err := tdb.Store.Missions.List(tdb.Ctx(), q)
//	}
//
// NewSurreal connects to a running SurrealDB (TEST_DB_HOST, TEST_DB_PORT,
// TEST_DB_USER, TEST_DB_PASSWORD), applies the embedded migrations in a
// unique namespace and removes the namespace on cleanup. The test is skipped
// when no server answers.
//
// Both are closed automatically through t.Cleanup.
package testdb
