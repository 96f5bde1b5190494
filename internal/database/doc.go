// Package database provides SurrealDB connectivity for the missions API.
//
// The Database interface is the only thing the SurrealDB repositories depend
// on, so tests can substitute an in-memory fake:
//
//	type Database interface {
//	    Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)
//	    QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)
//	    Execute(ctx context.Context, query string, vars map[string]interface{}) error
//	    ...
//	}
//
// # Connection Management
//
//	db := database.NewSurrealDB(database.Config{
//	    Host:      "localhost",
//	    Port:      "8000",
//	    Namespace: "missions",
//	    Database:  "main",
//	    User:      "root",
//	    Password:  "secret",
//	})
//	if err := db.Connect(ctx); err != nil { ... }
//
// # Error Types
//
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Unique index violation
//   - ErrConflict: A ConflictGuard aborted a transaction
//   - ErrConnection: Database connection failed
//   - ErrQuery: Statement failed
//
// # Transactions
//
// TxBuilder batches statements into one BEGIN/COMMIT TRANSACTION query with
// per-statement variable namespacing. ConflictGuard adds a statement that
// throws when a value read earlier has changed.
package database
