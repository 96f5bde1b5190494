// Package sqlite implements the service repository interfaces on an embedded
// SQLite database. It backs single-node deployments and the in-memory test
// database; the SurrealDB repositories in the parent package serve the same
// interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/forgo/missions/api/internal/database"
)

// DB wraps a sql.DB connection pool and hands out the repositories
type DB struct {
	conn *sql.DB
}

// queryer is the subset of *sql.DB and *sql.Tx the repositories need
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New opens the database at path and runs migrations. Use ":memory:" for an
// in-memory database.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A single connection serializes writers and keeps ":memory:" databases
	// from splitting across pool connections.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return db, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", database.ErrConnection, err)
	}
	return nil
}

// Missions returns the catalog repository
func (db *DB) Missions() *MissionRepository { return &MissionRepository{q: db.conn} }

// Likes returns the like repository
func (db *DB) Likes() *LikeRepository { return &LikeRepository{q: db.conn} }

// Participations returns the participation repository
func (db *DB) Participations() *ParticipationRepository {
	return &ParticipationRepository{q: db.conn}
}

// Users returns the account repository
func (db *DB) Users() *UserRepository { return &UserRepository{q: db.conn} }

// Categories returns the category repository
func (db *DB) Categories() *CategoryRepository { return &CategoryRepository{q: db.conn} }

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS missions (
			id                   TEXT PRIMARY KEY,
			title                TEXT NOT NULL,
			image_url            TEXT NOT NULL DEFAULT '',
			location             TEXT NOT NULL DEFAULT '',
			location_detail      TEXT NOT NULL DEFAULT '',
			distance             REAL NOT NULL DEFAULT 0,
			coin_reward          INTEGER NOT NULL DEFAULT 0,
			category             TEXT NOT NULL,
			end_date             TEXT NOT NULL DEFAULT '',
			insight              TEXT NOT NULL DEFAULT '',
			verification_methods TEXT NOT NULL DEFAULT '[]',
			lat                  REAL,
			lng                  REAL,
			is_liked             INTEGER NOT NULL DEFAULT 0,
			created_at           TEXT NOT NULL,
			updated_at           TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_missions_category ON missions(category);
	`)
	if err != nil {
		return fmt.Errorf("creating missions table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                TEXT PRIMARY KEY,
			name              TEXT NOT NULL DEFAULT '',
			profile_image_url TEXT NOT NULL DEFAULT '',
			gender            TEXT,
			age               INTEGER,
			acceptance_rate   REAL NOT NULL DEFAULT 0,
			active_time_slot  TEXT NOT NULL DEFAULT '',
			coin_balance      INTEGER NOT NULL DEFAULT 0,
			preferences       TEXT NOT NULL DEFAULT '{}',
			created_at        TEXT NOT NULL,
			updated_at        TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// One row per (mission, user) pair in both tables.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS mission_likes (
			mission_id TEXT NOT NULL,
			user_id    TEXT NOT NULL,
			is_liked   INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (mission_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_mission_likes_user ON mission_likes(user_id);

		CREATE TABLE IF NOT EXISTS mission_participations (
			id              TEXT PRIMARY KEY,
			mission_id      TEXT NOT NULL,
			user_id         TEXT NOT NULL,
			status          TEXT NOT NULL,
			participated_at TEXT NOT NULL,
			completed_at    TEXT,
			UNIQUE (mission_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_mission_participations_user ON mission_participations(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating like and participation tables: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			is_active  INTEGER NOT NULL DEFAULT 1,
			sort_order INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return fmt.Errorf("creating categories table: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY violation
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}

// placeholders returns "?, ?, ?" for n arguments
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func timePtr(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
