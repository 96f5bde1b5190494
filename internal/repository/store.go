package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forgo/missions/api/internal/config"
	"github.com/forgo/missions/api/internal/database"
	"github.com/forgo/missions/api/internal/repository/sqlite"
	"github.com/forgo/missions/api/internal/service"
	"github.com/forgo/missions/api/migrations"
)

// Store bundles the catalog repositories of one backend
type Store struct {
	Missions       service.MissionRepository
	Likes          service.LikeRepository
	Participations service.ParticipationRepository
	Users          service.UserRepository
	Categories     service.CategoryRepository
	UnitOfWork     service.UnitOfWork

	ping  func(ctx context.Context) error
	close func() error
}

// Open connects to the configured backend and brings its schema up to date
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("opened sqlite store", slog.String("path", cfg.SQLitePath))
		return NewSQLiteStore(db), nil

	case config.DriverSurrealDB, "":
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.Host,
			Port:      cfg.Port,
			User:      cfg.User,
			Password:  cfg.Password,
			Namespace: cfg.Namespace,
			Database:  cfg.Database,
		})
		if err := db.Connect(ctx); err != nil {
			return nil, err
		}
		if err := migrations.Apply(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying migrations: %w", err)
		}
		slog.Info("connected to surrealdb",
			slog.String("host", cfg.Host),
			slog.String("database", cfg.Database),
		)
		return NewSurrealStore(db), nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

// NewSurrealStore wraps an open SurrealDB connection
func NewSurrealStore(db database.Database) *Store {
	return &Store{
		Missions:       NewMissionRepository(db),
		Likes:          NewLikeRepository(db),
		Participations: NewParticipationRepository(db),
		Users:          NewUserRepository(db),
		Categories:     NewCategoryRepository(db),
		UnitOfWork:     NewCompletionStore(db),
		ping:           db.Ping,
		close:          db.Close,
	}
}

// NewSQLiteStore wraps an open SQLite database
func NewSQLiteStore(db *sqlite.DB) *Store {
	return &Store{
		Missions:       db.Missions(),
		Likes:          db.Likes(),
		Participations: db.Participations(),
		Users:          db.Users(),
		Categories:     db.Categories(),
		UnitOfWork:     db,
		ping:           db.Ping,
		close:          db.Close,
	}
}

// Ping checks that the backend is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend connection
func (s *Store) Close() error {
	return s.close()
}
