package service

import (
	"context"

	"github.com/forgo/missions/api/internal/model"
)

// Single-row getters return (nil, nil) when the row does not exist.

// MissionRepository defines the interface for catalog storage
type MissionRepository interface {
	GetByID(ctx context.Context, id string) (*model.Mission, error)
	// GetByIDs returns the missions that exist, in no particular order
	GetByIDs(ctx context.Context, ids []string) ([]*model.Mission, error)
	List(ctx context.Context, q model.MissionQuery) ([]*model.Mission, int, error)
	Upsert(ctx context.Context, m *model.Mission) error
}

// LikeRepository defines the interface for per-user like storage
type LikeRepository interface {
	Get(ctx context.Context, missionID, userID string) (*model.Like, error)
	Save(ctx context.Context, like *model.Like) error
	CountLiked(ctx context.Context, missionID string) (int, error)
	LikedByUser(ctx context.Context, userID string, missionIDs []string) (map[string]bool, error)
}

// ParticipationRepository defines the interface for participation storage
type ParticipationRepository interface {
	Get(ctx context.Context, missionID, userID string) (*model.Participation, error)
	ListByUser(ctx context.Context, userID string, missionIDs []string) (map[string]*model.Participation, error)
	// Create returns database.ErrDuplicate when the (mission, user) pair exists
	Create(ctx context.Context, p *model.Participation) error
}

// UserRepository defines the interface for account storage
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdatePreferences(ctx context.Context, id string, prefs model.Preferences) error
	Upsert(ctx context.Context, u *model.User) error
}

// CategoryRepository defines the interface for category storage
type CategoryRepository interface {
	List(ctx context.Context) ([]*model.Category, error)
	Upsert(ctx context.Context, c *model.Category) error
}

// CompletionTx is the set of reads and writes a completion performs. All
// calls go through one transaction handle.
type CompletionTx interface {
	GetMission(ctx context.Context, id string) (*model.Mission, error)
	GetParticipation(ctx context.Context, missionID, userID string) (*model.Participation, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateParticipation(ctx context.Context, p *model.Participation) error
	UpdateCoinBalance(ctx context.Context, userID string, balance int) error
}

// UnitOfWork runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back on any error or panic.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx CompletionTx) error) error
}

// UnitOfWorkFunc adapts a store-specific transaction runner to UnitOfWork
type UnitOfWorkFunc func(ctx context.Context, fn func(ctx context.Context, tx CompletionTx) error) error

// Do calls f
func (f UnitOfWorkFunc) Do(ctx context.Context, fn func(ctx context.Context, tx CompletionTx) error) error {
	return f(ctx, fn)
}
