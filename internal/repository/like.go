package repository

import (
	"context"

	"github.com/forgo/missions/api/internal/database"
	"github.com/forgo/missions/api/internal/model"
)

// LikeRepository handles per-user like data access
type LikeRepository struct {
	db database.Database
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db database.Database) *LikeRepository {
	return &LikeRepository{db: db}
}

// Get returns the like row for the pair, or nil
func (r *LikeRepository) Get(ctx context.Context, missionID, userID string) (*model.Like, error) {
	query := `SELECT * FROM mission_like WHERE mission_id = $mission_id AND user_id = $user_id LIMIT 1`
	vars := map[string]interface{}{"mission_id": missionID, "user_id": userID}

	data, err := queryOne(r.db.QueryOne(ctx, query, vars))
	if err != nil || data == nil {
		return nil, err
	}
	return &model.Like{
		MissionID: getString(data, "mission_id"),
		UserID:    getString(data, "user_id"),
		IsLiked:   getBool(data, "is_liked"),
		UpdatedOn: getTimeValue(data, "updated_on"),
	}, nil
}

// Save creates or updates the like row for the pair
func (r *LikeRepository) Save(ctx context.Context, like *model.Like) error {
	query := `
		LET $existing = SELECT * FROM mission_like WHERE mission_id = $mission_id AND user_id = $user_id;
		IF array::len($existing) = 0 {
			CREATE mission_like SET
				mission_id = $mission_id,
				user_id = $user_id,
				is_liked = $is_liked,
				updated_on = time::now()
		} ELSE {
			UPDATE mission_like SET
				is_liked = $is_liked,
				updated_on = time::now()
			WHERE mission_id = $mission_id AND user_id = $user_id
		}
	`
	vars := map[string]interface{}{
		"mission_id": like.MissionID,
		"user_id":    like.UserID,
		"is_liked":   like.IsLiked,
	}
	return r.db.Execute(ctx, query, vars)
}

// CountLiked counts users currently liking a mission
func (r *LikeRepository) CountLiked(ctx context.Context, missionID string) (int, error) {
	query := `SELECT count() AS count FROM mission_like WHERE mission_id = $mission_id AND is_liked = true GROUP ALL`
	vars := map[string]interface{}{"mission_id": missionID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return 0, err
	}
	return extractCount(results, 0), nil
}

// LikedByUser returns the subset of missionIDs the user currently likes
func (r *LikeRepository) LikedByUser(ctx context.Context, userID string, missionIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(missionIDs) == 0 {
		return out, nil
	}
	query := `SELECT mission_id, is_liked FROM mission_like WHERE user_id = $user_id AND mission_id IN $mission_ids`
	vars := map[string]interface{}{"user_id": userID, "mission_ids": missionIDs}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	for _, rec := range statementRecords(results, 0) {
		if data, ok := rec.(map[string]interface{}); ok && getBool(data, "is_liked") {
			out[getString(data, "mission_id")] = true
		}
	}
	return out, nil
}
