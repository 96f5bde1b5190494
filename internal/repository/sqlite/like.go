package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/service"
)

var _ service.LikeRepository = (*LikeRepository)(nil)

// LikeRepository stores per-user like state
type LikeRepository struct {
	q queryer
}

// Get returns the like row for the pair, or nil
func (r *LikeRepository) Get(ctx context.Context, missionID, userID string) (*model.Like, error) {
	var (
		like      = model.Like{MissionID: missionID, UserID: userID}
		isLiked   int
		updatedAt string
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT is_liked, updated_at FROM mission_likes WHERE mission_id = ? AND user_id = ?`,
		missionID, userID,
	).Scan(&isLiked, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting like %s/%s: %w", missionID, userID, err)
	}
	like.IsLiked = isLiked != 0
	like.UpdatedOn = parseTime(updatedAt)
	return &like, nil
}

// Save creates or updates the like row for the pair
func (r *LikeRepository) Save(ctx context.Context, like *model.Like) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO mission_likes (mission_id, user_id, is_liked, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (mission_id, user_id) DO UPDATE SET
			is_liked = excluded.is_liked,
			updated_at = excluded.updated_at`,
		like.MissionID, like.UserID, boolInt(like.IsLiked), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving like %s/%s: %w", like.MissionID, like.UserID, err)
	}
	return nil
}

// CountLiked counts users currently liking a mission
func (r *LikeRepository) CountLiked(ctx context.Context, missionID string) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM mission_likes WHERE mission_id = ? AND is_liked = 1`, missionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting likes of %s: %w", missionID, err)
	}
	return n, nil
}

// LikedByUser returns the subset of missionIDs the user currently likes
func (r *LikeRepository) LikedByUser(ctx context.Context, userID string, missionIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(missionIDs) == 0 {
		return out, nil
	}
	query := fmt.Sprintf(
		`SELECT mission_id FROM mission_likes WHERE user_id = ? AND is_liked = 1 AND mission_id IN (%s)`,
		placeholders(len(missionIDs)),
	)
	rows, err := r.q.QueryContext(ctx, query, append([]any{userID}, stringArgs(missionIDs)...)...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing likes of %s: %w", userID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning like: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}
