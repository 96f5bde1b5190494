package repository

import (
	"context"

	"github.com/forgo/missions/api/internal/database"
	"github.com/forgo/missions/api/internal/model"
)

// ParticipationRepository handles participation data access
type ParticipationRepository struct {
	db database.Database
}

// NewParticipationRepository creates a new participation repository
func NewParticipationRepository(db database.Database) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

const participationByPair = `SELECT * FROM mission_participation WHERE mission_id = $mission_id AND user_id = $user_id LIMIT 1`

// Get returns the participation for the pair, or nil
func (r *ParticipationRepository) Get(ctx context.Context, missionID, userID string) (*model.Participation, error) {
	vars := map[string]interface{}{"mission_id": missionID, "user_id": userID}

	data, err := queryOne(r.db.QueryOne(ctx, participationByPair, vars))
	if err != nil || data == nil {
		return nil, err
	}
	return parseParticipation(data), nil
}

// ListByUser returns the user's participations among missionIDs keyed by mission
func (r *ParticipationRepository) ListByUser(ctx context.Context, userID string, missionIDs []string) (map[string]*model.Participation, error) {
	out := make(map[string]*model.Participation)
	if len(missionIDs) == 0 {
		return out, nil
	}
	query := `SELECT * FROM mission_participation WHERE user_id = $user_id AND mission_id IN $mission_ids`
	vars := map[string]interface{}{"user_id": userID, "mission_ids": missionIDs}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	for _, rec := range statementRecords(results, 0) {
		if data, ok := rec.(map[string]interface{}); ok {
			p := parseParticipation(data)
			out[p.MissionID] = p
		}
	}
	return out, nil
}

// Create inserts a participation. The (mission_id, user_id) unique index
// rejects a second row with database.ErrDuplicate.
func (r *ParticipationRepository) Create(ctx context.Context, p *model.Participation) error {
	query := `
		CREATE mission_participation CONTENT {
			uid: $uid,
			mission_id: $mission_id,
			user_id: $user_id,
			status: $status,
			participated_at: <datetime>$participated_at,
			completed_at: NONE
		}
	`
	vars := map[string]interface{}{
		"uid":             p.ID,
		"mission_id":      p.MissionID,
		"user_id":         p.UserID,
		"status":          string(p.Status),
		"participated_at": timeOrNone(&p.ParticipatedAt),
	}
	return r.db.Execute(ctx, query, vars)
}

func parseParticipation(data map[string]interface{}) *model.Participation {
	return &model.Participation{
		ID:             getString(data, "uid"),
		MissionID:      getString(data, "mission_id"),
		UserID:         getString(data, "user_id"),
		Status:         model.ParticipationStatus(getString(data, "status")),
		ParticipatedAt: getTimeValue(data, "participated_at"),
		CompletedAt:    getTime(data, "completed_at"),
	}
}
