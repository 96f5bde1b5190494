package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/forgo/missions/api/internal/database"
	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/service"
)

var _ service.ParticipationRepository = (*ParticipationRepository)(nil)

// ParticipationRepository stores mission participations
type ParticipationRepository struct {
	q queryer
}

const participationColumns = `id, mission_id, user_id, status, participated_at, completed_at`

// Get returns the participation for the pair, or nil
func (r *ParticipationRepository) Get(ctx context.Context, missionID, userID string) (*model.Participation, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+participationColumns+` FROM mission_participations WHERE mission_id = ? AND user_id = ?`,
		missionID, userID,
	)
	p, err := scanParticipation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting participation %s/%s: %w", missionID, userID, err)
	}
	return p, nil
}

// ListByUser returns the user's participations among missionIDs keyed by mission
func (r *ParticipationRepository) ListByUser(ctx context.Context, userID string, missionIDs []string) (map[string]*model.Participation, error) {
	out := make(map[string]*model.Participation)
	if len(missionIDs) == 0 {
		return out, nil
	}
	query := fmt.Sprintf(
		`SELECT %s FROM mission_participations WHERE user_id = ? AND mission_id IN (%s)`,
		participationColumns, placeholders(len(missionIDs)),
	)
	rows, err := r.q.QueryContext(ctx, query, append([]any{userID}, stringArgs(missionIDs)...)...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing participations of %s: %w", userID, err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning participation: %w", err)
		}
		out[p.MissionID] = p
	}
	return out, rows.Err()
}

// Create inserts a participation, returning database.ErrDuplicate when the
// pair already has one
func (r *ParticipationRepository) Create(ctx context.Context, p *model.Participation) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO mission_participations (`+participationColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.MissionID, p.UserID, string(p.Status), formatTime(p.ParticipatedAt), nullTime(p.CompletedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: participation %s/%s", database.ErrDuplicate, p.MissionID, p.UserID)
	}
	if err != nil {
		return fmt.Errorf("sqlite: creating participation: %w", err)
	}
	return nil
}

func scanParticipation(row rowScanner) (*model.Participation, error) {
	var (
		p              model.Participation
		status         string
		participatedAt string
		completedAt    sql.NullString
	)
	if err := row.Scan(&p.ID, &p.MissionID, &p.UserID, &status, &participatedAt, &completedAt); err != nil {
		return nil, err
	}
	p.Status = model.ParticipationStatus(status)
	p.ParticipatedAt = parseTime(participatedAt)
	p.CompletedAt = timePtr(completedAt)
	return &p, nil
}
