package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/service"
)

var _ service.MissionRepository = (*MissionRepository)(nil)

// MissionRepository stores the catalog in the missions table
type MissionRepository struct {
	q queryer
}

const missionColumns = `m.id, m.title, m.image_url, m.location, m.location_detail, m.distance,
	m.coin_reward, m.category, m.end_date, m.insight, m.verification_methods,
	m.lat, m.lng, m.is_liked, m.created_at, m.updated_at`

// likeCount counts liked rows for the outer mission row
const likeCount = `(SELECT COUNT(*) FROM mission_likes l WHERE l.mission_id = m.id AND l.is_liked = 1)`

// GetByID retrieves a mission by internal id
func (r *MissionRepository) GetByID(ctx context.Context, id string) (*model.Mission, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+missionColumns+` FROM missions m WHERE m.id = ?`, id)
	m, err := scanMission(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting mission %s: %w", id, err)
	}
	return m, nil
}

// GetByIDs retrieves the missions that exist among ids
func (r *MissionRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Mission, error) {
	if len(ids) == 0 {
		return []*model.Mission{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM missions m WHERE m.id IN (%s)`, missionColumns, placeholders(len(ids)))
	rows, err := r.q.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting missions: %w", err)
	}
	return scanMissions(rows)
}

// List returns one page of missions and the total matching count
func (r *MissionRepository) List(ctx context.Context, q model.MissionQuery) ([]*model.Mission, int, error) {
	where := ""
	var args []any
	if len(q.Categories) > 0 {
		where = fmt.Sprintf(" WHERE m.category IN (%s)", placeholders(len(q.Categories)))
		args = stringArgs(q.Categories)
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM missions m`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting missions: %w", err)
	}

	var orderBy string
	switch q.Sort {
	case model.SortPopular:
		orderBy = likeCount + " DESC, m.distance ASC, m.id ASC"
	case model.SortRecent:
		orderBy = "m.end_date DESC, m.id ASC"
	default:
		orderBy = "m.distance ASC, m.id ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM missions m%s ORDER BY %s LIMIT ? OFFSET ?`, missionColumns, where, orderBy)
	rows, err := r.q.QueryContext(ctx, query, append(args, q.PageSize, q.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing missions: %w", err)
	}
	missions, err := scanMissions(rows)
	if err != nil {
		return nil, 0, err
	}
	return missions, total, nil
}

// Upsert creates or replaces a mission by id
func (r *MissionRepository) Upsert(ctx context.Context, m *model.Mission) error {
	methods := m.VerificationMethods
	if methods == nil {
		methods = []model.VerificationMethod{}
	}
	encoded, err := json.Marshal(methods)
	if err != nil {
		return fmt.Errorf("sqlite: encoding verification methods: %w", err)
	}

	var lat, lng sql.NullFloat64
	if m.Coordinates != nil {
		lat = sql.NullFloat64{Float64: m.Coordinates.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: m.Coordinates.Lng, Valid: true}
	}

	now := formatTime(time.Now())
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO missions (id, title, image_url, location, location_detail, distance, coin_reward,
			category, end_date, insight, verification_methods, lat, lng, is_liked, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			image_url = excluded.image_url,
			location = excluded.location,
			location_detail = excluded.location_detail,
			distance = excluded.distance,
			coin_reward = excluded.coin_reward,
			category = excluded.category,
			end_date = excluded.end_date,
			insight = excluded.insight,
			verification_methods = excluded.verification_methods,
			lat = excluded.lat,
			lng = excluded.lng,
			is_liked = excluded.is_liked,
			updated_at = excluded.updated_at`,
		m.ID, m.Title, m.ImageURL, m.Location, m.LocationDetail, m.DistanceMeters, m.CoinReward,
		m.Category, m.EndDate, m.Insight, string(encoded), lat, lng, boolInt(m.IsLiked), now, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting mission %s: %w", m.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMission(row rowScanner) (*model.Mission, error) {
	var (
		m                    model.Mission
		methods              string
		lat, lng             sql.NullFloat64
		isLiked              int
		createdAt, updatedAt string
	)
	err := row.Scan(&m.ID, &m.Title, &m.ImageURL, &m.Location, &m.LocationDetail, &m.DistanceMeters,
		&m.CoinReward, &m.Category, &m.EndDate, &m.Insight, &methods,
		&lat, &lng, &isLiked, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(methods), &m.VerificationMethods); err != nil {
		return nil, fmt.Errorf("decoding verification methods of %s: %w", m.ID, err)
	}
	if lat.Valid && lng.Valid {
		m.Coordinates = &model.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	m.IsLiked = isLiked != 0
	m.CreatedOn = parseTime(createdAt)
	m.UpdatedOn = parseTime(updatedAt)
	return &m, nil
}

func scanMissions(rows *sql.Rows) ([]*model.Mission, error) {
	defer rows.Close()
	out := make([]*model.Mission, 0)
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning mission: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating missions: %w", err)
	}
	return out, nil
}
