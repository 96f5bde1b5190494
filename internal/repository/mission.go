package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/forgo/missions/api/internal/database"
	"github.com/forgo/missions/api/internal/model"
)

// MissionRepository handles catalog data access
type MissionRepository struct {
	db database.Database
}

// NewMissionRepository creates a new mission repository
func NewMissionRepository(db database.Database) *MissionRepository {
	return &MissionRepository{db: db}
}

// likeCountField counts liked rows for the outer mission row
const likeCountField = `count((SELECT id FROM mission_like WHERE mission_id = $parent.code AND is_liked = true)) AS like_count`

// GetByID retrieves a mission by internal id
func (r *MissionRepository) GetByID(ctx context.Context, id string) (*model.Mission, error) {
	query := `SELECT * FROM mission WHERE code = $code LIMIT 1`
	vars := map[string]interface{}{"code": id}

	data, err := queryOne(r.db.QueryOne(ctx, query, vars))
	if err != nil || data == nil {
		return nil, err
	}
	return parseMission(data), nil
}

// GetByIDs retrieves the missions that exist among ids
func (r *MissionRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Mission, error) {
	if len(ids) == 0 {
		return []*model.Mission{}, nil
	}
	query := `SELECT * FROM mission WHERE code IN $codes`
	vars := map[string]interface{}{"codes": ids}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parseMissions(statementRecords(results, 0)), nil
}

// List returns one page of missions and the total matching count
func (r *MissionRepository) List(ctx context.Context, q model.MissionQuery) ([]*model.Mission, int, error) {
	where := ""
	vars := map[string]interface{}{
		"limit":  q.PageSize,
		"offset": q.Offset(),
	}
	if len(q.Categories) > 0 {
		where = " WHERE category IN $categories"
		vars["categories"] = q.Categories
	}

	var sb strings.Builder
	sb.WriteString("SELECT *")
	var orderBy string
	switch q.Sort {
	case model.SortPopular:
		sb.WriteString(", " + likeCountField)
		orderBy = "like_count DESC, distance ASC, code ASC"
	case model.SortRecent:
		orderBy = "end_date DESC, code ASC"
	default:
		orderBy = "distance ASC, code ASC"
	}
	fmt.Fprintf(&sb, " FROM mission%s ORDER BY %s LIMIT $limit START $offset;\n", where, orderBy)
	fmt.Fprintf(&sb, "SELECT count() AS count FROM mission%s GROUP ALL;", where)

	results, err := r.db.Query(ctx, sb.String(), vars)
	if err != nil {
		return nil, 0, err
	}
	return parseMissions(statementRecords(results, 0)), extractCount(results, 1), nil
}

// Upsert creates or replaces a mission by code. Used by seeding only.
func (r *MissionRepository) Upsert(ctx context.Context, m *model.Mission) error {
	query := `
		LET $existing = SELECT * FROM mission WHERE code = $code;
		IF array::len($existing) = 0 {
			CREATE mission CONTENT {
				code: $code,
				title: $title,
				image_url: $image_url,
				location: $location,
				location_detail: $location_detail,
				distance: $distance,
				coin_reward: $coin_reward,
				category: $category,
				end_date: $end_date,
				insight: $insight,
				verification_methods: $verification_methods,
				coordinates: IF $coordinates IS NOT NULL THEN $coordinates ELSE NONE END,
				is_liked: $is_liked,
				created_on: time::now(),
				updated_on: time::now()
			}
		} ELSE {
			UPDATE mission SET
				title = $title,
				image_url = $image_url,
				location = $location,
				location_detail = $location_detail,
				distance = $distance,
				coin_reward = $coin_reward,
				category = $category,
				end_date = $end_date,
				insight = $insight,
				verification_methods = $verification_methods,
				coordinates = IF $coordinates IS NOT NULL THEN $coordinates ELSE NONE END,
				is_liked = $is_liked,
				updated_on = time::now()
			WHERE code = $code
		}
	`

	methods := make([]map[string]interface{}, 0, len(m.VerificationMethods))
	for _, vm := range m.VerificationMethods {
		methods = append(methods, map[string]interface{}{
			"type":        string(vm.Type),
			"description": vm.Description,
		})
	}
	var coords interface{}
	if m.Coordinates != nil {
		coords = map[string]interface{}{"lat": m.Coordinates.Lat, "lng": m.Coordinates.Lng}
	}

	vars := map[string]interface{}{
		"code":                 m.ID,
		"title":                m.Title,
		"image_url":            m.ImageURL,
		"location":             m.Location,
		"location_detail":      m.LocationDetail,
		"distance":             m.DistanceMeters,
		"coin_reward":          m.CoinReward,
		"category":             m.Category,
		"end_date":             m.EndDate,
		"insight":              m.Insight,
		"verification_methods": methods,
		"coordinates":          coords,
		"is_liked":             m.IsLiked,
	}

	return r.db.Execute(ctx, query, vars)
}

func parseMissions(records []interface{}) []*model.Mission {
	out := make([]*model.Mission, 0, len(records))
	for _, rec := range records {
		if data, ok := rec.(map[string]interface{}); ok {
			out = append(out, parseMission(data))
		}
	}
	return out
}

func parseMission(data map[string]interface{}) *model.Mission {
	m := &model.Mission{
		ID:             getString(data, "code"),
		Title:          getString(data, "title"),
		ImageURL:       getString(data, "image_url"),
		Location:       getString(data, "location"),
		LocationDetail: getString(data, "location_detail"),
		DistanceMeters: getFloat(data, "distance"),
		CoinReward:     getInt(data, "coin_reward"),
		Category:       getString(data, "category"),
		EndDate:        getString(data, "end_date"),
		Insight:        getString(data, "insight"),
		IsLiked:        getBool(data, "is_liked"),
		CreatedOn:      getTimeValue(data, "created_on"),
		UpdatedOn:      getTimeValue(data, "updated_on"),
	}

	if methods, ok := data["verification_methods"].([]interface{}); ok {
		m.VerificationMethods = make([]model.VerificationMethod, 0, len(methods))
		for _, raw := range methods {
			if vm, ok := raw.(map[string]interface{}); ok {
				m.VerificationMethods = append(m.VerificationMethods, model.VerificationMethod{
					Type:        model.VerificationMethodType(getString(vm, "type")),
					Description: getString(vm, "description"),
				})
			}
		}
	}
	if coords := getMap(data, "coordinates"); coords != nil {
		m.Coordinates = &model.Coordinates{Lat: getFloat(coords, "lat"), Lng: getFloat(coords, "lng")}
	}
	return m
}
