package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/missions/api/internal/database"
	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/translate"
)

// Listing page size bounds
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListMissionsRequest is a catalog listing query in public terms
type ListMissionsRequest struct {
	Category string
	Sort     string
	Page     int
	Limit    int
	Lat      *float64
	Lng      *float64
}

// MissionService handles catalog listing, detail, likes and participation
type MissionService struct {
	missions       MissionRepository
	likes          LikeRepository
	participations ParticipationRepository
	translator     *translate.Translator
	now            func() time.Time
}

// MissionServiceConfig holds configuration for the mission service
type MissionServiceConfig struct {
	MissionRepo       MissionRepository
	LikeRepo          LikeRepository
	ParticipationRepo ParticipationRepository
	Translator        *translate.Translator
	// Now defaults to time.Now
	Now func() time.Time
}

// NewMissionService creates a new mission service
func NewMissionService(cfg MissionServiceConfig) *MissionService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &MissionService{
		missions:       cfg.MissionRepo,
		likes:          cfg.LikeRepo,
		participations: cfg.ParticipationRepo,
		translator:     cfg.Translator,
		now:            now,
	}
}

// categoryFilter returns the stored category values matching a requested
// category. Every spelling of a known category matches; an unknown category
// matches its lowercase echo.
func (s *MissionService) categoryFilter(category string) []string {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil
	}
	if spellings, ok := s.translator.Spellings(category); ok {
		return spellings
	}
	return []string{strings.ToLower(category)}
}

// ListMissions returns one page of the catalog merged with the viewer's state.
// viewerID is empty for anonymous requests.
func (s *MissionService) ListMissions(ctx context.Context, viewerID string, req ListMissionsRequest) (*model.MissionListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.Limit
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	missions, total, err := s.missions.List(ctx, model.MissionQuery{
		Categories: s.categoryFilter(req.Category),
		Sort:       model.ParseMissionSort(req.Sort),
		Page:       page,
		PageSize:   size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}

	items, err := s.listItems(ctx, viewerID, missions, ParseOrigin(req.Lat, req.Lng))
	if err != nil {
		return nil, err
	}

	return &model.MissionListResponse{
		Missions:   items,
		Pagination: model.NewPagination(page, size, total),
	}, nil
}

// GetMission returns one mission by public id
func (s *MissionService) GetMission(ctx context.Context, viewerID, missionID string, lat, lng *float64) (*model.MissionListItem, error) {
	mission, err := s.resolveMission(ctx, missionID)
	if err != nil {
		return nil, err
	}

	items, err := s.listItems(ctx, viewerID, []*model.Mission{mission}, ParseOrigin(lat, lng))
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// ToggleLike flips the caller's like on a mission. The first toggle likes it.
func (s *MissionService) ToggleLike(ctx context.Context, userID, missionID string) (*model.LikeResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	mission, err := s.resolveMission(ctx, missionID)
	if err != nil {
		return nil, err
	}

	current, err := s.likes.Get(ctx, mission.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get like: %w", err)
	}

	like := &model.Like{MissionID: mission.ID, UserID: userID, IsLiked: true, UpdatedOn: s.now()}
	if current != nil {
		like.IsLiked = !current.IsLiked
	}
	if err := s.likes.Save(ctx, like); err != nil {
		return nil, fmt.Errorf("failed to save like: %w", err)
	}

	count, err := s.likes.CountLiked(ctx, mission.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	return &model.LikeResult{IsLiked: like.IsLiked, LikeCount: count}, nil
}

// Participate starts a mission for the caller. Starting twice is rejected.
func (s *MissionService) Participate(ctx context.Context, userID, missionID string) (*model.ParticipationResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	mission, err := s.resolveMission(ctx, missionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.participations.Get(ctx, mission.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participation: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyParticipating
	}

	p := &model.Participation{
		ID:             uuid.NewString(),
		MissionID:      mission.ID,
		UserID:         userID,
		Status:         model.ParticipationInProgress,
		ParticipatedAt: s.now().UTC(),
	}
	if err := s.participations.Create(ctx, p); err != nil {
		// lost the race against a concurrent start
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadyParticipating
		}
		return nil, fmt.Errorf("failed to create participation: %w", err)
	}

	return &model.ParticipationResult{
		ParticipationID: p.ID,
		Status:          p.Status,
		StartedAt:       p.ParticipatedAt,
	}, nil
}

// resolveMission loads a mission by public id. Malformed ids are not found.
func (s *MissionService) resolveMission(ctx context.Context, missionID string) (*model.Mission, error) {
	internalID, ok := s.translator.ToInternalID(missionID)
	if !ok {
		return nil, ErrMissionNotFound
	}
	mission, err := s.missions.GetByID(ctx, internalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mission: %w", err)
	}
	if mission == nil {
		return nil, ErrMissionNotFound
	}
	return mission, nil
}

// listItems shapes missions for a listing or detail response
func (s *MissionService) listItems(ctx context.Context, viewerID string, missions []*model.Mission, origin *Origin) ([]model.MissionListItem, error) {
	items := make([]model.MissionListItem, 0, len(missions))
	if len(missions) == 0 {
		return items, nil
	}

	var (
		liked          map[string]bool
		participations map[string]*model.Participation
	)
	if viewerID != "" {
		ids := missionIDs(missions)
		var err error
		if liked, err = s.likes.LikedByUser(ctx, viewerID, ids); err != nil {
			return nil, fmt.Errorf("failed to get likes: %w", err)
		}
		if participations, err = s.participations.ListByUser(ctx, viewerID, ids); err != nil {
			return nil, fmt.Errorf("failed to get participations: %w", err)
		}
	}

	for _, m := range missions {
		view := toMissionView(s.translator, m, displayDistanceMeters(m, origin))
		if liked != nil {
			view.IsLiked = liked[m.ID]
		}
		item := model.MissionListItem{MissionView: view}
		if p, ok := participations[m.ID]; ok {
			status := p.Status
			item.ParticipationStatus = &status
			item.CompletedAt = p.CompletedAt
		}
		items = append(items, item)
	}
	return items, nil
}

func missionIDs(missions []*model.Mission) []string {
	ids := make([]string, len(missions))
	for i, m := range missions {
		ids[i] = m.ID
	}
	return ids
}

// toMissionView translates a stored mission to its public representation
func toMissionView(tr *translate.Translator, m *model.Mission, distanceMeters float64) model.MissionView {
	id, ok := tr.ToPublicID(m.ID)
	if !ok {
		id = m.ID
	}
	methods := m.VerificationMethods
	if methods == nil {
		methods = []model.VerificationMethod{}
	}
	return model.MissionView{
		ID:                  id,
		Title:               m.Title,
		ImageURL:            m.ImageURL,
		Location:            m.Location,
		LocationDetail:      m.LocationDetail,
		Distance:            model.FormatDistance(distanceMeters),
		CoinReward:          m.CoinReward,
		Category:            tr.PublicCategoryOrEcho(m.Category),
		EndDate:             m.EndDate,
		Insight:             m.Insight,
		VerificationMethods: methods,
		Coordinates:         m.Coordinates,
		IsLiked:             m.IsLiked,
	}
}
