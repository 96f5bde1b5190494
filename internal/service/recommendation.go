package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/forgo/missions/api/internal/metrics"
	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/recommender"
	"github.com/forgo/missions/api/internal/translate"
)

// DefaultRecommendationLimit is used when the caller asks for fewer than one
const DefaultRecommendationLimit = 5

// Popularity fallback reasons
const (
	FallbackEmpty       = "empty"
	FallbackUnavailable = "unavailable"
	FallbackUnresolved  = "unresolved"
)

// Recommender ranks missions for a user context
type Recommender interface {
	Recommend(ctx context.Context, uc recommender.UserContext) recommender.Result
}

// WeatherSource supplies the weather tag sent with a user context
type WeatherSource interface {
	Current(ctx context.Context, lat, lon *float64) string
}

// WeatherTags are the tags the scoring model was trained on
var WeatherTags = []string{"clear", "cloudy", "rain", "snow"}

// RandomWeather picks a tag uniformly. It stands in until a real forecast
// source is wired.
type RandomWeather struct{}

// Current returns a random weather tag
func (RandomWeather) Current(context.Context, *float64, *float64) string {
	return WeatherTags[rand.IntN(len(WeatherTags))]
}

// RecommendRequest is a recommendation query in public terms
type RecommendRequest struct {
	Limit int
	Lat   *float64
	Lng   *float64
	// UserID overrides the caller for whom the ranking is computed
	UserID string
}

// RecommendationService reconciles gateway rankings with the catalog
type RecommendationService struct {
	missions    MissionRepository
	users       UserRepository
	recommender Recommender
	weather     WeatherSource
	translator  *translate.Translator
	now         func() time.Time
}

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	MissionRepo MissionRepository
	UserRepo    UserRepository
	Recommender Recommender
	Weather     WeatherSource
	Translator  *translate.Translator
	Now         func() time.Time
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(cfg RecommendationServiceConfig) *RecommendationService {
	s := &RecommendationService{
		missions:    cfg.MissionRepo,
		users:       cfg.UserRepo,
		recommender: cfg.Recommender,
		weather:     cfg.Weather,
		translator:  cfg.Translator,
		now:         cfg.Now,
	}
	if s.weather == nil {
		s.weather = RandomWeather{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Recommend returns at most limit missions in gateway order, or the
// popularity ranking when the gateway has nothing usable.
func (s *RecommendationService) Recommend(ctx context.Context, callerID string, req RecommendRequest) ([]model.RecommendedMission, error) {
	limit := req.Limit
	if limit < 1 {
		limit = DefaultRecommendationLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = callerID
	}
	if userID == "" {
		return nil, ErrUserRequired
	}

	uc, err := s.buildContext(ctx, userID, req, limit)
	if err != nil {
		return nil, err
	}

	result := s.recommender.Recommend(ctx, uc)

	var reason string
	switch result.Status {
	case recommender.StatusRanked:
		ranked, err := s.resolveRanked(ctx, result.Items, limit)
		if err != nil {
			return nil, err
		}
		if len(ranked) > 0 {
			return ranked, nil
		}
		reason = FallbackUnresolved
	case recommender.StatusEmpty:
		reason = FallbackEmpty
	default:
		reason = FallbackUnavailable
	}

	slog.Info("serving popularity fallback",
		slog.String("reason", reason),
		slog.String("user_id", userID),
		slog.Int("limit", limit),
	)
	metrics.RecordRecommendationFallback(reason)
	return s.popular(ctx, limit)
}

// buildContext assembles the scoring payload. A user without an account row
// still gets a context carrying only id, time and weather.
func (s *RecommendationService) buildContext(ctx context.Context, userID string, req RecommendRequest, limit int) (recommender.UserContext, error) {
	now := s.now()
	internalUserID, ok := s.translator.ToInternalUserID(userID)
	if !ok {
		internalUserID = userID
	}

	uc := recommender.UserContext{
		UserID:              internalUserID,
		Lat:                 req.Lat,
		Lon:                 req.Lng,
		PreferredCategories: []string{},
		CurrentHour:         now.Hour(),
		DayOfWeek:           mondayFirstWeekday(now),
		Weather:             s.weather.Current(ctx, req.Lat, req.Lng),
		TopK:                limit,
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return uc, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return uc, nil
	}

	uc.Age = user.Age
	uc.Gender = user.Gender
	uc.ActiveTimeSlot = user.ActiveTimeSlot
	rate := user.AcceptanceRate
	uc.AcceptanceRate = &rate
	for _, c := range user.Preferences.Categories {
		uc.PreferredCategories = append(uc.PreferredCategories, s.translator.InternalCategoryOrEcho(c))
	}
	return uc, nil
}

// mondayFirstWeekday returns 0 for Monday through 6 for Sunday
func mondayFirstWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// resolveRanked maps gateway ids onto catalog rows in gateway order. Ids that
// do not resolve are dropped.
func (s *RecommendationService) resolveRanked(ctx context.Context, items []recommender.Item, limit int) ([]model.RecommendedMission, error) {
	ids := make([]string, 0, len(items))
	resolved := make([]string, len(items))
	for i, it := range items {
		id, ok := s.translator.ToInternalID(it.MissionID)
		if !ok {
			id = it.MissionID
		}
		resolved[i] = id
		ids = append(ids, id)
	}

	missions, err := s.missions.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommended missions: %w", err)
	}
	byID := make(map[string]*model.Mission, len(missions))
	for _, m := range missions {
		byID[m.ID] = m
	}

	out := make([]model.RecommendedMission, 0, limit)
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		if len(out) == limit {
			break
		}
		m, ok := byID[resolved[i]]
		if !ok || seen[m.ID] {
			continue
		}
		seen[m.ID] = true

		distance := m.DistanceMeters
		if it.DistanceM != nil {
			distance = *it.DistanceM
		}
		out = append(out, model.RecommendedMission{
			MissionView:    toMissionView(s.translator, m, distance),
			ModelProba:     it.ModelProba,
			FinalScore:     it.FinalScore,
			DistanceMeters: it.DistanceM,
		})
	}
	return out, nil
}

// popular returns the first limit missions by popularity
func (s *RecommendationService) popular(ctx context.Context, limit int) ([]model.RecommendedMission, error) {
	missions, _, err := s.missions.List(ctx, model.MissionQuery{
		Sort:     model.SortPopular,
		Page:     1,
		PageSize: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list popular missions: %w", err)
	}

	out := make([]model.RecommendedMission, 0, len(missions))
	for _, m := range missions {
		out = append(out, model.RecommendedMission{
			MissionView: toMissionView(s.translator, m, m.DistanceMeters),
		})
	}
	return out, nil
}
