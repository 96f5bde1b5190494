package fixtures

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/repository"
)

// Factory creates test entities in a store
type Factory struct {
	store *repository.Store

	users    atomic.Int64
	missions atomic.Int64
}

// New creates a new fixture factory
func New(store *repository.Store) *Factory {
	return &Factory{store: store}
}

// ctx returns a context with timeout
func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// WithBalance sets the starting coin balance
func WithBalance(coins int) func(*model.User) {
	return func(u *model.User) { u.CoinBalance = coins }
}

// WithPreferences sets stored preference categories and completes onboarding
func WithPreferences(categories ...string) func(*model.User) {
	return func(u *model.User) {
		u.Preferences = model.Preferences{Categories: categories, IsOnboardingComplete: true}
	}
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := f.users.Add(1)
	u := &model.User{
		ID:              fmt.Sprintf("user-%d", n),
		Name:            fmt.Sprintf("Test User %d", n),
		ProfileImageURL: fmt.Sprintf("https://img.test/users/%d.png", n),
		AcceptanceRate:  0.5,
		ActiveTimeSlot:  "evening",
		Preferences:     model.Preferences{Categories: []string{}},
	}
	for _, fn := range opts {
		fn(u)
	}

	if err := f.store.Users.Upsert(ctx(t), u); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	return u
}

// ============================================================================
// Mission Fixtures
// ============================================================================

// WithCategory sets the stored category
func WithCategory(category string) func(*model.Mission) {
	return func(m *model.Mission) { m.Category = category }
}

// WithDistance sets the distance in meters
func WithDistance(meters float64) func(*model.Mission) {
	return func(m *model.Mission) { m.DistanceMeters = meters }
}

// WithReward sets the coin reward
func WithReward(coins int) func(*model.Mission) {
	return func(m *model.Mission) { m.CoinReward = coins }
}

// WithEndDate sets the end date (YYYY.MM.DD)
func WithEndDate(date string) func(*model.Mission) {
	return func(m *model.Mission) { m.EndDate = date }
}

// WithCoordinates sets the mission location
func WithCoordinates(lat, lng float64) func(*model.Mission) {
	return func(m *model.Mission) { m.Coordinates = &model.Coordinates{Lat: lat, Lng: lng} }
}

// CreateMission creates a mission with optional customizations
func (f *Factory) CreateMission(t *testing.T, opts ...func(*model.Mission)) *model.Mission {
	t.Helper()

	n := f.missions.Add(1)
	m := &model.Mission{
		ID:             fmt.Sprintf("M%03d", n),
		Title:          fmt.Sprintf("Test Mission %d", n),
		ImageURL:       fmt.Sprintf("https://img.test/missions/%d.png", n),
		Location:       "Seoul",
		LocationDetail: "Jongno-gu",
		DistanceMeters: float64(n) * 100,
		CoinReward:     100,
		Category:       "food",
		EndDate:        "2025.12.31",
		Insight:        "A good one",
		VerificationMethods: []model.VerificationMethod{
			{Type: model.VerificationPhoto, Description: "Take a photo"},
		},
	}
	for _, fn := range opts {
		fn(m)
	}

	if err := f.store.Missions.Upsert(ctx(t), m); err != nil {
		t.Fatalf("fixtures: failed to create mission: %v", err)
	}
	return m
}

// ============================================================================
// Like / Participation Fixtures
// ============================================================================

// Like marks the mission liked by the user
func (f *Factory) Like(t *testing.T, mission *model.Mission, user *model.User) {
	t.Helper()

	like := &model.Like{MissionID: mission.ID, UserID: user.ID, IsLiked: true, UpdatedOn: time.Now().UTC()}
	if err := f.store.Likes.Save(ctx(t), like); err != nil {
		t.Fatalf("fixtures: failed to like mission: %v", err)
	}
}

// Participate starts the mission for the user
func (f *Factory) Participate(t *testing.T, mission *model.Mission, user *model.User) *model.Participation {
	t.Helper()

	p := &model.Participation{
		ID:             uuid.NewString(),
		MissionID:      mission.ID,
		UserID:         user.ID,
		Status:         model.ParticipationInProgress,
		ParticipatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := f.store.Participations.Create(ctx(t), p); err != nil {
		t.Fatalf("fixtures: failed to create participation: %v", err)
	}
	return p
}
