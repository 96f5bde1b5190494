package service

import (
	"context"

	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/recommender"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockMissionRepo struct {
	getByIDFunc  func(ctx context.Context, id string) (*model.Mission, error)
	getByIDsFunc func(ctx context.Context, ids []string) ([]*model.Mission, error)
	listFunc     func(ctx context.Context, q model.MissionQuery) ([]*model.Mission, int, error)
	upsertFunc   func(ctx context.Context, m *model.Mission) error
}

func (m *mockMissionRepo) GetByID(ctx context.Context, id string) (*model.Mission, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockMissionRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Mission, error) {
	if m.getByIDsFunc != nil {
		return m.getByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockMissionRepo) List(ctx context.Context, q model.MissionQuery) ([]*model.Mission, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, q)
	}
	return nil, 0, nil
}

func (m *mockMissionRepo) Upsert(ctx context.Context, mission *model.Mission) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, mission)
	}
	return nil
}

type mockLikeRepo struct {
	getFunc         func(ctx context.Context, missionID, userID string) (*model.Like, error)
	saveFunc        func(ctx context.Context, like *model.Like) error
	countLikedFunc  func(ctx context.Context, missionID string) (int, error)
	likedByUserFunc func(ctx context.Context, userID string, missionIDs []string) (map[string]bool, error)
}

func (m *mockLikeRepo) Get(ctx context.Context, missionID, userID string) (*model.Like, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, missionID, userID)
	}
	return nil, nil
}

func (m *mockLikeRepo) Save(ctx context.Context, like *model.Like) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, like)
	}
	return nil
}

func (m *mockLikeRepo) CountLiked(ctx context.Context, missionID string) (int, error) {
	if m.countLikedFunc != nil {
		return m.countLikedFunc(ctx, missionID)
	}
	return 0, nil
}

func (m *mockLikeRepo) LikedByUser(ctx context.Context, userID string, missionIDs []string) (map[string]bool, error) {
	if m.likedByUserFunc != nil {
		return m.likedByUserFunc(ctx, userID, missionIDs)
	}
	return map[string]bool{}, nil
}

type mockParticipationRepo struct {
	getFunc        func(ctx context.Context, missionID, userID string) (*model.Participation, error)
	listByUserFunc func(ctx context.Context, userID string, missionIDs []string) (map[string]*model.Participation, error)
	createFunc     func(ctx context.Context, p *model.Participation) error
}

func (m *mockParticipationRepo) Get(ctx context.Context, missionID, userID string) (*model.Participation, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, missionID, userID)
	}
	return nil, nil
}

func (m *mockParticipationRepo) ListByUser(ctx context.Context, userID string, missionIDs []string) (map[string]*model.Participation, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, missionIDs)
	}
	return map[string]*model.Participation{}, nil
}

func (m *mockParticipationRepo) Create(ctx context.Context, p *model.Participation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return nil
}

type mockUserRepo struct {
	getByIDFunc           func(ctx context.Context, id string) (*model.User, error)
	updatePreferencesFunc func(ctx context.Context, id string, prefs model.Preferences) error
	upsertFunc            func(ctx context.Context, u *model.User) error
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdatePreferences(ctx context.Context, id string, prefs model.Preferences) error {
	if m.updatePreferencesFunc != nil {
		return m.updatePreferencesFunc(ctx, id, prefs)
	}
	return nil
}

func (m *mockUserRepo) Upsert(ctx context.Context, u *model.User) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, u)
	}
	return nil
}

type mockCategoryRepo struct {
	listFunc   func(ctx context.Context) ([]*model.Category, error)
	upsertFunc func(ctx context.Context, c *model.Category) error
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepo) Upsert(ctx context.Context, c *model.Category) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, c)
	}
	return nil
}

// ============================================================================
// Mock Transaction
// ============================================================================

// memoryTx is an in-memory CompletionTx. Writes are staged and only applied
// to the backing maps when the unit of work commits.
type memoryTx struct {
	missions       map[string]*model.Mission
	participations map[string]*model.Participation
	users          map[string]*model.User

	stagedParticipation *model.Participation
	stagedBalance       *int

	updateBalanceErr error
}

func participationKey(missionID, userID string) string {
	return missionID + "|" + userID
}

func (m *memoryTx) GetMission(_ context.Context, id string) (*model.Mission, error) {
	if mission, ok := m.missions[id]; ok {
		cp := *mission
		return &cp, nil
	}
	return nil, nil
}

func (m *memoryTx) GetParticipation(_ context.Context, missionID, userID string) (*model.Participation, error) {
	if p, ok := m.participations[participationKey(missionID, userID)]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memoryTx) GetUser(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memoryTx) UpdateParticipation(_ context.Context, p *model.Participation) error {
	cp := *p
	m.stagedParticipation = &cp
	return nil
}

func (m *memoryTx) UpdateCoinBalance(_ context.Context, _ string, balance int) error {
	if m.updateBalanceErr != nil {
		return m.updateBalanceErr
	}
	m.stagedBalance = &balance
	return nil
}

// unitOfWork commits staged writes only when fn succeeds
func (m *memoryTx) unitOfWork(userID string) UnitOfWork {
	return UnitOfWorkFunc(func(ctx context.Context, fn func(ctx context.Context, tx CompletionTx) error) error {
		m.stagedParticipation, m.stagedBalance = nil, nil
		if err := fn(ctx, m); err != nil {
			return err
		}
		if p := m.stagedParticipation; p != nil {
			m.participations[participationKey(p.MissionID, p.UserID)] = p
		}
		if b := m.stagedBalance; b != nil {
			m.users[userID].CoinBalance = *b
		}
		return nil
	})
}

// ============================================================================
// Mock Gateway
// ============================================================================

type mockRecommender struct {
	recommendFunc func(ctx context.Context, uc recommender.UserContext) recommender.Result
	lastContext   *recommender.UserContext
}

func (m *mockRecommender) Recommend(ctx context.Context, uc recommender.UserContext) recommender.Result {
	m.lastContext = &uc
	if m.recommendFunc != nil {
		return m.recommendFunc(ctx, uc)
	}
	return recommender.Result{Status: recommender.StatusEmpty}
}

type fixedWeather string

func (w fixedWeather) Current(context.Context, *float64, *float64) string {
	return string(w)
}
