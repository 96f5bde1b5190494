package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/forgo/missions/api/internal/middleware"
	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/service"
)

// ============================================================================
// Mocks
// ============================================================================

type mockCatalog struct {
	listFunc        func(ctx context.Context, viewerID string, req service.ListMissionsRequest) (*model.MissionListResponse, error)
	getFunc         func(ctx context.Context, viewerID, missionID string, lat, lng *float64) (*model.MissionListItem, error)
	toggleLikeFunc  func(ctx context.Context, userID, missionID string) (*model.LikeResult, error)
	participateFunc func(ctx context.Context, userID, missionID string) (*model.ParticipationResult, error)
}

func (m *mockCatalog) ListMissions(ctx context.Context, viewerID string, req service.ListMissionsRequest) (*model.MissionListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, viewerID, req)
	}
	return &model.MissionListResponse{}, nil
}

func (m *mockCatalog) GetMission(ctx context.Context, viewerID, missionID string, lat, lng *float64) (*model.MissionListItem, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, viewerID, missionID, lat, lng)
	}
	return nil, nil
}

func (m *mockCatalog) ToggleLike(ctx context.Context, userID, missionID string) (*model.LikeResult, error) {
	if m.toggleLikeFunc != nil {
		return m.toggleLikeFunc(ctx, userID, missionID)
	}
	return nil, nil
}

func (m *mockCatalog) Participate(ctx context.Context, userID, missionID string) (*model.ParticipationResult, error) {
	if m.participateFunc != nil {
		return m.participateFunc(ctx, userID, missionID)
	}
	return nil, nil
}

type mockRecommender struct {
	recommendFunc func(ctx context.Context, callerID string, req service.RecommendRequest) ([]model.RecommendedMission, error)
}

func (m *mockRecommender) Recommend(ctx context.Context, callerID string, req service.RecommendRequest) ([]model.RecommendedMission, error) {
	if m.recommendFunc != nil {
		return m.recommendFunc(ctx, callerID, req)
	}
	return []model.RecommendedMission{}, nil
}

type mockCompleter struct {
	completeFunc func(ctx context.Context, userID, missionID string, success bool) (*model.CompletionResult, error)
}

func (m *mockCompleter) Complete(ctx context.Context, userID, missionID string, success bool) (*model.CompletionResult, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, userID, missionID, success)
	}
	return nil, nil
}

type mockAccounts struct {
	getMeFunc          func(ctx context.Context, userID string) (*model.User, error)
	getPreferencesFunc func(ctx context.Context, userID string) (*model.Preferences, error)
	setPreferencesFunc func(ctx context.Context, userID string, categories []string) (*model.Preferences, error)
}

func (m *mockAccounts) GetMe(ctx context.Context, userID string) (*model.User, error) {
	if m.getMeFunc != nil {
		return m.getMeFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockAccounts) GetPreferences(ctx context.Context, userID string) (*model.Preferences, error) {
	if m.getPreferencesFunc != nil {
		return m.getPreferencesFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockAccounts) SetPreferences(ctx context.Context, userID string, categories []string) (*model.Preferences, error) {
	if m.setPreferencesFunc != nil {
		return m.setPreferencesFunc(ctx, userID, categories)
	}
	return nil, nil
}

type mockCategories struct {
	listFunc func(ctx context.Context) ([]*model.Category, error)
}

func (m *mockCategories) List(ctx context.Context) ([]*model.Category, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// ============================================================================
// Helpers
// ============================================================================

func missionRouter(h *MissionHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/v1/missions", h.ListMissions)
	r.Get("/v1/missions/ai-recommend", h.Recommend)
	r.Get("/v1/missions/{missionId}", h.GetMission)
	r.Post("/v1/missions/{missionId}/like", h.ToggleLike)
	r.Post("/v1/missions/{missionId}/participate", h.Participate)
	r.Post("/v1/missions/{missionId}/complete", h.Complete)
	return r
}

func serve(router http.Handler, method, target, userID string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeProblem(t *testing.T, rr *httptest.ResponseRecorder) model.ProblemDetails {
	t.Helper()
	var p model.ProblemDetails
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode problem: %v (body %q)", err, rr.Body.String())
	}
	return p
}

// ============================================================================
// MissionHandler
// ============================================================================

func TestListMissions_PassesQueryParameters(t *testing.T) {
	var got service.ListMissionsRequest
	var viewer string
	h := NewMissionHandler(&mockCatalog{
		listFunc: func(_ context.Context, viewerID string, req service.ListMissionsRequest) (*model.MissionListResponse, error) {
			viewer, got = viewerID, req
			return &model.MissionListResponse{
				Missions:   []model.MissionListItem{{MissionView: model.MissionView{ID: "mission-1"}}},
				Pagination: model.NewPagination(2, 5, 6),
			}, nil
		},
	}, &mockRecommender{}, &mockCompleter{})

	rr := serve(missionRouter(h), http.MethodGet,
		"/v1/missions?category=exercise&sort=popular&page=2&limit=5&lat=37.5&lon=127.1", "user-1", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if viewer != "user-1" {
		t.Errorf("expected viewer user-1, got %q", viewer)
	}
	if got.Category != "exercise" || got.Sort != "popular" || got.Page != 2 || got.Limit != 5 {
		t.Errorf("unexpected request %+v", got)
	}
	if got.Lat == nil || *got.Lat != 37.5 || got.Lng == nil || *got.Lng != 127.1 {
		t.Errorf("expected coordinates 37.5/127.1, got %v/%v", got.Lat, got.Lng)
	}

	var body model.MissionListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Missions) != 1 || body.Missions[0].ID != "mission-1" {
		t.Errorf("unexpected missions %+v", body.Missions)
	}
	if body.Pagination.TotalPages != 2 || body.Pagination.HasNext {
		t.Errorf("unexpected pagination %+v", body.Pagination)
	}
}

func TestListMissions_BadNumbers_FallBackToDefaults(t *testing.T) {
	var got service.ListMissionsRequest
	h := NewMissionHandler(&mockCatalog{
		listFunc: func(_ context.Context, _ string, req service.ListMissionsRequest) (*model.MissionListResponse, error) {
			got = req
			return &model.MissionListResponse{}, nil
		},
	}, &mockRecommender{}, &mockCompleter{})

	rr := serve(missionRouter(h), http.MethodGet, "/v1/missions?page=abc&limit=-&lat=north", "", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got.Page != 0 || got.Limit != 0 || got.Lat != nil {
		t.Errorf("expected zero values for unparsable input, got %+v", got)
	}
}

func TestGetMission_NotFound_Returns404(t *testing.T) {
	var gotID string
	h := NewMissionHandler(&mockCatalog{
		getFunc: func(_ context.Context, _, missionID string, _, _ *float64) (*model.MissionListItem, error) {
			gotID = missionID
			return nil, service.ErrMissionNotFound
		},
	}, &mockRecommender{}, &mockCompleter{})

	rr := serve(missionRouter(h), http.MethodGet, "/v1/missions/mission-404", "", nil)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if gotID != "mission-404" {
		t.Errorf("expected path id mission-404, got %q", gotID)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json, got %q", ct)
	}
}

func TestRecommend_RoutesBeforeMissionID(t *testing.T) {
	var got service.RecommendRequest
	var caller string
	score := 0.8
	h := NewMissionHandler(&mockCatalog{
		getFunc: func(context.Context, string, string, *float64, *float64) (*model.MissionListItem, error) {
			t.Error("detail handler must not serve ai-recommend")
			return nil, nil
		},
	}, &mockRecommender{
		recommendFunc: func(_ context.Context, callerID string, req service.RecommendRequest) ([]model.RecommendedMission, error) {
			caller, got = callerID, req
			return []model.RecommendedMission{{MissionView: model.MissionView{ID: "mission-2"}, FinalScore: &score}}, nil
		},
	}, &mockCompleter{})

	rr := serve(missionRouter(h), http.MethodGet, "/v1/missions/ai-recommend?limit=3&userId=user-9&lat=1&lon=2", "user-1", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if caller != "user-1" || got.UserID != "user-9" || got.Limit != 3 {
		t.Errorf("unexpected caller %q request %+v", caller, got)
	}

	var body []model.RecommendedMission
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0].FinalScore == nil || *body[0].FinalScore != 0.8 {
		t.Errorf("unexpected body %s", rr.Body.String())
	}
}

func TestRecommend_Anonymous_Returns401(t *testing.T) {
	h := NewMissionHandler(&mockCatalog{}, &mockRecommender{
		recommendFunc: func(context.Context, string, service.RecommendRequest) ([]model.RecommendedMission, error) {
			return nil, service.ErrUserRequired
		},
	}, &mockCompleter{})

	rr := serve(missionRouter(h), http.MethodGet, "/v1/missions/ai-recommend", "", nil)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestToggleLike_NoUser_Returns401(t *testing.T) {
	called := false
	h := NewMissionHandler(&mockCatalog{
		toggleLikeFunc: func(context.Context, string, string) (*model.LikeResult, error) {
			called = true
			return nil, nil
		},
	}, &mockRecommender{}, &mockCompleter{})

	rr := serve(missionRouter(h), http.MethodPost, "/v1/missions/mission-1/like", "", nil)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if called {
		t.Error("service should not be called without a user")
	}
}

func TestToggleLike_Success_ReturnsState(t *testing.T) {
	h := NewMissionHandler(&mockCatalog{
		toggleLikeFunc: func(_ context.Context, userID, missionID string) (*model.LikeResult, error) {
			if userID != "user-1" || missionID != "mission-1" {
				t.Errorf("unexpected ids %q %q", userID, missionID)
			}
			return &model.LikeResult{IsLiked: true, LikeCount: 4}, nil
		},
	}, &mockRecommender{}, &mockCompleter{})

	rr := serve(missionRouter(h), http.MethodPost, "/v1/missions/mission-1/like", "user-1", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body model.LikeResult
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.IsLiked || body.LikeCount != 4 {
		t.Errorf("unexpected result %+v", body)
	}
}

func TestParticipate_Success_Returns201(t *testing.T) {
	started := time.Date(2025, 6, 4, 14, 30, 0, 0, time.UTC)
	h := NewMissionHandler(&mockCatalog{
		participateFunc: func(context.Context, string, string) (*model.ParticipationResult, error) {
			return &model.ParticipationResult{ParticipationID: "p-1", Status: model.ParticipationInProgress, StartedAt: started}, nil
		},
	}, &mockRecommender{}, &mockCompleter{})

	rr := serve(missionRouter(h), http.MethodPost, "/v1/missions/mission-1/participate", "user-1", nil)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	var body model.ParticipationResult
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != model.ParticipationInProgress || !body.StartedAt.Equal(started) {
		t.Errorf("unexpected result %+v", body)
	}
}

func TestParticipate_AlreadyParticipating_Returns400(t *testing.T) {
	h := NewMissionHandler(&mockCatalog{
		participateFunc: func(context.Context, string, string) (*model.ParticipationResult, error) {
			return nil, service.ErrAlreadyParticipating
		},
	}, &mockRecommender{}, &mockCompleter{})

	rr := serve(missionRouter(h), http.MethodPost, "/v1/missions/mission-1/participate", "user-1", nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if p := decodeProblem(t, rr); p.Detail != service.ErrAlreadyParticipating.Error() {
		t.Errorf("unexpected detail %q", p.Detail)
	}
}

func TestComplete_MissingSuccess_Returns422(t *testing.T) {
	called := false
	h := NewMissionHandler(&mockCatalog{}, &mockRecommender{}, &mockCompleter{
		completeFunc: func(context.Context, string, string, bool) (*model.CompletionResult, error) {
			called = true
			return nil, nil
		},
	})

	rr := serve(missionRouter(h), http.MethodPost, "/v1/missions/mission-1/complete", "user-1", []byte(`{}`))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
	}
	if called {
		t.Error("service should not be called on invalid input")
	}
}

func TestComplete_MalformedBody_Returns400(t *testing.T) {
	h := NewMissionHandler(&mockCatalog{}, &mockRecommender{}, &mockCompleter{})

	rr := serve(missionRouter(h), http.MethodPost, "/v1/missions/mission-1/complete", "user-1", []byte(`{"success":`))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestComplete_UnknownField_Returns400(t *testing.T) {
	h := NewMissionHandler(&mockCatalog{}, &mockRecommender{}, &mockCompleter{})

	rr := serve(missionRouter(h), http.MethodPost, "/v1/missions/mission-1/complete", "user-1",
		[]byte(`{"success":true,"reward":9999}`))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestComplete_Success_ReturnsBalance(t *testing.T) {
	var gotSuccess bool
	h := NewMissionHandler(&mockCatalog{}, &mockRecommender{}, &mockCompleter{
		completeFunc: func(_ context.Context, userID, missionID string, success bool) (*model.CompletionResult, error) {
			gotSuccess = success
			return &model.CompletionResult{
				MissionID: missionID, UserID: userID,
				Status: model.ParticipationCompleted, Reward: 100, CoinBalance: 150,
			}, nil
		},
	})

	rr := serve(missionRouter(h), http.MethodPost, "/v1/missions/mission-1/complete", "user-1", []byte(`{"success":true}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !gotSuccess {
		t.Error("expected success=true to reach the service")
	}
	var body model.CompletionResult
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.CoinBalance != 150 || body.Reward != 100 || body.MissionID != "mission-1" {
		t.Errorf("unexpected result %+v", body)
	}
}

func TestComplete_Conflict_Returns409(t *testing.T) {
	h := NewMissionHandler(&mockCatalog{}, &mockRecommender{}, &mockCompleter{
		completeFunc: func(context.Context, string, string, bool) (*model.CompletionResult, error) {
			return nil, service.ErrCompletionConflict
		},
	})

	rr := serve(missionRouter(h), http.MethodPost, "/v1/missions/mission-1/complete", "user-1", []byte(`{"success":false}`))

	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rr.Code)
	}
}

// ============================================================================
// UserHandler
// ============================================================================

func userRouter(h *UserHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/v1/users/me", h.GetMe)
	r.Get("/v1/users/me/preferences", h.GetPreferences)
	r.Post("/v1/users/me/preferences", h.SetPreferences)
	return r
}

func TestGetMe_Success_ReturnsUser(t *testing.T) {
	h := NewUserHandler(&mockAccounts{
		getMeFunc: func(_ context.Context, userID string) (*model.User, error) {
			return &model.User{ID: userID, Name: "Kim", CoinBalance: 50}, nil
		},
	})

	rr := serve(userRouter(h), http.MethodGet, "/v1/users/me", "user-1", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body model.User
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != "user-1" || body.CoinBalance != 50 {
		t.Errorf("unexpected user %+v", body)
	}
}

func TestGetMe_UnknownUser_Returns404(t *testing.T) {
	h := NewUserHandler(&mockAccounts{
		getMeFunc: func(context.Context, string) (*model.User, error) {
			return nil, service.ErrUserNotFound
		},
	})

	rr := serve(userRouter(h), http.MethodGet, "/v1/users/me", "user-404", nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestSetPreferences_Success_PassesCategories(t *testing.T) {
	var got []string
	h := NewUserHandler(&mockAccounts{
		setPreferencesFunc: func(_ context.Context, _ string, categories []string) (*model.Preferences, error) {
			got = categories
			return &model.Preferences{Categories: []string{"food", "sports"}, IsOnboardingComplete: true}, nil
		},
	})

	rr := serve(userRouter(h), http.MethodPost, "/v1/users/me/preferences", "user-1",
		[]byte(`{"categories":["Food","exercise"]}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(got) != 2 || got[0] != "Food" || got[1] != "exercise" {
		t.Errorf("expected raw categories to reach the service, got %v", got)
	}
	var body model.Preferences
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.IsOnboardingComplete {
		t.Error("expected onboarding complete")
	}
}

func TestSetPreferences_EmptyEntry_Returns422(t *testing.T) {
	h := NewUserHandler(&mockAccounts{})

	rr := serve(userRouter(h), http.MethodPost, "/v1/users/me/preferences", "user-1", []byte(`{"categories":["food",""]}`))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if p := decodeProblem(t, rr); len(p.Errors) == 0 {
		t.Error("expected field errors")
	}
}

func TestSetPreferences_NoUser_Returns401(t *testing.T) {
	h := NewUserHandler(&mockAccounts{})

	rr := serve(userRouter(h), http.MethodPost, "/v1/users/me/preferences", "", []byte(`{"categories":[]}`))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

// ============================================================================
// CategoryHandler / HealthHandler
// ============================================================================

func TestCategories_List_ReturnsAll(t *testing.T) {
	h := NewCategoryHandler(&mockCategories{
		listFunc: func(context.Context) ([]*model.Category, error) {
			return []*model.Category{{ID: "food", Name: "Food", IsActive: true}, {ID: "sports", Name: "Sports", IsActive: true}}, nil
		},
	})

	rr := serve(http.HandlerFunc(h.List), http.MethodGet, "/v1/categories", "", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body []model.Category
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 2 || body[1].ID != "sports" {
		t.Errorf("unexpected categories %+v", body)
	}
}

func TestTabs_List_ReturnsFixedOrder(t *testing.T) {
	h := NewTabHandler([]model.Tab{{ID: "tab-1", Name: "Home"}, {ID: "tab-2", Name: "Challenge", IsActive: true}})

	rr := serve(http.HandlerFunc(h.List), http.MethodGet, "/v1/tabs", "", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body []model.Tab
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 2 || body[0].ID != "tab-1" || !body[1].IsActive || body[0].IsActive {
		t.Errorf("unexpected tabs %+v", body)
	}
}

func TestCategories_StoreFailure_Returns500WithoutDetail(t *testing.T) {
	h := NewCategoryHandler(&mockCategories{
		listFunc: func(context.Context) ([]*model.Category, error) {
			return nil, errors.New("dial tcp 10.0.0.5:8000: connection refused")
		},
	})

	rr := serve(http.HandlerFunc(h.List), http.MethodGet, "/v1/categories", "", nil)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if bytes.Contains(rr.Body.Bytes(), []byte("10.0.0.5")) {
		t.Error("internal error text leaked to client")
	}
}

func TestHealth_StoreUp_Returns200(t *testing.T) {
	h := NewHealthHandler(pingFunc(func(context.Context) error { return nil }))

	rr := serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", "", nil)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}

func TestHealth_StoreDown_Returns503(t *testing.T) {
	h := NewHealthHandler(pingFunc(func(context.Context) error { return errors.New("down") }))

	rr := serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", "", nil)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rr.Code)
	}
}

// ============================================================================
// MapServiceError
// ============================================================================

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"nil", nil, 0},
		{"problem passthrough", model.NewValidationError([]model.FieldError{{Field: "id", Message: "required"}}), http.StatusUnprocessableEntity},
		{"user required", service.ErrUserRequired, http.StatusUnauthorized},
		{"mission not found", service.ErrMissionNotFound, http.StatusNotFound},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"not participating", service.ErrNotParticipating, http.StatusBadRequest},
		{"already completed", service.ErrAlreadyCompleted, http.StatusBadRequest},
		{"failed participation", service.ErrNotInProgress, http.StatusBadRequest},
		{"wrapped conflict", errors.Join(errors.New("tx"), service.ErrCompletionConflict), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MapServiceError(tt.err)
			if tt.status == 0 {
				if p != nil {
					t.Errorf("expected nil, got %+v", p)
				}
				return
			}
			if p == nil || p.Status != tt.status {
				t.Errorf("expected status %d, got %+v", tt.status, p)
			}
		})
	}
}
