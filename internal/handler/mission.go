package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/forgo/missions/api/internal/middleware"
	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/service"
	"github.com/forgo/missions/api/internal/validation"
)

// MissionCatalog is the listing and participation surface used by MissionHandler
type MissionCatalog interface {
	ListMissions(ctx context.Context, viewerID string, req service.ListMissionsRequest) (*model.MissionListResponse, error)
	GetMission(ctx context.Context, viewerID, missionID string, lat, lng *float64) (*model.MissionListItem, error)
	ToggleLike(ctx context.Context, userID, missionID string) (*model.LikeResult, error)
	Participate(ctx context.Context, userID, missionID string) (*model.ParticipationResult, error)
}

// Recommender ranks missions for a user
type Recommender interface {
	Recommend(ctx context.Context, callerID string, req service.RecommendRequest) ([]model.RecommendedMission, error)
}

// Completer finishes participations
type Completer interface {
	Complete(ctx context.Context, userID, missionID string, success bool) (*model.CompletionResult, error)
}

// MissionHandler handles mission endpoints
type MissionHandler struct {
	catalog     MissionCatalog
	recommender Recommender
	completer   Completer
}

// NewMissionHandler creates a new mission handler
func NewMissionHandler(catalog MissionCatalog, recommender Recommender, completer Completer) *MissionHandler {
	return &MissionHandler{
		catalog:     catalog,
		recommender: recommender,
		completer:   completer,
	}
}

// ListMissions handles GET /v1/missions
func (h *MissionHandler) ListMissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.ListMissionsRequest{
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
		Lat:      queryFloat(r, "lat"),
		Lng:      queryFloat(r, "lon"),
	}

	res, err := h.catalog.ListMissions(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// Recommend handles GET /v1/missions/ai-recommend
func (h *MissionHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	req := service.RecommendRequest{
		Limit:  queryInt(r, "limit"),
		Lat:    queryFloat(r, "lat"),
		Lng:    queryFloat(r, "lon"),
		UserID: r.URL.Query().Get("userId"),
	}

	res, err := h.recommender.Recommend(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// GetMission handles GET /v1/missions/{missionId}
func (h *MissionHandler) GetMission(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.GetMission(r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "missionId"),
		queryFloat(r, "lat"),
		queryFloat(r, "lon"),
	)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// ToggleLike handles POST /v1/missions/{missionId}/like
func (h *MissionHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	res, err := h.catalog.ToggleLike(r.Context(), userID, chi.URLParam(r, "missionId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// Participate handles POST /v1/missions/{missionId}/participate
func (h *MissionHandler) Participate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	res, err := h.catalog.Participate(r.Context(), userID, chi.URLParam(r, "missionId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteJSON(w, http.StatusCreated, res)
}

// Complete handles POST /v1/missions/{missionId}/complete
func (h *MissionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CompleteMissionRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := validation.ValidateStruct(req); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	res, err := h.completer.Complete(r.Context(), userID, chi.URLParam(r, "missionId"), *req.Success)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteJSON(w, http.StatusOK, res)
}
