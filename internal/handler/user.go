package handler

import (
	"context"
	"net/http"

	"github.com/forgo/missions/api/internal/middleware"
	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/validation"
)

// Accounts is the account surface used by UserHandler
type Accounts interface {
	GetMe(ctx context.Context, userID string) (*model.User, error)
	GetPreferences(ctx context.Context, userID string) (*model.Preferences, error)
	SetPreferences(ctx context.Context, userID string, categories []string) (*model.Preferences, error)
}

// UserHandler handles the caller's account endpoints
type UserHandler struct {
	accounts Accounts
}

// NewUserHandler creates a new user handler
func NewUserHandler(accounts Accounts) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// GetMe handles GET /v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.GetMe(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// GetPreferences handles GET /v1/users/me/preferences
func (h *UserHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.accounts.GetPreferences(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteJSON(w, http.StatusOK, prefs)
}

// SetPreferences handles POST /v1/users/me/preferences
func (h *UserHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.UpdatePreferencesRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := validation.ValidateStruct(req); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	prefs, err := h.accounts.SetPreferences(r.Context(), userID, req.Categories)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteJSON(w, http.StatusOK, prefs)
}
