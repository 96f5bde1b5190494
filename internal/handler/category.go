package handler

import (
	"context"
	"net/http"

	"github.com/forgo/missions/api/internal/model"
)

// CategoryLister lists selectable categories
type CategoryLister interface {
	List(ctx context.Context) ([]*model.Category, error)
}

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categories CategoryLister
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories CategoryLister) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List handles GET /v1/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteJSON(w, http.StatusOK, categories)
}
