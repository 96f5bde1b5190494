package handler

import (
	"net/http"

	"github.com/forgo/missions/api/internal/model"
)

// TabHandler serves the static navigation tabs
type TabHandler struct {
	tabs []model.Tab
}

// NewTabHandler creates a tab handler over a fixed list
func NewTabHandler(tabs []model.Tab) *TabHandler {
	return &TabHandler{tabs: tabs}
}

// List handles GET /v1/tabs
func (h *TabHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.tabs)
}
