package service

import (
	"context"
	"fmt"

	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/translate"
)

// CategoryService lists the categories clients can filter and onboard with
type CategoryService struct {
	categories CategoryRepository
	translator *translate.Translator
}

// NewCategoryService creates a new category service
func NewCategoryService(repo CategoryRepository, translator *translate.Translator) *CategoryService {
	return &CategoryService{categories: repo, translator: translator}
}

// List returns categories keyed by public canonical tag. Stored rows that
// collapse onto the same tag (a synonym and its canonical) appear once.
func (s *CategoryService) List(ctx context.Context) ([]*model.Category, error) {
	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	out := make([]*model.Category, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, c := range rows {
		id := s.translator.PublicCategoryOrEcho(c.ID)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, &model.Category{ID: id, Name: c.Name, IsActive: c.IsActive})
	}
	return out, nil
}
