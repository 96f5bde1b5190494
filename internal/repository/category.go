package repository

import (
	"context"

	"github.com/forgo/missions/api/internal/database"
	"github.com/forgo/missions/api/internal/model"
)

// CategoryRepository handles category data access
type CategoryRepository struct {
	db database.Database
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db database.Database) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories in seeding order
func (r *CategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	results, err := r.db.Query(ctx, `SELECT * FROM category ORDER BY sort_order ASC, code ASC`, nil)
	if err != nil {
		return nil, err
	}
	records := statementRecords(results, 0)
	out := make([]*model.Category, 0, len(records))
	for _, rec := range records {
		if data, ok := rec.(map[string]interface{}); ok {
			out = append(out, &model.Category{
				ID:       getString(data, "code"),
				Name:     getString(data, "name"),
				IsActive: getBool(data, "is_active"),
			})
		}
	}
	return out, nil
}

// Upsert creates or replaces a category. New rows sort after existing ones.
func (r *CategoryRepository) Upsert(ctx context.Context, c *model.Category) error {
	query := `
		LET $existing = SELECT * FROM category WHERE code = $code;
		IF array::len($existing) = 0 {
			LET $next = (SELECT count() AS count FROM category GROUP ALL)[0].count ?? 0;
			CREATE category SET code = $code, name = $name, is_active = $is_active, sort_order = $next
		} ELSE {
			UPDATE category SET name = $name, is_active = $is_active WHERE code = $code
		}
	`
	vars := map[string]interface{}{
		"code":      c.ID,
		"name":      c.Name,
		"is_active": c.IsActive,
	}
	return r.db.Execute(ctx, query, vars)
}
