package sqlite

import (
	"context"
	"fmt"

	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/service"
)

var _ service.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository stores the category list
type CategoryRepository struct {
	q queryer
}

// List returns all categories in seeding order
func (r *CategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, is_active FROM categories ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	out := make([]*model.Category, 0)
	for rows.Next() {
		var (
			c        model.Category
			isActive int
		)
		if err := rows.Scan(&c.ID, &c.Name, &isActive); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category: %w", err)
		}
		c.IsActive = isActive != 0
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Upsert creates or replaces a category. New rows sort after existing ones.
func (r *CategoryRepository) Upsert(ctx context.Context, c *model.Category) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO categories (id, name, is_active, sort_order)
		VALUES (?, ?, ?, (SELECT COUNT(*) FROM categories))
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			is_active = excluded.is_active`,
		c.ID, c.Name, boolInt(c.IsActive),
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting category %s: %w", c.ID, err)
	}
	return nil
}
