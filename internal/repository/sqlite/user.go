package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/service"
)

var _ service.UserRepository = (*UserRepository)(nil)

// UserRepository stores accounts keyed by public user id
type UserRepository struct {
	q queryer
}

const userColumns = `id, name, profile_image_url, gender, age, acceptance_rate,
	active_time_slot, coin_balance, preferences, created_at, updated_at`

// GetByID retrieves a user by public id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// UpdatePreferences replaces the user's stored preferences
func (r *UserRepository) UpdatePreferences(ctx context.Context, id string, prefs model.Preferences) error {
	encoded, err := encodePreferences(prefs)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx,
		`UPDATE users SET preferences = ?, updated_at = ? WHERE id = ?`,
		encoded, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating preferences of %s: %w", id, err)
	}
	return nil
}

// Upsert creates or replaces an account
func (r *UserRepository) Upsert(ctx context.Context, u *model.User) error {
	encoded, err := encodePreferences(u.Preferences)
	if err != nil {
		return err
	}
	var gender sql.NullString
	if u.Gender != "" {
		gender = sql.NullString{String: u.Gender, Valid: true}
	}
	var age sql.NullInt64
	if u.Age != nil {
		age = sql.NullInt64{Int64: int64(*u.Age), Valid: true}
	}

	now := formatTime(time.Now())
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			profile_image_url = excluded.profile_image_url,
			gender = excluded.gender,
			age = excluded.age,
			acceptance_rate = excluded.acceptance_rate,
			active_time_slot = excluded.active_time_slot,
			coin_balance = excluded.coin_balance,
			preferences = excluded.preferences,
			updated_at = excluded.updated_at`,
		u.ID, u.Name, u.ProfileImageURL, gender, age, u.AcceptanceRate,
		u.ActiveTimeSlot, u.CoinBalance, encoded, now, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting user %s: %w", u.ID, err)
	}
	return nil
}

func encodePreferences(prefs model.Preferences) (string, error) {
	if prefs.Categories == nil {
		prefs.Categories = []string{}
	}
	b, err := json.Marshal(prefs)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding preferences: %w", err)
	}
	return string(b), nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u                    model.User
		gender               sql.NullString
		age                  sql.NullInt64
		prefs                string
		createdAt, updatedAt string
	)
	err := row.Scan(&u.ID, &u.Name, &u.ProfileImageURL, &gender, &age, &u.AcceptanceRate,
		&u.ActiveTimeSlot, &u.CoinBalance, &prefs, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if gender.Valid {
		u.Gender = gender.String
	}
	if age.Valid {
		v := int(age.Int64)
		u.Age = &v
	}
	if err := json.Unmarshal([]byte(prefs), &u.Preferences); err != nil {
		return nil, fmt.Errorf("decoding preferences of %s: %w", u.ID, err)
	}
	u.CreatedOn = parseTime(createdAt)
	u.UpdatedOn = parseTime(updatedAt)
	return &u, nil
}
