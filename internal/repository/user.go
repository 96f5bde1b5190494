package repository

import (
	"context"

	"github.com/forgo/missions/api/internal/database"
	"github.com/forgo/missions/api/internal/model"
)

// UserRepository handles account data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

const userByID = `SELECT * FROM app_user WHERE uid = $uid LIMIT 1`

// GetByID retrieves a user by public id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	vars := map[string]interface{}{"uid": id}

	data, err := queryOne(r.db.QueryOne(ctx, userByID, vars))
	if err != nil || data == nil {
		return nil, err
	}
	return parseUser(data), nil
}

// UpdatePreferences replaces the user's stored preferences
func (r *UserRepository) UpdatePreferences(ctx context.Context, id string, prefs model.Preferences) error {
	query := `
		UPDATE app_user SET
			preferences = {
				categories: $categories,
				is_onboarding_complete: $complete
			},
			updated_on = time::now()
		WHERE uid = $uid
	`
	categories := prefs.Categories
	if categories == nil {
		categories = []string{}
	}
	vars := map[string]interface{}{
		"uid":        id,
		"categories": categories,
		"complete":   prefs.IsOnboardingComplete,
	}
	return r.db.Execute(ctx, query, vars)
}

// Upsert creates or replaces an account. Used by seeding only.
func (r *UserRepository) Upsert(ctx context.Context, u *model.User) error {
	query := `
		LET $existing = SELECT * FROM app_user WHERE uid = $uid;
		IF array::len($existing) = 0 {
			CREATE app_user CONTENT {
				uid: $uid,
				name: $name,
				profile_image_url: $profile_image_url,
				gender: IF $gender IS NOT NULL THEN $gender ELSE NONE END,
				age: IF $age IS NOT NULL THEN $age ELSE NONE END,
				acceptance_rate: $acceptance_rate,
				active_time_slot: $active_time_slot,
				coin_balance: $coin_balance,
				preferences: { categories: $categories, is_onboarding_complete: $complete },
				created_on: time::now(),
				updated_on: time::now()
			}
		} ELSE {
			UPDATE app_user SET
				name = $name,
				profile_image_url = $profile_image_url,
				gender = IF $gender IS NOT NULL THEN $gender ELSE NONE END,
				age = IF $age IS NOT NULL THEN $age ELSE NONE END,
				acceptance_rate = $acceptance_rate,
				active_time_slot = $active_time_slot,
				coin_balance = $coin_balance,
				preferences = { categories: $categories, is_onboarding_complete: $complete },
				updated_on = time::now()
			WHERE uid = $uid
		}
	`
	categories := u.Preferences.Categories
	if categories == nil {
		categories = []string{}
	}
	vars := map[string]interface{}{
		"uid":               u.ID,
		"name":              u.Name,
		"profile_image_url": u.ProfileImageURL,
		"gender":            stringOrNone(u.Gender),
		"age":               intOrNone(u.Age),
		"acceptance_rate":   u.AcceptanceRate,
		"active_time_slot":  u.ActiveTimeSlot,
		"coin_balance":      u.CoinBalance,
		"categories":        categories,
		"complete":          u.Preferences.IsOnboardingComplete,
	}
	return r.db.Execute(ctx, query, vars)
}

func parseUser(data map[string]interface{}) *model.User {
	u := &model.User{
		ID:              getString(data, "uid"),
		Name:            getString(data, "name"),
		ProfileImageURL: getString(data, "profile_image_url"),
		Gender:          getString(data, "gender"),
		Age:             getIntPtr(data, "age"),
		AcceptanceRate:  getFloat(data, "acceptance_rate"),
		ActiveTimeSlot:  getString(data, "active_time_slot"),
		CoinBalance:     getInt(data, "coin_balance"),
		CreatedOn:       getTimeValue(data, "created_on"),
		UpdatedOn:       getTimeValue(data, "updated_on"),
	}
	if prefs := getMap(data, "preferences"); prefs != nil {
		u.Preferences = model.Preferences{
			Categories:           getStringSlice(prefs, "categories"),
			IsOnboardingComplete: getBool(prefs, "is_onboarding_complete"),
		}
	}
	return u
}
