package model

import "time"

// Preferences holds a user's onboarding choices. Categories are stored in
// public canonical form.
type Preferences struct {
	Categories           []string `json:"categories" yaml:"categories"`
	IsOnboardingComplete bool     `json:"isOnboardingComplete" yaml:"is_onboarding_complete"`
}

// User is an account. ID is the public user id (user-1); the recommendation
// model sees the internal form.
type User struct {
	ID              string      `json:"id" yaml:"id" validate:"required"`
	Name            string      `json:"name" yaml:"name"`
	ProfileImageURL string      `json:"profileImageUrl" yaml:"profile_image_url"`
	Gender          string      `json:"gender,omitempty" yaml:"gender"`
	Age             *int        `json:"age,omitempty" yaml:"age"`
	AcceptanceRate  float64     `json:"acceptanceRate" yaml:"acceptance_rate" validate:"gte=0,lte=1"`
	ActiveTimeSlot  string      `json:"activeTimeSlot,omitempty" yaml:"active_time_slot"`
	CoinBalance     int         `json:"coinBalance" yaml:"coin_balance" validate:"gte=0"`
	Preferences     Preferences `json:"preferences" yaml:"preferences"`
	CreatedOn       time.Time   `json:"-" yaml:"-"`
	UpdatedOn       time.Time   `json:"-" yaml:"-"`
}

// UpdatePreferencesRequest is the body of a preferences update
type UpdatePreferencesRequest struct {
	Categories []string `json:"categories" validate:"max=20,dive,required,max=40"`
}
