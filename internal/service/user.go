package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/translate"
)

// UserService handles account reads and onboarding preferences
type UserService struct {
	users      UserRepository
	translator *translate.Translator
}

// UserServiceConfig holds configuration for the user service
type UserServiceConfig struct {
	UserRepo   UserRepository
	Translator *translate.Translator
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	return &UserService{
		users:      cfg.UserRepo,
		translator: cfg.Translator,
	}
}

// GetMe returns the caller's account
func (s *UserService) GetMe(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Preferences.Categories == nil {
		user.Preferences.Categories = []string{}
	}
	return user, nil
}

// GetPreferences returns stored preferences, or the empty default
func (s *UserService) GetPreferences(ctx context.Context, userID string) (*model.Preferences, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs := user.Preferences
	if prefs.Categories == nil {
		prefs.Categories = []string{}
	}
	return &prefs, nil
}

// SetPreferences stores categories in public canonical form, first occurrence
// wins. Onboarding is complete once at least one category is chosen.
func (s *UserService) SetPreferences(ctx context.Context, userID string, categories []string) (*model.Preferences, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	normalized := make([]string, 0, len(categories))
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if strings.TrimSpace(c) == "" {
			continue
		}
		tag := s.translator.PublicCategoryOrEcho(c)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}

	prefs := model.Preferences{
		Categories:           normalized,
		IsOnboardingComplete: len(normalized) > 0,
	}
	if err := s.users.UpdatePreferences(ctx, userID, prefs); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return &prefs, nil
}

func (s *UserService) getUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
