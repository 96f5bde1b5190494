package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/translate"
)

const seedYAML = `
categories:
  - id: food
    name: Food
    is_active: true
users:
  - id: U0001
    name: Kim
    coin_balance: 1000
    preferences:
      categories: [Food, exercise]
missions:
  - id: mission-3
    title: Coffee stamp
    category: Cafe
    distance: 1200
    coin_reward: 100
    end_date: "2025.12.31"
    verification_methods:
      - type: receipt
        description: Upload the receipt
likes:
  - mission_id: mission-3
    user_id: user-1
`

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(strings.NewReader(seedYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Categories) != 1 || len(c.Users) != 1 || len(c.Missions) != 1 || len(c.Likes) != 1 {
		t.Fatalf("unexpected catalog: %+v", c)
	}
	if c.Missions[0].VerificationMethods[0].Type != model.VerificationReceipt {
		t.Errorf("unexpected verification method: %+v", c.Missions[0].VerificationMethods)
	}
}

func TestLoadCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "missions:\n  - id: M001\n    title: x\n    category: food\n    colour: red\n"},
		{"missing title", "missions:\n  - id: M001\n    category: food\n"},
		{"unpadded end date", "missions:\n  - id: M001\n    title: x\n    category: food\n    end_date: \"2025.9.1\"\n"},
		{"dashed end date", "missions:\n  - id: M001\n    title: x\n    category: food\n    end_date: \"2025-09-01\"\n"},
		{"bad method", "missions:\n  - id: M001\n    title: x\n    category: food\n    verification_methods:\n      - type: selfie\n        description: smile\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadCatalog(strings.NewReader(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSeed_NormalizesForms(t *testing.T) {
	var (
		mission *model.Mission
		user    *model.User
		like    *model.Like
	)
	svc := NewSeederService(SeederServiceConfig{
		MissionRepo:  &mockMissionRepo{upsertFunc: func(ctx context.Context, m *model.Mission) error { mission = m; return nil }},
		UserRepo:     &mockUserRepo{upsertFunc: func(ctx context.Context, u *model.User) error { user = u; return nil }},
		CategoryRepo: &mockCategoryRepo{},
		LikeRepo:     &mockLikeRepo{saveFunc: func(ctx context.Context, l *model.Like) error { like = l; return nil }},
		Translator:   translate.MustDefault(),
	})
	c, err := LoadCatalog(strings.NewReader(seedYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := svc.Seed(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *res != (SeedResult{Categories: 1, Users: 1, Missions: 1, Likes: 1}) {
		t.Errorf("unexpected counts: %+v", res)
	}
	if mission.ID != "M003" || mission.Category != "cafe" {
		t.Errorf("mission stored as %s/%s", mission.ID, mission.Category)
	}
	if user.ID != "user-1" || strings.Join(user.Preferences.Categories, ",") != "food,sports" || !user.Preferences.IsOnboardingComplete {
		t.Errorf("user stored as %+v", user)
	}
	if like.MissionID != "M003" || like.UserID != "user-1" || !like.IsLiked {
		t.Errorf("like stored as %+v", like)
	}
}

func TestSeed_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewSeederService(SeederServiceConfig{
		MissionRepo:  &mockMissionRepo{},
		UserRepo:     &mockUserRepo{},
		CategoryRepo: &mockCategoryRepo{upsertFunc: func(ctx context.Context, c *model.Category) error { return boom }},
		LikeRepo:     &mockLikeRepo{},
		Translator:   translate.MustDefault(),
	})

	_, err := svc.Seed(context.Background(), &Catalog{Categories: []model.Category{{ID: "food", Name: "Food"}}})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
