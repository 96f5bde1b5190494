package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/translate"
	"github.com/forgo/missions/api/internal/validation"
)

// Catalog is the seed file format
type Catalog struct {
	Categories []model.Category `yaml:"categories" validate:"dive"`
	Users      []model.User     `yaml:"users" validate:"dive"`
	Missions   []model.Mission  `yaml:"missions" validate:"dive"`
	Likes      []SeedLike       `yaml:"likes" validate:"dive"`
}

// SeedLike marks a mission liked by a user
type SeedLike struct {
	MissionID string `yaml:"mission_id" validate:"required"`
	UserID    string `yaml:"user_id" validate:"required"`
}

// SeedResult counts what a seeding run wrote
type SeedResult struct {
	Categories int
	Users      int
	Missions   int
	Likes      int
}

// LoadCatalog decodes and validates a YAML seed file
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if errs := validation.ValidateStruct(&c); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}
	return &c, nil
}

// SeederService writes a catalog through the repositories. Upserts make
// repeated runs converge on the file contents.
type SeederService struct {
	missions   MissionRepository
	users      UserRepository
	categories CategoryRepository
	likes      LikeRepository
	translator *translate.Translator
}

// SeederServiceConfig holds configuration for the seeder service
type SeederServiceConfig struct {
	MissionRepo  MissionRepository
	UserRepo     UserRepository
	CategoryRepo CategoryRepository
	LikeRepo     LikeRepository
	Translator   *translate.Translator
}

// NewSeederService creates a new seeder service
func NewSeederService(cfg SeederServiceConfig) *SeederService {
	return &SeederService{
		missions:   cfg.MissionRepo,
		users:      cfg.UserRepo,
		categories: cfg.CategoryRepo,
		likes:      cfg.LikeRepo,
		translator: cfg.Translator,
	}
}

// Seed stores every entry of c. Mission ids are stored in internal form, user
// ids in public form and categories in public canonical form, whichever form
// the file used.
func (s *SeederService) Seed(ctx context.Context, c *Catalog) (*SeedResult, error) {
	res := &SeedResult{}

	for i := range c.Categories {
		cat := c.Categories[i]
		if err := s.categories.Upsert(ctx, &cat); err != nil {
			return res, fmt.Errorf("failed to seed category %s: %w", cat.ID, err)
		}
		res.Categories++
	}

	for i := range c.Users {
		u := c.Users[i]
		u.ID = s.publicUserID(u.ID)
		cats := make([]string, 0, len(u.Preferences.Categories))
		for _, pc := range u.Preferences.Categories {
			cats = append(cats, s.translator.PublicCategoryOrEcho(pc))
		}
		u.Preferences.Categories = cats
		u.Preferences.IsOnboardingComplete = len(cats) > 0
		if err := s.users.Upsert(ctx, &u); err != nil {
			return res, fmt.Errorf("failed to seed user %s: %w", u.ID, err)
		}
		res.Users++
	}

	for i := range c.Missions {
		m := c.Missions[i]
		if id, ok := s.translator.ToInternalID(m.ID); ok {
			m.ID = id
		}
		m.Category = s.translator.PublicCategoryOrEcho(m.Category)
		if err := s.missions.Upsert(ctx, &m); err != nil {
			return res, fmt.Errorf("failed to seed mission %s: %w", m.ID, err)
		}
		res.Missions++
	}

	now := time.Now().UTC()
	for _, l := range c.Likes {
		missionID := l.MissionID
		if id, ok := s.translator.ToInternalID(missionID); ok {
			missionID = id
		}
		like := &model.Like{
			MissionID: missionID,
			UserID:    s.publicUserID(l.UserID),
			IsLiked:   true,
			UpdatedOn: now,
		}
		if err := s.likes.Save(ctx, like); err != nil {
			return res, fmt.Errorf("failed to seed like %s/%s: %w", like.MissionID, like.UserID, err)
		}
		res.Likes++
	}

	return res, nil
}

func (s *SeederService) publicUserID(id string) string {
	if public, ok := s.translator.ToPublicUserID(id); ok {
		return public
	}
	return id
}
