package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/forgo/missions/api/internal/database"
	"github.com/forgo/missions/api/internal/metrics"
	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/translate"
)

// CompletionService finishes participations and credits rewards
type CompletionService struct {
	uow        UnitOfWork
	translator *translate.Translator
	now        func() time.Time
}

// CompletionServiceConfig holds configuration for the completion service
type CompletionServiceConfig struct {
	UnitOfWork UnitOfWork
	Translator *translate.Translator
	Now        func() time.Time
}

// NewCompletionService creates a new completion service
func NewCompletionService(cfg CompletionServiceConfig) *CompletionService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &CompletionService{
		uow:        cfg.UnitOfWork,
		translator: cfg.Translator,
		now:        now,
	}
}

// Complete moves the caller's participation out of in_progress. On success
// the mission reward is credited in the same transaction as the status change.
// A completed participation cannot be completed again.
func (s *CompletionService) Complete(ctx context.Context, userID, missionID string, success bool) (*model.CompletionResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	internalID, ok := s.translator.ToInternalID(missionID)
	if !ok {
		return nil, ErrMissionNotFound
	}

	var result *model.CompletionResult
	err := s.uow.Do(ctx, func(ctx context.Context, tx CompletionTx) error {
		mission, err := tx.GetMission(ctx, internalID)
		if err != nil {
			return fmt.Errorf("failed to get mission: %w", err)
		}
		if mission == nil {
			return ErrMissionNotFound
		}

		p, err := tx.GetParticipation(ctx, mission.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to get participation: %w", err)
		}
		if p == nil {
			return ErrNotParticipating
		}
		switch p.Status {
		case model.ParticipationInProgress:
		case model.ParticipationCompleted:
			return ErrAlreadyCompleted
		default:
			return ErrNotInProgress
		}

		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return ErrUserNotFound
		}

		reward := 0
		balance := user.CoinBalance
		if success {
			now := s.now().UTC()
			p.Status = model.ParticipationCompleted
			p.CompletedAt = &now
			reward = mission.CoinReward
			balance += reward
		} else {
			p.Status = model.ParticipationFailed
			p.CompletedAt = nil
		}

		if err := tx.UpdateParticipation(ctx, p); err != nil {
			return fmt.Errorf("failed to update participation: %w", err)
		}
		if reward > 0 {
			if err := tx.UpdateCoinBalance(ctx, userID, balance); err != nil {
				return fmt.Errorf("failed to update coin balance: %w", err)
			}
		}

		publicID, ok := s.translator.ToPublicID(mission.ID)
		if !ok {
			publicID = missionID
		}
		result = &model.CompletionResult{
			MissionID:   publicID,
			UserID:      userID,
			Status:      p.Status,
			Reward:      reward,
			CoinBalance: balance,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			slog.Warn("completion conflict",
				slog.String("user_id", userID),
				slog.String("mission_id", internalID),
			)
			metrics.RecordCompletion("conflict", 0)
			return nil, ErrCompletionConflict
		}
		metrics.RecordCompletion("rejected", 0)
		return nil, err
	}

	metrics.RecordCompletion(string(result.Status), result.Reward)
	return result, nil
}
