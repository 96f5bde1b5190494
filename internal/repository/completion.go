package repository

import (
	"context"

	"github.com/forgo/missions/api/internal/database"
	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/service"
)

// CompletionStore runs completions against SurrealDB. Reads go straight to the
// database; writes are buffered and committed as one BEGIN/COMMIT batch whose
// guards abort it with database.ErrConflict if a row read earlier has changed.
type CompletionStore struct {
	db             database.Database
	missions       *MissionRepository
	participations *ParticipationRepository
	users          *UserRepository
}

// NewCompletionStore creates a new completion store
func NewCompletionStore(db database.Database) *CompletionStore {
	return &CompletionStore{
		db:             db,
		missions:       NewMissionRepository(db),
		participations: NewParticipationRepository(db),
		users:          NewUserRepository(db),
	}
}

// Do runs fn and commits its buffered writes only when fn returns nil
func (s *CompletionStore) Do(ctx context.Context, fn func(ctx context.Context, tx service.CompletionTx) error) error {
	tx := &completionTx{store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit(ctx)
}

type completionTx struct {
	store *CompletionStore

	// values observed by reads, re-checked at commit
	observedStatus  map[string]model.ParticipationStatus
	observedBalance map[string]int

	participation *model.Participation
	balanceUserID string
	balance       *int
}

func (tx *completionTx) GetMission(ctx context.Context, id string) (*model.Mission, error) {
	return tx.store.missions.GetByID(ctx, id)
}

func (tx *completionTx) GetParticipation(ctx context.Context, missionID, userID string) (*model.Participation, error) {
	p, err := tx.store.participations.Get(ctx, missionID, userID)
	if err != nil || p == nil {
		return p, err
	}
	if tx.observedStatus == nil {
		tx.observedStatus = make(map[string]model.ParticipationStatus)
	}
	tx.observedStatus[missionID+"|"+userID] = p.Status
	return p, nil
}

func (tx *completionTx) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := tx.store.users.GetByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	if tx.observedBalance == nil {
		tx.observedBalance = make(map[string]int)
	}
	tx.observedBalance[id] = u.CoinBalance
	return u, nil
}

func (tx *completionTx) UpdateParticipation(_ context.Context, p *model.Participation) error {
	cp := *p
	tx.participation = &cp
	return nil
}

func (tx *completionTx) UpdateCoinBalance(_ context.Context, userID string, balance int) error {
	tx.balanceUserID = userID
	tx.balance = &balance
	return nil
}

func (tx *completionTx) commit(ctx context.Context) error {
	tb := database.NewTxBuilder()

	if p := tx.participation; p != nil {
		if expected, ok := tx.observedStatus[p.MissionID+"|"+p.UserID]; ok {
			tb.Add(database.ConflictGuard(
				`SELECT VALUE status FROM ONLY mission_participation WHERE mission_id = $mission_id AND user_id = $user_id LIMIT 1`,
				"expected", "participation status changed",
			), map[string]interface{}{
				"mission_id": p.MissionID,
				"user_id":    p.UserID,
				"expected":   string(expected),
			})
		}
		tb.Add(`
			UPDATE mission_participation SET
				status = $status,
				completed_at = IF $completed_at IS NOT NULL THEN <datetime>$completed_at ELSE NONE END
			WHERE mission_id = $mission_id AND user_id = $user_id
		`, map[string]interface{}{
			"mission_id":   p.MissionID,
			"user_id":      p.UserID,
			"status":       string(p.Status),
			"completed_at": timeOrNone(p.CompletedAt),
		})
	}

	if tx.balance != nil {
		if expected, ok := tx.observedBalance[tx.balanceUserID]; ok {
			tb.Add(database.ConflictGuard(
				`SELECT VALUE coin_balance FROM ONLY app_user WHERE uid = $uid LIMIT 1`,
				"expected", "coin balance changed",
			), map[string]interface{}{
				"uid":      tx.balanceUserID,
				"expected": expected,
			})
		}
		tb.Add(`UPDATE app_user SET coin_balance = $balance, updated_on = time::now() WHERE uid = $uid`,
			map[string]interface{}{
				"uid":     tx.balanceUserID,
				"balance": *tx.balance,
			})
	}

	_, err := database.ExecuteTransaction(ctx, tx.store.db, tb)
	return err
}
