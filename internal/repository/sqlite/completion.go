package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/forgo/missions/api/internal/database"
	"github.com/forgo/missions/api/internal/model"
	"github.com/forgo/missions/api/internal/service"
)

var _ service.UnitOfWork = (*DB)(nil)

// Do runs fn inside a sql.Tx. Writes are conditional on the values fn read, so
// a row changed by another writer fails the completion with
// database.ErrConflict instead of being overwritten.
func (db *DB) Do(ctx context.Context, fn func(ctx context.Context, tx service.CompletionTx) error) (err error) {
	sqlTx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	tx := &completionTx{
		tx:              sqlTx,
		missions:        &MissionRepository{q: sqlTx},
		participations:  &ParticipationRepository{q: sqlTx},
		users:           &UserRepository{q: sqlTx},
		observedStatus:  make(map[string]model.ParticipationStatus),
		observedBalance: make(map[string]int),
	}
	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

type completionTx struct {
	tx             *sql.Tx
	missions       *MissionRepository
	participations *ParticipationRepository
	users          *UserRepository

	observedStatus  map[string]model.ParticipationStatus
	observedBalance map[string]int
}

func (t *completionTx) GetMission(ctx context.Context, id string) (*model.Mission, error) {
	return t.missions.GetByID(ctx, id)
}

func (t *completionTx) GetParticipation(ctx context.Context, missionID, userID string) (*model.Participation, error) {
	p, err := t.participations.Get(ctx, missionID, userID)
	if err != nil || p == nil {
		return p, err
	}
	t.observedStatus[missionID+"|"+userID] = p.Status
	return p, nil
}

func (t *completionTx) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := t.users.GetByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	t.observedBalance[id] = u.CoinBalance
	return u, nil
}

func (t *completionTx) UpdateParticipation(ctx context.Context, p *model.Participation) error {
	query := `UPDATE mission_participations SET status = ?, completed_at = ? WHERE mission_id = ? AND user_id = ?`
	args := []any{string(p.Status), nullTime(p.CompletedAt), p.MissionID, p.UserID}
	if expected, ok := t.observedStatus[p.MissionID+"|"+p.UserID]; ok {
		query += ` AND status = ?`
		args = append(args, string(expected))
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: updating participation: %w", err)
	}
	if err := requireRow(res, "participation status changed"); err != nil {
		return err
	}
	t.observedStatus[p.MissionID+"|"+p.UserID] = p.Status
	return nil
}

func (t *completionTx) UpdateCoinBalance(ctx context.Context, userID string, balance int) error {
	query := `UPDATE users SET coin_balance = ?, updated_at = ? WHERE id = ?`
	args := []any{balance, formatTime(time.Now()), userID}
	if expected, ok := t.observedBalance[userID]; ok {
		query += ` AND coin_balance = ?`
		args = append(args, expected)
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: updating coin balance: %w", err)
	}
	if err := requireRow(res, "coin balance changed"); err != nil {
		return err
	}
	t.observedBalance[userID] = balance
	return nil
}

func requireRow(res sql.Result, reason string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", database.ErrConflict, reason)
	}
	return nil
}
