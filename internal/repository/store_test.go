package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/missions/api/internal/config"
	"github.com/forgo/missions/api/internal/model"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Categories.Upsert(ctx, &model.Category{ID: "food", Name: "Food", IsActive: true}))

	cats, err := store.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "food", cats[0].ID)
	assert.NotNil(t, store.UnitOfWork)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "postgres"})
	assert.ErrorContains(t, err, `unknown database driver "postgres"`)
}

func TestNewSurrealStore_WiresSameConnection(t *testing.T) {
	db := &fakeDB{}
	store := NewSurrealStore(db)

	require.NoError(t, store.Ping(context.Background()))
	assert.IsType(t, &CompletionStore{}, store.UnitOfWork)
	assert.IsType(t, &MissionRepository{}, store.Missions)
}
