package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/quizdeck/internal/client/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return NewStore(db)
}

func sampleUser() *models.User {
	return &models.User{
		ID:        "u-1",
		Name:      "Alice",
		Email:     "alice@example.com",
		Role:      models.RoleStudent,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestToken_EmptyWhenAbsent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	assert.Equal(t, "", s.Token(ctx))
	assert.False(t, s.HasToken(ctx))
}

func TestSaveToken_Overwrites(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveToken(ctx, "first"))
	require.NoError(t, s.SaveToken(ctx, "second"))

	assert.Equal(t, "second", s.Token(ctx))
	assert.True(t, s.HasToken(ctx))
}

func TestSaveCredentials_WritesBoth(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCredentials(ctx, "tok", sampleUser()))

	assert.Equal(t, "tok", s.Token(ctx))
	cached := s.CachedUser(ctx)
	require.NotNil(t, cached)
	assert.Equal(t, "u-1", cached.ID)
	assert.Equal(t, models.RoleStudent, cached.Role)
}

func TestCachedUser_NilOnGarbage(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, metadataSet(ctx, s.db, keyUser, []byte("{broken")))
	assert.Nil(t, s.CachedUser(ctx))
}

func TestClear_RemovesTokenAndUser(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCredentials(ctx, "tok", sampleUser()))
	require.NoError(t, s.Clear(ctx))

	assert.False(t, s.HasToken(ctx))
	assert.Nil(t, s.CachedUser(ctx))

	// clearing twice is a no-op, not an error
	require.NoError(t, s.Clear(ctx))
}

func TestNilDB_DegradesToUnauthenticated(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	assert.Equal(t, "", s.Token(ctx))
	assert.False(t, s.HasToken(ctx))
	assert.Nil(t, s.CachedUser(ctx))
	require.NoError(t, s.SaveToken(ctx, "tok"))
	require.NoError(t, s.SaveCredentials(ctx, "tok", sampleUser()))
	require.NoError(t, s.Clear(ctx))
}

func TestInitDatabase_AppliesMigrations(t *testing.T) {
	db, err := InitDatabase(context.Background(), "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewStore(db)
	require.NoError(t, s.SaveToken(context.Background(), "tok"))
	assert.Equal(t, "tok", s.Token(context.Background()))
}
