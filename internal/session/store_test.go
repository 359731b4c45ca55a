package session

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	store, err := NewGormStoreWithCleanupInterval(db, 0)
	require.NoError(t, err)
	return store
}

func TestGormStoreCommitAndFind(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Commit("token-1", []byte("payload"), time.Now().Add(time.Hour)))

	data, found, err := store.Find("token-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("payload"), data)
}

func TestGormStoreCommitOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Commit("token-1", []byte("old"), time.Now().Add(time.Hour)))
	require.NoError(t, store.Commit("token-1", []byte("new"), time.Now().Add(2*time.Hour)))

	data, found, err := store.Find("token-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("new"), data)
}

func TestGormStoreExpiredTokenNotFound(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Commit("token-1", []byte("payload"), time.Now().Add(-time.Minute)))

	_, found, err := store.Find("token-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGormStoreDelete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Commit("token-1", []byte("payload"), time.Now().Add(time.Hour)))
	require.NoError(t, store.Delete("token-1"))

	_, found, err := store.Find("token-1")
	require.NoError(t, err)
	assert.False(t, found)

	// deleting an absent token is not an error
	require.NoError(t, store.Delete("token-1"))
}

func TestGormStoreUnknownTokenNotFound(t *testing.T) {
	store := newTestStore(t)

	_, found, err := store.Find("never-issued")
	require.NoError(t, err)
	assert.False(t, found)
}
