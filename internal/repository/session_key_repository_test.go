package repository

import (
	"testing"
	"time"

	"github.com/mediastore-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SessionKey{}))
	return db
}

func TestSessionKeyRepositoryRoundTrip(t *testing.T) {
	repo := NewSessionKeyRepository(newTestDB(t))

	// 不存在的键返回 (nil, nil)
	record, err := repo.Find("session-1-missing")
	require.NoError(t, err)
	require.Nil(t, record)

	require.NoError(t, repo.Save(&models.SessionKey{Key: "session-1-abc"}))

	record, err = repo.Find("session-1-abc")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, "session-1-abc", record.Key)
	require.False(t, record.LastSeen.IsZero())
}

func TestSessionKeyRepositoryTouch(t *testing.T) {
	repo := NewSessionKeyRepository(newTestDB(t))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(&models.SessionKey{Key: "session-1-abc", LastSeen: past}))

	require.NoError(t, repo.Touch("session-1-abc"))

	record, err := repo.Find("session-1-abc")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.True(t, record.LastSeen.After(past))
}

func TestSessionKeyRepositoryDelete(t *testing.T) {
	repo := NewSessionKeyRepository(newTestDB(t))

	require.NoError(t, repo.Save(&models.SessionKey{Key: "session-1-abc"}))
	require.NoError(t, repo.Delete("session-1-abc"))

	record, err := repo.Find("session-1-abc")
	require.NoError(t, err)
	require.Nil(t, record)
}
