package workers

import (
	"testing"
	"time"

	"github.com/stavg2005/SoloLevelingApp/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newWorkerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.QuestCategory{},
		&models.Quest{},
		&models.QuestObjective{},
		&models.UserQuest{},
		&models.UserQuestObjective{},
	))
	return db
}

func TestExpireStaleQuests(t *testing.T) {
	db := newWorkerDB(t)
	client := NewQuestExpiryClient(db)
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	category := models.QuestCategory{CategoryName: "weekly"}
	require.NoError(t, db.Create(&category).Error)

	expired := models.Quest{QuestName: "old gate", Slug: "old-gate", CategoryID: category.CategoryID, EndDate: &past, IsActive: true}
	open := models.Quest{QuestName: "open gate", Slug: "open-gate", CategoryID: category.CategoryID, EndDate: &future, IsActive: true}
	endless := models.Quest{QuestName: "endless gate", Slug: "endless-gate", CategoryID: category.CategoryID, IsActive: true}
	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&open).Error)
	require.NoError(t, db.Create(&endless).Error)

	stale := models.UserQuest{UserID: 1, QuestID: expired.QuestID, IsActive: true, StartDate: past}
	active := models.UserQuest{UserID: 1, QuestID: open.QuestID, IsActive: true, StartDate: now}
	done := models.UserQuest{UserID: 1, QuestID: expired.QuestID, IsActive: true, IsCompleted: true, StartDate: past}
	unbounded := models.UserQuest{UserID: 1, QuestID: endless.QuestID, IsActive: true, StartDate: past}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&done).Error)
	require.NoError(t, db.Create(&unbounded).Error)

	swept, err := client.ExpireStaleQuests(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	check := func(id uint) bool {
		var uq models.UserQuest
		require.NoError(t, db.First(&uq, id).Error)
		return uq.IsActive
	}
	assert.False(t, check(stale.UserQuestID), "stale instance deactivated")
	assert.True(t, check(active.UserQuestID), "open window untouched")
	assert.True(t, check(done.UserQuestID), "completed quests keep their state")
	assert.True(t, check(unbounded.UserQuestID), "no end date means no expiry")

	// idempotent: a second sweep finds nothing
	swept, err = client.ExpireStaleQuests(now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), swept)
}
