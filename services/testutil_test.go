package services

import (
	"testing"

	"github.com/stavg2005/SoloLevelingApp/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database, migrates the full schema and
// seeds ranks, stats and titles. One connection only — every transaction
// in a test sees the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.UserSettings{},
		&models.HunterRank{},
		&models.HunterStatus{},
		&models.Stat{},
		&models.UserStat{},
		&models.DungeonCategory{},
		&models.Dungeon{},
		&models.Exercise{},
		&models.DungeonExercise{},
		&models.UserDungeonCompletion{},
		&models.QuestCategory{},
		&models.Quest{},
		&models.QuestObjective{},
		&models.UserQuest{},
		&models.UserQuestObjective{},
		&models.ActivityLog{},
		&models.TitleType{},
		&models.UserTitle{},
	))

	require.NoError(t, NewUserService(db).EnsureCoreData())
	return db
}

// registerTestHunter creates a full account (status, stats, profile).
func registerTestHunter(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	userID, err := NewUserService(db).Register(username, username+"@hunters.example", "arise123")
	require.NoError(t, err)
	return userID
}

// statIDByName resolves a seeded stat's id.
func statIDByName(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var stat models.Stat
	require.NoError(t, db.Where("stat_name = ?", name).First(&stat).Error)
	return stat.StatID
}

func countActivity(t *testing.T, db *gorm.DB, userID uint, activityType string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.ActivityLog{}).
		Where("user_id = ? AND activity_type = ?", userID, activityType).
		Count(&count).Error)
	return count
}
