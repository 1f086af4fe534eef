package services

import (
	"testing"
	"time"

	"github.com/stavg2005/SoloLevelingApp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDungeonService(db *gorm.DB) *DungeonService {
	progression := NewProgressionService(db)
	return NewDungeonService(db, progression, NewTitleService(db))
}

func createTestDungeon(t *testing.T, db *gorm.DB, name string, requiredRankOrder, requiredLevel int) *models.Dungeon {
	t.Helper()

	category := models.DungeonCategory{CategoryName: "cardio"}
	require.NoError(t, db.Where("category_name = ?", category.CategoryName).FirstOrCreate(&category).Error)

	var rank models.HunterRank
	require.NoError(t, db.Where("rank_order = ?", requiredRankOrder).First(&rank).Error)

	dungeon := models.Dungeon{
		DungeonName:    name,
		CategoryID:     category.CategoryID,
		RequiredRankID: rank.RankID,
		RequiredLevel:  requiredLevel,
		IsActive:       true,
	}
	require.NoError(t, newDungeonService(db).CreateDungeon(&dungeon))
	return &dungeon
}

func TestCreateDungeon_Slug(t *testing.T) {
	db := newTestDB(t)
	dungeon := createTestDungeon(t, db, "Ice Elves' Cavern", 1, 1)
	assert.Equal(t, "ice-elves-cavern", dungeon.Slug)
}

func TestAvailableDungeons_GatedByRankAndLevel(t *testing.T) {
	db := newTestDB(t)
	svc := newDungeonService(db)
	userID := registerTestHunter(t, db, "jinwoo")

	open := createTestDungeon(t, db, "goblin den", 1, 1)
	createTestDungeon(t, db, "high orc fortress", 2, 1)  // D-rank only
	createTestDungeon(t, db, "demon castle", 1, 5)       // level 5 only

	dungeons, err := svc.AvailableDungeons(userID)
	require.NoError(t, err)
	require.Len(t, dungeons, 1)
	assert.Equal(t, open.DungeonID, dungeons[0].DungeonID)
}

func TestAvailableDungeons_WindowExcludesClosed(t *testing.T) {
	db := newTestDB(t)
	svc := newDungeonService(db)
	userID := registerTestHunter(t, db, "jinwoo")

	expired := createTestDungeon(t, db, "expired gate", 1, 1)
	past := time.Now().Add(-24 * time.Hour)
	require.NoError(t, db.Model(&models.Dungeon{}).
		Where("dungeon_id = ?", expired.DungeonID).
		Update("end_date", &past).Error)

	dungeons, err := svc.AvailableDungeons(userID)
	require.NoError(t, err)
	assert.Empty(t, dungeons)
}

func TestDungeonDetails_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newDungeonService(db)

	_, err := svc.DungeonDetails(9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteDungeon_RunsFullRewardChain(t *testing.T) {
	db := newTestDB(t)
	svc := newDungeonService(db)
	userID := registerTestHunter(t, db, "jinwoo")
	dungeon := createTestDungeon(t, db, "goblin den", 1, 1)

	result, err := svc.CompleteDungeon(userID, dungeon.DungeonID, CompletionInput{
		ExperienceGained: 250,
		StrengthGained:   3,
		EnduranceGained:  1,
		CompletionTime:   1800,
	})
	require.NoError(t, err)
	require.NotZero(t, result.CompletionID)

	// experience deposit crossed the first threshold
	assert.Equal(t, 2, result.LevelUp.NewLevel)
	assert.Equal(t, int64(150), result.LevelUp.LevelExperience)

	var status models.HunterStatus
	require.NoError(t, db.Where("user_id = ?", userID).First(&status).Error)
	assert.Equal(t, 2, status.CurrentLevel)
	assert.Equal(t, int64(250), status.TotalExperience)

	strength := statIDByName(t, db, models.StatStrength)
	var us models.UserStat
	require.NoError(t, db.Where("user_id = ? AND stat_id = ?", userID, strength).First(&us).Error)
	assert.Equal(t, models.BaselineStatValue+3, us.StatValue)

	endurance := statIDByName(t, db, models.StatEndurance)
	var enduranceStat models.UserStat
	require.NoError(t, db.Where("user_id = ? AND stat_id = ?", userID, endurance).First(&enduranceStat).Error)
	assert.Equal(t, models.BaselineStatValue+1, enduranceStat.StatValue)

	// untouched stat stays at baseline
	agility := statIDByName(t, db, models.StatAgility)
	var agilityStat models.UserStat
	require.NoError(t, db.Where("user_id = ? AND stat_id = ?", userID, agility).First(&agilityStat).Error)
	assert.Equal(t, models.BaselineStatValue, agilityStat.StatValue)

	assert.Equal(t, int64(1), countActivity(t, db, userID, models.ActivityDungeon))
	assert.Equal(t, int64(1), countActivity(t, db, userID, models.ActivityLevelUp))

	// first clear earns the milestone title
	var titles []models.UserTitle
	require.NoError(t, db.Preload("Title").Where("user_id = ?", userID).Find(&titles).Error)
	codes := make([]string, 0, len(titles))
	for _, ut := range titles {
		codes = append(codes, ut.Title.Code)
	}
	assert.Contains(t, codes, "FIRST_CLEAR")
}

func TestCompleteDungeon_UnknownDungeonRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newDungeonService(db)
	userID := registerTestHunter(t, db, "jinwoo")

	_, err := svc.CompleteDungeon(userID, 9999, CompletionInput{ExperienceGained: 100})
	require.ErrorIs(t, err, ErrNotFound)

	// nothing applied
	var status models.HunterStatus
	require.NoError(t, db.Where("user_id = ?", userID).First(&status).Error)
	assert.Equal(t, int64(0), status.TotalExperience)

	var completions int64
	require.NoError(t, db.Model(&models.UserDungeonCompletion{}).
		Where("user_id = ?", userID).Count(&completions).Error)
	assert.Equal(t, int64(0), completions)
}

func TestCompleteDungeon_MissingStatusRollsBackCompletionRow(t *testing.T) {
	db := newTestDB(t)
	svc := newDungeonService(db)
	dungeon := createTestDungeon(t, db, "goblin den", 1, 1)

	// user without hunter status: the whole chain must roll back,
	// including the already-inserted completion row
	_, err := svc.CompleteDungeon(9999, dungeon.DungeonID, CompletionInput{ExperienceGained: 100})
	require.ErrorIs(t, err, ErrNotFound)

	var completions int64
	require.NoError(t, db.Model(&models.UserDungeonCompletion{}).Count(&completions).Error)
	assert.Equal(t, int64(0), completions)
}
