package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/stavg2005/SoloLevelingApp/models"

	"gorm.io/gorm"
)

// InitialExperienceToNextLevel is the threshold a fresh level-1 hunter
// starts with. Subsequent thresholds come from experienceToNextLevel.
const InitialExperienceToNextLevel = 100

// experienceToNextLevel returns the level-experience threshold for a
// hunter at the given level: 100 + level * 100.
func experienceToNextLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(100 + level*100)
}

// ProgressionService is the leveling engine: experience deposits, stat
// gains, level/rank evaluation and quest objective tracking. Every method
// takes the enclosing transaction handle so a triggering event (dungeon
// cleared, quest progressed) runs the whole chain as one unit of work —
// a failure anywhere rolls back everything.
type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// ApplyExperience adds a non-negative gain to both total_experience and
// level_experience. A user without a hunter status row is an inconsistent
// account; that surfaces as ErrNotFound and rolls back the transaction.
func (s *ProgressionService) ApplyExperience(tx *gorm.DB, userID uint, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative experience gain %d", ErrInvalidArgument, amount)
	}
	res := tx.Model(&models.HunterStatus{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_experience": gorm.Expr("total_experience + ?", amount),
			"level_experience": gorm.Expr("level_experience + ?", amount),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to apply experience: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: hunter status for user %d", ErrNotFound, userID)
	}
	return nil
}

// StatOutcome tags whether a stat gain created the row or added to it.
type StatOutcome string

const (
	StatCreated StatOutcome = "created"
	StatUpdated StatOutcome = "updated"
)

type StatChange struct {
	Outcome StatOutcome `json:"outcome"`
	StatID  uint        `json:"stat_id"`
	Value   int         `json:"value"` // value after the gain
}

// ApplyStatGain adds a non-negative gain to the user's stat, creating the
// row on first contribution. Callers must invoke it at most once per
// reward event; repeated calls double-apply.
func (s *ProgressionService) ApplyStatGain(tx *gorm.DB, userID, statID uint, amount int) (StatChange, error) {
	if amount < 0 {
		return StatChange{}, fmt.Errorf("%w: negative stat gain %d", ErrInvalidArgument, amount)
	}

	var us models.UserStat
	err := tx.Where("user_id = ? AND stat_id = ?", userID, statID).First(&us).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		us = models.UserStat{
			UserID:      userID,
			StatID:      statID,
			StatValue:   amount,
			LastUpdated: time.Now(),
		}
		if err := tx.Create(&us).Error; err != nil {
			return StatChange{}, fmt.Errorf("failed to create user stat: %w", err)
		}
		return StatChange{Outcome: StatCreated, StatID: statID, Value: us.StatValue}, nil
	}
	if err != nil {
		return StatChange{}, fmt.Errorf("failed to load user stat: %w", err)
	}

	us.StatValue += amount
	us.LastUpdated = time.Now()
	if err := tx.Model(&models.UserStat{}).
		Where("user_stat_id = ?", us.UserStatID).
		Updates(map[string]interface{}{
			"stat_value":   us.StatValue,
			"last_updated": us.LastUpdated,
		}).Error; err != nil {
		return StatChange{}, fmt.Errorf("failed to update user stat: %w", err)
	}
	return StatChange{Outcome: StatUpdated, StatID: statID, Value: us.StatValue}, nil
}

// LevelUpResult reports what a level evaluation did.
type LevelUpResult struct {
	LevelsGained          int   `json:"levels_gained"`
	NewLevel              int   `json:"new_level"`
	LevelExperience       int64 `json:"level_experience"`
	ExperienceToNextLevel int64 `json:"experience_to_next_level"`
	RankUp                *RankUpResult
}

// EvaluateLevelUp runs the level loop to fixpoint: while accrued
// level-experience covers the current threshold, advance a level, carry
// the remainder forward, and recompute the threshold from the new level.
// A single large gain may cross several thresholds. When at least one
// level was gained the rank evaluator runs once afterwards.
func (s *ProgressionService) EvaluateLevelUp(tx *gorm.DB, userID uint) (LevelUpResult, error) {
	var status models.HunterStatus
	if err := tx.Where("user_id = ?", userID).First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LevelUpResult{}, fmt.Errorf("%w: hunter status for user %d", ErrNotFound, userID)
		}
		return LevelUpResult{}, fmt.Errorf("failed to load hunter status: %w", err)
	}

	gained := 0
	for status.LevelExperience >= status.ExperienceToNextLevel {
		status.LevelExperience -= status.ExperienceToNextLevel
		status.CurrentLevel++
		status.ExperienceToNextLevel = experienceToNextLevel(status.CurrentLevel)
		gained++

		if err := s.logActivity(tx, userID, models.ActivityLevelUp, nil, 0,
			fmt.Sprintf("Leveled up to %d", status.CurrentLevel)); err != nil {
			return LevelUpResult{}, err
		}
	}

	result := LevelUpResult{
		LevelsGained:          gained,
		NewLevel:              status.CurrentLevel,
		LevelExperience:       status.LevelExperience,
		ExperienceToNextLevel: status.ExperienceToNextLevel,
	}

	if gained == 0 {
		return result, nil
	}

	now := time.Now()
	status.LastLevelUpAt = &now
	if err := tx.Model(&models.HunterStatus{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"current_level":            status.CurrentLevel,
			"level_experience":         status.LevelExperience,
			"experience_to_next_level": status.ExperienceToNextLevel,
			"last_level_up_at":         status.LastLevelUpAt,
		}).Error; err != nil {
		return LevelUpResult{}, fmt.Errorf("failed to persist level up: %w", err)
	}

	rankUp, err := s.EvaluateRankUp(tx, userID)
	if err != nil {
		return LevelUpResult{}, err
	}
	result.RankUp = &rankUp
	return result, nil
}

// RankUpResult reports what a rank evaluation did.
type RankUpResult struct {
	Promoted bool               `json:"promoted"`
	NewRank  *models.HunterRank `json:"new_rank,omitempty"`
}

// EvaluateRankUp promotes the user while a rank with the next-higher
// rank_order exists and the current level meets its threshold. Looping
// (rather than a single step) keeps a large level jump from stranding a
// hunter below the rank their level already earns.
func (s *ProgressionService) EvaluateRankUp(tx *gorm.DB, userID uint) (RankUpResult, error) {
	var status models.HunterStatus
	if err := tx.Where("user_id = ?", userID).First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RankUpResult{}, fmt.Errorf("%w: hunter status for user %d", ErrNotFound, userID)
		}
		return RankUpResult{}, fmt.Errorf("failed to load hunter status: %w", err)
	}

	var current models.HunterRank
	if err := tx.First(&current, status.CurrentRankID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RankUpResult{}, fmt.Errorf("%w: hunter rank %d", ErrNotFound, status.CurrentRankID)
		}
		return RankUpResult{}, fmt.Errorf("failed to load hunter rank: %w", err)
	}

	result := RankUpResult{}
	for {
		var next models.HunterRank
		err := tx.Where("rank_order = ?", current.RankOrder+1).First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break // already at the top of the ladder
		}
		if err != nil {
			return RankUpResult{}, fmt.Errorf("failed to load next rank: %w", err)
		}
		// required_experience is a level threshold despite the name
		if status.CurrentLevel < next.RequiredExperience {
			break
		}

		now := time.Now()
		if err := tx.Model(&models.HunterStatus{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"current_rank_id": next.RankID,
				"last_rank_up_at": &now,
			}).Error; err != nil {
			return RankUpResult{}, fmt.Errorf("failed to persist rank up: %w", err)
		}
		if err := s.logActivity(tx, userID, models.ActivityRankUp, nil, 0,
			fmt.Sprintf("Ranked up to %s", next.RankName)); err != nil {
			return RankUpResult{}, err
		}

		result.Promoted = true
		rank := next
		result.NewRank = &rank
		current = next
	}
	return result, nil
}

// QuestProgressResult is the tracker's return contract. Success=false
// carries a user-facing rejection (not owned, not active, unknown
// objective) with no side effects.
type QuestProgressResult struct {
	Success            bool   `json:"success"`
	Message            string `json:"message,omitempty"`
	Progress           int    `json:"progress"`
	ObjectiveCompleted bool   `json:"objective_completed"`
	QuestCompleted     bool   `json:"quest_completed"`
}

// AdvanceObjective applies a non-negative delta to one quest objective,
// clamped to the objective's required amount. When the last objective
// completes, the quest is marked completed and its rewards (experience,
// stat, level/rank evaluation) are distributed inside the same
// transaction — a failure at any step rolls back the whole chain.
func (s *ProgressionService) AdvanceObjective(tx *gorm.DB, userID, userQuestID, objectiveID uint, delta int) (QuestProgressResult, error) {
	if delta < 0 {
		return QuestProgressResult{}, fmt.Errorf("%w: negative progress delta %d", ErrInvalidArgument, delta)
	}

	var uq models.UserQuest
	err := tx.Where("user_quest_id = ? AND user_id = ? AND is_active = ? AND is_completed = ?",
		userQuestID, userID, true, false).First(&uq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return QuestProgressResult{Success: false, Message: "quest not found or not active"}, nil
	}
	if err != nil {
		return QuestProgressResult{}, fmt.Errorf("failed to load user quest: %w", err)
	}

	var uqo models.UserQuestObjective
	err = tx.Where("user_quest_id = ? AND objective_id = ?", userQuestID, objectiveID).First(&uqo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return QuestProgressResult{Success: false, Message: "objective not found"}, nil
	}
	if err != nil {
		return QuestProgressResult{}, fmt.Errorf("failed to load user quest objective: %w", err)
	}

	var objective models.QuestObjective
	if err := tx.First(&objective, uqo.ObjectiveID).Error; err != nil {
		return QuestProgressResult{}, fmt.Errorf("%w: quest objective %d", ErrNotFound, uqo.ObjectiveID)
	}

	newProgress := uqo.CurrentProgress + delta
	if newProgress > objective.RequiredAmount {
		newProgress = objective.RequiredAmount
	}
	objectiveCompleted := newProgress >= objective.RequiredAmount

	if err := tx.Model(&models.UserQuestObjective{}).
		Where("user_objective_id = ?", uqo.UserObjectiveID).
		Updates(map[string]interface{}{
			"current_progress": newProgress,
			"is_completed":     objectiveCompleted,
			"last_updated":     time.Now(),
		}).Error; err != nil {
		return QuestProgressResult{}, fmt.Errorf("failed to update objective progress: %w", err)
	}

	result := QuestProgressResult{
		Success:            true,
		Progress:           newProgress,
		ObjectiveCompleted: objectiveCompleted,
	}

	var remaining int64
	if err := tx.Model(&models.UserQuestObjective{}).
		Where("user_quest_id = ? AND is_completed = ?", userQuestID, false).
		Count(&remaining).Error; err != nil {
		return QuestProgressResult{}, fmt.Errorf("failed to count remaining objectives: %w", err)
	}
	if remaining > 0 {
		return result, nil
	}

	if err := s.completeQuest(tx, userID, &uq); err != nil {
		return QuestProgressResult{}, err
	}
	result.QuestCompleted = true
	return result, nil
}

// completeQuest marks the quest completed and distributes its rewards.
func (s *ProgressionService) completeQuest(tx *gorm.DB, userID uint, uq *models.UserQuest) error {
	now := time.Now()
	if err := tx.Model(&models.UserQuest{}).
		Where("user_quest_id = ?", uq.UserQuestID).
		Updates(map[string]interface{}{
			"is_completed":    true,
			"completion_date": &now,
		}).Error; err != nil {
		return fmt.Errorf("failed to complete quest: %w", err)
	}

	var quest models.Quest
	if err := tx.First(&quest, uq.QuestID).Error; err != nil {
		return fmt.Errorf("%w: quest %d", ErrNotFound, uq.QuestID)
	}

	if quest.ExperienceReward > 0 {
		if err := s.ApplyExperience(tx, userID, quest.ExperienceReward); err != nil {
			return err
		}
	}
	if quest.StatRewardType != nil && quest.StatRewardAmount > 0 {
		if _, err := s.ApplyStatGain(tx, userID, *quest.StatRewardType, quest.StatRewardAmount); err != nil {
			return err
		}
	}
	if _, err := s.EvaluateLevelUp(tx, userID); err != nil {
		return err
	}

	questID := quest.QuestID
	return s.logActivity(tx, userID, models.ActivityQuestComplete, &questID, quest.ExperienceReward,
		fmt.Sprintf("Completed quest: %s", quest.QuestName))
}

// logActivity appends one event to the activity log.
func (s *ProgressionService) logActivity(tx *gorm.DB, userID uint, activityType string, activityID *uint, expChange int64, notes string) error {
	entry := models.ActivityLog{
		UserID:           userID,
		ActivityType:     activityType,
		ActivityID:       activityID,
		LogDate:          time.Now(),
		ExperienceChange: expChange,
		Notes:            notes,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

// RecentActivity returns the user's latest activity log entries.
func (s *ProgressionService) RecentActivity(userID uint, limit int) ([]models.ActivityLog, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var logs []models.ActivityLog
	err := s.DB.Where("user_id = ?", userID).
		Order("log_date DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
