package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/stavg2005/SoloLevelingApp/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type QuestService struct {
	DB          *gorm.DB
	Progression *ProgressionService
	Titles      *TitleService
}

func NewQuestService(db *gorm.DB, progression *ProgressionService, titles *TitleService) *QuestService {
	return &QuestService{DB: db, Progression: progression, Titles: titles}
}

// AvailableQuests lists active quests the user's rank unlocks, objectives
// included, restricted to quests whose window covers today.
func (s *QuestService) AvailableQuests(userID uint) ([]models.Quest, error) {
	var status models.HunterStatus
	err := s.DB.Preload("CurrentRank").Where("user_id = ?", userID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: hunter status for user %d", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hunter status: %w", err)
	}

	now := time.Now()
	var quests []models.Quest
	err = s.DB.Preload("Category").Preload("Objectives").
		Joins("LEFT JOIN hunter_ranks req ON req.rank_id = quests.required_rank_id").
		Where("(quests.required_rank_id IS NULL OR req.rank_order <= ?)", status.CurrentRank.RankOrder).
		Where("quests.is_active = ?", true).
		Where("(quests.start_date IS NULL OR quests.start_date <= ?)", now).
		Where("(quests.end_date IS NULL OR quests.end_date >= ?)", now).
		Order("quests.category_id ASC, quests.difficulty_level ASC").
		Find(&quests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load quests: %w", err)
	}
	return quests, nil
}

// ActiveQuests returns the user's in-flight quests with per-objective progress.
func (s *QuestService) ActiveQuests(userID uint) ([]models.UserQuest, error) {
	var userQuests []models.UserQuest
	err := s.DB.Preload("Quest").Preload("Quest.Category").
		Preload("Objectives").Preload("Objectives.Objective").
		Where("user_id = ? AND is_active = ? AND is_completed = ?", userID, true, false).
		Order("start_date ASC").
		Find(&userQuests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active quests: %w", err)
	}
	return userQuests, nil
}

// StartQuestResult reports a start attempt. A quest the user already has
// active comes back as Success=false, not as an error.
type StartQuestResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	UserQuestID uint   `json:"user_quest_id,omitempty"`
}

// StartQuest instantiates a quest for the user: one UserQuest plus one
// progress row per objective, all in one transaction.
func (s *QuestService) StartQuest(userID, questID uint) (StartQuestResult, error) {
	var result StartQuestResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var quest models.Quest
		if err := tx.Preload("Objectives").First(&quest, questID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: quest %d", ErrNotFound, questID)
			}
			return fmt.Errorf("failed to load quest: %w", err)
		}

		var existing int64
		if err := tx.Model(&models.UserQuest{}).
			Where("user_id = ? AND quest_id = ? AND is_active = ?", userID, questID, true).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check active quests: %w", err)
		}
		if existing > 0 {
			result = StartQuestResult{Success: false, Message: "quest already active"}
			return nil
		}

		uq := models.UserQuest{
			UserID:    userID,
			QuestID:   questID,
			IsActive:  true,
			StartDate: time.Now(),
		}
		if err := tx.Create(&uq).Error; err != nil {
			return fmt.Errorf("failed to start quest: %w", err)
		}

		for _, objective := range quest.Objectives {
			uqo := models.UserQuestObjective{
				UserQuestID: uq.UserQuestID,
				ObjectiveID: objective.ObjectiveID,
				LastUpdated: time.Now(),
			}
			if err := tx.Create(&uqo).Error; err != nil {
				return fmt.Errorf("failed to create quest objective progress: %w", err)
			}
		}

		id := questID
		if err := s.Progression.logActivity(tx, userID, models.ActivityQuestStart, &id, 0,
			fmt.Sprintf("Started quest: %s", quest.QuestName)); err != nil {
			return err
		}

		result = StartQuestResult{Success: true, UserQuestID: uq.UserQuestID}
		return nil
	})
	if err != nil {
		return StartQuestResult{}, err
	}
	return result, nil
}

// UpdateProgress advances one objective inside a single transaction. The
// whole chain — clamp, objective completion, quest completion, reward
// distribution, level/rank evaluation — commits or rolls back together.
func (s *QuestService) UpdateProgress(userID, userQuestID, objectiveID uint, delta int) (QuestProgressResult, error) {
	var result QuestProgressResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.Progression.AdvanceObjective(tx, userID, userQuestID, objectiveID, delta)
		return err
	})
	if err != nil {
		return QuestProgressResult{}, err
	}

	if result.QuestCompleted && s.Titles != nil {
		if err := s.Titles.AutoAwardTitles(userID); err != nil {
			log.Printf("failed to auto-award titles for user %d: %v", userID, err)
		}
	}
	return result, nil
}

// CreateQuest inserts a quest plus objectives, slugging the name.
func (s *QuestService) CreateQuest(quest *models.Quest) error {
	if quest.QuestName == "" {
		return fmt.Errorf("%w: quest name is required", ErrInvalidArgument)
	}
	if quest.Slug == "" {
		quest.Slug = slug.Make(quest.QuestName)
	}
	if err := s.DB.Create(quest).Error; err != nil {
		return fmt.Errorf("failed to create quest: %w", err)
	}
	return nil
}
