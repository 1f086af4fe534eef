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

type DungeonService struct {
	DB          *gorm.DB
	Progression *ProgressionService
	Titles      *TitleService
}

func NewDungeonService(db *gorm.DB, progression *ProgressionService, titles *TitleService) *DungeonService {
	return &DungeonService{DB: db, Progression: progression, Titles: titles}
}

// AvailableDungeons lists active dungeons the user's rank and level unlock,
// restricted to dungeons whose availability window covers today.
func (s *DungeonService) AvailableDungeons(userID uint) ([]models.Dungeon, error) {
	var status models.HunterStatus
	err := s.DB.Preload("CurrentRank").Where("user_id = ?", userID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: hunter status for user %d", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hunter status: %w", err)
	}

	now := time.Now()
	var dungeons []models.Dungeon
	err = s.DB.Preload("Category").Preload("RequiredRank").
		Joins("JOIN hunter_ranks req ON req.rank_id = dungeons.required_rank_id").
		Where("req.rank_order <= ?", status.CurrentRank.RankOrder).
		Where("dungeons.required_level <= ?", status.CurrentLevel).
		Where("dungeons.is_active = ?", true).
		Where("(dungeons.start_date IS NULL OR dungeons.start_date <= ?)", now).
		Where("(dungeons.end_date IS NULL OR dungeons.end_date >= ?)", now).
		Order("dungeons.category_id ASC, dungeons.difficulty_level ASC").
		Find(&dungeons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load dungeons: %w", err)
	}
	return dungeons, nil
}

// DungeonDetails returns one dungeon with its exercises in order.
func (s *DungeonService) DungeonDetails(dungeonID uint) (*models.Dungeon, error) {
	var dungeon models.Dungeon
	err := s.DB.Preload("Category").Preload("RequiredRank").
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("exercise_order ASC")
		}).
		Preload("Exercises.Exercise").
		First(&dungeon, dungeonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: dungeon %d", ErrNotFound, dungeonID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dungeon: %w", err)
	}
	return &dungeon, nil
}

// CompletedDungeons returns the user's completion history, newest first.
func (s *DungeonService) CompletedDungeons(userID uint) ([]models.UserDungeonCompletion, error) {
	var completions []models.UserDungeonCompletion
	err := s.DB.Preload("Dungeon").Preload("Dungeon.Category").
		Where("user_id = ?", userID).
		Order("completion_date DESC").
		Find(&completions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}
	return completions, nil
}

// CompletionInput is the payload recorded when a dungeon is cleared.
type CompletionInput struct {
	ExperienceGained int64   `json:"experience_gained"`
	StrengthGained   int     `json:"strength_gained"`
	EnduranceGained  int     `json:"endurance_gained"`
	AgilityGained    int     `json:"agility_gained"`
	DisciplineGained int     `json:"discipline_gained"`
	RecoveryGained   int     `json:"recovery_gained"`
	CompletionTime   int     `json:"completion_time"` // seconds
	UserRating       *int    `json:"user_rating"`
	UserNotes        *string `json:"user_notes"`
}

// CompletionResult reports everything the completion chain did so the
// client can present level/rank feedback in one round trip.
type CompletionResult struct {
	CompletionID uint          `json:"completion_id"`
	LevelUp      LevelUpResult `json:"level_up"`
}

// CompleteDungeon records a clear and runs the reward chain — completion
// row, experience deposit, per-stat gains, level/rank evaluation, activity
// log — in a single transaction. Partial application is impossible.
func (s *DungeonService) CompleteDungeon(userID, dungeonID uint, input CompletionInput) (*CompletionResult, error) {
	if input.ExperienceGained < 0 {
		return nil, fmt.Errorf("%w: negative experience gain", ErrInvalidArgument)
	}

	var result CompletionResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var dungeon models.Dungeon
		if err := tx.First(&dungeon, dungeonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: dungeon %d", ErrNotFound, dungeonID)
			}
			return fmt.Errorf("failed to load dungeon: %w", err)
		}

		completion := models.UserDungeonCompletion{
			UserID:           userID,
			DungeonID:        dungeonID,
			CompletionDate:   time.Now(),
			ExperienceGained: input.ExperienceGained,
			StrengthGained:   input.StrengthGained,
			EnduranceGained:  input.EnduranceGained,
			AgilityGained:    input.AgilityGained,
			DisciplineGained: input.DisciplineGained,
			RecoveryGained:   input.RecoveryGained,
			CompletionTime:   input.CompletionTime,
			UserRating:       input.UserRating,
			UserNotes:        input.UserNotes,
		}
		if err := tx.Create(&completion).Error; err != nil {
			return fmt.Errorf("failed to record completion: %w", err)
		}
		result.CompletionID = completion.CompletionID

		if err := s.Progression.ApplyExperience(tx, userID, input.ExperienceGained); err != nil {
			return err
		}

		statGains := map[string]int{
			models.StatStrength:   input.StrengthGained,
			models.StatEndurance:  input.EnduranceGained,
			models.StatAgility:    input.AgilityGained,
			models.StatDiscipline: input.DisciplineGained,
			models.StatRecovery:   input.RecoveryGained,
		}
		var stats []models.Stat
		if err := tx.Find(&stats).Error; err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		for _, stat := range stats {
			gain, ok := statGains[stat.StatName]
			if !ok || gain <= 0 {
				continue
			}
			if _, err := s.Progression.ApplyStatGain(tx, userID, stat.StatID, gain); err != nil {
				return err
			}
		}

		levelUp, err := s.Progression.EvaluateLevelUp(tx, userID)
		if err != nil {
			return err
		}
		result.LevelUp = levelUp

		id := dungeonID
		return s.Progression.logActivity(tx, userID, models.ActivityDungeon, &id, input.ExperienceGained,
			fmt.Sprintf("Completed dungeon: %s", dungeon.DungeonName))
	})
	if err != nil {
		return nil, err
	}

	if s.Titles != nil {
		// titles are best-effort and never block a completion
		if err := s.Titles.AutoAwardTitles(userID); err != nil {
			log.Printf("failed to auto-award titles for user %d: %v", userID, err)
		}
	}
	return &result, nil
}

// CreateDungeon inserts a new dungeon with a URL slug derived from its name.
func (s *DungeonService) CreateDungeon(dungeon *models.Dungeon) error {
	if dungeon.DungeonName == "" {
		return fmt.Errorf("%w: dungeon name is required", ErrInvalidArgument)
	}
	if dungeon.Slug == "" {
		dungeon.Slug = slug.Make(dungeon.DungeonName)
	}
	if err := s.DB.Create(dungeon).Error; err != nil {
		return fmt.Errorf("failed to create dungeon: %w", err)
	}
	return nil
}
