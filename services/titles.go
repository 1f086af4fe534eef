package services

import (
	"fmt"
	"log"

	"github.com/stavg2005/SoloLevelingApp/models"

	"gorm.io/gorm"
)

type TitleService struct {
	DB *gorm.DB
}

func NewTitleService(db *gorm.DB) *TitleService {
	return &TitleService{DB: db}
}

// AutoAwardTitles checks every title trigger for a user after a
// progression update and awards whatever is newly earned.
func (s *TitleService) AutoAwardTitles(userID uint) error {
	var status models.HunterStatus
	if err := s.DB.Preload("CurrentRank").Where("user_id = ?", userID).First(&status).Error; err != nil {
		return fmt.Errorf("failed to load hunter status: %w", err)
	}

	var dungeonClears int64
	s.DB.Model(&models.UserDungeonCompletion{}).Where("user_id = ?", userID).Count(&dungeonClears)
	var questsCompleted int64
	s.DB.Model(&models.UserQuest{}).Where("user_id = ? AND is_completed = ?", userID, true).Count(&questsCompleted)

	var titles []models.TitleType
	if err := s.DB.Find(&titles).Error; err != nil {
		return fmt.Errorf("failed to load title types: %w", err)
	}

	for _, title := range titles {
		if !s.meetsTrigger(title.Code, &status, dungeonClears, questsCompleted) {
			continue
		}
		var count int64
		s.DB.Model(&models.UserTitle{}).
			Where("user_id = ? AND title_id = ?", userID, title.TitleID).
			Count(&count)
		if count > 0 {
			continue
		}
		award := models.UserTitle{UserID: userID, TitleID: title.TitleID}
		if err := s.DB.Create(&award).Error; err != nil {
			return fmt.Errorf("failed to award title %s: %w", title.Code, err)
		}
		log.Printf("Title awarded: %s -> user %d", title.Name, userID)
	}
	return nil
}

func (s *TitleService) meetsTrigger(code string, status *models.HunterStatus, dungeonClears, questsCompleted int64) bool {
	switch code {
	case "AWAKENED":
		return true
	case "FIRST_CLEAR":
		return dungeonClears >= 1
	case "QUEST_NOVICE":
		return questsCompleted >= 1
	case "LEVEL_10":
		return status.CurrentLevel >= 10
	case "LEVEL_25":
		return status.CurrentLevel >= 25
	case "RANK_C":
		return status.CurrentRank.RankOrder >= 3
	case "RANK_S":
		return status.CurrentRank.RankOrder >= 6
	default:
		return false
	}
}

// UserTitles returns the titles a user has earned, newest first.
func (s *TitleService) UserTitles(userID uint) ([]models.UserTitle, error) {
	var awarded []models.UserTitle
	err := s.DB.Preload("Title").
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&awarded).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user titles: %w", err)
	}
	return awarded, nil
}
