package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stavg2005/SoloLevelingApp/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// defaultRanks is the promotion ladder seeded at startup.
// RequiredExperience is the level threshold for promotion into the rank.
var defaultRanks = []models.HunterRank{
	{RankName: "E", RankOrder: 1, RequiredExperience: 1, RankDescription: "The weakest of hunters"},
	{RankName: "D", RankOrder: 2, RequiredExperience: 10, RankDescription: "A hunter of modest ability"},
	{RankName: "C", RankOrder: 3, RequiredExperience: 20, RankDescription: "A capable mid-tier hunter"},
	{RankName: "B", RankOrder: 4, RequiredExperience: 30, RankDescription: "A strong, reliable hunter"},
	{RankName: "A", RankOrder: 5, RequiredExperience: 40, RankDescription: "An elite hunter"},
	{RankName: "S", RankOrder: 6, RequiredExperience: 50, RankDescription: "A nation-level hunter"},
}

var defaultStats = []models.Stat{
	{StatName: models.StatStrength, StatDescription: "Raw physical power"},
	{StatName: models.StatEndurance, StatDescription: "Stamina and cardiovascular capacity"},
	{StatName: models.StatAgility, StatDescription: "Speed, balance and coordination"},
	{StatName: models.StatDiscipline, StatDescription: "Consistency and training adherence"},
	{StatName: models.StatRecovery, StatDescription: "Rest quality and recuperation"},
}

// EnsureCoreData seeds ranks, stats and title types (idempotent).
func (s *UserService) EnsureCoreData() error {
	for _, rank := range defaultRanks {
		r := rank
		if err := s.DB.Where("rank_order = ?", r.RankOrder).FirstOrCreate(&r).Error; err != nil {
			return fmt.Errorf("failed to seed rank %s: %w", rank.RankName, err)
		}
	}
	for _, stat := range defaultStats {
		st := stat
		if err := s.DB.Where("stat_name = ?", st.StatName).FirstOrCreate(&st).Error; err != nil {
			return fmt.Errorf("failed to seed stat %s: %w", stat.StatName, err)
		}
	}
	for _, title := range models.TitleTriggers {
		t := title
		if err := s.DB.Where("code = ?", t.Code).FirstOrCreate(&t).Error; err != nil {
			return fmt.Errorf("failed to seed title %s: %w", title.Code, err)
		}
	}
	return nil
}

// Register creates the account plus every row a hunter needs: profile,
// settings, E-rank hunter status, and baseline stats — all in one
// transaction so a half-created account is impossible.
func (s *UserService) Register(username, email, password string) (uint, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || password == "" {
		return 0, fmt.Errorf("%w: username, email and password are required", ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	var userID uint
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", username, email).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing users: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: username or email already registered", ErrConflict)
		}

		user := models.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		userID = user.UserID

		if err := tx.Create(&models.UserProfile{UserID: userID}).Error; err != nil {
			return fmt.Errorf("failed to create user profile: %w", err)
		}
		if err := tx.Create(&models.UserSettings{UserID: userID}).Error; err != nil {
			return fmt.Errorf("failed to create user settings: %w", err)
		}

		var eRank models.HunterRank
		if err := tx.Where("rank_order = ?", 1).First(&eRank).Error; err != nil {
			return fmt.Errorf("%w: starting rank missing from hunter_ranks", ErrNotFound)
		}
		status := models.HunterStatus{
			UserID:                userID,
			CurrentRankID:         eRank.RankID,
			CurrentLevel:          1,
			TotalExperience:       0,
			LevelExperience:       0,
			ExperienceToNextLevel: InitialExperienceToNextLevel,
		}
		if err := tx.Create(&status).Error; err != nil {
			return fmt.Errorf("failed to create hunter status: %w", err)
		}

		var stats []models.Stat
		if err := tx.Find(&stats).Error; err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		for _, stat := range stats {
			us := models.UserStat{
				UserID:      userID,
				StatID:      stat.StatID,
				StatValue:   models.BaselineStatValue,
				LastUpdated: time.Now(),
			}
			if err := tx.Create(&us).Error; err != nil {
				return fmt.Errorf("failed to seed stat %s: %w", stat.StatName, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Login validates credentials and stamps last_login.
func (s *UserService) Login(username, password string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.DB.Model(&models.User{}).
		Where("user_id = ?", user.UserID).
		Update("last_login", &now).Error; err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now
	return &user, nil
}

func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// GetHunterStatus returns the user's progression with the rank resolved.
func (s *UserService) GetHunterStatus(userID uint) (*models.HunterStatus, error) {
	var status models.HunterStatus
	err := s.DB.Preload("CurrentRank").Where("user_id = ?", userID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: hunter status for user %d", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hunter status: %w", err)
	}
	return &status, nil
}

func (s *UserService) GetUserStats(userID uint) ([]models.UserStat, error) {
	var stats []models.UserStat
	err := s.DB.Preload("Stat").
		Where("user_id = ?", userID).
		Order("stat_id ASC").
		Find(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	return stats, nil
}

func (s *UserService) GetProfile(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: profile for user %d", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// ProfileUpdate carries the editable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Height                   *float64 `json:"height"`
	Weight                   *float64 `json:"weight"`
	FitnessLevel             *string  `json:"fitness_level"`
	FitnessGoals             *string  `json:"fitness_goals"`
	EquipmentAvailable       *string  `json:"equipment_available"`
	PreferredWorkoutTime     *string  `json:"preferred_workout_time"`
	PreferredWorkoutDuration *int     `json:"preferred_workout_duration"`
}

func (s *UserService) UpdateProfile(userID uint, upd ProfileUpdate) error {
	fields := map[string]interface{}{}
	if upd.Height != nil {
		fields["height"] = *upd.Height
	}
	if upd.Weight != nil {
		fields["weight"] = *upd.Weight
	}
	if upd.FitnessLevel != nil {
		fields["fitness_level"] = *upd.FitnessLevel
	}
	if upd.FitnessGoals != nil {
		fields["fitness_goals"] = *upd.FitnessGoals
	}
	if upd.EquipmentAvailable != nil {
		fields["equipment_available"] = *upd.EquipmentAvailable
	}
	if upd.PreferredWorkoutTime != nil {
		fields["preferred_workout_time"] = *upd.PreferredWorkoutTime
	}
	if upd.PreferredWorkoutDuration != nil {
		fields["preferred_workout_duration"] = *upd.PreferredWorkoutDuration
	}
	if len(fields) == 0 {
		return nil
	}

	res := s.DB.Model(&models.UserProfile{}).Where("user_id = ?", userID).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: profile for user %d", ErrNotFound, userID)
	}
	return nil
}

// AccountUpdate carries the editable account fields.
type AccountUpdate struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

func (s *UserService) UpdateAccount(userID uint, upd AccountUpdate) error {
	fields := map[string]interface{}{}
	if upd.DisplayName != nil {
		fields["display_name"] = *upd.DisplayName
	}
	if upd.AvatarURL != nil {
		fields["avatar_url"] = *upd.AvatarURL
	}
	if len(fields) == 0 {
		return nil
	}

	res := s.DB.Model(&models.User{}).Where("user_id = ?", userID).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return nil
}

// ChangePassword verifies the current password before hashing the new one.
func (s *UserService) ChangePassword(userID uint, current, next string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if len(next) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("password_hash", string(hash)).Error
}
