package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the account row. The password hash never leaves the server.
type User struct {
	UserID       uint       `json:"user_id" gorm:"primaryKey;autoIncrement"`
	Username     string     `json:"username" gorm:"uniqueIndex;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	DisplayName  *string    `json:"display_name,omitempty"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
	DateCreated  time.Time  `json:"date_created" gorm:"autoCreateTime"`
	LastLogin    *time.Time `json:"last_login,omitempty"`

	// Relationships (one row each, created at registration)
	Profile  *UserProfile  `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	Settings *UserSettings `json:"settings,omitempty" gorm:"foreignKey:UserID"`
	Status   *HunterStatus `json:"hunter_status,omitempty" gorm:"foreignKey:UserID"`
}

// UserProfile holds the fitness-side attributes of an account.
type UserProfile struct {
	ProfileID                uint     `json:"profile_id" gorm:"primaryKey;autoIncrement"`
	UserID                   uint     `json:"user_id" gorm:"uniqueIndex;not null"`
	Height                   *float64 `json:"height,omitempty"`
	Weight                   *float64 `json:"weight,omitempty"`
	FitnessLevel             *string  `json:"fitness_level,omitempty"`
	FitnessGoals             *string  `json:"fitness_goals,omitempty"`
	EquipmentAvailable       *string  `json:"equipment_available,omitempty"`
	PreferredWorkoutTime     *string  `json:"preferred_workout_time,omitempty"`
	PreferredWorkoutDuration *int     `json:"preferred_workout_duration,omitempty"`

	Timestamps
}

type UserSettings struct {
	SettingsID           uint   `json:"settings_id" gorm:"primaryKey;autoIncrement"`
	UserID               uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	NotificationsEnabled bool   `json:"notifications_enabled" gorm:"default:true"`
	Theme                string `json:"theme" gorm:"default:'system'"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
