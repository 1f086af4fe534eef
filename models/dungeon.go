package models

import "time"

type DungeonCategory struct {
	CategoryID   uint   `json:"category_id" gorm:"primaryKey;autoIncrement"`
	CategoryName string `json:"category_name" gorm:"uniqueIndex;not null"`
	Description  string `json:"description"`
}

// Dungeon is a completable workout challenge. Access is gated by the
// hunter's rank and level; rewards are distributed on completion.
type Dungeon struct {
	DungeonID       uint   `json:"dungeon_id" gorm:"primaryKey;autoIncrement"`
	DungeonName     string `json:"dungeon_name" gorm:"not null"`
	Slug            string `json:"slug" gorm:"uniqueIndex;not null"`
	Description     string `json:"description"`
	CategoryID      uint   `json:"category_id" gorm:"index;not null"`
	DifficultyLevel int    `json:"difficulty_level" gorm:"default:1"`
	RequiredRankID  uint   `json:"required_rank_id" gorm:"not null"`
	RequiredLevel   int    `json:"required_level" gorm:"default:1"`

	// Rewards
	ExperienceReward int64 `json:"experience_reward" gorm:"default:0"`

	// Availability window (nil end = open-ended)
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`

	Category     DungeonCategory   `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	RequiredRank HunterRank        `json:"required_rank,omitempty" gorm:"foreignKey:RequiredRankID"`
	Exercises    []DungeonExercise `json:"exercises,omitempty" gorm:"foreignKey:DungeonID"`

	Timestamps
}

type Exercise struct {
	ExerciseID           uint    `json:"exercise_id" gorm:"primaryKey;autoIncrement"`
	ExerciseName         string  `json:"exercise_name" gorm:"not null"`
	ExerciseDescription  string  `json:"exercise_description"`
	DifficultyLevel      int     `json:"difficulty_level" gorm:"default:1"`
	EquipmentRequired    *string `json:"equipment_required,omitempty"`
	PrimaryMuscleGroup   string  `json:"primary_muscle_group"`
	SecondaryMuscleGroup *string `json:"secondary_muscle_groups,omitempty"`
	DemonstrationURL     *string `json:"demonstration_url,omitempty"`
	Instructions         string  `json:"instructions"`
}

// DungeonExercise orders exercises inside a dungeon with per-dungeon
// volume (sets/reps/duration).
type DungeonExercise struct {
	DungeonExerciseID uint `json:"dungeon_exercise_id" gorm:"primaryKey;autoIncrement"`
	DungeonID         uint `json:"dungeon_id" gorm:"index;not null"`
	ExerciseID        uint `json:"exercise_id" gorm:"not null"`
	ExerciseOrder     int  `json:"exercise_order" gorm:"default:0"`
	Sets              int  `json:"sets" gorm:"default:1"`
	Reps              int  `json:"reps" gorm:"default:0"`
	DurationSeconds   int  `json:"duration_seconds" gorm:"default:0"`

	Exercise Exercise `json:"exercise,omitempty" gorm:"foreignKey:ExerciseID"`
}

// UserDungeonCompletion is a history row, never deleted.
type UserDungeonCompletion struct {
	CompletionID     uint      `json:"completion_id" gorm:"primaryKey;autoIncrement"`
	UserID           uint      `json:"user_id" gorm:"index;not null"`
	DungeonID        uint      `json:"dungeon_id" gorm:"index;not null"`
	CompletionDate   time.Time `json:"completion_date"`
	ExperienceGained int64     `json:"experience_gained"`
	StrengthGained   int       `json:"strength_gained" gorm:"default:0"`
	EnduranceGained  int       `json:"endurance_gained" gorm:"default:0"`
	AgilityGained    int       `json:"agility_gained" gorm:"default:0"`
	DisciplineGained int       `json:"discipline_gained" gorm:"default:0"`
	RecoveryGained   int       `json:"recovery_gained" gorm:"default:0"`
	CompletionTime   int       `json:"completion_time"` // seconds
	UserRating       *int      `json:"user_rating,omitempty"`
	UserNotes        *string   `json:"user_notes,omitempty"`

	Dungeon Dungeon `json:"dungeon,omitempty" gorm:"foreignKey:DungeonID"`
}
