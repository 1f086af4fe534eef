package models

import "time"

type QuestCategory struct {
	CategoryID   uint   `json:"category_id" gorm:"primaryKey;autoIncrement"`
	CategoryName string `json:"category_name" gorm:"uniqueIndex;not null"`
	Description  string `json:"description"`
}

// Quest is a multi-objective task. Completing every objective awards the
// experience reward plus an optional stat reward.
type Quest struct {
	QuestID          uint   `json:"quest_id" gorm:"primaryKey;autoIncrement"`
	QuestName        string `json:"quest_name" gorm:"not null"`
	Slug             string `json:"slug" gorm:"uniqueIndex;not null"`
	QuestDescription string `json:"quest_description"`
	CategoryID       uint   `json:"category_id" gorm:"index;not null"`
	DifficultyLevel  int    `json:"difficulty_level" gorm:"default:1"`
	RequiredRankID   *uint  `json:"required_rank_id,omitempty"` // nil = open to all ranks

	ExperienceReward int64 `json:"experience_reward" gorm:"default:0"`
	StatRewardType   *uint `json:"stat_reward_type,omitempty"` // stat_id, nil = no stat reward
	StatRewardAmount int   `json:"stat_reward_amount" gorm:"default:0"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`

	Category   QuestCategory    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Objectives []QuestObjective `json:"objectives,omitempty" gorm:"foreignKey:QuestID"`

	Timestamps
}

type QuestObjective struct {
	ObjectiveID          uint   `json:"objective_id" gorm:"primaryKey;autoIncrement"`
	QuestID              uint   `json:"quest_id" gorm:"index;not null"`
	ObjectiveDescription string `json:"objective_description"`
	ObjectiveType        string `json:"objective_type"`
	RequiredAmount       int    `json:"required_amount" gorm:"not null"`
}

// UserQuest is a user's instance of a started quest. Rows persist as
// history and are never deleted; IsActive is cleared when the quest's
// window closes without completion.
type UserQuest struct {
	UserQuestID    uint       `json:"user_quest_id" gorm:"primaryKey;autoIncrement"`
	UserID         uint       `json:"user_id" gorm:"index;not null"`
	QuestID        uint       `json:"quest_id" gorm:"index;not null"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	IsCompleted    bool       `json:"is_completed" gorm:"default:false"`
	StartDate      time.Time  `json:"start_date"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`

	Quest      Quest                `json:"quest,omitempty" gorm:"foreignKey:QuestID"`
	Objectives []UserQuestObjective `json:"objectives,omitempty" gorm:"foreignKey:UserQuestID"`
}

// UserQuestObjective tracks progress toward one objective. CurrentProgress
// is clamped to [0, required_amount]; IsCompleted is terminal.
type UserQuestObjective struct {
	UserObjectiveID uint      `json:"user_objective_id" gorm:"primaryKey;autoIncrement"`
	UserQuestID     uint      `json:"user_quest_id" gorm:"index:idx_uq_objective,unique;not null"`
	ObjectiveID     uint      `json:"objective_id" gorm:"index:idx_uq_objective,unique;not null"`
	CurrentProgress int       `json:"current_progress" gorm:"default:0"`
	IsCompleted     bool      `json:"is_completed" gorm:"default:false"`
	LastUpdated     time.Time `json:"last_updated"`

	Objective QuestObjective `json:"objective,omitempty" gorm:"foreignKey:ObjectiveID"`
}
