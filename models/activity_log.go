package models

import "time"

// Activity types recorded by the progression engine and quest/dungeon flows.
const (
	ActivityDungeon       = "dungeon"
	ActivityQuestStart    = "quest_start"
	ActivityQuestComplete = "quest_complete"
	ActivityLevelUp       = "level_up"
	ActivityRankUp        = "rank_up"
)

// ActivityLog is an append-only event record. The engine only ever writes
// it; reads are for the user's activity feed.
type ActivityLog struct {
	LogID            uint      `json:"log_id" gorm:"primaryKey;autoIncrement"`
	UserID           uint      `json:"user_id" gorm:"index;not null"`
	ActivityType     string    `json:"activity_type" gorm:"not null"`
	ActivityID       *uint     `json:"activity_id,omitempty"` // dungeon/quest id where applicable
	LogDate          time.Time `json:"log_date"`
	ExperienceChange int64     `json:"experience_change" gorm:"default:0"`
	Notes            string    `json:"notes"`
}
