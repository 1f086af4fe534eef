package models

import "time"

// HunterRank is one tier in the promotion ladder (E → S). RankOrder is
// strictly increasing and defines the total order; RequiredExperience is
// the *level* a hunter must reach to be promoted into this rank (the
// column name is historical).
type HunterRank struct {
	RankID             uint   `json:"rank_id" gorm:"primaryKey;autoIncrement"`
	RankName           string `json:"rank_name" gorm:"uniqueIndex;not null"`
	RankOrder          int    `json:"rank_order" gorm:"uniqueIndex;not null"`
	RequiredExperience int    `json:"required_experience" gorm:"not null"`
	RankDescription    string `json:"rank_description"`
}

// HunterStatus tracks a user's progression. TotalExperience only ever
// grows; LevelExperience is the slice accrued toward the current level
// and is decremented on level-up, carrying any remainder forward.
type HunterStatus struct {
	StatusID              uint  `json:"status_id" gorm:"primaryKey;autoIncrement"`
	UserID                uint  `json:"user_id" gorm:"uniqueIndex;not null"`
	CurrentRankID         uint  `json:"current_rank_id" gorm:"not null"`
	CurrentLevel          int   `json:"current_level" gorm:"default:1"`
	TotalExperience       int64 `json:"total_experience" gorm:"default:0"`
	LevelExperience       int64 `json:"level_experience" gorm:"default:0"`
	ExperienceToNextLevel int64 `json:"experience_to_next_level" gorm:"not null"`

	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`
	LastRankUpAt  *time.Time `json:"last_rank_up_at,omitempty"`

	CurrentRank HunterRank `json:"current_rank,omitempty" gorm:"foreignKey:CurrentRankID"`

	Timestamps
}
