package models

import "time"

// TitleType: static config for milestone titles (seeded at startup)
type TitleType struct {
	TitleID     uint   `json:"title_id" gorm:"primaryKey;autoIncrement"`
	Code        string `json:"code" gorm:"uniqueIndex;not null"` // e.g., "FIRST_CLEAR", "LEVEL_10"
	Name        string `json:"name" gorm:"not null"`             // "First Clear", "Double Digits"
	Description string `json:"description"`
	Rarity      string `json:"rarity" gorm:"type:varchar(16);default:'common'"` // common, rare, epic, legendary
}

// UserTitle: awarded instance
type UserTitle struct {
	UserTitleID uint      `json:"user_title_id" gorm:"primaryKey;autoIncrement"`
	UserID      uint      `json:"user_id" gorm:"index:idx_user_title,unique;not null"`
	TitleID     uint      `json:"title_id" gorm:"index:idx_user_title,unique;not null"`
	AwardedAt   time.Time `json:"awarded_at" gorm:"autoCreateTime"`

	Title TitleType `json:"title,omitempty" gorm:"foreignKey:TitleID"`
}

// Predefined title triggers, checked after every progression update.
var TitleTriggers = []TitleType{
	{Code: "AWAKENED", Name: "Awakened", Description: "Registered as a hunter", Rarity: "common"},
	{Code: "FIRST_CLEAR", Name: "First Clear", Description: "Cleared your first dungeon", Rarity: "common"},
	{Code: "QUEST_NOVICE", Name: "Quest Novice", Description: "Completed your first quest", Rarity: "common"},
	{Code: "LEVEL_10", Name: "Double Digits", Description: "Reached level 10", Rarity: "rare"},
	{Code: "LEVEL_25", Name: "Seasoned Hunter", Description: "Reached level 25", Rarity: "epic"},
	{Code: "RANK_C", Name: "Climbing the Ladder", Description: "Promoted to C-Rank", Rarity: "rare"},
	{Code: "RANK_S", Name: "Shadow Monarch", Description: "Promoted to S-Rank", Rarity: "legendary"},
}
