package models

import "time"

// Stat names used by the seeder and by dungeon completion payloads.
const (
	StatStrength   = "strength"
	StatEndurance  = "endurance"
	StatAgility    = "agility"
	StatDiscipline = "discipline"
	StatRecovery   = "recovery"
)

// BaselineStatValue is each stat's starting value at registration.
const BaselineStatValue = 10

type Stat struct {
	StatID          uint   `json:"stat_id" gorm:"primaryKey;autoIncrement"`
	StatName        string `json:"stat_name" gorm:"uniqueIndex;not null"`
	StatDescription string `json:"stat_description"`
}

// UserStat is one user's accumulated value for one stat. Rows are created
// at registration (or lazily on first gain) and only ever added to.
type UserStat struct {
	UserStatID  uint      `json:"user_stat_id" gorm:"primaryKey;autoIncrement"`
	UserID      uint      `json:"user_id" gorm:"index:idx_user_stat,unique;not null"`
	StatID      uint      `json:"stat_id" gorm:"index:idx_user_stat,unique;not null"`
	StatValue   int       `json:"stat_value" gorm:"default:0"`
	LastUpdated time.Time `json:"last_updated"`

	Stat Stat `json:"stat,omitempty" gorm:"foreignKey:StatID"`
}
