// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/stavg2005/SoloLevelingApp/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StartAvailabilityScheduler closes dungeons and quests whose windows have
// passed. Rows are flipped inactive, never deleted; user history stays.
func StartAvailabilityScheduler(db *gorm.DB) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()

			res := db.Model(&models.Dungeon{}).
				Where("is_active = ? AND end_date IS NOT NULL AND end_date < ?", true, now).
				Update("is_active", false)
			if res.Error != nil {
				log.Printf("[Scheduler] dungeon window sweep failed: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[Scheduler] closed %d expired dungeons", res.RowsAffected)
			}

			res = db.Model(&models.Quest{}).
				Where("is_active = ? AND end_date IS NOT NULL AND end_date < ?", true, now).
				Update("is_active", false)
			if res.Error != nil {
				log.Printf("[Scheduler] quest window sweep failed: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[Scheduler] closed %d expired quests", res.RowsAffected)
			}
		}),
	)
}
