package workers

import (
	"context"
	"log"
	"time"

	"github.com/stavg2005/SoloLevelingApp/models"

	"gorm.io/gorm"
)

// QuestExpiryClient sweeps user quests whose parent quest window has
// closed. Expired instances are flipped inactive so they drop off the
// active list but stay in history; progress rows are untouched.
type QuestExpiryClient struct {
	DB *gorm.DB
}

func NewQuestExpiryClient(db *gorm.DB) *QuestExpiryClient {
	return &QuestExpiryClient{DB: db}
}

func (c *QuestExpiryClient) ExpireStaleQuests(now time.Time) (int64, error) {
	res := c.DB.Model(&models.UserQuest{}).
		Where("is_active = ? AND is_completed = ?", true, false).
		Where("quest_id IN (?)", c.DB.Model(&models.Quest{}).
			Select("quest_id").
			Where("end_date IS NOT NULL AND end_date < ?", now)).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// PollExpiredQuests runs the sweep on a fixed interval until ctx is done.
func PollExpiredQuests(ctx context.Context, client *QuestExpiryClient, pollInterval time.Duration) {
	log.Println("Starting quest expiry polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Quest expiry polling stopped.")
			return
		case <-ticker.C:
			expired, err := client.ExpireStaleQuests(time.Now())
			if err != nil {
				log.Printf("[QuestExpiry] sweep failed: %v", err)
				continue
			}
			if expired > 0 {
				log.Printf("[QuestExpiry] deactivated %d expired user quests", expired)
			}
		}
	}
}
