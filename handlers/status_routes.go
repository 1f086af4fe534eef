// handlers/status_routes.go
package handlers

import (
	"strconv"

	"github.com/stavg2005/SoloLevelingApp/middleware"
	"github.com/stavg2005/SoloLevelingApp/services"

	"github.com/gofiber/fiber/v2"
)

// SetupStatusRoutes exposes the hunter status screen: rank, level,
// experience bars, stats, recent activity and earned titles.
func SetupStatusRoutes(app *fiber.App, userService *services.UserService, progressionService *services.ProgressionService, titleService *services.TitleService) {
	secured := app.Group("/api/users", middleware.AuthMiddleware())

	secured.Get("/status", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)

		status, err := userService.GetHunterStatus(sess.UserID)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to load hunter status",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"rank":                     status.CurrentRank.RankName,
			"rank_order":               status.CurrentRank.RankOrder,
			"level":                    status.CurrentLevel,
			"total_experience":         status.TotalExperience,
			"level_experience":         status.LevelExperience,
			"experience_to_next_level": status.ExperienceToNextLevel,
			"last_level_up_at":         status.LastLevelUpAt,
			"last_rank_up_at":          status.LastRankUpAt,
		})
	})

	secured.Get("/stats", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)

		stats, err := userService.GetUserStats(sess.UserID)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to load stats",
				"cause": err.Error(),
			})
		}

		response := make([]fiber.Map, 0, len(stats))
		for _, us := range stats {
			response = append(response, fiber.Map{
				"stat_id":      us.StatID,
				"stat_name":    us.Stat.StatName,
				"stat_value":   us.StatValue,
				"last_updated": us.LastUpdated,
			})
		}
		return c.JSON(response)
	})

	secured.Get("/activity", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		logs, err := progressionService.RecentActivity(sess.UserID, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load activity",
				"cause": err.Error(),
			})
		}
		return c.JSON(logs)
	})

	secured.Get("/titles", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)

		titles, err := titleService.UserTitles(sess.UserID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load titles",
				"cause": err.Error(),
			})
		}

		response := make([]fiber.Map, 0, len(titles))
		for _, ut := range titles {
			response = append(response, fiber.Map{
				"code":        ut.Title.Code,
				"name":        ut.Title.Name,
				"description": ut.Title.Description,
				"rarity":      ut.Title.Rarity,
				"awarded_at":  ut.AwardedAt,
			})
		}
		return c.JSON(response)
	})
}
