// handlers/quest_routes.go
package handlers

import (
	"github.com/stavg2005/SoloLevelingApp/middleware"
	"github.com/stavg2005/SoloLevelingApp/services"

	"github.com/gofiber/fiber/v2"
)

func SetupQuestRoutes(app *fiber.App, questService *services.QuestService) {
	secured := app.Group("/api/quests", middleware.AuthMiddleware())

	secured.Get("/available", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)

		quests, err := questService.AvailableQuests(sess.UserID)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to load quests",
				"cause": err.Error(),
			})
		}
		return c.JSON(quests)
	})

	secured.Get("/active", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)

		quests, err := questService.ActiveQuests(sess.UserID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load active quests",
				"cause": err.Error(),
			})
		}
		return c.JSON(quests)
	})

	secured.Post("/start", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)
		type Req struct {
			QuestID uint `json:"quest_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := questService.StartQuest(sess.UserID, req.QuestID)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to start quest",
				"cause": err.Error(),
			})
		}
		if !result.Success {
			// user-facing rejection, not a server fault
			return c.Status(fiber.StatusConflict).JSON(result)
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	secured.Post("/progress", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)
		type Req struct {
			UserQuestID uint `json:"user_quest_id"`
			ObjectiveID uint `json:"objective_id"`
			Progress    int  `json:"progress"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := questService.UpdateProgress(sess.UserID, req.UserQuestID, req.ObjectiveID, req.Progress)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to update progress",
				"cause": err.Error(),
			})
		}
		if !result.Success {
			return c.Status(fiber.StatusNotFound).JSON(result)
		}
		return c.JSON(result)
	})
}
