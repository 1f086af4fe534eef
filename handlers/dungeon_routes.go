// handlers/dungeon_routes.go
package handlers

import (
	"strconv"

	"github.com/stavg2005/SoloLevelingApp/middleware"
	"github.com/stavg2005/SoloLevelingApp/services"

	"github.com/gofiber/fiber/v2"
)

func SetupDungeonRoutes(app *fiber.App, dungeonService *services.DungeonService) {
	secured := app.Group("/api/dungeons", middleware.AuthMiddleware())

	secured.Get("/available", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)

		dungeons, err := dungeonService.AvailableDungeons(sess.UserID)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to load dungeons",
				"cause": err.Error(),
			})
		}
		return c.JSON(dungeons)
	})

	secured.Get("/completed", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)

		completions, err := dungeonService.CompletedDungeons(sess.UserID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load completions",
				"cause": err.Error(),
			})
		}
		return c.JSON(completions)
	})

	secured.Get("/:id", func(c *fiber.Ctx) error {
		dungeonID, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid dungeon id"})
		}

		dungeon, err := dungeonService.DungeonDetails(uint(dungeonID))
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to load dungeon",
				"cause": err.Error(),
			})
		}
		return c.JSON(dungeon)
	})

	secured.Post("/complete", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)
		type Req struct {
			DungeonID uint `json:"dungeon_id"`
			services.CompletionInput
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := dungeonService.CompleteDungeon(sess.UserID, req.DungeonID, req.CompletionInput)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to complete dungeon",
				"cause": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":       "Dungeon completed successfully",
			"completion_id": result.CompletionID,
			"level_up":      result.LevelUp,
		})
	})
}
