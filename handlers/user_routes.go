// handlers/user_routes.go
package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/stavg2005/SoloLevelingApp/middleware"
	"github.com/stavg2005/SoloLevelingApp/services"
	"github.com/stavg2005/SoloLevelingApp/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService) {
	api := app.Group("/api/users")

	api.Post("/register", func(c *fiber.Ctx) error {
		type Req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		userID, err := userService.Register(req.Username, req.Email, req.Password)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "registration failed",
				"cause": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "User created successfully",
			"user_id": userID,
		})
	})

	api.Post("/login", func(c *fiber.Ctx) error {
		type Req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.Username == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "all fields are required",
			})
		}

		user, err := userService.Login(req.Username, req.Password)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "invalid credentials",
			})
		}

		token, err := middleware.GenerateToken(user.UserID, user.Username)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to issue token",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  user,
		})
	})

	secured := api.Group("/", middleware.AuthMiddleware())

	secured.Get("/profile/:userId", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)
		requested, err := strconv.ParseUint(c.Params("userId"), 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
		}
		// users can only read their own profile
		if uint(requested) != sess.UserID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		}

		user, err := userService.GetUserByID(sess.UserID)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to load user",
				"cause": err.Error(),
			})
		}
		profile, err := userService.GetProfile(sess.UserID)
		if err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to load profile",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"user":    user,
			"profile": profile,
		})
	})

	secured.Put("/profile", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)
		var upd services.ProfileUpdate
		if err := c.BodyParser(&upd); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := userService.UpdateProfile(sess.UserID, upd); err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to update profile",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "profile updated"})
	})

	secured.Put("/account", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)
		var upd services.AccountUpdate
		if err := c.BodyParser(&upd); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := userService.UpdateAccount(sess.UserID, upd); err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to update account",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "account updated"})
	})

	secured.Put("/password", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)
		type Req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := userService.ChangePassword(sess.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to change password",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "password changed"})
	})

	secured.Post("/avatar", func(c *fiber.Ctx) error {
		sess, _ := middleware.SessionFrom(c)
		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "avatar file is required",
				"cause": err.Error(),
			})
		}

		key := fmt.Sprintf("avatars/%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename))
		var url string
		if utils.R2Enabled() {
			url, err = utils.UploadFileToR2(fileHeader, key)
		} else {
			dest := utils.GetUploadPath(key)
			err = utils.SaveFile(fileHeader, dest)
			url = "/" + filepath.ToSlash(dest)
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to store avatar",
				"cause": err.Error(),
			})
		}

		if err := userService.UpdateAccount(sess.UserID, services.AccountUpdate{AvatarURL: &url}); err != nil {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error": "failed to save avatar url",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"avatar_url": url})
	})
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidArgument):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
