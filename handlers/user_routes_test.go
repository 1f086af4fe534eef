package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stavg2005/SoloLevelingApp/models"
	"github.com/stavg2005/SoloLevelingApp/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.UserSettings{},
		&models.HunterRank{},
		&models.HunterStatus{},
		&models.Stat{},
		&models.UserStat{},
		&models.ActivityLog{},
		&models.TitleType{},
		&models.UserTitle{},
	))

	userService := services.NewUserService(db)
	require.NoError(t, userService.EnsureCoreData())
	progressionService := services.NewProgressionService(db)
	titleService := services.NewTitleService(db)

	app := fiber.New()
	SetupUserRoutes(app, userService)
	SetupStatusRoutes(app, userService, progressionService, titleService)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any, bearer string) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decode(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestRegisterLoginStatusRoundTrip(t *testing.T) {
	app := newTestApp(t)

	res := postJSON(t, app, "/api/users/register", fiber.Map{
		"username": "sung_jinwoo",
		"email":    "jinwoo@hunters.example",
		"password": "arise123",
	}, "")
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = postJSON(t, app, "/api/users/login", fiber.Map{
		"username": "sung_jinwoo",
		"password": "arise123",
	}, "")
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	body := decode(t, res)
	token, ok := body["token"].(string)
	require.True(t, ok, "login response carries a token")
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/users/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	statusRes, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, statusRes.StatusCode)

	status := decode(t, statusRes)
	assert.Equal(t, "E", status["rank"])
	assert.EqualValues(t, 1, status["level"])
	assert.EqualValues(t, 0, status["total_experience"])
	assert.EqualValues(t, services.InitialExperienceToNextLevel, status["experience_to_next_level"])
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	app := newTestApp(t)

	body := fiber.Map{
		"username": "cha_haein",
		"email":    "haein@hunters.example",
		"password": "arise123",
	}
	res := postJSON(t, app, "/api/users/register", body, "")
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = postJSON(t, app, "/api/users/register", body, "")
	assert.Equal(t, fiber.StatusConflict, res.StatusCode)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app := newTestApp(t)

	res := postJSON(t, app, "/api/users/register", fiber.Map{
		"username": "go_gunhee",
		"email":    "gunhee@hunters.example",
		"password": "arise123",
	}, "")
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = postJSON(t, app, "/api/users/login", fiber.Map{
		"username": "go_gunhee",
		"password": "wrong",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/status", nil)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/users/status", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	res, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestProfileOwnershipEnforced(t *testing.T) {
	app := newTestApp(t)

	res := postJSON(t, app, "/api/users/register", fiber.Map{
		"username": "yoo_jinho",
		"email":    "jinho@hunters.example",
		"password": "arise123",
	}, "")
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = postJSON(t, app, "/api/users/login", fiber.Map{
		"username": "yoo_jinho",
		"password": "arise123",
	}, "")
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	token := decode(t, res)["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile/9999", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	forbidden, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, forbidden.StatusCode)
}
