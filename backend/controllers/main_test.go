package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"project/backend/config"
	"project/backend/database"
	"project/backend/drip"
	"project/backend/models"
	"project/backend/routes"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{JWTSecret: "test-secret"}
	app := fiber.New()
	routes.SetupRoutes(app, db, cfg)
	return app, db, cfg
}

func createUser(t *testing.T, db *gorm.DB, cfg *config.Config, tenantID uint, username, role string) (models.User, string) {
	t.Helper()

	user := models.User{
		TenantID:     tenantID,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateJWTToken(&user, cfg)
	require.NoError(t, err)
	return user, token
}

// createCourse inserts a live course released releasedDaysAgo days back, with
// one live module per entry in unlockAfterDays and lessonsPerModule live
// lessons in each.
func createCourse(t *testing.T, db *gorm.DB, tenantID uint, releasedDaysAgo int, unlockAfterDays []int, lessonsPerModule int) models.Course {
	t.Helper()

	releaseAt := time.Now().UTC().AddDate(0, 0, -releasedDaysAgo)
	course := models.Course{
		TenantID:  tenantID,
		Title:     "Course " + t.Name(),
		Status:    drip.StatusLive,
		ReleaseAt: &releaseAt,
	}
	require.NoError(t, db.Create(&course).Error)

	for i, days := range unlockAfterDays {
		module := models.Module{
			CourseID:        course.ID,
			Title:           fmt.Sprintf("Module %d", i+1),
			OrderIndex:      i + 1,
			Status:          drip.StatusLive,
			UnlockAfterDays: days,
		}
		require.NoError(t, db.Create(&module).Error)

		for j := 0; j < lessonsPerModule; j++ {
			lesson := models.Lesson{
				ModuleID:   module.ID,
				Title:      fmt.Sprintf("Lesson %d.%d", i+1, j+1),
				Type:       models.LessonTypeText,
				OrderIndex: j + 1,
				Status:     drip.StatusLive,
			}
			require.NoError(t, db.Create(&lesson).Error)
		}
	}

	return course
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
