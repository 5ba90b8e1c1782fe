package controllers_test

import (
	"fmt"
	"testing"

	"project/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollIdempotent(t *testing.T) {
	app, db, cfg := setupApp(t)
	_, token := createUser(t, db, cfg, 1, "member1", models.RoleMember)
	course := createCourse(t, db, 1, 1, []int{0}, 1)

	path := fmt.Sprintf("/api/courses/%d/enroll", course.ID)

	resp := doRequest(t, app, "POST", path, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var first models.Enrollment
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&first).Error)
	require.NotNil(t, first.EnrolledAt)

	resp = doRequest(t, app, "POST", path, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Equal(t, int64(1), count, "second enroll must not create a duplicate row")

	var second models.Enrollment
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&second).Error)
	assert.Equal(t, first.EnrolledAt.Unix(), second.EnrolledAt.Unix(), "enrollment time must not reset")
}

func TestEnrollOutsideTenant(t *testing.T) {
	app, db, cfg := setupApp(t)
	_, token := createUser(t, db, cfg, 1, "member2", models.RoleMember)
	course := createCourse(t, db, 2, 1, []int{0}, 1)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/api/courses/%d/enroll", course.ID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "a course in another tenant looks missing")
}

func courseDetail(t *testing.T, app *fiber.App, token string, courseID uint) map[string]interface{} {
	t.Helper()
	resp := doRequest(t, app, "GET", fmt.Sprintf("/api/courses/%d", courseID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	decodeBody(t, resp, &body)
	return body
}

func detailModules(t *testing.T, body map[string]interface{}) []map[string]interface{} {
	t.Helper()
	raw, ok := body["modules"].([]interface{})
	require.True(t, ok)
	mods := make([]map[string]interface{}, 0, len(raw))
	for _, m := range raw {
		mods = append(mods, m.(map[string]interface{}))
	}
	return mods
}

func TestCourseDetailNotEnrolledAllLocked(t *testing.T) {
	app, db, cfg := setupApp(t)
	_, token := createUser(t, db, cfg, 1, "member3", models.RoleMember)
	course := createCourse(t, db, 1, 7, []int{0, 7}, 1)

	body := courseDetail(t, app, token, course.ID)
	assert.Equal(t, false, body["enrolled"])

	mods := detailModules(t, body)
	require.Len(t, mods, 2)
	for _, m := range mods {
		assert.Equal(t, true, m["is_locked"], "not enrolled means every module is locked, not an error")
		assert.Nil(t, m["unlock_at"])
	}
}

func TestCourseDetailDripSchedule(t *testing.T) {
	app, db, cfg := setupApp(t)
	_, token := createUser(t, db, cfg, 1, "member4", models.RoleMember)
	// Three weekly modules; the course went live a week ago but the member
	// enrolls now, so only the day-zero module is open.
	course := createCourse(t, db, 1, 7, []int{0, 7, 14}, 1)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/api/courses/%d/enroll", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := courseDetail(t, app, token, course.ID)
	assert.Equal(t, true, body["enrolled"])

	mods := detailModules(t, body)
	require.Len(t, mods, 3)

	assert.Equal(t, false, mods[0]["is_locked"])
	assert.Equal(t, true, mods[1]["is_locked"])
	assert.NotNil(t, mods[1]["unlock_at"], "a locked drip module shows its unlock date")
	assert.Equal(t, true, mods[2]["is_locked"])
}

func TestCourseProgress(t *testing.T) {
	app, db, cfg := setupApp(t)
	_, token := createUser(t, db, cfg, 1, "member5", models.RoleMember)
	course := createCourse(t, db, 1, 7, []int{0}, 2)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/api/courses/%d/enroll", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var lesson models.Lesson
	require.NoError(t, db.Where("title = ?", "Lesson 1.1").First(&lesson).Error)

	resp = doRequest(t, app, "POST", fmt.Sprintf("/api/lessons/%d/complete", lesson.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, "GET", fmt.Sprintf("/api/courses/%d/progress", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, float64(50), body["progress_pct"])
	assert.Equal(t, float64(1), body["completed_lessons"])
	assert.Equal(t, float64(2), body["total_lessons"])
	assert.Equal(t, float64(lesson.ID), body["last_lesson_id"])
}

func TestCourseProgressNoPublishedLessons(t *testing.T) {
	app, db, cfg := setupApp(t)
	_, token := createUser(t, db, cfg, 1, "member6", models.RoleMember)
	course := createCourse(t, db, 1, 7, []int{0}, 0)

	resp := doRequest(t, app, "GET", fmt.Sprintf("/api/courses/%d/progress", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, float64(0), body["progress_pct"], "zero published lessons is 0%, not an error")
}

func TestContinueLearning(t *testing.T) {
	app, db, cfg := setupApp(t)
	_, token := createUser(t, db, cfg, 1, "member7", models.RoleMember)
	course := createCourse(t, db, 1, 7, []int{0}, 1)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/api/courses/%d/enroll", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Nothing accessed yet: empty list.
	resp = doRequest(t, app, "GET", "/api/courses/continue", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []map[string]interface{}
	decodeBody(t, resp, &list)
	assert.Empty(t, list)

	var lesson models.Lesson
	require.NoError(t, db.Where("title = ?", "Lesson 1.1").First(&lesson).Error)
	resp = doRequest(t, app, "POST", fmt.Sprintf("/api/lessons/%d/position", lesson.ID), token,
		map[string]interface{}{"position_sec": 42})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, "GET", "/api/courses/continue?limit=3", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, float64(course.ID), list[0]["course_id"])
	assert.Equal(t, "Lesson 1.1", list[0]["last_lesson_title"])

	// An unpublished last lesson degrades to a null title, not an error.
	require.NoError(t, db.Model(&models.Lesson{}).Where("id = ?", lesson.ID).
		Update("status", "draft").Error)
	resp = doRequest(t, app, "GET", "/api/courses/continue", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	assert.Nil(t, list[0]["last_lesson_title"])
}
