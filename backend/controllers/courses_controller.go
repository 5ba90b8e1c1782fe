package controllers

import (
	"errors"
	"strconv"
	"time"

	"project/backend/config"
	"project/backend/drip"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

func (cc *CoursesController) GetUserCourses(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var enrollments []models.Enrollment
	cc.DB.Where("user_id = ? AND status = ?", id.UserID, models.EnrollmentActive).Find(&enrollments)

	result := []fiber.Map{}
	for _, enrollment := range enrollments {
		var course models.Course
		if err := cc.DB.First(&course, enrollment.CourseID).Error; err != nil {
			continue
		}

		completed, total := publishedLessonCounts(cc.DB, id.UserID, course.ID)
		result = append(result, fiber.Map{
			"id":            course.ID,
			"title":         course.Title,
			"cover_url":     course.CoverURL,
			"progress":      drip.CompletionPercent(completed, total),
			"completed":     completed,
			"lessons":       total,
			"last_accessed": enrollment.LastAccessedAt,
		})
	}

	return c.JSON(result)
}

func (cc *CoursesController) GetAvailableCourses(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var courses []models.Course
	cc.DB.Where("tenant_id = ? AND status <> ?", id.TenantID, drip.StatusDraft).Find(&courses)

	result := []fiber.Map{}
	for _, course := range courses {
		result = append(result, fiber.Map{
			"id":          course.ID,
			"title":       course.Title,
			"description": course.Description,
			"cover_url":   course.CoverURL,
			"promo_media": course.PromoMedia,
			"status":      course.Status,
			"release_at":  course.ReleaseAt,
		})
	}

	return c.JSON(result)
}

// GetContinueLearning godoc
// @Summary Continue-learning list
// @Description Returns the member's most recently accessed courses with the lesson to resume
// @Tags courses
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/continue [get]
func (cc *CoursesController) GetContinueLearning(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	limit := c.QueryInt("limit", 3)
	if limit <= 0 {
		limit = 3
	}

	var enrollments []models.Enrollment
	cc.DB.Where("user_id = ? AND status = ? AND last_accessed_at IS NOT NULL", id.UserID, models.EnrollmentActive).
		Order("last_accessed_at DESC").
		Limit(limit).
		Find(&enrollments)

	result := []fiber.Map{}
	for _, enrollment := range enrollments {
		var course models.Course
		if err := cc.DB.First(&course, enrollment.CourseID).Error; err != nil {
			continue
		}

		// A deleted or unpublished last lesson degrades to a null title.
		var lessonTitle *string
		if enrollment.LastLessonID != nil {
			var lesson models.Lesson
			if err := cc.DB.Where("status = ?", drip.StatusLive).
				First(&lesson, *enrollment.LastLessonID).Error; err == nil {
				lessonTitle = &lesson.Title
			}
		}

		completed, total := publishedLessonCounts(cc.DB, id.UserID, course.ID)
		result = append(result, fiber.Map{
			"course_id":         course.ID,
			"course_title":      course.Title,
			"cover_url":         course.CoverURL,
			"progress":          drip.CompletionPercent(completed, total),
			"last_accessed_at":  enrollment.LastAccessedAt,
			"last_lesson_id":    enrollment.LastLessonID,
			"last_lesson_title": lessonTitle,
		})
	}

	return c.JSON(result)
}

// GetCourseDetails returns the course with the full per-module access list:
// lock state, unlock date and published lessons with the member's progress.
// A member who is not enrolled gets every module locked, never an error.
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	err = cc.DB.Where("tenant_id = ? AND status <> ?", id.TenantID, drip.StatusDraft).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", drip.StatusLive).Order("order_index ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", drip.StatusLive).Order("order_index ASC")
		}).
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	enrollment := activeEnrollment(cc.DB, id.UserID, course.ID)
	enrolled := enrollment != nil

	var effectiveStart *time.Time
	if enrolled {
		effectiveStart = drip.EffectiveStart(enrollment.EnrollmentTime(), courseReleasePointer(&course))
	}

	manual := map[uint]bool{}
	var unlocks []models.ManualUnlock
	cc.DB.Where("user_id = ?", id.UserID).Find(&unlocks)
	for _, u := range unlocks {
		manual[u.ModuleID] = true
	}

	progressByLesson := map[uint]models.LessonProgress{}
	var progresses []models.LessonProgress
	cc.DB.Where("user_id = ? AND course_id = ?", id.UserID, course.ID).Find(&progresses)
	for _, p := range progresses {
		progressByLesson[p.LessonID] = p
	}

	// One now for every module in this response, so two modules can never
	// disagree about what time it is.
	now := time.Now().UTC()

	moduleViews := []fiber.Map{}
	for _, module := range course.Modules {
		anyComplete := false
		for _, lesson := range module.Lessons {
			if p, ok := progressByLesson[lesson.ID]; ok && p.IsComplete {
				anyComplete = true
				break
			}
		}

		access := drip.EvaluateModule(now, enrolled, effectiveStart, drip.ModuleTiming{
			ReleaseAt:       module.ReleaseAt,
			UnlockAfterDays: module.UnlockAfterDays,
		}, manual[module.ID])
		access = drip.ApplyCompletionOverride(access, anyComplete)

		lessonViews := []fiber.Map{}
		for _, lesson := range module.Lessons {
			p := progressByLesson[lesson.ID]
			lessonViews = append(lessonViews, fiber.Map{
				"id":                lesson.ID,
				"title":             lesson.Title,
				"type":              lesson.Type,
				"order_index":       lesson.OrderIndex,
				"duration_sec":      lesson.DurationSec,
				"content_category":  lesson.ContentCategory,
				"is_complete":       p.IsComplete,
				"completed_at":      p.CompletedAt,
				"last_position_sec": p.LastPositionSec,
			})
		}

		moduleViews = append(moduleViews, fiber.Map{
			"id":          module.ID,
			"title":       module.Title,
			"order_index": module.OrderIndex,
			"is_locked":   access.Locked,
			"unlock_at":   access.UnlockAt,
			"reason":      access.Reason,
			"lessons":     lessonViews,
		})
	}

	return c.JSON(fiber.Map{
		"course": fiber.Map{
			"id":          course.ID,
			"title":       course.Title,
			"description": course.Description,
			"cover_url":   course.CoverURL,
			"promo_media": course.PromoMedia,
			"status":      course.Status,
			"release_at":  course.ReleaseAt,
		},
		"enrolled": enrolled,
		"modules":  moduleViews,
	})
}

// GetCourseProgress godoc
// @Summary Course progress
// @Description Returns completion percentage and resume state for a course
// @Tags courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/progress [get]
func (cc *CoursesController) GetCourseProgress(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	course, err := findTenantCourse(cc.DB, id.TenantID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	completed, total := publishedLessonCounts(cc.DB, id.UserID, course.ID)

	var lastLessonID *uint
	var lastAccessedAt *time.Time
	if enrollment := activeEnrollment(cc.DB, id.UserID, course.ID); enrollment != nil {
		lastLessonID = enrollment.LastLessonID
		lastAccessedAt = enrollment.LastAccessedAt
	}

	return c.JSON(fiber.Map{
		"progress_pct":      drip.CompletionPercent(completed, total),
		"completed_lessons": completed,
		"total_lessons":     total,
		"last_lesson_id":    lastLessonID,
		"last_accessed_at":  lastAccessedAt,
	})
}

// Enroll creates the member's enrollment. Calling it again is a no-op: the
// existing row and its EnrolledAt are left untouched.
func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	course, err := findTenantCourse(cc.DB, id.TenantID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	now := time.Now().UTC()
	enrollment := models.Enrollment{UserID: id.UserID, CourseID: course.ID}
	err = cc.DB.Where(models.Enrollment{UserID: id.UserID, CourseID: course.ID}).
		Attrs(models.Enrollment{
			EnrolledAt: &now,
			Status:     models.EnrollmentActive,
		}).
		FirstOrCreate(&enrollment).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not enroll")
	}

	return c.JSON(fiber.Map{
		"message":    "Enrolled",
		"enrollment": enrollment,
	})
}
