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
	"gorm.io/gorm/clause"
)

type LessonsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLessonsController(db *gorm.DB, cfg *config.Config) *LessonsController {
	return &LessonsController{DB: db, Cfg: cfg}
}

// findLessonCourse resolves a lesson up to its course, scoped to the
// caller's tenant.
func (lc *LessonsController) findLessonCourse(lessonID int, tenantID uint) (*models.Lesson, *models.Course, error) {
	var lesson models.Lesson
	if err := lc.DB.First(&lesson, lessonID).Error; err != nil {
		return nil, nil, err
	}

	var module models.Module
	if err := lc.DB.First(&module, lesson.ModuleID).Error; err != nil {
		return nil, nil, err
	}

	var course models.Course
	if err := lc.DB.Where("tenant_id = ?", tenantID).First(&course, module.CourseID).Error; err != nil {
		return nil, nil, err
	}

	return &lesson, &course, nil
}

func (lc *LessonsController) setCompletion(c *fiber.Ctx, complete bool) error {
	id, err := utils.ExtractIdentity(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	lesson, course, err := lc.findLessonCourse(lessonID, id.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	enrollment := activeEnrollment(lc.DB, id.UserID, course.ID)
	if enrollment == nil {
		return utils.NotFound(c, "Enrollment not found")
	}

	now := time.Now().UTC()
	progress := models.LessonProgress{
		UserID:     id.UserID,
		LessonID:   lesson.ID,
		CourseID:   course.ID,
		IsComplete: complete,
	}
	if complete {
		progress.CompletedAt = &now
	}

	err = lc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_complete", "completed_at", "updated_at"}),
	}).Create(&progress).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not save progress")
	}

	if err := touchEnrollment(lc.DB, enrollment, lesson.ID, now); err != nil {
		return utils.InternalServerError(c, "Could not update enrollment")
	}

	return c.JSON(fiber.Map{
		"message":  "Progress updated",
		"progress": progress,
	})
}

func (lc *LessonsController) MarkComplete(c *fiber.Ctx) error {
	return lc.setCompletion(c, true)
}

func (lc *LessonsController) MarkIncomplete(c *fiber.Ctx) error {
	return lc.setCompletion(c, false)
}

// UpdatePosition stores the playback resume point. Seeking backward is a
// valid update; the enrollment's resume state is touched as a side effect.
func (lc *LessonsController) UpdatePosition(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input struct {
		PositionSec int `json:"position_sec"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.PositionSec < 0 {
		return utils.BadRequest(c, "Invalid position")
	}

	lesson, course, err := lc.findLessonCourse(lessonID, id.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	enrollment := activeEnrollment(lc.DB, id.UserID, course.ID)
	if enrollment == nil {
		return utils.NotFound(c, "Enrollment not found")
	}

	now := time.Now().UTC()
	progress := models.LessonProgress{
		UserID:          id.UserID,
		LessonID:        lesson.ID,
		CourseID:        course.ID,
		LastPositionSec: input.PositionSec,
	}

	err = lc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_position_sec", "updated_at"}),
	}).Create(&progress).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not save position")
	}

	if err := touchEnrollment(lc.DB, enrollment, lesson.ID, now); err != nil {
		return utils.InternalServerError(c, "Could not update enrollment")
	}

	return c.JSON(fiber.Map{
		"message": "Position updated",
	})
}

// GetNext and GetPrevious navigate linearly by order index across module
// boundaries. They never consult lock state; the lesson-fetch boundary is
// where access is enforced.
func (lc *LessonsController) GetNext(c *fiber.Ctx) error {
	return lc.neighbor(c, false)
}

func (lc *LessonsController) GetPrevious(c *fiber.Ctx) error {
	return lc.neighbor(c, true)
}

func (lc *LessonsController) neighbor(c *fiber.Ctx, backwards bool) error {
	id, err := utils.ExtractIdentity(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	_, course, err := lc.findLessonCourse(lessonID, id.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var modules []models.Module
	err = lc.DB.Where("course_id = ? AND status = ?", course.ID, drip.StatusLive).
		Order("order_index ASC").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", drip.StatusLive).Order("order_index ASC")
		}).
		Find(&modules).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	seq := make([]drip.SeqModule, 0, len(modules))
	for _, module := range modules {
		sm := drip.SeqModule{ID: module.ID, OrderIndex: module.OrderIndex}
		for _, lesson := range module.Lessons {
			sm.Lessons = append(sm.Lessons, drip.SeqLesson{ID: lesson.ID, OrderIndex: lesson.OrderIndex})
		}
		seq = append(seq, sm)
	}

	var ref *drip.LessonRef
	if backwards {
		ref = drip.PreviousLesson(seq, uint(lessonID))
	} else {
		ref = drip.NextLesson(seq, uint(lessonID))
	}

	if ref == nil {
		return c.JSON(fiber.Map{"lesson": nil})
	}

	var target models.Lesson
	if err := lc.DB.First(&target, ref.LessonID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"lesson": fiber.Map{
			"id":        target.ID,
			"module_id": target.ModuleID,
			"title":     target.Title,
			"type":      target.Type,
		},
	})
}
