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

// AdminContentController manages modules and lessons inside a course.
type AdminContentController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminContentController(db *gorm.DB, cfg *config.Config) *AdminContentController {
	return &AdminContentController{DB: db, Cfg: cfg}
}

// findTenantModule loads a module and verifies its course belongs to the
// caller's tenant.
func (ac *AdminContentController) findTenantModule(tenantID uint, moduleID int) (*models.Module, error) {
	var module models.Module
	if err := ac.DB.First(&module, moduleID).Error; err != nil {
		return nil, err
	}
	if _, err := findTenantCourse(ac.DB, tenantID, int(module.CourseID)); err != nil {
		return nil, err
	}
	return &module, nil
}

func (ac *AdminContentController) AddModule(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input struct {
		Title           string     `json:"title"`
		ReleaseAt       *time.Time `json:"release_at"`
		UnlockAfterDays int        `json:"unlock_after_days"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.UnlockAfterDays < 0 {
		return utils.BadRequest(c, "unlock_after_days must not be negative")
	}

	course, err := findTenantCourse(ac.DB, id.TenantID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var moduleCount int64
	ac.DB.Model(&models.Module{}).Where("course_id = ?", course.ID).Count(&moduleCount)

	module := models.Module{
		CourseID:        course.ID,
		Title:           input.Title,
		OrderIndex:      int(moduleCount) + 1,
		Status:          drip.StatusDraft,
		ReleaseAt:       input.ReleaseAt,
		UnlockAfterDays: input.UnlockAfterDays,
	}
	if err := ac.DB.Create(&module).Error; err != nil {
		return utils.InternalServerError(c, "Could not create module")
	}

	return c.JSON(fiber.Map{
		"message": "Module added",
		"module":  module,
	})
}

// ModulePatch lists the mutable module fields; nil means "leave unchanged".
// ClearReleaseAt removes a module-level release override so the cohort rule
// applies again.
type ModulePatch struct {
	Title           *string    `json:"title"`
	Status          *string    `json:"status"`
	ReleaseAt       *time.Time `json:"release_at"`
	ClearReleaseAt  bool       `json:"clear_release_at"`
	UnlockAfterDays *int       `json:"unlock_after_days"`
}

func (ac *AdminContentController) UpdateModule(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var patch ModulePatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	module, err := ac.findTenantModule(id.TenantID, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if patch.Title != nil {
		module.Title = *patch.Title
	}
	if patch.ReleaseAt != nil {
		module.ReleaseAt = patch.ReleaseAt
	}
	if patch.ClearReleaseAt {
		module.ReleaseAt = nil
	}
	if patch.UnlockAfterDays != nil {
		if *patch.UnlockAfterDays < 0 {
			return utils.BadRequest(c, "unlock_after_days must not be negative")
		}
		module.UnlockAfterDays = *patch.UnlockAfterDays
	}
	if patch.Status != nil {
		switch *patch.Status {
		case drip.StatusDraft, drip.StatusLive:
			module.Status = *patch.Status
		case drip.StatusScheduled:
			if module.ReleaseAt == nil {
				return utils.InvalidState(c, "Scheduling requires a release date")
			}
			module.Status = drip.StatusScheduled
		default:
			return utils.BadRequest(c, "Invalid status")
		}
	}

	if err := ac.DB.Save(module).Error; err != nil {
		return utils.InternalServerError(c, "Could not update module")
	}

	return c.JSON(fiber.Map{
		"message": "Module updated",
		"module":  module,
	})
}

// ReorderModules swaps the order indexes of two modules in the same course.
// There is no gap-filling; ordering keys just trade places.
func (ac *AdminContentController) ReorderModules(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		ModuleID      uint `json:"module_id"`
		OtherModuleID uint `json:"other_module_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	module, err := ac.findTenantModule(id.TenantID, int(input.ModuleID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}
	other, err := ac.findTenantModule(id.TenantID, int(input.OtherModuleID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}
	if module.CourseID != other.CourseID {
		return utils.BadRequest(c, "Modules belong to different courses")
	}

	module.OrderIndex, other.OrderIndex = other.OrderIndex, module.OrderIndex

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(module).Error; err != nil {
			return err
		}
		return tx.Save(other).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not reorder modules")
	}

	return c.JSON(fiber.Map{
		"message": "Modules reordered",
	})
}

func (ac *AdminContentController) DeleteModule(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	module, err := ac.findTenantModule(id.TenantID, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := ac.DB.Delete(module).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete module")
	}

	return c.JSON(fiber.Map{
		"message": "Module deleted",
	})
}

func (ac *AdminContentController) AddLesson(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var input struct {
		Title           string     `json:"title"`
		Type            string     `json:"type"`
		ContentURL      string     `json:"content_url"`
		ContentText     string     `json:"content_text"`
		ScheduledAt     *time.Time `json:"scheduled_at"`
		MeetingURL      string     `json:"meeting_url"`
		ReplayURL       string     `json:"replay_url"`
		DurationSec     *int       `json:"duration_sec"`
		ContentCategory string     `json:"content_category"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	module, err := ac.findTenantModule(id.TenantID, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if input.Type == "" {
		input.Type = models.LessonTypeText
	}
	switch input.Type {
	case models.LessonTypeVideo, models.LessonTypeAudio, models.LessonTypePDF,
		models.LessonTypeText, models.LessonTypeLive:
	default:
		return utils.BadRequest(c, "Invalid lesson type")
	}

	var lessonCount int64
	ac.DB.Model(&models.Lesson{}).Where("module_id = ?", module.ID).Count(&lessonCount)

	lesson := models.Lesson{
		ModuleID:        module.ID,
		Title:           input.Title,
		Type:            input.Type,
		ContentURL:      input.ContentURL,
		ContentText:     input.ContentText,
		ScheduledAt:     input.ScheduledAt,
		MeetingURL:      input.MeetingURL,
		ReplayURL:       input.ReplayURL,
		DurationSec:     input.DurationSec,
		OrderIndex:      int(lessonCount) + 1,
		Status:          drip.StatusDraft,
		ContentCategory: input.ContentCategory,
	}
	if err := ac.DB.Create(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not create lesson")
	}

	return c.JSON(fiber.Map{
		"message": "Lesson added",
		"lesson":  lesson,
	})
}

// LessonPatch lists the mutable lesson fields; nil means "leave unchanged".
type LessonPatch struct {
	Title           *string    `json:"title"`
	Status          *string    `json:"status"`
	ReleaseAt       *time.Time `json:"release_at"`
	ClearReleaseAt  bool       `json:"clear_release_at"`
	ContentURL      *string    `json:"content_url"`
	ContentText     *string    `json:"content_text"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	MeetingURL      *string    `json:"meeting_url"`
	ReplayURL       *string    `json:"replay_url"`
	DurationSec     *int       `json:"duration_sec"`
	ContentCategory *string    `json:"content_category"`
}

func (ac *AdminContentController) UpdateLesson(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var patch LessonPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var lesson models.Lesson
	if err := ac.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}
	if _, err := ac.findTenantModule(id.TenantID, int(lesson.ModuleID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if patch.Title != nil {
		lesson.Title = *patch.Title
	}
	if patch.ContentURL != nil {
		lesson.ContentURL = *patch.ContentURL
	}
	if patch.ContentText != nil {
		lesson.ContentText = *patch.ContentText
	}
	if patch.ScheduledAt != nil {
		lesson.ScheduledAt = patch.ScheduledAt
	}
	if patch.MeetingURL != nil {
		lesson.MeetingURL = *patch.MeetingURL
	}
	if patch.ReplayURL != nil {
		lesson.ReplayURL = *patch.ReplayURL
	}
	if patch.DurationSec != nil {
		lesson.DurationSec = patch.DurationSec
	}
	if patch.ContentCategory != nil {
		lesson.ContentCategory = *patch.ContentCategory
	}
	if patch.ReleaseAt != nil {
		lesson.ReleaseAt = patch.ReleaseAt
	}
	if patch.ClearReleaseAt {
		lesson.ReleaseAt = nil
	}
	if patch.Status != nil {
		switch *patch.Status {
		case drip.StatusDraft, drip.StatusLive:
			lesson.Status = *patch.Status
		case drip.StatusScheduled:
			if lesson.ReleaseAt == nil {
				return utils.InvalidState(c, "Scheduling requires a release date")
			}
			lesson.Status = drip.StatusScheduled
		default:
			return utils.BadRequest(c, "Invalid status")
		}
	}

	if err := ac.DB.Save(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not update lesson")
	}

	return c.JSON(fiber.Map{
		"message": "Lesson updated",
		"lesson":  lesson,
	})
}

// ReorderLessons swaps the order indexes of two lessons in the same module.
func (ac *AdminContentController) ReorderLessons(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		LessonID      uint `json:"lesson_id"`
		OtherLessonID uint `json:"other_lesson_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var lesson, other models.Lesson
	if err := ac.DB.First(&lesson, input.LessonID).Error; err != nil {
		return utils.NotFound(c, "Lesson not found")
	}
	if err := ac.DB.First(&other, input.OtherLessonID).Error; err != nil {
		return utils.NotFound(c, "Lesson not found")
	}
	if lesson.ModuleID != other.ModuleID {
		return utils.BadRequest(c, "Lessons belong to different modules")
	}
	if _, err := ac.findTenantModule(id.TenantID, int(lesson.ModuleID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	lesson.OrderIndex, other.OrderIndex = other.OrderIndex, lesson.OrderIndex

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&lesson).Error; err != nil {
			return err
		}
		return tx.Save(&other).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not reorder lessons")
	}

	return c.JSON(fiber.Map{
		"message": "Lessons reordered",
	})
}

func (ac *AdminContentController) DeleteLesson(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var lesson models.Lesson
	if err := ac.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}
	if _, err := ac.findTenantModule(id.TenantID, int(lesson.ModuleID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := ac.DB.Delete(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete lesson")
	}

	return c.JSON(fiber.Map{
		"message": "Lesson deleted",
	})
}
