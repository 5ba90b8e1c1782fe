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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AdminCoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminCoursesController(db *gorm.DB, cfg *config.Config) *AdminCoursesController {
	return &AdminCoursesController{DB: db, Cfg: cfg}
}

func (ac *AdminCoursesController) CreateCourse(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Title       string         `json:"title"`
		Description string         `json:"description"`
		CoverURL    string         `json:"cover_url"`
		PromoMedia  datatypes.JSON `json:"promo_media"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	course := models.Course{
		TenantID:     id.TenantID,
		Title:        input.Title,
		Description:  input.Description,
		CoverURL:     input.CoverURL,
		PromoMedia:   input.PromoMedia,
		Status:       drip.StatusDraft,
		InstructorID: id.UserID,
	}
	if err := ac.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return c.JSON(fiber.Map{
		"message": "Course created",
		"course":  course,
	})
}

// CoursePatch lists the mutable course fields; nil means "leave unchanged".
type CoursePatch struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	CoverURL    *string         `json:"cover_url"`
	PromoMedia  *datatypes.JSON `json:"promo_media"`
}

func (ac *AdminCoursesController) UpdateCourse(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var patch CoursePatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	course, err := findTenantCourse(ac.DB, id.TenantID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if patch.Title != nil {
		course.Title = *patch.Title
	}
	if patch.Description != nil {
		course.Description = *patch.Description
	}
	if patch.CoverURL != nil {
		course.CoverURL = *patch.CoverURL
	}
	if patch.PromoMedia != nil {
		course.PromoMedia = *patch.PromoMedia
	}

	if err := ac.DB.Save(course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return c.JSON(fiber.Map{
		"message": "Course updated",
		"course":  course,
	})
}

// PublishCourse transitions draft -> scheduled -> live (or draft -> live).
// Scheduling without a release date is rejected; going live stamps the
// release date with now when none was set, so downstream resolution never
// sees a live course without one.
func (ac *AdminCoursesController) PublishCourse(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input struct {
		Status    string     `json:"status"`
		ReleaseAt *time.Time `json:"release_at"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	course, err := findTenantCourse(ac.DB, id.TenantID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if input.ReleaseAt != nil {
		course.ReleaseAt = input.ReleaseAt
	}

	switch input.Status {
	case drip.StatusDraft:
		course.Status = drip.StatusDraft
	case drip.StatusScheduled:
		if course.ReleaseAt == nil {
			return utils.InvalidState(c, "Scheduling requires a release date")
		}
		course.Status = drip.StatusScheduled
	case drip.StatusLive:
		if course.ReleaseAt == nil {
			now := time.Now().UTC()
			course.ReleaseAt = &now
		}
		course.Status = drip.StatusLive
	default:
		return utils.BadRequest(c, "Invalid status")
	}

	if err := ac.DB.Save(course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return c.JSON(fiber.Map{
		"message": "Course status updated",
		"course":  course,
	})
}

func (ac *AdminCoursesController) DeleteCourse(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	course, err := findTenantCourse(ac.DB, id.TenantID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := ac.DB.Delete(course).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete course")
	}

	return c.JSON(fiber.Map{
		"message": "Course deleted",
	})
}
