package controllers

import (
	"errors"
	"strconv"
	"time"

	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminUnlocksController grants and revokes manual module unlocks for
// individual members.
type AdminUnlocksController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminUnlocksController(db *gorm.DB, cfg *config.Config) *AdminUnlocksController {
	return &AdminUnlocksController{DB: db, Cfg: cfg}
}

func (ac *AdminUnlocksController) params(c *fiber.Ctx) (int, int, error) {
	userID, err := strconv.Atoi(c.Params("userId"))
	if err != nil {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid user ID")
	}
	moduleID, err := strconv.Atoi(c.Params("moduleId"))
	if err != nil {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid module ID")
	}
	return userID, moduleID, nil
}

// checkScope verifies the module's course and the target member are inside
// the staff caller's tenant.
func (ac *AdminUnlocksController) checkScope(tenantID uint, userID, moduleID int) error {
	var module models.Module
	if err := ac.DB.First(&module, moduleID).Error; err != nil {
		return err
	}
	if _, err := findTenantCourse(ac.DB, tenantID, int(module.CourseID)); err != nil {
		return err
	}
	var member models.User
	return ac.DB.Where("tenant_id = ?", tenantID).First(&member, userID).Error
}

// UnlockModule godoc
// @Summary Manually unlock a module for a member
// @Description Grants access regardless of computed drip timing
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{userId}/modules/{moduleId}/unlock [post]
func (ac *AdminUnlocksController) UnlockModule(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	userID, moduleID, err := ac.params(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var input struct {
		Notes string `json:"notes"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return utils.BadRequest(c, "Cannot parse JSON")
		}
	}

	if err := ac.checkScope(id.TenantID, userID, moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	unlock := models.ManualUnlock{
		UserID:   uint(userID),
		ModuleID: uint(moduleID),
	}
	err = ac.DB.Where(models.ManualUnlock{UserID: uint(userID), ModuleID: uint(moduleID)}).
		Attrs(models.ManualUnlock{
			UnlockedAt: time.Now().UTC(),
			UnlockedBy: id.UserID,
			Notes:      input.Notes,
		}).
		FirstOrCreate(&unlock).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not unlock module")
	}

	return c.JSON(fiber.Map{
		"message": "Module unlocked",
		"unlock":  unlock,
	})
}

// RevokeUnlock deletes the manual unlock. Modules the member already
// completed a lesson in stay open through the completion override.
func (ac *AdminUnlocksController) RevokeUnlock(c *fiber.Ctx) error {
	id, err := utils.ExtractIdentity(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	userID, moduleID, err := ac.params(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if err := ac.checkScope(id.TenantID, userID, moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	result := ac.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).
		Delete(&models.ManualUnlock{})
	if result.Error != nil {
		return utils.InternalServerError(c, "Could not revoke unlock")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Unlock not found")
	}

	return c.JSON(fiber.Map{
		"message": "Unlock revoked",
	})
}
