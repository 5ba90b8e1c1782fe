package middleware

import (
	"project/backend/config"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, err := utils.ExtractIdentity(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// StaffMiddleware gates content-management routes: instructors, admins and
// owners pass.
func StaffMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := utils.ExtractIdentity(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if !id.IsStaff() {
			return utils.Forbidden(c, "Staff access required")
		}
		return c.Next()
	}
}

// AdminMiddleware gates destructive commands: admins and owners only.
func AdminMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := utils.ExtractIdentity(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if !id.IsAdmin() {
			return utils.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}
