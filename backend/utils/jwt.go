package utils

import (
	"time"

	"project/backend/config"
	"project/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Identity is the caller extracted from a request token. Tenant and user are
// always threaded explicitly from here into queries, never read from any
// ambient state.
type Identity struct {
	UserID   uint
	TenantID uint
	Role     string
}

func (id Identity) IsStaff() bool {
	return id.Role == models.RoleInstructor || id.Role == models.RoleAdmin || id.Role == models.RoleOwner
}

func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin || id.Role == models.RoleOwner
}

func GenerateJWTToken(user *models.User, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"tenant_id": user.TenantID,
		"role":      user.Role,
		"exp":       time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ExtractIdentity parses and validates the Authorization token and returns
// the caller's identity.
func ExtractIdentity(c *fiber.Ctx, cfg *config.Config) (Identity, error) {
	tokenString := c.Get("Authorization")
	if tokenString == "" {
		return Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})

	if err != nil {
		return Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}
	tenantID, _ := claims["tenant_id"].(float64)
	role, _ := claims["role"].(string)

	return Identity{
		UserID:   uint(userID),
		TenantID: uint(tenantID),
		Role:     role,
	}, nil
}
