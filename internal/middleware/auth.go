package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cheeze-hyeon/alog/internal/config"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

const (
	subjectContextKey = "currentSubjectID"
	roleContextKey    = "currentRole"
)

// AuthMiddleware validates JWT tokens and loads the subject ID into context.
// When roles are given, the token's role must be one of them.
func AuthMiddleware(cfg *config.Config, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		if len(roles) > 0 && !hasRole(roles, claims.Role) {
			return fiber.NewError(fiber.StatusForbidden, "forbidden")
		}

		subjectID, _ := claims.SubjectID()
		c.Locals(subjectContextKey, subjectID)
		c.Locals(roleContextKey, claims.Role)
		return c.Next()
	}
}

func hasRole(allowed []string, role string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// GetCurrentCustomerID extracts the authenticated customer ID from context.
func GetCurrentCustomerID(c *fiber.Ctx) (int64, bool) {
	if role, _ := c.Locals(roleContextKey).(string); role != utils.RoleCustomer {
		return 0, false
	}

	id, ok := c.Locals(subjectContextKey).(int64)
	return id, ok
}

// GetCurrentRole returns the role of the authenticated caller.
func GetCurrentRole(c *fiber.Ctx) string {
	role, _ := c.Locals(roleContextKey).(string)
	return role
}
