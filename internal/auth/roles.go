package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/didnumber-service/pkg/util"
)

// NotAdminMessage is returned when a non-admin reaches an admin route.
const NotAdminMessage = "The current user is not an admin"

// RequireAdmin must run after RequireLogin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		employee, ok := EmployeeFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(LoginRequiredMessage)
		}
		if !employee.IsAdmin {
			return apperrors.NewForbidden(NotAdminMessage)
		}
		return c.Next()
	}
}
