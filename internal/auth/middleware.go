package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/didnumber-service/internal/domain"
	"github.com/spec-kit/didnumber-service/internal/repository"
	apperrors "github.com/spec-kit/didnumber-service/pkg/util"
)

const principalKey = "auth_employee"

// LoginRequiredMessage is returned to anonymous callers of protected routes.
const LoginRequiredMessage = "You must be logged in to access this page"

// AuthMiddleware resolves the session into the logged-in employee.
type AuthMiddleware struct {
	sessions  *SessionManager
	employees repository.EmployeeRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(sessions *SessionManager, employees repository.EmployeeRepository) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, employees: employees}
}

// RequireLogin rejects anonymous requests with 401 and stores the employee in locals.
func (m *AuthMiddleware) RequireLogin(c *fiber.Ctx) error {
	id, ok, err := m.sessions.EmployeeID(c)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !ok {
		return apperrors.NewUnauthorized(LoginRequiredMessage)
	}

	employee, err := m.employees.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// account vanished; drop the stale session
			_, _ = m.sessions.End(c)
			return apperrors.NewUnauthorized(LoginRequiredMessage)
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, employee)
	return c.Next()
}

// EmployeeFromContext retrieves the authenticated employee.
func EmployeeFromContext(c *fiber.Ctx) (*domain.Employee, bool) {
	employee, ok := c.Locals(principalKey).(*domain.Employee)
	return employee, ok && employee != nil
}
