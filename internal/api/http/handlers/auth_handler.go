package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/didnumber-service/internal/api/dto"
	"github.com/spec-kit/didnumber-service/internal/auth"
	"github.com/spec-kit/didnumber-service/internal/service"
	apperrors "github.com/spec-kit/didnumber-service/pkg/util"
)

// LoggedOutMessage acknowledges a logout.
const LoggedOutMessage = "You have successfully been logged out."

// AuthHandler exposes signup, login and logout.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *auth.SessionManager
	validate *validator.Validate
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, sessions *auth.SessionManager) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions, validate: newValidator()}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}

	employee, err := h.auth.Signup(c.UserContext(), service.SignupInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		IsAdmin:   *req.IsAdmin,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewEmployeeView(employee))
}

// Login handles POST /login and starts a session.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}

	employee, err := h.auth.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if err := h.sessions.Begin(c, employee.ID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewEmployeeView(employee))
}

// Logout handles GET and POST /logout. It runs behind RequireLogin.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ended, err := h.sessions.End(c)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !ended {
		return apperrors.NewUnauthorized(auth.LoginRequiredMessage)
	}
	return c.JSON(dto.MessageResponse{Message: LoggedOutMessage})
}
