package dto

import "github.com/spec-kit/didnumber-service/internal/domain"

// SignupRequest payload for new employee accounts. Text limits follow the employees columns.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email,max=60"`
	Username  string `json:"username" validate:"required,max=60"`
	FirstName string `json:"first_name" validate:"required,max=60"`
	LastName  string `json:"last_name" validate:"required,max=60"`
	Password  string `json:"password" validate:"required"`
	IsAdmin   *bool  `json:"is_admin" validate:"required"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// EmployeeView is the public projection of an employee. It never carries the password hash.
type EmployeeView struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
}

// NewEmployeeView projects an employee.
func NewEmployeeView(employee *domain.Employee) EmployeeView {
	return EmployeeView{
		ID:        employee.ID,
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		Email:     employee.Email,
		Username:  employee.Username,
		IsAdmin:   employee.IsAdmin,
	}
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
