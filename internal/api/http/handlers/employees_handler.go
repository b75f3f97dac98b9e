package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/didnumber-service/internal/api/dto"
	"github.com/spec-kit/didnumber-service/internal/service"
)

// EmployeesHandler serves the admin employee directory.
type EmployeesHandler struct {
	service *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employeeService *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{service: employeeService}
}

// List handles GET /employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	employees, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	views := make([]dto.EmployeeView, 0, len(employees))
	for i := range employees {
		views = append(views, dto.NewEmployeeView(&employees[i]))
	}
	return c.JSON(views)
}

// Get handles GET /employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	employee, err := h.service.Detail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeView(employee))
}
