package service

import (
	"context"
	"errors"

	"github.com/spec-kit/didnumber-service/internal/domain"
	"github.com/spec-kit/didnumber-service/internal/repository"
	apperrors "github.com/spec-kit/didnumber-service/pkg/util"
)

// EmployeeService is the read-only employee directory.
type EmployeeService struct {
	employees repository.EmployeeRepository
}

// NewEmployeeService builds the service.
func NewEmployeeService(employees repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employees: employees}
}

// ListAll returns every employee ordered by id.
func (s *EmployeeService) ListAll(ctx context.Context) ([]domain.Employee, error) {
	return s.employees.List(ctx)
}

// Detail returns one employee.
func (s *EmployeeService) Detail(ctx context.Context, id int64) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"id": id})
		}
		return nil, err
	}
	return employee, nil
}
