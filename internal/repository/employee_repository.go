package repository

import (
	"context"
	"database/sql"

	"github.com/spec-kit/didnumber-service/internal/domain"
)

// EmployeeRepository defines persistence access for employee accounts.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
}

type employeeRepository struct {
	db DBTX
}

// NewEmployeeRepository returns a Postgres-backed implementation.
func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (first_name, last_name, email, username, password_hash, is_admin)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		employee.FirstName,
		employee.LastName,
		employee.Email,
		employee.Username,
		employee.PasswordHash,
		employee.IsAdmin,
	).Scan(&employee.ID)
	return translate(err)
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	const query = `
        SELECT id, first_name, last_name, email, username, password_hash, is_admin
        FROM employees WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	const query = `
        SELECT id, first_name, last_name, email, username, password_hash, is_admin
        FROM employees WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *employeeRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Employee, error) {
	var employee domain.Employee
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&employee.ID,
		&employee.FirstName,
		&employee.LastName,
		&employee.Email,
		&employee.Username,
		&employee.PasswordHash,
		&employee.IsAdmin,
	); err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	const query = `
        SELECT id, first_name, last_name, email, username, password_hash, is_admin
        FROM employees ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.Employee{}
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.FirstName,
			&employee.LastName,
			&employee.Email,
			&employee.Username,
			&employee.PasswordHash,
			&employee.IsAdmin,
		); err != nil {
			return nil, translate(err)
		}
		result = append(result, employee)
	}
	return result, translate(rows.Err())
}
