// Package repotest provides in-memory repositories for tests. They enforce the
// same unique constraints as the Postgres schema and report violations with
// the repository sentinels.
package repotest

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/didnumber-service/internal/domain"
	"github.com/spec-kit/didnumber-service/internal/repository"
)

var (
	_ repository.EmployeeRepository  = (*EmployeeStore)(nil)
	_ repository.DidNumberRepository = (*DidNumberStore)(nil)
)

// EmployeeStore is an in-memory repository.EmployeeRepository.
type EmployeeStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Employee
	// Err, when set, is returned by every call.
	Err error
}

// NewEmployeeStore returns an empty store.
func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{rows: map[int64]domain.Employee{}}
}

func (s *EmployeeStore) Create(_ context.Context, employee *domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, row := range s.rows {
		if row.Email == employee.Email {
			return &repository.DuplicateError{Field: "email"}
		}
		if row.Username == employee.Username {
			return &repository.DuplicateError{Field: "username"}
		}
	}
	s.nextID++
	employee.ID = s.nextID
	s.rows[employee.ID] = *employee
	return nil
}

func (s *EmployeeStore) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	row, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (s *EmployeeStore) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, row := range s.rows {
		if row.Email == email {
			return &row, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *EmployeeStore) List(_ context.Context) ([]domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]domain.Employee, 0, len(s.rows))
	for _, row := range s.rows {
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Len reports how many employees are stored.
func (s *EmployeeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Remove deletes an employee directly, bypassing the API.
func (s *EmployeeStore) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
}

// DidNumberStore is an in-memory repository.DidNumberRepository.
type DidNumberStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.DidNumber
	// Err, when set, is returned by every call.
	Err error
	// BeforeDelete runs inside Delete before the row is removed.
	BeforeDelete func(id int64)
}

// NewDidNumberStore returns an empty store.
func NewDidNumberStore() *DidNumberStore {
	return &DidNumberStore{rows: map[int64]domain.DidNumber{}}
}

func (s *DidNumberStore) Create(_ context.Context, did *domain.DidNumber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.valueTaken(did.Value, 0) {
		return &repository.DuplicateError{Field: "value"}
	}
	s.nextID++
	did.ID = s.nextID
	s.rows[did.ID] = *did
	return nil
}

func (s *DidNumberStore) Update(_ context.Context, did *domain.DidNumber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.rows[did.ID]; !ok {
		return repository.ErrNotFound
	}
	if s.valueTaken(did.Value, did.ID) {
		return &repository.DuplicateError{Field: "value"}
	}
	s.rows[did.ID] = *did
	return nil
}

func (s *DidNumberStore) Delete(_ context.Context, id int64) error {
	if s.BeforeDelete != nil {
		s.BeforeDelete(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *DidNumberStore) GetByID(_ context.Context, id int64) (*domain.DidNumber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	row, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (s *DidNumberStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return len(s.rows), nil
}

func (s *DidNumberStore) List(_ context.Context, limit, offset int) ([]domain.DidNumber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	all := make([]domain.DidNumber, 0, len(s.rows))
	for _, row := range s.rows {
		all = append(all, row)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return []domain.DidNumber{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Remove deletes a row directly, bypassing the API.
func (s *DidNumberStore) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
}

func (s *DidNumberStore) valueTaken(value string, except int64) bool {
	for id, row := range s.rows {
		if id != except && row.Value == value {
			return true
		}
	}
	return false
}
