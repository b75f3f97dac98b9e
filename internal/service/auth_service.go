package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/didnumber-service/internal/auth"
	"github.com/spec-kit/didnumber-service/internal/config"
	"github.com/spec-kit/didnumber-service/internal/domain"
	"github.com/spec-kit/didnumber-service/internal/events"
	"github.com/spec-kit/didnumber-service/internal/repository"
	apperrors "github.com/spec-kit/didnumber-service/pkg/util"
)

// MaxEmployeeFieldLength matches the employees text columns.
const MaxEmployeeFieldLength = 60

// InvalidCredentialsMessage is returned for both unknown email and wrong password.
const InvalidCredentialsMessage = "invalid email or password"

// SignupInput carries the fields of a new employee account.
type SignupInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	IsAdmin   bool
}

// AuthService coordinates signup and credential checks.
type AuthService struct {
	employees  repository.EmployeeRepository
	bcryptCost int
	events     publisher

	dummyOnce sync.Once
	dummyHash string
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		employees:  deps.EmployeeRepo,
		bcryptCost: cfg.Auth.BcryptCost,
		events:     publisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
	}
}

// Signup creates an employee account. Email and username uniqueness is left
// to the store's constraints.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.Employee, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if missing := in.missingFields(); len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields: "+strings.Join(missing, ", "),
			map[string]any{"fields": missing})
	}

	if long := in.longFields(); len(long) > 0 {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("%s must be at most %d characters", strings.Join(long, ", "), MaxEmployeeFieldLength),
			map[string]any{"fields": long})
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unusable password: %v", err), nil)
	}

	employee := &domain.Employee{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		IsAdmin:      in.IsAdmin,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			taken := in.Username
			if dup.Field == "email" {
				taken = in.Email
			}
			return nil, apperrors.NewAccountConflict(fmt.Sprintf("%s is already in use.", taken),
				map[string]any{"field": dup.Field})
		}
		return nil, tooLarge(err)
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventEmployeeSignedUp,
		SubjectID: employee.ID,
		Payload:   events.EmployeePayload{Email: employee.Email, Username: employee.Username, IsAdmin: employee.IsAdmin},
	})
	return employee, nil
}

// Authenticate checks an email/password pair and returns the matching employee.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewUnauthorized(InvalidCredentialsMessage)
	}

	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// same bcrypt cost as the wrong-password path
			auth.VerifyPassword(s.placeholderHash(), password)
			return nil, apperrors.NewUnauthorized(InvalidCredentialsMessage)
		}
		return nil, err
	}
	if !auth.VerifyPassword(employee.PasswordHash, password) {
		return nil, apperrors.NewUnauthorized(InvalidCredentialsMessage)
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventEmployeeLoggedIn,
		SubjectID: employee.ID,
		ActorID:   employee.ID,
	})
	return employee, nil
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword("placeholder-password", s.bcryptCost)
	})
	return s.dummyHash
}

type namedField struct {
	name  string
	value string
}

func (in SignupInput) textFields() []namedField {
	return []namedField{
		{"email", in.Email},
		{"username", in.Username},
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
	}
}

func (in SignupInput) missingFields() []string {
	var missing []string
	for _, f := range append(in.textFields(), namedField{"password", in.Password}) {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func (in SignupInput) longFields() []string {
	var long []string
	for _, f := range in.textFields() {
		if utf8.RuneCountInString(f.value) > MaxEmployeeFieldLength {
			long = append(long, f.name)
		}
	}
	return long
}
