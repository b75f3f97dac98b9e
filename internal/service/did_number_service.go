package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/didnumber-service/internal/config"
	"github.com/spec-kit/didnumber-service/internal/domain"
	"github.com/spec-kit/didnumber-service/internal/events"
	"github.com/spec-kit/didnumber-service/internal/repository"
	apperrors "github.com/spec-kit/didnumber-service/pkg/util"
)

const (
	// MaxDidValueLength matches the did_numbers.value column.
	MaxDidValueLength = 17
	// MaxCurrencyLength matches the did_numbers.currency column.
	MaxCurrencyLength = 3
	// PriceScale is the number of decimal places kept by NUMERIC(10,4).
	PriceScale = 4
)

// maxPrice is the first value NUMERIC(10,4) cannot hold.
var maxPrice = decimal.New(1, 10-PriceScale)

var didValuePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()-]*$`)

// ValidDidValue reports whether v looks like a dialable number.
func ValidDidValue(v string) bool {
	return len(v) <= MaxDidValueLength && didValuePattern.MatchString(v)
}

// DidNumberInput is the full set of mutable DID number fields.
type DidNumberInput struct {
	Value        string
	MonthlyPrice decimal.Decimal
	SetupPrice   decimal.Decimal
	Currency     string
}

// DidNumberService implements the inventory operations.
type DidNumberService struct {
	repo            repository.DidNumberRepository
	events          publisher
	defaultPageSize int
	maxPageSize     int
}

// DidNumberDependencies encapsulates requirements for the inventory service.
type DidNumberDependencies struct {
	DidNumberRepo repository.DidNumberRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewDidNumberService builds the service.
func NewDidNumberService(cfg config.InventoryConfig, deps DidNumberDependencies) *DidNumberService {
	return &DidNumberService{
		repo:            deps.DidNumberRepo,
		events:          publisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
	}
}

// DefaultPageSize is used when the caller does not pick one.
func (s *DidNumberService) DefaultPageSize() int {
	return s.defaultPageSize
}

// List returns one page of the inventory in ascending id order. An empty
// store yields a page with Count 0; a page past the end is NotFound.
func (s *DidNumberService) List(ctx context.Context, page, perPage int) (domain.DidNumberPage, error) {
	if perPage == 0 {
		perPage = s.defaultPageSize
	}
	if page < 1 {
		return domain.DidNumberPage{}, apperrors.NewValidationError("page must be a positive integer", nil)
	}
	if perPage < 1 || perPage > s.maxPageSize {
		return domain.DidNumberPage{}, apperrors.NewValidationError(
			fmt.Sprintf("per_page must be between 1 and %d", s.maxPageSize), nil)
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return domain.DidNumberPage{}, err
	}
	result := domain.DidNumberPage{Page: page, PerPage: perPage, Count: count, Items: []domain.DidNumber{}}
	if count == 0 {
		return result, nil
	}

	// (page-1)*perPage overflows for huge page numbers
	if page-1 > (count-1)/perPage {
		return domain.DidNumberPage{}, apperrors.NewNotFound("page", map[string]any{"page": page})
	}
	offset := (page - 1) * perPage
	items, err := s.repo.List(ctx, perPage, offset)
	if err != nil {
		return domain.DidNumberPage{}, err
	}
	result.Start = offset + 1
	result.Items = items
	return result, nil
}

// Get returns a single DID number.
func (s *DidNumberService) Get(ctx context.Context, id int64) (*domain.DidNumber, error) {
	did, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return did, nil
}

// Add stores a new DID number. A taken value fails with Conflict and stores nothing.
func (s *DidNumberService) Add(ctx context.Context, actorID int64, in DidNumberInput) (*domain.DidNumber, error) {
	in, err := normalizeDidInput(in)
	if err != nil {
		return nil, err
	}

	did := &domain.DidNumber{
		Value:        in.Value,
		MonthlyPrice: in.MonthlyPrice,
		SetupPrice:   in.SetupPrice,
		Currency:     in.Currency,
	}
	if err := s.repo.Create(ctx, did); err != nil {
		return nil, duplicateValue(err, in.Value)
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventDidNumberCreated,
		SubjectID: did.ID,
		ActorID:   actorID,
		Payload:   didPayload(did),
	})
	return did, nil
}

// Edit replaces every field of an existing DID number. On Conflict the stored
// record is left untouched.
func (s *DidNumberService) Edit(ctx context.Context, actorID, id int64, in DidNumberInput) (*domain.DidNumber, error) {
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}

	in, err = normalizeDidInput(in)
	if err != nil {
		return nil, err
	}

	did := &domain.DidNumber{
		ID:           id,
		Value:        in.Value,
		MonthlyPrice: in.MonthlyPrice,
		SetupPrice:   in.SetupPrice,
		Currency:     in.Currency,
	}
	if err := s.repo.Update(ctx, did); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(err, id)
		}
		return nil, duplicateValue(err, in.Value)
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventDidNumberUpdated,
		SubjectID: did.ID,
		ActorID:   actorID,
		Payload:   events.DidNumberUpdatedPayload{OldValue: previous.Value, New: didPayload(did)},
	})
	return did, nil
}

// Delete removes a DID number. Losing a race with another delete is a Conflict.
func (s *DidNumberService) Delete(ctx context.Context, actorID, id int64) error {
	did, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewConflict("DID number was already removed", map[string]any{"id": id})
		}
		return err
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventDidNumberDeleted,
		SubjectID: id,
		ActorID:   actorID,
		Payload:   events.DidNumberPayload{Value: did.Value},
	})
	return nil
}

func normalizeDidInput(in DidNumberInput) (DidNumberInput, error) {
	in.Value = strings.TrimSpace(in.Value)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))

	switch {
	case in.Value == "":
		return in, apperrors.NewValidationError("value is required", nil)
	case !ValidDidValue(in.Value):
		return in, apperrors.NewValidationError(
			fmt.Sprintf("value must be a phone number of at most %d characters", MaxDidValueLength), nil)
	case in.MonthlyPrice.IsNegative() || in.SetupPrice.IsNegative():
		return in, apperrors.NewValidationError("prices must not be negative", nil)
	case !validPrice(in.MonthlyPrice) || !validPrice(in.SetupPrice):
		return in, apperrors.NewValidationError(
			fmt.Sprintf("prices must be below %s with at most %d decimal places", maxPrice, PriceScale), nil)
	case in.Currency == "":
		return in, apperrors.NewValidationError("currency is required", nil)
	case len(in.Currency) > MaxCurrencyLength:
		return in, apperrors.NewValidationError(
			fmt.Sprintf("currency must be at most %d characters", MaxCurrencyLength), nil)
	}
	return in, nil
}

func validPrice(p decimal.Decimal) bool {
	return p.LessThan(maxPrice) && p.Truncate(PriceScale).Equal(p)
}

func notFound(err error, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("DID number", map[string]any{"id": id})
	}
	return err
}

func duplicateValue(err error, value string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict("DID number value already exists", map[string]any{"value": value})
	}
	return tooLarge(err)
}

func tooLarge(err error) error {
	if errors.Is(err, repository.ErrValueTooLarge) {
		return apperrors.NewValidationError("a field exceeds its storage limit", nil)
	}
	return err
}

func didPayload(did *domain.DidNumber) events.DidNumberPayload {
	return events.DidNumberPayload{
		Value:        did.Value,
		MonthlyPrice: did.MonthlyPrice.String(),
		SetupPrice:   did.SetupPrice.String(),
		Currency:     did.Currency,
	}
}
