package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes translated into sentinels.
const (
	uniqueViolation   = "23505"
	stringTooLong     = "22001"
	numericOutOfRange = "22003"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is matched by every *DuplicateError.
	ErrDuplicate = errors.New("duplicate value")
	// ErrValueTooLarge is returned when a value does not fit its column.
	ErrValueTooLarge = errors.New("value does not fit column")
)

// DuplicateError names the column whose unique constraint rejected a write.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s", e.Field)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

var constraintFields = map[string]string{
	"employees_email_key":    "email",
	"employees_username_key": "username",
	"did_numbers_value_key":  "value",
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			field, ok := constraintFields[pgErr.ConstraintName]
			if !ok {
				field = pgErr.ConstraintName
			}
			return &DuplicateError{Field: field}
		case stringTooLong, numericOutOfRange:
			return fmt.Errorf("%w: %s", ErrValueTooLarge, pgErr.Message)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
