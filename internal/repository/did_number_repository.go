package repository

import (
	"context"
	"database/sql"

	"github.com/spec-kit/didnumber-service/internal/domain"
)

// DidNumberRepository manages DID number persistence. Value uniqueness is
// enforced by the did_numbers_value_key constraint and surfaces as ErrDuplicate.
type DidNumberRepository interface {
	Create(ctx context.Context, did *domain.DidNumber) error
	Update(ctx context.Context, did *domain.DidNumber) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.DidNumber, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, limit, offset int) ([]domain.DidNumber, error)
}

type didNumberRepository struct {
	db *sql.DB
}

// NewDidNumberRepository builds the repository.
func NewDidNumberRepository(db *sql.DB) DidNumberRepository {
	return &didNumberRepository{db: db}
}

func (r *didNumberRepository) Create(ctx context.Context, did *domain.DidNumber) error {
	const query = `
        INSERT INTO did_numbers (value, monthly_price, setup_price, currency)
        VALUES ($1, $2, $3, $4)
        RETURNING id, value, monthly_price, setup_price, currency`
	err := scanDidNumber(r.db.QueryRowContext(ctx, query,
		did.Value,
		did.MonthlyPrice,
		did.SetupPrice,
		did.Currency,
	), did)
	return translate(err)
}

// Update replaces all mutable columns inside one transaction. On any failure,
// including a value collision, the row keeps its previous contents.
func (r *didNumberRepository) Update(ctx context.Context, did *domain.DidNumber) error {
	const lock = `SELECT id FROM did_numbers WHERE id=$1 FOR UPDATE`
	const update = `
        UPDATE did_numbers SET value=$1, monthly_price=$2, setup_price=$3, currency=$4
        WHERE id=$5
        RETURNING id, value, monthly_price, setup_price, currency`

	err := WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		var id int64
		if err := tx.QueryRowContext(ctx, lock, did.ID).Scan(&id); err != nil {
			return err
		}
		return scanDidNumber(tx.QueryRowContext(ctx, update,
			did.Value,
			did.MonthlyPrice,
			did.SetupPrice,
			did.Currency,
			did.ID,
		), did)
	})
	return translate(err)
}

func (r *didNumberRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM did_numbers WHERE id=$1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translate(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return translate(err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *didNumberRepository) GetByID(ctx context.Context, id int64) (*domain.DidNumber, error) {
	const query = `
        SELECT id, value, monthly_price, setup_price, currency
        FROM did_numbers WHERE id=$1`
	var did domain.DidNumber
	if err := scanDidNumber(r.db.QueryRowContext(ctx, query, id), &did); err != nil {
		return nil, translate(err)
	}
	return &did, nil
}

func (r *didNumberRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM did_numbers`
	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *didNumberRepository) List(ctx context.Context, limit, offset int) ([]domain.DidNumber, error) {
	const query = `
        SELECT id, value, monthly_price, setup_price, currency
        FROM did_numbers ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := []domain.DidNumber{}
	for rows.Next() {
		var did domain.DidNumber
		if err := scanDidNumber(rows, &did); err != nil {
			return nil, translate(err)
		}
		result = append(result, did)
	}
	return result, translate(rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDidNumber(row rowScanner, did *domain.DidNumber) error {
	return row.Scan(
		&did.ID,
		&did.Value,
		&did.MonthlyPrice,
		&did.SetupPrice,
		&did.Currency,
	)
}
