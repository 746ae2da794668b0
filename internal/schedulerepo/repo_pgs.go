// Package schedulerepo manages repository layer of scheduled payments.
package schedulerepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-vera/ledger-bank/internal/domain"
	"github.com/go-vera/ledger-bank/pkg/dbpkg"
	"github.com/go-vera/ledger-bank/pkg/errorspkg"

	"github.com/rs/zerolog"
)

// RepoPGS facilitates scheduled payment repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns scheduled payment RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    scheduled_payments (from_account, to_account, amount, frequency, next_execution, active)
VALUES
    ($1, $2, $3, $4, $5, true)
RETURNING id, from_account, to_account, amount, frequency, next_execution, active, created_at
`

// Create persists a new scheduled payment and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateScheduledPaymentParams) (domain.ScheduledPayment, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.FromAccount,
		arg.ToAccount,
		arg.Amount,
		arg.Frequency,
		arg.NextExecution,
	)

	var p domain.ScheduledPayment

	err := row.Scan(
		&p.ID,
		&p.FromAccount,
		&p.ToAccount,
		&p.Amount,
		&p.Frequency,
		&p.NextExecution,
		&p.Active,
		&p.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)
		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const getQuery = `
SELECT
	id, from_account, to_account, amount, frequency, next_execution, active, created_at
FROM scheduled_payments
WHERE id = $1
`

// Get returns the scheduled payment with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.ScheduledPayment, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var p domain.ScheduledPayment

	err := row.Scan(
		&p.ID,
		&p.FromAccount,
		&p.ToAccount,
		&p.Amount,
		&p.Frequency,
		&p.NextExecution,
		&p.Active,
		&p.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return p, domain.ErrScheduledPaymentNotFound
		}

		l.Error().Err(err).Send()

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const setActiveQuery = `
UPDATE scheduled_payments
SET active = $1
WHERE id = $2
RETURNING id
`

// SetActive flips the active flag. Cancelled payments stay on record with
// active = false; rows are never deleted.
func (r *RepoPGS) SetActive(ctx context.Context, id int64, active bool) error {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, setActiveQuery, active, id)

	var returned int64
	if err := row.Scan(&returned); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrScheduledPaymentNotFound
		}

		l.Error().Err(err).Send()

		return errorspkg.ErrInternal
	}

	return nil
}

const updateNextExecutionQuery = `
UPDATE scheduled_payments
SET next_execution = $1
WHERE id = $2
RETURNING id
`

// UpdateNextExecution advances the payment's next execution time.
func (r *RepoPGS) UpdateNextExecution(ctx context.Context, id int64, next time.Time) error {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateNextExecutionQuery, next, id)

	var returned int64
	if err := row.Scan(&returned); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrScheduledPaymentNotFound
		}

		l.Error().Err(err).Send()

		return errorspkg.ErrInternal
	}

	return nil
}

const listQuery = `
SELECT
	id, from_account, to_account, amount, frequency, next_execution, active, created_at
FROM scheduled_payments
ORDER BY id
`

// List returns all scheduled payments, cancelled ones included.
func (r *RepoPGS) List(ctx context.Context) ([]domain.ScheduledPayment, error) {
	return r.queryMany(ctx, listQuery)
}

const listDueQuery = `
SELECT
	id, from_account, to_account, amount, frequency, next_execution, active, created_at
FROM scheduled_payments
WHERE active AND next_execution <= $1
ORDER BY id
`

// ListDue returns active payments whose next execution is at or before now.
func (r *RepoPGS) ListDue(ctx context.Context, now time.Time) ([]domain.ScheduledPayment, error) {
	return r.queryMany(ctx, listDueQuery, now)
}

func (r *RepoPGS) queryMany(ctx context.Context, query string, args ...interface{}) ([]domain.ScheduledPayment, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.ScheduledPayment{}

	for rows.Next() {
		var p domain.ScheduledPayment
		if err := rows.Scan(
			&p.ID,
			&p.FromAccount,
			&p.ToAccount,
			&p.Amount,
			&p.Frequency,
			&p.NextExecution,
			&p.Active,
			&p.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, p)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
