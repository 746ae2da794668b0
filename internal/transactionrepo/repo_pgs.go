// Package transactionrepo manages repository layer of the transaction log.
package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/go-vera/ledger-bank/internal/domain"
	"github.com/go-vera/ledger-bank/pkg/dbpkg"
	"github.com/go-vera/ledger-bank/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    transactions (type, amount, from_account, to_account, status, description)
VALUES
    ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
RETURNING id, type, amount, COALESCE(from_account, ''), COALESCE(to_account, ''), status, description, created_at
`

// Create appends one record to the transaction log and then returns it.
// Records are never updated or deleted afterwards.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Type,
		arg.Amount,
		arg.FromAccount,
		arg.ToAccount,
		arg.Status,
		arg.Description,
	)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.Type,
		&t.Amount,
		&t.FromAccount,
		&t.ToAccount,
		&t.Status,
		&t.Description,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_from_account_fkey", "transactions_to_account_fkey":
				return t, domain.ErrAccountNotFound
			case "transactions_amount_check":
				return t, domain.ErrNonPositiveAmount
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT
	id, type, amount, COALESCE(from_account, ''), COALESCE(to_account, ''), status, description, created_at
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.Type,
		&t.Amount,
		&t.FromAccount,
		&t.ToAccount,
		&t.Status,
		&t.Description,
		&t.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listByAccountQuery = `
SELECT
	id, type, amount, COALESCE(from_account, ''), COALESCE(to_account, ''), status, description, created_at
FROM transactions
WHERE from_account = $1 OR to_account = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

// ListByAccount returns the account's transactions, newest first.
func (r *RepoPGS) ListByAccount(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByAccountQuery, arg.Account, arg.Limit, arg.Offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.Type,
			&t.Amount,
			&t.FromAccount,
			&t.ToAccount,
			&t.Status,
			&t.Description,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
