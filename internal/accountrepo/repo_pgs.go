// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/go-vera/ledger-bank/internal/domain"
	"github.com/go-vera/ledger-bank/pkg/dbpkg"
	"github.com/go-vera/ledger-bank/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1
WHERE account_number = $2
RETURNING account_number, sort_code, type, balance, interest_rate, customer_id, created_at
`

// AddBalance changes the account's balance by the given signed amount and
// returns the changed account. The accounts_balance_check constraint rejects
// any update that would drive the balance negative, which is what makes the
// check-then-mutate sequence safe under concurrent transfers.
func (r *RepoPGS) AddBalance(ctx context.Context, amount, number string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, number)

	var a domain.Account

	err := row.Scan(
		&a.Number,
		&a.SortCode,
		&a.Type,
		&a.Balance,
		&a.InterestRate,
		&a.CustomerID,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientBalance
			}
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const createQuery = `
INSERT INTO
    accounts (account_number, sort_code, type, balance, interest_rate, customer_id)
VALUES
    ($1, $2, $3, 0, $4, $5)
RETURNING account_number, sort_code, type, balance, interest_rate, customer_id, created_at
`

// Create opens the account with zero balance and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Number,
		arg.SortCode,
		arg.Type,
		arg.InterestRate,
		arg.CustomerID,
	)

	var a domain.Account

	err := row.Scan(
		&a.Number,
		&a.SortCode,
		&a.Type,
		&a.Balance,
		&a.InterestRate,
		&a.CustomerID,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_pkey" {
				return a, domain.ErrAccountNumberAlreadyExists
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	account_number, sort_code, type, balance, interest_rate, customer_id, created_at
FROM accounts
WHERE account_number = $1
`

// Get returns the account with the given account number.
func (r *RepoPGS) Get(ctx context.Context, number string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, number)

	var a domain.Account

	err := row.Scan(
		&a.Number,
		&a.SortCode,
		&a.Type,
		&a.Balance,
		&a.InterestRate,
		&a.CustomerID,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listByTypeQuery = `
SELECT
	account_number, sort_code, type, balance, interest_rate, customer_id, created_at
FROM accounts
WHERE type = $1
ORDER BY account_number
`

// ListByType returns all accounts of the given type.
func (r *RepoPGS) ListByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByTypeQuery, accountType)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.Number, &a.SortCode, &a.Type, &a.Balance, &a.InterestRate, &a.CustomerID, &a.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const listByCustomerQuery = `
SELECT
	account_number, sort_code, type, balance, interest_rate, customer_id, created_at
FROM accounts
WHERE customer_id = $1
ORDER BY account_number
LIMIT $2 OFFSET $3
`

// ListByCustomer returns the specified number of accounts for the given customer.
func (r *RepoPGS) ListByCustomer(ctx context.Context, customerID int64, limit, offset int32) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByCustomerQuery, customerID, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.Number, &a.SortCode, &a.Type, &a.Balance, &a.InterestRate, &a.CustomerID, &a.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
