// Package ledgerrepo executes money movements as single database transactions.
//
// Every balance mutation and its corresponding transaction-log append commit
// together or not at all. A failed balance check rolls back the whole unit,
// so no observer ever sees a log entry without its balance change or one
// side of a transfer without the other.
package ledgerrepo

import (
	"context"
	"database/sql"

	"github.com/go-vera/ledger-bank/internal/accountrepo"
	"github.com/go-vera/ledger-bank/internal/domain"
	"github.com/go-vera/ledger-bank/internal/transactionrepo"
	"github.com/go-vera/ledger-bank/pkg/errorspkg"

	"github.com/rs/zerolog"
)

// RepoPGS facilitates ledger repository layer logic.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns ledger RepoPGS.
func NewRepoPGS(conn *sql.DB) *RepoPGS {
	return &RepoPGS{conn: conn}
}

func (r *RepoPGS) inTx(ctx context.Context, fn func(accounts *accountrepo.RepoPGS, transactions *transactionrepo.RepoPGS) error) error {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	if err := fn(accountrepo.NewRepoPGS(tx), transactionrepo.NewRepoPGS(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// DepositTx credits the account and appends a DEPOSIT record in one unit.
func (r *RepoPGS) DepositTx(ctx context.Context, number, amount string) (domain.Transaction, error) {
	var transaction domain.Transaction

	err := r.inTx(ctx, func(accounts *accountrepo.RepoPGS, transactions *transactionrepo.RepoPGS) error {
		if _, err := accounts.AddBalance(ctx, amount, number); err != nil {
			return err
		}

		var err error
		transaction, err = transactions.Create(ctx, domain.CreateTransactionParams{
			Type:        domain.TransactionTypeDeposit,
			Amount:      amount,
			ToAccount:   number,
			Status:      domain.TransactionStatusSuccess,
			Description: "Deposit into " + number,
		})

		return err
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	return transaction, nil
}

// WithdrawTx debits the account and appends a WITHDRAW record in one unit.
// Overdrafts are rejected by the accounts_balance_check constraint, which
// surfaces as domain.ErrInsufficientBalance.
func (r *RepoPGS) WithdrawTx(ctx context.Context, number, amount string) (domain.Transaction, error) {
	var transaction domain.Transaction

	err := r.inTx(ctx, func(accounts *accountrepo.RepoPGS, transactions *transactionrepo.RepoPGS) error {
		if _, err := accounts.AddBalance(ctx, "-"+amount, number); err != nil {
			return err
		}

		var err error
		transaction, err = transactions.Create(ctx, domain.CreateTransactionParams{
			Type:        domain.TransactionTypeWithdraw,
			Amount:      amount,
			FromAccount: number,
			Status:      domain.TransactionStatusSuccess,
			Description: "Withdraw from " + number,
		})

		return err
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	return transaction, nil
}

// TransferTx moves money between two accounts and appends a single TRANSFER
// record, all in one unit.
func (r *RepoPGS) TransferTx(ctx context.Context, from, to, amount string) (domain.TransferTxResult, error) {
	var result domain.TransferTxResult

	err := r.inTx(ctx, func(accounts *accountrepo.RepoPGS, transactions *transactionrepo.RepoPGS) error {
		// To avoid deadlocks execute balance updates in consistent account order.
		var err error
		if from < to {
			if result.FromAccount, err = accounts.AddBalance(ctx, "-"+amount, from); err != nil {
				return err
			}

			if result.ToAccount, err = accounts.AddBalance(ctx, amount, to); err != nil {
				return err
			}
		} else {
			if result.ToAccount, err = accounts.AddBalance(ctx, amount, to); err != nil {
				return err
			}

			if result.FromAccount, err = accounts.AddBalance(ctx, "-"+amount, from); err != nil {
				return err
			}
		}

		result.Transaction, err = transactions.Create(ctx, domain.CreateTransactionParams{
			Type:        domain.TransactionTypeTransfer,
			Amount:      amount,
			FromAccount: from,
			ToAccount:   to,
			Status:      domain.TransactionStatusSuccess,
			Description: "Transfer from " + from + " to " + to,
		})

		return err
	})
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	return result, nil
}

// InterestTx credits accrued interest and appends an INTEREST record in one
// unit. Interest has no source account, so the credit is direct rather than
// a transfer.
func (r *RepoPGS) InterestTx(ctx context.Context, number, amount string) (domain.Transaction, error) {
	var transaction domain.Transaction

	err := r.inTx(ctx, func(accounts *accountrepo.RepoPGS, transactions *transactionrepo.RepoPGS) error {
		if _, err := accounts.AddBalance(ctx, amount, number); err != nil {
			return err
		}

		var err error
		transaction, err = transactions.Create(ctx, domain.CreateTransactionParams{
			Type:        domain.TransactionTypeInterest,
			Amount:      amount,
			ToAccount:   number,
			Status:      domain.TransactionStatusSuccess,
			Description: "Daily interest",
		})

		return err
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	return transaction, nil
}
