// Package ledgerservice manages business logic layer of the ledger engine.
//
// All money movement in the system funnels through this package. Each
// operation validates its preconditions, then hands the balance mutation and
// log append to the repository, which executes them as one database
// transaction. Validation failures surface as a false result with a nil
// error; only storage faults produce a non-nil error.
package ledgerservice

import (
	"context"

	"github.com/go-vera/ledger-bank/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	DepositTx(ctx context.Context, number, amount string) (domain.Transaction, error)
	WithdrawTx(ctx context.Context, number, amount string) (domain.Transaction, error)
	TransferTx(ctx context.Context, from, to, amount string) (domain.TransferTxResult, error)
	InterestTx(ctx context.Context, number, amount string) (domain.Transaction, error)
}

// Accounts provides the account lookup capability the ledger consumes.
type Accounts interface {
	Get(ctx context.Context, number string) (domain.Account, error)
}

// Transactions provides read access to the transaction log.
type Transactions interface {
	ListByAccount(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error)
}

// Service facilitates ledger service layer logic.
type Service struct {
	repo         Repo
	accounts     Accounts
	transactions Transactions
}

// New returns ledger service struct to manage ledger business logic.
func New(r Repo, a Accounts, t Transactions) *Service {
	return &Service{
		repo:         r,
		accounts:     a,
		transactions: t,
	}
}

// parseAmount returns the amount as a decimal if it is a well formed
// positive number.
func parseAmount(ctx context.Context, amount string) (decimal.Decimal, bool) {
	l := zerolog.Ctx(ctx)

	d, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Str("amount", amount).Msg("rejected: invalid amount")
		return decimal.Decimal{}, false
	}

	if d.LessThanOrEqual(decimal.Zero) {
		l.Info().Str("amount", amount).Msg("rejected: non-positive amount")
		return decimal.Decimal{}, false
	}

	return d, true
}

// mapTxErr translates repository errors into the boolean contract: balance
// and existence violations detected inside the database transaction count as
// validation failures (false, nil), everything else is a storage fault.
func mapTxErr(ctx context.Context, err error) (bool, error) {
	if err == domain.ErrAccountNotFound || err == domain.ErrInsufficientBalance {
		zerolog.Ctx(ctx).Info().Err(err).Msg("rejected inside transaction")
		return false, nil
	}

	return false, err
}

// Deposit credits the account. It returns false with a nil error when the
// amount is not positive or the account does not exist.
func (s *Service) Deposit(ctx context.Context, number, amount string) (bool, error) {
	l := zerolog.Ctx(ctx)

	if _, ok := parseAmount(ctx, amount); !ok {
		return false, nil
	}

	if _, err := s.accounts.Get(ctx, number); err != nil {
		if err == domain.ErrAccountNotFound {
			l.Info().Str("account", number).Msg("deposit rejected: unknown account")
			return false, nil
		}

		return false, err
	}

	if _, err := s.repo.DepositTx(ctx, number, amount); err != nil {
		return mapTxErr(ctx, err)
	}

	l.Info().Str("account", number).Str("amount", amount).Msg("deposit")

	return true, nil
}

// Withdraw debits the account. It returns false with a nil error when the
// amount is not positive, the account does not exist, or the balance does
// not cover the amount.
func (s *Service) Withdraw(ctx context.Context, number, amount string) (bool, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, ok := parseAmount(ctx, amount)
	if !ok {
		return false, nil
	}

	account, err := s.accounts.Get(ctx, number)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			l.Info().Str("account", number).Msg("withdraw rejected: unknown account")
			return false, nil
		}

		return false, err
	}

	balance, err := decimal.NewFromString(account.Balance)
	if err != nil {
		l.Error().Err(err).Str("account", number).Msg("stored balance is not a decimal")
		return false, err
	}

	if balance.LessThan(amountDecimal) {
		l.Info().Str("account", number).Str("amount", amount).Msg("withdraw rejected: insufficient balance")
		return false, nil
	}

	if _, err := s.repo.WithdrawTx(ctx, number, amount); err != nil {
		return mapTxErr(ctx, err)
	}

	l.Info().Str("account", number).Str("amount", amount).Msg("withdraw")

	return true, nil
}

// Transfer moves money between two accounts. It returns false with a nil
// error when either account is missing, the amount is not positive, or the
// source balance does not cover the amount. The repository applies both
// balance changes and the single TRANSFER record as one indivisible unit, so
// a concurrent transfer that invalidates the balance check here is still
// rejected, not overdrawn.
func (s *Service) Transfer(ctx context.Context, from, to, amount string) (bool, error) {
	l := zerolog.Ctx(ctx)

	if from == "" || to == "" {
		l.Info().Msg("transfer rejected: missing account number")
		return false, nil
	}

	amountDecimal, ok := parseAmount(ctx, amount)
	if !ok {
		return false, nil
	}

	if _, err := s.accounts.Get(ctx, to); err != nil {
		if err == domain.ErrAccountNotFound {
			l.Info().Str("account", to).Msg("transfer rejected: unknown destination account")
			return false, nil
		}

		return false, err
	}

	fromAccount, err := s.accounts.Get(ctx, from)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			l.Info().Str("account", from).Msg("transfer rejected: unknown source account")
			return false, nil
		}

		return false, err
	}

	balance, err := decimal.NewFromString(fromAccount.Balance)
	if err != nil {
		l.Error().Err(err).Str("account", from).Msg("stored balance is not a decimal")
		return false, err
	}

	if balance.LessThan(amountDecimal) {
		l.Info().Str("from", from).Str("amount", amount).Msg("transfer rejected: insufficient balance")
		return false, nil
	}

	if _, err := s.repo.TransferTx(ctx, from, to, amount); err != nil {
		return mapTxErr(ctx, err)
	}

	l.Info().Str("from", from).Str("to", to).Str("amount", amount).Msg("transfer")

	return true, nil
}

// CreditInterest credits accrued interest directly to the account and logs
// an INTEREST record. There is no source account, so this is not a transfer.
func (s *Service) CreditInterest(ctx context.Context, number, amount string) error {
	if _, ok := parseAmount(ctx, amount); !ok {
		return domain.ErrNonPositiveAmount
	}

	if _, err := s.repo.InterestTx(ctx, number, amount); err != nil {
		return err
	}

	return nil
}

// ListTransactions returns the account's transaction history, newest first.
func (s *Service) ListTransactions(ctx context.Context, number string, pageSize, pageID int32) ([]domain.Transaction, error) {
	arg := domain.ListTransactionsParams{
		Account: number,
		Limit:   pageSize,
		Offset:  (pageID - 1) * pageSize,
	}

	return s.transactions.ListByAccount(ctx, arg)
}
