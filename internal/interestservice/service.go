// Package interestservice runs the daily interest accrual over savings accounts.
package interestservice

import (
	"context"
	"time"

	"github.com/go-vera/ledger-bank/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var daysPerYear = decimal.NewFromInt(365)

// Accounts provides the account scan capability needed by the accrual job.
//
//go:generate mockgen -source service.go -destination service_mock.go -package interestservice
type Accounts interface {
	ListByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
}

// Ledger provides the direct-credit capability of the ledger engine.
type Ledger interface {
	CreditInterest(ctx context.Context, number, amount string) error
}

// Service facilitates the interest accrual job.
type Service struct {
	accounts Accounts
	ledger   Ledger
	hour     int // local hour of day the daily run fires at
}

// New returns interest service struct to run daily accrual.
func New(a Accounts, l Ledger, hour int) *Service {
	return &Service{
		accounts: a,
		ledger:   l,
		hour:     hour,
	}
}

// Run performs one accrual pass over all savings accounts. Each account is
// processed independently: a failure on one account is logged and the rest
// of the batch still accrues. The job is re-run the next day regardless of
// partial progress, so Run never aborts early.
func (s *Service) Run(ctx context.Context) {
	l := zerolog.Ctx(ctx).With().
		Str("job", "interest_accrual").
		Str("run_id", uuid.NewString()).
		Logger()
	ctx = l.WithContext(ctx)

	accounts, err := s.accounts.ListByType(ctx, domain.AccountTypeSavings)
	if err != nil {
		l.Error().Err(err).Msg("cannot list savings accounts")
		return
	}

	var credited int

	for _, account := range accounts {
		interest, ok := dailyInterest(account)
		if !ok {
			l.Error().Str("account", account.Number).Msg("account has non-decimal balance or rate")
			continue
		}

		// No zero-amount log entries.
		if interest.LessThanOrEqual(decimal.Zero) {
			continue
		}

		if err := s.ledger.CreditInterest(ctx, account.Number, interest.String()); err != nil {
			l.Error().Err(err).Str("account", account.Number).Msg("interest credit failed")
			continue
		}

		credited++
	}

	l.Info().Int("accounts", len(accounts)).Int("credited", credited).Msg("accrual run finished")
}

// dailyInterest computes one day of simple interest, rounded to cents.
// Multiplying before dividing keeps the arithmetic exact for rates that
// terminate in decimal form.
func dailyInterest(account domain.Account) (decimal.Decimal, bool) {
	balance, err := decimal.NewFromString(account.Balance)
	if err != nil {
		return decimal.Decimal{}, false
	}

	rate, err := decimal.NewFromString(account.InterestRate)
	if err != nil {
		return decimal.Decimal{}, false
	}

	return balance.Mul(rate).Div(daysPerYear).Round(2), true
}

// Start blocks running one accrual per calendar day at the configured hour
// until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	l := zerolog.Ctx(ctx)

	for {
		wait := time.Until(s.nextRun(time.Now()))

		l.Info().Dur("wait", wait).Msg("interest accrual scheduled")

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			s.Run(ctx)
		}
	}
}

// nextRun returns the next occurrence of the configured hour strictly after now.
func (s *Service) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}
