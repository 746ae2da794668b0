// Package scheduleservice manages recurring transfer definitions and the
// periodic sweep that executes the due ones.
package scheduleservice

import (
	"context"
	"time"

	"github.com/go-vera/ledger-bank/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// initialDelay is the gap between creating a scheduled payment and its first
// execution, kept short so the first run is observable quickly.
const initialDelay = time.Minute

// Repo provides data access layer interface needed by schedule service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package scheduleservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateScheduledPaymentParams) (domain.ScheduledPayment, error)
	Get(ctx context.Context, id int64) (domain.ScheduledPayment, error)
	SetActive(ctx context.Context, id int64, active bool) error
	UpdateNextExecution(ctx context.Context, id int64, next time.Time) error
	List(ctx context.Context) ([]domain.ScheduledPayment, error)
	ListDue(ctx context.Context, now time.Time) ([]domain.ScheduledPayment, error)
}

// Ledger provides the transfer capability of the ledger engine.
type Ledger interface {
	Transfer(ctx context.Context, from, to, amount string) (bool, error)
}

// Service facilitates scheduled payment business logic and the sweep loop.
type Service struct {
	repo     Repo
	ledger   Ledger
	interval time.Duration
	now      func() time.Time
}

// New returns schedule service struct to manage scheduled payments.
func New(r Repo, l Ledger, interval time.Duration) *Service {
	return &Service{
		repo:     r,
		ledger:   l,
		interval: interval,
		now:      time.Now,
	}
}

// Create validates the request and persists an active scheduled payment with
// its first execution one minute from now.
func (s *Service) Create(ctx context.Context, arg domain.CreateScheduledPaymentParams) (domain.ScheduledPayment, error) {
	l := zerolog.Ctx(ctx)

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Info().Str("amount", arg.Amount).Msg("rejected: invalid amount")
		return domain.ScheduledPayment{}, domain.ErrInvalidAmount
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		l.Info().Str("amount", arg.Amount).Msg("rejected: non-positive amount")
		return domain.ScheduledPayment{}, domain.ErrNonPositiveAmount
	}

	if !arg.Frequency.Valid() {
		return domain.ScheduledPayment{}, domain.ErrInvalidFrequency
	}

	arg.NextExecution = s.now().Add(initialDelay)

	payment, err := s.repo.Create(ctx, arg)
	if err != nil {
		return domain.ScheduledPayment{}, err
	}

	l.Info().Int64("id", payment.ID).Str("frequency", string(payment.Frequency)).Msg("scheduled payment created")

	return payment, nil
}

// Cancel deactivates the scheduled payment. Cancelling an already inactive
// payment is a no-op; the definition is kept on record either way.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Int64("id", id).Msg("scheduled payment cancelled")

	return nil
}

// List returns all scheduled payments, cancelled ones included.
func (s *Service) List(ctx context.Context) ([]domain.ScheduledPayment, error) {
	return s.repo.List(ctx)
}

// Sweep executes every active payment whose next execution is due at now.
// A successful transfer advances the payment by one period; a rejected or
// failed one is left untouched and will be retried on every subsequent
// sweep. There is deliberately no backoff or auto-deactivation here; see
// DESIGN.md for that policy decision. Payments are independent: one failure
// never blocks the rest of the batch.
func (s *Service) Sweep(ctx context.Context, now time.Time) {
	l := zerolog.Ctx(ctx).With().
		Str("job", "payment_sweep").
		Str("run_id", uuid.NewString()).
		Logger()
	ctx = l.WithContext(ctx)

	due, err := s.repo.ListDue(ctx, now)
	if err != nil {
		l.Error().Err(err).Msg("cannot list due payments")
		return
	}

	if len(due) == 0 {
		return
	}

	var executed int

	for _, payment := range due {
		ok, err := s.ledger.Transfer(ctx, payment.FromAccount, payment.ToAccount, payment.Amount)
		if err != nil {
			l.Error().Err(err).Int64("id", payment.ID).Msg("scheduled transfer failed")
			continue
		}

		if !ok {
			l.Info().Int64("id", payment.ID).Msg("scheduled transfer rejected, will retry next sweep")
			continue
		}

		next := payment.Frequency.Next(payment.NextExecution)
		if err := s.repo.UpdateNextExecution(ctx, payment.ID, next); err != nil {
			l.Error().Err(err).Int64("id", payment.ID).Msg("cannot advance next execution")
			continue
		}

		executed++
	}

	l.Info().Int("due", len(due)).Int("executed", executed).Msg("sweep finished")
}

// Start blocks running sweeps on the configured interval until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx, s.now())
		}
	}
}
