package scheduleservice

import (
	"context"
	"testing"
	"time"

	"github.com/go-vera/ledger-bank/internal/domain"
	"github.com/go-vera/ledger-bank/pkg/errorspkg"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)

	return parsed
}

func duePayment(id int64, frequency domain.Frequency, next time.Time) domain.ScheduledPayment {
	return domain.ScheduledPayment{
		ID:            id,
		FromAccount:   "1000000001",
		ToAccount:     "1000000002",
		Amount:        "100.00",
		Frequency:     frequency,
		NextExecution: next,
		Active:        true,
	}
}

func TestCreate(t *testing.T) {
	now := mustParseTime(t, "2024-03-10T12:00:00Z")

	validArg := domain.CreateScheduledPaymentParams{
		FromAccount: "1000000001",
		ToAccount:   "1000000002",
		Amount:      "100.00",
		Frequency:   domain.FrequencyDaily,
	}

	testCases := []struct {
		name          string
		arg           domain.CreateScheduledPaymentParams
		buildStubs    func(repo *MockRepo)
		checkResponse func(payment domain.ScheduledPayment, err error)
	}{
		{
			name: "InvalidAmount",
			arg: domain.CreateScheduledPaymentParams{
				FromAccount: "1000000001",
				ToAccount:   "1000000002",
				Amount:      "!@#$",
				Frequency:   domain.FrequencyDaily,
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(payment domain.ScheduledPayment, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name: "NonPositiveAmount",
			arg: domain.CreateScheduledPaymentParams{
				FromAccount: "1000000001",
				ToAccount:   "1000000002",
				Amount:      "-5",
				Frequency:   domain.FrequencyDaily,
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(payment domain.ScheduledPayment, err error) {
				require.ErrorIs(t, err, domain.ErrNonPositiveAmount)
			},
		},
		{
			name: "InvalidFrequency",
			arg: domain.CreateScheduledPaymentParams{
				FromAccount: "1000000001",
				ToAccount:   "1000000002",
				Amount:      "100.00",
				Frequency:   domain.Frequency("FORTNIGHTLY"),
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(payment domain.ScheduledPayment, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidFrequency)
			},
		},
		{
			name: "RepoError",
			arg:  validArg,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.ScheduledPayment{}, errorspkg.ErrInternal)
			},
			checkResponse: func(payment domain.ScheduledPayment, err error) {
				require.EqualError(t, err, errorspkg.ErrInternal.Error())
			},
		},
		{
			// First execution lands one minute after creation.
			name: "OK",
			arg:  validArg,
			buildStubs: func(repo *MockRepo) {
				want := validArg
				want.NextExecution = now.Add(time.Minute)

				repo.EXPECT().Create(gomock.Any(), gomock.Eq(want)).
					Times(1).
					Return(duePayment(1, domain.FrequencyDaily, want.NextExecution), nil)
			},
			checkResponse: func(payment domain.ScheduledPayment, err error) {
				require.NoError(t, err)
				require.Equal(t, int64(1), payment.ID)
				require.True(t, payment.Active)
				require.Equal(t, now.Add(time.Minute), payment.NextExecution)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			ledger := NewMockLedger(ctrl)

			service := New(repo, ledger, time.Minute)
			service.now = func() time.Time { return now }

			tc.buildStubs(repo)

			tc.checkResponse(service.Create(context.Background(), tc.arg))
		})
	}
}

func TestCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo, NewMockLedger(ctrl), time.Minute)

	// Cancelling twice is a no-op the second time, not an error.
	repo.EXPECT().SetActive(gomock.Any(), gomock.Eq(int64(1)), gomock.Eq(false)).
		Times(2).
		Return(nil)
	repo.EXPECT().SetActive(gomock.Any(), gomock.Eq(int64(404)), gomock.Eq(false)).
		Times(1).
		Return(domain.ErrScheduledPaymentNotFound)

	require.NoError(t, service.Cancel(context.Background(), 1))
	require.NoError(t, service.Cancel(context.Background(), 1))
	require.ErrorIs(t, service.Cancel(context.Background(), 404), domain.ErrScheduledPaymentNotFound)
}

func TestSweep(t *testing.T) {
	now := mustParseTime(t, "2024-03-10T12:00:00Z")

	testCases := []struct {
		name       string
		buildStubs func(repo *MockRepo, ledger *MockLedger)
	}{
		{
			name: "NothingDue",
			buildStubs: func(repo *MockRepo, ledger *MockLedger) {
				repo.EXPECT().ListDue(gomock.Any(), gomock.Eq(now)).
					Times(1).
					Return(nil, nil)
				ledger.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
		},
		{
			// A daily payment due at 11:59 advances to 11:59 the next day,
			// anchored to its own schedule rather than the sweep time.
			name: "ExecutesAndAdvancesDaily",
			buildStubs: func(repo *MockRepo, ledger *MockLedger) {
				due := mustParseTime(t, "2024-03-10T11:59:00Z")
				payment := duePayment(1, domain.FrequencyDaily, due)

				repo.EXPECT().ListDue(gomock.Any(), gomock.Eq(now)).
					Times(1).
					Return([]domain.ScheduledPayment{payment}, nil)
				ledger.EXPECT().Transfer(gomock.Any(), gomock.Eq(payment.FromAccount), gomock.Eq(payment.ToAccount), gomock.Eq(payment.Amount)).
					Times(1).
					Return(true, nil)
				repo.EXPECT().UpdateNextExecution(gomock.Any(), gomock.Eq(int64(1)), gomock.Eq(due.AddDate(0, 0, 1))).
					Times(1).
					Return(nil)
			},
		},
		{
			name: "ExecutesAndAdvancesWeekly",
			buildStubs: func(repo *MockRepo, ledger *MockLedger) {
				due := mustParseTime(t, "2024-03-10T11:59:00Z")
				payment := duePayment(2, domain.FrequencyWeekly, due)

				repo.EXPECT().ListDue(gomock.Any(), gomock.Eq(now)).
					Times(1).
					Return([]domain.ScheduledPayment{payment}, nil)
				ledger.EXPECT().Transfer(gomock.Any(), gomock.Eq(payment.FromAccount), gomock.Eq(payment.ToAccount), gomock.Eq(payment.Amount)).
					Times(1).
					Return(true, nil)
				repo.EXPECT().UpdateNextExecution(gomock.Any(), gomock.Eq(int64(2)), gomock.Eq(due.AddDate(0, 0, 7))).
					Times(1).
					Return(nil)
			},
		},
		{
			name: "ExecutesAndAdvancesMonthly",
			buildStubs: func(repo *MockRepo, ledger *MockLedger) {
				due := mustParseTime(t, "2024-03-10T11:59:00Z")
				payment := duePayment(3, domain.FrequencyMonthly, due)

				repo.EXPECT().ListDue(gomock.Any(), gomock.Eq(now)).
					Times(1).
					Return([]domain.ScheduledPayment{payment}, nil)
				ledger.EXPECT().Transfer(gomock.Any(), gomock.Eq(payment.FromAccount), gomock.Eq(payment.ToAccount), gomock.Eq(payment.Amount)).
					Times(1).
					Return(true, nil)
				repo.EXPECT().UpdateNextExecution(gomock.Any(), gomock.Eq(int64(3)), gomock.Eq(due.AddDate(0, 1, 0))).
					Times(1).
					Return(nil)
			},
		},
		{
			// A rejected transfer leaves the payment untouched so the next
			// sweep retries it.
			name: "RejectedTransferLeftForRetry",
			buildStubs: func(repo *MockRepo, ledger *MockLedger) {
				payment := duePayment(4, domain.FrequencyDaily, now.Add(-time.Minute))

				repo.EXPECT().ListDue(gomock.Any(), gomock.Eq(now)).
					Times(1).
					Return([]domain.ScheduledPayment{payment}, nil)
				ledger.EXPECT().Transfer(gomock.Any(), gomock.Eq(payment.FromAccount), gomock.Eq(payment.ToAccount), gomock.Eq(payment.Amount)).
					Times(1).
					Return(false, nil)
				repo.EXPECT().UpdateNextExecution(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
		},
		{
			name: "TransferErrorLeftForRetry",
			buildStubs: func(repo *MockRepo, ledger *MockLedger) {
				payment := duePayment(5, domain.FrequencyDaily, now.Add(-time.Minute))

				repo.EXPECT().ListDue(gomock.Any(), gomock.Eq(now)).
					Times(1).
					Return([]domain.ScheduledPayment{payment}, nil)
				ledger.EXPECT().Transfer(gomock.Any(), gomock.Eq(payment.FromAccount), gomock.Eq(payment.ToAccount), gomock.Eq(payment.Amount)).
					Times(1).
					Return(false, errorspkg.ErrInternal)
				repo.EXPECT().UpdateNextExecution(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
		},
		{
			// One failing payment must not block the others in the batch.
			name: "FailureIsolatedPerPayment",
			buildStubs: func(repo *MockRepo, ledger *MockLedger) {
				due := now.Add(-time.Minute)
				failing := duePayment(6, domain.FrequencyDaily, due)
				healthy := duePayment(7, domain.FrequencyDaily, due)

				repo.EXPECT().ListDue(gomock.Any(), gomock.Eq(now)).
					Times(1).
					Return([]domain.ScheduledPayment{failing, healthy}, nil)
				ledger.EXPECT().Transfer(gomock.Any(), gomock.Eq(failing.FromAccount), gomock.Eq(failing.ToAccount), gomock.Eq(failing.Amount)).
					Times(1).
					Return(false, nil)
				ledger.EXPECT().Transfer(gomock.Any(), gomock.Eq(healthy.FromAccount), gomock.Eq(healthy.ToAccount), gomock.Eq(healthy.Amount)).
					Times(1).
					Return(true, nil)
				repo.EXPECT().UpdateNextExecution(gomock.Any(), gomock.Eq(int64(7)), gomock.Eq(due.AddDate(0, 0, 1))).
					Times(1).
					Return(nil)
			},
		},
		{
			name: "ListDueError",
			buildStubs: func(repo *MockRepo, ledger *MockLedger) {
				repo.EXPECT().ListDue(gomock.Any(), gomock.Eq(now)).
					Times(1).
					Return(nil, errorspkg.ErrInternal)
				ledger.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			ledger := NewMockLedger(ctrl)

			tc.buildStubs(repo, ledger)

			New(repo, ledger, time.Minute).Sweep(context.Background(), now)
		})
	}
}

func TestFrequencyNext(t *testing.T) {
	base := mustParseTime(t, "2024-01-31T09:00:00Z")

	require.Equal(t, mustParseTime(t, "2024-02-01T09:00:00Z"), domain.FrequencyDaily.Next(base))
	require.Equal(t, mustParseTime(t, "2024-02-07T09:00:00Z"), domain.FrequencyWeekly.Next(base))
	// AddDate normalizes Jan 31 + 1 month into March.
	require.Equal(t, mustParseTime(t, "2024-03-02T09:00:00Z"), domain.FrequencyMonthly.Next(base))
}
