package accountservice

import (
	"context"
	"testing"

	"github.com/go-vera/ledger-bank/internal/domain"
	"github.com/go-vera/ledger-bank/pkg/errorspkg"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	account := domain.Account{
		Number:     "1000000001",
		SortCode:   "10-20-30",
		Type:       domain.AccountTypeCurrent,
		Balance:    "1000",
		CustomerID: 1,
	}

	testCases := []struct {
		name          string
		number        string
		buildStubs    func(repo *MockRepo)
		checkResponse func(got domain.Account, err error)
	}{
		{
			name:   "NotFound",
			number: "0000000000",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq("0000000000")).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(got domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrAccountNotFound)
			},
		},
		{
			name:   "OK",
			number: account.Number,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(account.Number)).
					Times(1).
					Return(account, nil)
			},
			checkResponse: func(got domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, account, got)
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
			tc.buildStubs(repo)

			tc.checkResponse(New(repo).Get(context.Background(), tc.number))
		})
	}
}

func TestList(t *testing.T) {
	accounts := []domain.Account{
		{Number: "1000000001", CustomerID: 1},
		{Number: "1000000002", CustomerID: 1},
	}

	testCases := []struct {
		name          string
		pageSize      int32
		pageID        int32
		buildStubs    func(repo *MockRepo)
		checkResponse func(got []domain.Account, err error)
	}{
		{
			name:     "RepoError",
			pageSize: 10,
			pageID:   1,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListByCustomer(gomock.Any(), gomock.Eq(int64(1)), gomock.Eq(int32(10)), gomock.Eq(int32(0))).
					Times(1).
					Return(nil, errorspkg.ErrInternal)
			},
			checkResponse: func(got []domain.Account, err error) {
				require.EqualError(t, err, errorspkg.ErrInternal.Error())
				require.Nil(t, got)
			},
		},
		{
			name:     "SecondPageOffset",
			pageSize: 5,
			pageID:   3,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListByCustomer(gomock.Any(), gomock.Eq(int64(1)), gomock.Eq(int32(5)), gomock.Eq(int32(10))).
					Times(1).
					Return(nil, nil)
			},
			checkResponse: func(got []domain.Account, err error) {
				require.NoError(t, err)
			},
		},
		{
			name:     "OK",
			pageSize: 10,
			pageID:   1,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListByCustomer(gomock.Any(), gomock.Eq(int64(1)), gomock.Eq(int32(10)), gomock.Eq(int32(0))).
					Times(1).
					Return(accounts, nil)
			},
			checkResponse: func(got []domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, accounts, got)
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
			tc.buildStubs(repo)

			tc.checkResponse(New(repo).List(context.Background(), 1, tc.pageSize, tc.pageID))
		})
	}
}
