// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/go-vera/ledger-bank/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Get(ctx context.Context, number string) (domain.Account, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int32) ([]domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account business logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Get returns the account with the given account number.
func (s *Service) Get(ctx context.Context, number string) (domain.Account, error) {
	account, err := s.repo.Get(ctx, number)
	if err != nil {
		return account, err
	}

	return account, nil
}

// List returns accounts that belong to the given customer.
func (s *Service) List(ctx context.Context, customerID int64, pageSize, pageID int32) ([]domain.Account, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	accounts, err := s.repo.ListByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}
