// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountNumberAlreadyExists indicates that the account number is taken.
	ErrAccountNumberAlreadyExists = errors.New("account number already exists")
)

// AccountType is the product category of an account.
type AccountType string

// Supported account types.
const (
	AccountTypeSavings      AccountType = "SAVINGS"
	AccountTypeCurrent      AccountType = "CURRENT"
	AccountTypeFixedDeposit AccountType = "FIXED_DEPOSIT"
)

// Account holds balance and product data for a single account.
// The account number is assigned at onboarding and never changes.
type Account struct {
	Number       string      `json:"number"`
	SortCode     string      `json:"sort_code"`
	Type         AccountType `json:"type"`
	Balance      string      `json:"balance"`       // non-negative
	InterestRate string      `json:"interest_rate"` // annual fraction, e.g. 0.04
	CustomerID   int64       `json:"customer_id"`
	CreatedAt    time.Time   `json:"created_at"`
}

// CreateAccountParams is the input data to open an account.
type CreateAccountParams struct {
	Number       string      `json:"number"`
	SortCode     string      `json:"sort_code"`
	Type         AccountType `json:"type"`
	InterestRate string      `json:"interest_rate"`
	CustomerID   int64       `json:"customer_id"`
}
