package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates that the amount is not a valid decimal.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNonPositiveAmount indicates a zero or negative amount.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// TransactionType is the kind of money movement a transaction records.
type TransactionType string

// Supported transaction types.
const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeTransfer TransactionType = "TRANSFER"
	TransactionTypeInterest TransactionType = "INTEREST"
)

// TransactionStatus is the outcome recorded on a transaction.
type TransactionStatus string

// Supported transaction statuses.
const (
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Transaction is one immutable record in the money-movement log.
// FromAccount is empty for DEPOSIT and INTEREST; ToAccount is empty
// for WITHDRAW.
type Transaction struct {
	ID          int64             `json:"id"`
	Type        TransactionType   `json:"type"`
	Amount      string            `json:"amount"` // must be positive
	FromAccount string            `json:"from_account,omitempty"`
	ToAccount   string            `json:"to_account,omitempty"`
	Status      TransactionStatus `json:"status"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
}

// CreateTransactionParams is the input data to append one log record.
type CreateTransactionParams struct {
	Type        TransactionType
	Amount      string
	FromAccount string
	ToAccount   string
	Status      TransactionStatus
	Description string
}

// ListTransactionsParams is the input data to page through an account's log.
type ListTransactionsParams struct {
	Account string
	Limit   int32
	Offset  int32
}

// TransferTxResult is the result of the transfer transaction.
type TransferTxResult struct {
	Transaction Transaction `json:"transaction"`
	FromAccount Account     `json:"from_account"`
	ToAccount   Account     `json:"to_account"`
}
