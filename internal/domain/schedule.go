package domain

import (
	"errors"
	"time"
)

var (
	// ErrScheduledPaymentNotFound indicates that the scheduled payment is not found.
	ErrScheduledPaymentNotFound = errors.New("scheduled payment not found")
	// ErrInvalidFrequency indicates an unsupported recurrence frequency.
	ErrInvalidFrequency = errors.New("invalid frequency")
)

// Frequency is the recurrence cadence of a scheduled payment.
type Frequency string

// Supported frequencies.
const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// Next returns the execution time one period after t.
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	}

	return t
}

// Valid reports whether f is a supported frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}

	return false
}

// ScheduledPayment is a recurring transfer definition. It references
// accounts by number only; the accounts may be closed later, so there is
// no ownership relation. Cancelled payments are kept with Active=false,
// never deleted.
type ScheduledPayment struct {
	ID            int64     `json:"id"`
	FromAccount   string    `json:"from_account"`
	ToAccount     string    `json:"to_account"`
	Amount        string    `json:"amount"`
	Frequency     Frequency `json:"frequency"`
	NextExecution time.Time `json:"next_execution"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateScheduledPaymentParams is the input data to schedule a recurring transfer.
type CreateScheduledPaymentParams struct {
	FromAccount   string    `json:"from_account"`
	ToAccount     string    `json:"to_account"`
	Amount        string    `json:"amount"`
	Frequency     Frequency `json:"frequency"`
	NextExecution time.Time `json:"-"`
}
