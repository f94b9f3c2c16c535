package entity

import (
	"strings"
	"time"
)

// Default values applied when an account is created without them
const (
	DefaultAccountType = "checking"
	DefaultCurrency    = "EUR"
)

// ValidationError reports entity state rejected by Validate. Handlers map it
// to a client error rather than a server failure.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Account represents a named balance-bearing ledger record
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate ensures the account meets all requirements
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return &ValidationError{Reason: "account name must not be empty"}
	}

	if len(a.Name) > 100 {
		return &ValidationError{Reason: "account name must not exceed 100 characters"}
	}

	return nil
}
