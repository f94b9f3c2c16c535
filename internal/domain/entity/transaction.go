package entity

import (
	"strings"
	"time"
)

// TransactionType discriminates income from expense movements
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// DefaultCategory is applied when a transaction is created without one
const DefaultCategory = "other"

// Transaction represents a single dated money movement. Amount is always a
// non-negative magnitude; Type carries the direction. Callers outside the
// storage layer should use SignedAmount.
type Transaction struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Amount    float64         `json:"amount"`
	Type      TransactionType `json:"type"`
	Date      time.Time       `json:"date"`
	Category  string          `json:"category"`
	Notes     string          `json:"notes,omitempty"`
	AccountID string          `json:"accountId"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// SignedAmount returns the amount with its sign restored: positive for
// income, negative for expense.
func (t *Transaction) SignedAmount() float64 {
	if t.Type == TypeExpense {
		return -t.Amount
	}
	return t.Amount
}

// Validate ensures the transaction meets all requirements
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Reason: "title must not be empty"}
	}

	if len(t.Title) > 200 {
		return &ValidationError{Reason: "title must not exceed 200 characters"}
	}

	if t.Amount < 0 {
		return &ValidationError{Reason: "stored amount must not be negative"}
	}

	if t.Type != TypeIncome && t.Type != TypeExpense {
		return &ValidationError{Reason: "type must be income or expense"}
	}

	if t.Date.IsZero() {
		return &ValidationError{Reason: "date must be set"}
	}

	return nil
}
