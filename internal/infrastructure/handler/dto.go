package handler

import (
	"time"

	"github.com/Fede1082/BudgetFlow/internal/domain/entity"
)

// CreateAccountRequest represents the request body for creating an account
type CreateAccountRequest struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

// UpdateAccountRequest represents a partial account update; omitted fields
// keep their previous values.
type UpdateAccountRequest struct {
	Name     *string  `json:"name"`
	Type     *string  `json:"type"`
	Balance  *float64 `json:"balance"`
	Currency *string  `json:"currency"`
}

// AccountResponse represents the response for account endpoints
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newAccountResponse(a *entity.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		Balance:   a.Balance,
		Currency:  a.Currency,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// TotalBalanceResponse represents the response for the total balance endpoint
type TotalBalanceResponse struct {
	TotalBalance float64 `json:"totalBalance"`
}

// CreateTransactionRequest represents the request body for creating a
// transaction. Amount is signed: positive for income, negative for expense.
type CreateTransactionRequest struct {
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Category  string  `json:"category"`
	Notes     string  `json:"notes"`
	AccountID string  `json:"accountId"`
}

// UpdateTransactionRequest represents a partial transaction update
type UpdateTransactionRequest struct {
	Title     *string  `json:"title"`
	Amount    *float64 `json:"amount"`
	Date      *string  `json:"date"`
	Category  *string  `json:"category"`
	Notes     *string  `json:"notes"`
	AccountID *string  `json:"accountId"`
}

// TransactionResponse represents the response for transaction endpoints.
// Amount is signed regardless of how the transaction is stored.
type TransactionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Type      string    `json:"type"`
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	Notes     string    `json:"notes,omitempty"`
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        tx.ID,
		Title:     tx.Title,
		Amount:    tx.SignedAmount(),
		Type:      string(tx.Type),
		Date:      tx.Date.Format("2006-01-02"),
		Category:  tx.Category,
		Notes:     tx.Notes,
		AccountID: tx.AccountID,
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
}

func newTransactionListResponse(txs []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = newTransactionResponse(tx)
	}
	return out
}

// DeleteResponse represents the response for delete endpoints
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description"`
	RequestID   string `json:"request_id"`
}
