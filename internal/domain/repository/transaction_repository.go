package repository

import (
	"context"
	"errors"

	"github.com/Fede1082/BudgetFlow/internal/domain/entity"
)

// ErrTransactionNotFound is returned when an id does not resolve to a transaction
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository defines the interface for transaction storage
type TransactionRepository interface {
	// Store saves a new transaction
	Store(ctx context.Context, tx *entity.Transaction) error

	// FindByID retrieves a transaction by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.Transaction, error)

	// FindAll retrieves all transactions ordered by date, newest first
	FindAll(ctx context.Context) ([]*entity.Transaction, error)

	// Update overwrites an existing transaction
	Update(ctx context.Context, tx *entity.Transaction) error

	// Delete removes a transaction by id
	Delete(ctx context.Context, id string) error
}
